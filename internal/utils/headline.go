package utils

import (
	"strings"
	"unicode"
)

// Headline turns a snake_case or dotted identifier into space-separated title words,
// e.g. "due_date" -> "Due Date"
func Headline(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})

	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}
