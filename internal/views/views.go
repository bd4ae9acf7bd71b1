// Package views holds the HTML templates rendered by the handlers.
package views

import (
	"embed"
	"html/template"
)

//go:embed templates
var files embed.FS

var funcs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"inFolder": func(folderID *uint64, id uint64) bool {
		return folderID != nil && *folderID == id
	},
}

// Load parses every template. Templates are addressed by their define name,
// e.g. "tasks/index".
func Load() (*template.Template, error) {
	return template.New("views").Funcs(funcs).ParseFS(files,
		"templates/*.html",
		"templates/*/*.html",
	)
}

// MustLoad is Load for program start-up
func MustLoad() *template.Template {
	return template.Must(Load())
}
