// Package resource describes the CRUD resources served by the application:
// their display names, view templates and route paths.
package resource

import (
	"strconv"
	"strings"
)

// Descriptor names everything derived from one resource
type Descriptor struct {
	// Name is the plural, lower-case resource name, e.g. "tasks"
	Name string
	// Singular is the lower-case singular name, e.g. "task"
	Singular string
	// ViewNamespace prefixes the resource's templates, e.g. "tasks" -> "tasks/index"
	ViewNamespace string
	// RouteName is the URL path of the index, e.g. "/tasks"
	RouteName string
}

var (
	Tasks = Descriptor{
		Name:          "tasks",
		Singular:      "task",
		ViewNamespace: "tasks",
		RouteName:     "/tasks",
	}

	Folders = Descriptor{
		Name:          "folders",
		Singular:      "folder",
		ViewNamespace: "folders",
		RouteName:     "/folders",
	}
)

// Title is the capitalized plural name, e.g. "Tasks"
func (d Descriptor) Title() string {
	return capitalize(d.Name)
}

// SingularTitle is the capitalized singular name, e.g. "Task"
func (d Descriptor) SingularTitle() string {
	return capitalize(d.Singular)
}

// View returns the template name of an action, e.g. "tasks/edit"
func (d Descriptor) View(action string) string {
	return d.ViewNamespace + "/" + action
}

// IndexPath is the URL of the listing
func (d Descriptor) IndexPath() string {
	return d.RouteName
}

// Path returns the URL of one record, optionally followed by an action segment
func (d Descriptor) Path(id uint64, action string) string {
	p := d.RouteName + "/" + strconv.FormatUint(id, 10)
	if action != "" {
		p += "/" + action
	}
	return p
}

// ActionTitle builds page titles such as "Edit task"
func (d Descriptor) ActionTitle(verb string) string {
	return verb + " " + d.Singular
}

// Flash builds confirmation messages such as "Task created."
func (d Descriptor) Flash(pastVerb string) string {
	return d.SingularTitle() + " " + pastVerb + "."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
