package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTasksDescriptor(t *testing.T) {
	assert.Equal(t, "Tasks", Tasks.Title())
	assert.Equal(t, "Task", Tasks.SingularTitle())
	assert.Equal(t, "tasks/index", Tasks.View("index"))
	assert.Equal(t, "/tasks", Tasks.IndexPath())
	assert.Equal(t, "/tasks/42/edit", Tasks.Path(42, "edit"))
	assert.Equal(t, "/tasks/42", Tasks.Path(42, ""))
	assert.Equal(t, "Edit task", Tasks.ActionTitle("Edit"))
	assert.Equal(t, "Task created.", Tasks.Flash("created"))
}

func TestFoldersDescriptor(t *testing.T) {
	assert.Equal(t, "Folders", Folders.Title())
	assert.Equal(t, "folders/index", Folders.View("index"))
	assert.Equal(t, "Folder deleted.", Folders.Flash("deleted"))
}
