package repository

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/folder-tasks/internal/constants"
	"github.com/yukikurage/folder-tasks/internal/models"
	"gorm.io/gorm"
)

func TestFolderRepository_DeleteUnfilesTasks(t *testing.T) {
	db := newTestDB(t)
	folders := NewFolderRepository(db)
	prefs := NewPreferenceRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "owner")
	folder := createFolder(t, db, user.ID, "Errands")
	kept := createFolder(t, db, user.ID, "Work")
	filed := createTask(t, db, models.Task{Title: "Post letter", UserID: user.ID, FolderID: &folder.ID})
	other := createTask(t, db, models.Task{Title: "Report", UserID: user.ID, FolderID: &kept.ID})

	require.NoError(t, prefs.Set(ctx, user.ID, constants.PrefCurrentFolderID, strconv.FormatUint(folder.ID, 10)))

	require.NoError(t, folders.Delete(ctx, folder))

	_, err := folders.FindByID(ctx, folder.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var reloaded models.Task
	require.NoError(t, db.First(&reloaded, filed.ID).Error)
	assert.Nil(t, reloaded.FolderID)

	var untouched models.Task
	require.NoError(t, db.First(&untouched, other.ID).Error)
	require.NotNil(t, untouched.FolderID)
	assert.Equal(t, kept.ID, *untouched.FolderID)

	_, err = prefs.Get(ctx, user.ID, constants.PrefCurrentFolderID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFolderRepository_DeleteKeepsOtherCurrentFolder(t *testing.T) {
	db := newTestDB(t)
	folders := NewFolderRepository(db)
	prefs := NewPreferenceRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "owner")
	doomed := createFolder(t, db, user.ID, "Old")
	current := createFolder(t, db, user.ID, "Current")
	require.NoError(t, prefs.Set(ctx, user.ID, constants.PrefCurrentFolderID, strconv.FormatUint(current.ID, 10)))

	require.NoError(t, folders.Delete(ctx, doomed))

	pref, err := prefs.Get(ctx, user.ID, constants.PrefCurrentFolderID)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(current.ID, 10), pref.Value)
}

func TestFolderRepository_FindOwnedAndList(t *testing.T) {
	db := newTestDB(t)
	folders := NewFolderRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	stranger := createUser(t, db, "stranger")
	folder := createFolder(t, db, owner.ID, "Home")
	createFolder(t, db, stranger.ID, "Theirs")

	found, err := folders.FindOwned(ctx, folder.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Home", found.Name)

	_, err = folders.FindOwned(ctx, folder.ID, stranger.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	list, err := folders.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, folder.ID, list[0].ID)
}
