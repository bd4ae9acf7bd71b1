package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/yukikurage/folder-tasks/internal/constants"
	"github.com/yukikurage/folder-tasks/internal/repository"
	"gorm.io/gorm"
)

// PreferenceStore reads and writes the settings of a single user
type PreferenceStore interface {
	// Get returns the stored value for key, or def when nothing is stored
	Get(ctx context.Context, key, def string) (string, error)

	// Set stores value under key
	Set(ctx context.Context, key, value string) error

	// Forget removes key so later reads return their default
	Forget(ctx context.Context, key string) error

	// Bool reads key as a boolean; unparsable values yield def
	Bool(ctx context.Context, key string, def bool) (bool, error)

	// CurrentFolderID returns the selected folder, nil for General
	CurrentFolderID(ctx context.Context) (*uint64, error)
}

// PreferenceService hands out per-user preference stores
type PreferenceService struct {
	prefRepo repository.PreferenceRepository
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(prefRepo repository.PreferenceRepository) *PreferenceService {
	return &PreferenceService{prefRepo: prefRepo}
}

// For returns the preference store of userID
func (s *PreferenceService) For(userID uint64) *UserPreferences {
	return &UserPreferences{
		prefRepo: s.prefRepo,
		userID:   userID,
	}
}

// UserPreferences is the PreferenceStore of one user
type UserPreferences struct {
	prefRepo repository.PreferenceRepository
	userID   uint64
}

// Get returns the stored value for key, or def when nothing is stored
func (p *UserPreferences) Get(ctx context.Context, key, def string) (string, error) {
	pref, err := p.prefRepo.Get(ctx, p.userID, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return def, nil
		}
		return "", fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return pref.Value, nil
}

// Set stores value under key
func (p *UserPreferences) Set(ctx context.Context, key, value string) error {
	if err := p.prefRepo.Set(ctx, p.userID, key, value); err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

// Forget removes key
func (p *UserPreferences) Forget(ctx context.Context, key string) error {
	if err := p.prefRepo.Delete(ctx, p.userID, key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

// Bool reads key as a boolean
func (p *UserPreferences) Bool(ctx context.Context, key string, def bool) (bool, error) {
	raw, err := p.Get(ctx, key, strconv.FormatBool(def))
	if err != nil {
		return def, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, nil
	}
	return v, nil
}

// CurrentFolderID returns the selected folder, nil for General
func (p *UserPreferences) CurrentFolderID(ctx context.Context) (*uint64, error) {
	raw, err := p.Get(ctx, constants.PrefCurrentFolderID, "")
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, nil
	}
	return &id, nil
}
