// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Profile
// model.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linguachat/go-lingua-backend/internal/domain"
)

// CreateProfile inserts a profile row for the given identity. The ID comes
// from the external identity provider; ShareID is generated here.
func CreateProfile(ctx context.Context, db *gorm.DB, id string, displayName *string) (*domain.Profile, error) {
	p := &domain.Profile{
		ID:          id,
		DisplayName: displayName,
		ShareID:     uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfile fetches a profile by ID, or ErrNotFound if missing.
func GetProfile(ctx context.Context, db *gorm.DB, id string) (*domain.Profile, error) {
	var p domain.Profile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile applies the given column updates to a profile. Returns
// ErrNotFound when the profile does not exist.
func UpdateProfile(ctx context.Context, db *gorm.DB, id string, updates map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EnsureProfile guarantees a profile row exists for the given identity,
// creating it on first contact. A non-nil displayName refreshes the stored
// display name when it differs.
func EnsureProfile(ctx context.Context, db *gorm.DB, id string, displayName *string) (*domain.Profile, error) {
	p, err := GetProfile(ctx, db, id)
	switch {
	case err == nil:
		if displayName != nil && (p.DisplayName == nil || *p.DisplayName != *displayName) {
			if uerr := UpdateProfile(ctx, db, id, map[string]any{"display_name": *displayName}); uerr != nil {
				return nil, uerr
			}
			p.DisplayName = displayName
		}
		return p, nil
	case errors.Is(err, ErrNotFound):
		created, cerr := CreateProfile(ctx, db, id, displayName)
		if cerr != nil {
			// lost a concurrent first-contact race; the winner's row serves
			return GetProfile(ctx, db, id)
		}
		return created, nil
	default:
		return nil, err
	}
}
