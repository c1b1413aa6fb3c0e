// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the ChatRoom
// model, including the lazy creation of the single public room.
//
// Error semantics:
//   - When a room is not found, functions return gorm.ErrRecordNotFound
//     (also exported in this package as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linguachat/go-lingua-backend/internal/domain"
)

// CreateRoom inserts a new private room owned by ownerID.
func CreateRoom(ctx context.Context, db *gorm.DB, ownerID, name string) (*domain.ChatRoom, error) {
	r := &domain.ChatRoom{
		ID:        uuid.NewString(),
		Name:      name,
		IsPublic:  false,
		OwnerID:   &ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// EnsurePublicRoom returns the public room, creating it with the given name
// if no public room exists yet. The create-on-miss keeps the "exactly one
// public room" invariant without requiring a seed migration; a concurrent
// creator losing the race falls back to re-reading the winner's row.
func EnsurePublicRoom(ctx context.Context, db *gorm.DB, name string) (*domain.ChatRoom, error) {
	var r domain.ChatRoom
	err := db.WithContext(ctx).Where("is_public = ?", true).First(&r).Error
	if err == nil {
		return &r, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	created := &domain.ChatRoom{
		ID:        uuid.NewString(),
		Name:      name,
		IsPublic:  true,
		OwnerID:   nil,
		CreatedAt: time.Now().UTC(),
	}
	if cerr := db.WithContext(ctx).Create(created).Error; cerr != nil {
		// Another client may have created the public room concurrently.
		if rerr := db.WithContext(ctx).Where("is_public = ?", true).First(&r).Error; rerr == nil {
			return &r, nil
		}
		return nil, cerr
	}
	return created, nil
}

// GetRoom fetches a room by ID, or ErrNotFound if missing.
func GetRoom(ctx context.Context, db *gorm.DB, id string) (*domain.ChatRoom, error) {
	var r domain.ChatRoom
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// CountRooms returns the total number of rooms visible to profileID:
// the public room plus the private rooms it owns.
func CountRooms(ctx context.Context, db *gorm.DB, profileID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ChatRoom{}).
		Where("is_public = ? OR owner_id = ?", true, profileID).
		Count(&total).Error
	return total, err
}

// ListRoomsPage returns a paginated slice of rooms visible to profileID,
// public room first, then private rooms by creation time descending.
func ListRoomsPage(ctx context.Context, db *gorm.DB, profileID string, offset, limit int) ([]domain.ChatRoom, error) {
	var out []domain.ChatRoom
	err := db.WithContext(ctx).
		Where("is_public = ? OR owner_id = ?", true, profileID).
		Order("is_public DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// RenameRoom updates the name of a room owned by ownerID. If no rows are
// affected (room missing, public, or not owned), it returns ErrNotFound.
// Rename is the only permitted mutation of a room row.
func RenameRoom(ctx context.Context, db *gorm.DB, id, ownerID, name string) error {
	res := db.WithContext(ctx).
		Model(&domain.ChatRoom{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteRoom soft-deletes a private room owned by ownerID. Returns
// ErrNotFound when the room does not exist or is not owned by ownerID;
// the public room cannot be deleted through this path.
func DeleteRoom(ctx context.Context, db *gorm.DB, id, ownerID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND is_public = ?", id, ownerID, false).
		Delete(&domain.ChatRoom{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
