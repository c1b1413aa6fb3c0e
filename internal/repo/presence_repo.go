// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Presence
// model: the heartbeat upsert, the staleness cleanup, and the active-user
// listing joined with profile display data.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/linguachat/go-lingua-backend/internal/domain"
)

// UpsertPresence records a heartbeat for (profileID, roomID), creating the
// row on first contact and bumping LastSeen afterwards. The operation is
// idempotent: repeated calls within the same instant converge on one row
// per (profile, room) pair.
func UpsertPresence(ctx context.Context, db *gorm.DB, profileID, roomID string) error {
	p := &domain.Presence{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		RoomID:    roomID,
		LastSeen:  time.Now().UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "room_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_seen"}),
		}).
		Create(p).Error
}

// CleanupStalePresence removes presence rows whose heartbeat is older than
// ttl. Any active client may invoke it; concurrent calls are harmless since
// the delete predicate is idempotent. Returns the number of pruned rows.
func CleanupStalePresence(ctx context.Context, db *gorm.DB, ttl time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-ttl)
	res := db.WithContext(ctx).
		Where("last_seen < ?", cutoff).
		Delete(&domain.Presence{})
	return res.RowsAffected, res.Error
}

// ListActivePresence returns presence rows for roomID with heartbeat age
// below ttl, preloading the associated profile for display. Ordering is by
// most recent heartbeat first.
func ListActivePresence(ctx context.Context, db *gorm.DB, roomID string, ttl time.Duration) ([]domain.Presence, error) {
	cutoff := time.Now().UTC().Add(-ttl)
	var out []domain.Presence
	err := db.WithContext(ctx).
		Preload("Profile").
		Where("room_id = ? AND last_seen >= ?", roomID, cutoff).
		Order("last_seen DESC").
		Find(&out).Error
	return out, err
}
