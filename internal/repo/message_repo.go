// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linguachat/go-lingua-backend/internal/domain"
)

// CreateMessage inserts a new message row and returns the persisted record
// including its server-assigned identity. senderID and senderName may be nil
// for anonymous senders in the public room; senderName is stored as a
// snapshot and never resolved against the profiles table afterwards.
func CreateMessage(ctx context.Context, db *gorm.DB, roomID string, senderID, senderName *string, text, translation, lang string) (*domain.Message, error) {
	m := &domain.Message{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		SenderID:    senderID,
		SenderName:  senderName,
		Text:        text,
		Translation: translation,
		Language:    lang,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns the full message history for a room ordered
// deterministically (CreatedAt ASC, ID ASC). The load is intentionally
// unpaginated: the read query contract is "all messages for a room".
func ListMessages(ctx context.Context, db *gorm.DB, roomID string) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(ctx context.Context, db *gorm.DB, roomID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM messages WHERE room_id = ? AND deleted_at IS NULL", roomID).
		Scan(&total).Error
	return total, err
}
