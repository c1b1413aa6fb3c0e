// Package services – PresenceService
//
// This file implements PresenceService, which records heartbeats, prunes
// stale presence rows, and lists the users currently active in a room.
// A presence row is considered fresh while its heartbeat is younger than
// the configured TTL. Cleanup is cooperative: any caller may trigger it
// and concurrent invocations are harmless.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linguachat/go-lingua-backend/internal/domain"
	"github.com/linguachat/go-lingua-backend/internal/feed"
	"github.com/linguachat/go-lingua-backend/internal/repo"
)

// PresenceService owns the presence lifecycle: heartbeat upserts, stale-row
// cleanup, and active-user listings.
type PresenceService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// TTL is the heartbeat age beyond which a row counts as stale.
	TTL time.Duration
	// Publisher receives a presence change event after each heartbeat.
	// May be nil in contexts without a live feed.
	Publisher Publisher
}

// NewPresenceService constructs a PresenceService.
func NewPresenceService(db *gorm.DB, ttl time.Duration, pub Publisher) *PresenceService {
	return &PresenceService{DB: db, TTL: ttl, Publisher: pub}
}

// Heartbeat upserts the presence row for (profileID, roomID) and publishes
// a presence change to the feed. Blank identifiers are a silent no-op so
// callers on a timer need no guard of their own.
func (s *PresenceService) Heartbeat(ctx context.Context, profileID, roomID string) error {
	tr := otel.Tracer("services/PresenceService")
	ctx, span := tr.Start(ctx, "Heartbeat",
		trace.WithAttributes(
			attribute.String("profile.id", profileID),
			attribute.String("room.id", roomID),
		),
	)
	defer span.End()

	if profileID == "" || roomID == "" {
		return nil
	}
	// First contact creates the profile row; presence rows reference it.
	if _, err := repo.EnsureProfile(ctx, s.DB, profileID, nil); err != nil {
		return err
	}
	if err := repo.UpsertPresence(ctx, s.DB, profileID, roomID); err != nil {
		return err
	}
	if s.Publisher != nil {
		s.Publisher.Publish(feed.Event{
			Table:  feed.TablePresence,
			Type:   feed.EventUpdate,
			RoomID: roomID,
		})
	}
	return nil
}

// CleanupStale prunes presence rows older than the TTL across all rooms and
// returns the number of removed rows.
func (s *PresenceService) CleanupStale(ctx context.Context) (int64, error) {
	tr := otel.Tracer("services/PresenceService")
	ctx, span := tr.Start(ctx, "CleanupStale")
	defer span.End()

	return repo.CleanupStalePresence(ctx, s.DB, s.TTL)
}

// ListActive returns the fresh presence rows for roomID, most recent
// heartbeat first, with profile display data preloaded. Callers that want
// the canonical "cleanup then list" poll sequence invoke CleanupStale first.
func (s *PresenceService) ListActive(ctx context.Context, roomID string) ([]domain.Presence, error) {
	tr := otel.Tracer("services/PresenceService")
	ctx, span := tr.Start(ctx, "ListActive",
		trace.WithAttributes(attribute.String("room.id", roomID)),
	)
	defer span.End()

	return repo.ListActivePresence(ctx, s.DB, roomID, s.TTL)
}
