package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/linguachat/go-lingua-backend/internal/domain"
	"github.com/linguachat/go-lingua-backend/internal/feed"
	"github.com/linguachat/go-lingua-backend/internal/repo"
)

func seedProfile(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	if _, err := repo.CreateProfile(context.Background(), db, id, strptr(name)); err != nil {
		t.Fatalf("CreateProfile %s: %v", id, err)
	}
}

func TestPresenceService_Heartbeat_UpsertsAndPublishes(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedProfile(t, db, "u1", "Ana")

	pub := &capturingPublisher{}
	svc := NewPresenceService(db, 5*time.Minute, pub)

	if err := svc.Heartbeat(ctx, "u1", "r1"); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if err := svc.Heartbeat(ctx, "u1", "r1"); err != nil {
		t.Fatalf("Heartbeat (again): %v", err)
	}

	var count int64
	if err := db.Model(&domain.Presence{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("presence rows = %d, want 1 (upsert)", count)
	}

	if len(pub.events) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.events))
	}
	for _, ev := range pub.events {
		if ev.Table != feed.TablePresence || ev.Type != feed.EventUpdate || ev.RoomID != "r1" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	}
}

func TestPresenceService_Heartbeat_FirstContactCreatesProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	svc := NewPresenceService(db, 5*time.Minute, nil)

	// No seedProfile: the heartbeat itself must create the row the
	// presence record references.
	if err := svc.Heartbeat(ctx, "newcomer", "r1"); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}

	p, err := repo.GetProfile(ctx, db, "newcomer")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.DisplayName != nil {
		t.Fatalf("DisplayName = %q, want nil on first contact", *p.DisplayName)
	}

	var count int64
	if err := db.Model(&domain.Presence{}).Where("profile_id = ?", "newcomer").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("presence rows = %d, want 1", count)
	}
}

func TestPresenceService_Heartbeat_BlankIDsAreNoOp(t *testing.T) {
	db := newTestDB(t)
	pub := &capturingPublisher{}
	svc := NewPresenceService(db, 5*time.Minute, pub)

	if err := svc.Heartbeat(context.Background(), "", "r1"); err != nil {
		t.Fatalf("blank profile: %v", err)
	}
	if err := svc.Heartbeat(context.Background(), "u1", ""); err != nil {
		t.Fatalf("blank room: %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("no-op heartbeats published %d events", len(pub.events))
	}
}

func TestPresenceService_CleanupThenListActive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedProfile(t, db, "fresh", "Fresh")
	seedProfile(t, db, "stale", "Stale")

	now := time.Now().UTC()
	rows := []domain.Presence{
		{ID: "p1", ProfileID: "fresh", RoomID: "r1", LastSeen: now},
		{ID: "p2", ProfileID: "stale", RoomID: "r1", LastSeen: now.Add(-10 * time.Minute)},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed presence: %v", err)
	}

	svc := NewPresenceService(db, 5*time.Minute, nil)

	pruned, err := svc.CleanupStale(ctx)
	if err != nil {
		t.Fatalf("CleanupStale: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("pruned = %d, want 1", pruned)
	}

	active, err := svc.ListActive(ctx, "r1")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 || active[0].ProfileID != "fresh" {
		t.Fatalf("active = %+v, want only fresh", active)
	}
	if active[0].Profile.DisplayName == nil || *active[0].Profile.DisplayName != "Fresh" {
		t.Fatalf("profile not preloaded: %+v", active[0].Profile)
	}
}
