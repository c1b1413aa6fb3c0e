package repo

import (
	"context"
	"testing"
	"time"

	"github.com/linguachat/go-lingua-backend/internal/domain"
)

func strptr(s string) *string { return &s }

func TestCreateMessage_ReturnsPersistedRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	room, _ := EnsurePublicRoom(ctx, db, "Global Chat")

	m, err := CreateMessage(ctx, db, room.ID, strptr("u1"), strptr("Ana"), "hola", "hello", "es")
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if m.ID == "" {
		t.Fatal("expected server-assigned identity")
	}

	history, err := ListMessages(ctx, db, room.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(history) != 1 || history[0].ID != m.ID {
		t.Fatalf("persisted row not readable: %+v", history)
	}
	got := history[0]
	if got.Text != "hola" || got.Translation != "hello" || got.Language != "es" {
		t.Fatalf("unexpected message: %+v", got)
	}
	if got.SenderName == nil || *got.SenderName != "Ana" {
		t.Fatalf("sender name snapshot not stored: %+v", got.SenderName)
	}
}

func TestCreateMessage_AnonymousSender(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	room, _ := EnsurePublicRoom(ctx, db, "Global Chat")
	m, err := CreateMessage(ctx, db, room.ID, nil, nil, "hi", "hola", "en")
	if err != nil {
		t.Fatalf("CreateMessage anonymous: %v", err)
	}
	if m.SenderID != nil {
		t.Fatalf("expected nil sender, got %v", *m.SenderID)
	}
}

func TestListMessages_OrderedByCreationAscending(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	room, _ := EnsurePublicRoom(ctx, db, "Global Chat")

	// Insert out of order with explicit timestamps.
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	rows := []domain.Message{
		{ID: "m-b", RoomID: room.ID, Text: "b", Translation: "b", CreatedAt: base.Add(time.Minute)},
		{ID: "m-a", RoomID: room.ID, Text: "a", Translation: "a", CreatedAt: base},
		{ID: "m-c", RoomID: room.ID, Text: "c", Translation: "c", CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := ListMessages(ctx, db, room.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"m-a", "m-b", "m-c"} {
		if got[i].ID != want {
			t.Errorf("got[%d].ID = %s, want %s", i, got[i].ID, want)
		}
	}

	n, err := CountMessages(ctx, db, room.ID)
	if err != nil {
		t.Fatalf("CountMessages: %v", err)
	}
	if n != 3 {
		t.Fatalf("CountMessages = %d, want 3", n)
	}
}

func TestCountMessages_MissingTableSurfacesError(t *testing.T) {
	db := newTestDB(t)
	db.Exec("DROP TABLE messages")
	if _, err := CountMessages(context.Background(), db, "r1"); err == nil {
		t.Fatal("expected error for missing table")
	}
}
