// Package services – RoomService
//
// This file implements RoomService, which manages the lifecycle of chat
// rooms. It validates and normalizes room names, enforces ownership rules
// for rename/delete, coordinates the paginated listing of visible rooms,
// and guarantees the public room exists at startup.
//
// Service-level errors (e.g., ErrRoomNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linguachat/go-lingua-backend/internal/domain"
	"github.com/linguachat/go-lingua-backend/internal/repo"
)

// RoomService provides room-level operations: creating, listing, renaming,
// and deleting rooms, plus ensuring the shared public room exists.
type RoomService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// PublicRoomName is the canonical name of the shared public room.
	PublicRoomName string

	// NameMaxLen caps stored room names by rune length.
	NameMaxLen int
}

// NewRoomService constructs a RoomService with sane defaults.
func NewRoomService(db *gorm.DB, publicRoomName string) *RoomService {
	return &RoomService{
		DB:             db,
		PublicRoomName: publicRoomName,
		NameMaxLen:     80,
	}
}

// EnsureDefault guarantees the public room exists, creating it on first
// startup. Safe to call on every boot.
func (s *RoomService) EnsureDefault(ctx context.Context) (*domain.ChatRoom, error) {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "EnsureDefault")
	defer span.End()

	return repo.EnsurePublicRoom(ctx, s.DB, s.PublicRoomName)
}

// Create inserts a new private room owned by ownerID with the provided name.
// Names are trimmed and clipped; blank names are rejected.
func (s *RoomService) Create(ctx context.Context, ownerID, name string) (*domain.ChatRoom, error) {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("owner.id", ownerID)),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyRoomName
	}
	return repo.CreateRoom(ctx, s.DB, ownerID, s.clip(name))
}

// Get fetches a room by ID.
func (s *RoomService) Get(ctx context.Context, id string) (*domain.ChatRoom, error) {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("room.id", id)),
	)
	defer span.End()

	room, err := repo.GetRoom(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	return room, err
}

// ListPage returns one page of rooms visible to profileID (the public room
// plus rooms they own) together with the total count for pagination.
func (s *RoomService) ListPage(ctx context.Context, profileID string, page, pageSize int) ([]domain.ChatRoom, int64, error) {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("profile.id", profileID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	total, err := repo.CountRooms(ctx, s.DB, profileID)
	if err != nil {
		return nil, 0, err
	}
	rooms, err := repo.ListRoomsPage(ctx, s.DB, profileID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

// Rename updates a room's name, only if ownerID owns it. The public room
// cannot be renamed through this path since it has no owner.
func (s *RoomService) Rename(ctx context.Context, id, ownerID, name string) error {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "Rename",
		trace.WithAttributes(
			attribute.String("room.id", id),
			attribute.String("owner.id", ownerID),
		),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyRoomName
	}
	err := repo.RenameRoom(ctx, s.DB, id, ownerID, s.clip(name))
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRoomNotFound
	}
	return err
}

// Delete removes a room owned by ownerID. The public room is never deleted.
func (s *RoomService) Delete(ctx context.Context, id, ownerID string) error {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("room.id", id),
			attribute.String("owner.id", ownerID),
		),
	)
	defer span.End()

	err := repo.DeleteRoom(ctx, s.DB, id, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRoomNotFound
	}
	return err
}

func (s *RoomService) clip(name string) string {
	if s.NameMaxLen <= 0 || utf8.RuneCountInString(name) <= s.NameMaxLen {
		return name
	}
	runes := []rune(name)
	return strings.TrimSpace(string(runes[:s.NameMaxLen]))
}
