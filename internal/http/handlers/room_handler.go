// Room HTTP handlers.
//
// This file exposes REST endpoints for room resources:
//   - POST   /rooms            (create)
//   - GET    /rooms            (list, paginated)
//   - PUT    /rooms/{id}/name  (rename)
//   - DELETE /rooms/{id}       (delete)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. Service contracts for all
// endpoints in the package are declared here alongside the Handlers wiring.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linguachat/go-lingua-backend/internal/domain"
	"github.com/linguachat/go-lingua-backend/internal/feed"
	"github.com/linguachat/go-lingua-backend/internal/services"
	"github.com/linguachat/go-lingua-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RoomService defines room lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RoomService interface {
	// EnsureDefault returns the shared public room, creating it if needed.
	EnsureDefault(ctx context.Context) (*domain.ChatRoom, error)
	// Create starts a new private room owned by ownerID.
	Create(ctx context.Context, ownerID, name string) (*domain.ChatRoom, error)
	// Get fetches a room by ID.
	Get(ctx context.Context, id string) (*domain.ChatRoom, error)
	// ListPage returns a page of rooms visible to profileID and the total count.
	ListPage(ctx context.Context, profileID string, page, pageSize int) ([]domain.ChatRoom, int64, error)
	// Rename updates a room name, enforcing ownership.
	Rename(ctx context.Context, id, ownerID, name string) error
	// Delete removes an owned room; the public room is never deleted.
	Delete(ctx context.Context, id, ownerID string) error
}

// MessageService defines message retrieval and delivery operations.
type MessageService interface {
	// Send validates, translates, persists, and publishes one message.
	Send(ctx context.Context, roomID string, senderID, senderName *string, text string) (*domain.Message, error)
	// List returns the full ordered history of a room.
	List(ctx context.Context, roomID string) ([]domain.Message, error)
}

// PresenceService defines the presence heartbeat/cleanup/list operations.
type PresenceService interface {
	// Heartbeat upserts the caller's presence row for a room.
	Heartbeat(ctx context.Context, profileID, roomID string) error
	// CleanupStale prunes presence rows older than the freshness TTL.
	CleanupStale(ctx context.Context) (int64, error)
	// ListActive returns fresh presence rows for a room.
	ListActive(ctx context.Context, roomID string) ([]domain.Presence, error)
}

// ChangeFeed exposes per-room change subscriptions for the SSE stream.
// Satisfied by *feed.Broker.
type ChangeFeed interface {
	Subscribe(roomID string) (*feed.Subscription, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for rooms, messages, presence, and the
// change stream. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	roomSvc     RoomService
	msgSvc      MessageService
	presenceSvc PresenceService
	changes     ChangeFeed
}

// New constructs and returns a Handlers instance bound to the given services.
func New(roomSvc RoomService, msgSvc MessageService, presenceSvc PresenceService, changes ChangeFeed) *Handlers {
	return &Handlers{roomSvc: roomSvc, msgSvc: msgSvc, presenceSvc: presenceSvc, changes: changes}
}

// profileID extracts the authenticated profile id from Gin context (set by
// upstream middleware). If absent, it falls back to the "X-Profile-ID" header.
// An empty result means the caller is anonymous; endpoints that require an
// identity reject those requests themselves.
func profileID(c *gin.Context) string {
	if v, ok := c.Get("profileID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		return strings.TrimSpace(c.GetHeader("X-Profile-ID"))
	}
	return ""
}

//
// DTOs
//

// CreateRoomRequest is the JSON payload for creating a room.
type CreateRoomRequest struct {
	// Name is the room display name.
	Name string `json:"name" binding:"required,min=1,max=255" example:"Práctica de español"`
}

// RenameRoomRequest is the JSON payload for renaming a room.
type RenameRoomRequest struct {
	// Name is the new room name (1–255 chars).
	Name string `json:"name" binding:"required,min=1,max=255" example:"Spanish practice"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListRoomsResponse wraps a page of rooms and pagination information.
type ListRoomsResponse struct {
	Rooms      []domain.ChatRoom `json:"rooms"`
	Pagination Pagination        `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// CreateRoom godoc
// @ID          createRoom
// @Summary     Create a new room
// @Description Creates a private room owned by the current profile.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       X-Profile-ID  header  string  true  "Profile ID"  example(user123)
// @Param       body          body    handlers.CreateRoomRequest  true  "Create room payload"
//
// @Success     201  {object}  domain.ChatRoom
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing profile"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /rooms [post]
func (h *Handlers) CreateRoom(c *gin.Context) {
	pid := profileID(c)
	if pid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "profile id required")
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	room, err := h.roomSvc.Create(c.Request.Context(), pid, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmptyRoomName) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room name required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, room)
}

// DefaultRoom godoc
// @ID          defaultRoom
// @Summary     Get the public room
// @Description Returns the shared public room, creating it lazily on first request. Works for anonymous callers.
// @Tags        Rooms
// @Produce     json
//
// @Success     200  {object} domain.ChatRoom
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/default [get]
func (h *Handlers) DefaultRoom(c *gin.Context) {
	room, err := h.roomSvc.EnsureDefault(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, room)
}

// ListRooms godoc
// @ID          listRooms
// @Summary     List rooms (paginated)
// @Description Returns a page of rooms visible to the current profile: the public room plus rooms they own.
// @Tags        Rooms
// @Produce     json
//
// @Param       X-Profile-ID  header  string  false "Profile ID"      example(user123)
// @Param       page          query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size     query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListRoomsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms [get]
func (h *Handlers) ListRooms(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.roomSvc.ListPage(c.Request.Context(), profileID(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListRoomsResponse{
		Rooms: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// RenameRoom godoc
// @ID          renameRoom
// @Summary     Rename a room
// @Description Updates the name of a room owned by the current profile.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       X-Profile-ID  header  string  true  "Profile ID"     example(user123)
// @Param       id            path    string  true  "Room ID (UUID)" format(uuid)
// @Param       body          body    handlers.RenameRoomRequest  true  "New name"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing profile"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id}/name [put]
func (h *Handlers) RenameRoom(c *gin.Context) {
	pid := profileID(c)
	if pid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "profile id required")
		return
	}

	roomID := c.Param("id")
	if _, err := uuid.Parse(roomID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room id must be a UUID")
		return
	}

	var req RenameRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1–255 chars)")
		return
	}

	if err := h.roomSvc.Rename(c.Request.Context(), roomID, pid, req.Name); err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "room not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// DeleteRoom godoc
// @ID          deleteRoom
// @Summary     Delete a room
// @Description Deletes a room owned by the current profile. The public room cannot be deleted.
// @Tags        Rooms
// @Produce     json
//
// @Param       X-Profile-ID  header  string  true  "Profile ID"     example(user123)
// @Param       id            path    string  true  "Room ID (UUID)" format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing profile"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id} [delete]
func (h *Handlers) DeleteRoom(c *gin.Context) {
	pid := profileID(c)
	if pid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "profile id required")
		return
	}

	roomID := c.Param("id")
	if _, err := uuid.Parse(roomID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room id must be a UUID")
		return
	}

	if err := h.roomSvc.Delete(c.Request.Context(), roomID, pid); err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "room not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
