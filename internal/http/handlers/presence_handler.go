// Presence HTTP handlers.
//
// This file exposes the presence RPC surface:
//   - POST /presence/heartbeat  (upsert the caller's heartbeat for a room)
//   - POST /presence/cleanup    (prune stale rows; cooperative, any client)
//   - GET  /rooms/{id}/presence (list fresh users in a room)
//
// Cleanup is deliberately a public endpoint rather than a server-only cron:
// any active client may trigger it on its poll cadence and concurrent calls
// are harmless.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linguachat/go-lingua-backend/internal/domain"
)

// HeartbeatRequest is the JSON payload for a presence heartbeat.
type HeartbeatRequest struct {
	// RoomID identifies the room the caller is present in.
	RoomID string `json:"room_id" binding:"required" format:"uuid"`
}

// CleanupResponse reports the number of presence rows pruned.
type CleanupResponse struct {
	Pruned int64 `json:"pruned" example:"3"`
}

// ActiveUsersResponse wraps the fresh presence rows of a room.
type ActiveUsersResponse struct {
	Users []domain.Presence `json:"users"`
}

// Heartbeat godoc
// @ID          heartbeat
// @Summary     Record a presence heartbeat
// @Description Upserts the caller's presence row for the room, bumping its freshness timestamp, and publishes a presence change to the stream.
// @Tags        Presence
// @Accept      json
// @Produce     json
//
// @Param       X-Profile-ID  header  string  true  "Profile ID"  example(user123)
// @Param       body          body    handlers.HeartbeatRequest  true  "Heartbeat payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing profile"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /presence/heartbeat [post]
func (h *Handlers) Heartbeat(c *gin.Context) {
	pid := profileID(c)
	if pid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "profile id required")
		return
	}

	var req HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room_id required")
		return
	}
	if _, err := uuid.Parse(req.RoomID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room_id must be a UUID")
		return
	}

	if err := h.presenceSvc.Heartbeat(c.Request.Context(), pid, req.RoomID); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodePresenceFailed, err.Error())
		return
	}
	noContent(c)
}

// CleanupPresence godoc
// @ID          cleanupPresence
// @Summary     Prune stale presence rows
// @Description Deletes presence rows whose heartbeat is older than the freshness TTL, across all rooms. Safe to call concurrently.
// @Tags        Presence
// @Produce     json
//
// @Success     200  {object} handlers.CleanupResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /presence/cleanup [post]
func (h *Handlers) CleanupPresence(c *gin.Context) {
	pruned, err := h.presenceSvc.CleanupStale(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodePresenceFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, CleanupResponse{Pruned: pruned})
}

// ListActiveUsers godoc
// @ID          listActiveUsers
// @Summary     List active users in a room
// @Description Prunes stale presence rows, then returns the fresh presence rows for the room with profile display data, most recent heartbeat first.
// @Tags        Presence
// @Produce     json
//
// @Param       id  path  string  true  "Room ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.ActiveUsersResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id}/presence [get]
func (h *Handlers) ListActiveUsers(c *gin.Context) {
	roomID := c.Param("id")
	if _, err := uuid.Parse(roomID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room id must be a UUID")
		return
	}

	ctx := c.Request.Context()
	// Canonical poll sequence: cleanup first so the listing never reports
	// users whose heartbeat already lapsed.
	if _, err := h.presenceSvc.CleanupStale(ctx); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodePresenceFailed, err.Error())
		return
	}
	users, err := h.presenceSvc.ListActive(ctx, roomID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodePresenceFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ActiveUsersResponse{Users: users})
}
