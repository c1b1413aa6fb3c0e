// Change stream HTTP handler.
//
// This file exposes the per-room change stream over Server-Sent Events:
//   - GET /rooms/{id}/stream
//
// Delivery over the stream is at-least-once: a slow consumer may be evicted
// by the broker (its channel closed), at which point the client reconnects
// and reloads the room history to reconcile. Clients therefore deduplicate
// by message identity.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linguachat/go-lingua-backend/internal/http/middleware"
	"github.com/linguachat/go-lingua-backend/internal/services"
)

// StreamRoom godoc
// @ID          streamRoom
// @Summary     Subscribe to a room's change stream
// @Description Opens a Server-Sent Events stream of insert/update events for the room (messages and presence). The stream ends when the client disconnects or the broker evicts a slow consumer; clients reconnect and reload history.
// @Tags        Stream
// @Produce     text/event-stream
//
// @Param       id  path  string  true  "Room ID (UUID)"  format(uuid)
//
// @Success     200  {string} string "SSE stream"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id}/stream [get]
func (h *Handlers) StreamRoom(c *gin.Context) {
	roomID := c.Param("id")
	if _, err := uuid.Parse(roomID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room id must be a UUID")
		return
	}
	if _, err := h.roomSvc.Get(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "room not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	sub, err := h.changes.Subscribe(roomID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStreamFailed, err.Error())
		return
	}
	defer sub.Close()

	lg := middleware.LoggerFrom(c)
	lg.Info().Str("room_id", roomID).Msg("stream opened")

	h2 := c.Writer.Header()
	h2.Set("Content-Type", "text/event-stream")
	h2.Set("Cache-Control", "no-cache")
	h2.Set("Connection", "keep-alive")
	h2.Set("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-sub.Events():
			if !open {
				// Evicted or broker shutdown; the client reconnects.
				return false
			}
			c.SSEvent("change", ev)
			return true
		case <-ctx.Done():
			return false
		}
	})

	lg.Info().Str("room_id", roomID).Msg("stream closed")
}
