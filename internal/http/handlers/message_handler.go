// Message HTTP handlers.
//
// This file exposes REST endpoints for message resources:
//   - GET  /rooms/{id}/messages  (full ordered history, weak ETag support)
//   - POST /rooms/{id}/messages  (send)
//
// The history endpoint is intentionally unpaginated: clients reconcile their
// local view against the complete room history, so the read contract is "all
// messages for a room" in deterministic order.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linguachat/go-lingua-backend/internal/domain"
	"github.com/linguachat/go-lingua-backend/internal/repo"
	"github.com/linguachat/go-lingua-backend/internal/services"
)

// SendMessageRequest is the JSON payload for sending a message.
type SendMessageRequest struct {
	// Text is the message body in the sender's language.
	Text string `json:"text" binding:"required,min=1" example:"hola amigo"`
	// SenderName is an optional display-name snapshot stored with the message.
	SenderName *string `json:"sender_name,omitempty" example:"Ana"`
}

// ListMessagesResponse wraps the full message history of a room.
type ListMessagesResponse struct {
	Messages []domain.Message `json:"messages"`
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List room messages
// @Description Returns the complete message history of a room ordered by creation time. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Messages
// @Produce     json
//
// @Param       id             path    string  true  "Room ID (UUID)"              format(uuid)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
//
// @Success     200  {object} handlers.ListMessagesResponse
// @Header      200  {string} ETag "Weak ETag for current history"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	roomID := c.Param("id")
	if _, err := uuid.Parse(roomID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room id must be a UUID")
		return
	}

	// ETag pre-check (best effort). The history is append-only, so the row
	// count is a sufficient freshness token.
	var db *gorm.DB
	if svc, isConcrete := h.msgSvc.(*services.MessageService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		if count, err := repo.CountMessages(ctx, db, roomID); err == nil {
			etag := fmt.Sprintf(`W/"messages:%s:%d"`, roomID, count)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	msgs, err := h.msgSvc.List(ctx, roomID)
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "room not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{Messages: msgs})
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Send a message
// @Description Validates, translates, and persists one message in the room, then publishes it to the change stream. The sender may be anonymous.
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       X-Profile-ID  header  string  false "Profile ID (omit for anonymous)"  example(user123)
// @Param       id            path    string  true  "Room ID (UUID)"                   format(uuid)
// @Param       body          body    handlers.SendMessageRequest  true  "Message payload"
//
// @Success     201  {object}  domain.Message
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Room not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	roomID := c.Param("id")
	if _, err := uuid.Parse(roomID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room id must be a UUID")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		return
	}

	var senderID *string
	if pid := profileID(c); pid != "" {
		senderID = &pid
	}

	m, err := h.msgSvc.Send(c.Request.Context(), roomID, senderID, req.SenderName, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "room not found")
		case errors.Is(err, services.ErrEmptyMessage), errors.Is(err, services.ErrTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSendFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, m)
}
