// Package services – MessageService
//
// This file implements MessageService, the application-level component that
// owns the lifecycle of room messages. It validates inputs, verifies the
// target room, obtains a best-effort translation via the configured
// translate.Translator, persists the message, and publishes the insert to
// the change feed so subscribed clients receive it live.
//
// Translation failures never block delivery: the message is persisted with
// the translator's error sentinel and the failure is logged.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include room identifiers where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linguachat/go-lingua-backend/internal/domain"
	"github.com/linguachat/go-lingua-backend/internal/feed"
	"github.com/linguachat/go-lingua-backend/internal/repo"
	"github.com/linguachat/go-lingua-backend/internal/translate"
)

// Publisher emits change-feed events for persisted writes.
// Satisfied by *feed.Broker.
type Publisher interface {
	Publish(ev feed.Event)
}

// MessageService coordinates message validation, translation, persistence,
// and feed publication.
type MessageService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Translator produces the bilingual rendering of each message.
	Translator translate.Translator
	// Publisher receives an insert event after each successful persist.
	// May be nil in contexts without a live feed (tests, batch tooling).
	Publisher Publisher

	// MaxMessageRunes caps message text by rune length. Zero disables the cap.
	MaxMessageRunes int
}

// NewMessageService constructs a MessageService over the given collaborators.
func NewMessageService(db *gorm.DB, tr translate.Translator, pub Publisher, maxRunes int) *MessageService {
	return &MessageService{
		DB:              db,
		Translator:      tr,
		Publisher:       pub,
		MaxMessageRunes: maxRunes,
	}
}

// Send validates and persists one message in roomID, then publishes the
// insert to the change feed. senderID and senderName may be nil for
// anonymous senders. The translation is best-effort: if the translator
// fails, the message is stored with its error sentinel so the send still
// succeeds and the user can retry the translation by resending.
func (s *MessageService) Send(ctx context.Context, roomID string, senderID, senderName *string, text string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(attribute.String("room.id", roomID)),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if s.MaxMessageRunes > 0 && utf8.RuneCountInString(text) > s.MaxMessageRunes {
		return nil, ErrTooLong
	}

	// Ensure the room exists before doing any external work.
	if _, err := repo.GetRoom(ctx, s.DB, roomID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	// Identified senders get a profile row on first contact; the supplied
	// name also refreshes their stored display name.
	if senderID != nil && *senderID != "" {
		if _, perr := repo.EnsureProfile(ctx, s.DB, *senderID, senderName); perr != nil {
			return nil, perr
		}
	}

	res, terr := s.Translator.DetectAndTranslate(ctx, text)
	if terr != nil {
		log.Warn().Err(terr).Str("room_id", roomID).Msg("translation failed, storing sentinel")
	}

	m, err := repo.CreateMessage(ctx, s.DB, roomID, senderID, senderName, text, res.Translation, res.Detected.String())
	if err != nil {
		return nil, err
	}

	if s.Publisher != nil {
		s.Publisher.Publish(feed.Event{
			Table:   feed.TableMessages,
			Type:    feed.EventInsert,
			RoomID:  roomID,
			Message: m,
		})
	}
	return m, nil
}

// List returns the full message history for roomID in deterministic order.
func (s *MessageService) List(ctx context.Context, roomID string) ([]domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(attribute.String("room.id", roomID)),
	)
	defer span.End()

	if _, err := repo.GetRoom(ctx, s.DB, roomID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return repo.ListMessages(ctx, s.DB, roomID)
}
