// Package store implements the client-side message store: a deduplicated,
// ordered view of one room's messages, combining a one-shot historical load
// with the incremental live stream.
//
// The two sources race: the initial load and the change feed can both carry
// the same row, and the transport may redeliver. The store reconciles by
// message identity: a message is admitted exactly once no matter how many
// times or through which path it arrives. Live inserts are appended in
// arrival order; cross-boundary timestamp inversions are an accepted
// eventual-consistency property of the transport, not corrected here.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/linguachat/go-lingua-backend/internal/domain"
)

// Loader fetches the full ordered history for a room. Satisfied by
// *services.MessageService.
type Loader interface {
	List(ctx context.Context, roomID string) ([]domain.Message, error)
}

// Writer persists a new message and returns the server-assigned row.
// Satisfied by *services.MessageService.
type Writer interface {
	Send(ctx context.Context, roomID string, senderID, senderName *string, text string) (*domain.Message, error)
}

// Draft is a locally composed message awaiting persistence.
type Draft struct {
	RoomID     string
	SenderID   *string
	SenderName *string
	Text       string
}

// Store holds the reconciled message view for one room at a time.
// Safe for concurrent use.
type Store struct {
	loader Loader
	writer Writer
	logger zerolog.Logger

	mu       sync.RWMutex
	roomID   string
	messages []domain.Message
	seen     map[string]struct{}
}

// New constructs an empty Store over the given collaborators.
func New(loader Loader, writer Writer) *Store {
	return &Store{
		loader: loader,
		writer: writer,
		logger: log.With().Str("component", "store").Logger(),
		seen:   make(map[string]struct{}),
	}
}

// Load fetches the full history for roomID, ordered by creation timestamp
// ascending, and replaces the current view wholesale. On failure the
// previous view (if any) is left untouched and a *LoadError is returned.
func (s *Store) Load(ctx context.Context, roomID string) error {
	history, err := s.loader.List(ctx, roomID)
	if err != nil {
		s.logger.Error().Err(err).Str("room_id", roomID).Msg("failed to load messages")
		return &LoadError{RoomID: roomID, Err: err}
	}

	seen := make(map[string]struct{}, len(history))
	view := make([]domain.Message, 0, len(history))
	for _, m := range history {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		view = append(view, m)
	}

	s.mu.Lock()
	s.roomID = roomID
	s.messages = view
	s.seen = seen
	s.mu.Unlock()

	s.logger.Info().Str("room_id", roomID).Int("count", len(view)).Msg("loaded message history")
	return nil
}

// OnInsert applies one live insert event. The insert is idempotent by
// message identity: duplicates (load/stream races, transport redelivery)
// never produce visible duplicates or reordering. Events for a room other
// than the loaded one are ignored.
func (s *Store) OnInsert(m domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roomID != "" && m.RoomID != s.roomID {
		return
	}
	if _, dup := s.seen[m.ID]; dup {
		s.logger.Warn().Str("message_id", m.ID).Str("room_id", m.RoomID).Msg("duplicate message detected")
		return
	}
	s.seen[m.ID] = struct{}{}
	s.messages = append(s.messages, m)
}

// Append persists a locally sent draft through the writer and, only on
// success, records the server-assigned row in the view. On failure the view
// is not touched (no optimistic insert that could diverge from the source
// of truth) and a *SendError is returned.
func (s *Store) Append(ctx context.Context, d Draft) (*domain.Message, error) {
	persisted, err := s.writer.Send(ctx, d.RoomID, d.SenderID, d.SenderName, d.Text)
	if err != nil {
		s.logger.Error().Err(err).Str("room_id", d.RoomID).Msg("failed to send message")
		return nil, &SendError{RoomID: d.RoomID, Err: err}
	}
	s.OnInsert(*persisted)
	return persisted, nil
}

// Snapshot returns a copy of the visible message sequence.
func (s *Store) Snapshot() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports the number of visible messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
