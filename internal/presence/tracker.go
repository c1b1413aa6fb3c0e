// Package presence implements the client-side presence tracker: it
// advertises the local user's liveness in a room on a heartbeat cadence and
// maintains the set of currently active participants.
//
// The active set is recomputed from two signals, whichever fires first: a
// periodic poll (a correctness floor bounding staleness to the poll
// interval) and push notifications from the realtime channel (best-effort,
// may be suppressed by transport errors). Presence is never allowed to
// block messaging: every failure in this package is logged and swallowed.
package presence

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/linguachat/go-lingua-backend/internal/domain"
)

// Service is the presence collaborator: the heartbeat upsert, the staleness
// cleanup, and the freshness-filtered listing.
type Service interface {
	Heartbeat(ctx context.Context, profileID, roomID string) error
	CleanupStale(ctx context.Context) (int64, error)
	ListActive(ctx context.Context, roomID string) ([]domain.Presence, error)
}

// Tracker drives heartbeats for one (profile, room) pair and caches the
// room's active participants. Safe for concurrent use.
type Tracker struct {
	svc            Service
	heartbeatEvery time.Duration
	pollEvery      time.Duration
	logger         zerolog.Logger

	notify chan struct{}

	mu        sync.RWMutex
	profileID string
	roomID    string
	active    []domain.Presence
}

// NewTracker constructs a Tracker with the given cadences.
func NewTracker(svc Service, heartbeatEvery, pollEvery time.Duration) *Tracker {
	return &Tracker{
		svc:            svc,
		heartbeatEvery: heartbeatEvery,
		pollEvery:      pollEvery,
		logger:         log.With().Str("component", "presence").Logger(),
		notify:         make(chan struct{}, 1),
	}
}

// Enter binds the tracker to a (profile, room) pair. Either identifier may
// be blank in an anonymous or roomless context, in which case heartbeats
// silently no-op.
func (t *Tracker) Enter(profileID, roomID string) {
	t.mu.Lock()
	t.profileID = profileID
	t.roomID = roomID
	t.active = nil
	t.mu.Unlock()
}

// Heartbeat upserts the local presence record with the current timestamp.
// Silently no-ops when either identifier is absent; a failed upsert is
// logged and ignored.
func (t *Tracker) Heartbeat(ctx context.Context) {
	t.mu.RLock()
	profileID, roomID := t.profileID, t.roomID
	t.mu.RUnlock()
	if strings.TrimSpace(profileID) == "" || strings.TrimSpace(roomID) == "" {
		return
	}
	if err := t.svc.Heartbeat(ctx, profileID, roomID); err != nil {
		t.logger.Warn().Err(err).Str("room_id", roomID).Msg("heartbeat failed")
	}
}

// Announce satisfies the realtime announcer contract: the channel manager
// calls it after every successful subscribe so presence appears immediately
// on (re)connection.
func (t *Tracker) Announce(ctx context.Context, roomID string) error {
	t.mu.RLock()
	profileID := t.profileID
	t.mu.RUnlock()
	if strings.TrimSpace(profileID) == "" || strings.TrimSpace(roomID) == "" {
		return nil
	}
	return t.svc.Heartbeat(ctx, profileID, roomID)
}

// Notify signals a presence-table change pushed over the realtime channel.
// Coalescing is fine: one pending refresh covers any burst.
func (t *Tracker) Notify() {
	select {
	case t.notify <- struct{}{}:
	default:
	}
}

// Refresh recomputes the active set: trigger the staleness cleanup, then
// list fresh records. Failures are logged and the previous set retained.
func (t *Tracker) Refresh(ctx context.Context) {
	t.mu.RLock()
	roomID := t.roomID
	t.mu.RUnlock()
	if roomID == "" {
		return
	}

	if _, err := t.svc.CleanupStale(ctx); err != nil {
		t.logger.Warn().Err(err).Msg("stale presence cleanup failed")
	}
	active, err := t.svc.ListActive(ctx, roomID)
	if err != nil {
		t.logger.Warn().Err(err).Str("room_id", roomID).Msg("active user listing failed")
		return
	}

	t.mu.Lock()
	t.active = active
	t.mu.Unlock()
}

// ActiveUsers returns a copy of the last computed active set.
func (t *Tracker) ActiveUsers() []domain.Presence {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Presence, len(t.active))
	copy(out, t.active)
	return out
}

// Run drives the tracker until ctx is cancelled: an immediate heartbeat and
// refresh on entry, then the heartbeat ticker, the poll floor, and pushed
// notifications, whichever fires first.
func (t *Tracker) Run(ctx context.Context) {
	t.Heartbeat(ctx)
	t.Refresh(ctx)

	hb := time.NewTicker(t.heartbeatEvery)
	defer hb.Stop()
	poll := time.NewTicker(t.pollEvery)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-hb.C:
			t.Heartbeat(ctx)
		case <-poll.C:
			t.Refresh(ctx)
		case <-t.notify:
			t.Refresh(ctx)
		}
	}
}
