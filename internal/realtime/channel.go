// Package realtime implements the channel manager: one logical subscription
// per (client, room) pair on the change feed, with automatic recovery from
// transient transport drops.
//
// The manager owns the full lifecycle as an explicit state machine:
//
//	Idle → Subscribing → Subscribed → RetryScheduled → Subscribing → … → Failed
//
// A transport drop (subscribe failure or a closed event stream) schedules a
// reconnect with exponential backoff, min(base*2^n, cap), for a bounded
// number of attempts; after the last attempt fails the manager parks in
// Failed and stays there until the caller re-opens. A successful subscribe
// resets the attempt counter, as does a foreground-visibility signal from
// the host application. Explicit Close returns the manager to Idle.
//
// The message store and presence tracker never touch the transport: they
// receive events only through the handlers registered with Open, keeping
// reconnection concerns out of the data-reconciliation path.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/linguachat/go-lingua-backend/internal/feed"
)

// State is one node of the channel lifecycle state machine.
type State string

const (
	StateIdle           State = "idle"
	StateSubscribing    State = "subscribing"
	StateSubscribed     State = "subscribed"
	StateRetryScheduled State = "retry_scheduled"
	StateFailed         State = "failed"
)

// Feed is the transport the manager subscribes on. Satisfied by
// *feed.Broker; tests substitute failing implementations.
type Feed interface {
	Subscribe(roomID string) (*feed.Subscription, error)
}

// Announcer advertises local presence on a freshly subscribed channel.
// Failures are logged and otherwise ignored: presence is best-effort.
type Announcer interface {
	Announce(ctx context.Context, roomID string) error
}

// MessageHandler receives message-insert events from the live stream.
type MessageHandler func(feed.Event)

// PresenceHandler is notified on presence-table changes for the room.
type PresenceHandler func()

// Options configures a Manager. Zero-value fields fall back to the
// defaults (1s base, 30s cap, 5 attempts).
type Options struct {
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	MaxRetries     int
	Announcer      Announcer
	Logger         *zerolog.Logger
}

// Manager maintains one live subscription and its retry policy. All
// scheduling funnels through a single cancellable timer owned exclusively
// by the manager, so no retry can fire after Close or after a newer Open
// superseded the subscription.
//
// Safe for concurrent use.
type Manager struct {
	feedSrc  Feed
	announce Announcer
	base     time.Duration
	cap      time.Duration
	maxTries int
	logger   zerolog.Logger

	mu         sync.Mutex
	state      State
	roomID     string
	onMessage  MessageHandler
	onPresence PresenceHandler
	retryCount int
	retryTimer *time.Timer
	sub        *feed.Subscription
	gen        uint64 // bumped on Open/Close/foreground; stale callbacks bail out

	// scheduleFn is a test seam; production uses time.AfterFunc.
	scheduleFn func(time.Duration, func()) *time.Timer
}

// NewManager constructs an idle Manager over the given feed.
func NewManager(f Feed, opts Options) *Manager {
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = time.Second
	}
	if opts.RetryMaxDelay <= 0 {
		opts.RetryMaxDelay = 30 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	lg := log.With().Str("component", "realtime").Logger()
	if opts.Logger != nil {
		lg = *opts.Logger
	}
	return &Manager{
		feedSrc:    f,
		announce:   opts.Announcer,
		base:       opts.RetryBaseDelay,
		cap:        opts.RetryMaxDelay,
		maxTries:   opts.MaxRetries,
		logger:     lg,
		state:      StateIdle,
		scheduleFn: time.AfterFunc,
	}
}

// Open establishes a subscription scoped to roomID, superseding any prior
// subscription and cancelling its pending retry. onMessage receives
// message-insert events; onPresence (optional) is poked on presence-table
// changes. The retry counter starts at zero.
func (m *Manager) Open(roomID string, onMessage MessageHandler, onPresence PresenceHandler) {
	m.mu.Lock()
	m.teardownLocked()
	m.gen++
	gen := m.gen
	m.roomID = roomID
	m.onMessage = onMessage
	m.onPresence = onPresence
	m.retryCount = 0
	m.mu.Unlock()

	m.subscribe(gen)
}

// Close unsubscribes and releases all ties to the underlying channel.
// Idempotent: safe to call multiple times and from teardown paths. No
// retry timer fires after Close returns a generation behind.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
	m.gen++
	m.roomID = ""
	m.onMessage = nil
	m.onPresence = nil
	m.retryCount = 0
	if m.state != StateIdle {
		m.transitionLocked(StateIdle, "channel closed")
	}
}

// HandleForeground reconnects proactively after the host application
// regains foreground visibility, resetting the retry counter regardless of
// the current retry state (including Failed). No-op when nothing was ever
// opened.
func (m *Manager) HandleForeground() {
	m.mu.Lock()
	if m.roomID == "" {
		m.mu.Unlock()
		return
	}
	m.logger.Info().Str("room_id", m.roomID).Msg("foreground visibility: reinitializing channel")
	m.teardownLocked()
	m.gen++
	gen := m.gen
	m.retryCount = 0
	m.mu.Unlock()

	m.subscribe(gen)
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// RetryCount reports how many reconnection attempts have been scheduled
// since the last successful subscribe.
func (m *Manager) RetryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retryCount
}

// subscribe performs one subscription attempt for the given generation.
func (m *Manager) subscribe(gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	roomID := m.roomID
	m.transitionLocked(StateSubscribing, "subscribing")
	m.mu.Unlock()

	sub, err := m.feedSrc.Subscribe(roomID)
	if err != nil {
		m.logger.Error().Err(err).Str("room_id", roomID).Msg("channel error")
		m.disconnected(gen)
		return
	}

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		sub.Close()
		return
	}
	m.sub = sub
	m.retryCount = 0
	channelRetries.Set(0)
	m.transitionLocked(StateSubscribed, "subscribed")
	onMessage, onPresence := m.onMessage, m.onPresence
	m.mu.Unlock()

	if m.announce != nil {
		if aerr := m.announce.Announce(context.Background(), roomID); aerr != nil {
			m.logger.Warn().Err(aerr).Str("room_id", roomID).Msg("presence announce failed")
		}
	}

	go m.consume(gen, sub, onMessage, onPresence)
}

// consume pumps events from one subscription until its stream closes, then
// reports the drop. Events are dispatched in arrival order.
func (m *Manager) consume(gen uint64, sub *feed.Subscription, onMessage MessageHandler, onPresence PresenceHandler) {
	for ev := range sub.Events() {
		switch ev.Table {
		case feed.TableMessages:
			if ev.Type == feed.EventInsert && onMessage != nil {
				onMessage(ev)
			}
		case feed.TablePresence:
			if onPresence != nil {
				onPresence()
			}
		}
	}
	m.disconnected(gen)
}

// disconnected handles a transport drop: schedule a backoff retry, or park
// in Failed once the attempt budget is exhausted.
func (m *Manager) disconnected(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.sub = nil

	if m.retryCount >= m.maxTries {
		m.transitionLocked(StateFailed, "max retry attempts reached")
		return
	}

	delay := m.retryDelayLocked()
	m.retryCount++
	channelRetries.Set(float64(m.retryCount))
	m.logger.Info().
		Str("room_id", m.roomID).
		Int("retry_count", m.retryCount).
		Dur("delay", delay).
		Msg("scheduling channel reconnection")
	m.transitionLocked(StateRetryScheduled, "retry scheduled")
	m.retryTimer = m.scheduleFn(delay, func() { m.subscribe(gen) })
}

// retryDelayLocked computes the next backoff delay: min(base*2^n, cap)
// where n is the number of retries already consumed.
func (m *Manager) retryDelayLocked() time.Duration {
	d := m.base << uint(m.retryCount)
	if d > m.cap || d <= 0 { // d <= 0 guards shift overflow
		d = m.cap
	}
	return d
}

// teardownLocked cancels the pending retry and detaches the subscription.
func (m *Manager) teardownLocked() {
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
	if m.sub != nil {
		m.sub.Close()
		m.sub = nil
	}
}

// transitionLocked records a state change with its structured log event and
// metric.
func (m *Manager) transitionLocked(s State, msg string) {
	m.state = s
	channelTransitions.WithLabelValues(string(s)).Inc()
	ev := m.logger.Info()
	if s == StateFailed {
		ev = m.logger.Error()
	}
	ev.Str("room_id", m.roomID).Str("state", string(s)).Msg(msg)
}
