// Package feed implements the in-process change feed: an event broker that
// fans row-change notifications out to per-room subscribers. It is the
// server-side half of the realtime contract; the realtime package consumes
// subscriptions and layers the reconnect policy on top.
//
// Delivery semantics are at-least-once from the consumer's point of view:
// a subscriber that falls behind its buffer is evicted (its event channel is
// closed), which the channel manager observes as a transport drop and
// recovers from by resubscribing and reloading. Consumers must therefore
// deduplicate messages by identity.
package feed

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/linguachat/go-lingua-backend/internal/domain"
)

// Table identifies the logical table a change event originates from.
type Table string

// EventType identifies the kind of row change.
type EventType string

const (
	TableMessages Table = "messages"
	TablePresence Table = "presence"

	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event is one change notification, scoped to a room. Message is populated
// for messages-table events; presence events carry no payload because
// consumers recompute the active set from the store on any change.
type Event struct {
	Table   Table           `json:"table"`
	Type    EventType       `json:"type"`
	RoomID  string          `json:"room_id"`
	Message *domain.Message `json:"message,omitempty"`
}

// Subscription is one consumer's handle on a room's change feed. Events()
// is closed when the subscription is cancelled, the broker shuts down, or
// the subscriber is evicted for falling behind.
type Subscription struct {
	broker *Broker
	roomID string

	// mu serializes sends against the channel close so a concurrent Close
	// can never race a delivery in flight.
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// Events returns the channel change events are delivered on.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Close cancels the subscription. Safe to call multiple times and
// concurrently with delivery.
func (s *Subscription) Close() {
	s.broker.remove(s)
	s.closeCh()
}

func (s *Subscription) closeCh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// deliver attempts a non-blocking send. It reports false when the buffer is
// full; events for an already-closed subscription are dropped silently.
func (s *Subscription) deliver(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// Broker routes change events to room-scoped subscribers. Fan-out is
// non-blocking: Publish never waits on a slow consumer.
type Broker struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Subscription]struct{}
	buffer int
	closed bool
}

// NewBroker constructs a Broker whose subscribers buffer up to buffer
// undelivered events before being evicted.
func NewBroker(buffer int) *Broker {
	if buffer < 1 {
		buffer = 1
	}
	return &Broker{
		rooms:  make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a consumer for roomID's change events.
func (b *Broker) Subscribe(roomID string) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBrokerClosed
	}
	s := &Subscription{
		broker: b,
		roomID: roomID,
		ch:     make(chan Event, b.buffer),
	}
	if b.rooms[roomID] == nil {
		b.rooms[roomID] = make(map[*Subscription]struct{})
	}
	b.rooms[roomID][s] = struct{}{}
	return s, nil
}

// Publish delivers ev to every subscriber of ev.RoomID. A subscriber whose
// buffer is full is evicted rather than blocking the publisher; eviction
// closes its event channel so the consumer can resubscribe.
func (b *Broker) Publish(ev Event) {
	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.rooms[ev.RoomID]))
	for s := range b.rooms[ev.RoomID] {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		if !s.deliver(ev) {
			log.Warn().
				Str("room_id", ev.RoomID).
				Str("table", string(ev.Table)).
				Msg("evicting slow feed subscriber")
			s.Close()
		}
	}
}

// Close shuts the broker down and closes every subscription.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	var all []*Subscription
	for _, subs := range b.rooms {
		for s := range subs {
			all = append(all, s)
		}
	}
	b.rooms = make(map[string]map[*Subscription]struct{})
	b.mu.Unlock()

	for _, s := range all {
		s.closeCh()
	}
}

// remove detaches a subscription from the registry without closing it.
func (b *Broker) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if subs, ok := b.rooms[s.roomID]; ok {
		delete(subs, s)
		if len(subs) == 0 {
			delete(b.rooms, s.roomID)
		}
	}
}
