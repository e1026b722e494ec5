// Package broadcast fans order lifecycle events out to currently connected
// observers. Delivery is fire-and-forget: no replay buffer, no acks, and a
// subscriber that cannot keep up has events dropped rather than blocking the
// publisher.
package broadcast

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/canteenhq/restro/internal/observability"
)

// Event kinds emitted on the live channel.
const (
	KindConnected    = "connected"
	KindNewOrder     = "newOrder"
	KindOrderUpdated = "orderUpdated"
)

// Event is a single push notification carrying a snapshot payload.
type Event struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// subscriberBuffer bounds how far a slow observer may lag before drops.
const subscriberBuffer = 16

// Broadcaster keeps the registry of connected observers.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]chan Event
	logger *zap.Logger
}

// Module provides the broadcaster to Fx.
var Module = fx.Provide(NewBroadcaster)

// NewBroadcaster constructs an empty registry.
func NewBroadcaster(logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		subs:   make(map[uuid.UUID]chan Event),
		logger: logger,
	}
}

// Subscribe registers a new observer and returns its id and event channel.
// The first event on the channel is the connection acknowledgment.
func (b *Broadcaster) Subscribe() (uuid.UUID, <-chan Event) {
	id := uuid.New()
	ch := make(chan Event, subscriberBuffer)
	ch <- Event{Kind: KindConnected, Payload: map[string]string{"status": "connected"}}

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	observability.EventSubscribers.Inc()

	return id, ch
}

// Unsubscribe removes an observer and closes its channel.
func (b *Broadcaster) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	ch, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.mu.Unlock()

	if ok {
		close(ch)
		observability.EventSubscribers.Dec()
	}
}

// Publish delivers the event to every currently connected observer. Events
// for observers with full buffers are dropped.
func (b *Broadcaster) Publish(kind string, payload any) {
	evt := Event{Kind: kind, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			observability.EventsDropped.Inc()
			if b.logger != nil {
				b.logger.Warn("dropping event for slow subscriber",
					zap.String("subscriber_id", id.String()),
					zap.String("kind", kind),
				)
			}
		}
	}
}

// Subscribers reports the current observer count.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
