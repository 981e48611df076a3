// Package notifier fans out state-change events to live subscribers.
package notifier

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/property-monitor/pkg/metrics"
)

// Event is one broadcast payload. Type is always present; recognized types
// are "connected", "heartbeat", "price_change" and "crawl_status".
type Event struct {
	Type string         `json:"type"`
	At   time.Time      `json:"at"`
	Data map[string]any `json:"data,omitempty"`
}

// NewEvent builds an event stamped with the current time.
func NewEvent(eventType string, data map[string]any) Event {
	return Event{Type: eventType, At: time.Now(), Data: data}
}

// subscriberBuffer sizes each subscriber channel. A subscriber that falls
// this far behind is treated as dead and pruned.
const subscriberBuffer = 16

// Subscriber is one registered event consumer. The hub owns the channel and
// closes it on unsubscribe or prune.
type Subscriber struct {
	id string
	ch chan Event
}

// Events returns the subscriber's receive channel. It is closed by the hub
// when the subscription ends.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Hub maintains the subscriber set and delivers events to every member.
// Subscribe, Unsubscribe and Broadcast are safe for concurrent use; a dead
// subscriber never blocks delivery to the rest.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]*Subscriber
	closed bool

	heartbeatEvery time.Duration
	done           chan struct{}
}

// NewHub creates a hub and starts its heartbeat ticker. A zero interval
// disables heartbeats.
func NewHub(heartbeatEvery time.Duration) *Hub {
	h := &Hub{
		subs:           make(map[string]*Subscriber),
		heartbeatEvery: heartbeatEvery,
		done:           make(chan struct{}),
	}
	if heartbeatEvery > 0 {
		go h.heartbeatLoop()
	}
	return h
}

func (h *Hub) heartbeatLoop() {
	ticker := time.NewTicker(h.heartbeatEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.Broadcast(NewEvent("heartbeat", nil))
		case <-h.done:
			return
		}
	}
}

// Subscribe registers a new subscriber and queues a connection
// acknowledgement as its first event.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		id: uuid.NewString(),
		ch: make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub
	}
	h.subs[sub.id] = sub
	sub.ch <- NewEvent("connected", map[string]any{"subscriber_id": sub.id})
	if metrics.LiveSubscribers != nil {
		metrics.LiveSubscribers.Set(float64(len(h.subs)))
	}
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Unsubscribing an
// already-removed subscriber is a no-op.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub.id)
}

func (h *Hub) removeLocked(id string) {
	sub, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(sub.ch)
	if metrics.LiveSubscribers != nil {
		metrics.LiveSubscribers.Set(float64(len(h.subs)))
	}
}

// Broadcast delivers an event to every registered subscriber. A subscriber
// whose buffer is full is pruned mid-iteration without disturbing delivery
// to the remaining subscribers.
func (h *Hub) Broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		select {
		case sub.ch <- event:
		default:
			h.removeLocked(id)
		}
	}
}

// SubscriberCount reports the current set size.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close stops the heartbeat and drops every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for id := range h.subs {
		h.removeLocked(id)
	}
}
