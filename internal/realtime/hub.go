package realtime

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sharelist/core/internal/infrastructure/logger"
)

// Subscriber receives encoded frames. Deliver must not block; returning
// false drops the frame for that subscriber, which keeps delivery
// at-most-once and best-effort.
type Subscriber interface {
	Deliver(frame []byte) bool
}

// Hub is the topic registry and fan-out point. It is an explicit value
// passed into the connection layer, never package state, so tests can run
// several hubs side by side.
type Hub struct {
	mu        sync.RWMutex
	topics    map[Topic]map[Subscriber]struct{}
	bySub     map[Subscriber]map[Topic]struct{}
	byUser    map[int64]map[Subscriber]struct{}
	userOf    map[Subscriber]int64
	logger    *logger.Logger
	liveGauge prometheus.Gauge
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		topics: make(map[Topic]map[Subscriber]struct{}),
		bySub:  make(map[Subscriber]map[Topic]struct{}),
		byUser: make(map[int64]map[Subscriber]struct{}),
		userOf: make(map[Subscriber]int64),
		logger: log.WithComponent("realtime"),
	}
}

// SetConnectionsGauge wires a gauge tracking live registered subscribers.
func (h *Hub) SetConnectionsGauge(g prometheus.Gauge) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveGauge = g
}

// Register binds a subscriber to its authenticated user. A subscriber must
// be registered before it can hold topic subscriptions.
func (h *Hub) Register(sub Subscriber, userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.userOf[sub]; ok {
		return
	}

	h.userOf[sub] = userID
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[Subscriber]struct{})
	}
	h.byUser[userID][sub] = struct{}{}
	h.bySub[sub] = make(map[Topic]struct{})

	if h.liveGauge != nil {
		h.liveGauge.Inc()
	}
}

// Subscribe adds the subscriber to each topic. Unknown subscribers are
// ignored; Register must run first.
func (h *Hub) Subscribe(sub Subscriber, topics ...Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subTopics, ok := h.bySub[sub]
	if !ok {
		return
	}

	for _, t := range topics {
		if h.topics[t] == nil {
			h.topics[t] = make(map[Subscriber]struct{})
		}
		h.topics[t][sub] = struct{}{}
		subTopics[t] = struct{}{}
	}
}

// SubscribeUser joins every live connection of a user to a topic. Used when
// a task lands in a folder the owner had no tasks in at authenticate time.
func (h *Hub) SubscribeUser(userID int64, topic Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.byUser[userID] {
		if h.topics[topic] == nil {
			h.topics[topic] = make(map[Subscriber]struct{})
		}
		h.topics[topic][sub] = struct{}{}
		h.bySub[sub][topic] = struct{}{}
	}
}

// Remove drops all state for a subscriber. Called on disconnect; nothing is
// preserved for reconnection.
func (h *Hub) Remove(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topics, registered := h.bySub[sub]
	if !registered {
		return
	}

	for t := range topics {
		delete(h.topics[t], sub)
		if len(h.topics[t]) == 0 {
			delete(h.topics, t)
		}
	}
	delete(h.bySub, sub)

	userID := h.userOf[sub]
	delete(h.userOf, sub)
	delete(h.byUser[userID], sub)
	if len(h.byUser[userID]) == 0 {
		delete(h.byUser, userID)
	}

	if h.liveGauge != nil {
		h.liveGauge.Dec()
	}
}

// Publish encodes the event once and hands the frame to every subscriber of
// its topic. Failed deliveries are dropped silently; a publish never fails
// the mutation that triggered it.
func (h *Hub) Publish(event Event) int {
	frame, err := Encode(event)
	if err != nil {
		h.logger.Errorw("Failed to encode event", "event", event.Kind(), "error", err)
		return 0
	}

	h.mu.RLock()
	subs := make([]Subscriber, 0, len(h.topics[event.Topic()]))
	for sub := range h.topics[event.Topic()] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		if sub.Deliver(frame) {
			delivered++
		} else {
			h.logger.Debugw("Dropped event for slow subscriber",
				"event", event.Kind(), "topic", event.Topic().String())
		}
	}

	return delivered
}

// SubscriberCount reports how many subscribers a topic currently has.
func (h *Hub) SubscriberCount(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
