package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/infrastructure/logger"
)

// memorySubscriber collects delivered frames in memory.
type memorySubscriber struct {
	mu     sync.Mutex
	frames [][]byte
	reject bool
}

func (s *memorySubscriber) Deliver(frame []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reject {
		return false
	}
	s.frames = append(s.frames, frame)
	return true
}

func (s *memorySubscriber) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *memorySubscriber) last(t *testing.T) []byte {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		t.Fatalf("no frames delivered")
	}
	return s.frames[len(s.frames)-1]
}

func newTestHub() *Hub {
	return NewHub(logger.NewNop())
}

func taskCreatedEvent(ownerID int64, category, text string) TaskCreated {
	return TaskCreated{Task: entities.TaskView{
		Task: entities.Task{ID: 1, OwnerID: ownerID, Text: text, Category: category},
	}}
}

func TestPublishReachesEveryTopicSubscriber(t *testing.T) {
	hub := newTestHub()
	topic := CategoryTopic(1, "Groceries")

	first := &memorySubscriber{}
	second := &memorySubscriber{}
	hub.Register(first, 1)
	hub.Register(second, 2)
	hub.Subscribe(first, topic)
	hub.Subscribe(second, topic)

	delivered := hub.Publish(taskCreatedEvent(1, "Groceries", "milk"))
	if delivered != 2 {
		t.Fatalf("expected 2 deliveries, got %d", delivered)
	}
	if first.count() != 1 || second.count() != 1 {
		t.Fatalf("frame counts: first=%d second=%d", first.count(), second.count())
	}
}

func TestPublishDoesNotCrossTopics(t *testing.T) {
	hub := newTestHub()

	groceries := &memorySubscriber{}
	fitness := &memorySubscriber{}
	hub.Register(groceries, 1)
	hub.Register(fitness, 2)
	hub.Subscribe(groceries, CategoryTopic(1, "Groceries"))
	hub.Subscribe(fitness, CategoryTopic(1, "Fitness"))

	hub.Publish(taskCreatedEvent(1, "Groceries", "milk"))

	if groceries.count() != 1 {
		t.Fatalf("expected groceries subscriber to receive the event")
	}
	if fitness.count() != 0 {
		t.Fatalf("fitness subscriber must not receive groceries events")
	}
}

func TestPublishSkipsRejectingSubscriber(t *testing.T) {
	hub := newTestHub()
	topic := CategoryTopic(1, "Groceries")

	healthy := &memorySubscriber{}
	stalled := &memorySubscriber{reject: true}
	hub.Register(healthy, 1)
	hub.Register(stalled, 2)
	hub.Subscribe(healthy, topic)
	hub.Subscribe(stalled, topic)

	delivered := hub.Publish(taskCreatedEvent(1, "Groceries", "milk"))
	if delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}
	if healthy.count() != 1 || stalled.count() != 0 {
		t.Fatalf("frame counts: healthy=%d stalled=%d", healthy.count(), stalled.count())
	}
}

func TestSubscribeWithoutRegisterIsIgnored(t *testing.T) {
	hub := newTestHub()
	topic := CategoryTopic(1, "Groceries")

	stray := &memorySubscriber{}
	hub.Subscribe(stray, topic)

	if n := hub.SubscriberCount(topic); n != 0 {
		t.Fatalf("unregistered subscriber should not be counted, got %d", n)
	}
}

func TestRemoveDropsAllSubscriptions(t *testing.T) {
	hub := newTestHub()
	groceries := CategoryTopic(1, "Groceries")
	private := UserTopic(2)

	sub := &memorySubscriber{}
	hub.Register(sub, 2)
	hub.Subscribe(sub, groceries, private)

	hub.Remove(sub)

	if hub.SubscriberCount(groceries) != 0 || hub.SubscriberCount(private) != 0 {
		t.Fatalf("subscriptions survived removal")
	}

	hub.Publish(taskCreatedEvent(1, "Groceries", "milk"))
	if sub.count() != 0 {
		t.Fatalf("removed subscriber still received a frame")
	}

	// Removing twice is harmless.
	hub.Remove(sub)
}

func TestSubscribeUserJoinsLiveConnections(t *testing.T) {
	hub := newTestHub()
	topic := CategoryTopic(1, "NewFolder")

	phone := &memorySubscriber{}
	laptop := &memorySubscriber{}
	other := &memorySubscriber{}
	hub.Register(phone, 1)
	hub.Register(laptop, 1)
	hub.Register(other, 2)

	hub.SubscribeUser(1, topic)

	delivered := hub.Publish(taskCreatedEvent(1, "NewFolder", "first task"))
	if delivered != 2 {
		t.Fatalf("expected both of user 1's connections, got %d deliveries", delivered)
	}
	if other.count() != 0 {
		t.Fatalf("another user's connection must not be joined")
	}
}

func TestEncodedFrameShape(t *testing.T) {
	frame, err := Encode(TaskDeleted{OwnerID: 1, TaskID: 42, Category: "Groceries"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded struct {
		Event string `json:"event"`
		Data  struct {
			TaskID   int64  `json:"taskId"`
			Category string `json:"category"`
		} `json:"data"`
	}
	if err := json.Unmarshal(frame, &decoded); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}

	if decoded.Event != "taskDeleted" {
		t.Fatalf("unexpected event name %q", decoded.Event)
	}
	if decoded.Data.TaskID != 42 || decoded.Data.Category != "Groceries" {
		t.Fatalf("unexpected payload: %+v", decoded.Data)
	}
}

func TestReminderEventRoutesToReceiverTopic(t *testing.T) {
	hub := newTestHub()

	receiver := &memorySubscriber{}
	sender := &memorySubscriber{}
	hub.Register(receiver, 2)
	hub.Register(sender, 1)
	hub.Subscribe(receiver, UserTopic(2))
	hub.Subscribe(sender, UserTopic(1))

	hub.Publish(ReminderReceived{ReceiverID: 2, Category: "Groceries"})

	if receiver.count() != 1 {
		t.Fatalf("receiver did not get the reminder event")
	}
	if sender.count() != 0 {
		t.Fatalf("sender must not get the receiver's reminder event")
	}

	var decoded struct {
		Event string `json:"event"`
		Data  struct {
			Category string `json:"category"`
		} `json:"data"`
	}
	if err := json.Unmarshal(receiver.last(t), &decoded); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if decoded.Event != "reminderReceived" || decoded.Data.Category != "Groceries" {
		t.Fatalf("unexpected frame: %+v", decoded)
	}
}
