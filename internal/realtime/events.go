package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/sharelist/core/internal/domain/entities"
)

// EventKind names a server-pushed event on the wire.
type EventKind string

const (
	EventAuthenticated    EventKind = "authenticated"
	EventTaskCreated      EventKind = "taskCreated"
	EventTaskToggled      EventKind = "taskToggled"
	EventTaskDeleted      EventKind = "taskDeleted"
	EventReminderReceived EventKind = "reminderReceived"
)

// Event is the closed set of broadcast payloads. Each variant knows its wire
// name, the topic it routes to, and the data clients receive.
type Event interface {
	Kind() EventKind
	Topic() Topic
	data() interface{}
}

// TaskCreated is published after a task insert commits.
type TaskCreated struct {
	Task entities.TaskView
}

func (e TaskCreated) Kind() EventKind { return EventTaskCreated }

func (e TaskCreated) Topic() Topic {
	return CategoryTopic(e.Task.OwnerID, e.Task.Category)
}

func (e TaskCreated) data() interface{} {
	return taskPayload{Task: e.Task, Category: e.Task.Category}
}

// TaskToggled is published after a completion flip commits.
type TaskToggled struct {
	Task entities.TaskView
}

func (e TaskToggled) Kind() EventKind { return EventTaskToggled }

func (e TaskToggled) Topic() Topic {
	return CategoryTopic(e.Task.OwnerID, e.Task.Category)
}

func (e TaskToggled) data() interface{} {
	return taskPayload{Task: e.Task, Category: e.Task.Category}
}

// TaskDeleted is published after a task delete commits. Only the id survives
// the row, so the payload carries id and category.
type TaskDeleted struct {
	OwnerID  int64
	TaskID   int64
	Category string
}

func (e TaskDeleted) Kind() EventKind { return EventTaskDeleted }

func (e TaskDeleted) Topic() Topic {
	return CategoryTopic(e.OwnerID, e.Category)
}

func (e TaskDeleted) data() interface{} {
	return deletePayload{TaskID: e.TaskID, Category: e.Category}
}

// ReminderReceived nudges the receiver's own connections to refetch their
// unread reminders. It carries no reminder body.
type ReminderReceived struct {
	ReceiverID int64
	Category   string
}

func (e ReminderReceived) Kind() EventKind { return EventReminderReceived }

func (e ReminderReceived) Topic() Topic {
	return UserTopic(e.ReceiverID)
}

func (e ReminderReceived) data() interface{} {
	return reminderPayload{Category: e.Category}
}

type taskPayload struct {
	Task     entities.TaskView `json:"task"`
	Category string            `json:"category"`
}

type deletePayload struct {
	TaskID   int64  `json:"taskId"`
	Category string `json:"category"`
}

type reminderPayload struct {
	Category string `json:"category"`
}

// envelope is the wire frame for every server-pushed message.
type envelope struct {
	Event EventKind   `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Encode marshals an event into its wire frame.
func Encode(e Event) ([]byte, error) {
	frame, err := json.Marshal(envelope{Event: e.Kind(), Data: e.data()})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", e.Kind(), err)
	}
	return frame, nil
}
