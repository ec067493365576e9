package entities

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrShareNotFound      = errors.New("share not found")
	ErrReminderNotFound   = errors.New("reminder not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateShare     = errors.New("folder already shared with this user")
	ErrSelfReminder       = errors.New("cannot send a reminder to yourself")
	ErrUnauthorized       = errors.New("unauthorized")
)

// TaskKind distinguishes the three task payload shapes.
type TaskKind string

const (
	TaskKindList  TaskKind = "list"
	TaskKindText  TaskKind = "text"
	TaskKindImage TaskKind = "image"
)

func (k TaskKind) IsValid() bool {
	switch k {
	case TaskKindList, TaskKindText, TaskKindImage:
		return true
	default:
		return false
	}
}

// DefaultCategory groups tasks created without an explicit folder.
const DefaultCategory = "Uncategorized"

// User represents a registered account.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        *string   `json:"email" db:"email"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Task represents a single to-do item inside a folder. The owner is the user
// whose folder the task lives in, which is not necessarily its creator when
// the folder is shared.
type Task struct {
	ID            int64      `json:"id" db:"id"`
	OwnerID       int64      `json:"ownerId" db:"owner_id"`
	Text          string     `json:"task" db:"text"`
	Category      string     `json:"category" db:"category"`
	Kind          TaskKind   `json:"taskType" db:"kind"`
	TextBody      *string    `json:"textContent" db:"text_body"`
	ImageRef      *string    `json:"imageUrl" db:"image_ref"`
	DueAt         *time.Time `json:"dueDate" db:"due_at"`
	Completed     bool       `json:"completed" db:"completed"`
	CompletedAt   *time.Time `json:"completedAt" db:"completed_at"`
	CompletedByID *int64     `json:"completedById" db:"completed_by_id"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

// MarkCompleted stamps the completion fields for the acting user.
func (t *Task) MarkCompleted(userID int64, at time.Time) {
	t.Completed = true
	t.CompletedAt = &at
	t.CompletedByID = &userID
}

// MarkIncomplete clears the completion fields. Completed == false always
// implies CompletedAt == nil and CompletedByID == nil.
func (t *Task) MarkIncomplete() {
	t.Completed = false
	t.CompletedAt = nil
	t.CompletedByID = nil
}

// TaskView is a task row joined with the usernames the clients render:
// the folder owner's and, when completed, the completing user's.
type TaskView struct {
	Task
	Username    string  `json:"username" db:"username"`
	CompletedBy *string `json:"completedBy" db:"completed_by"`
}

// Share grants one user read/write visibility into another user's folder.
// At most one share exists per (owner, category, collaborator) triple.
type Share struct {
	ID             int64     `json:"id" db:"id"`
	OwnerID        int64     `json:"ownerId" db:"owner_id"`
	Category       string    `json:"category" db:"category"`
	CollaboratorID int64     `json:"sharedWithUserId" db:"collaborator_id"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// ShareView is a share row joined with the collaborator's username, used
// when listing a user's outgoing shares.
type ShareView struct {
	Share
	CollaboratorName string `json:"sharedWithUsername" db:"collaborator_name"`
}

// SharedFolder is a share row seen from the collaborator's side, joined with
// the owning user's username. It drives both the aggregate task view and the
// realtime topic subscriptions.
type SharedFolder struct {
	Share
	OwnerUsername string `json:"ownerUsername" db:"owner_username"`
}

// Reminder is an unread-until-acknowledged notice from one user to another
// about a folder. Reminders are never deleted; the notification surface only
// reads the unread ones.
type Reminder struct {
	ID         int64     `json:"id" db:"id"`
	SenderID   int64     `json:"senderId" db:"sender_id"`
	ReceiverID int64     `json:"receiverId" db:"receiver_id"`
	Category   string    `json:"category" db:"category"`
	Message    *string   `json:"message" db:"message"`
	IsRead     bool      `json:"isRead" db:"is_read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// ReminderView is a reminder row joined with the sender's username.
type ReminderView struct {
	Reminder
	SenderUsername string `json:"senderUsername" db:"sender_username"`
}

// CategoryGroup is one folder in the aggregate view: its tasks newest first,
// plus sharing provenance when the folder belongs to someone else.
type CategoryGroup struct {
	Tasks    []TaskView `json:"tasks"`
	Shared   bool       `json:"shared"`
	SharedBy *string    `json:"sharedBy"`
}
