package ports

import (
	"time"

	"github.com/sharelist/core/internal/domain/entities"
)

// Claims carries the identity extracted from a verified bearer token.
type Claims struct {
	UserID   int64
	Username string
}

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// LoginRequest is the payload for credential verification.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned from signup and login.
type AuthResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// CreateTaskRequest is the payload for task creation. FolderOwnerID is set
// when writing into a shared folder on behalf of its owner; the task is then
// stored under that owner. Kind-specific payloads (text body, image ref) are
// validated in the task service.
type CreateTaskRequest struct {
	Text          string            `json:"task" form:"task" validate:"required"`
	Category      string            `json:"category" form:"category"`
	FolderOwnerID *int64            `json:"ownerId" form:"ownerId"`
	Kind          entities.TaskKind `json:"taskType" form:"taskType"`
	TextBody      *string           `json:"textContent" form:"textContent"`
	ImageRef      *string           `json:"-" form:"-"`
	DueAt         *time.Time        `json:"dueDate" form:"dueDate"`
}

// CreateShareRequest is the payload for sharing a folder.
type CreateShareRequest struct {
	Category       string `json:"category" validate:"required"`
	CollaboratorID int64  `json:"sharedWithUserId" validate:"required"`
}

// SendReminderRequest is the payload for sending a reminder.
type SendReminderRequest struct {
	ReceiverID int64   `json:"receiverId" validate:"required"`
	Category   string  `json:"category" validate:"required"`
	Message    *string `json:"message"`
}

// UserSummary is the public projection of a user, used by share and
// reminder pickers.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
