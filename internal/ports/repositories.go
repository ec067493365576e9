package ports

import (
	"context"
	"time"

	"github.com/sharelist/core/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id int64) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	ListOthers(ctx context.Context, excludeID int64) ([]*entities.User, error)
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id int64) (*entities.Task, error)
	GetViewByID(ctx context.Context, id int64) (*entities.TaskView, error)
	SetCompletion(ctx context.Context, id int64, completed bool, completedAt *time.Time, completedByID *int64) error
	Delete(ctx context.Context, id int64) error
	DeleteFolder(ctx context.Context, ownerID int64, category string) error
	ListByOwner(ctx context.Context, ownerID int64) ([]entities.TaskView, error)
	ListByOwnerAndCategory(ctx context.Context, ownerID int64, category string) ([]entities.TaskView, error)
	ListCategories(ctx context.Context, ownerID int64) ([]string, error)
}

// ShareRepository defines the interface for share data operations
type ShareRepository interface {
	Create(ctx context.Context, share *entities.Share) error
	Exists(ctx context.Context, ownerID int64, category string, collaboratorID int64) (bool, error)
	ListForCollaborator(ctx context.Context, collaboratorID int64) ([]entities.SharedFolder, error)
	ListForOwner(ctx context.Context, ownerID int64) ([]entities.ShareView, error)
	DeleteByOwner(ctx context.Context, id, ownerID int64) error
}

// ReminderRepository defines the interface for reminder data operations
type ReminderRepository interface {
	Create(ctx context.Context, reminder *entities.Reminder) error
	ListUnread(ctx context.Context, receiverID int64) ([]entities.ReminderView, error)
	MarkRead(ctx context.Context, id, receiverID int64) error
}
