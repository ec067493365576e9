package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/ports"
)

// taskViewColumns joins each task with its owner's username and, when
// completed, the completing user's username.
const taskViewColumns = `
	t.id, t.owner_id, t.text, t.category, t.kind, t.text_body, t.image_ref,
	t.due_at, t.completed, t.completed_at, t.completed_by_id, t.created_at,
	o.username AS username,
	c.username AS completed_by`

const taskViewJoins = `
	FROM tasks t
	JOIN users o ON o.id = t.owner_id
	LEFT JOIN users c ON c.id = t.completed_by_id`

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (owner_id, text, category, kind, text_body, image_ref, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, completed, created_at`

	err := r.db.QueryRowContext(ctx, query,
		task.OwnerID, task.Text, task.Category, task.Kind,
		task.TextBody, task.ImageRef, task.DueAt,
	).Scan(&task.ID, &task.Completed, &task.CreatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.Task, error) {
	query := `
		SELECT id, owner_id, text, category, kind, text_body, image_ref,
			due_at, completed, completed_at, completed_by_id, created_at
		FROM tasks
		WHERE id = $1`

	var task entities.Task
	err := r.db.GetContext(ctx, &task, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return &task, nil
}

func (r *TaskRepositoryImpl) GetViewByID(ctx context.Context, id int64) (*entities.TaskView, error) {
	query := `SELECT` + taskViewColumns + taskViewJoins + ` WHERE t.id = $1`

	var view entities.TaskView
	err := r.db.GetContext(ctx, &view, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task view by id: %w", err)
	}

	return &view, nil
}

func (r *TaskRepositoryImpl) SetCompletion(ctx context.Context, id int64, completed bool, completedAt *time.Time, completedByID *int64) error {
	query := `
		UPDATE tasks
		SET completed = $2, completed_at = $3, completed_by_id = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, completed, completedAt, completedByID)
	if err != nil {
		return fmt.Errorf("set task completion: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

// DeleteFolder removes every task in the folder. Matching zero rows is not
// an error; the operation is idempotent.
func (r *TaskRepositoryImpl) DeleteFolder(ctx context.Context, ownerID int64, category string) error {
	query := `DELETE FROM tasks WHERE owner_id = $1 AND category = $2`

	_, err := r.db.ExecContext(ctx, query, ownerID, category)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) ListByOwner(ctx context.Context, ownerID int64) ([]entities.TaskView, error) {
	query := `SELECT` + taskViewColumns + taskViewJoins + `
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC`

	var tasks []entities.TaskView
	err := r.db.SelectContext(ctx, &tasks, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by owner: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) ListByOwnerAndCategory(ctx context.Context, ownerID int64, category string) ([]entities.TaskView, error) {
	query := `SELECT` + taskViewColumns + taskViewJoins + `
		WHERE t.owner_id = $1 AND t.category = $2
		ORDER BY t.created_at DESC`

	var tasks []entities.TaskView
	err := r.db.SelectContext(ctx, &tasks, query, ownerID, category)
	if err != nil {
		return nil, fmt.Errorf("list tasks by owner and category: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) ListCategories(ctx context.Context, ownerID int64) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM tasks
		WHERE owner_id = $1
		ORDER BY category`

	var categories []string
	err := r.db.SelectContext(ctx, &categories, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}
