package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/ports"
)

// ReminderRepositoryImpl implements the ReminderRepository interface
type ReminderRepositoryImpl struct {
	db *sqlx.DB
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *sqlx.DB) ports.ReminderRepository {
	return &ReminderRepositoryImpl{db: db}
}

func (r *ReminderRepositoryImpl) Create(ctx context.Context, reminder *entities.Reminder) error {
	query := `
		INSERT INTO reminders (sender_id, receiver_id, category, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at`

	err := r.db.QueryRowContext(ctx, query,
		reminder.SenderID, reminder.ReceiverID, reminder.Category, reminder.Message,
	).Scan(&reminder.ID, &reminder.IsRead, &reminder.CreatedAt)

	if err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}

	return nil
}

func (r *ReminderRepositoryImpl) ListUnread(ctx context.Context, receiverID int64) ([]entities.ReminderView, error) {
	query := `
		SELECT r.id, r.sender_id, r.receiver_id, r.category, r.message,
			r.is_read, r.created_at,
			u.username AS sender_username
		FROM reminders r
		JOIN users u ON u.id = r.sender_id
		WHERE r.receiver_id = $1 AND r.is_read = FALSE
		ORDER BY r.created_at DESC`

	var reminders []entities.ReminderView
	err := r.db.SelectContext(ctx, &reminders, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("list unread reminders: %w", err)
	}

	return reminders, nil
}

// MarkRead flips is_read for the receiver's own reminder. The receiver check
// lives in the predicate so other users' reminder ids read as not found.
func (r *ReminderRepositoryImpl) MarkRead(ctx context.Context, id, receiverID int64) error {
	query := `
		UPDATE reminders
		SET is_read = TRUE
		WHERE id = $1 AND receiver_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, receiverID)
	if err != nil {
		return fmt.Errorf("mark reminder read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrReminderNotFound
	}

	return nil
}
