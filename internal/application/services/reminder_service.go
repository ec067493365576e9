package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/infrastructure/logger"
	"github.com/sharelist/core/internal/ports"
)

// ReminderService owns the reminder registry.
type ReminderService struct {
	reminderRepo ports.ReminderRepository
	userRepo     ports.UserRepository
	logger       *logger.Logger
}

// NewReminderService creates a new reminder service
func NewReminderService(reminderRepo ports.ReminderRepository, userRepo ports.UserRepository, logger *logger.Logger) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// Send creates a reminder from one user to another about a folder.
// Self-reminders are rejected, and the receiver must exist.
func (s *ReminderService) Send(ctx context.Context, senderID int64, req ports.SendReminderRequest) (*entities.Reminder, error) {
	if senderID == req.ReceiverID {
		return nil, entities.ErrSelfReminder
	}

	if _, err := s.userRepo.GetByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("look up receiver: %w", err)
	}

	reminder := &entities.Reminder{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Category:   req.Category,
		Message:    req.Message,
	}

	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	s.logger.Infow("Reminder sent", "reminder_id", reminder.ID,
		"sender_id", senderID, "receiver_id", req.ReceiverID, "category", req.Category)

	return reminder, nil
}

// ListUnread returns the receiver's unread reminders, newest first, with
// sender usernames attached.
func (s *ReminderService) ListUnread(ctx context.Context, userID int64) ([]entities.ReminderView, error) {
	reminders, err := s.reminderRepo.ListUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread reminders: %w", err)
	}
	return reminders, nil
}

// MarkRead acknowledges a reminder. Only the receiver can acknowledge; a
// wrong user gets not found so reminder ids leak nothing.
func (s *ReminderService) MarkRead(ctx context.Context, reminderID, userID int64) error {
	if err := s.reminderRepo.MarkRead(ctx, reminderID, userID); err != nil {
		if errors.Is(err, entities.ErrReminderNotFound) {
			return err
		}
		return fmt.Errorf("failed to mark reminder read: %w", err)
	}

	s.logger.Infow("Reminder read", "reminder_id", reminderID, "user_id", userID)
	return nil
}
