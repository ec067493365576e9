package services

import (
	"context"
	"fmt"

	"github.com/sharelist/core/internal/infrastructure/logger"
	"github.com/sharelist/core/internal/ports"
)

// UserService exposes the user directory.
type UserService struct {
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListOthers returns every user except the caller, as the share and
// reminder pickers need them.
func (s *UserService) ListOthers(ctx context.Context, callerID int64) ([]ports.UserSummary, error) {
	users, err := s.userRepo.ListOthers(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	summaries := make([]ports.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, ports.UserSummary{ID: u.ID, Username: u.Username})
	}

	return summaries, nil
}
