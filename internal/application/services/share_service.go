package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/infrastructure/logger"
	"github.com/sharelist/core/internal/ports"
)

// ShareService owns the folder-sharing registry.
type ShareService struct {
	shareRepo ports.ShareRepository
	userRepo  ports.UserRepository
	logger    *logger.Logger
}

// NewShareService creates a new share service
func NewShareService(shareRepo ports.ShareRepository, userRepo ports.UserRepository, logger *logger.Logger) *ShareService {
	return &ShareService{
		shareRepo: shareRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// Create grants a collaborator visibility into one of the owner's folders.
// Re-sharing the same triple is a conflict, not a duplicate. A folder can be
// shared before it has any tasks; no task check is made.
func (s *ShareService) Create(ctx context.Context, ownerID int64, req ports.CreateShareRequest) (*entities.Share, error) {
	if _, err := s.userRepo.GetByID(ctx, req.CollaboratorID); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("look up collaborator: %w", err)
	}

	exists, err := s.shareRepo.Exists(ctx, ownerID, req.Category, req.CollaboratorID)
	if err != nil {
		return nil, fmt.Errorf("check existing share: %w", err)
	}
	if exists {
		return nil, entities.ErrDuplicateShare
	}

	share := &entities.Share{
		OwnerID:        ownerID,
		Category:       req.Category,
		CollaboratorID: req.CollaboratorID,
	}

	if err := s.shareRepo.Create(ctx, share); err != nil {
		if errors.Is(err, entities.ErrDuplicateShare) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create share: %w", err)
	}

	s.logger.Infow("Folder shared", "owner_id", ownerID, "category", req.Category,
		"collaborator_id", req.CollaboratorID)

	return share, nil
}

// ListOutgoing returns the caller's shares with collaborator usernames.
func (s *ShareService) ListOutgoing(ctx context.Context, ownerID int64) ([]entities.ShareView, error) {
	shares, err := s.shareRepo.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list outgoing shares: %w", err)
	}
	return shares, nil
}

// Revoke removes a share. Only the owner may revoke; anyone else sees not
// found rather than a permission error.
func (s *ShareService) Revoke(ctx context.Context, shareID, ownerID int64) error {
	if err := s.shareRepo.DeleteByOwner(ctx, shareID, ownerID); err != nil {
		if errors.Is(err, entities.ErrShareNotFound) {
			return err
		}
		return fmt.Errorf("failed to revoke share: %w", err)
	}

	s.logger.Infow("Share revoked", "share_id", shareID, "owner_id", ownerID)
	return nil
}
