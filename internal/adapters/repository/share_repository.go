package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/ports"
)

// ShareRepositoryImpl implements the ShareRepository interface
type ShareRepositoryImpl struct {
	db *sqlx.DB
}

// NewShareRepository creates a new share repository
func NewShareRepository(db *sqlx.DB) ports.ShareRepository {
	return &ShareRepositoryImpl{db: db}
}

func (r *ShareRepositoryImpl) Create(ctx context.Context, share *entities.Share) error {
	query := `
		INSERT INTO shares (owner_id, category, collaborator_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		share.OwnerID, share.Category, share.CollaboratorID,
	).Scan(&share.ID, &share.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entities.ErrDuplicateShare
		}
		return fmt.Errorf("create share: %w", err)
	}

	return nil
}

func (r *ShareRepositoryImpl) Exists(ctx context.Context, ownerID int64, category string, collaboratorID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM shares
			WHERE owner_id = $1 AND category = $2 AND collaborator_id = $3
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, ownerID, category, collaboratorID)
	if err != nil {
		return false, fmt.Errorf("check share exists: %w", err)
	}

	return exists, nil
}

func (r *ShareRepositoryImpl) ListForCollaborator(ctx context.Context, collaboratorID int64) ([]entities.SharedFolder, error) {
	query := `
		SELECT s.id, s.owner_id, s.category, s.collaborator_id, s.created_at,
			u.username AS owner_username
		FROM shares s
		JOIN users u ON u.id = s.owner_id
		WHERE s.collaborator_id = $1
		ORDER BY s.created_at`

	var shares []entities.SharedFolder
	err := r.db.SelectContext(ctx, &shares, query, collaboratorID)
	if err != nil {
		return nil, fmt.Errorf("list shares for collaborator: %w", err)
	}

	return shares, nil
}

func (r *ShareRepositoryImpl) ListForOwner(ctx context.Context, ownerID int64) ([]entities.ShareView, error) {
	query := `
		SELECT s.id, s.owner_id, s.category, s.collaborator_id, s.created_at,
			u.username AS collaborator_name
		FROM shares s
		JOIN users u ON u.id = s.collaborator_id
		WHERE s.owner_id = $1
		ORDER BY s.category, u.username`

	var shares []entities.ShareView
	err := r.db.SelectContext(ctx, &shares, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list shares for owner: %w", err)
	}

	return shares, nil
}

// DeleteByOwner revokes a share. The ownership check is folded into the
// predicate so a non-owner cannot tell whether the share exists.
func (r *ShareRepositoryImpl) DeleteByOwner(ctx context.Context, id, ownerID int64) error {
	query := `DELETE FROM shares WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete share: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrShareNotFound
	}

	return nil
}
