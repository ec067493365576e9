package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/ports"
)

func newShareService(store *fakeStore) *ShareService {
	return NewShareService(&fakeShareRepo{store: store}, &fakeUserRepo{store: store}, testLogger())
}

func TestCreateShare(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")

	svc := newShareService(store)

	share, err := svc.Create(context.Background(), alice.ID, ports.CreateShareRequest{
		Category:       "Groceries",
		CollaboratorID: bob.ID,
	})
	if err != nil {
		t.Fatalf("create share: %v", err)
	}
	if share.ID == 0 || share.OwnerID != alice.ID || share.CollaboratorID != bob.ID {
		t.Fatalf("unexpected share: %+v", share)
	}
}

func TestCreateShareDuplicateConflicts(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	store.addShare(alice.ID, "Groceries", bob.ID)

	svc := newShareService(store)

	_, err := svc.Create(context.Background(), alice.ID, ports.CreateShareRequest{
		Category:       "Groceries",
		CollaboratorID: bob.ID,
	})
	if !errors.Is(err, entities.ErrDuplicateShare) {
		t.Fatalf("expected ErrDuplicateShare, got %v", err)
	}
}

func TestCreateShareUnknownCollaborator(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice")

	svc := newShareService(store)

	_, err := svc.Create(context.Background(), alice.ID, ports.CreateShareRequest{
		Category:       "Groceries",
		CollaboratorID: 999,
	})
	if !errors.Is(err, entities.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRevokeShareRequiresOwnership(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	share := store.addShare(alice.ID, "Groceries", bob.ID)

	svc := newShareService(store)
	ctx := context.Background()

	// The collaborator cannot revoke and learns nothing from the error.
	if err := svc.Revoke(ctx, share.ID, bob.ID); !errors.Is(err, entities.ErrShareNotFound) {
		t.Fatalf("expected ErrShareNotFound for non-owner, got %v", err)
	}

	if err := svc.Revoke(ctx, share.ID, alice.ID); err != nil {
		t.Fatalf("owner revoke: %v", err)
	}
	if len(store.shares) != 0 {
		t.Fatalf("share should be gone")
	}
}

func TestListOutgoingIncludesCollaboratorName(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	store.addShare(alice.ID, "Groceries", bob.ID)

	svc := newShareService(store)

	shares, err := svc.ListOutgoing(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("list outgoing: %v", err)
	}
	if len(shares) != 1 || shares[0].CollaboratorName != "bob" {
		t.Fatalf("unexpected shares: %+v", shares)
	}
}
