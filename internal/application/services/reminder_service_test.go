package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/ports"
)

func newReminderService(store *fakeStore) *ReminderService {
	return NewReminderService(&fakeReminderRepo{store: store}, &fakeUserRepo{store: store}, testLogger())
}

func TestSendReminder(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")

	svc := newReminderService(store)

	reminder, err := svc.Send(context.Background(), alice.ID, ports.SendReminderRequest{
		ReceiverID: bob.ID,
		Category:   "Groceries",
	})
	if err != nil {
		t.Fatalf("send reminder: %v", err)
	}
	if reminder.ID == 0 || reminder.SenderID != alice.ID || reminder.ReceiverID != bob.ID {
		t.Fatalf("unexpected reminder: %+v", reminder)
	}
	if reminder.IsRead {
		t.Fatalf("new reminder must start unread")
	}
}

func TestSendReminderToSelfRejected(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice")

	svc := newReminderService(store)

	_, err := svc.Send(context.Background(), alice.ID, ports.SendReminderRequest{
		ReceiverID: alice.ID,
		Category:   "Groceries",
	})
	if !errors.Is(err, entities.ErrSelfReminder) {
		t.Fatalf("expected ErrSelfReminder, got %v", err)
	}
}

func TestSendReminderUnknownReceiver(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice")

	svc := newReminderService(store)

	_, err := svc.Send(context.Background(), alice.ID, ports.SendReminderRequest{
		ReceiverID: 999,
		Category:   "Groceries",
	})
	if !errors.Is(err, entities.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMarkReadRequiresReceiver(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")

	svc := newReminderService(store)
	ctx := context.Background()

	reminder, err := svc.Send(ctx, alice.ID, ports.SendReminderRequest{
		ReceiverID: bob.ID,
		Category:   "Groceries",
	})
	if err != nil {
		t.Fatalf("send reminder: %v", err)
	}

	if err := svc.MarkRead(ctx, reminder.ID, alice.ID); !errors.Is(err, entities.ErrReminderNotFound) {
		t.Fatalf("expected ErrReminderNotFound for wrong user, got %v", err)
	}

	if err := svc.MarkRead(ctx, reminder.ID, bob.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := svc.ListUnread(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("acknowledged reminder still listed: %+v", unread)
	}
}

func TestListUnreadIncludesSenderUsername(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")

	svc := newReminderService(store)
	ctx := context.Background()

	if _, err := svc.Send(ctx, alice.ID, ports.SendReminderRequest{ReceiverID: bob.ID, Category: "Groceries"}); err != nil {
		t.Fatalf("send reminder: %v", err)
	}

	unread, err := svc.ListUnread(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 1 || unread[0].SenderUsername != "alice" {
		t.Fatalf("unexpected unread reminders: %+v", unread)
	}
}
