package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/infrastructure/config"
	"github.com/sharelist/core/internal/ports"
)

func newAuthService(store *fakeStore) *AuthService {
	return NewAuthService(&fakeUserRepo{store: store}, config.JWTConfig{
		Secret:    "test-secret",
		ExpiresIn: time.Hour,
		Issuer:    "sharelist-test",
	}, testLogger())
}

func TestSignupLoginVerifyRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, ports.SignupRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if signup.Token == "" || signup.UserID == 0 || signup.Username != "alice" {
		t.Fatalf("incomplete signup response: %+v", signup)
	}

	login, err := svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.UserID != signup.UserID {
		t.Fatalf("login user id %d != signup user id %d", login.UserID, signup.UserID)
	}

	claims, err := svc.VerifyToken(login.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != signup.UserID || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, ports.SignupRequest{Username: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	_, err := svc.Signup(ctx, ports.SignupRequest{Username: "alice", Password: "other456"})
	if !errors.Is(err, entities.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, ports.SignupRequest{Username: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "wrong"}); !errors.Is(err, entities.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, ports.LoginRequest{Username: "nobody", Password: "secret123"}); !errors.Is(err, entities.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestVerifyTokenRejectsForgedToken(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, ports.SignupRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.VerifyToken("not-a-token"); err == nil {
		t.Fatalf("expected error for garbage token")
	}

	other := NewAuthService(&fakeUserRepo{store: store}, config.JWTConfig{
		Secret:    "different-secret",
		ExpiresIn: time.Hour,
		Issuer:    "sharelist-test",
	}, testLogger())
	if _, err := other.VerifyToken(signup.Token); err == nil {
		t.Fatalf("expected error for token signed with another secret")
	}
}
