package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openmeet/salas/internal/adapters/storage"
	"github.com/openmeet/salas/internal/domain"
)

func newTestService() *Service {
	tokens := NewTokenService("test-secret", time.Hour)
	return NewService(storage.NewMemoryStore(), tokens)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "s3cret-pw" {
		t.Fatalf("password stored in the clear")
	}
	if err := CheckPassword(hash, "s3cret-pw"); err != nil {
		t.Fatalf("expected matching password, got %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth for wrong password, got %v", err)
	}
}

func TestTokenIssueAndVerify(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	signed, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	uid, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != "user-1" {
		t.Fatalf("expected user-1, got %s", uid)
	}

	if _, err := tokens.Verify("not-a-token"); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth for garbage token, got %v", err)
	}

	other := NewTokenService("other-secret", time.Hour)
	if _, err := other.Verify(signed); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth for wrong secret, got %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	tokens := NewTokenService("test-secret", -time.Minute)
	signed, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tokens.Verify(signed); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth for expired token, got %v", err)
	}
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash == "s3cret-pw" {
		t.Fatalf("password stored in the clear")
	}

	if _, err := svc.Register(ctx, "Alice 2", "alice@example.com", "other-pw"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	token, err := svc.Login(ctx, "alice@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}

	if _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, "ghost@example.com", "s3cret-pw"); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth for unknown email, got %v", err)
	}
}
