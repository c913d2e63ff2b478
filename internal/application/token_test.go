package application

import (
	"errors"
	"testing"
	"time"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret", 7*24*time.Hour, func() time.Time { return issued })

	token, err := issuer.Issue("user-1", "admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	issuer := NewTokenIssuer("secret", time.Hour, func() time.Time { return clock })

	token, err := issuer.Issue("user-1", "user")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	clock = now.Add(2 * time.Hour)
	if _, err := issuer.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", time.Hour, nil)
	other := NewTokenIssuer("different", time.Hour, nil)

	token, err := issuer.Issue("user-1", "user")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenIssuer_Garbage(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", time.Hour, nil)
	if _, err := issuer.Parse("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
