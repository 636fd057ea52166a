package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenService("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("super-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}

	tok, err := svc.Issue("user-123", "a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, "user-123")
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("email mismatch: got %q want %q", claims.Email, "a@x.com")
	}
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("secret", -1*time.Second)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}

	tok, err := svc.Issue("u1", "u1@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = svc.Verify(tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenService("right-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	verifier, err := NewTokenService("wrong-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}

	tok, err := issuer.Issue("u2", "u2@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = verifier.Verify(tok)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}

	tok, err := svc.Issue("u3", "u3@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip one character of the payload segment.
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", tok)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = svc.Verify(tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyMalformedString(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("k", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}

	_, err = svc.Verify("not.a.jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyMissingClaims(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}

	tok, err := svc.Issue("", "")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = svc.Verify(tok)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty claims, got %v", err)
	}
}
