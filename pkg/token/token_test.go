package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prensprays-byte/library-inventory-system/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", TTLDays: 7}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	signed, err := Issue(cfg, now, "user-1", "admin", "ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := Verify(cfg, signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Fatalf("expected user id user-1, got %s", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected role admin, got %s", claims.Role)
	}
	if claims.Email != "ada@example.com" {
		t.Fatalf("expected email to round-trip, got %s", claims.Email)
	}
	if claims.Name != "Ada" {
		t.Fatalf("expected name to round-trip, got %s", claims.Name)
	}

	wantExpiry := now.Add(7 * 24 * time.Hour)
	gotExpiry := claims.ExpiresAt.Time
	if gotExpiry.Before(wantExpiry.Add(-2*time.Second)) || gotExpiry.After(wantExpiry.Add(2*time.Second)) {
		t.Fatalf("expected expiry near %v, got %v", wantExpiry, gotExpiry)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := Issue(cfg, time.Now(), "user-1", "reader", "r@example.com", "R")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three jwt segments, got %d", len(parts))
	}
	sig := parts[2]
	flipped := "A"
	if strings.HasSuffix(sig, "A") {
		flipped = "B"
	}
	tampered := parts[0] + "." + parts[1] + "." + sig[:len(sig)-1] + flipped

	if _, err := Verify(cfg, tampered); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for tampered signature, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := Issue(cfg, time.Now().Add(-8*24*time.Hour), "user-1", "reader", "r@example.com", "R")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := Verify(cfg, signed); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for expired token, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := Issue(testJWTConfig(), time.Now(), "user-1", "reader", "r@example.com", "R")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := config.JWTConfig{Secret: "different-secret", TTLDays: 7}
	if _, err := Verify(other, signed); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := Verify(testJWTConfig(), "not-a-token"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for garbage input, got %v", err)
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	if _, err := Issue(config.JWTConfig{TTLDays: 7}, time.Now(), "u", "reader", "e", "n"); err == nil {
		t.Fatalf("expected error without secret")
	}
}
