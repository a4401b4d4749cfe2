package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager("test-secret-0123456789", "we4us", "we4us-web", time.Hour)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return manager
}

func TestIssueAndValidateToken(t *testing.T) {
	manager := newTestManager(t)
	userID := uuid.New()

	token, err := manager.IssueToken(userID, "ana@example.com", "patient")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected three-segment token, got %q", token)
	}

	claims, err := manager.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.Email != "ana@example.com" || claims.UserType != "patient" {
		t.Fatalf("claims not carried: %+v", claims)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	manager := newTestManager(t)
	token, err := manager.IssueToken(uuid.New(), "ana@example.com", "patient")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := manager.ValidateToken(context.Background(), tampered); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	manager := newTestManager(t)
	other, err := NewJWTManager("another-secret-9876543210", "we4us", "we4us-web", time.Hour)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	token, err := other.IssueToken(uuid.New(), "ana@example.com", "patient")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, err := manager.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected token from another key to be rejected")
	}
}

func TestValidateTokenExpiry(t *testing.T) {
	manager := newTestManager(t)
	issued := time.Now()
	manager.nowFunc = func() time.Time { return issued }

	token, err := manager.IssueToken(uuid.New(), "ana@example.com", "patient")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	manager.nowFunc = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := manager.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestNewJWTManagerRejectsShortSecret(t *testing.T) {
	if _, err := NewJWTManager("short", "we4us", "we4us-web", time.Hour); err == nil {
		t.Fatal("expected short secret to be rejected")
	}
}
