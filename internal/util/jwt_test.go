package util

import (
	"errors"
	"testing"
	"time"
)

func TestJWTManagerAccessRoundTrip(t *testing.T) {
	manager := NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	token, expiresAt, err := manager.GenerateAccess("65f0c0ffee", "user@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateAccess returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token to be non-empty")
	}
	if d := time.Until(expiresAt); d <= 14*time.Minute || d > 15*time.Minute {
		t.Fatalf("expected ~15 minute lifetime, got %s", d)
	}

	claims, err := manager.ParseAccess(token)
	if err != nil {
		t.Fatalf("ParseAccess returned error: %v", err)
	}
	if claims.UserID != "65f0c0ffee" || claims.Email != "user@example.com" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTManagerRefreshRoundTrip(t *testing.T) {
	manager := NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	token, expiresAt, err := manager.GenerateRefresh("65f0c0ffee")
	if err != nil {
		t.Fatalf("GenerateRefresh returned error: %v", err)
	}
	if d := time.Until(expiresAt); d <= 6*24*time.Hour {
		t.Fatalf("expected ~7 day lifetime, got %s", d)
	}
	claims, err := manager.ParseRefresh(token)
	if err != nil {
		t.Fatalf("ParseRefresh returned error: %v", err)
	}
	if claims.UserID != "65f0c0ffee" {
		t.Fatalf("unexpected user id %q", claims.UserID)
	}

	again, _, err := manager.GenerateRefresh("65f0c0ffee")
	if err != nil {
		t.Fatalf("GenerateRefresh returned error: %v", err)
	}
	if again == token {
		t.Fatalf("expected each refresh token to be unique")
	}
}

func TestJWTManagerExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret", "", time.Minute, time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	manager.now = func() time.Time { return issued }

	access, _, err := manager.GenerateAccess("id", "user@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateAccess returned error: %v", err)
	}
	refresh, _, err := manager.GenerateRefresh("id")
	if err != nil {
		t.Fatalf("GenerateRefresh returned error: %v", err)
	}

	manager.now = time.Now
	if _, err := manager.ParseAccess(access); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if _, err := manager.ParseRefresh(refresh); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTManagerInvalidTokens(t *testing.T) {
	manager := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	other := NewJWTManager("other-secret", "other-refresh", time.Minute, time.Hour)

	foreign, _, err := other.GenerateAccess("id", "user@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateAccess returned error: %v", err)
	}
	access, _, _ := manager.GenerateAccess("id", "user@example.com", "user")
	refresh, _, _ := manager.GenerateRefresh("id")

	tests := []struct {
		name  string
		parse func() error
	}{
		{name: "garbage", parse: func() error { _, err := manager.ParseAccess("not-a-token"); return err }},
		{name: "wrong secret", parse: func() error { _, err := manager.ParseAccess(foreign); return err }},
		{name: "access as refresh", parse: func() error { _, err := manager.ParseRefresh(access); return err }},
		{name: "refresh as access", parse: func() error { _, err := manager.ParseAccess(refresh); return err }},
	}
	for _, tc := range tests {
		err := tc.parse()
		if !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("%s: expected ErrTokenInvalid, got %v", tc.name, err)
		}
	}
}

func TestJWTManagerSharedSecretStillSeparatesTypes(t *testing.T) {
	manager := NewJWTManager("shared", "", time.Minute, time.Hour)
	refresh, _, _ := manager.GenerateRefresh("id")
	if _, err := manager.ParseAccess(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected refresh token to be rejected as access token, got %v", err)
	}
}
