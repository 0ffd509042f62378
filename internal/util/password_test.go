package util

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" || hash == "secret1" {
		t.Fatalf("expected an opaque digest, got %q", hash)
	}
	if !VerifyPassword("secret1", hash) {
		t.Fatalf("expected password verification to succeed")
	}
	for _, other := range []string{"secret2", "Secret1", "secret1 ", ""} {
		if VerifyPassword(other, hash) {
			t.Fatalf("expected verification to fail for %q", other)
		}
	}
}

func TestHashPasswordUsesCostAndSalt(t *testing.T) {
	first, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if first == second {
		t.Fatalf("expected salted hashes to differ")
	}
	cost, err := bcrypt.Cost([]byte(first))
	if err != nil {
		t.Fatalf("bcrypt.Cost returned error: %v", err)
	}
	if cost != PasswordCost {
		t.Fatalf("expected cost %d, got %d", PasswordCost, cost)
	}
}

func TestHashPasswordEmptyInput(t *testing.T) {
	if _, err := HashPassword(""); !errors.Is(err, ErrPasswordEmpty) {
		t.Fatalf("expected ErrPasswordEmpty, got %v", err)
	}
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	if VerifyPassword("secret1", "not-a-bcrypt-hash") {
		t.Fatalf("expected malformed digest to fail verification")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); err == nil || !strings.Contains(err.Error(), "6 characters") {
		t.Fatalf("expected length error, got %v", err)
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Fatalf("expected six characters to pass, got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("a", MaxPasswordLength)); err != nil {
		t.Fatalf("expected %d bytes to pass, got %v", MaxPasswordLength, err)
	}
	if err := ValidatePassword(strings.Repeat("a", MaxPasswordLength+1)); err == nil || !strings.Contains(err.Error(), "72 bytes") {
		t.Fatalf("expected upper length error, got %v", err)
	}
	// multi-byte runes count by byte
	if err := ValidatePassword(strings.Repeat("é", 37)); err == nil {
		t.Fatal("expected 74-byte password to fail")
	}
}
