package util

import (
	"encoding/hex"
	"strconv"
	"testing"
)

func TestGenerateNumericOTPRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateNumericOTP()
		if err != nil {
			t.Fatalf("GenerateNumericOTP returned error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("expected numeric code, got %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestGenerateResetToken(t *testing.T) {
	token, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken returned error: %v", err)
	}
	raw, err := hex.DecodeString(token)
	if err != nil {
		t.Fatalf("expected hex token, got %q", token)
	}
	if len(raw) != 32 {
		t.Fatalf("expected 32 random bytes, got %d", len(raw))
	}
	other, _ := GenerateResetToken()
	if other == token {
		t.Fatalf("expected distinct tokens")
	}
}

func TestSecureCompare(t *testing.T) {
	if !SecureCompare("123456", "123456") {
		t.Fatalf("expected equal strings to match")
	}
	if SecureCompare("123456", "123457") || SecureCompare("123456", "12345") {
		t.Fatalf("expected different strings not to match")
	}
}
