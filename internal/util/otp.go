package util

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strconv"
)

const (
	otpMin         = 100000
	otpMax         = 999999
	resetTokenSize = 32
)

// GenerateNumericOTP returns a uniformly random six digit code in
// [100000, 999999].
func GenerateNumericOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// GenerateResetToken returns 256 random bits, hex encoded.
func GenerateResetToken() (string, error) {
	buf := make([]byte, resetTokenSize)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
