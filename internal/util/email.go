package util

import (
	"regexp"
	"strings"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail performs the basic local@domain.tld shape check.
func ValidEmail(email string) bool {
	return emailShape.MatchString(email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MaskEmail keeps the first and last character of the local part, e.g.
// "student@uni.edu" becomes "s*****t@uni.edu".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local, domain := email[:at], email[at:]
	switch len(local) {
	case 1:
		return local + domain
	case 2:
		return local[:1] + "*" + domain
	default:
		return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + domain
	}
}
