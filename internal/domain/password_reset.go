package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PasswordOTP is the one live password-reset record for an email. It starts
// out holding only a code; verifying the code attaches a reset token.
type PasswordOTP struct {
	Email          string        `bson:"_id" json:"email"`
	UserID         bson.ObjectID `bson:"userId" json:"userId"`
	Code           string        `bson:"code" json:"-"`
	ExpiresAt      time.Time     `bson:"expiresAt" json:"expiresAt"`
	ResetToken     *string       `bson:"resetToken,omitempty" json:"-"`
	ResetExpiresAt *time.Time    `bson:"resetExpiresAt,omitempty" json:"resetExpiresAt,omitempty"`
}

// Verified reports whether the code has been confirmed and a reset token
// issued.
func (o *PasswordOTP) Verified() bool {
	return o.ResetToken != nil
}

func (o *PasswordOTP) CodeExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

func (o *PasswordOTP) ResetExpired(now time.Time) bool {
	return o.ResetExpiresAt == nil || now.After(*o.ResetExpiresAt)
}

// PurgeAt is the instant after which no transition can use the record.
func (o *PasswordOTP) PurgeAt() time.Time {
	if o.ResetExpiresAt != nil && o.ResetExpiresAt.After(o.ExpiresAt) {
		return *o.ResetExpiresAt
	}
	return o.ExpiresAt
}

func (o *PasswordOTP) Stale(now time.Time) bool {
	return now.After(o.PurgeAt())
}
