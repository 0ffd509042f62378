package ports

import (
	"context"

	"github.com/campustour/tour-api/internal/domain"
)

// OTPStore holds at most one password-reset record per email. Put replaces
// any existing record for the same email.
type OTPStore interface {
	Put(ctx context.Context, record *domain.PasswordOTP) error
	Get(ctx context.Context, email string) (*domain.PasswordOTP, error)
	Delete(ctx context.Context, email string) error
	FindByResetToken(ctx context.Context, token string) (*domain.PasswordOTP, error)
}
