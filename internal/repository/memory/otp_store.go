package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
)

// OTPStore is a process-local password-reset store. Records are returned by
// value so callers never share state with the map.
type OTPStore struct {
	mu      sync.Mutex
	records map[string]domain.PasswordOTP
	now     func() time.Time
	log     *zap.Logger
}

func NewOTPStore(log *zap.Logger) *OTPStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &OTPStore{
		records: make(map[string]domain.PasswordOTP),
		now:     time.Now,
		log:     log.Named("otp_store"),
	}
}

func (s *OTPStore) Put(ctx context.Context, record *domain.PasswordOTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key(record.Email)] = clone(record)
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (*domain.PasswordOTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key(email)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := clone(&rec)
	return &out, nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key(email))
	return nil
}

func (s *OTPStore) FindByResetToken(ctx context.Context, token string) (*domain.PasswordOTP, error) {
	if token == "" {
		return nil, ports.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.Verified() && *rec.ResetToken == token {
			out := clone(&rec)
			return &out, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (s *OTPStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Sweep drops every record whose code and reset windows have both lapsed
// and returns how many were removed.
func (s *OTPStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k, rec := range s.records {
		if rec.Stale(now) {
			delete(s.records, k)
			removed++
		}
	}
	return removed
}

// Run sweeps on every tick until ctx is cancelled.
func (s *OTPStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Debug("swept stale password reset records", zap.Int("removed", n))
			}
		}
	}
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func clone(rec *domain.PasswordOTP) domain.PasswordOTP {
	out := *rec
	if rec.ResetToken != nil {
		token := *rec.ResetToken
		out.ResetToken = &token
	}
	if rec.ResetExpiresAt != nil {
		at := *rec.ResetExpiresAt
		out.ResetExpiresAt = &at
	}
	return out
}
