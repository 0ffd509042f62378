package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
	"github.com/campustour/tour-api/internal/transport/mail"
	"github.com/campustour/tour-api/internal/util"
)

// broadcastConcurrency bounds the SMTP sessions a broadcast holds open.
const broadcastConcurrency = 8

type AdminService struct {
	users     ports.UserRepository
	auth      *AuthService
	mailer    Mailer
	templates mail.Templates
	log       *zap.Logger
}

func NewAdminService(users ports.UserRepository, auth *AuthService, mailer Mailer, appName string, log *zap.Logger) *AdminService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminService{
		users:     users,
		auth:      auth,
		mailer:    mailer,
		templates: mail.Templates{AppName: appName},
		log:       log.Named("admin"),
	}
}

func (s *AdminService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	return s.users.List(ctx, filter)
}

// UpdateRole changes another account's role. Admins cannot demote themselves.
func (s *AdminService) UpdateRole(ctx context.Context, actor, target bson.ObjectID, rawRole string) (*domain.User, error) {
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return nil, invalidf("Invalid role %q", rawRole)
	}
	if actor == target && role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	user, err := s.users.UpdateRole(ctx, target, role)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	s.log.Info("role updated",
		zap.String("actor_id", actor.Hex()),
		zap.String("user_id", target.Hex()),
		zap.String("role", string(role)),
	)
	return user, nil
}

type FacultyAccountInput struct {
	Name     string
	Email    string
	Handle   string
	Password string
}

// CreateFacultyAccount creates a faculty login. The handle always carries the
// FACULTY prefix so it resolves through the faculty lookup at sign-in, and is
// stored upper-cased because that lookup ignores case.
func (s *AdminService) CreateFacultyAccount(ctx context.Context, in FacultyAccountInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	handle := domain.ParseHandle(in.Handle)
	if name == "" || handle.Value == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, invalid("Please provide all required fields")
	}
	value := strings.ToUpper(handle.Value)
	if !handle.IsFaculty() {
		value = domain.FacultyHandlePrefix + value
	}
	return s.auth.CreateAccount(ctx, NewAccount{
		Name:      name,
		Email:     in.Email,
		StudentID: value,
		Password:  in.Password,
		Role:      domain.RoleUser,
		Type:      domain.AccountFaculty,
	})
}

type BroadcastInput struct {
	Subject     string
	Message     string
	Recipients  []string
	AccountType string
}

type DeliveryResult struct {
	Email     string `json:"email"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type BroadcastReport struct {
	Total   int              `json:"total"`
	Sent    int              `json:"sent"`
	Failed  int              `json:"failed"`
	Results []DeliveryResult `json:"results"`
}

// Broadcast emails every recipient and waits for all sends to settle. One
// failed delivery never cancels the others; each outcome is reported.
func (s *AdminService) Broadcast(ctx context.Context, in BroadcastInput) (*BroadcastReport, error) {
	subject := strings.TrimSpace(in.Subject)
	body := strings.TrimSpace(in.Message)
	if subject == "" || body == "" {
		return nil, invalid("Subject and message are required")
	}
	recipients, err := s.recipients(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, invalid("No recipients found")
	}
	if s.mailer == nil {
		return nil, mail.ErrNotConfigured
	}

	results := make([]DeliveryResult, len(recipients))
	var g errgroup.Group
	g.SetLimit(broadcastConcurrency)
	for i, to := range recipients {
		g.Go(func() error {
			results[i] = s.deliver(ctx, to, subject, body)
			return nil
		})
	}
	_ = g.Wait()

	report := &BroadcastReport{Total: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			report.Sent++
		} else {
			report.Failed++
		}
	}
	s.log.Info("broadcast finished",
		zap.Int("total", report.Total),
		zap.Int("sent", report.Sent),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *AdminService) deliver(ctx context.Context, to, subject, body string) DeliveryResult {
	result := DeliveryResult{Email: to}
	msg, err := s.templates.Broadcast(to, subject, body)
	if err == nil {
		result.MessageID, err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.log.Warn("broadcast delivery failed", zap.String("to", util.MaskEmail(to)), zap.Error(err))
		result.Error = err.Error()
		return result
	}
	result.Success = true
	return result
}

// recipients resolves the explicit list when given, otherwise every account
// of the requested type. Addresses are normalized and deduplicated.
func (s *AdminService) recipients(ctx context.Context, in BroadcastInput) ([]string, error) {
	raw := in.Recipients
	if len(raw) == 0 {
		var accountType domain.AccountType
		if t := strings.TrimSpace(in.AccountType); t != "" {
			parsed, ok := domain.ParseAccountType(t)
			if !ok {
				return nil, invalidf("Invalid account type %q", t)
			}
			accountType = parsed
		}
		emails, err := s.users.ListEmails(ctx, accountType)
		if err != nil {
			return nil, fmt.Errorf("list recipients: %w", err)
		}
		raw = emails
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, addr := range raw {
		email := util.NormalizeEmail(addr)
		if email == "" {
			continue
		}
		if !util.ValidEmail(email) {
			return nil, invalidf("Invalid recipient %q", addr)
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out, nil
}
