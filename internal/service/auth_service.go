package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
	"github.com/campustour/tour-api/internal/transport/mail"
	"github.com/campustour/tour-api/internal/util"
)

var (
	ErrAccountExists       = errors.New("account with this email or handle already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
	ErrOTPNotFound         = errors.New("otp not found")
	ErrOTPExpired          = errors.New("otp expired")
	ErrInvalidOTP          = errors.New("invalid otp")
	ErrInvalidResetToken   = errors.New("invalid reset token")
	ErrResetTokenExpired   = errors.New("reset token expired")
	ErrPasswordMismatch    = errors.New("passwords do not match")
)

// Mailer delivers a rendered message and returns its message id.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) (string, error)
}

type AuthConfig struct {
	OTPTTL        time.Duration
	ResetTokenTTL time.Duration
	AppName       string
}

type AuthService struct {
	users     ports.UserRepository
	otps      ports.OTPStore
	tokens    *util.JWTManager
	mailer    Mailer
	templates mail.Templates
	otpTTL    time.Duration
	resetTTL  time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func NewAuthService(users ports.UserRepository, otps ports.OTPStore, tokens *util.JWTManager, mailer Mailer, cfg AuthConfig, log *zap.Logger) *AuthService {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 10 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		otps:      otps,
		tokens:    tokens,
		mailer:    mailer,
		templates: mail.Templates{AppName: cfg.AppName},
		otpTTL:    cfg.OTPTTL,
		resetTTL:  cfg.ResetTokenTTL,
		now:       time.Now,
		log:       log.Named("auth"),
	}
}

type RegisterInput struct {
	Name      string
	Email     string
	StudentID string
	Password  string
	Type      string
}

// AuthResult is returned by every call that signs an account in.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// NewAccount describes an account created outside self-registration.
type NewAccount struct {
	Name      string
	Email     string
	StudentID string
	Password  string
	Role      domain.Role
	Type      domain.AccountType
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := util.NormalizeEmail(in.Email)
	handle := domain.ParseHandle(in.StudentID)
	if name == "" || email == "" || handle.Value == "" || in.Password == "" {
		return nil, invalid("Please provide all required fields")
	}
	if handle.IsFaculty() {
		return nil, invalidf("Student ID cannot start with %s", domain.FacultyHandlePrefix)
	}

	accountType := domain.AccountStudent
	if raw := strings.TrimSpace(in.Type); raw != "" {
		t, ok := domain.ParseAccountType(raw)
		if !ok || t == domain.AccountFaculty {
			return nil, invalid("Invalid account type")
		}
		accountType = t
	}

	user, err := s.CreateAccount(ctx, NewAccount{
		Name:      name,
		Email:     email,
		StudentID: handle.Value,
		Password:  in.Password,
		Role:      domain.RoleUser,
		Type:      accountType,
	})
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, user)
}

// CreateAccount validates and stores a new account with a hashed password.
func (s *AuthService) CreateAccount(ctx context.Context, in NewAccount) (*domain.User, error) {
	email := util.NormalizeEmail(in.Email)
	if !util.ValidEmail(email) {
		return nil, invalid("Please provide a valid email address")
	}
	if err := util.ValidatePassword(in.Password); err != nil {
		return nil, invalid(err.Error())
	}

	exists, err := s.users.ExistsByEmailOrHandle(ctx, email, in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if exists {
		return nil, ErrAccountExists
	}

	hash, err := util.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	accountType := in.Type
	if accountType == "" {
		accountType = domain.AccountStudent
	}

	user, err := s.users.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(in.Name),
		StudentID:    in.StudentID,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Type:         accountType,
	})
	if err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.log.Info("account created", zap.String("user_id", user.ID.Hex()), zap.String("type", string(user.Type)), zap.String("role", string(user.Role)))
	return user, nil
}

// Login accepts a student ID or a FACULTY-prefixed handle. Unknown handles
// and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, rawHandle, password string) (*AuthResult, error) {
	handle := domain.ParseHandle(rawHandle)
	if handle.Value == "" || password == "" {
		return nil, invalid("Please provide student ID and password")
	}
	user, err := s.findByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	if !util.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.signIn(ctx, user)
}

// Refresh mints a new access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", invalid("Refresh token is required")
	}
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	id, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("find account: %w", err)
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return "", ErrInvalidRefreshToken
	}
	access, _, err := s.tokens.GenerateAccess(user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return access, nil
}

func (s *AuthService) Logout(ctx context.Context, userID bson.ObjectID) error {
	err := s.users.UpdateRefreshToken(ctx, userID, nil)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID bson.ObjectID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Authenticate resolves an access token to its account. Token errors are
// util.ErrTokenExpired or util.ErrTokenInvalid; a deleted account yields
// ErrUserNotFound.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, err
	}
	id, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, util.ErrTokenInvalid
	}
	return s.Me(ctx, id)
}

type ForgotPasswordResult struct {
	Email       string
	MaskedEmail string
}

func (s *AuthService) ForgotPassword(ctx context.Context, rawHandle string) (*ForgotPasswordResult, error) {
	handle := domain.ParseHandle(rawHandle)
	if handle.Value == "" {
		return nil, invalid("Please provide your student ID")
	}
	user, err := s.findByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	code, err := util.GenerateNumericOTP()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	record := &domain.PasswordOTP{
		Email:     user.Email,
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: s.now().Add(s.otpTTL),
	}
	if err := s.otps.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	msg, err := s.templates.PasswordReset(user.Email, user.Name, code, s.otpTTL)
	if err != nil {
		return nil, err
	}
	if s.mailer == nil {
		return nil, mail.ErrNotConfigured
	}
	messageID, err := s.mailer.Send(ctx, msg)
	if err != nil {
		if delErr := s.otps.Delete(ctx, user.Email); delErr != nil {
			s.log.Warn("drop unsent otp", zap.Error(delErr))
		}
		return nil, fmt.Errorf("send password reset email: %w", err)
	}
	s.log.Info("password reset code sent", zap.String("user_id", user.ID.Hex()), zap.String("message_id", messageID))

	return &ForgotPasswordResult{Email: user.Email, MaskedEmail: util.MaskEmail(user.Email)}, nil
}

// VerifyOTP checks the emailed code and returns a reset token. A wrong code
// leaves the record in place; an expired one removes it.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	email = util.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return "", invalid("Please provide email and OTP")
	}
	record, err := s.otps.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", ErrOTPNotFound
		}
		return "", fmt.Errorf("load otp: %w", err)
	}

	now := s.now()
	if record.CodeExpired(now) {
		if err := s.otps.Delete(ctx, email); err != nil {
			return "", fmt.Errorf("delete expired otp: %w", err)
		}
		return "", ErrOTPExpired
	}
	if !util.SecureCompare(record.Code, code) {
		return "", ErrInvalidOTP
	}

	token, err := util.GenerateResetToken()
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	resetExpiresAt := now.Add(s.resetTTL)
	record.ResetToken = &token
	record.ResetExpiresAt = &resetExpiresAt
	if err := s.otps.Put(ctx, record); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword, confirmPassword string) error {
	if strings.TrimSpace(resetToken) == "" || newPassword == "" || confirmPassword == "" {
		return invalid("Please provide reset token and new password")
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return invalid(err.Error())
	}

	record, err := s.otps.FindByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("load reset token: %w", err)
	}
	if !record.Verified() {
		return ErrInvalidResetToken
	}
	if record.ResetExpired(s.now()) {
		if err := s.otps.Delete(ctx, record.Email); err != nil {
			return fmt.Errorf("delete expired reset token: %w", err)
		}
		return ErrResetTokenExpired
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, record.UserID, hash); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.otps.Delete(ctx, record.Email); err != nil {
		return fmt.Errorf("delete used otp: %w", err)
	}
	s.log.Info("password reset", zap.String("user_id", record.UserID.Hex()))
	return nil
}

type SeedAdminInput struct {
	Name     string
	Email    string
	Handle   string
	Password string
}

// SeedAdmin creates the bootstrap admin unless an account with that email
// already exists. It reports whether an account was created.
func (s *AuthService) SeedAdmin(ctx context.Context, in SeedAdminInput) (bool, error) {
	email := util.NormalizeEmail(in.Email)
	if email == "" {
		return false, nil
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, ports.ErrNotFound) {
		return false, fmt.Errorf("find admin: %w", err)
	}
	_, err := s.CreateAccount(ctx, NewAccount{
		Name:      in.Name,
		Email:     email,
		StudentID: strings.TrimSpace(in.Handle),
		Password:  in.Password,
		Role:      domain.RoleAdmin,
		Type:      domain.AccountStaff,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) findByHandle(ctx context.Context, handle domain.Handle) (*domain.User, error) {
	if handle.IsFaculty() {
		return s.users.FindFacultyByHandle(ctx, handle.Value)
	}
	return s.users.FindByHandle(ctx, handle.Value)
}

// signIn issues both tokens and stores the refresh token, replacing any
// earlier one.
func (s *AuthService) signIn(ctx context.Context, user *domain.User) (*AuthResult, error) {
	id := user.ID.Hex()
	access, _, err := s.tokens.GenerateAccess(id, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, _, err := s.tokens.GenerateRefresh(id)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, &refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	user.RefreshToken = &refresh
	return &AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}
