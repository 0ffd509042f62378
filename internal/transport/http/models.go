package http

import (
	"strings"
	"time"

	"github.com/campustour/tour-api/internal/domain"
)

// RegisterRequest carries self-registration fields.
type RegisterRequest struct {
	Name      string `json:"name" validate:"required" example:"Ada Lovelace"`
	Email     string `json:"email" validate:"required,email" example:"ada@example.com"`
	StudentID string `json:"studentID" validate:"required" example:"100001"`
	Password  string `json:"password" validate:"required" example:"secret1"`
	Type      string `json:"type,omitempty" validate:"omitempty,oneof=student alumni staff" example:"student"`
}

// LoginRequest accepts the handle in either field; clients historically send
// it as "email".
type LoginRequest struct {
	Email     string `json:"email" validate:"required_without=StudentID" example:"100001"`
	StudentID string `json:"studentID" example:"100001"`
	Password  string `json:"password" validate:"required" example:"secret1"`
}

func (r LoginRequest) handle() string {
	if h := strings.TrimSpace(r.StudentID); h != "" {
		return h
	}
	return r.Email
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ForgotPasswordRequest struct {
	StudentID string `json:"studentID" validate:"required_without=Email" example:"100001"`
	Email     string `json:"email" example:"100001"`
}

func (r ForgotPasswordRequest) handle() string {
	if h := strings.TrimSpace(r.StudentID); h != "" {
		return h
	}
	return r.Email
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email" example:"ada@example.com"`
	OTP   string `json:"otp" validate:"required" example:"123456"`
}

type ResetPasswordRequest struct {
	ResetToken      string `json:"resetToken" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required" example:"secret2"`
	ConfirmPassword string `json:"confirmPassword" validate:"required" example:"secret2"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type CaptionRequest struct {
	Caption string `json:"caption" validate:"max=280"`
}

type FacultyRequest struct {
	Name           string                 `json:"name" validate:"required"`
	Department     string                 `json:"department" validate:"required"`
	Designation    *string                `json:"designation,omitempty"`
	Email          *string                `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string                `json:"phone,omitempty"`
	Bio            *string                `json:"bio,omitempty"`
	Qualifications []domain.Qualification `json:"qualifications,omitempty" validate:"omitempty,dive"`
	AccountID      *string                `json:"accountId,omitempty"`
}

type FacultyUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Department  *string `json:"department,omitempty"`
	Designation *string `json:"designation,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AccountID   *string `json:"accountId,omitempty"`
}

type TourRequest struct {
	Title       string    `json:"title" validate:"required"`
	Destination string    `json:"destination" validate:"required"`
	Description *string   `json:"description,omitempty"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
	Status      string    `json:"status,omitempty" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	Capacity    int       `json:"capacity" validate:"gte=0"`
}

type TourUpdateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Destination *string    `json:"destination,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	Capacity    *int       `json:"capacity,omitempty" validate:"omitempty,gte=0"`
}

type TourEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description *string   `json:"description,omitempty"`
	StartsAt    time.Time `json:"startsAt" validate:"required"`
	Location    *string   `json:"location,omitempty"`
}

type VoteRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description,omitempty"`
	TourID      *string    `json:"tourId,omitempty"`
	Options     []string   `json:"options" validate:"min=2,max=10,dive,required"`
	ClosesAt    *time.Time `json:"closesAt,omitempty"`
}

type BallotRequest struct {
	OptionID string `json:"optionId" validate:"required"`
}

type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

type FacultyAccountRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	StudentID string `json:"studentID" validate:"required" example:"FACULTY042"`
	Password  string `json:"password" validate:"required"`
}

type BroadcastRequest struct {
	Subject     string   `json:"subject" validate:"required"`
	Message     string   `json:"message" validate:"required"`
	Recipients  []string `json:"recipients,omitempty" validate:"omitempty,dive,email"`
	AccountType string   `json:"accountType,omitempty" validate:"omitempty,oneof=student alumni faculty staff"`
}
