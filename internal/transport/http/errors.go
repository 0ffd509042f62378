package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/campustour/tour-api/internal/service"
	"github.com/campustour/tour-api/internal/util"
)

const internalMessage = "Internal server error"

type errorMapping struct {
	err     error
	status  int
	message string
}

// knownErrors maps expected service failures to responses. Anything not
// listed reaches errorHandler as a 500.
var knownErrors = []errorMapping{
	{service.ErrAccountExists, http.StatusBadRequest, "User with this email or student ID already exists"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{service.ErrInvalidRefreshToken, http.StatusUnauthorized, "Invalid refresh token"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrOTPNotFound, http.StatusBadRequest, "OTP not found. Please request a new one"},
	{service.ErrOTPExpired, http.StatusBadRequest, "OTP has expired"},
	{service.ErrInvalidOTP, http.StatusBadRequest, "Invalid OTP"},
	{service.ErrInvalidResetToken, http.StatusBadRequest, "Invalid or expired reset token"},
	{service.ErrResetTokenExpired, http.StatusBadRequest, "Reset token has expired"},
	{service.ErrPasswordMismatch, http.StatusBadRequest, "Passwords do not match"},
	{service.ErrIncorrectPassword, http.StatusBadRequest, "Current password is incorrect"},
	{service.ErrEmailTaken, http.StatusBadRequest, "Email already in use"},
	{service.ErrFeaturedPhotosFull, http.StatusBadRequest, "Maximum of 6 featured photos"},
	{service.ErrFeaturedPhotoMissing, http.StatusNotFound, "Featured photo not found"},
	{service.ErrFacultyNotFound, http.StatusNotFound, "Faculty member not found"},
	{service.ErrQualificationNotFound, http.StatusNotFound, "Qualification not found"},
	{service.ErrTourNotFound, http.StatusNotFound, "Tour schedule not found"},
	{service.ErrTourEventNotFound, http.StatusNotFound, "Tour event not found"},
	{service.ErrGalleryImageNotFound, http.StatusNotFound, "Gallery image not found"},
	{service.ErrVoteNotFound, http.StatusNotFound, "Vote not found"},
	{service.ErrAlreadyVoted, http.StatusBadRequest, "Already voted"},
	{service.ErrVoteClosed, http.StatusBadRequest, "Voting is closed"},
	{service.ErrUnknownOption, http.StatusBadRequest, "Invalid option"},
	{service.ErrForbidden, http.StatusForbidden, "You cannot change your own role"},
}

// writeError answers expected failures directly and hands everything else
// back to echo for the 500 path.
func writeError(c echo.Context, err error) error {
	if errors.Is(err, service.ErrValidation) {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	for _, m := range knownErrors {
		if errors.Is(err, m.err) {
			return c.JSON(m.status, util.Error(m.message))
		}
	}
	return err
}

func errorHandler(log *zap.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			message := http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok && m != "" {
				message = m
			}
			respond(c, he.Code, util.Error(message), log)
			return
		}

		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		body := util.Error(internalMessage)
		if production {
			body["error"] = internalMessage
		} else {
			body["error"] = err.Error()
		}
		respond(c, http.StatusInternalServerError, body, log)
	}
}

func respond(c echo.Context, status int, body util.Envelope, log *zap.Logger) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Warn("write error response", zap.Error(err))
	}
}
