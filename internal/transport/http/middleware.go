package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/service"
	"github.com/campustour/tour-api/internal/util"
)

const (
	contextUserKey = "auth.user"

	CodeNoToken      = "NO_TOKEN"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeUserNotFound = "USER_NOT_FOUND"
)

// RequireAuth resolves the bearer token to an account and attaches it to the
// request. Every rejection is a 401 with a machine-readable code.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.ErrorCode("Access denied. No token provided", CodeNoToken))
			}
			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, util.ErrTokenExpired):
					return c.JSON(http.StatusUnauthorized, util.ErrorCode("Token expired", CodeTokenExpired))
				case errors.Is(err, util.ErrTokenInvalid):
					return c.JSON(http.StatusUnauthorized, util.ErrorCode("Invalid token", CodeInvalidToken))
				case errors.Is(err, service.ErrUserNotFound):
					return c.JSON(http.StatusUnauthorized, util.ErrorCode("User not found", CodeUserNotFound))
				}
				return err
			}
			c.Set(contextUserKey, user)
			return next(c)
		}
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.Error("Authentication required"))
			}
			if !user.HasRole(roles...) {
				return c.JSON(http.StatusForbidden, util.Error("Access denied. Insufficient permissions"))
			}
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(contextUserKey).(*domain.User)
	return user, ok && user != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
