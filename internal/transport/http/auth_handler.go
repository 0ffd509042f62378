package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campustour/tour-api/internal/service"
	"github.com/campustour/tour-api/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService) {
	h := &AuthHandler{auth: auth}

	g := e.Group("/api/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/refresh-token", h.refreshToken)
	g.POST("/forgot-password", h.forgotPassword)
	g.POST("/verify-otp", h.verifyOTP)
	g.POST("/reset-password", h.resetPassword)

	protected := g.Group("", RequireAuth(auth))
	protected.GET("/me", h.me)
	protected.POST("/logout", h.logout)
}

func authPayload(res *service.AuthResult) util.Envelope {
	return util.Envelope{
		"user":         res.User,
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
	}
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		StudentID: req.StudentID,
		Password:  req.Password,
		Type:      req.Type,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.SuccessMessage("User registered successfully", authPayload(res)))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.auth.Login(c.Request().Context(), req.handle(), req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Login successful", authPayload(res)))
}

func (h *AuthHandler) refreshToken(c echo.Context) error {
	var req RefreshTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	access, err := h.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success(util.Envelope{"accessToken": access}))
}

func (h *AuthHandler) me(c echo.Context) error {
	user, _ := CurrentUser(c)
	return c.JSON(http.StatusOK, util.Success(user))
}

func (h *AuthHandler) logout(c echo.Context) error {
	user, _ := CurrentUser(c)
	if err := h.auth.Logout(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Logged out successfully", nil))
}

func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.auth.ForgotPassword(c.Request().Context(), req.handle())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("OTP sent to your registered email", util.Envelope{
		"email":       res.Email,
		"maskedEmail": res.MaskedEmail,
	}))
}

func (h *AuthHandler) verifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	token, err := h.auth.VerifyOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("OTP verified successfully", util.Envelope{"resetToken": token}))
}

func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.Request().Context(), req.ResetToken, req.NewPassword, req.ConfirmPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Password reset successfully. Please log in with your new password", nil))
}
