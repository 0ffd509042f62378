package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campustour/tour-api/internal/service"
	"github.com/campustour/tour-api/internal/util"
)

type UserHandler struct {
	users *service.UserService
}

func RegisterUsers(e *echo.Echo, auth *service.AuthService, users *service.UserService) {
	h := &UserHandler{users: users}

	g := e.Group("/api/users", RequireAuth(auth))
	g.GET("/profile", h.profile)
	g.PUT("/profile", h.updateProfile)
	g.PUT("/change-password", h.changePassword)
	g.POST("/profile-picture", h.setProfilePicture)
	g.DELETE("/profile-picture", h.removeProfilePicture)
	g.POST("/featured-photos", h.addFeaturedPhoto)
	g.PUT("/featured-photos/*", h.updateFeaturedPhoto)
	g.DELETE("/featured-photos/*", h.removeFeaturedPhoto)
	g.GET("/:id", h.publicProfile)
}

func (h *UserHandler) profile(c echo.Context) error {
	user, _ := CurrentUser(c)
	profile, err := h.users.Profile(c.Request().Context(), user.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success(profile))
}

func (h *UserHandler) updateProfile(c echo.Context) error {
	user, _ := CurrentUser(c)
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.users.UpdateProfile(c.Request().Context(), user.ID, service.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Profile updated successfully", updated))
}

func (h *UserHandler) changePassword(c echo.Context) error {
	user, _ := CurrentUser(c)
	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.users.ChangePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Password changed successfully", nil))
}

func (h *UserHandler) setProfilePicture(c echo.Context) error {
	user, _ := CurrentUser(c)
	upload, closeUpload, err := imageUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload()

	updated, err := h.users.SetProfilePicture(c.Request().Context(), user.ID, upload)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Profile picture updated", updated))
}

func (h *UserHandler) removeProfilePicture(c echo.Context) error {
	user, _ := CurrentUser(c)
	updated, err := h.users.RemoveProfilePicture(c.Request().Context(), user.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Profile picture removed", updated))
}

func (h *UserHandler) addFeaturedPhoto(c echo.Context) error {
	user, _ := CurrentUser(c)
	upload, closeUpload, err := imageUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload()

	updated, err := h.users.AddFeaturedPhoto(c.Request().Context(), user.ID, upload, c.FormValue("caption"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.SuccessMessage("Featured photo added", updated))
}

func (h *UserHandler) updateFeaturedPhoto(c echo.Context) error {
	user, _ := CurrentUser(c)
	var req CaptionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.users.UpdateFeaturedPhotoCaption(c.Request().Context(), user.ID, assetIDParam(c), req.Caption)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Featured photo updated", updated))
}

func (h *UserHandler) removeFeaturedPhoto(c echo.Context) error {
	user, _ := CurrentUser(c)
	updated, err := h.users.RemoveFeaturedPhoto(c.Request().Context(), user.ID, assetIDParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Featured photo removed", updated))
}

func (h *UserHandler) publicProfile(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.users.PublicProfile(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success(profile))
}
