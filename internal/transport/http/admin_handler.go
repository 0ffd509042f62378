package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/service"
	"github.com/campustour/tour-api/internal/util"
)

type AdminHandler struct {
	admin *service.AdminService
}

func RegisterAdmin(e *echo.Echo, auth *service.AuthService, admin *service.AdminService) {
	h := &AdminHandler{admin: admin}

	g := e.Group("/api/admin", RequireAuth(auth), RequireRole(domain.RoleAdmin))
	g.GET("/users", h.listUsers)
	g.PUT("/users/:id/role", h.updateRole)
	g.POST("/faculty-accounts", h.createFacultyAccount)
	g.POST("/email", h.broadcast)
}

func (h *AdminHandler) listUsers(c echo.Context) error {
	limit, offset := parsePagination(c, defaultPageLimit, 0)
	filter := domain.UserFilter{
		Search: strings.TrimSpace(c.QueryParam("search")),
		Limit:  limit,
		Offset: offset,
	}
	if raw := strings.TrimSpace(c.QueryParam("type")); raw != "" {
		t, ok := domain.ParseAccountType(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid account type")
		}
		filter.Type = t
	}
	if raw := strings.TrimSpace(c.QueryParam("role")); raw != "" {
		role, ok := domain.ParseRole(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid role")
		}
		filter.Role = role
	}
	users, total, err := h.admin.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page(users, total, limit, offset))
}

func (h *AdminHandler) updateRole(c echo.Context) error {
	actor, _ := CurrentUser(c)
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req RoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.admin.UpdateRole(c.Request().Context(), actor.ID, id, req.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Role updated", updated))
}

func (h *AdminHandler) createFacultyAccount(c echo.Context) error {
	var req FacultyAccountRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.admin.CreateFacultyAccount(c.Request().Context(), service.FacultyAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Handle:   req.StudentID,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.SuccessMessage("Faculty account created", user))
}

// broadcast answers 200 even when some deliveries fail; the report carries
// the per-recipient outcome.
func (h *AdminHandler) broadcast(c echo.Context) error {
	var req BroadcastRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	report, err := h.admin.Broadcast(c.Request().Context(), service.BroadcastInput{
		Subject:     req.Subject,
		Message:     req.Message,
		Recipients:  req.Recipients,
		AccountType: req.AccountType,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Emails processed", report))
}
