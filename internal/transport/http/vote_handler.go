package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/service"
	"github.com/campustour/tour-api/internal/util"
)

type VoteHandler struct {
	votes *service.VoteService
}

func RegisterVotes(e *echo.Echo, auth *service.AuthService, votes *service.VoteService) {
	h := &VoteHandler{votes: votes}

	g := e.Group("/api/votes", RequireAuth(auth))
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("/:id/ballot", h.cast)
	g.POST("", h.create, RequireRole(domain.RoleAdmin))
	g.DELETE("/:id", h.delete, RequireRole(domain.RoleAdmin))
}

func (h *VoteHandler) list(c echo.Context) error {
	user, _ := CurrentUser(c)
	limit, offset := parsePagination(c, defaultPageLimit, 0)
	items, total, err := h.votes.List(c.Request().Context(), user.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page(items, total, limit, offset))
}

func (h *VoteHandler) get(c echo.Context) error {
	user, _ := CurrentUser(c)
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	view, err := h.votes.Get(c.Request().Context(), id, user.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success(view))
}

func (h *VoteHandler) create(c echo.Context) error {
	user, _ := CurrentUser(c)
	var req VoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	tourID, err := optionalObjectID(req.TourID, "tourId")
	if err != nil {
		return err
	}
	created, err := h.votes.Create(c.Request().Context(), user.ID, service.VoteInput{
		Title:       req.Title,
		Description: req.Description,
		TourID:      tourID,
		Options:     req.Options,
		ClosesAt:    req.ClosesAt,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.SuccessMessage("Vote created", created))
}

func (h *VoteHandler) cast(c echo.Context) error {
	user, _ := CurrentUser(c)
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req BallotRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	view, err := h.votes.Cast(c.Request().Context(), id, user.ID, req.OptionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Vote recorded", view))
}

func (h *VoteHandler) delete(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.votes.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Vote deleted", nil))
}
