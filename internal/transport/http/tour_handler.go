package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/service"
	"github.com/campustour/tour-api/internal/util"
)

type TourHandler struct {
	tours *service.TourService
}

func RegisterTours(e *echo.Echo, auth *service.AuthService, tours *service.TourService) {
	h := &TourHandler{tours: tours}

	public := e.Group("/api/tours")
	public.GET("", h.list)
	public.GET("/:id", h.get)

	admin := e.Group("/api/tours", RequireAuth(auth), RequireRole(domain.RoleAdmin))
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
	admin.POST("/:id/events", h.addEvent)
	admin.PUT("/:id/events/:eventId", h.updateEvent)
	admin.DELETE("/:id/events/:eventId", h.removeEvent)
	admin.POST("/:id/gallery", h.addGalleryImage)
	admin.DELETE("/:id/gallery/*", h.removeGalleryImage)
}

func (h *TourHandler) list(c echo.Context) error {
	limit, offset := parsePagination(c, defaultPageLimit, 0)
	filter := domain.TourFilter{Limit: limit, Offset: offset}
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		status, ok := domain.ParseTourStatus(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status")
		}
		filter.Status = status
	}
	items, total, err := h.tours.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page(items, total, limit, offset))
}

func (h *TourHandler) get(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	tour, err := h.tours.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success(tour))
}

func (h *TourHandler) create(c echo.Context) error {
	user, _ := CurrentUser(c)
	var req TourRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	created, err := h.tours.Create(c.Request().Context(), user.ID, service.TourInput{
		Title:       req.Title,
		Destination: req.Destination,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		Capacity:    req.Capacity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.SuccessMessage("Tour schedule created", created))
}

func (h *TourHandler) update(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req TourUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	fields := domain.TourFields{
		Title:       req.Title,
		Destination: req.Destination,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Capacity:    req.Capacity,
	}
	if req.Status != nil {
		status, ok := domain.ParseTourStatus(*req.Status)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status")
		}
		fields.Status = &status
	}
	updated, err := h.tours.Update(c.Request().Context(), id, fields)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Tour schedule updated", updated))
}

func (h *TourHandler) delete(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.tours.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Tour schedule deleted", nil))
}

func (h *TourHandler) addEvent(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req TourEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.tours.AddEvent(c.Request().Context(), id, eventInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.SuccessMessage("Event added", updated))
}

func (h *TourHandler) updateEvent(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req TourEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.tours.UpdateEvent(c.Request().Context(), id, c.Param("eventId"), eventInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Event updated", updated))
}

func (h *TourHandler) removeEvent(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	updated, err := h.tours.RemoveEvent(c.Request().Context(), id, c.Param("eventId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Event removed", updated))
}

func (h *TourHandler) addGalleryImage(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	upload, closeUpload, err := imageUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload()

	updated, err := h.tours.AddGalleryImage(c.Request().Context(), id, upload, c.FormValue("caption"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.SuccessMessage("Gallery image added", updated))
}

func (h *TourHandler) removeGalleryImage(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	updated, err := h.tours.RemoveGalleryImage(c.Request().Context(), id, assetIDParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Gallery image removed", updated))
}

func eventInput(req TourEventRequest) service.TourEventInput {
	return service.TourEventInput{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		Location:    req.Location,
	}
}
