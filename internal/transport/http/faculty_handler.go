package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/service"
	"github.com/campustour/tour-api/internal/util"
)

type FacultyHandler struct {
	faculty *service.FacultyService
}

func RegisterFaculty(e *echo.Echo, auth *service.AuthService, faculty *service.FacultyService) {
	h := &FacultyHandler{faculty: faculty}

	public := e.Group("/api/faculty")
	public.GET("", h.list)
	public.GET("/:id", h.get)

	admin := e.Group("/api/faculty", RequireAuth(auth), RequireRole(domain.RoleAdmin))
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
	admin.POST("/:id/photo", h.setPhoto)
	admin.POST("/:id/qualifications", h.addQualification)
	admin.DELETE("/:id/qualifications/:index", h.removeQualification)
}

func (h *FacultyHandler) list(c echo.Context) error {
	limit, offset := parsePagination(c, defaultPageLimit, 0)
	items, total, err := h.faculty.List(c.Request().Context(), domain.FacultyFilter{
		Department: strings.TrimSpace(c.QueryParam("department")),
		Search:     strings.TrimSpace(c.QueryParam("search")),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page(items, total, limit, offset))
}

func (h *FacultyHandler) get(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	faculty, err := h.faculty.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success(faculty))
}

func (h *FacultyHandler) create(c echo.Context) error {
	var req FacultyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	accountID, err := optionalObjectID(req.AccountID, "accountId")
	if err != nil {
		return err
	}
	created, err := h.faculty.Create(c.Request().Context(), service.FacultyInput{
		Name:           req.Name,
		Department:     req.Department,
		Designation:    req.Designation,
		Email:          req.Email,
		Phone:          req.Phone,
		Bio:            req.Bio,
		Qualifications: req.Qualifications,
		AccountID:      accountID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.SuccessMessage("Faculty member created", created))
}

func (h *FacultyHandler) update(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req FacultyUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	accountID, err := optionalObjectID(req.AccountID, "accountId")
	if err != nil {
		return err
	}
	updated, err := h.faculty.Update(c.Request().Context(), id, domain.FacultyFields{
		Name:        req.Name,
		Department:  req.Department,
		Designation: req.Designation,
		Email:       req.Email,
		Phone:       req.Phone,
		Bio:         req.Bio,
		AccountID:   accountID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Faculty member updated", updated))
}

func (h *FacultyHandler) delete(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.faculty.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Faculty member deleted", nil))
}

func (h *FacultyHandler) setPhoto(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	upload, closeUpload, err := imageUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload()

	updated, err := h.faculty.SetPhoto(c.Request().Context(), id, upload)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Faculty photo updated", updated))
}

func (h *FacultyHandler) addQualification(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req domain.Qualification
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.faculty.AddQualification(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.SuccessMessage("Qualification added", updated))
}

func (h *FacultyHandler) removeQualification(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid index")
	}
	updated, err := h.faculty.RemoveQualification(c.Request().Context(), id, index)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.SuccessMessage("Qualification removed", updated))
}
