package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/campustour/tour-api/internal/media"
	"github.com/campustour/tour-api/internal/util"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func parsePagination(c echo.Context, defaultLimit, defaultOffset int) (int, int) {
	limit := defaultLimit
	offset := defaultOffset
	if v := strings.TrimSpace(c.QueryParam("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if v := strings.TrimSpace(c.QueryParam("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func page(items any, total int64, limit, offset int) util.Envelope {
	return util.Success(util.Envelope{
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func objectIDParam(c echo.Context, name string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return bson.ObjectID{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

func optionalObjectID(raw *string, field string) (*bson.ObjectID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(*raw))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+field)
	}
	return &id, nil
}

// assetIDParam reads the trailing wildcard of an asset route. Asset ids are
// storage object names and carry their folder, as in "tour-gallery/x.png".
func assetIDParam(c echo.Context) string {
	raw := strings.TrimPrefix(c.Param("*"), "/")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

// imageUpload opens the multipart "image" field. The caller closes the
// returned closer.
func imageUpload(c echo.Context) (media.Upload, func() error, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return media.Upload{}, nil, echo.NewHTTPError(http.StatusBadRequest, "Image file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return media.Upload{}, nil, echo.NewHTTPError(http.StatusBadRequest, "Unable to read upload")
	}
	return media.Upload{
		Reader:      src,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
	}, src.Close, nil
}
