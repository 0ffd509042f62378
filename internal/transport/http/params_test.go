package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query  string
		limit  int
		offset int
	}{
		{"", defaultPageLimit, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=0&offset=-1", defaultPageLimit, 0},
		{"?limit=abc", defaultPageLimit, 0},
		{"?limit=5000", maxPageLimit, 0},
	}
	e := echo.New()
	for _, tc := range cases {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/tours"+tc.query, nil), httptest.NewRecorder())
		limit, offset := parsePagination(c, defaultPageLimit, 0)
		if limit != tc.limit || offset != tc.offset {
			t.Fatalf("%q: expected (%d, %d), got (%d, %d)", tc.query, tc.limit, tc.offset, limit, offset)
		}
	}
}

func TestObjectIDParam_Invalid(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-an-id")

	_, err := objectIDParam(c, "id")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestOptionalObjectID(t *testing.T) {
	blank := "  "
	if id, err := optionalObjectID(&blank, "tourId"); id != nil || err != nil {
		t.Fatalf("expected blank to mean absent, got %v, %v", id, err)
	}
	bad := "xyz"
	if _, err := optionalObjectID(&bad, "tourId"); err == nil {
		t.Fatal("expected error for malformed id")
	}
	good := "65f000000000000000000001"
	id, err := optionalObjectID(&good, "tourId")
	if err != nil || id == nil || id.Hex() != good {
		t.Fatalf("expected parsed id, got %v, %v", id, err)
	}
}
