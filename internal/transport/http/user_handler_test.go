package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestUserHandler_FeaturedPhotos(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "A", "a@x.com", "100001")

	var assetIDs []string
	for i := 0; i < 6; i++ {
		rec := s.upload(t, http.MethodPost, "/api/users/featured-photos", token, map[string]string{"caption": "shot"})
		photos := dataOf(t, expectStatus(t, rec, http.StatusCreated))["featuredPhotos"].([]any)
		last := photos[len(photos)-1].(map[string]any)
		assetIDs = append(assetIDs, last["assetId"].(string))
	}

	rec := s.upload(t, http.MethodPost, "/api/users/featured-photos", token, nil)
	expectMessage(t, expectStatus(t, rec, http.StatusBadRequest), "Maximum of 6 featured photos")
	if n := s.storage.uploadCount(); n != 6 {
		t.Fatalf("expected the seventh photo to be refused before upload, got %d uploads", n)
	}

	rec = s.do(t, http.MethodPut, "/api/users/featured-photos/"+assetIDs[0], echo.Map{"caption": "Library"}, token)
	photos := dataOf(t, expectStatus(t, rec, http.StatusOK))["featuredPhotos"].([]any)
	if photos[0].(map[string]any)["caption"] != "Library" {
		t.Fatalf("expected caption update, got %v", photos[0])
	}

	rec = s.do(t, http.MethodDelete, "/api/users/featured-photos/"+assetIDs[1], nil, token)
	photos = dataOf(t, expectStatus(t, rec, http.StatusOK))["featuredPhotos"].([]any)
	if len(photos) != 5 {
		t.Fatalf("expected 5 photos, got %d", len(photos))
	}
	if !s.storage.wasDestroyed(assetIDs[1]) {
		t.Fatalf("expected %s to be destroyed", assetIDs[1])
	}

	rec = s.do(t, http.MethodDelete, "/api/users/featured-photos/featured-photos/missing.png", nil, token)
	expectMessage(t, expectStatus(t, rec, http.StatusNotFound), "Featured photo not found")
}

func TestUserHandler_ProfilePictureRequiresImage(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "A", "a@x.com", "100001")

	rec := s.do(t, http.MethodPost, "/api/users/profile-picture", echo.Map{"image": "not a file"}, token)
	expectMessage(t, expectStatus(t, rec, http.StatusBadRequest), "Image file is required")

	rec = s.upload(t, http.MethodPost, "/api/users/profile-picture", token, nil)
	picture := dataOf(t, expectStatus(t, rec, http.StatusOK))["profilePicture"].(map[string]any)
	if !strings.HasPrefix(picture["assetId"].(string), "profile-pictures/") {
		t.Fatalf("unexpected profile picture %v", picture)
	}

	rec = s.do(t, http.MethodDelete, "/api/users/profile-picture", nil, token)
	if got := dataOf(t, expectStatus(t, rec, http.StatusOK))["profilePicture"]; got != nil {
		t.Fatalf("expected picture to be removed, got %v", got)
	}
}

func TestUserHandler_PublicProfileHidesPrivateFields(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "A", "a@x.com", "100001")
	viewer := s.register(t, "B", "b@x.com", "100002")
	id := s.account(t, "100001").ID.Hex()

	profile := dataOf(t, expectStatus(t, s.do(t, http.MethodGet, "/api/users/"+id, nil, viewer), http.StatusOK))
	if profile["name"] != "A" {
		t.Fatalf("expected name A, got %v", profile["name"])
	}
	for _, key := range []string{"email", "studentID", "refreshToken", "password", "role"} {
		if _, ok := profile[key]; ok {
			t.Fatalf("expected %s to be hidden, got %v", key, profile)
		}
	}

	own := dataOf(t, expectStatus(t, s.do(t, http.MethodGet, "/api/users/profile", nil, viewer), http.StatusOK))
	if own["email"] != "b@x.com" {
		t.Fatalf("expected own profile to carry email, got %v", own)
	}

	expectStatus(t, s.do(t, http.MethodGet, "/api/users/"+id, nil, ""), http.StatusUnauthorized)
}

func TestUserHandler_ProfileAndPassword(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "A", "a@x.com", "100001")
	token := s.register(t, "B", "b@x.com", "100002")

	rec := s.do(t, http.MethodPut, "/api/users/profile", echo.Map{"email": "A@x.com"}, token)
	expectMessage(t, expectStatus(t, rec, http.StatusBadRequest), "Email already in use")

	rec = s.do(t, http.MethodPut, "/api/users/change-password", echo.Map{
		"currentPassword": "secret1",
		"newPassword":     strings.Repeat("p", 80),
	}, token)
	expectMessage(t, expectStatus(t, rec, http.StatusBadRequest), "password must be at most 72 bytes long")

	rec = s.do(t, http.MethodPut, "/api/users/change-password", echo.Map{
		"currentPassword": "secret1",
		"newPassword":     "secret2",
	}, token)
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(t, http.MethodPost, "/api/auth/login", echo.Map{"studentID": "100002", "password": "secret2"}, "")
	expectStatus(t, rec, http.StatusOK)
}
