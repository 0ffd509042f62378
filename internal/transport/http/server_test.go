package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/media"
	"github.com/campustour/tour-api/internal/repository/memory"
	"github.com/campustour/tour-api/internal/service"
	"github.com/campustour/tour-api/internal/transport/mail"
	"github.com/campustour/tour-api/internal/util"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *fakeMailer) Send(ctx context.Context, msg mail.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return fmt.Sprintf("<%d@test>", len(m.sent)), nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeStorage struct {
	mu        sync.Mutex
	uploads   []string
	destroyed []string
}

func (s *fakeStorage) Upload(ctx context.Context, folder string, data []byte, contentType string) (*domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("%s/asset-%d.png", folder, len(s.uploads)+1)
	s.uploads = append(s.uploads, id)
	return &domain.Asset{URL: "https://cdn.test/" + id, AssetID: id}, nil
}

func (s *fakeStorage) Destroy(ctx context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = append(s.destroyed, assetID)
	return nil
}

func (s *fakeStorage) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

func (s *fakeStorage) wasDestroyed(assetID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.destroyed {
		if id == assetID {
			return true
		}
	}
	return false
}

type testServer struct {
	e       *echo.Echo
	auth    *service.AuthService
	users   *memory.UserRepository
	otps    *memory.OTPStore
	mailer  *fakeMailer
	tokens  *util.JWTManager
	storage *fakeStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	users := memory.NewUserRepository()
	otps := memory.NewOTPStore(nil)
	tours := memory.NewTourRepository()
	votes := memory.NewVoteRepository()
	faculty := memory.NewFacultyRepository()
	storage := &fakeStorage{}
	mailer := &fakeMailer{}
	tokens := util.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	auth := service.NewAuthService(users, otps, tokens, mailer, service.AuthConfig{AppName: "Campus Tours"}, nil)

	e := NewRouter(RouterConfig{})
	RegisterAuth(e, auth)
	RegisterUsers(e, auth, service.NewUserService(users, storage, media.Limits{}, nil))
	RegisterFaculty(e, auth, service.NewFacultyService(faculty, storage, media.Limits{}, nil))
	RegisterTours(e, auth, service.NewTourService(tours, storage, media.Limits{}, nil))
	RegisterVotes(e, auth, service.NewVoteService(votes, tours, nil))
	RegisterAdmin(e, auth, service.NewAdminService(users, auth, mailer, "Campus Tours", nil))

	return &testServer{e: e, auth: auth, users: users, otps: otps, mailer: mailer, tokens: tokens, storage: storage}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// upload posts a small PNG as the multipart "image" field plus any extra
// form fields.
func (s *testServer) upload(t *testing.T, method, path, token string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	part, err := w.CreateFormFile("image", "photo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if err := png.Encode(part, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doHeader(t *testing.T, method, path, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// register signs up an account through the API and returns its access token.
func (s *testServer) register(t *testing.T, name, email, handle string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", echo.Map{
		"name":      name,
		"email":     email,
		"studentID": handle,
		"password":  "secret1",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", handle, rec.Code, rec.Body.String())
	}
	data := decode(t, rec)["data"].(map[string]any)
	return data["accessToken"].(string)
}

// admin seeds an admin account and signs it in.
func (s *testServer) admin(t *testing.T) string {
	t.Helper()
	if _, err := s.auth.SeedAdmin(context.Background(), service.SeedAdminInput{
		Name:     "Root",
		Email:    "root@example.com",
		Handle:   "A0001",
		Password: "rootpass",
	}); err != nil {
		t.Fatalf("SeedAdmin returned error: %v", err)
	}
	rec := s.do(t, http.MethodPost, "/api/auth/login", echo.Map{"studentID": "A0001", "password": "rootpass"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	return decode(t, rec)["data"].(map[string]any)["accessToken"].(string)
}

func (s *testServer) account(t *testing.T, handle string) *domain.User {
	t.Helper()
	user, err := s.users.FindByHandle(context.Background(), handle)
	if err != nil {
		t.Fatalf("FindByHandle(%s) returned error: %v", handle, err)
	}
	return user
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) map[string]any {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	return decode(t, rec)
}

// dataOf returns the "data" object of a success envelope.
func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body["data"])
	}
	return d
}

func expectMessage(t *testing.T, body map[string]any, message string) {
	t.Helper()
	if body["message"] != message {
		t.Fatalf("expected message %q, got %v", message, body["message"])
	}
}
