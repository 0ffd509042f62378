package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/media"
	"github.com/campustour/tour-api/internal/repository/memory"
	"github.com/campustour/tour-api/internal/repository/ports"
	"github.com/campustour/tour-api/internal/transport/mail"
	"github.com/campustour/tour-api/internal/util"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	fail map[string]error
}

func (m *fakeMailer) Send(ctx context.Context, msg mail.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[msg.To]; ok {
		return "", err
	}
	m.sent = append(m.sent, msg)
	return fmt.Sprintf("<%d@test>", len(m.sent)), nil
}

func (m *fakeMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message{}, m.sent...)
}

type fakeStorage struct {
	mu        sync.Mutex
	uploads   []string
	destroyed []string
	uploadErr error
}

func (s *fakeStorage) Upload(ctx context.Context, folder string, data []byte, contentType string) (*domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
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

type fakeFacultyRepo struct {
	items map[bson.ObjectID]domain.Faculty
}

func newFakeFacultyRepo() *fakeFacultyRepo {
	return &fakeFacultyRepo{items: make(map[bson.ObjectID]domain.Faculty)}
}

func (r *fakeFacultyRepo) Create(ctx context.Context, f *domain.Faculty) (*domain.Faculty, error) {
	created := *f
	created.ID = bson.NewObjectID()
	r.items[created.ID] = created
	return &created, nil
}

func (r *fakeFacultyRepo) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Faculty, error) {
	f, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &f, nil
}

func (r *fakeFacultyRepo) List(ctx context.Context, filter domain.FacultyFilter) ([]domain.Faculty, int64, error) {
	out := []domain.Faculty{}
	for _, f := range r.items {
		if filter.Department != "" && !strings.EqualFold(f.Department, filter.Department) {
			continue
		}
		out = append(out, f)
	}
	return out, int64(len(out)), nil
}

func (r *fakeFacultyRepo) Update(ctx context.Context, id bson.ObjectID, fields domain.FacultyFields) (*domain.Faculty, error) {
	f, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if fields.Name != nil {
		f.Name = *fields.Name
	}
	if fields.Department != nil {
		f.Department = *fields.Department
	}
	if fields.Email != nil {
		f.Email = fields.Email
	}
	r.items[id] = f
	return &f, nil
}

func (r *fakeFacultyRepo) SetPhoto(ctx context.Context, id bson.ObjectID, photo *domain.Asset) (*domain.Faculty, error) {
	f, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	f.Photo = photo
	r.items[id] = f
	return &f, nil
}

func (r *fakeFacultyRepo) SetQualifications(ctx context.Context, id bson.ObjectID, qs []domain.Qualification) (*domain.Faculty, error) {
	f, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	f.Qualifications = append([]domain.Qualification{}, qs...)
	r.items[id] = f
	return &f, nil
}

func (r *fakeFacultyRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type authFixture struct {
	svc    *AuthService
	users  *memory.UserRepository
	otps   *memory.OTPStore
	mailer *fakeMailer
	tokens *util.JWTManager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := memory.NewUserRepository()
	otps := memory.NewOTPStore(nil)
	mailer := &fakeMailer{}
	tokens := util.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	svc := NewAuthService(users, otps, tokens, mailer, AuthConfig{AppName: "Campus Tours"}, nil)
	return &authFixture{svc: svc, users: users, otps: otps, mailer: mailer, tokens: tokens}
}

func (f *authFixture) register(t *testing.T, name, email, handle string) *AuthResult {
	t.Helper()
	res, err := f.svc.Register(context.Background(), RegisterInput{
		Name:      name,
		Email:     email,
		StudentID: handle,
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("Register(%s) returned error: %v", handle, err)
	}
	return res
}

func pngUpload(t *testing.T) media.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return media.Upload{
		Reader:      bytes.NewReader(buf.Bytes()),
		Size:        int64(buf.Len()),
		FileName:    "photo.png",
		ContentType: "image/png",
	}
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
