package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
)

// UserRepository is an in-process account store with the same matching and
// uniqueness rules as the MongoDB repository.
type UserRepository struct {
	mu    sync.Mutex
	users map[bson.ObjectID]domain.User
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[bson.ObjectID]domain.User), now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(user.Email)
	for _, u := range r.users {
		if u.Email == email || u.StudentID == user.StudentID {
			return nil, ports.ErrDuplicate
		}
	}
	now := r.now().UTC()
	created := cloneUser(user)
	created.ID = bson.NewObjectID()
	created.Email = email
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.FeaturedPhotos == nil {
		created.FeaturedPhotos = []domain.FeaturedPhoto{}
	}
	r.users[created.ID] = created
	out := cloneUser(&created)
	return &out, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(email)
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByHandle(ctx context.Context, handle string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.StudentID == handle })
}

func (r *UserRepository) FindFacultyByHandle(ctx context.Context, handle string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return u.Type == domain.AccountFaculty && strings.EqualFold(u.StudentID, handle)
	})
}

func (r *UserRepository) ExistsByEmailOrHandle(ctx context.Context, email, handle string) (bool, error) {
	email = strings.ToLower(email)
	_, err := r.find(func(u *domain.User) bool { return u.Email == email || u.StudentID == handle })
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id bson.ObjectID, token *string) error {
	_, err := r.mutate(id, func(u *domain.User) error {
		if token == nil {
			u.RefreshToken = nil
			return nil
		}
		t := *token
		u.RefreshToken = &t
		return nil
	})
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string) error {
	_, err := r.mutate(id, func(u *domain.User) error {
		u.PasswordHash = passwordHash
		return nil
	})
	return err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id bson.ObjectID, name, email *string) (*domain.User, error) {
	// mutate holds the lock, so the uniqueness check and the write are atomic.
	return r.mutate(id, func(u *domain.User) error {
		if email != nil {
			lowered := strings.ToLower(*email)
			for _, other := range r.users {
				if other.ID != id && other.Email == lowered {
					return ports.ErrDuplicate
				}
			}
			u.Email = lowered
		}
		if name != nil {
			u.Name = *name
		}
		return nil
	})
}

func (r *UserRepository) UpdateRole(ctx context.Context, id bson.ObjectID, role domain.Role) (*domain.User, error) {
	return r.mutate(id, func(u *domain.User) error {
		u.Role = role
		return nil
	})
}

func (r *UserRepository) SetProfilePicture(ctx context.Context, id bson.ObjectID, picture *domain.Asset) (*domain.User, error) {
	return r.mutate(id, func(u *domain.User) error {
		if picture == nil {
			u.ProfilePicture = nil
			return nil
		}
		p := *picture
		u.ProfilePicture = &p
		return nil
	})
}

func (r *UserRepository) AddFeaturedPhoto(ctx context.Context, id bson.ObjectID, photo domain.FeaturedPhoto) (*domain.User, error) {
	return r.mutate(id, func(u *domain.User) error {
		if len(u.FeaturedPhotos) >= domain.MaxFeaturedPhotos {
			return ports.ErrConflict
		}
		u.FeaturedPhotos = append(u.FeaturedPhotos, photo)
		return nil
	})
}

func (r *UserRepository) UpdateFeaturedPhotoCaption(ctx context.Context, id bson.ObjectID, assetID, caption string) (*domain.User, error) {
	return r.mutate(id, func(u *domain.User) error {
		i, ok := u.FeaturedPhoto(assetID)
		if !ok {
			return ports.ErrNotFound
		}
		u.FeaturedPhotos[i].Caption = caption
		return nil
	})
}

func (r *UserRepository) RemoveFeaturedPhoto(ctx context.Context, id bson.ObjectID, assetID string) (*domain.User, error) {
	return r.mutate(id, func(u *domain.User) error {
		i, ok := u.FeaturedPhoto(assetID)
		if !ok {
			return ports.ErrNotFound
		}
		u.FeaturedPhotos = append(u.FeaturedPhotos[:i], u.FeaturedPhotos[i+1:]...)
		return nil
	})
}

func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := []domain.User{}
	for _, u := range r.users {
		if filter.Type != "" && u.Type != filter.Type {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(u.Email, search) &&
			!strings.Contains(strings.ToLower(u.StudentID), search) {
			continue
		}
		matched = append(matched, cloneUser(&u))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	return paginate(matched, filter.Limit, filter.Offset), total, nil
}

func (r *UserRepository) ListEmails(ctx context.Context, accountType domain.AccountType) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	emails := []string{}
	for _, u := range r.users {
		if accountType == "" || u.Type == accountType {
			emails = append(emails, u.Email)
		}
	}
	sort.Strings(emails)
	return emails, nil
}

func (r *UserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(&u) {
			out := cloneUser(&u)
			return &out, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *UserRepository) mutate(id bson.ObjectID, apply func(*domain.User) error) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	u = cloneUser(&u)
	if err := apply(&u); err != nil {
		return nil, err
	}
	u.UpdatedAt = r.now().UTC()
	r.users[id] = u
	out := cloneUser(&u)
	return &out, nil
}

func cloneUser(u *domain.User) domain.User {
	out := *u
	if u.ProfilePicture != nil {
		p := *u.ProfilePicture
		out.ProfilePicture = &p
	}
	if u.RefreshToken != nil {
		t := *u.RefreshToken
		out.RefreshToken = &t
	}
	if u.FeaturedPhotos != nil {
		out.FeaturedPhotos = append([]domain.FeaturedPhoto{}, u.FeaturedPhotos...)
	}
	return out
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
