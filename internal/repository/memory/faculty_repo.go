package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
)

// FacultyRepository keeps faculty profiles in process. Listing matches the
// MongoDB repository: department is an exact case-insensitive match, search
// is a case-insensitive substring of the name.
type FacultyRepository struct {
	mu    sync.Mutex
	items map[bson.ObjectID]domain.Faculty
	now   func() time.Time
}

func NewFacultyRepository() *FacultyRepository {
	return &FacultyRepository{items: make(map[bson.ObjectID]domain.Faculty), now: time.Now}
}

func (r *FacultyRepository) Create(ctx context.Context, faculty *domain.Faculty) (*domain.Faculty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	created := cloneFaculty(faculty)
	created.ID = bson.NewObjectID()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Qualifications == nil {
		created.Qualifications = []domain.Qualification{}
	}
	r.items[created.ID] = created
	out := cloneFaculty(&created)
	return &out, nil
}

func (r *FacultyRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Faculty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := cloneFaculty(&f)
	return &out, nil
}

func (r *FacultyRepository) List(ctx context.Context, filter domain.FacultyFilter) ([]domain.Faculty, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	department := strings.TrimSpace(filter.Department)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := []domain.Faculty{}
	for _, f := range r.items {
		if department != "" && !strings.EqualFold(f.Department, department) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(f.Name), search) {
			continue
		}
		matched = append(matched, cloneFaculty(&f))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Department != matched[j].Department {
			return matched[i].Department < matched[j].Department
		}
		return matched[i].Name < matched[j].Name
	})
	total := int64(len(matched))
	return paginate(matched, filter.Limit, filter.Offset), total, nil
}

func (r *FacultyRepository) Update(ctx context.Context, id bson.ObjectID, fields domain.FacultyFields) (*domain.Faculty, error) {
	return r.mutate(id, func(f *domain.Faculty) {
		if fields.Name != nil {
			f.Name = *fields.Name
		}
		if fields.Department != nil {
			f.Department = *fields.Department
		}
		if fields.Designation != nil {
			f.Designation = copyString(fields.Designation)
		}
		if fields.Email != nil {
			f.Email = copyString(fields.Email)
		}
		if fields.Phone != nil {
			f.Phone = copyString(fields.Phone)
		}
		if fields.Bio != nil {
			f.Bio = copyString(fields.Bio)
		}
		if fields.AccountID != nil {
			id := *fields.AccountID
			f.AccountID = &id
		}
	})
}

func (r *FacultyRepository) SetPhoto(ctx context.Context, id bson.ObjectID, photo *domain.Asset) (*domain.Faculty, error) {
	return r.mutate(id, func(f *domain.Faculty) {
		if photo == nil {
			f.Photo = nil
			return
		}
		p := *photo
		f.Photo = &p
	})
}

func (r *FacultyRepository) SetQualifications(ctx context.Context, id bson.ObjectID, qualifications []domain.Qualification) (*domain.Faculty, error) {
	return r.mutate(id, func(f *domain.Faculty) {
		f.Qualifications = append([]domain.Qualification{}, qualifications...)
	})
}

func (r *FacultyRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *FacultyRepository) mutate(id bson.ObjectID, apply func(*domain.Faculty)) (*domain.Faculty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	f = cloneFaculty(&f)
	apply(&f)
	f.UpdatedAt = r.now().UTC()
	r.items[id] = f
	out := cloneFaculty(&f)
	return &out, nil
}

func cloneFaculty(f *domain.Faculty) domain.Faculty {
	out := *f
	if f.Qualifications != nil {
		out.Qualifications = append([]domain.Qualification{}, f.Qualifications...)
	}
	if f.Photo != nil {
		p := *f.Photo
		out.Photo = &p
	}
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
