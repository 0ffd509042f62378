package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
)

type TourRepository struct {
	mu    sync.Mutex
	tours map[bson.ObjectID]domain.TourSchedule
	now   func() time.Time
}

func NewTourRepository() *TourRepository {
	return &TourRepository{tours: make(map[bson.ObjectID]domain.TourSchedule), now: time.Now}
}

func (r *TourRepository) Create(ctx context.Context, tour *domain.TourSchedule) (*domain.TourSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	created := cloneTour(tour)
	created.ID = bson.NewObjectID()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Events == nil {
		created.Events = []domain.TourEvent{}
	}
	if created.Gallery == nil {
		created.Gallery = []domain.FeaturedPhoto{}
	}
	r.tours[created.ID] = created
	out := cloneTour(&created)
	return &out, nil
}

func (r *TourRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.TourSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tours[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := cloneTour(&t)
	return &out, nil
}

func (r *TourRepository) List(ctx context.Context, filter domain.TourFilter) ([]domain.TourSchedule, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []domain.TourSchedule{}
	for _, t := range r.tours {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		matched = append(matched, cloneTour(&t))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].StartDate.Before(matched[j].StartDate) })
	total := int64(len(matched))
	return paginate(matched, filter.Limit, filter.Offset), total, nil
}

func (r *TourRepository) Update(ctx context.Context, id bson.ObjectID, fields domain.TourFields) (*domain.TourSchedule, error) {
	return r.mutate(id, func(t *domain.TourSchedule) error {
		if fields.Title != nil {
			t.Title = *fields.Title
		}
		if fields.Destination != nil {
			t.Destination = *fields.Destination
		}
		if fields.Description != nil {
			if *fields.Description == "" {
				t.Description = nil
			} else {
				d := *fields.Description
				t.Description = &d
			}
		}
		if fields.StartDate != nil {
			t.StartDate = fields.StartDate.UTC()
		}
		if fields.EndDate != nil {
			t.EndDate = fields.EndDate.UTC()
		}
		if fields.Status != nil {
			t.Status = *fields.Status
		}
		if fields.Capacity != nil {
			t.Capacity = *fields.Capacity
		}
		return nil
	})
}

func (r *TourRepository) SetEvents(ctx context.Context, id bson.ObjectID, events []domain.TourEvent) (*domain.TourSchedule, error) {
	return r.mutate(id, func(t *domain.TourSchedule) error {
		t.Events = append([]domain.TourEvent{}, events...)
		return nil
	})
}

func (r *TourRepository) AddGalleryImage(ctx context.Context, id bson.ObjectID, image domain.FeaturedPhoto) (*domain.TourSchedule, error) {
	return r.mutate(id, func(t *domain.TourSchedule) error {
		t.Gallery = append(t.Gallery, image)
		return nil
	})
}

func (r *TourRepository) RemoveGalleryImage(ctx context.Context, id bson.ObjectID, assetID string) (*domain.TourSchedule, error) {
	return r.mutate(id, func(t *domain.TourSchedule) error {
		i, ok := t.GalleryImage(assetID)
		if !ok {
			return ports.ErrNotFound
		}
		t.Gallery = append(t.Gallery[:i], t.Gallery[i+1:]...)
		return nil
	})
}

func (r *TourRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tours[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.tours, id)
	return nil
}

func (r *TourRepository) mutate(id bson.ObjectID, apply func(*domain.TourSchedule) error) (*domain.TourSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tours[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	t = cloneTour(&t)
	if err := apply(&t); err != nil {
		return nil, err
	}
	t.UpdatedAt = r.now().UTC()
	r.tours[id] = t
	out := cloneTour(&t)
	return &out, nil
}

func cloneTour(t *domain.TourSchedule) domain.TourSchedule {
	out := *t
	if t.Events != nil {
		out.Events = append([]domain.TourEvent{}, t.Events...)
	}
	if t.Gallery != nil {
		out.Gallery = append([]domain.FeaturedPhoto{}, t.Gallery...)
	}
	return out
}
