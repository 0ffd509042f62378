package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/media"
	"github.com/campustour/tour-api/internal/repository/ports"
)

var (
	ErrTourNotFound         = errors.New("tour schedule not found")
	ErrTourEventNotFound    = errors.New("tour event not found")
	ErrGalleryImageNotFound = errors.New("gallery image not found")
)

type TourService struct {
	tours  ports.TourRepository
	images imageStore
	log    *zap.Logger
}

func NewTourService(tours ports.TourRepository, storage ports.MediaStorage, limits media.Limits, log *zap.Logger) *TourService {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("tours")
	return &TourService{
		tours:  tours,
		images: imageStore{storage: storage, limits: limits, log: log},
		log:    log,
	}
}

type TourInput struct {
	Title       string
	Destination string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
	Status      string
	Capacity    int
}

type TourEventInput struct {
	Title       string
	Description *string
	StartsAt    time.Time
	Location    *string
}

func (s *TourService) List(ctx context.Context, filter domain.TourFilter) ([]domain.TourSchedule, int64, error) {
	return s.tours.List(ctx, filter)
}

func (s *TourService) Get(ctx context.Context, id bson.ObjectID) (*domain.TourSchedule, error) {
	tour, err := s.tours.FindByID(ctx, id)
	if err != nil {
		return nil, tourErr(err)
	}
	return tour, nil
}

func (s *TourService) Create(ctx context.Context, createdBy bson.ObjectID, in TourInput) (*domain.TourSchedule, error) {
	title := strings.TrimSpace(in.Title)
	destination := strings.TrimSpace(in.Destination)
	if title == "" || destination == "" {
		return nil, invalid("Title and destination are required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, invalid("Start date and end date are required")
	}
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	if in.Capacity < 0 {
		return nil, invalid("Capacity cannot be negative")
	}
	status := domain.TourUpcoming
	if strings.TrimSpace(in.Status) != "" {
		parsed, ok := domain.ParseTourStatus(in.Status)
		if !ok {
			return nil, invalidf("Invalid status %q", in.Status)
		}
		status = parsed
	}
	created, err := s.tours.Create(ctx, &domain.TourSchedule{
		Title:       title,
		Destination: destination,
		Description: trimmedOrNil(in.Description),
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate.UTC(),
		Status:      status,
		Capacity:    in.Capacity,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create tour: %w", err)
	}
	s.log.Info("tour created", zap.String("tour_id", created.ID.Hex()), zap.String("created_by", createdBy.Hex()))
	return created, nil
}

func (s *TourService) Update(ctx context.Context, id bson.ObjectID, fields domain.TourFields) (*domain.TourSchedule, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if fields.Title != nil {
		if fields.Title = trimmedOrNil(fields.Title); fields.Title == nil {
			return nil, invalid("Title cannot be empty")
		}
	}
	if fields.Destination != nil {
		if fields.Destination = trimmedOrNil(fields.Destination); fields.Destination == nil {
			return nil, invalid("Destination cannot be empty")
		}
	}
	fields.Description = trimPtr(fields.Description)
	if fields.Capacity != nil && *fields.Capacity < 0 {
		return nil, invalid("Capacity cannot be negative")
	}
	start, end := current.StartDate, current.EndDate
	if fields.StartDate != nil {
		start = *fields.StartDate
	}
	if fields.EndDate != nil {
		end = *fields.EndDate
	}
	if err := checkDates(start, end); err != nil {
		return nil, err
	}
	updated, err := s.tours.Update(ctx, id, fields)
	if err != nil {
		return nil, tourErr(err)
	}
	return updated, nil
}

func (s *TourService) Delete(ctx context.Context, id bson.ObjectID) error {
	tour, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tours.Delete(ctx, id); err != nil {
		return tourErr(err)
	}
	for _, img := range tour.Gallery {
		s.images.destroy(ctx, img.AssetID)
	}
	return nil
}

func (s *TourService) AddEvent(ctx context.Context, id bson.ObjectID, in TourEventInput) (*domain.TourSchedule, error) {
	event, err := newTourEvent(uuid.NewString(), in)
	if err != nil {
		return nil, err
	}
	tour, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tour.Events = append(tour.Events, event)
	return s.saveEvents(ctx, tour)
}

func (s *TourService) UpdateEvent(ctx context.Context, id bson.ObjectID, eventID string, in TourEventInput) (*domain.TourSchedule, error) {
	event, err := newTourEvent(eventID, in)
	if err != nil {
		return nil, err
	}
	tour, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	i, ok := tour.Event(eventID)
	if !ok {
		return nil, ErrTourEventNotFound
	}
	tour.Events[i] = event
	return s.saveEvents(ctx, tour)
}

func (s *TourService) RemoveEvent(ctx context.Context, id bson.ObjectID, eventID string) (*domain.TourSchedule, error) {
	tour, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	i, ok := tour.Event(eventID)
	if !ok {
		return nil, ErrTourEventNotFound
	}
	tour.Events = append(tour.Events[:i], tour.Events[i+1:]...)
	return s.saveEvents(ctx, tour)
}

func (s *TourService) AddGalleryImage(ctx context.Context, id bson.ObjectID, upload media.Upload, caption string) (*domain.TourSchedule, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	asset, err := s.images.upload(ctx, domain.FolderTourGallery, upload)
	if err != nil {
		return nil, err
	}
	updated, err := s.tours.AddGalleryImage(ctx, id, domain.FeaturedPhoto{
		URL:     asset.URL,
		AssetID: asset.AssetID,
		Caption: strings.TrimSpace(caption),
	})
	if err != nil {
		s.images.destroy(ctx, asset.AssetID)
		return nil, tourErr(err)
	}
	return updated, nil
}

func (s *TourService) RemoveGalleryImage(ctx context.Context, id bson.ObjectID, assetID string) (*domain.TourSchedule, error) {
	tour, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := tour.GalleryImage(assetID); !ok {
		return nil, ErrGalleryImageNotFound
	}
	updated, err := s.tours.RemoveGalleryImage(ctx, id, assetID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrGalleryImageNotFound
		}
		return nil, err
	}
	s.images.destroy(ctx, assetID)
	return updated, nil
}

func (s *TourService) saveEvents(ctx context.Context, tour *domain.TourSchedule) (*domain.TourSchedule, error) {
	tour.SortEvents()
	updated, err := s.tours.SetEvents(ctx, tour.ID, tour.Events)
	if err != nil {
		return nil, tourErr(err)
	}
	return updated, nil
}

func newTourEvent(id string, in TourEventInput) (domain.TourEvent, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.TourEvent{}, invalid("Event title is required")
	}
	if in.StartsAt.IsZero() {
		return domain.TourEvent{}, invalid("Event start time is required")
	}
	return domain.TourEvent{
		ID:          id,
		Title:       title,
		Description: trimmedOrNil(in.Description),
		StartsAt:    in.StartsAt.UTC(),
		Location:    trimmedOrNil(in.Location),
	}, nil
}

func checkDates(start, end time.Time) error {
	if end.Before(start) {
		return invalid("End date must be on or after start date")
	}
	return nil
}

func tourErr(err error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return ErrTourNotFound
	}
	return err
}
