package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/media"
	"github.com/campustour/tour-api/internal/repository/memory"
)

func newTestTour(t *testing.T, svc *TourService) *domain.TourSchedule {
	t.Helper()
	start := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	tour, err := svc.Create(context.Background(), bson.NewObjectID(), TourInput{
		Title:       "Industrial visit",
		Destination: "Bengaluru",
		StartDate:   start,
		EndDate:     start.Add(72 * time.Hour),
		Capacity:    40,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return tour
}

func TestTourService_CreateValidation(t *testing.T) {
	svc := NewTourService(memory.NewTourRepository(), nil, media.Limits{}, nil)
	ctx := context.Background()
	start := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	tour := newTestTour(t, svc)
	if tour.Status != domain.TourUpcoming {
		t.Fatalf("expected default status upcoming, got %s", tour.Status)
	}

	cases := []struct {
		name string
		in   TourInput
	}{
		{name: "missing title", in: TourInput{Destination: "X", StartDate: start, EndDate: start}},
		{name: "missing dates", in: TourInput{Title: "T", Destination: "X"}},
		{name: "end before start", in: TourInput{Title: "T", Destination: "X", StartDate: start, EndDate: start.Add(-time.Hour)}},
		{name: "negative capacity", in: TourInput{Title: "T", Destination: "X", StartDate: start, EndDate: start, Capacity: -1}},
		{name: "bad status", in: TourInput{Title: "T", Destination: "X", StartDate: start, EndDate: start, Status: "paused"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, bson.NewObjectID(), tc.in)
			assertValidation(t, err)
		})
	}
}

func TestTourService_UpdateChecksMergedDates(t *testing.T) {
	svc := NewTourService(memory.NewTourRepository(), nil, media.Limits{}, nil)
	tour := newTestTour(t, svc)
	ctx := context.Background()

	early := tour.StartDate.Add(-24 * time.Hour)
	_, err := svc.Update(ctx, tour.ID, domain.TourFields{EndDate: &early})
	assertValidation(t, err)

	status := domain.TourOngoing
	updated, err := svc.Update(ctx, tour.ID, domain.TourFields{Status: &status})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != domain.TourOngoing {
		t.Fatalf("expected ongoing, got %s", updated.Status)
	}
	if _, err := svc.Update(ctx, bson.NewObjectID(), domain.TourFields{Status: &status}); !errors.Is(err, ErrTourNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTourService_EventsStayChronological(t *testing.T) {
	svc := NewTourService(memory.NewTourRepository(), nil, media.Limits{}, nil)
	tour := newTestTour(t, svc)
	ctx := context.Background()

	late, err := svc.AddEvent(ctx, tour.ID, TourEventInput{Title: "Factory tour", StartsAt: tour.StartDate.Add(30 * time.Hour)})
	if err != nil {
		t.Fatalf("AddEvent returned error: %v", err)
	}
	withBoth, err := svc.AddEvent(ctx, tour.ID, TourEventInput{Title: "Departure", StartsAt: tour.StartDate.Add(2 * time.Hour)})
	if err != nil {
		t.Fatalf("AddEvent returned error: %v", err)
	}
	if withBoth.Events[0].Title != "Departure" || withBoth.Events[1].Title != "Factory tour" {
		t.Fatalf("expected events sorted by start, got %+v", withBoth.Events)
	}

	lateID := late.Events[0].ID
	moved, err := svc.UpdateEvent(ctx, tour.ID, lateID, TourEventInput{Title: "Factory tour", StartsAt: tour.StartDate.Add(time.Hour)})
	if err != nil {
		t.Fatalf("UpdateEvent returned error: %v", err)
	}
	if moved.Events[0].ID != lateID {
		t.Fatalf("expected moved event first, got %+v", moved.Events)
	}

	if _, err := svc.RemoveEvent(ctx, tour.ID, "missing"); !errors.Is(err, ErrTourEventNotFound) {
		t.Fatalf("expected event not found, got %v", err)
	}
	remaining, err := svc.RemoveEvent(ctx, tour.ID, lateID)
	if err != nil {
		t.Fatalf("RemoveEvent returned error: %v", err)
	}
	if len(remaining.Events) != 1 {
		t.Fatalf("expected one event left, got %d", len(remaining.Events))
	}

	_, err = svc.AddEvent(ctx, tour.ID, TourEventInput{Title: "No time"})
	assertValidation(t, err)
}

func TestTourService_GalleryAndDelete(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewTourService(memory.NewTourRepository(), storage, media.Limits{}, nil)
	tour := newTestTour(t, svc)
	ctx := context.Background()

	withImage, err := svc.AddGalleryImage(ctx, tour.ID, pngUpload(t), "group photo")
	if err != nil {
		t.Fatalf("AddGalleryImage returned error: %v", err)
	}
	if len(withImage.Gallery) != 1 {
		t.Fatalf("expected one gallery image, got %d", len(withImage.Gallery))
	}
	first := withImage.Gallery[0].AssetID

	withTwo, err := svc.AddGalleryImage(ctx, tour.ID, pngUpload(t), "")
	if err != nil {
		t.Fatalf("AddGalleryImage returned error: %v", err)
	}
	if _, err := svc.RemoveGalleryImage(ctx, tour.ID, first); err != nil {
		t.Fatalf("RemoveGalleryImage returned error: %v", err)
	}
	if !storage.wasDestroyed(first) {
		t.Fatalf("expected removed image destroyed")
	}
	if _, err := svc.RemoveGalleryImage(ctx, tour.ID, first); !errors.Is(err, ErrGalleryImageNotFound) {
		t.Fatalf("expected image not found, got %v", err)
	}

	if err := svc.Delete(ctx, tour.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !storage.wasDestroyed(withTwo.Gallery[1].AssetID) {
		t.Fatalf("expected gallery destroyed with tour")
	}
	if _, err := svc.Get(ctx, tour.ID); !errors.Is(err, ErrTourNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
