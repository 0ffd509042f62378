package domain

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type TourStatus string

const (
	TourUpcoming  TourStatus = "upcoming"
	TourOngoing   TourStatus = "ongoing"
	TourCompleted TourStatus = "completed"
	TourCancelled TourStatus = "cancelled"
)

func ParseTourStatus(raw string) (TourStatus, bool) {
	switch s := TourStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case TourUpcoming, TourOngoing, TourCompleted, TourCancelled:
		return s, true
	default:
		return "", false
	}
}

type TourEvent struct {
	ID          string    `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description *string   `bson:"description,omitempty" json:"description,omitempty"`
	StartsAt    time.Time `bson:"startsAt" json:"startsAt"`
	Location    *string   `bson:"location,omitempty" json:"location,omitempty"`
}

type TourSchedule struct {
	ID          bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string          `bson:"title" json:"title"`
	Destination string          `bson:"destination" json:"destination"`
	Description *string         `bson:"description,omitempty" json:"description,omitempty"`
	StartDate   time.Time       `bson:"startDate" json:"startDate"`
	EndDate     time.Time       `bson:"endDate" json:"endDate"`
	Status      TourStatus      `bson:"status" json:"status"`
	Capacity    int             `bson:"capacity" json:"capacity"`
	Events      []TourEvent     `bson:"events" json:"events"`
	Gallery     []FeaturedPhoto `bson:"gallery" json:"gallery"`
	CreatedBy   bson.ObjectID   `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}

func (t *TourSchedule) Event(id string) (int, bool) {
	for i, ev := range t.Events {
		if ev.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (t *TourSchedule) GalleryImage(assetID string) (int, bool) {
	for i, img := range t.Gallery {
		if img.AssetID == assetID {
			return i, true
		}
	}
	return -1, false
}

// SortEvents orders the itinerary chronologically.
func (t *TourSchedule) SortEvents() {
	sort.SliceStable(t.Events, func(i, j int) bool {
		return t.Events[i].StartsAt.Before(t.Events[j].StartsAt)
	})
}

type TourFilter struct {
	Status TourStatus
	Limit  int
	Offset int
}

// TourFields carries editable tour attributes; nil fields are left unchanged.
type TourFields struct {
	Title       *string
	Destination *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *TourStatus
	Capacity    *int
}
