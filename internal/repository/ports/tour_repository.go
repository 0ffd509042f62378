package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/campustour/tour-api/internal/domain"
)

type TourRepository interface {
	Create(ctx context.Context, tour *domain.TourSchedule) (*domain.TourSchedule, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.TourSchedule, error)
	List(ctx context.Context, filter domain.TourFilter) ([]domain.TourSchedule, int64, error)
	Update(ctx context.Context, id bson.ObjectID, fields domain.TourFields) (*domain.TourSchedule, error)
	SetEvents(ctx context.Context, id bson.ObjectID, events []domain.TourEvent) (*domain.TourSchedule, error)
	AddGalleryImage(ctx context.Context, id bson.ObjectID, image domain.FeaturedPhoto) (*domain.TourSchedule, error)
	RemoveGalleryImage(ctx context.Context, id bson.ObjectID, assetID string) (*domain.TourSchedule, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
