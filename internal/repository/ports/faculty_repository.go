package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/campustour/tour-api/internal/domain"
)

type FacultyRepository interface {
	Create(ctx context.Context, faculty *domain.Faculty) (*domain.Faculty, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.Faculty, error)
	List(ctx context.Context, filter domain.FacultyFilter) ([]domain.Faculty, int64, error)
	Update(ctx context.Context, id bson.ObjectID, fields domain.FacultyFields) (*domain.Faculty, error)
	SetPhoto(ctx context.Context, id bson.ObjectID, photo *domain.Asset) (*domain.Faculty, error)
	SetQualifications(ctx context.Context, id bson.ObjectID, qualifications []domain.Qualification) (*domain.Faculty, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
