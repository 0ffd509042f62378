package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/campustour/tour-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByHandle(ctx context.Context, handle string) (*domain.User, error)
	FindFacultyByHandle(ctx context.Context, handle string) (*domain.User, error)
	ExistsByEmailOrHandle(ctx context.Context, email, handle string) (bool, error)
	UpdateRefreshToken(ctx context.Context, id bson.ObjectID, token *string) error
	UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string) error
	UpdateProfile(ctx context.Context, id bson.ObjectID, name, email *string) (*domain.User, error)
	UpdateRole(ctx context.Context, id bson.ObjectID, role domain.Role) (*domain.User, error)
	SetProfilePicture(ctx context.Context, id bson.ObjectID, picture *domain.Asset) (*domain.User, error)
	AddFeaturedPhoto(ctx context.Context, id bson.ObjectID, photo domain.FeaturedPhoto) (*domain.User, error)
	UpdateFeaturedPhotoCaption(ctx context.Context, id bson.ObjectID, assetID, caption string) (*domain.User, error)
	RemoveFeaturedPhoto(ctx context.Context, id bson.ObjectID, assetID string) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error)
	ListEmails(ctx context.Context, accountType domain.AccountType) ([]string, error)
}
