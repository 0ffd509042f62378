package ports

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/campustour/tour-api/internal/domain"
)

type VoteRepository interface {
	Create(ctx context.Context, vote *domain.Vote) (*domain.Vote, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.Vote, error)
	List(ctx context.Context, limit, offset int) ([]domain.Vote, int64, error)
	// CastBallot records the ballot only if the poll is open at now, the
	// option exists and the account has not voted yet; otherwise ErrConflict.
	CastBallot(ctx context.Context, id bson.ObjectID, ballot domain.Ballot, now time.Time) (*domain.Vote, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
