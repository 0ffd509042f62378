package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
)

type VoteRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewVoteRepo(db *mongo.Database) *VoteRepository {
	return &VoteRepository{coll: db.Collection(votesCollection), now: time.Now}
}

func (r *VoteRepository) Create(ctx context.Context, vote *domain.Vote) (*domain.Vote, error) {
	now := r.now().UTC()
	created := *vote
	created.ID = bson.NewObjectID()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Ballots == nil {
		created.Ballots = []domain.Ballot{}
	}
	if _, err := r.coll.InsertOne(ctx, created); err != nil {
		return nil, translate(err)
	}
	return &created, nil
}

func (r *VoteRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Vote, error) {
	var vote domain.Vote
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&vote); err != nil {
		return nil, translate(err)
	}
	return &vote, nil
}

func (r *VoteRepository) List(ctx context.Context, limit, offset int) ([]domain.Vote, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	cursor, err := r.coll.Find(ctx, bson.M{}, page(limit, offset).SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}
	votes := []domain.Vote{}
	if err := cursor.All(ctx, &votes); err != nil {
		return nil, 0, err
	}
	return votes, total, nil
}

func (r *VoteRepository) CastBallot(ctx context.Context, id bson.ObjectID, ballot domain.Ballot, now time.Time) (*domain.Vote, error) {
	filter := bson.M{
		"_id":        id,
		"options.id": ballot.OptionID,
		"ballots":    bson.M{"$not": bson.M{"$elemMatch": bson.M{"userId": ballot.UserID}}},
		"$or": bson.A{
			bson.M{"closesAt": bson.M{"$exists": false}},
			bson.M{"closesAt": nil},
			bson.M{"closesAt": bson.M{"$gt": now.UTC()}},
		},
	}
	update := bson.M{
		"$push": bson.M{"ballots": ballot},
		"$inc":  bson.M{"options.$[opt].count": 1},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	}
	opts := afterUpdate().SetArrayFilters([]any{bson.M{"opt.id": ballot.OptionID}})

	var vote domain.Vote
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&vote)
	if err == nil {
		return &vote, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ports.ErrConflict
}

func (r *VoteRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}
