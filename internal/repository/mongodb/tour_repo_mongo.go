package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
)

type TourRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewTourRepo(db *mongo.Database) *TourRepository {
	return &TourRepository{coll: db.Collection(toursCollection), now: time.Now}
}

func (r *TourRepository) Create(ctx context.Context, tour *domain.TourSchedule) (*domain.TourSchedule, error) {
	now := r.now().UTC()
	created := *tour
	created.ID = bson.NewObjectID()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Events == nil {
		created.Events = []domain.TourEvent{}
	}
	if created.Gallery == nil {
		created.Gallery = []domain.FeaturedPhoto{}
	}
	if _, err := r.coll.InsertOne(ctx, created); err != nil {
		return nil, translate(err)
	}
	return &created, nil
}

func (r *TourRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.TourSchedule, error) {
	var tour domain.TourSchedule
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&tour); err != nil {
		return nil, translate(err)
	}
	return &tour, nil
}

func (r *TourRepository) List(ctx context.Context, filter domain.TourFilter) ([]domain.TourSchedule, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	opts := page(filter.Limit, filter.Offset).SetSort(bson.D{{Key: "startDate", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	tours := []domain.TourSchedule{}
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, 0, err
	}
	return tours, total, nil
}

func (r *TourRepository) Update(ctx context.Context, id bson.ObjectID, fields domain.TourFields) (*domain.TourSchedule, error) {
	set := bson.M{}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Destination != nil {
		set["destination"] = *fields.Destination
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.StartDate != nil {
		set["startDate"] = fields.StartDate.UTC()
	}
	if fields.EndDate != nil {
		set["endDate"] = fields.EndDate.UTC()
	}
	if fields.Status != nil {
		set["status"] = *fields.Status
	}
	if fields.Capacity != nil {
		set["capacity"] = *fields.Capacity
	}
	return r.update(ctx, bson.M{"_id": id}, r.withTimestamp(bson.M{"$set": set}))
}

func (r *TourRepository) SetEvents(ctx context.Context, id bson.ObjectID, events []domain.TourEvent) (*domain.TourSchedule, error) {
	if events == nil {
		events = []domain.TourEvent{}
	}
	return r.update(ctx, bson.M{"_id": id}, r.withTimestamp(bson.M{"$set": bson.M{"events": events}}))
}

func (r *TourRepository) AddGalleryImage(ctx context.Context, id bson.ObjectID, image domain.FeaturedPhoto) (*domain.TourSchedule, error) {
	return r.update(ctx, bson.M{"_id": id}, r.withTimestamp(bson.M{"$push": bson.M{"gallery": image}}))
}

func (r *TourRepository) RemoveGalleryImage(ctx context.Context, id bson.ObjectID, assetID string) (*domain.TourSchedule, error) {
	return r.update(ctx, bson.M{"_id": id, "gallery.assetId": assetID},
		r.withTimestamp(bson.M{"$pull": bson.M{"gallery": bson.M{"assetId": assetID}}}))
}

func (r *TourRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *TourRepository) withTimestamp(update bson.M) bson.M {
	set, ok := update["$set"].(bson.M)
	if !ok {
		set = bson.M{}
		update["$set"] = set
	}
	set["updatedAt"] = r.now().UTC()
	return update
}

func (r *TourRepository) update(ctx context.Context, filter, update bson.M) (*domain.TourSchedule, error) {
	var tour domain.TourSchedule
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, afterUpdate()).Decode(&tour); err != nil {
		return nil, translate(err)
	}
	return &tour, nil
}
