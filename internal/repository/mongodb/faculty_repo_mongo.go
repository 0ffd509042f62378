package mongodb

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
)

type FacultyRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewFacultyRepo(db *mongo.Database) *FacultyRepository {
	return &FacultyRepository{coll: db.Collection(facultyCollection), now: time.Now}
}

func (r *FacultyRepository) Create(ctx context.Context, faculty *domain.Faculty) (*domain.Faculty, error) {
	now := r.now().UTC()
	created := *faculty
	created.ID = bson.NewObjectID()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Qualifications == nil {
		created.Qualifications = []domain.Qualification{}
	}
	if _, err := r.coll.InsertOne(ctx, created); err != nil {
		return nil, translate(err)
	}
	return &created, nil
}

func (r *FacultyRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Faculty, error) {
	var faculty domain.Faculty
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&faculty); err != nil {
		return nil, translate(err)
	}
	return &faculty, nil
}

func (r *FacultyRepository) List(ctx context.Context, filter domain.FacultyFilter) ([]domain.Faculty, int64, error) {
	query := bson.M{}
	if d := strings.TrimSpace(filter.Department); d != "" {
		query["department"] = exactInsensitive(d)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		query["name"] = containsInsensitive(s)
	}
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	opts := page(filter.Limit, filter.Offset).SetSort(bson.D{{Key: "department", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	items := []domain.Faculty{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *FacultyRepository) Update(ctx context.Context, id bson.ObjectID, fields domain.FacultyFields) (*domain.Faculty, error) {
	set := bson.M{}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Department != nil {
		set["department"] = *fields.Department
	}
	if fields.Designation != nil {
		set["designation"] = *fields.Designation
	}
	if fields.Email != nil {
		set["email"] = *fields.Email
	}
	if fields.Phone != nil {
		set["phone"] = *fields.Phone
	}
	if fields.Bio != nil {
		set["bio"] = *fields.Bio
	}
	if fields.AccountID != nil {
		set["accountId"] = *fields.AccountID
	}
	return r.set(ctx, id, set)
}

func (r *FacultyRepository) SetPhoto(ctx context.Context, id bson.ObjectID, photo *domain.Asset) (*domain.Faculty, error) {
	if photo == nil {
		return r.update(ctx, id, bson.M{"$unset": bson.M{"photo": ""}, "$set": bson.M{"updatedAt": r.now().UTC()}})
	}
	return r.set(ctx, id, bson.M{"photo": photo})
}

func (r *FacultyRepository) SetQualifications(ctx context.Context, id bson.ObjectID, qualifications []domain.Qualification) (*domain.Faculty, error) {
	if qualifications == nil {
		qualifications = []domain.Qualification{}
	}
	return r.set(ctx, id, bson.M{"qualifications": qualifications})
}

func (r *FacultyRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *FacultyRepository) set(ctx context.Context, id bson.ObjectID, set bson.M) (*domain.Faculty, error) {
	set["updatedAt"] = r.now().UTC()
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *FacultyRepository) update(ctx context.Context, id bson.ObjectID, update bson.M) (*domain.Faculty, error) {
	var faculty domain.Faculty
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, afterUpdate()).Decode(&faculty); err != nil {
		return nil, translate(err)
	}
	return &faculty, nil
}
