package mongodb

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
)

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepo(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection), now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := r.now().UTC()
	created := *user
	created.ID = bson.NewObjectID()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.FeaturedPhotos == nil {
		created.FeaturedPhotos = []domain.FeaturedPhoto{}
	}
	if _, err := r.coll.InsertOne(ctx, created); err != nil {
		return nil, translate(err)
	}
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *UserRepository) FindByHandle(ctx context.Context, handle string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"studentID": handle})
}

func (r *UserRepository) FindFacultyByHandle(ctx context.Context, handle string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"studentID": exactInsensitive(handle),
		"type":      domain.AccountFaculty,
	})
}

func (r *UserRepository) ExistsByEmailOrHandle(ctx context.Context, email, handle string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(email)},
		bson.M{"studentID": handle},
	}}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id bson.ObjectID, token *string) error {
	return r.updateOne(ctx, id, bson.M{"refreshToken": token})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{"password": passwordHash})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id bson.ObjectID, name, email *string) (*domain.User, error) {
	set := bson.M{}
	if name != nil {
		set["name"] = *name
	}
	if email != nil {
		set["email"] = strings.ToLower(*email)
	}
	return r.findOneAndSet(ctx, bson.M{"_id": id}, set)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id bson.ObjectID, role domain.Role) (*domain.User, error) {
	return r.findOneAndSet(ctx, bson.M{"_id": id}, bson.M{"role": role})
}

func (r *UserRepository) SetProfilePicture(ctx context.Context, id bson.ObjectID, picture *domain.Asset) (*domain.User, error) {
	if picture == nil {
		return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
			"$unset": bson.M{"profilePicture": ""},
			"$set":   bson.M{"updatedAt": r.now().UTC()},
		})
	}
	return r.findOneAndSet(ctx, bson.M{"_id": id}, bson.M{"profilePicture": picture})
}

func (r *UserRepository) AddFeaturedPhoto(ctx context.Context, id bson.ObjectID, photo domain.FeaturedPhoto) (*domain.User, error) {
	// Only push while the array still has room.
	limitKey := "featuredPhotos." + strconv.Itoa(domain.MaxFeaturedPhotos-1)
	user, err := r.findOneAndUpdate(ctx, bson.M{"_id": id, limitKey: bson.M{"$exists": false}}, bson.M{
		"$push": bson.M{"featuredPhotos": photo},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	})
	if errors.Is(err, ports.ErrNotFound) {
		return nil, r.conflictOrMissing(ctx, id)
	}
	return user, err
}

func (r *UserRepository) UpdateFeaturedPhotoCaption(ctx context.Context, id bson.ObjectID, assetID, caption string) (*domain.User, error) {
	return r.findOneAndSet(ctx, bson.M{"_id": id, "featuredPhotos.assetId": assetID}, bson.M{
		"featuredPhotos.$.caption": caption,
	})
}

func (r *UserRepository) RemoveFeaturedPhoto(ctx context.Context, id bson.ObjectID, assetID string) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, bson.M{"_id": id, "featuredPhotos.assetId": assetID}, bson.M{
		"$pull": bson.M{"featuredPhotos": bson.M{"assetId": assetID}},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	})
}

func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	query := userListQuery(filter)
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	opts := page(filter.Limit, filter.Offset).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	users := []domain.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) ListEmails(ctx context.Context, accountType domain.AccountType) ([]string, error) {
	query := bson.M{}
	if accountType != "" {
		query["type"] = accountType
	}
	cursor, err := r.coll.Find(ctx, query, options.Find().SetProjection(bson.M{"email": 1}))
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Email string `bson:"email"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(rows))
	for _, row := range rows {
		emails = append(emails, row.Email)
	}
	return emails, nil
}

func userListQuery(filter domain.UserFilter) bson.M {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		query["$or"] = bson.A{
			bson.M{"name": containsInsensitive(s)},
			bson.M{"email": containsInsensitive(s)},
			bson.M{"studentID": containsInsensitive(s)},
		}
	}
	return query
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) updateOne(ctx context.Context, id bson.ObjectID, set bson.M) error {
	set["updatedAt"] = r.now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOneAndSet(ctx context.Context, filter bson.M, set bson.M) (*domain.User, error) {
	set["updatedAt"] = r.now().UTC()
	return r.findOneAndUpdate(ctx, filter, bson.M{"$set": set})
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, filter bson.M, update bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, afterUpdate()).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) conflictOrMissing(ctx context.Context, id bson.ObjectID) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return ports.ErrConflict
}
