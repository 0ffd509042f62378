package mongodb

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/campustour/tour-api/internal/domain"
)

// OTPStore keeps password-reset records in MongoDB so they survive restarts
// and are shared between replicas. A TTL index on purgeAt removes records
// once every window has lapsed.
type OTPStore struct {
	coll *mongo.Collection
}

type otpDocument struct {
	domain.PasswordOTP `bson:",inline"`
	PurgeAt            time.Time `bson:"purgeAt"`
}

func NewOTPStore(db *mongo.Database) *OTPStore {
	return &OTPStore{coll: db.Collection(otpCollection)}
}

func (s *OTPStore) Put(ctx context.Context, record *domain.PasswordOTP) error {
	doc := otpDocument{PasswordOTP: *record, PurgeAt: record.PurgeAt().UTC()}
	doc.Email = otpKey(record.Email)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.Email}, doc, options.Replace().SetUpsert(true))
	return translate(err)
}

func (s *OTPStore) Get(ctx context.Context, email string) (*domain.PasswordOTP, error) {
	return s.findOne(ctx, bson.M{"_id": otpKey(email)})
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": otpKey(email)})
	return err
}

func (s *OTPStore) FindByResetToken(ctx context.Context, token string) (*domain.PasswordOTP, error) {
	return s.findOne(ctx, bson.M{"resetToken": token})
}

func (s *OTPStore) findOne(ctx context.Context, filter bson.M) (*domain.PasswordOTP, error) {
	var doc otpDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc.PasswordOTP, nil
}

func otpKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
