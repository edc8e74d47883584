package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/robin246j/account-service/internal/domain"
)

const usersColl = "users"

// EnsureUserIndexes creates the unique index on email. Uniqueness lives in
// the store, not in application check-then-insert: two concurrent registers
// for one email race past any pre-read.
func (s *Store) EnsureUserIndexes(ctx context.Context) error {
	_, err := s.DB.Collection(usersColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// CreateUser inserts the user and fills in u.ID. Returns ErrDuplicateEmail
// when the unique index rejects the insert.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.insert")
	defer sp.Finish()

	u.CreatedAt = time.Now().UTC()
	res, err := s.DB.Collection(usersColl).InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		sp.SetTag("error", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// FindUserByEmail returns (nil, nil) when no user matches.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.find")
	defer sp.Finish()

	var u domain.User
	err := s.DB.Collection(usersColl).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		sp.SetTag("error", err)
		return nil, err
	}
	return &u, nil
}

// UpsertProfile overwrites only the supplied profile fields; absent (nil)
// fields stay untouched. If no user matches the email a new document is
// created from the profile fields alone — повторяем поведение исходника.
// Returns false only when the store reports neither a match nor an upsert.
func (s *Store) UpsertProfile(ctx context.Context, email string, p domain.Profile) (bool, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.upsert_profile")
	defer sp.Finish()

	set := bson.M{}
	if p.Cultivation != nil {
		set["cultivation"] = *p.Cultivation
	}
	if p.Experience != nil {
		set["experience"] = *p.Experience
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.PhoneNumber != nil {
		set["phone_number"] = *p.PhoneNumber
	}
	if p.Bio != nil {
		set["bio"] = *p.Bio
	}

	update := bson.M{
		"$setOnInsert": bson.M{
			"email_verified": false,
			"created_at":     time.Now().UTC(),
		},
	}
	if len(set) > 0 {
		update["$set"] = set
	}

	res, err := s.DB.Collection(usersColl).UpdateOne(ctx,
		bson.M{"email": email}, update, options.Update().SetUpsert(true))
	if err != nil {
		sp.SetTag("error", err)
		return false, err
	}
	return res.MatchedCount > 0 || res.UpsertedCount > 0, nil
}
