package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/robin246j/account-service/internal/domain"
)

const codesColl = "verification_codes"

func (s *Store) EnsureCodeIndexes(ctx context.Context) error {
	coll := s.DB.Collection(codesColl)
	// TTL: Mongo в фоне подчищает протухшие коды.
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}); err != nil {
		return err
	}
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}, {Key: "code", Value: 1}},
	})
	return err
}

func (s *Store) CreateCode(ctx context.Context, vc *domain.VerificationCode) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.codes.insert")
	defer sp.Finish()

	vc.CreatedAt = time.Now().UTC()
	_, err := s.DB.Collection(codesColl).InsertOne(ctx, vc)
	if err != nil {
		sp.SetTag("error", err)
	}
	return err
}

// ConsumeCode atomically deletes the matching unexpired (email, code) record.
// Find-and-delete in one store operation: two concurrent consumers cannot
// both win. An expired record is left in place and only reported as expired.
func (s *Store) ConsumeCode(ctx context.Context, email, code string) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.codes.consume")
	defer sp.Finish()

	now := time.Now().UTC()
	res := s.DB.Collection(codesColl).FindOneAndDelete(ctx, bson.M{
		"email":      email,
		"code":       code,
		"expires_at": bson.M{"$gte": now},
	})
	err := res.Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		sp.SetTag("error", err)
		return err
	}

	// Either the code never existed or it sits there expired; look once more
	// without the expiry filter to tell the two apart. Ничего не удаляем.
	ferr := s.DB.Collection(codesColl).
		FindOne(ctx, bson.M{"email": email, "code": code}).Err()
	if ferr == nil {
		return ErrCodeExpired
	}
	if ferr == mongo.ErrNoDocuments {
		return ErrCodeNotFound
	}
	sp.SetTag("error", ferr)
	return ferr
}
