package indexer

import (
	"context"

	"propt-api-io/api/pkg/repository"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProptIndexes registers the indexes the repositories query through.
func ProptIndexes(m *Manager) *Manager {
	return m.
		AddCompoundIndex(repository.UserCollection, "user_email_unique", []string{"email"}, true).
		AddCompoundIndex(repository.AgentCollection, "agent_user_unique", []string{"user_id"}, true).
		AddCompoundIndex(repository.AgentCollection, "agent_rating", []string{"-rating", "-rating_count"}, false).
		AddCompoundIndex(repository.PropertyCollection, "property_lister", []string{"listed_by_id", "-created_at"}, false).
		AddCompoundIndex(repository.PropertyCollection, "property_verified", []string{"is_verified", "-created_at"}, false).
		AddCompoundIndex(repository.PropertyCollection, "property_type_price", []string{"type", "status", "price"}, false).
		AddCompoundIndex(repository.VerificationRequestCollection, "verification_status_created", []string{"status", "created_at"}, false).
		AddCompoundIndex(repository.VerificationRequestCollection, "verification_user", []string{"user_id", "-created_at"}, false).
		AddCompoundIndex(repository.VerificationRequestCollection, "verification_property", []string{"property_id", "-created_at"}, false).
		AddCompoundIndex(repository.PaymentCollection, "payment_request_created", []string{"verification_request_id", "-created_at"}, false).
		AddCompoundIndex(repository.PaymentCollection, "payment_status", []string{"status"}, false)
}

// ProptMigrations backfill fields that older documents were written without.
func ProptMigrations() []Migration {
	return []Migration{
		{
			Version:     "0001_backfill_versions",
			Description: "set version 0 on verification requests and payments without one",
			Up: func(ctx context.Context, db *mongo.Database) error {
				for _, name := range []string{repository.VerificationRequestCollection, repository.PaymentCollection} {
					if err := setMissing(ctx, db.Collection(name), bson.M{"version": int64(0)}); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version:     "0002_backfill_ratings",
			Description: "initialise rating and rating_count on properties and agents",
			Up: func(ctx context.Context, db *mongo.Database) error {
				zero, err := primitive.ParseDecimal128("0")
				if err != nil {
					return err
				}
				for _, name := range []string{repository.PropertyCollection, repository.AgentCollection} {
					if err := setMissing(ctx, db.Collection(name), bson.M{"rating": zero, "rating_count": 0}); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version:     "0003_lowercase_emails",
			Description: "normalise stored user emails to lower case",
			Up: func(ctx context.Context, db *mongo.Database) error {
				_, err := db.Collection(repository.UserCollection).UpdateMany(ctx, bson.M{}, mongo.Pipeline{
					{{Key: "$set", Value: bson.D{{Key: "email", Value: bson.D{{Key: "$toLower", Value: "$email"}}}}}},
				})
				return errors.Wrap(err, "lowercase emails")
			},
		},
	}
}

// setMissing writes each field of values on documents that lack it.
func setMissing(ctx context.Context, coll *mongo.Collection, values bson.M) error {
	for field, value := range values {
		_, err := coll.UpdateMany(ctx,
			bson.M{field: bson.M{"$exists": false}},
			bson.M{"$set": bson.M{field: value}},
		)
		if err != nil {
			return errors.Wrapf(err, "backfill %s.%s", coll.Name(), field)
		}
	}
	return nil
}
