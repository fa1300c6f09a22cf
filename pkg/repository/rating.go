package repository

import (
	"context"
	"time"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ratingStore reads and swaps the rating pair of documents in coll.
type ratingStore struct {
	coll *mongo.Collection
	name string
}

func (s ratingStore) GetRating(ctx context.Context, id primitive.ObjectID) (models.RatingSnapshot, error) {
	var snap models.RatingSnapshot
	opts := options.FindOne().SetProjection(bson.M{"rating": 1, "rating_count": 1})
	err := s.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&snap)
	if isNoDocuments(err) {
		return snap, errs.NotFoundf("%s %s not found", s.name, id.Hex())
	}
	if err != nil {
		return snap, errors.Wrapf(err, "read %s rating", s.name)
	}
	return snap, nil
}

// CompareAndSetRating writes next only if the stored count still equals
// prev.Count. Every accepted submission bumps the count, so a matching count
// means no other write landed in between.
func (s ratingStore) CompareAndSetRating(ctx context.Context, id primitive.ObjectID, prev, next models.RatingSnapshot) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "rating_count": prev.Count},
		bson.M{"$set": bson.M{
			"rating":       next.Rating,
			"rating_count": next.Count,
			"updated_at":   time.Now(),
		}},
	)
	if err != nil {
		return false, errors.Wrapf(err, "update %s rating", s.name)
	}
	return res.MatchedCount == 1, nil
}
