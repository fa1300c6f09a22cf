package services

import (
	"context"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxRatingAttempts = 10

// NextRating folds score into a running mean of count submissions. The result
// is rounded half away from zero to two places.
func NextRating(rating decimal.Decimal, count int, score decimal.Decimal) (decimal.Decimal, int) {
	n := decimal.NewFromInt(int64(count))
	total := rating.Mul(n).Add(score)
	next := total.Div(n.Add(decimal.NewFromInt(1))).Round(2)
	return next, count + 1
}

// applyRating records one score with compare-and-set, retrying when another
// submission landed between read and write.
func applyRating(ctx context.Context, store RatingStore, id primitive.ObjectID, score int) (*models.RatingSnapshot, error) {
	if score < 1 || score > 5 {
		return nil, errs.InvalidArgumentf("score must be between 1 and 5, got %d", score)
	}

	for attempt := 0; attempt < maxRatingAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		prev, err := store.GetRating(ctx, id)
		if err != nil {
			return nil, err
		}

		var next models.RatingSnapshot
		next.Rating, next.Count = NextRating(prev.Rating, prev.Count, decimal.NewFromInt(int64(score)))

		ok, err := store.CompareAndSetRating(ctx, id, prev, next)
		if err != nil {
			return nil, err
		}
		if ok {
			return &next, nil
		}
	}

	return nil, errs.Conflictf("rating for %s is under heavy contention, try again", id.Hex())
}
