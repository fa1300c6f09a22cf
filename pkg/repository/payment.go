package repository

import (
	"context"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: db.Collection(PaymentCollection)}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (r *PaymentRepository) Insert(ctx context.Context, p *models.Payment) error {
	_, err := r.coll.InsertOne(ctx, p)
	return errors.Wrap(err, "insert payment")
}

func (r *PaymentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var p models.Payment
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if isNoDocuments(err) {
		return nil, errs.NotFoundf("payment %s not found", id.Hex())
	}
	if err != nil {
		return nil, errors.Wrap(err, "find payment")
	}
	return &p, nil
}

func (r *PaymentRepository) FindAll(ctx context.Context) ([]models.Payment, error) {
	return r.find(ctx, bson.M{})
}

// FindByVerificationRequest lists the attempts for a request, newest first.
func (r *PaymentRepository) FindByVerificationRequest(ctx context.Context, requestID primitive.ObjectID) ([]models.Payment, error) {
	return r.find(ctx, bson.M{"verification_request_id": requestID})
}

func (r *PaymentRepository) find(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, errors.Wrap(err, "find payments")
	}
	defer cursor.Close(ctx)

	payments := make([]models.Payment, 0)
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, errors.Wrap(err, "decode payments")
	}
	return payments, nil
}

// Update replaces p if its version still matches.
func (r *PaymentRepository) Update(ctx context.Context, p *models.Payment) error {
	prev := p.Version
	p.Version = prev + 1

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID, "version": prev}, p)
	if err != nil {
		p.Version = prev
		return errors.Wrap(err, "update payment")
	}
	if res.MatchedCount == 0 {
		p.Version = prev
		return errs.ErrStale
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete payment")
	}
	if res.DeletedCount == 0 {
		return errs.NotFoundf("payment %s not found", id.Hex())
	}
	return nil
}

// DeleteByVerificationRequest removes the request's attempts in the given statuses.
func (r *PaymentRepository) DeleteByVerificationRequest(ctx context.Context, requestID primitive.ObjectID, statuses []models.PaymentStatus) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{
		"verification_request_id": requestID,
		"status":                  bson.M{"$in": statuses},
	})
	if err != nil {
		return 0, errors.Wrap(err, "delete payments")
	}
	return res.DeletedCount, nil
}

// StatusTotals groups every payment by status with count and summed amount.
func (r *PaymentRepository) StatusTotals(ctx context.Context) ([]models.PaymentStatusTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "amount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate payment totals")
	}
	defer cursor.Close(ctx)

	totals := make([]models.PaymentStatusTotal, 0)
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, errors.Wrap(err, "decode payment totals")
	}
	return totals, nil
}
