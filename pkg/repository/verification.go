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

type VerificationRepository struct {
	coll *mongo.Collection
}

func NewVerificationRepository(db *mongo.Database) *VerificationRepository {
	return &VerificationRepository{coll: db.Collection(VerificationRequestCollection)}
}

func (r *VerificationRepository) Insert(ctx context.Context, vr *models.VerificationRequest) error {
	_, err := r.coll.InsertOne(ctx, vr)
	return errors.Wrap(err, "insert verification request")
}

func (r *VerificationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.VerificationRequest, error) {
	var vr models.VerificationRequest
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&vr)
	if isNoDocuments(err) {
		return nil, errs.NotFoundf("verification request %s not found", id.Hex())
	}
	if err != nil {
		return nil, errors.Wrap(err, "find verification request")
	}
	return &vr, nil
}

func (r *VerificationRepository) Find(ctx context.Context, q models.VerificationQuery) ([]models.VerificationRequest, error) {
	filter := bson.M{}
	if q.UserID != nil {
		filter["user_id"] = *q.UserID
	}
	if q.PropertyID != nil {
		filter["property_id"] = *q.PropertyID
	}
	if q.Status != nil {
		filter["status"] = *q.Status
	}

	order := -1
	if q.OldestFirst {
		order = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: order}, {Key: "_id", Value: order}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find verification requests")
	}
	defer cursor.Close(ctx)

	requests := make([]models.VerificationRequest, 0)
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, errors.Wrap(err, "decode verification requests")
	}
	return requests, nil
}

// Update replaces vr if nobody wrote it since it was read.
func (r *VerificationRepository) Update(ctx context.Context, vr *models.VerificationRequest) error {
	prev := vr.Version
	vr.Version = prev + 1

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": vr.ID, "version": prev}, vr)
	if err != nil {
		vr.Version = prev
		return errors.Wrap(err, "update verification request")
	}
	if res.MatchedCount == 0 {
		vr.Version = prev
		return errs.ErrStale
	}
	return nil
}

func (r *VerificationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete verification request")
	}
	if res.DeletedCount == 0 {
		return errs.NotFoundf("verification request %s not found", id.Hex())
	}
	return nil
}
