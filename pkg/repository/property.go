package repository

import (
	"context"
	"regexp"
	"time"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/util"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PropertyRepository struct {
	ratingStore
	coll *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	coll := db.Collection(PropertyCollection)
	return &PropertyRepository{coll: coll, ratingStore: ratingStore{coll: coll, name: "property"}}
}

func (r *PropertyRepository) Insert(ctx context.Context, p *models.Property) error {
	_, err := r.coll.InsertOne(ctx, p)
	return errors.Wrap(err, "insert property")
}

func (r *PropertyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var p models.Property
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if isNoDocuments(err) {
		return nil, errs.NotFoundf("property %s not found", id.Hex())
	}
	if err != nil {
		return nil, errors.Wrap(err, "find property")
	}
	return &p, nil
}

// IncrementViews bumps the view counter and returns the updated property.
func (r *PropertyRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var p models.Property
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if isNoDocuments(err) {
		return nil, errs.NotFoundf("property %s not found", id.Hex())
	}
	if err != nil {
		return nil, errors.Wrap(err, "increment property views")
	}
	return &p, nil
}

func propertyFilterBson(f models.PropertyFilter) bson.M {
	filter := bson.M{}
	if f.Type != nil {
		filter["type"] = *f.Type
	}
	if f.Status != nil {
		filter["status"] = *f.Status
	}
	if f.ListedByID != nil {
		filter["listed_by_id"] = *f.ListedByID
	}
	if f.Verified != nil {
		filter["is_verified"] = *f.Verified
	}
	if f.Location != "" {
		filter["location"] = bson.M{"$regex": regexp.QuoteMeta(f.Location), "$options": "i"}
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

// Find returns one page of properties and the total matching count.
func (r *PropertyRepository) Find(ctx context.Context, f models.PropertyFilter, pagination util.PaginationArgs) ([]models.Property, int64, error) {
	filter := propertyFilterBson(f)

	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count properties")
	}

	opts := options.Find().
		SetSort(util.GetPropertySortBson(pagination.Sort)).
		SetSkip(int64(pagination.Skip)).
		SetLimit(int64(pagination.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errors.Wrap(err, "find properties")
	}
	defer cursor.Close(ctx)

	properties := make([]models.Property, 0)
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, 0, errors.Wrap(err, "decode properties")
	}
	return properties, count, nil
}

func propertyUpdateBson(req models.UpdatePropertyRequest) bson.M {
	set := bson.M{"updated_at": time.Now()}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Type != nil {
		set["type"] = *req.Type
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Area != nil {
		set["area"] = *req.Area
	}
	if req.Bedrooms != nil {
		set["bedrooms"] = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		set["bathrooms"] = *req.Bathrooms
	}
	if req.Images != nil {
		set["images"] = req.Images
	}
	if req.Features != nil {
		set["features"] = req.Features
	}
	if req.IsFeatured != nil {
		set["is_featured"] = *req.IsFeatured
	}
	return set
}

// Update applies req; slug is refreshed by the caller when the title changes.
func (r *PropertyRepository) Update(ctx context.Context, id primitive.ObjectID, req models.UpdatePropertyRequest, slug string) (*models.Property, error) {
	set := propertyUpdateBson(req)
	if slug != "" {
		set["slug"] = slug
	}

	var p models.Property
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if isNoDocuments(err) {
		return nil, errs.NotFoundf("property %s not found", id.Hex())
	}
	if err != nil {
		return nil, errors.Wrap(err, "update property")
	}
	return &p, nil
}

func (r *PropertyRepository) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_verified": verified, "updated_at": time.Now()}},
	)
	if err != nil {
		return errors.Wrap(err, "set property verified")
	}
	if res.MatchedCount == 0 {
		return errs.NotFoundf("property %s not found", id.Hex())
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete property")
	}
	if res.DeletedCount == 0 {
		return errs.NotFoundf("property %s not found", id.Hex())
	}
	return nil
}
