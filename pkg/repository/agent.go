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

type AgentRepository struct {
	ratingStore
	coll *mongo.Collection
}

func NewAgentRepository(db *mongo.Database) *AgentRepository {
	coll := db.Collection(AgentCollection)
	return &AgentRepository{coll: coll, ratingStore: ratingStore{coll: coll, name: "agent"}}
}

func (r *AgentRepository) Insert(ctx context.Context, a *models.Agent) error {
	_, err := r.coll.InsertOne(ctx, a)
	if mongo.IsDuplicateKeyError(err) {
		return errs.Conflictf("user %s already has an agent profile", a.UserID.Hex())
	}
	return errors.Wrap(err, "insert agent")
}

func (r *AgentRepository) findOne(ctx context.Context, filter bson.M, what string) (*models.Agent, error) {
	var a models.Agent
	err := r.coll.FindOne(ctx, filter).Decode(&a)
	if isNoDocuments(err) {
		return nil, errs.NotFoundf("%s not found", what)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find agent")
	}
	return &a, nil
}

func (r *AgentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Agent, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "agent "+id.Hex())
}

func (r *AgentRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Agent, error) {
	return r.findOne(ctx, bson.M{"user_id": userID}, "agent profile for user "+userID.Hex())
}

// Find lists agents best rated first.
func (r *AgentRepository) Find(ctx context.Context, f models.AgentFilter) ([]models.Agent, error) {
	filter := bson.M{}
	if f.Active != nil {
		filter["is_active"] = *f.Active
	}
	if f.Verified != nil {
		filter["is_verified"] = *f.Verified
	}

	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "rating_count", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find agents")
	}
	defer cursor.Close(ctx)

	agents := make([]models.Agent, 0)
	if err := cursor.All(ctx, &agents); err != nil {
		return nil, errors.Wrap(err, "decode agents")
	}
	return agents, nil
}

func (r *AgentRepository) Update(ctx context.Context, id primitive.ObjectID, req models.UpdateAgentRequest) (*models.Agent, error) {
	set := bson.M{"updated_at": time.Now()}
	if req.LicenseNumber != nil {
		set["license_number"] = *req.LicenseNumber
	}
	if req.Agency != nil {
		set["agency"] = *req.Agency
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.Specializations != nil {
		set["specializations"] = req.Specializations
	}
	if req.ServiceAreas != nil {
		set["service_areas"] = req.ServiceAreas
	}
	if req.YearsExperience != nil {
		set["years_experience"] = *req.YearsExperience
	}
	if req.IsActive != nil {
		set["is_active"] = *req.IsActive
	}

	var a models.Agent
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if isNoDocuments(err) {
		return nil, errs.NotFoundf("agent %s not found", id.Hex())
	}
	if err != nil {
		return nil, errors.Wrap(err, "update agent")
	}
	return &a, nil
}

func (r *AgentRepository) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_verified": verified, "updated_at": time.Now()}},
	)
	if err != nil {
		return errors.Wrap(err, "set agent verified")
	}
	if res.MatchedCount == 0 {
		return errs.NotFoundf("agent %s not found", id.Hex())
	}
	return nil
}

func (r *AgentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete agent")
	}
	if res.DeletedCount == 0 {
		return errs.NotFoundf("agent %s not found", id.Hex())
	}
	return nil
}
