package services

import (
	"context"
	"time"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AgentServiceImpl struct {
	agents AgentStore
}

func NewAgentService(agents AgentStore) AgentService {
	return &AgentServiceImpl{agents: agents}
}

// CreateAgent registers the caller's single agent profile.
func (as *AgentServiceImpl) CreateAgent(ctx context.Context, userID primitive.ObjectID, req models.CreateAgentRequest) (*models.Agent, error) {
	_, err := as.agents.FindByUserID(ctx, userID)
	if err == nil {
		return nil, errs.Conflictf("user %s already has an agent profile", userID.Hex())
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	agent := &models.Agent{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		LicenseNumber:   req.LicenseNumber,
		Agency:          req.Agency,
		Bio:             req.Bio,
		Specializations: nonNil(req.Specializations),
		ServiceAreas:    nonNil(req.ServiceAreas),
		YearsExperience: req.YearsExperience,
		Rating:          decimal.Zero,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := as.agents.Insert(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func (as *AgentServiceImpl) GetAgents(ctx context.Context) ([]models.Agent, error) {
	active := true
	return as.agents.Find(ctx, models.AgentFilter{Active: &active})
}

func (as *AgentServiceImpl) GetVerifiedAgents(ctx context.Context) ([]models.Agent, error) {
	active, verified := true, true
	return as.agents.Find(ctx, models.AgentFilter{Active: &active, Verified: &verified})
}

func (as *AgentServiceImpl) GetAgent(ctx context.Context, id primitive.ObjectID) (*models.Agent, error) {
	return as.agents.FindByID(ctx, id)
}

func (as *AgentServiceImpl) GetAgentByUser(ctx context.Context, userID primitive.ObjectID) (*models.Agent, error) {
	return as.agents.FindByUserID(ctx, userID)
}

func (as *AgentServiceImpl) UpdateAgent(ctx context.Context, id primitive.ObjectID, req models.UpdateAgentRequest) (*models.Agent, error) {
	return as.agents.Update(ctx, id, req)
}

func (as *AgentServiceImpl) VerifyAgent(ctx context.Context, id primitive.ObjectID, verified bool) error {
	return as.agents.SetVerified(ctx, id, verified)
}

func (as *AgentServiceImpl) DeleteAgent(ctx context.Context, id primitive.ObjectID) error {
	return as.agents.Delete(ctx, id)
}

func (as *AgentServiceImpl) RateAgent(ctx context.Context, id primitive.ObjectID, score int) (*models.RatingSnapshot, error) {
	return applyRating(ctx, as.agents, id, score)
}
