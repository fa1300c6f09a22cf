package controllers

import (
	"net/http"

	"propt-api-io/api/internal/helpers"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/services"
	"propt-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

type AgentController struct {
	agentService services.AgentService
}

func InitAgentController(agentService services.AgentService) *AgentController {
	return &AgentController{agentService: agentService}
}

// CreateAgent -> POST /agents
func (ac *AgentController) CreateAgent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		myId, ok := helpers.MyId(c)
		if !ok {
			return
		}
		var req models.CreateAgentRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		agent, err := ac.agentService.CreateAgent(ctx, myId, req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusCreated, "Agent profile created", agent)
	}
}

// GetAgents -> GET /agents
func (ac *AgentController) GetAgents() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		agents, err := ac.agentService.GetAgents(ctx)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", agents)
	}
}

// GetVerifiedAgents -> GET /agents/verified
func (ac *AgentController) GetVerifiedAgents() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		agents, err := ac.agentService.GetVerifiedAgents(ctx)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", agents)
	}
}

// GetAgent -> GET /agents/:id
func (ac *AgentController) GetAgent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		agent, err := ac.agentService.GetAgent(ctx, id)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", agent)
	}
}

// GetMyAgentProfile -> GET /agents/my-profile
func (ac *AgentController) GetMyAgentProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		myId, ok := helpers.MyId(c)
		if !ok {
			return
		}
		agent, err := ac.agentService.GetAgentByUser(ctx, myId)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", agent)
	}
}

// UpdateMyAgentProfile -> PATCH /agents/my-profile
func (ac *AgentController) UpdateMyAgentProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		myId, ok := helpers.MyId(c)
		if !ok {
			return
		}
		var req models.UpdateAgentRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		current, err := ac.agentService.GetAgentByUser(ctx, myId)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		agent, err := ac.agentService.UpdateAgent(ctx, current.ID, req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Agent profile updated", agent)
	}
}

// UpdateAgent -> PATCH /agents/:id (admin)
func (ac *AgentController) UpdateAgent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		var req models.UpdateAgentRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		agent, err := ac.agentService.UpdateAgent(ctx, id, req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Agent profile updated", agent)
	}
}

type verifyAgentRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

// VerifyAgent -> PUT /agents/:id/verify (admin)
func (ac *AgentController) VerifyAgent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		var req verifyAgentRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		if err := ac.agentService.VerifyAgent(ctx, id, *req.Verified); err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Agent verification updated", gin.H{"id": id.Hex(), "verified": *req.Verified})
	}
}

// DeleteAgent -> DELETE /agents/:id (admin)
func (ac *AgentController) DeleteAgent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		if err := ac.agentService.DeleteAgent(ctx, id); err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Agent deleted", gin.H{"id": id.Hex()})
	}
}

// RateAgent -> POST /agents/:id/rate
func (ac *AgentController) RateAgent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		var req models.RateRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		rating, err := ac.agentService.RateAgent(ctx, id, req.Score)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Rating recorded", rating)
	}
}
