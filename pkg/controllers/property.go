package controllers

import (
	"net/http"

	"propt-api-io/api/internal/helpers"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/services"
	"propt-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

type PropertyController struct {
	propertyService services.PropertyService
}

func InitPropertyController(propertyService services.PropertyService) *PropertyController {
	return &PropertyController{propertyService: propertyService}
}

// CreateProperty -> POST /properties
func (pc *PropertyController) CreateProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		myId, ok := helpers.MyId(c)
		if !ok {
			return
		}
		var req models.CreatePropertyRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		property, err := pc.propertyService.CreateProperty(ctx, myId, req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusCreated, "Property listed successfully", property)
	}
}

// GetProperties -> GET /properties
func (pc *PropertyController) GetProperties() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		filter, err := helpers.GetPropertyFilter(c)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		pagination := helpers.GetPaginationArgs(c)

		properties, count, err := pc.propertyService.GetProperties(ctx, filter, pagination)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccessMeta(c, http.StatusOK, "success", properties, util.Pagination{
			Limit: pagination.Limit,
			Skip:  pagination.Skip,
			Count: count,
		})
	}
}

// GetVerifiedProperties -> GET /properties/verified
func (pc *PropertyController) GetVerifiedProperties() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		pagination := helpers.GetPaginationArgs(c)
		properties, count, err := pc.propertyService.GetVerifiedProperties(ctx, pagination)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccessMeta(c, http.StatusOK, "success", properties, util.Pagination{
			Limit: pagination.Limit,
			Skip:  pagination.Skip,
			Count: count,
		})
	}
}

// GetMyProperties -> GET /properties/my-properties
func (pc *PropertyController) GetMyProperties() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		myId, ok := helpers.MyId(c)
		if !ok {
			return
		}
		pagination := helpers.GetPaginationArgs(c)
		properties, count, err := pc.propertyService.GetPropertiesByLister(ctx, myId, pagination)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccessMeta(c, http.StatusOK, "success", properties, util.Pagination{
			Limit: pagination.Limit,
			Skip:  pagination.Skip,
			Count: count,
		})
	}
}

// GetProperty -> GET /properties/:id
func (pc *PropertyController) GetProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		property, err := pc.propertyService.GetProperty(ctx, id)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", property)
	}
}

// UpdateProperty -> PATCH /properties/:id
func (pc *PropertyController) UpdateProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, myId, ok := helpers.ParamIdAndMyId(c, "id")
		if !ok {
			return
		}
		var req models.UpdatePropertyRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		property, err := pc.propertyService.UpdateProperty(ctx, id, myId, req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Property updated successfully", property)
	}
}

// DeleteProperty -> DELETE /properties/:id
func (pc *PropertyController) DeleteProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, myId, ok := helpers.ParamIdAndMyId(c, "id")
		if !ok {
			return
		}
		if err := pc.propertyService.DeleteProperty(ctx, id, myId); err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Property deleted successfully", gin.H{"id": id.Hex()})
	}
}

// RateProperty -> POST /properties/:id/rate
func (pc *PropertyController) RateProperty() gin.HandlerFunc {
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

		rating, err := pc.propertyService.RateProperty(ctx, id, req.Score)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Rating recorded", rating)
	}
}
