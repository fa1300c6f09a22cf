package services

import (
	"context"
	"time"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/util"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PropertyServiceImpl struct {
	properties PropertyStore
}

func NewPropertyService(properties PropertyStore) PropertyService {
	return &PropertyServiceImpl{properties: properties}
}

func propertySlug(title string, id primitive.ObjectID) string {
	// suffix keeps slugs unique across identical titles
	return slug.Make(title) + "-" + id.Hex()[18:]
}

func (ps *PropertyServiceImpl) CreateProperty(ctx context.Context, listerID primitive.ObjectID, req models.CreatePropertyRequest) (*models.Property, error) {
	if req.Price.IsNegative() {
		return nil, errs.InvalidArgumentf("price must be >= 0")
	}

	var agentID *primitive.ObjectID
	if req.AgentID != "" {
		id, err := primitive.ObjectIDFromHex(req.AgentID)
		if err != nil {
			return nil, errs.InvalidArgumentf("invalid agent id %q", req.AgentID)
		}
		agentID = &id
	}

	status := req.Status
	if status == "" {
		status = models.PropertyStatusAvailable
	}

	now := time.Now()
	id := primitive.NewObjectID()
	property := &models.Property{
		ID:          id,
		Title:       req.Title,
		Slug:        propertySlug(req.Title, id),
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
		Status:      status,
		Price:       req.Price,
		Area:        req.Area,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Images:      nonNil(req.Images),
		Features:    nonNil(req.Features),
		Rating:      decimal.Zero,
		ListedByID:  listerID,
		AgentID:     agentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := ps.properties.Insert(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (ps *PropertyServiceImpl) GetProperties(ctx context.Context, filter models.PropertyFilter, pagination util.PaginationArgs) ([]models.Property, int64, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, 0, errs.InvalidArgumentf("minPrice must not exceed maxPrice")
	}
	return ps.properties.Find(ctx, filter, pagination)
}

// GetProperty returns the property and counts the view.
func (ps *PropertyServiceImpl) GetProperty(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	return ps.properties.IncrementViews(ctx, id)
}

func (ps *PropertyServiceImpl) GetPropertiesByLister(ctx context.Context, listerID primitive.ObjectID, pagination util.PaginationArgs) ([]models.Property, int64, error) {
	return ps.properties.Find(ctx, models.PropertyFilter{ListedByID: &listerID}, pagination)
}

func (ps *PropertyServiceImpl) GetVerifiedProperties(ctx context.Context, pagination util.PaginationArgs) ([]models.Property, int64, error) {
	verified := true
	return ps.properties.Find(ctx, models.PropertyFilter{Verified: &verified}, pagination)
}

func (ps *PropertyServiceImpl) ownedBy(ctx context.Context, id, callerID primitive.ObjectID) (*models.Property, error) {
	property, err := ps.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.ListedByID != callerID {
		return nil, errs.PermissionDeniedf("only the lister can modify property %s", id.Hex())
	}
	return property, nil
}

func (ps *PropertyServiceImpl) UpdateProperty(ctx context.Context, id, callerID primitive.ObjectID, req models.UpdatePropertyRequest) (*models.Property, error) {
	if _, err := ps.ownedBy(ctx, id, callerID); err != nil {
		return nil, err
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, errs.InvalidArgumentf("price must be >= 0")
	}

	newSlug := ""
	if req.Title != nil {
		newSlug = propertySlug(*req.Title, id)
	}
	return ps.properties.Update(ctx, id, req, newSlug)
}

func (ps *PropertyServiceImpl) DeleteProperty(ctx context.Context, id, callerID primitive.ObjectID) error {
	if _, err := ps.ownedBy(ctx, id, callerID); err != nil {
		return err
	}
	return ps.properties.Delete(ctx, id)
}

func (ps *PropertyServiceImpl) RateProperty(ctx context.Context, id primitive.ObjectID, score int) (*models.RatingSnapshot, error) {
	return applyRating(ctx, ps.properties, id, score)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
