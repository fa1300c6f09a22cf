package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Property struct {
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updatedAt"`
	Title       string              `bson:"title" json:"title"`
	Slug        string              `bson:"slug" json:"slug"`
	Description string              `bson:"description" json:"description"`
	Location    string              `bson:"location" json:"location"`
	Type        PropertyType        `bson:"type" json:"type"`
	Status      PropertyStatus      `bson:"status" json:"status"`
	Images      []string            `bson:"images" json:"images"`
	Features    []string            `bson:"features" json:"features"`
	Price       decimal.Decimal     `bson:"price" json:"price"`
	Rating      decimal.Decimal     `bson:"rating" json:"rating"`
	RatingCount int                 `bson:"rating_count" json:"ratingCount"`
	Views       int64               `bson:"views" json:"views"`
	Bedrooms    int                 `bson:"bedrooms" json:"bedrooms"`
	Bathrooms   int                 `bson:"bathrooms" json:"bathrooms"`
	Area        decimal.Decimal     `bson:"area" json:"area"`
	ID          primitive.ObjectID  `bson:"_id" json:"_id"`
	ListedByID  primitive.ObjectID  `bson:"listed_by_id" json:"listedById"`
	AgentID     *primitive.ObjectID `bson:"agent_id" json:"agentId"`
	IsVerified  bool                `bson:"is_verified" json:"isVerified"`
	IsFeatured  bool                `bson:"is_featured" json:"isFeatured"`
}

type CreatePropertyRequest struct {
	Title       string          `json:"title" validate:"required,min=5,max=140"`
	Description string          `json:"description" validate:"required"`
	Location    string          `json:"location" validate:"required"`
	Type        PropertyType    `json:"type" validate:"required,oneof=house apartment condo townhouse land commercial"`
	Status      PropertyStatus  `json:"status" validate:"omitempty,oneof=available sold rented pending"`
	Price       decimal.Decimal `json:"price"`
	Area        decimal.Decimal `json:"area"`
	Bedrooms    int             `json:"bedrooms" validate:"min=0"`
	Bathrooms   int             `json:"bathrooms" validate:"min=0"`
	Images      []string        `json:"images"`
	Features    []string        `json:"features"`
	AgentID     string          `json:"agentId"`
}

// UpdatePropertyRequest carries no rating, view or verification fields.
type UpdatePropertyRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=5,max=140"`
	Description *string          `json:"description"`
	Location    *string          `json:"location"`
	Type        *PropertyType    `json:"type" validate:"omitempty,oneof=house apartment condo townhouse land commercial"`
	Status      *PropertyStatus  `json:"status" validate:"omitempty,oneof=available sold rented pending"`
	Price       *decimal.Decimal `json:"price"`
	Area        *decimal.Decimal `json:"area"`
	Bedrooms    *int             `json:"bedrooms" validate:"omitempty,min=0"`
	Bathrooms   *int             `json:"bathrooms" validate:"omitempty,min=0"`
	Images      []string         `json:"images"`
	Features    []string         `json:"features"`
	IsFeatured  *bool            `json:"isFeatured"`
}

// PropertyFilter mirrors the listing query string.
type PropertyFilter struct {
	Type       *PropertyType
	Status     *PropertyStatus
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Location   string
	ListedByID *primitive.ObjectID
	Verified   *bool
}
