package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Agent struct {
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
	LicenseNumber   string             `bson:"license_number" json:"licenseNumber"`
	Agency          string             `bson:"agency" json:"agency"`
	Bio             string             `bson:"bio" json:"bio"`
	Specializations []string           `bson:"specializations" json:"specializations"`
	ServiceAreas    []string           `bson:"service_areas" json:"serviceAreas"`
	Rating          decimal.Decimal    `bson:"rating" json:"rating"`
	RatingCount     int                `bson:"rating_count" json:"ratingCount"`
	YearsExperience int                `bson:"years_experience" json:"yearsExperience"`
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"userId"`
	IsVerified      bool               `bson:"is_verified" json:"isVerified"`
	IsActive        bool               `bson:"is_active" json:"isActive"`
}

type CreateAgentRequest struct {
	LicenseNumber   string   `json:"licenseNumber" validate:"required"`
	Agency          string   `json:"agency"`
	Bio             string   `json:"bio"`
	Specializations []string `json:"specializations"`
	ServiceAreas    []string `json:"serviceAreas"`
	YearsExperience int      `json:"yearsExperience" validate:"min=0"`
}

type UpdateAgentRequest struct {
	LicenseNumber   *string  `json:"licenseNumber"`
	Agency          *string  `json:"agency"`
	Bio             *string  `json:"bio"`
	Specializations []string `json:"specializations"`
	ServiceAreas    []string `json:"serviceAreas"`
	YearsExperience *int     `json:"yearsExperience" validate:"omitempty,min=0"`
	IsActive        *bool    `json:"isActive"`
}

type AgentFilter struct {
	Active   *bool
	Verified *bool
}
