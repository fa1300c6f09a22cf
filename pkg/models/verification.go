package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is an opaque uploaded-file descriptor supplied by the client.
type Document map[string]any

type VerificationRequest struct {
	CreatedAt  time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updatedAt"`
	ReviewedAt *time.Time          `bson:"reviewed_at" json:"reviewedAt"`
	AdminID    *primitive.ObjectID `bson:"admin_id" json:"adminId"`
	AdminNotes *string             `bson:"admin_notes" json:"adminNotes"`
	Status     VerificationStatus  `bson:"status" json:"status"`
	Documents  []Document          `bson:"documents" json:"documents"`
	FeeAmount  decimal.Decimal     `bson:"fee_amount" json:"feeAmount"`
	ID         primitive.ObjectID  `bson:"_id" json:"_id"`
	PropertyID primitive.ObjectID  `bson:"property_id" json:"propertyId"`
	UserID     primitive.ObjectID  `bson:"user_id" json:"userId"`
	Version    int64               `bson:"version" json:"-"`
}

type CreateVerificationRequest struct {
	PropertyID string          `json:"propertyId" validate:"required"`
	FeeAmount  decimal.Decimal `json:"feeAmount"`
	Documents  []Document      `json:"documents"`
}

// UpdateVerificationRequest is the admin patch body. A status change is
// dispatched to the matching review command.
type UpdateVerificationRequest struct {
	Status     *VerificationStatus `json:"status" validate:"omitempty,oneof=pending under_review approved rejected"`
	AdminNotes *string             `json:"adminNotes"`
	Documents  []Document          `json:"documents"`
}

type ReviewDecisionRequest struct {
	AdminNotes string `json:"adminNotes"`
}

type SubmitDocumentsRequest struct {
	Documents []Document `json:"documents" validate:"required,min=1"`
}

// VerificationQuery narrows a repository listing. Zero values are ignored.
type VerificationQuery struct {
	UserID      *primitive.ObjectID
	PropertyID  *primitive.ObjectID
	Status      *VerificationStatus
	OldestFirst bool
}
