package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultCurrency = "USD"

type Payment struct {
	CreatedAt             time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updatedAt"`
	CompletedAt           *time.Time         `bson:"completed_at" json:"completedAt"`
	GatewayTransactionID  *string            `bson:"gateway_transaction_id" json:"gatewayTransactionId"`
	Description           *string            `bson:"description" json:"description"`
	GatewayResponse       map[string]any     `bson:"gateway_response" json:"gatewayResponse"`
	Metadata              map[string]any     `bson:"metadata" json:"metadata"`
	Currency              string             `bson:"currency" json:"currency"`
	Status                PaymentStatus      `bson:"status" json:"status"`
	Method                PaymentMethod      `bson:"method" json:"method"`
	Amount                decimal.Decimal    `bson:"amount" json:"amount"`
	ID                    primitive.ObjectID `bson:"_id" json:"_id"`
	VerificationRequestID primitive.ObjectID `bson:"verification_request_id" json:"verificationRequestId"`
	Version               int64              `bson:"version" json:"-"`
}

// PaymentCard is accepted on card payments and never persisted as-is.
type PaymentCard struct {
	Number string `json:"number" validate:"required"`
	CVV    string `json:"cvv" validate:"required"`
	Month  string `json:"month" validate:"required"`
	Year   string `json:"year" validate:"required"`
}

type CreatePaymentRequest struct {
	VerificationRequestID string          `json:"verificationRequestId" validate:"required"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency" validate:"omitempty,currency"`
	Method                PaymentMethod   `json:"method" validate:"required"`
	Description           *string         `json:"description"`
	Metadata              map[string]any  `json:"metadata"`
	Card                  *PaymentCard    `json:"card,omitempty"`
}

type ProcessPaymentRequest struct {
	GatewayTransactionID string         `json:"gatewayTransactionId" validate:"required"`
	GatewayResponse      map[string]any `json:"gatewayResponse"`
}

type FailPaymentRequest struct {
	GatewayResponse map[string]any `json:"gatewayResponse"`
}

type UpdatePaymentRequest struct {
	Status               *PaymentStatus `json:"status" validate:"omitempty,oneof=pending completed failed cancelled refunded"`
	Description          *string        `json:"description"`
	Metadata             map[string]any `json:"metadata"`
	GatewayTransactionID *string        `json:"gatewayTransactionId"`
	GatewayResponse      map[string]any `json:"gatewayResponse"`
}

type PaymentStats struct {
	TotalPayments          int64           `json:"totalPayments"`
	TotalAmountOfCompleted decimal.Decimal `json:"totalAmountOfCompleted"`
	CompletedCount         int64           `json:"completedCount"`
	PendingCount           int64           `json:"pendingCount"`
	FailedCount            int64           `json:"failedCount"`
}

// PaymentStatusTotal is one row of the per-status aggregation.
type PaymentStatusTotal struct {
	Status PaymentStatus   `bson:"_id"`
	Count  int64           `bson:"count"`
	Amount decimal.Decimal `bson:"amount"`
}
