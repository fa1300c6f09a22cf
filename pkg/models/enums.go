package models

import (
	"errors"
	"fmt"
	"strings"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAgent UserRole = "agent"
	UserRoleAdmin UserRole = "admin"
)

func ParseUserRole(role string) (UserRole, error) {
	switch UserRole(strings.ToLower(role)) {
	case UserRoleUser:
		return UserRoleUser, nil
	case UserRoleAgent:
		return UserRoleAgent, nil
	case UserRoleAdmin:
		return UserRoleAdmin, nil
	}

	return UserRoleUser, errors.New(fmt.Sprintf("Invalid user role from request: %v", role))
}

type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeCondo      PropertyType = "condo"
	PropertyTypeTownhouse  PropertyType = "townhouse"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
)

type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusRented    PropertyStatus = "rented"
	PropertyStatusPending   PropertyStatus = "pending"
)

// VerificationStatus values are persisted verbatim.
type VerificationStatus string

const (
	VerificationStatusPending     VerificationStatus = "pending"
	VerificationStatusUnderReview VerificationStatus = "under_review"
	VerificationStatusApproved    VerificationStatus = "approved"
	VerificationStatusRejected    VerificationStatus = "rejected"
)

func ParseVerificationStatus(status string) (VerificationStatus, error) {
	switch VerificationStatus(status) {
	case VerificationStatusPending:
		return VerificationStatusPending, nil
	case VerificationStatusUnderReview:
		return VerificationStatusUnderReview, nil
	case VerificationStatusApproved:
		return VerificationStatusApproved, nil
	case VerificationStatusRejected:
		return VerificationStatusRejected, nil
	}

	return VerificationStatusPending, errors.New(fmt.Sprintf("Invalid verification status from request: %v", status))
}

// Terminal reports whether an admin decision has been recorded.
func (s VerificationStatus) Terminal() bool {
	return s == VerificationStatusApproved || s == VerificationStatusRejected
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func ParsePaymentStatus(status string) (PaymentStatus, error) {
	switch PaymentStatus(status) {
	case PaymentStatusPending:
		return PaymentStatusPending, nil
	case PaymentStatusCompleted:
		return PaymentStatusCompleted, nil
	case PaymentStatusFailed:
		return PaymentStatusFailed, nil
	case PaymentStatusCancelled:
		return PaymentStatusCancelled, nil
	case PaymentStatusRefunded:
		return PaymentStatusRefunded, nil
	}

	return PaymentStatusPending, errors.New(fmt.Sprintf("Invalid payment status from request: %v", status))
}

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodStripe       PaymentMethod = "stripe"
)

func ParsePaymentMethod(method string) (PaymentMethod, error) {
	switch PaymentMethod(method) {
	case PaymentMethodCreditCard:
		return PaymentMethodCreditCard, nil
	case PaymentMethodDebitCard:
		return PaymentMethodDebitCard, nil
	case PaymentMethodBankTransfer:
		return PaymentMethodBankTransfer, nil
	case PaymentMethodPaypal:
		return PaymentMethodPaypal, nil
	case PaymentMethodStripe:
		return PaymentMethodStripe, nil
	}

	return "", errors.New(fmt.Sprintf("Invalid payment method from request: %v", method))
}

// IsCard is true for methods that carry card details.
func (m PaymentMethod) IsCard() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodDebitCard
}
