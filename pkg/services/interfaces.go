package services

import (
	"context"
	"io"
	"time"

	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/util"

	"github.com/cloudinary/cloudinary-go/api/uploader"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Storage ports. The mongo implementations live in pkg/repository.

type VerificationStore interface {
	Insert(ctx context.Context, vr *models.VerificationRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.VerificationRequest, error)
	Find(ctx context.Context, q models.VerificationQuery) ([]models.VerificationRequest, error)
	Update(ctx context.Context, vr *models.VerificationRequest) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type PaymentStore interface {
	Insert(ctx context.Context, p *models.Payment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	FindAll(ctx context.Context) ([]models.Payment, error)
	FindByVerificationRequest(ctx context.Context, requestID primitive.ObjectID) ([]models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByVerificationRequest(ctx context.Context, requestID primitive.ObjectID, statuses []models.PaymentStatus) (int64, error)
	StatusTotals(ctx context.Context) ([]models.PaymentStatusTotal, error)
}

// RatingStore is implemented by every aggregate that carries a rating pair.
type RatingStore interface {
	GetRating(ctx context.Context, id primitive.ObjectID) (models.RatingSnapshot, error)
	CompareAndSetRating(ctx context.Context, id primitive.ObjectID, prev, next models.RatingSnapshot) (bool, error)
}

type PropertyStore interface {
	RatingStore
	Insert(ctx context.Context, p *models.Property) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	Find(ctx context.Context, f models.PropertyFilter, pagination util.PaginationArgs) ([]models.Property, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, req models.UpdatePropertyRequest, slug string) (*models.Property, error)
	SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AgentStore interface {
	RatingStore
	Insert(ctx context.Context, a *models.Agent) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Agent, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Agent, error)
	Find(ctx context.Context, f models.AgentFilter) ([]models.Agent, error)
	Update(ctx context.Context, id primitive.ObjectID, req models.UpdateAgentRequest) (*models.Agent, error)
	SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role models.UserRole) (*models.User, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error)
	TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// Transactor runs fn atomically. fn must use the ctx it is given.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker serializes work on a key across processes.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// TokenIssuer signs and revokes access tokens for the user service.
type TokenIssuer interface {
	Issue(user *models.User) (token string, expiresAt time.Time, err error)
	Revoke(ctx context.Context, token string) error
}

// Uploader stores a document blob and describes where it went.
type Uploader interface {
	Upload(ctx context.Context, input interface{}) (*uploader.UploadResult, error)
}

// Service interfaces consumed by controllers.

type PaymentService interface {
	CreatePayment(ctx context.Context, requestID primitive.ObjectID, req models.CreatePaymentRequest) (*models.Payment, error)
	GetPayment(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	GetPayments(ctx context.Context) ([]models.Payment, error)
	GetPaymentsByVerificationRequest(ctx context.Context, requestID primitive.ObjectID) ([]models.Payment, error)
	LatestPayment(ctx context.Context, requestID primitive.ObjectID) (*models.Payment, error)
	ProcessPayment(ctx context.Context, id primitive.ObjectID, gatewayTransactionID string, gatewayResponse map[string]any) (*models.Payment, error)
	MarkPaymentFailed(ctx context.Context, id primitive.ObjectID, gatewayResponse map[string]any) (*models.Payment, error)
	CancelPayment(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	RefundPayment(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	UpdatePayment(ctx context.Context, id primitive.ObjectID, req models.UpdatePaymentRequest) (*models.Payment, error)
	DeletePayment(ctx context.Context, id primitive.ObjectID) error
	GetPaymentStats(ctx context.Context) (*models.PaymentStats, error)
}

type VerificationService interface {
	CreateVerificationRequest(ctx context.Context, userID primitive.ObjectID, req models.CreateVerificationRequest) (*models.VerificationRequest, error)
	GetVerificationRequest(ctx context.Context, id primitive.ObjectID) (*models.VerificationRequest, error)
	GetVerificationRequests(ctx context.Context) ([]models.VerificationRequest, error)
	GetPendingVerificationRequests(ctx context.Context) ([]models.VerificationRequest, error)
	GetUserVerificationRequests(ctx context.Context, userID primitive.ObjectID) ([]models.VerificationRequest, error)
	GetPropertyVerificationRequests(ctx context.Context, propertyID primitive.ObjectID) ([]models.VerificationRequest, error)

	BeginReview(ctx context.Context, id, adminID primitive.ObjectID) (*models.VerificationRequest, error)
	ApproveVerificationRequest(ctx context.Context, id, adminID primitive.ObjectID, notes *string) (*models.VerificationRequest, error)
	RejectVerificationRequest(ctx context.Context, id, adminID primitive.ObjectID, notes string) (*models.VerificationRequest, error)
	ReopenVerificationRequest(ctx context.Context, id, adminID primitive.ObjectID, notes *string) (*models.VerificationRequest, error)
	SubmitDocuments(ctx context.Context, id, adminID primitive.ObjectID, docs []models.Document) (*models.VerificationRequest, error)
	AnnotateVerificationRequest(ctx context.Context, id, adminID primitive.ObjectID, notes string) (*models.VerificationRequest, error)
	UpdateVerificationRequest(ctx context.Context, id, adminID primitive.ObjectID, req models.UpdateVerificationRequest) (*models.VerificationRequest, error)

	DeleteVerificationRequest(ctx context.Context, id primitive.ObjectID) error
}

type UserService interface {
	Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id primitive.ObjectID, role models.UserRole) (*models.User, error)
	UpdateUserStatus(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error)
}

type PropertyService interface {
	CreateProperty(ctx context.Context, listerID primitive.ObjectID, req models.CreatePropertyRequest) (*models.Property, error)
	GetProperties(ctx context.Context, filter models.PropertyFilter, pagination util.PaginationArgs) ([]models.Property, int64, error)
	GetProperty(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	GetPropertiesByLister(ctx context.Context, listerID primitive.ObjectID, pagination util.PaginationArgs) ([]models.Property, int64, error)
	GetVerifiedProperties(ctx context.Context, pagination util.PaginationArgs) ([]models.Property, int64, error)
	UpdateProperty(ctx context.Context, id, callerID primitive.ObjectID, req models.UpdatePropertyRequest) (*models.Property, error)
	DeleteProperty(ctx context.Context, id, callerID primitive.ObjectID) error
	RateProperty(ctx context.Context, id primitive.ObjectID, score int) (*models.RatingSnapshot, error)
}

type AgentService interface {
	CreateAgent(ctx context.Context, userID primitive.ObjectID, req models.CreateAgentRequest) (*models.Agent, error)
	GetAgents(ctx context.Context) ([]models.Agent, error)
	GetVerifiedAgents(ctx context.Context) ([]models.Agent, error)
	GetAgent(ctx context.Context, id primitive.ObjectID) (*models.Agent, error)
	GetAgentByUser(ctx context.Context, userID primitive.ObjectID) (*models.Agent, error)
	UpdateAgent(ctx context.Context, id primitive.ObjectID, req models.UpdateAgentRequest) (*models.Agent, error)
	VerifyAgent(ctx context.Context, id primitive.ObjectID, verified bool) error
	DeleteAgent(ctx context.Context, id primitive.ObjectID) error
	RateAgent(ctx context.Context, id primitive.ObjectID, score int) (*models.RatingSnapshot, error)
}

type MediaService interface {
	UploadDocument(ctx context.Context, name string, file io.Reader) (*models.UploadedDocument, error)
}

// NotificationService fans out lifecycle events. Failures are logged, never returned.
type NotificationService interface {
	PaymentChanged(ctx context.Context, event string, p *models.Payment)
	VerificationChanged(ctx context.Context, event string, vr *models.VerificationRequest)
}
