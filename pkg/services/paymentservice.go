package services

import (
	"context"
	"strings"
	"time"

	"propt-api-io/api/internal/common"
	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"

	creditcard "github.com/durango/go-credit-card"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxWriteAttempts = 5

type paymentService struct {
	payments PaymentStore
	requests VerificationStore
	locker   Locker
	notifier NotificationService
}

func NewPaymentService(payments PaymentStore, requests VerificationStore, locker Locker, notifier NotificationService) PaymentService {
	return &paymentService{payments: payments, requests: requests, locker: locker, notifier: notifier}
}

func paymentLockKey(id primitive.ObjectID) string {
	return "payment:" + id.Hex()
}

// attemptsLockKey guards creation of new attempts for a request.
func attemptsLockKey(requestID primitive.ObjectID) string {
	return "verification:" + requestID.Hex() + ":payments"
}

// CreatePayment opens a new Pending attempt for a verification request. A new
// attempt is only accepted once every earlier one failed or was cancelled.
func (ps *paymentService) CreatePayment(ctx context.Context, requestID primitive.ObjectID, req models.CreatePaymentRequest) (*models.Payment, error) {
	if req.Amount.IsNegative() {
		return nil, errs.InvalidArgumentf("amount must be >= 0")
	}
	method, err := models.ParsePaymentMethod(string(req.Method))
	if err != nil {
		return nil, errs.InvalidArgumentf("%v", err)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}
	if len(currency) != 3 {
		return nil, errs.InvalidArgumentf("currency must be a 3-letter code")
	}

	metadata := cloneMap(req.Metadata)
	if req.Card != nil {
		if !method.IsCard() {
			return nil, errs.InvalidArgumentf("card details are only accepted for card payments")
		}
		summary, err := summarizeCard(*req.Card)
		if err != nil {
			return nil, err
		}
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata["card"] = summary
	}

	release, err := ps.locker.Lock(ctx, attemptsLockKey(requestID))
	if err != nil {
		return nil, err
	}
	defer release()

	vr, err := ps.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if vr.Status.Terminal() {
		return nil, errs.InvalidStatef("verification request %s is already %s", requestID.Hex(), vr.Status)
	}

	attempts, err := ps.payments.FindByVerificationRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if len(attempts) > 0 {
		switch latest := attempts[0]; latest.Status {
		case models.PaymentStatusPending, models.PaymentStatusCompleted:
			return nil, errs.Conflictf("verification request %s already has a %s payment %s", requestID.Hex(), latest.Status, latest.ID.Hex())
		}
	}

	now := time.Now()
	payment := &models.Payment{
		ID:                    primitive.NewObjectID(),
		VerificationRequestID: requestID,
		Amount:                req.Amount,
		Currency:              currency,
		Status:                models.PaymentStatusPending,
		Method:                method,
		Description:           req.Description,
		Metadata:              metadata,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := ps.payments.Insert(ctx, payment); err != nil {
		return nil, err
	}

	ps.notifier.PaymentChanged(ctx, "payment.created", payment)
	return payment, nil
}

// summarizeCard validates the card and keeps only what is safe to store.
func summarizeCard(c models.PaymentCard) (map[string]any, error) {
	if err := common.Validate.Struct(c); err != nil {
		return nil, errs.InvalidArgumentf("%v", err)
	}

	card := creditcard.Card{
		Number:  strings.ReplaceAll(c.Number, " ", ""),
		Cvv:     c.CVV,
		Month:   c.Month,
		Year:    c.Year,
		Company: creditcard.Company{},
	}
	if err := card.Validate(true); err != nil {
		return nil, errs.InvalidArgumentf("invalid card: %v", err)
	}
	if err := card.Method(); err != nil {
		return nil, errs.InvalidArgumentf("invalid card: %v", err)
	}
	lastFour, err := card.LastFour()
	if err != nil {
		return nil, errs.InvalidArgumentf("invalid card: %v", err)
	}

	return map[string]any{"company": card.Company.Short, "lastFour": lastFour}, nil
}

func (ps *paymentService) GetPayment(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	return ps.payments.FindByID(ctx, id)
}

func (ps *paymentService) GetPayments(ctx context.Context) ([]models.Payment, error) {
	return ps.payments.FindAll(ctx)
}

func (ps *paymentService) GetPaymentsByVerificationRequest(ctx context.Context, requestID primitive.ObjectID) ([]models.Payment, error) {
	return ps.payments.FindByVerificationRequest(ctx, requestID)
}

// LatestPayment returns the newest attempt, or nil when none exists.
func (ps *paymentService) LatestPayment(ctx context.Context, requestID primitive.ObjectID) (*models.Payment, error) {
	return latestPayment(ctx, ps.payments, requestID)
}

func latestPayment(ctx context.Context, store PaymentStore, requestID primitive.ObjectID) (*models.Payment, error) {
	attempts, err := store.FindByVerificationRequest(ctx, requestID)
	if err != nil || len(attempts) == 0 {
		return nil, err
	}
	return &attempts[0], nil
}

func (ps *paymentService) ProcessPayment(ctx context.Context, id primitive.ObjectID, gatewayTransactionID string, gatewayResponse map[string]any) (*models.Payment, error) {
	if strings.TrimSpace(gatewayTransactionID) == "" {
		return nil, errs.InvalidArgumentf("gatewayTransactionId is required")
	}
	return ps.transition(ctx, id, paymentChange{
		target:               models.PaymentStatusCompleted,
		gatewayTransactionID: &gatewayTransactionID,
		gatewayResponse:      gatewayResponse,
	}, nil)
}

func (ps *paymentService) MarkPaymentFailed(ctx context.Context, id primitive.ObjectID, gatewayResponse map[string]any) (*models.Payment, error) {
	return ps.transition(ctx, id, paymentChange{target: models.PaymentStatusFailed, gatewayResponse: gatewayResponse}, nil)
}

func (ps *paymentService) CancelPayment(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	return ps.transition(ctx, id, paymentChange{target: models.PaymentStatusCancelled}, nil)
}

func (ps *paymentService) RefundPayment(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	return ps.transition(ctx, id, paymentChange{target: models.PaymentStatusRefunded}, nil)
}

// UpdatePayment merges descriptive fields. A status, together with any
// gateway fields, goes through the same transition rules as the typed commands.
func (ps *paymentService) UpdatePayment(ctx context.Context, id primitive.ObjectID, req models.UpdatePaymentRequest) (*models.Payment, error) {
	if req.Status == nil && (req.GatewayTransactionID != nil || req.GatewayResponse != nil) {
		return nil, errs.InvalidArgumentf("gateway fields can only change together with a status")
	}

	var change *paymentChange
	if req.Status != nil {
		status, err := models.ParsePaymentStatus(string(*req.Status))
		if err != nil {
			return nil, errs.InvalidArgumentf("%v", err)
		}
		change = &paymentChange{
			target:               status,
			gatewayTransactionID: req.GatewayTransactionID,
			gatewayResponse:      req.GatewayResponse,
		}
	}

	edit := func(p *models.Payment) bool {
		changed := false
		if req.Description != nil {
			p.Description = req.Description
			changed = true
		}
		if len(req.Metadata) > 0 {
			if p.Metadata == nil {
				p.Metadata = map[string]any{}
			}
			for k, v := range req.Metadata {
				p.Metadata[k] = v
			}
			changed = true
		}
		return changed
	}

	if change == nil {
		return ps.transition(ctx, id, paymentChange{}, edit)
	}
	return ps.transition(ctx, id, *change, edit)
}

// transition serializes on the payment, applies change (and edit) to the
// freshest copy and writes it back, retrying lost optimistic writes.
func (ps *paymentService) transition(ctx context.Context, id primitive.ObjectID, change paymentChange, edit func(p *models.Payment) bool) (*models.Payment, error) {
	release, err := ps.locker.Lock(ctx, paymentLockKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		p, err := ps.payments.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		changed := false
		if change.target != "" {
			if changed, err = applyPaymentTransition(p, change, now); err != nil {
				return nil, err
			}
		}
		if edit != nil && edit(p) {
			changed = true
		}
		if !changed {
			return p, nil
		}

		p.UpdatedAt = now
		err = ps.payments.Update(ctx, p)
		if errors.Is(err, errs.ErrStale) {
			continue
		}
		if err != nil {
			return nil, err
		}

		ps.notifier.PaymentChanged(ctx, "payment."+string(p.Status), p)
		return p, nil
	}

	return nil, errs.Conflictf("payment %s was modified concurrently, try again", id.Hex())
}

func (ps *paymentService) DeletePayment(ctx context.Context, id primitive.ObjectID) error {
	release, err := ps.locker.Lock(ctx, paymentLockKey(id))
	if err != nil {
		return err
	}
	defer release()

	p, err := ps.payments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ps.payments.Delete(ctx, id); err != nil {
		return err
	}

	ps.notifier.PaymentChanged(ctx, "payment.deleted", p)
	return nil
}

func (ps *paymentService) GetPaymentStats(ctx context.Context) (*models.PaymentStats, error) {
	totals, err := ps.payments.StatusTotals(ctx)
	if err != nil {
		return nil, err
	}
	stats := BuildPaymentStats(totals)
	return &stats, nil
}

// BuildPaymentStats folds per-status totals into the dashboard figures.
// Only completed payments contribute to the amount.
func BuildPaymentStats(totals []models.PaymentStatusTotal) models.PaymentStats {
	stats := models.PaymentStats{TotalAmountOfCompleted: decimal.Zero}
	for _, row := range totals {
		stats.TotalPayments += row.Count
		switch row.Status {
		case models.PaymentStatusCompleted:
			stats.CompletedCount += row.Count
			stats.TotalAmountOfCompleted = stats.TotalAmountOfCompleted.Add(row.Amount)
		case models.PaymentStatusPending:
			stats.PendingCount += row.Count
		case models.PaymentStatusFailed:
			stats.FailedCount += row.Count
		}
	}
	return stats
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
