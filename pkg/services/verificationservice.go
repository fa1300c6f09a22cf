package services

import (
	"context"
	"strings"
	"time"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VerificationServiceImpl implements the VerificationService interface
type VerificationServiceImpl struct {
	requests   VerificationStore
	payments   PaymentStore
	properties PropertyStore
	tx         Transactor
	locker     Locker
	notifier   NotificationService
}

// NewVerificationService creates a new instance of VerificationService
func NewVerificationService(requests VerificationStore, payments PaymentStore, properties PropertyStore, tx Transactor, locker Locker, notifier NotificationService) VerificationService {
	return &VerificationServiceImpl{
		requests:   requests,
		payments:   payments,
		properties: properties,
		tx:         tx,
		locker:     locker,
		notifier:   notifier,
	}
}

// reviewStep mutates a loaded request and reports whether it changed.
type reviewStep func(ctx context.Context, vr *models.VerificationRequest) (bool, error)

// CreateVerificationRequest files a new Pending request for a property.
func (vs *VerificationServiceImpl) CreateVerificationRequest(ctx context.Context, userID primitive.ObjectID, req models.CreateVerificationRequest) (*models.VerificationRequest, error) {
	if userID.IsZero() {
		return nil, errs.Unauthorizedf("a signed-in user is required")
	}
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		return nil, errs.InvalidArgumentf("invalid property id %q", req.PropertyID)
	}
	if req.FeeAmount.IsNegative() {
		return nil, errs.InvalidArgumentf("feeAmount must be >= 0")
	}
	if _, err := vs.properties.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}

	docs := req.Documents
	if docs == nil {
		docs = []models.Document{}
	}

	now := time.Now()
	vr := &models.VerificationRequest{
		ID:         primitive.NewObjectID(),
		PropertyID: propertyID,
		UserID:     userID,
		Status:     models.VerificationStatusPending,
		Documents:  docs,
		FeeAmount:  req.FeeAmount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := vs.requests.Insert(ctx, vr); err != nil {
		return nil, err
	}

	vs.notifier.VerificationChanged(ctx, "verification.created", vr)
	return vr, nil
}

func (vs *VerificationServiceImpl) GetVerificationRequest(ctx context.Context, id primitive.ObjectID) (*models.VerificationRequest, error) {
	return vs.requests.FindByID(ctx, id)
}

func (vs *VerificationServiceImpl) GetVerificationRequests(ctx context.Context) ([]models.VerificationRequest, error) {
	return vs.requests.Find(ctx, models.VerificationQuery{})
}

// GetPendingVerificationRequests is the review queue, oldest first.
func (vs *VerificationServiceImpl) GetPendingVerificationRequests(ctx context.Context) ([]models.VerificationRequest, error) {
	status := models.VerificationStatusPending
	return vs.requests.Find(ctx, models.VerificationQuery{Status: &status, OldestFirst: true})
}

func (vs *VerificationServiceImpl) GetUserVerificationRequests(ctx context.Context, userID primitive.ObjectID) ([]models.VerificationRequest, error) {
	return vs.requests.Find(ctx, models.VerificationQuery{UserID: &userID})
}

func (vs *VerificationServiceImpl) GetPropertyVerificationRequests(ctx context.Context, propertyID primitive.ObjectID) ([]models.VerificationRequest, error) {
	return vs.requests.Find(ctx, models.VerificationQuery{PropertyID: &propertyID})
}

func (vs *VerificationServiceImpl) BeginReview(ctx context.Context, id, adminID primitive.ObjectID) (*models.VerificationRequest, error) {
	return vs.review(ctx, id, adminID, vs.moveTo(models.VerificationStatusUnderReview, false))
}

func (vs *VerificationServiceImpl) ApproveVerificationRequest(ctx context.Context, id, adminID primitive.ObjectID, notes *string) (*models.VerificationRequest, error) {
	return vs.review(ctx, id, adminID, vs.moveTo(models.VerificationStatusApproved, false), setNotes(notes))
}

func (vs *VerificationServiceImpl) RejectVerificationRequest(ctx context.Context, id, adminID primitive.ObjectID, notes string) (*models.VerificationRequest, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, errs.InvalidArgumentf("rejection requires admin notes")
	}
	return vs.review(ctx, id, adminID, vs.moveTo(models.VerificationStatusRejected, false), setNotes(&notes))
}

func (vs *VerificationServiceImpl) ReopenVerificationRequest(ctx context.Context, id, adminID primitive.ObjectID, notes *string) (*models.VerificationRequest, error) {
	return vs.review(ctx, id, adminID, reopenStep, vs.moveTo(models.VerificationStatusUnderReview, true), setNotes(notes))
}

func (vs *VerificationServiceImpl) SubmitDocuments(ctx context.Context, id, adminID primitive.ObjectID, docs []models.Document) (*models.VerificationRequest, error) {
	if len(docs) == 0 {
		return nil, errs.InvalidArgumentf("at least one document is required")
	}
	return vs.review(ctx, id, adminID, appendDocuments(docs))
}

func (vs *VerificationServiceImpl) AnnotateVerificationRequest(ctx context.Context, id, adminID primitive.ObjectID, notes string) (*models.VerificationRequest, error) {
	return vs.review(ctx, id, adminID, setNotes(&notes))
}

// UpdateVerificationRequest is the generic admin patch. Each present field is
// translated into the matching review command so the state rules still hold.
func (vs *VerificationServiceImpl) UpdateVerificationRequest(ctx context.Context, id, adminID primitive.ObjectID, req models.UpdateVerificationRequest) (*models.VerificationRequest, error) {
	var steps []reviewStep

	if req.Status != nil {
		status, err := models.ParseVerificationStatus(string(*req.Status))
		if err != nil {
			return nil, errs.InvalidArgumentf("%v", err)
		}
		if status == models.VerificationStatusRejected && (req.AdminNotes == nil || strings.TrimSpace(*req.AdminNotes) == "") {
			return nil, errs.InvalidArgumentf("rejection requires admin notes")
		}
		steps = append(steps, func(ctx context.Context, vr *models.VerificationRequest) (bool, error) {
			// under_review on a decided request means reopen
			reopen := status == models.VerificationStatusUnderReview && vr.Status.Terminal()
			return vs.moveTo(status, reopen)(ctx, vr)
		})
	}
	if req.AdminNotes != nil {
		steps = append(steps, setNotes(req.AdminNotes))
	}
	if len(req.Documents) > 0 {
		steps = append(steps, appendDocuments(req.Documents))
	}
	if len(steps) == 0 {
		return nil, errs.InvalidArgumentf("nothing to update")
	}

	return vs.review(ctx, id, adminID, steps...)
}

// review loads the request, runs steps in order and persists the result in
// one transaction together with the property's verified flag. Lost optimistic
// writes are retried from a fresh read.
func (vs *VerificationServiceImpl) review(ctx context.Context, id, adminID primitive.ObjectID, steps ...reviewStep) (*models.VerificationRequest, error) {
	if adminID.IsZero() {
		return nil, errs.PermissionDeniedf("only admins can update verification requests")
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var (
			result  *models.VerificationRequest
			changed bool
			before  models.VerificationStatus
		)

		err := vs.tx.WithTransaction(ctx, func(tctx context.Context) error {
			vr, err := vs.requests.FindByID(tctx, id)
			if err != nil {
				return err
			}
			before = vr.Status
			changed = false

			for _, step := range steps {
				stepChanged, err := step(tctx, vr)
				if err != nil {
					return err
				}
				changed = changed || stepChanged
			}
			result = vr
			if !changed {
				return nil
			}

			now := time.Now()
			vr.AdminID = &adminID
			vr.ReviewedAt = &now
			vr.UpdatedAt = now
			if err := vs.requests.Update(tctx, vr); err != nil {
				return err
			}

			switch {
			case vr.Status == models.VerificationStatusApproved && before != models.VerificationStatusApproved:
				return vs.properties.SetVerified(tctx, vr.PropertyID, true)
			case before == models.VerificationStatusApproved && vr.Status != models.VerificationStatusApproved:
				return vs.properties.SetVerified(tctx, vr.PropertyID, false)
			}
			return nil
		})
		if errors.Is(err, errs.ErrStale) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if changed {
			vs.notifier.VerificationChanged(ctx, "verification."+string(result.Status), result)
		}
		return result, nil
	}

	return nil, errs.Conflictf("verification request %s was modified concurrently, try again", id.Hex())
}

// moveTo changes status through the transition table. Approval additionally
// requires a settled fee.
func (vs *VerificationServiceImpl) moveTo(status models.VerificationStatus, reopen bool) reviewStep {
	return func(ctx context.Context, vr *models.VerificationRequest) (bool, error) {
		noop, err := checkVerificationTransition(vr.Status, status, reopen)
		if err != nil || noop {
			return false, err
		}
		if status == models.VerificationStatusApproved {
			if err := vs.requireSettledFee(ctx, vr); err != nil {
				return false, err
			}
		}
		vr.Status = status
		return true, nil
	}
}

// requireSettledFee checks that the newest payment attempt completed and
// covers the fee whenever one is due. Fees are charged in the default currency.
func (vs *VerificationServiceImpl) requireSettledFee(ctx context.Context, vr *models.VerificationRequest) error {
	if !vr.FeeAmount.IsPositive() {
		return nil
	}
	latest, err := latestPayment(ctx, vs.payments, vr.ID)
	if err != nil {
		return err
	}
	if latest == nil {
		return errs.InvalidStatef("verification fee of %s has not been paid", vr.FeeAmount)
	}
	if latest.Status != models.PaymentStatusCompleted {
		return errs.InvalidStatef("latest payment %s is %s, not completed", latest.ID.Hex(), latest.Status)
	}
	if latest.Currency != models.DefaultCurrency {
		return errs.InvalidStatef("payment %s is in %s, the fee is charged in %s", latest.ID.Hex(), latest.Currency, models.DefaultCurrency)
	}
	if latest.Amount.LessThan(vr.FeeAmount) {
		return errs.InvalidStatef("payment %s of %s does not cover the %s fee", latest.ID.Hex(), latest.Amount, vr.FeeAmount)
	}
	return nil
}

func reopenStep(_ context.Context, vr *models.VerificationRequest) (bool, error) {
	if !vr.Status.Terminal() {
		return false, errs.InvalidStatef("only approved or rejected requests can be reopened, this one is %s", vr.Status)
	}
	return false, nil
}

func setNotes(notes *string) reviewStep {
	return func(_ context.Context, vr *models.VerificationRequest) (bool, error) {
		if notes == nil {
			return false, nil
		}
		if vr.AdminNotes != nil && *vr.AdminNotes == *notes {
			return false, nil
		}
		n := *notes
		vr.AdminNotes = &n
		return true, nil
	}
}

func appendDocuments(docs []models.Document) reviewStep {
	return func(_ context.Context, vr *models.VerificationRequest) (bool, error) {
		if vr.Status.Terminal() {
			return false, errs.InvalidStatef("documents cannot be added to a %s request", vr.Status)
		}
		vr.Documents = append(vr.Documents, docs...)
		return true, nil
	}
}

// DeleteVerificationRequest removes a request and its settled-out payment
// attempts. Requests with money in flight or collected are kept.
func (vs *VerificationServiceImpl) DeleteVerificationRequest(ctx context.Context, id primitive.ObjectID) error {
	release, err := vs.locker.Lock(ctx, attemptsLockKey(id))
	if err != nil {
		return err
	}
	defer release()

	vr, err := vs.requests.FindByID(ctx, id)
	if err != nil {
		return err
	}

	attempts, err := vs.payments.FindByVerificationRequest(ctx, id)
	if err != nil {
		return err
	}
	for _, p := range attempts {
		if p.Status == models.PaymentStatusPending || p.Status == models.PaymentStatusCompleted {
			return errs.Conflictf("verification request %s has a %s payment %s", id.Hex(), p.Status, p.ID.Hex())
		}
	}

	err = vs.tx.WithTransaction(ctx, func(tctx context.Context) error {
		if _, err := vs.payments.DeleteByVerificationRequest(tctx, id, []models.PaymentStatus{
			models.PaymentStatusFailed,
			models.PaymentStatusCancelled,
			models.PaymentStatusRefunded,
		}); err != nil {
			return err
		}
		if err := vs.requests.Delete(tctx, id); err != nil {
			return err
		}
		if vr.Status == models.VerificationStatusApproved {
			return vs.properties.SetVerified(tctx, vr.PropertyID, false)
		}
		return nil
	})
	if err != nil {
		return err
	}

	vs.notifier.VerificationChanged(ctx, "verification.deleted", vr)
	return nil
}
