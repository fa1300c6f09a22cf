package services

import (
	"time"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
)

type paymentChange struct {
	target               models.PaymentStatus
	gatewayTransactionID *string
	gatewayResponse      map[string]any
}

// applyPaymentTransition is the only place a payment's status moves. It
// reports false when the change is an accepted no-op.
//
//	pending   -> completed | failed | cancelled
//	failed    -> completed | failed
//	cancelled -> completed | cancelled
//	completed -> refunded  (completed again only with the same transaction id)
//	refunded  -> nothing
//
// completedAt is stamped on the first entry into completed and never cleared.
func applyPaymentTransition(p *models.Payment, c paymentChange, now time.Time) (bool, error) {
	from := p.Status

	switch c.target {
	case models.PaymentStatusCompleted:
		switch from {
		case models.PaymentStatusPending, models.PaymentStatusFailed, models.PaymentStatusCancelled:
			p.Status = models.PaymentStatusCompleted
			if c.gatewayTransactionID != nil {
				p.GatewayTransactionID = c.gatewayTransactionID
			}
			if c.gatewayResponse != nil {
				p.GatewayResponse = c.gatewayResponse
			}
			if p.CompletedAt == nil {
				p.CompletedAt = &now
			}
			return true, nil
		case models.PaymentStatusCompleted:
			if c.gatewayTransactionID != nil && p.GatewayTransactionID != nil && *c.gatewayTransactionID != *p.GatewayTransactionID {
				return false, errs.InvalidStatef("payment %s already completed with transaction %s", p.ID.Hex(), *p.GatewayTransactionID)
			}
			return false, nil
		}
		return false, deniedPaymentMove(p, c.target)

	case models.PaymentStatusFailed:
		switch from {
		case models.PaymentStatusPending, models.PaymentStatusFailed:
			p.Status = models.PaymentStatusFailed
			if c.gatewayResponse != nil {
				p.GatewayResponse = c.gatewayResponse
			}
			return true, nil
		}
		return false, deniedPaymentMove(p, c.target)

	case models.PaymentStatusCancelled:
		switch from {
		case models.PaymentStatusPending:
			p.Status = models.PaymentStatusCancelled
			return true, nil
		case models.PaymentStatusCancelled:
			return false, nil
		}
		return false, deniedPaymentMove(p, c.target)

	case models.PaymentStatusRefunded:
		if from == models.PaymentStatusCompleted {
			p.Status = models.PaymentStatusRefunded
			return true, nil
		}
		return false, deniedPaymentMove(p, c.target)

	case models.PaymentStatusPending:
		if from == models.PaymentStatusPending {
			return false, nil
		}
		return false, deniedPaymentMove(p, c.target)
	}

	return false, errs.InvalidArgumentf("unknown payment status %q", c.target)
}

func deniedPaymentMove(p *models.Payment, to models.PaymentStatus) error {
	return errs.InvalidStatef("payment %s cannot move from %s to %s", p.ID.Hex(), p.Status, to)
}
