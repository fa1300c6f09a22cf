package services

import (
	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
)

// checkVerificationTransition decides whether a request may move from one
// status to another. reopen marks the admin Reopen command, the only way out
// of a decided state. noop is true when nothing would change.
//
//	pending      -> under_review | approved | rejected
//	under_review -> approved | rejected (under_review is a no-op)
//	approved     -> under_review (reopen only)
//	rejected     -> under_review (reopen only)
func checkVerificationTransition(from, to models.VerificationStatus, reopen bool) (noop bool, err error) {
	switch to {
	case models.VerificationStatusUnderReview:
		switch from {
		case models.VerificationStatusPending:
			return false, nil
		case models.VerificationStatusUnderReview:
			return true, nil
		case models.VerificationStatusApproved, models.VerificationStatusRejected:
			if reopen {
				return false, nil
			}
			return false, errs.InvalidStatef("verification request is %s; reopen it first", from)
		}

	case models.VerificationStatusApproved, models.VerificationStatusRejected:
		if from == models.VerificationStatusPending || from == models.VerificationStatusUnderReview {
			return false, nil
		}
		return false, errs.InvalidStatef("verification request cannot move from %s to %s", from, to)

	case models.VerificationStatusPending:
		if from == models.VerificationStatusPending {
			return true, nil
		}
		return false, errs.InvalidStatef("verification request cannot move from %s to %s", from, to)
	}

	return false, errs.InvalidArgumentf("unknown verification status %q", to)
}
