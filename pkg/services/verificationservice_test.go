package services

import (
	"context"
	"testing"
	"time"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type verificationFixture struct {
	svc        VerificationService
	payments   PaymentService
	requests   *fakeVerificationStore
	paymentDB  *fakePaymentStore
	properties *fakePropertyStore
	tx         *fakeTransactor
	notifier   *fakeNotifier

	owner    primitive.ObjectID
	admin    primitive.ObjectID
	property primitive.ObjectID
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	t.Helper()
	f := &verificationFixture{
		requests:   newFakeVerificationStore(),
		paymentDB:  newFakePaymentStore(),
		properties: newFakePropertyStore(),
		tx:         &fakeTransactor{},
		notifier:   &fakeNotifier{},
		owner:      primitive.NewObjectID(),
		admin:      primitive.NewObjectID(),
	}
	locker := newFakeLocker()
	f.svc = NewVerificationService(f.requests, f.paymentDB, f.properties, f.tx, locker, f.notifier)
	f.payments = NewPaymentService(f.paymentDB, f.requests, locker, f.notifier)

	prop := &models.Property{ID: primitive.NewObjectID(), Title: "Two bed flat", ListedByID: f.owner}
	if err := f.properties.Insert(context.Background(), prop); err != nil {
		t.Fatal(err)
	}
	f.property = prop.ID
	return f
}

func (f *verificationFixture) create(t *testing.T, fee string) *models.VerificationRequest {
	t.Helper()
	vr, err := f.svc.CreateVerificationRequest(context.Background(), f.owner, models.CreateVerificationRequest{
		PropertyID: f.property.Hex(),
		FeeAmount:  d(fee),
		Documents:  []models.Document{{"kind": "deed", "url": "https://files.example/deed.pdf"}},
	})
	if err != nil {
		t.Fatalf("CreateVerificationRequest: %v", err)
	}
	return vr
}

func (f *verificationFixture) pay(t *testing.T, requestID primitive.ObjectID, amount string) *models.Payment {
	t.Helper()
	ctx := context.Background()
	p, err := f.payments.CreatePayment(ctx, requestID, models.CreatePaymentRequest{Amount: d(amount), Method: models.PaymentMethodCreditCard})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	p, err = f.payments.ProcessPayment(ctx, p.ID, "tx_1", nil)
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}
	return p
}

func (f *verificationFixture) verified(t *testing.T) bool {
	t.Helper()
	p, err := f.properties.FindByID(context.Background(), f.property)
	if err != nil {
		t.Fatal(err)
	}
	return p.IsVerified
}

func TestCheckVerificationTransition(t *testing.T) {
	p, u, a, r := models.VerificationStatusPending, models.VerificationStatusUnderReview, models.VerificationStatusApproved, models.VerificationStatusRejected
	cases := []struct {
		from, to models.VerificationStatus
		reopen   bool
		noop     bool
		kind     error
	}{
		{p, u, false, false, nil},
		{p, a, false, false, nil},
		{p, r, false, false, nil},
		{p, p, false, true, nil},
		{u, u, false, true, nil},
		{u, a, false, false, nil},
		{u, r, false, false, nil},
		{u, p, false, false, errs.ErrInvalidState},
		{a, u, false, false, errs.ErrInvalidState},
		{a, u, true, false, nil},
		{r, u, true, false, nil},
		{a, r, false, false, errs.ErrInvalidState},
		{r, a, false, false, errs.ErrInvalidState},
		{a, a, false, false, errs.ErrInvalidState},
		{r, p, false, false, errs.ErrInvalidState},
	}
	for _, tc := range cases {
		noop, err := checkVerificationTransition(tc.from, tc.to, tc.reopen)
		if tc.kind != nil {
			if !errors.Is(err, tc.kind) {
				t.Fatalf("%s -> %s (reopen=%v): err = %v, want %v", tc.from, tc.to, tc.reopen, err, tc.kind)
			}
			continue
		}
		if err != nil || noop != tc.noop {
			t.Fatalf("%s -> %s (reopen=%v) = (%v, %v), want (%v, nil)", tc.from, tc.to, tc.reopen, noop, err, tc.noop)
		}
	}
}

func TestPaidRequestIsApproved(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()

	vr := f.create(t, "150.00")
	if vr.Status != models.VerificationStatusPending || vr.ReviewedAt != nil || vr.AdminID != nil {
		t.Fatalf("new request = %+v", vr)
	}
	f.pay(t, vr.ID, "150.00")

	approved, err := f.svc.ApproveVerificationRequest(ctx, vr.ID, f.admin, nil)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != models.VerificationStatusApproved {
		t.Fatalf("status = %s", approved.Status)
	}
	if approved.ReviewedAt == nil || approved.AdminID == nil || *approved.AdminID != f.admin {
		t.Fatalf("review stamp missing: %+v", approved)
	}
	if !f.verified(t) {
		t.Fatalf("property not marked verified")
	}

	stored, _ := f.svc.GetVerificationRequest(ctx, vr.ID)
	if stored.Status != models.VerificationStatusApproved || stored.Version != approved.Version {
		t.Fatalf("stored = %+v", stored)
	}

	names := f.notifier.names()
	if names[len(names)-1] != "verification.approved" {
		t.Fatalf("events = %v", names)
	}
}

func TestApproveRequiresSettledFee(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	vr := f.create(t, "150.00")

	if _, err := f.svc.ApproveVerificationRequest(ctx, vr.ID, f.admin, nil); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("unpaid: err = %v", err)
	}

	p, err := f.payments.CreatePayment(ctx, vr.ID, models.CreatePaymentRequest{Amount: d("150"), Method: models.PaymentMethodStripe})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ApproveVerificationRequest(ctx, vr.ID, f.admin, nil); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("pending payment: err = %v", err)
	}

	if _, err := f.payments.ProcessPayment(ctx, p.ID, "tx_1", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ApproveVerificationRequest(ctx, vr.ID, f.admin, nil); err != nil {
		t.Fatalf("after payment: %v", err)
	}
}

func TestApproveRejectsUnderpaidFee(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	vr := f.create(t, "150.00")
	f.pay(t, vr.ID, "0.01")

	_, err := f.svc.ApproveVerificationRequest(ctx, vr.ID, f.admin, nil)
	if !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("underpaid: err = %v", err)
	}
	stored, _ := f.svc.GetVerificationRequest(ctx, vr.ID)
	if stored.Status != models.VerificationStatusPending || f.verified(t) {
		t.Fatalf("request moved on an underpaid fee: %+v", stored)
	}
}

func TestApproveRejectsForeignCurrencyFee(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	vr := f.create(t, "150.00")

	p, err := f.payments.CreatePayment(ctx, vr.ID, models.CreatePaymentRequest{Amount: d("150.00"), Currency: "eur", Method: models.PaymentMethodPaypal})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.payments.ProcessPayment(ctx, p.ID, "tx_1", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ApproveVerificationRequest(ctx, vr.ID, f.admin, nil); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("foreign currency: err = %v", err)
	}
}

func TestApproveAcceptsOverpaidFee(t *testing.T) {
	f := newVerificationFixture(t)
	vr := f.create(t, "150.00")
	f.pay(t, vr.ID, "160.00")
	if _, err := f.svc.ApproveVerificationRequest(context.Background(), vr.ID, f.admin, nil); err != nil {
		t.Fatalf("overpaid: %v", err)
	}
}

func TestApproveFreeRequest(t *testing.T) {
	f := newVerificationFixture(t)
	vr := f.create(t, "0")
	if _, err := f.svc.ApproveVerificationRequest(context.Background(), vr.ID, f.admin, nil); err != nil {
		t.Fatalf("Approve without fee: %v", err)
	}
}

func TestRejectRequiresNotes(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	vr := f.create(t, "10")

	for _, notes := range []string{"", "   "} {
		if _, err := f.svc.RejectVerificationRequest(ctx, vr.ID, f.admin, notes); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("notes %q: err = %v", notes, err)
		}
	}
	stored, _ := f.svc.GetVerificationRequest(ctx, vr.ID)
	if stored.Status != models.VerificationStatusPending || stored.ReviewedAt != nil || stored.Version != vr.Version {
		t.Fatalf("request changed by a rejected call: %+v", stored)
	}

	rejected, err := f.svc.RejectVerificationRequest(ctx, vr.ID, f.admin, "deed is illegible")
	if err != nil {
		t.Fatal(err)
	}
	if rejected.Status != models.VerificationStatusRejected || *rejected.AdminNotes != "deed is illegible" {
		t.Fatalf("rejected = %+v", rejected)
	}
}

func TestReviewRequiresAdmin(t *testing.T) {
	f := newVerificationFixture(t)
	vr := f.create(t, "0")
	if _, err := f.svc.BeginReview(context.Background(), vr.ID, primitive.NilObjectID); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Fatalf("err = %v", err)
	}
}

func TestCreateVerificationRequestValidation(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateVerificationRequest(ctx, primitive.NilObjectID, models.CreateVerificationRequest{PropertyID: f.property.Hex()}); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("anonymous: err = %v", err)
	}
	if _, err := f.svc.CreateVerificationRequest(ctx, f.owner, models.CreateVerificationRequest{PropertyID: "nope"}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("bad id: err = %v", err)
	}
	if _, err := f.svc.CreateVerificationRequest(ctx, f.owner, models.CreateVerificationRequest{PropertyID: f.property.Hex(), FeeAmount: d("-5")}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("negative fee: err = %v", err)
	}
	if _, err := f.svc.CreateVerificationRequest(ctx, f.owner, models.CreateVerificationRequest{PropertyID: primitive.NewObjectID().Hex()}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("missing property: err = %v", err)
	}
}

func TestReopenClearsVerifiedFlag(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	vr := f.create(t, "0")

	if _, err := f.svc.ApproveVerificationRequest(ctx, vr.ID, f.admin, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.BeginReview(ctx, vr.ID, f.admin); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("plain review of approved: err = %v", err)
	}

	notes := "owner disputes the boundary"
	reopened, err := f.svc.ReopenVerificationRequest(ctx, vr.ID, f.admin, &notes)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if reopened.Status != models.VerificationStatusUnderReview || *reopened.AdminNotes != notes {
		t.Fatalf("reopened = %+v", reopened)
	}
	if f.verified(t) {
		t.Fatalf("property still verified after reopen")
	}
}

func TestReopenOnlyDecidedRequests(t *testing.T) {
	f := newVerificationFixture(t)
	vr := f.create(t, "0")
	if _, err := f.svc.ReopenVerificationRequest(context.Background(), vr.ID, f.admin, nil); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("err = %v", err)
	}
}

func TestBeginReviewTwiceIsNoop(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	vr := f.create(t, "0")

	first, err := f.svc.BeginReview(ctx, vr.ID, f.admin)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.svc.BeginReview(ctx, vr.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatal(err)
	}
	if second.Version != first.Version || *second.AdminID != f.admin {
		t.Fatalf("no-op review rewrote the request: %+v", second)
	}
}

func TestSubmitDocuments(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	vr := f.create(t, "0")

	if _, err := f.svc.SubmitDocuments(ctx, vr.ID, f.admin, nil); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("empty docs: err = %v", err)
	}
	got, err := f.svc.SubmitDocuments(ctx, vr.ID, f.admin, []models.Document{{"kind": "survey"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Documents) != 2 {
		t.Fatalf("documents = %v", got.Documents)
	}

	if _, err := f.svc.RejectVerificationRequest(ctx, vr.ID, f.admin, "incomplete"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SubmitDocuments(ctx, vr.ID, f.admin, []models.Document{{"kind": "late"}}); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("docs on decided request: err = %v", err)
	}
}

func TestUpdateVerificationRequestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty patch", func(t *testing.T) {
		f := newVerificationFixture(t)
		vr := f.create(t, "0")
		if _, err := f.svc.UpdateVerificationRequest(ctx, vr.ID, f.admin, models.UpdateVerificationRequest{}); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("reject needs notes", func(t *testing.T) {
		f := newVerificationFixture(t)
		vr := f.create(t, "0")
		status := models.VerificationStatusRejected
		if _, err := f.svc.UpdateVerificationRequest(ctx, vr.ID, f.admin, models.UpdateVerificationRequest{Status: &status}); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("approve goes through the fee gate", func(t *testing.T) {
		f := newVerificationFixture(t)
		vr := f.create(t, "25")
		status := models.VerificationStatusApproved
		if _, err := f.svc.UpdateVerificationRequest(ctx, vr.ID, f.admin, models.UpdateVerificationRequest{Status: &status}); !errors.Is(err, errs.ErrInvalidState) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("under_review on a decided request reopens it", func(t *testing.T) {
		f := newVerificationFixture(t)
		vr := f.create(t, "0")
		if _, err := f.svc.ApproveVerificationRequest(ctx, vr.ID, f.admin, nil); err != nil {
			t.Fatal(err)
		}
		status := models.VerificationStatusUnderReview
		got, err := f.svc.UpdateVerificationRequest(ctx, vr.ID, f.admin, models.UpdateVerificationRequest{Status: &status})
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != status || f.verified(t) {
			t.Fatalf("got %s verified=%v", got.Status, f.verified(t))
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newVerificationFixture(t)
		vr := f.create(t, "0")
		status := models.VerificationStatus("archived")
		if _, err := f.svc.UpdateVerificationRequest(ctx, vr.ID, f.admin, models.UpdateVerificationRequest{Status: &status}); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestPendingQueueIsOldestFirst(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	older := f.create(t, "0")
	time.Sleep(2 * time.Millisecond)
	newer := f.create(t, "0")
	reviewed := f.create(t, "0")
	if _, err := f.svc.BeginReview(ctx, reviewed.ID, f.admin); err != nil {
		t.Fatal(err)
	}

	queue, err := f.svc.GetPendingVerificationRequests(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 2 || queue[0].ID != older.ID || queue[1].ID != newer.ID {
		t.Fatalf("queue = %v", queue)
	}
}

func TestDeleteVerificationRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("completed payment blocks delete", func(t *testing.T) {
		f := newVerificationFixture(t)
		vr := f.create(t, "150")
		f.pay(t, vr.ID, "150")
		if err := f.svc.DeleteVerificationRequest(ctx, vr.ID); !errors.Is(err, errs.ErrConflict) {
			t.Fatalf("err = %v", err)
		}
		if _, err := f.svc.GetVerificationRequest(ctx, vr.ID); err != nil {
			t.Fatalf("request gone after refused delete: %v", err)
		}
	})

	t.Run("settled-out attempts are removed with the request", func(t *testing.T) {
		f := newVerificationFixture(t)
		vr := f.create(t, "0")
		p, err := f.payments.CreatePayment(ctx, vr.ID, models.CreatePaymentRequest{Amount: d("10"), Method: models.PaymentMethodPaypal})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.payments.CancelPayment(ctx, p.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.ApproveVerificationRequest(ctx, vr.ID, f.admin, nil); err != nil {
			t.Fatal(err)
		}

		if err := f.svc.DeleteVerificationRequest(ctx, vr.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := f.svc.GetVerificationRequest(ctx, vr.ID); !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("request still present: %v", err)
		}
		if left, _ := f.payments.GetPaymentsByVerificationRequest(ctx, vr.ID); len(left) != 0 {
			t.Fatalf("payments left behind: %v", left)
		}
		if f.verified(t) {
			t.Fatalf("property still verified after its approval was deleted")
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		f := newVerificationFixture(t)
		if err := f.svc.DeleteVerificationRequest(ctx, primitive.NewObjectID()); !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("err = %v", err)
		}
	})
}
