package services

import (
	"context"

	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/util"

	"github.com/sirupsen/logrus"
)

// EventPublisher broadcasts a typed message; implemented over redis pub/sub.
type EventPublisher interface {
	Publish(ctx context.Context, messageType, payload string) error
}

// MailQueue accepts decision emails for background delivery.
type MailQueue interface {
	Enqueue(job EmailJob) bool
}

type notificationService struct {
	publisher EventPublisher
	mail      MailQueue
}

// NewNotificationService wires event fan-out. Either collaborator may be nil.
func NewNotificationService(publisher EventPublisher, mail MailQueue) NotificationService {
	return &notificationService{publisher: publisher, mail: mail}
}

func (ns *notificationService) PaymentChanged(ctx context.Context, event string, p *models.Payment) {
	ns.publish(ctx, event, p.ID.Hex())
	util.LogInfo(event, logrus.Fields{
		"paymentId":             p.ID.Hex(),
		"verificationRequestId": p.VerificationRequestID.Hex(),
		"status":                p.Status,
	})
}

func (ns *notificationService) VerificationChanged(ctx context.Context, event string, vr *models.VerificationRequest) {
	ns.publish(ctx, event, vr.ID.Hex())
	util.LogInfo(event, logrus.Fields{
		"verificationRequestId": vr.ID.Hex(),
		"propertyId":            vr.PropertyID.Hex(),
		"status":                vr.Status,
	})

	if ns.mail == nil {
		return
	}
	if vr.Status != models.VerificationStatusApproved && vr.Status != models.VerificationStatusRejected {
		return
	}
	if !ns.mail.Enqueue(EmailJob{Request: *vr}) {
		util.LogWarning("decision email dropped, mail queue unavailable", logrus.Fields{"verificationRequestId": vr.ID.Hex()})
	}
}

func (ns *notificationService) publish(ctx context.Context, event, payload string) {
	if ns.publisher == nil {
		return
	}
	if err := ns.publisher.Publish(ctx, event, payload); err != nil {
		util.LogError("services", "publish", event, payload, err)
	}
}
