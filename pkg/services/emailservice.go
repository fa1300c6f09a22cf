package services

import (
	"context"
	"fmt"
	"html"

	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/util"
)

type EmailService interface {
	SendVerificationDecisionEmail(ctx context.Context, email, name string, vr *models.VerificationRequest) error
}

// MailSender delivers a composed message.
type MailSender interface {
	SendMail(ctx context.Context, mail util.EmailComposer) error
}

type emailService struct {
	mailer     MailSender
	sender     string
	senderName string
}

// NewEmailService creates a new instance of EmailService
func NewEmailService(mailer MailSender, sender, senderName string) EmailService {
	return &emailService{mailer: mailer, sender: sender, senderName: senderName}
}

// SendVerificationDecisionEmail tells the submitter their request was approved or rejected.
func (e *emailService) SendVerificationDecisionEmail(ctx context.Context, email, name string, vr *models.VerificationRequest) error {
	subject, body := verificationDecisionContent(name, vr)
	return e.mailer.SendMail(ctx, util.EmailComposer{
		To:         email,
		ToName:     name,
		Sender:     e.sender,
		SenderName: e.senderName,
		Subject:    subject,
		Body:       body,
	})
}

func verificationDecisionContent(name string, vr *models.VerificationRequest) (string, string) {
	notes := ""
	if vr.AdminNotes != nil && *vr.AdminNotes != "" {
		notes = fmt.Sprintf(`<p>Reviewer notes: %s</p>`, html.EscapeString(*vr.AdminNotes))
	}

	if vr.Status == models.VerificationStatusApproved {
		return "Your property is now verified",
			fmt.Sprintf(`<body style="font-family: Arial, sans-serif; font-size: 14px;"><p>Dear %s,</p><p>Good news: verification request %s has been approved and your listing now shows as verified.</p>%s<p>The Prop-T Team</p></body>`,
				html.EscapeString(name), vr.ID.Hex(), notes)
	}
	return "Your verification request was not approved",
		fmt.Sprintf(`<body style="font-family: Arial, sans-serif; font-size: 14px;"><p>Dear %s,</p><p>Verification request %s was rejected.</p>%s<p>You can submit a new request once the issues above are resolved.</p><p>The Prop-T Team</p></body>`,
			html.EscapeString(name), vr.ID.Hex(), notes)
}
