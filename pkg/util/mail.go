package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-mail/mail"
	"github.com/pkg/errors"
)

type EmailComposer struct {
	Body       string
	Subject    string
	Sender     string
	SenderName string
	To         string
	ToName     string
}

// HTTPMailer posts messages to a transactional mail API.
type HTTPMailer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPMailer(endpoint, apiKey string) *HTTPMailer {
	return &HTTPMailer{endpoint: endpoint, apiKey: apiKey, client: &http.Client{Timeout: 15 * time.Second}}
}

func (m *HTTPMailer) SendMail(ctx context.Context, mail EmailComposer) error {
	data := map[string]interface{}{
		"sender": map[string]string{
			"name":  mail.SenderName,
			"email": mail.Sender,
		},
		"to": []map[string]string{
			{
				"email": mail.To,
				"name":  mail.ToName,
			},
		},
		"subject":     mail.Subject,
		"htmlContent": mail.Body,
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "marshal mail")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return errors.Wrap(err, "mail request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", m.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "send mail")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mail api returned %d: %s", resp.StatusCode, body)
	}
	return nil
}

// SMTPMailer sends messages through an SMTP relay.
type SMTPMailer struct {
	dialer *mail.Dialer
}

func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 15 * time.Second
	return &SMTPMailer{dialer: dialer}
}

func (m *SMTPMailer) SendMail(ctx context.Context, composed EmailComposer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(composeMessage(composed)); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	return nil
}

func composeMessage(composed EmailComposer) *mail.Message {
	msg := mail.NewMessage()
	msg.SetAddressHeader("From", composed.Sender, composed.SenderName)
	msg.SetAddressHeader("To", composed.To, composed.ToName)
	msg.SetHeader("Subject", composed.Subject)
	msg.SetBody("text/html", composed.Body)
	return msg
}
