// Package email delivers the savings report and related mail. Two providers
// are supported: the Brevo transactional API and a plain SMTP server via
// go-mail. Both render the same embedded HTML templates.
package email

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lampolaskuri_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes (base64-encoded for Brevo)
	FileName string // e.g. "saastolaskelma.pdf"
	MIMEType string // e.g. "application/pdf"
}

type Sender interface {
	// SendReportEmail delivers the savings report: a short summary with a
	// link to the public report page, the PDF attached.
	SendReportEmail(ctx context.Context, toEmail, recipientName, reportURL string, attachments ...Attachment) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

type NoopSender struct{}

func (NoopSender) SendReportEmail(ctx context.Context, toEmail, recipientName, reportURL string, attachments ...Attachment) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

// NewSender picks the provider from config. Email can be disabled outright
// for local development; captured leads still get their report page.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	switch cfg.GetEmailProvider() {
	case "brevo":
		return &BrevoSender{
			apiKey:    cfg.GetBrevoAPIKey(),
			fromName:  cfg.GetEmailFromName(),
			fromEmail: cfg.GetEmailFromAddress(),
			client:    &http.Client{Timeout: 10 * time.Second},
		}, nil
	case "smtp":
		return NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.GetEmailProvider())
	}
}
