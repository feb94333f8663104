// Package notify delivers report e-mails.
package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type Recipient struct {
	Name  string
	Email string
}

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	To         []Recipient
	Subject    string
	Text       string
	HTML       string
	Attachment *Attachment
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid notifier, or Noop when no API key is configured.
func New(apiKey, fromEmail, fromName string, log *zap.Logger) Notifier {
	log = log.Named("notify")
	if apiKey == "" || fromEmail == "" {
		log.Warn("SENDGRID_API_KEY or MAIL_FROM not set, e-mails disabled")
		return Noop{log: log}
	}
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
		log:    log,
	}
}

type SendGrid struct {
	client *sendgrid.Client
	from   *mail.Email
	log    *zap.Logger
}

// Send sends one message per recipient; every recipient is attempted and the
// failures are joined.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, to := range msg.To {
		if strings.TrimSpace(to.Email) == "" {
			continue
		}
		m := mail.NewSingleEmail(s.from, msg.Subject, mail.NewEmail(to.Name, to.Email), msg.Text, msg.HTML)
		if a := msg.Attachment; a != nil {
			att := mail.NewAttachment()
			att.SetContent(base64.StdEncoding.EncodeToString(a.Data))
			att.SetType(a.ContentType)
			att.SetFilename(a.Filename)
			att.SetDisposition("attachment")
			m.AddAttachment(att)
		}

		resp, err := s.client.SendWithContext(ctx, m)
		if err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", to.Email, err))
			continue
		}
		if resp.StatusCode >= 400 {
			s.log.Error("sendgrid rejected message", zap.Int("status_code", resp.StatusCode), zap.String("body", resp.Body))
			errs = append(errs, fmt.Errorf("send to %s: status %d", to.Email, resp.StatusCode))
			continue
		}
		s.log.Info("e-mail sent", zap.String("to", to.Email), zap.String("subject", msg.Subject))
	}
	return errors.Join(errs...)
}

// Noop logs instead of sending.
type Noop struct {
	log *zap.Logger
}

func (n Noop) Send(_ context.Context, msg Message) error {
	if n.log != nil {
		n.log.Debug("e-mail skipped", zap.String("subject", msg.Subject), zap.Int("recipients", len(msg.To)))
	}
	return nil
}
