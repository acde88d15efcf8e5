package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendEmailSender struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	timeout time.Duration
}

func NewMailerSendEmailSender(apiKey, fromName, fromEmail string) *MailerSendEmailSender {
	sender := &MailerSendEmailSender{
		from:    mailersend.From{Name: fromName, Email: fromEmail},
		timeout: 10 * time.Second,
	}
	if strings.TrimSpace(apiKey) != "" && strings.TrimSpace(fromEmail) != "" {
		sender.client = mailersend.NewMailersend(apiKey)
	}
	return sender
}

func (s *MailerSendEmailSender) Send(ctx context.Context, message EmailMessage) error {
	if s.client == nil {
		return ErrEmailNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg := s.client.Email.NewMessage()
	msg.SetFrom(s.from)
	msg.SetRecipients([]mailersend.Recipient{{Email: message.To}})
	msg.SetSubject(message.Subject)
	if strings.TrimSpace(message.Text) != "" {
		msg.SetText(message.Text)
	}
	if strings.TrimSpace(message.HTML) != "" {
		msg.SetHTML(message.HTML)
	}

	res, err := s.client.Email.Send(ctx, msg)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
