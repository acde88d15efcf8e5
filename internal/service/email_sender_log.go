package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogEmailSender writes messages to the log instead of delivering them. With
// ShowContent unset only the recipient and subject are logged.
type LogEmailSender struct {
	Logger      logrus.FieldLogger
	ShowContent bool
}

func (s LogEmailSender) Send(_ context.Context, message EmailMessage) error {
	logger := s.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	entry := logger.WithFields(logrus.Fields{"to": message.To, "subject": message.Subject})
	if s.ShowContent {
		entry = entry.WithField("body", message.Text)
	}
	entry.Info("email")
	return nil
}
