package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"weddingplanner/config"
	"weddingplanner/internal/repository"
	"weddingplanner/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if out == nil {
		out = os.Stdout
	}
	logger.SetOutput(out)
	return logger
}

// EmailSender picks the provider named by EMAIL_PROVIDER. A provider without
// credentials falls back to logging.
func EmailSender(cfg config.AppConfig, logger logrus.FieldLogger) service.EmailSender {
	switch cfg.EmailProvider {
	case "resend":
		if cfg.ResendAPIKey != "" {
			return service.NewResendEmailSender(cfg.ResendAPIKey, formatFrom(cfg))
		}
	case "mailersend":
		if cfg.MailerSendAPIKey != "" {
			return service.NewMailerSendEmailSender(cfg.MailerSendAPIKey, cfg.EmailFromName, cfg.EmailFrom)
		}
	}
	if cfg.EmailProvider != "log" {
		logger.WithField("provider", cfg.EmailProvider).Warn("email provider not configured, logging emails instead")
	}
	return service.LogEmailSender{Logger: logger, ShowContent: !cfg.Production()}
}

func formatFrom(cfg config.AppConfig) string {
	if cfg.EmailFromName == "" {
		return cfg.EmailFrom
	}
	return fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)
}

// ReminderLedger returns nil when Redis is not configured; the sweep then
// runs without dedupe.
func ReminderLedger(ctx context.Context, cfg config.AppConfig, logger logrus.FieldLogger) (service.ReminderLedger, func()) {
	if cfg.RedisURL == "" {
		return nil, func() {}
	}
	options, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("invalid REDIS_URL, reminder dedupe disabled")
		return nil, func() {}
	}
	client := redis.NewClient(options)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).Warn("redis unreachable, reminder dedupe disabled")
		_ = client.Close()
		return nil, func() {}
	}
	return service.NewRedisReminderLedger(client), func() { _ = client.Close() }
}

func Events(cfg config.AppConfig, logger logrus.FieldLogger) (service.EventPublisher, func()) {
	if cfg.NATSURL == "" {
		return nil, func() {}
	}
	publisher, err := service.NewNATSEventPublisher(cfg.NATSURL)
	if err != nil {
		logger.WithError(err).Warn("nats unreachable, domain events disabled")
		return nil, func() {}
	}
	return publisher, func() { _ = publisher.Close() }
}

func ImageStore(ctx context.Context, cfg config.AppConfig, logger logrus.FieldLogger) service.ImageStore {
	if cfg.S3Bucket == "" {
		return nil
	}
	store, err := service.NewS3ImageStore(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Endpoint)
	if err != nil {
		logger.WithError(err).Warn("s3 not available, profile images disabled")
		return nil
	}
	return store
}

func Messenger(cfg config.AppConfig) service.MessageSender {
	if cfg.TwilioAccountSID == "" || cfg.TwilioWhatsAppFrom == "" {
		return nil
	}
	return service.NewTwilioWhatsAppSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
}

func ReminderService(db *gorm.DB, cfg config.AppConfig, emailSender service.EmailSender, ledger service.ReminderLedger, events service.EventPublisher, logger logrus.FieldLogger) *service.ReminderService {
	return service.NewReminderService(
		repository.NewWeddingPageRepository(db),
		emailSender,
		ledger,
		events,
		service.RealClock{},
		logger,
		service.ReminderConfig{
			AdminEmail: cfg.AdminEmail,
			BatchSize:  cfg.ReminderBatchSize,
			Location:   cfg.ReminderTimezone,
		},
	)
}
