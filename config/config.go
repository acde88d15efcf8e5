package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	DatabaseURL string
	HTTPAddr    string
	AppBaseURL  string
	AppEnv      string

	JWTSecret string
	JWTIssuer string

	PaystackSecretKey string
	PaystackBaseURL   string
	PaystackTimeout   time.Duration

	EmailProvider    string
	ResendAPIKey     string
	MailerSendAPIKey string
	EmailFrom        string
	EmailFromName    string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string

	AdminEmail        string
	VerificationTTL   time.Duration
	ReminderBatchSize int
	ReminderTimezone  *time.Location

	RedisURL   string
	NATSURL    string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	CronSecret string
}

func (c AppConfig) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads the process environment, picking up a .env file when present.
func Load(logger logrus.FieldLogger) (AppConfig, error) {
	if err := godotenv.Load(); err != nil && logger != nil {
		logger.WithError(err).Debug("no .env file loaded")
	}

	cfg := AppConfig{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		AppBaseURL:         strings.TrimRight(os.Getenv("APP_BASE_URL"), "/"),
		AppEnv:             getEnv("APP_ENV", "development"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTIssuer:          os.Getenv("JWT_ISSUER"),
		PaystackSecretKey:  os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:    getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		EmailProvider:      strings.ToLower(getEnv("EMAIL_PROVIDER", "log")),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		MailerSendAPIKey:   os.Getenv("MAILERSEND_API_KEY"),
		EmailFrom:          os.Getenv("EMAIL_FROM"),
		EmailFromName:      os.Getenv("EMAIL_FROM_NAME"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		NATSURL:            os.Getenv("NATS_URL"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		CronSecret:         os.Getenv("CRON_SECRET"),
	}

	var err error
	if cfg.PaystackTimeout, err = getDuration("PAYSTACK_TIMEOUT", 15*time.Second); err != nil {
		return cfg, err
	}
	if cfg.VerificationTTL, err = getDuration("VERIFICATION_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.ReminderBatchSize, err = getInt("REMINDER_BATCH_SIZE", 100); err != nil {
		return cfg, err
	}
	if cfg.ReminderTimezone, err = time.LoadLocation(getEnv("REMINDER_TIMEZONE", "UTC")); err != nil {
		return cfg, fmt.Errorf("REMINDER_TIMEZONE: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return duration, nil
}

func getInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
