package service

import (
	"context"
	"io"
	"time"

	"weddingplanner/internal/entity"
	"weddingplanner/internal/paystack"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type PaymentConfig struct {
	CallbackURL string
	TokenBytes  int
}

type AccountConfig struct {
	VerificationTTL time.Duration
	VerifyURL       string
	CodeDigits      int
}

type ReminderConfig struct {
	AdminEmail string
	BatchSize  int
	Location   *time.Location
	Schedule   []int
	AdminDays  int
}

type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResult, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error)
}

type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type EmailSender interface {
	Send(ctx context.Context, message EmailMessage) error
}

type MessageSender interface {
	SendWhatsApp(ctx context.Context, to string, body string) error
}

type ImageStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

type ReminderLedger interface {
	// Claim returns false when the reminder was already claimed for that day.
	Claim(ctx context.Context, pageID uuid.UUID, kind ReminderKind, day string) (bool, error)
	Release(ctx context.Context, pageID uuid.UUID, kind ReminderKind, day string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data any) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type AccessTokenIssuer interface {
	IssueAccessToken(user entity.User) (string, time.Duration, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
