package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"weddingplanner/internal/entity"
	"weddingplanner/internal/repository"
	"weddingplanner/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	EventAccountActivated = "account.activated"

	dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

	maxCredentialAttempts = 5
)

type AccountService struct {
	users repository.UserRepository

	emailSender  EmailSender
	messenger    MessageSender
	images       ImageStore
	events       EventPublisher
	passwordHash PasswordHasher
	accessTokens AccessTokenIssuer
	clock        Clock
	logger       logrus.FieldLogger
	config       AccountConfig
}

func NewAccountService(
	users repository.UserRepository,
	emailSender EmailSender,
	messenger MessageSender,
	images ImageStore,
	events EventPublisher,
	passwordHash PasswordHasher,
	accessTokens AccessTokenIssuer,
	clock Clock,
	logger logrus.FieldLogger,
	config AccountConfig,
) *AccountService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AccountService{
		users:        users,
		emailSender:  emailSender,
		messenger:    messenger,
		images:       images,
		events:       events,
		passwordHash: passwordHash,
		accessTokens: accessTokens,
		clock:        clock,
		logger:       logger,
		config:       config,
	}
}

// RegisterAccount completes signup for an email that has already paid and
// issues a fresh verification token/code pair.
func (s *AccountService) RegisterAccount(ctx context.Context, input RegisterInput) error {
	email := utils.NormalizeEmail(input.Email)
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Password) == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return missingFields(missing...)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNoActiveSubscription
	}
	switch user.Status {
	case entity.UserStatusPaid:
	case entity.UserStatusActive:
		return ErrAccountAlreadyActive
	default:
		return ErrNoActiveSubscription
	}

	phone := utils.NormalizePhone(input.Phone)
	if phone != "" && (user.Whatsapp == nil || *user.Whatsapp != phone) {
		owner, err := s.users.FindByWhatsapp(ctx, phone)
		if err != nil {
			return err
		}
		if owner != nil && owner.ID != user.ID {
			return ErrPhoneAlreadyUsed
		}
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return err
	}

	user.Name = strings.TrimSpace(input.Name)
	user.PartnerName = strings.TrimSpace(input.PartnerName)
	user.PasswordHash = &hash
	if phone != "" {
		user.Whatsapp = &phone
	}
	if input.WeddingDate != nil {
		weddingDate := input.WeddingDate.UTC()
		user.WeddingDate = &weddingDate
	}
	var imageKey string
	if input.Image != nil && input.Image.Body != nil {
		reference, key, err := s.uploadImage(ctx, user.ID, input.Image)
		if err != nil {
			return err
		}
		if reference != "" {
			user.ProfileImage = &reference
			imageKey = key
		}
	}
	user.Plan = nil
	user.EmailVerifiedAt = nil

	var token, code string
	for attempt := 1; ; attempt++ {
		token, code, err = s.issueVerification(user)
		if err != nil {
			return err
		}
		err = s.users.UpdateProfile(ctx, user)
		if !errors.Is(err, repository.ErrVerificationCollision) || attempt == maxCredentialAttempts {
			break
		}
		s.logger.WithField("attempt", attempt).Warn("verification code collision, regenerating")
	}
	if err != nil && imageKey != "" {
		s.discardImage(ctx, imageKey)
	}
	if errors.Is(err, repository.ErrPhoneTaken) {
		return ErrPhoneAlreadyUsed
	}
	if err != nil {
		return err
	}

	s.logger.WithField("email", email).Info("verification issued")
	return s.dispatchVerification(ctx, user, token, code)
}

// RedeemVerification activates the account owning the code (or emailed token).
// Both credentials are single-use.
func (s *AccountService) RedeemVerification(ctx context.Context, input RedeemInput) (*RedeemResult, error) {
	code := strings.TrimSpace(input.Code)
	token := strings.TrimSpace(input.Token)
	if code == "" && token == "" {
		return nil, missingFields("code")
	}

	var (
		user *entity.User
		err  error
	)
	if code != "" {
		user, err = s.users.FindByVerificationCode(ctx, utils.HashToken(code), utils.NormalizeEmail(input.Email))
	} else {
		user, err = s.users.FindByVerificationToken(ctx, utils.HashToken(token))
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCode
	}

	now := s.now()
	if user.VerificationExpiresAt != nil && !now.Before(*user.VerificationExpiresAt) {
		return nil, ErrVerificationExpired
	}
	if _, err := user.Status.Transition(entity.UserStatusActive); err != nil {
		return nil, err
	}

	activated, err := s.users.Activate(ctx, user, now)
	if err != nil {
		return nil, err
	}
	if !activated {
		return nil, ErrInvalidCode
	}

	s.logger.WithField("email", user.Email).Info("account activated")
	if s.events != nil {
		err := s.events.Publish(ctx, EventAccountActivated, map[string]any{
			"user_id": user.ID,
			"email":   user.Email,
		})
		if err != nil {
			s.logger.WithError(err).Warn("could not publish event")
		}
	}
	return &RedeemResult{Activated: true, Email: user.Email}, nil
}

func (s *AccountService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		return nil, ErrInvalidCredentials
	}
	if !s.passwordHash.Verify(*user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}
	if user.Status != entity.UserStatusActive {
		return nil, ErrAccountNotActive
	}

	accessToken, expiresIn, err := s.accessTokens.IssueAccessToken(*user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: accessToken,
		ExpiresIn:   int64(expiresIn.Seconds()),
	}, nil
}

func (s *AccountService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AccountService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.users.List(ctx, limit, offset)
}

func (s *AccountService) issueVerification(user *entity.User) (string, string, error) {
	token, err := utils.GenerateRandomToken(32)
	if err != nil {
		return "", "", err
	}
	code, err := utils.GenerateNumericCode(s.codeDigits())
	if err != nil {
		return "", "", err
	}
	tokenHash := utils.HashToken(token)
	codeHash := utils.HashToken(code)
	expiresAt := s.now().Add(s.verificationTTL())
	user.VerificationTokenHash = &tokenHash
	user.VerificationCodeHash = &codeHash
	user.VerificationExpiresAt = &expiresAt
	return token, code, nil
}

func (s *AccountService) dispatchVerification(ctx context.Context, user *entity.User, token, code string) error {
	link := s.verifyLink(token)

	if s.messenger != nil && user.Whatsapp != nil {
		if err := s.messenger.SendWhatsApp(ctx, *user.Whatsapp, verificationWhatsApp(user.Name, code, link)); err != nil {
			s.logger.WithError(err).WithField("email", user.Email).Warn("whatsapp verification not delivered")
		}
	}

	if s.emailSender == nil {
		return nil
	}
	if err := s.emailSender.Send(ctx, verificationEmail(user.Email, user.Name, code, link)); err != nil {
		s.logger.WithError(err).WithField("email", user.Email).Error("verification email not delivered")
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	return nil
}

func (s *AccountService) uploadImage(ctx context.Context, userID uuid.UUID, image *ImageUpload) (string, string, error) {
	if s.images == nil {
		s.logger.WithField("user_id", userID).Warn("image upload not configured, skipping")
		return "", "", nil
	}
	key := fmt.Sprintf("profiles/%s/%s%s", userID, uuid.NewString(), strings.ToLower(path.Ext(image.Filename)))
	reference, err := s.images.Upload(ctx, key, image.ContentType, image.Body)
	if err != nil {
		return "", "", fmt.Errorf("upload profile image: %w", err)
	}
	return reference, key, nil
}

// discardImage removes an upload whose profile was never saved.
func (s *AccountService) discardImage(ctx context.Context, key string) {
	if err := s.images.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("could not remove orphaned profile image")
	}
}

func (s *AccountService) verifyLink(token string) string {
	base := strings.TrimSpace(s.config.VerifyURL)
	if base == "" {
		return ""
	}
	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}
	return base + separator + "token=" + token
}

func (s *AccountService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AccountService) verificationTTL() time.Duration {
	if s.config.VerificationTTL > 0 {
		return s.config.VerificationTTL
	}
	return 24 * time.Hour
}

func (s *AccountService) codeDigits() int {
	if s.config.CodeDigits > 0 {
		return s.config.CodeDigits
	}
	return 6
}
