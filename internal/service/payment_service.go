package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"weddingplanner/internal/entity"
	"weddingplanner/internal/paystack"
	"weddingplanner/internal/repository"
	"weddingplanner/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const EventPaymentCaptured = "payment.captured"

type PaymentService struct {
	plans         repository.PlanRepository
	subscriptions repository.SubscriptionRepository
	paymentLogs   repository.PaymentLogRepository
	transactor    repository.Transactor

	gateway PaymentGateway
	events  EventPublisher
	clock   Clock
	logger  logrus.FieldLogger
	config  PaymentConfig
}

func NewPaymentService(
	plans repository.PlanRepository,
	subscriptions repository.SubscriptionRepository,
	paymentLogs repository.PaymentLogRepository,
	transactor repository.Transactor,
	gateway PaymentGateway,
	events EventPublisher,
	clock Clock,
	logger logrus.FieldLogger,
	config PaymentConfig,
) *PaymentService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PaymentService{
		plans:         plans,
		subscriptions: subscriptions,
		paymentLogs:   paymentLogs,
		transactor:    transactor,
		gateway:       gateway,
		events:        events,
		clock:         clock,
		logger:        logger,
		config:        config,
	}
}

func (s *PaymentService) InitiatePayment(ctx context.Context, input InitiatePaymentInput) (*InitiatePaymentResult, error) {
	email := utils.NormalizeEmail(input.Email)
	phone := utils.NormalizePhone(input.Phone)
	planID := strings.TrimSpace(input.PlanID)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if phone == "" {
		missing = append(missing, "phone")
	}
	if planID == "" {
		missing = append(missing, "planId")
	}
	if strings.TrimSpace(input.Amount) == "" {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	amount, err := utils.ToMinorUnits(input.Amount)
	if err != nil {
		return nil, ErrInvalidAmount
	}

	callbackURL, err := s.callbackURL(planID, phone, email)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       email,
		Amount:      amount,
		CallbackURL: callbackURL,
		Metadata: map[string]string{
			"planId": planID,
			"phone":  phone,
		},
	})
	if err != nil {
		entry := s.logger.WithError(err).WithField("email", email)
		var apiErr *paystack.APIError
		if errors.As(err, &apiErr) {
			entry.WithField("provider_status", apiErr.StatusCode).WithField("provider_body", string(apiErr.Body)).Error("payment initialization rejected")
			return nil, &ProviderError{Message: apiErr.Message}
		}
		entry.Error("payment initialization failed")
		return nil, &ProviderError{}
	}

	s.logPayment(ctx, result.Reference, email, entity.PaymentInitialized, nil)
	return &InitiatePaymentResult{
		AuthorizationURL: result.AuthorizationURL,
		Reference:        result.Reference,
	}, nil
}

// VerifyPayment is safe to retry: a reference that was already captured
// returns the existing subscription without contacting the provider.
func (s *PaymentService) VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*VerifyPaymentResult, error) {
	reference := strings.TrimSpace(input.Reference)
	planIDValue := strings.TrimSpace(input.PlanID)
	if reference == "" || planIDValue == "" {
		var missing []string
		if reference == "" {
			missing = append(missing, "reference")
		}
		if planIDValue == "" {
			missing = append(missing, "planId")
		}
		return nil, missingFields(missing...)
	}

	existing, err := s.subscriptions.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.WithField("reference", reference).Info("payment already captured")
		return replayResult(existing), nil
	}

	transaction, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, s.verificationError(reference, err)
	}
	if !transaction.Successful() {
		s.logPayment(ctx, reference, transaction.Customer.Email, entity.PaymentRejected, transaction.Raw)
		s.logger.WithFields(logrus.Fields{"reference": reference, "provider_status": transaction.Status}).Warn("payment not successful")
		return nil, ErrPaymentNotSuccessful
	}
	email := utils.NormalizeEmail(transaction.Customer.Email)
	if email == "" {
		s.logger.WithField("reference", reference).WithField("provider_body", string(transaction.Raw)).Error("provider response without customer email")
		return nil, ErrUpstream
	}
	s.logPayment(ctx, reference, email, entity.PaymentVerified, transaction.Raw)
	s.warnOnClientMismatch(reference, input, email, transaction.Amount)

	planID, err := uuid.Parse(planIDValue)
	if err != nil {
		return nil, ErrInvalidPlan
	}
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrInvalidPlan
	}
	if bound := strings.TrimSpace(transaction.Metadata.PlanID); bound != "" && !samePlan(bound, plan.ID) {
		s.logger.WithFields(logrus.Fields{"reference": reference, "plan_id": plan.ID, "paid_plan_id": bound}).Warn("plan differs from the one paid for")
		return nil, ErrInvalidPlan
	}
	if transaction.Amount < plan.Price {
		s.logger.WithFields(logrus.Fields{"reference": reference, "paid": transaction.Amount, "price": plan.Price}).Warn("paid amount below plan price")
		return nil, ErrPaymentNotSuccessful
	}

	token, err := utils.GenerateRandomToken(s.tokenBytes())
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(plan.Duration())
	subscription := &entity.Subscription{
		Email:             email,
		Whatsapp:          utils.NormalizePhone(input.Phone),
		PlanID:            plan.ID,
		Token:             token,
		ExpiresAt:         expiresAt,
		Amount:            transaction.Amount,
		PaystackReference: reference,
	}

	err = s.transactor.WithinTransaction(ctx, func(tx repository.Tx) error {
		user, err := s.upsertPaidUser(ctx, tx.Users, email, plan, now, expiresAt)
		if err != nil {
			return err
		}
		subscription.UserID = user.ID
		return tx.Subscriptions.Create(ctx, subscription)
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		// A concurrent verification of the same reference won the insert.
		existing, findErr := s.subscriptions.FindByReference(ctx, reference)
		if findErr != nil {
			return nil, findErr
		}
		if existing != nil {
			return replayResult(existing), nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("capture payment %s: %w", reference, err)
	}

	s.publish(ctx, EventPaymentCaptured, map[string]any{
		"subscription_id": subscription.ID,
		"user_id":         subscription.UserID,
		"email":           email,
		"plan":            plan.Name,
		"amount":          transaction.Amount,
		"reference":       reference,
	})
	s.logger.WithFields(logrus.Fields{"reference": reference, "email": email, "plan": plan.Name}).Info("payment captured")

	return &VerifyPaymentResult{
		SubscriptionID: subscription.ID,
		Token:          subscription.Token,
		PlanName:       plan.Name,
		Email:          email,
		ExpiresAt:      subscription.ExpiresAt,
	}, nil
}

// upsertPaidUser looks the payer up first and branches on presence so a repeat
// payment extends the plan window without moving the status backwards.
func (s *PaymentService) upsertPaidUser(
	ctx context.Context,
	users repository.UserRepository,
	email string,
	plan *entity.Plan,
	start time.Time,
	end time.Time,
) (*entity.User, error) {
	user, err := users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		status, err := entity.UserStatusPending.Transition(entity.UserStatusPaid)
		if err != nil {
			return nil, err
		}
		user = &entity.User{
			Email:             email,
			Role:              entity.UserRoleUser,
			Status:            status,
			PlanID:            &plan.ID,
			SubscriptionStart: &start,
			SubscriptionEnd:   &end,
		}
		if err := users.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	switch user.Status {
	case entity.UserStatusPaid, entity.UserStatusActive:
	default:
		status, err := user.Status.Transition(entity.UserStatusPaid)
		if err != nil {
			return nil, err
		}
		user.Status = status
	}
	user.PlanID = &plan.ID
	user.Plan = nil
	user.SubscriptionStart = &start
	user.SubscriptionEnd = &end
	if err := users.UpdatePlan(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func samePlan(value string, id uuid.UUID) bool {
	parsed, err := uuid.Parse(value)
	return err == nil && parsed == id
}

func (s *PaymentService) verificationError(reference string, err error) error {
	entry := s.logger.WithError(err).WithField("reference", reference)
	if errors.Is(err, paystack.ErrTransactionNotFound) {
		entry.Warn("payment reference not found")
		return ErrPaymentNotFound
	}
	var apiErr *paystack.APIError
	if errors.As(err, &apiErr) {
		entry = entry.WithField("provider_status", apiErr.StatusCode).WithField("provider_body", string(apiErr.Body))
	}
	entry.Error("payment verification failed")
	return ErrUpstream
}

func (s *PaymentService) warnOnClientMismatch(reference string, input VerifyPaymentInput, email string, amount int64) {
	fields := logrus.Fields{"reference": reference}
	if claimed := utils.NormalizeEmail(input.Email); claimed != "" && claimed != email {
		fields["client_email"] = claimed
	}
	if strings.TrimSpace(input.Amount) != "" {
		if claimed, err := utils.ToMinorUnits(input.Amount); err != nil || claimed != amount {
			fields["client_amount"] = input.Amount
		}
	}
	if len(fields) > 1 {
		s.logger.WithFields(fields).Warn("client payment details differ from provider")
	}
}

func (s *PaymentService) callbackURL(planID, phone, email string) (string, error) {
	base := strings.TrimSpace(s.config.CallbackURL)
	if base == "" {
		return "", nil
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid callback url: %w", err)
	}
	query := parsed.Query()
	query.Set("planId", planID)
	query.Set("phone", phone)
	query.Set("email", email)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (s *PaymentService) logPayment(ctx context.Context, reference, email string, action entity.PaymentAction, raw []byte) {
	if s.paymentLogs == nil {
		return
	}
	log := &entity.PaymentLog{
		Reference: reference,
		Email:     utils.NormalizeEmail(email),
		Action:    action,
	}
	if len(raw) > 0 && json.Valid(raw) {
		log.Response = datatypes.JSON(raw)
	}
	if err := s.paymentLogs.Log(ctx, log); err != nil {
		s.logger.WithError(err).WithField("reference", reference).Warn("could not record payment log")
	}
}

func (s *PaymentService) publish(ctx context.Context, subject string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, subject, data); err != nil {
		s.logger.WithError(err).WithField("subject", subject).Warn("could not publish event")
	}
}

func (s *PaymentService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *PaymentService) tokenBytes() int {
	if s.config.TokenBytes > 0 {
		return s.config.TokenBytes
	}
	return 32
}

func replayResult(subscription *entity.Subscription) *VerifyPaymentResult {
	return &VerifyPaymentResult{
		SubscriptionID: subscription.ID,
		Token:          subscription.Token,
		PlanName:       subscription.Plan.Name,
		Email:          subscription.Email,
		ExpiresAt:      subscription.ExpiresAt,
		Replayed:       true,
	}
}
