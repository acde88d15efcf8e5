package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"weddingplanner/internal/entity"
	"weddingplanner/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestWriteServiceErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: [email]", service.ErrMissingFields), http.StatusBadRequest},
		{service.ErrInvalidAmount, http.StatusBadRequest},
		{service.ErrPaymentNotFound, http.StatusNotFound},
		{service.ErrInvalidPlan, http.StatusNotFound},
		{service.ErrInvalidCode, http.StatusNotFound},
		{service.ErrPaymentNotSuccessful, http.StatusPaymentRequired},
		{service.ErrNoActiveSubscription, http.StatusForbidden},
		{service.ErrAccountAlreadyActive, http.StatusForbidden},
		{service.ErrPhoneAlreadyUsed, http.StatusConflict},
		{service.ErrInvalidStatusTransition, http.StatusConflict},
		{service.ErrPlanNameTaken, http.StatusConflict},
		{service.ErrVerificationExpired, http.StatusGone},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrUpstream, http.StatusBadGateway},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := newContext(http.MethodPost, "/", "")
		if err := writeServiceError(c, tc.err); err != nil {
			t.Fatal(err)
		}
		if rec.Code != tc.status {
			t.Errorf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
	}
}

func TestWriteServiceErrorHidesInternals(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/", "")
	internal := errors.New("duplicate key value violates unique constraint")
	_ = writeServiceError(c, fmt.Errorf("capture payment ref-1: %w", internal))

	body := decodeBody(t, rec)
	if body["message"] != genericErrorMessage {
		t.Fatalf("message = %v", body["message"])
	}
	if !errors.Is(ServiceErrorFromContext(c), internal) {
		t.Fatal("service error should be kept for the request log")
	}

	c, rec = newContext(http.MethodPost, "/", "")
	_ = writeServiceError(c, fmt.Errorf("verify: %w", service.ErrUpstream))
	if body := decodeBody(t, rec); body["message"] != service.ErrUpstream.Error() {
		t.Fatalf("upstream message = %v", body["message"])
	}
}

func TestWriteServiceErrorSurfacesProviderMessage(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/", "")
	_ = writeServiceError(c, &service.ProviderError{Message: "Invalid Email Address Passed"})

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Invalid Email Address Passed" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestPaymentInitializeRejectsInvalidBody(t *testing.T) {
	h := NewPaymentHandler(nil, validator.New())

	c, rec := newContext(http.MethodPost, "/payments/initialize", `{"email":"a@example.com","unexpected":1}`)
	if err := h.Initialize(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field: status = %d", rec.Code)
	}

	c, rec = newContext(http.MethodPost, "/payments/initialize", `{"email":"not-an-email","phone":"1","planId":"p","amount":"10"}`)
	if err := h.Initialize(c); err != nil {
		t.Fatal(err)
	}
	body := decodeBody(t, rec)
	fields, ok := body["fields"].(map[string]any)
	if rec.Code != http.StatusBadRequest || !ok || fields["Email"] != "email" {
		t.Fatalf("validation response = %d %v", rec.Code, body)
	}
}

func TestPaymentVerifyRequiresReference(t *testing.T) {
	h := NewPaymentHandler(nil, validator.New())
	c, rec := newContext(http.MethodPost, "/payments/verify", `{"planId":"p"}`)
	if err := h.Verify(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAccountRegisterRejectsBadWeddingDate(t *testing.T) {
	h := NewAccountHandler(nil, validator.New())
	c, rec := newContext(http.MethodPost, "/accounts/register",
		`{"email":"a@example.com","name":"Ada","password":"longenough","wedding_date":"19/12/2026"}`)
	if err := h.Register(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAccountVerifyNeedsCodeOrToken(t *testing.T) {
	h := NewAccountHandler(nil, validator.New())
	c, rec := newContext(http.MethodPost, "/accounts/verify", `{"email":"a@example.com"}`)
	if err := h.Verify(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPlanUpdateRejectsInvalidID(t *testing.T) {
	h := NewPlanHandler(nil, validator.New())
	c, rec := newContext(http.MethodPut, "/admin/plans/nope", `{"name":"Gold","duration_days":30}`)
	c.SetParamNames("id")
	c.SetParamValues("nope")
	if err := h.Update(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

type stubPages struct {
	pages []entity.WeddingPage
	err   error
}

func (s stubPages) EachLiveBatch(_ context.Context, _ int, fn func(pages []entity.WeddingPage) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(s.pages)
}

type stubSender struct {
	fail string
}

func (s stubSender) Send(_ context.Context, message service.EmailMessage) error {
	if message.To == s.fail {
		return errors.New("mailbox unavailable")
	}
	return nil
}

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

func TestReminderRunReportsSweep(t *testing.T) {
	now := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	inThree := now.AddDate(0, 0, 3)
	pages := []entity.WeddingPage{
		{ID: uuid.New(), Slug: "ada", WeddingDate: &inThree, User: entity.User{Email: "ada@example.com"}},
		{ID: uuid.New(), Slug: "bola", WeddingDate: &inThree, User: entity.User{Email: "bola@example.com"}},
	}
	logger, _ := test.NewNullLogger()
	svc := service.NewReminderService(stubPages{pages: pages}, stubSender{fail: "bola@example.com"}, nil, nil, stubClock{now}, logger, service.ReminderConfig{})
	h := NewReminderHandler(svc)

	c, rec := newContext(http.MethodPost, "/cron/reminders", "")
	if err := h.Run(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	failures, _ := body["failures"].([]any)
	if body["user_reminders"] != float64(1) || len(failures) != 1 {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestReminderRunFailsWhenPagesCannotLoad(t *testing.T) {
	logger, _ := test.NewNullLogger()
	svc := service.NewReminderService(stubPages{err: errors.New("db down")}, stubSender{}, nil, nil, stubClock{time.Now()}, logger, service.ReminderConfig{})
	h := NewReminderHandler(svc)

	c, rec := newContext(http.MethodPost, "/cron/reminders", "")
	if err := h.Run(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
