package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weddingplanner/api/handler"
	apiMiddleware "weddingplanner/api/middleware"
	"weddingplanner/api/routes"
	"weddingplanner/config"
	"weddingplanner/internal/bootstrap"
	"weddingplanner/internal/paystack"
	"weddingplanner/internal/repository"
	"weddingplanner/internal/service"
	"weddingplanner/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := bootstrap.NewLogger(os.Stdout)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	db, err := config.ConnectionDb(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("database unavailable")
	}
	defer func() {
		if err := config.CloseDb(db); err != nil {
			logger.WithError(err).Warn("close database")
		}
	}()
	logger.Info("success connect to db")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validate := validator.New()

	accessManager := utils.JWTManager{
		Secret:         []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: time.Hour,
	}

	emailSender := bootstrap.EmailSender(cfg, logger)
	ledger, closeLedger := bootstrap.ReminderLedger(ctx, cfg, logger)
	defer closeLedger()
	events, closeEvents := bootstrap.Events(cfg, logger)
	defer closeEvents()

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	paymentLogRepo := repository.NewPaymentLogRepository(db)
	transactor := repository.NewTransactor(db)

	paymentService := service.NewPaymentService(
		planRepo,
		subscriptionRepo,
		paymentLogRepo,
		transactor,
		paystack.NewClient(cfg.PaystackSecretKey, cfg.PaystackBaseURL, cfg.PaystackTimeout),
		events,
		service.RealClock{},
		logger,
		service.PaymentConfig{CallbackURL: cfg.AppBaseURL + "/payment/callback"},
	)
	accountService := service.NewAccountService(
		userRepo,
		emailSender,
		bootstrap.Messenger(cfg),
		bootstrap.ImageStore(ctx, cfg, logger),
		events,
		service.BcryptPasswordHasher{},
		service.JWTAccessIssuer{Manager: &accessManager},
		service.RealClock{},
		logger,
		service.AccountConfig{
			VerificationTTL: cfg.VerificationTTL,
			VerifyURL:       cfg.AppBaseURL + "/verify",
		},
	)
	planService := service.NewPlanService(planRepo)
	reminderService := bootstrap.ReminderService(db, cfg, emailSender, ledger, events, logger)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.BodyLimit("8M"))
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status":  v.Status,
				"method":  v.Method,
				"uri":     v.URI,
				"ip":      v.RemoteIP,
				"latency": v.Latency.String(),
			})
			if err := handler.ServiceErrorFromContext(c); err != nil && v.Status >= http.StatusInternalServerError {
				entry = entry.WithError(err)
			}
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &accessManager}
	router := routes.NewRouter(
		app,
		handler.NewPaymentHandler(paymentService, validate),
		handler.NewAccountHandler(accountService, validate),
		handler.NewAuthHandler(accountService, validate),
		handler.NewPlanHandler(planService, validate),
		handler.NewReminderHandler(reminderService),
		authMiddleware,
		cfg.CronSecret,
	)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("server started")
		if err := app.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("graceful shutdown failed")
	}
	logger.Info("server stopped")
}
