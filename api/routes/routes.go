package routes

import (
	"time"

	"weddingplanner/api/handler"
	"weddingplanner/api/middleware"
	"weddingplanner/internal/entity"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Payments       *handler.PaymentHandler
	Accounts       *handler.AccountHandler
	Auth           *handler.AuthHandler
	Plans          *handler.PlanHandler
	Reminders      *handler.ReminderHandler
	AuthMiddleware middleware.AuthMiddleware
	CronSecret     string
	PublicRate     *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	payments *handler.PaymentHandler,
	accounts *handler.AccountHandler,
	auth *handler.AuthHandler,
	plans *handler.PlanHandler,
	reminders *handler.ReminderHandler,
	authMiddleware middleware.AuthMiddleware,
	cronSecret string,
) *Router {
	return &Router{
		Echo:           e,
		Payments:       payments,
		Accounts:       accounts,
		Auth:           auth,
		Plans:          plans,
		Reminders:      reminders,
		AuthMiddleware: authMiddleware,
		CronSecret:     cronSecret,
		PublicRate:     middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.GET("/plans", r.Plans.List)

	e.POST("/payments/initialize", r.Payments.Initialize, r.PublicRate.Middleware())
	e.POST("/payments/verify", r.Payments.Verify, r.PublicRate.Middleware())

	e.POST("/accounts/register", r.Accounts.Register, r.PublicRate.Middleware())
	e.POST("/accounts/verify", r.Accounts.Verify, r.PublicRate.Middleware())

	e.POST("/auth/login", r.Auth.Login, r.LoginRate.Middleware())
	e.GET("/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)

	admin := e.Group("/admin", r.AuthMiddleware.RequireAuth, middleware.RequireRole(string(entity.UserRoleAdmin)))
	admin.GET("/users", r.Auth.AdminListUsers)
	admin.POST("/plans", r.Plans.Create)
	admin.PUT("/plans/:id", r.Plans.Update)

	e.POST("/cron/reminders", r.Reminders.Run, middleware.RequireCronSecret(r.CronSecret))
}
