package routes

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/payout_demo/internal/config"
	"github.com/congo-pay/payout_demo/internal/middleware"
	"github.com/congo-pay/payout_demo/internal/notification"
	"github.com/congo-pay/payout_demo/internal/onboarding"
	"github.com/congo-pay/payout_demo/internal/payouts"
	"github.com/congo-pay/payout_demo/internal/store"
	"github.com/congo-pay/payout_demo/internal/treasury"
	"github.com/congo-pay/payout_demo/internal/webhooks"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg        config.Config
	DB         *pgxpool.Pool
	Cache      *redis.Client
	Logger     *slog.Logger
	Activity   store.Repository
	Treasury   *treasury.Client
	Dispatcher *onboarding.Dispatcher
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Treasury == nil {
		return errors.New("treasury client is required")
	}
	if d.Dispatcher == nil {
		return errors.New("onboarding dispatcher is required")
	}
	if d.Activity == nil {
		d.Activity = store.NewMemoryRepository()
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	payoutSvc := payouts.NewService(d.Treasury, payouts.LedgerAccounts{
		CreditAccountID: d.Cfg.Ledger.CreditAccountID,
		DebitAccountID:  d.Cfg.Ledger.DebitAccountID,
	}, d.Activity, d.Logger)
	payoutHandler := payouts.NewHandler(payoutSvc)
	onboardingHandler := onboarding.NewHandler(d.Dispatcher, d.Cfg.Onboarding.FlowAlias, d.Logger)
	receiver := webhooks.NewReceiver(notification.NewLoggerNotifier(d.Logger), d.Activity, d.Logger)
	webhookHandler := webhooks.NewHandler(receiver)

	// Pages and forms
	RegisterPageRoutes(app)
	var idempotency fiber.Handler
	if d.Cache != nil {
		idempotency = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}
	RegisterPayoutRoutes(app, payoutHandler, idempotency)
	RegisterOnboardingRoutes(app, onboardingHandler)
	RegisterWebhookRoutes(app, webhookHandler, middleware.WebhookSignature(d.Cfg.WebhookSecret))

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.GetRequestID(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	api.Get("/activity", store.NewHandler(d.Activity).Recent)

	return nil
}
