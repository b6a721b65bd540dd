package app

import (
	"errors"
	"net/http"

	"brickblock-backend/internal/admin"
	"brickblock-backend/internal/auth"
	"brickblock-backend/internal/config"
	"brickblock-backend/internal/constants"
	"brickblock-backend/internal/health"
	"brickblock-backend/internal/holdings"
	"brickblock-backend/internal/infrastructure/database"
	"brickblock-backend/internal/listingevents"
	"brickblock-backend/internal/middleware"
	"brickblock-backend/internal/payments"
	"brickblock-backend/internal/properties"
	"brickblock-backend/internal/rent"
	"brickblock-backend/internal/rental"
	"brickblock-backend/internal/stablecoin"
	"brickblock-backend/internal/trading"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var ErrNoDatabase = errors.New("database url is not configured")

// CreateApp builds the Fiber app with all global middleware and route registration.
// It returns the database and Redis handles so the caller can check and close them.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, ErrNoDatabase
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}

	accounts := &auth.Service{DB: db, Reserved: []string{cfg.CustodyAddress}}
	if err := accounts.EnsureAdmin(cfg.AdminAddress, cfg.AdminPassword); err != nil {
		return nil, nil, nil, err
	}

	app := Build(cfg, db, rdb, sessionHandler, accounts)
	return app, db, rdb, nil
}

// Build registers middleware and routes on a new app. Split out of CreateApp so tests can
// pass an in-memory database and a miniredis client.
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client, sessionHandler fiber.Handler, accounts auth.AccountStore) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Rail webhook is signed and mounted before the session.
	webhook := &payments.WebhookHandler{DB: db, WebhookSecret: cfg.RailWebhookSecret}
	app.Post("/api/v1/stablecoin/webhook", webhook.HandleWebhook)

	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	ledger := rental.NewService(db, cfg.CustodyAddress, cfg.MetadataSchemes)
	idem := middleware.Idempotency(rdb, cfg.IdempotencyTTL)

	// --- Routes (no auth) ---
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		DB:             database.Pinger{DB: db},
		Ledger:         ledger,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/reset", healthHandlers.Reset)
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/errors", healthHandlers.Errors)

	authHandlers := &auth.Handlers{Accounts: accounts, Rdb: rdb, Config: middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	stableHandlers := &stablecoin.Handlers{Service: &stablecoin.Service{DB: db, Custody: cfg.CustodyAddress, Symbol: cfg.TokenSymbol}}
	app.Get("/api/v1/stablecoin/info", stableHandlers.Info)

	// --- Protected modules (auth required) ---
	stableGroup := app.Group("/api/v1/stablecoin", middleware.RequireAuth())
	stableGroup.Get("/balance", middleware.AuthorizePermission(constants.ViewData), stableHandlers.Balance)
	stableGroup.Post("/approve", middleware.AuthorizePermission(constants.ManageFunds), stableHandlers.Approve)
	stableGroup.Get("/transfers", middleware.AuthorizePermission(constants.ViewData), stableHandlers.Transfers)

	propHandlers := &properties.Handlers{Ledger: ledger}
	propGroup := app.Group("/api/v1/properties", middleware.RequireAuth())
	propGroup.Post("/add-property", middleware.AuthorizePermission(constants.ListProperty), propHandlers.AddProperty)
	propGroup.Get("/get-all-properties", propHandlers.GetAllProperties)
	propGroup.Get("/current-id", propHandlers.CurrentID)
	propGroup.Get("/:id", propHandlers.GetProperty)
	propGroup.Get("/:id/uri", propHandlers.URI)
	propGroup.Get("/:id/holders", propHandlers.Holders)

	tradingHandlers := &trading.Handlers{Ledger: ledger}
	tradingGroup := app.Group("/api/v1/trading", middleware.RequireAuth())
	tradingGroup.Post("/mint", middleware.AuthorizePermission(constants.BuyShares), idem, tradingHandlers.Mint)
	tradingGroup.Post("/mint-installment", middleware.AuthorizePermission(constants.BuyShares), idem, tradingHandlers.MintInstallment)
	tradingGroup.Post("/pay-installment", middleware.AuthorizePermission(constants.PayInstallment), idem, tradingHandlers.PayInstallment)
	tradingGroup.Get("/plans", tradingHandlers.Plans)
	tradingGroup.Get("/plans/:property_id", tradingHandlers.Plan)

	holdingsHandlers := &holdings.Handlers{Ledger: ledger}
	holdingsGroup := app.Group("/api/v1/holdings", middleware.RequireAuth())
	holdingsGroup.Get("/view-holdings", holdingsHandlers.ViewHoldings)
	holdingsGroup.Get("/:property_id", holdingsHandlers.Holding)

	rentHandlers := &rent.Handlers{Ledger: ledger}
	rentGroup := app.Group("/api/v1/rent", middleware.RequireAuth())
	rentGroup.Post("/submit-rent", middleware.AuthorizePermission(constants.SubmitRent), idem, rentHandlers.SubmitRent)
	rentGroup.Post("/distribute-rent", middleware.AuthorizePermission(constants.DistributeRent), idem, rentHandlers.DistributeRent)
	rentGroup.Get("/payouts", rentHandlers.Payouts)

	adminHandlers := &admin.Handlers{Ledger: ledger}
	adminGroup := app.Group("/api/v1/admin", middleware.RequireAuth())
	adminGroup.Post("/pause", middleware.RequireAdmin(), adminHandlers.Pause)
	adminGroup.Get("/state", adminHandlers.State)

	leHandlers := &listingevents.Handlers{Service: &listingevents.Service{DB: db}}
	leGroup := app.Group("/api/v1/listing-events", middleware.RequireAuth())
	leGroup.Get("/", leHandlers.Recent)
	leGroup.Get("/:property_id", leHandlers.PropertyEvents)

	return app
}

// Handler returns an http.Handler for Vercel (Fiber app as net/http handler).
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
