package router

import (
	acctsvc "carbon-ledger/internal/application/accounts"
	authsvc "carbon-ledger/internal/application/auth"
	evsvc "carbon-ledger/internal/application/events"
	listsvc "carbon-ledger/internal/application/listings"
	mktsvc "carbon-ledger/internal/application/marketplace"
	regsvc "carbon-ledger/internal/application/registry"
	retsvc "carbon-ledger/internal/application/retirements"
	"carbon-ledger/internal/config"
	"carbon-ledger/internal/infrastructure/database"
	accthandler "carbon-ledger/internal/interfaces/handlers/accounts"
	authhandler "carbon-ledger/internal/interfaces/handlers/auth"
	certhandler "carbon-ledger/internal/interfaces/handlers/certificates"
	evhandler "carbon-ledger/internal/interfaces/handlers/events"
	healthhandler "carbon-ledger/internal/interfaces/handlers/health"
	listhandler "carbon-ledger/internal/interfaces/handlers/listings"
	mkthandler "carbon-ledger/internal/interfaces/handlers/marketplace"
	rethandler "carbon-ledger/internal/interfaces/handlers/retirements"
	"carbon-ledger/internal/middleware"
	"carbon-ledger/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app, opening the database and Redis from config.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:       cfg.SessionSecret,
		RedisURL:     cfg.RedisURL,
		IsProduction: cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	app := buildApp(cfg, db, rdb, sessionHandler)
	return app, db, rdb, nil
}

// CreateAppWithDeps builds the app on an existing DB and Redis client.
// Tests use this with an in-memory sqlite DB and miniredis.
func CreateAppWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *fiber.App {
	return buildApp(cfg, db, rdb, middleware.SessionWithClient(rdb))
}

func buildApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client, sessionHandler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// Health (no auth)
	healthHandlers := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             &gormDBPinger{db: db},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", healthHandlers.Status)
	app.Get("/reset", healthHandlers.Reset)
	app.Get("/health/json", healthHandlers.JSON)

	sessionCfg := middleware.SessionConfig{
		Secret:       cfg.SessionSecret,
		RedisURL:     cfg.RedisURL,
		IsProduction: cfg.Env == "production",
	}

	// Auth (no auth middleware)
	authHandlers := &authhandler.Handlers{
		Service: &authsvc.Service{DB: db},
		Rdb:     rdb,
		Config:  sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	if db == nil {
		return app
	}

	// Core services share one DB; the registry is the ownership source of
	// truth the others call into.
	registryService := &regsvc.Service{DB: db}
	listingsService := &listsvc.Service{DB: db, Registry: registryService}
	accountsService := &acctsvc.Service{DB: db}
	marketplaceService := &mktsvc.Service{
		DB:       db,
		Registry: registryService,
		Listings: listingsService,
		Accounts: accountsService,
	}
	retirementService := &retsvc.Service{
		DB:       db,
		Registry: registryService,
		Listings: listingsService,
	}
	eventsService := &evsvc.Service{DB: db}

	// Certificates
	certHandlers := &certhandler.Handlers{Service: registryService}
	certGroup := app.Group("/api/v1/certificates", middleware.RequireAuth())
	certGroup.Post("/mint", middleware.AuthorizePermission(constants.MintCertificate), certHandlers.Mint)
	certGroup.Post("/transfer", middleware.AuthorizePermission(constants.TransferCertificate), certHandlers.Transfer)
	certGroup.Get("/get-owner/:token_id", certHandlers.GetOwner)
	certGroup.Get("/get-metadata/:token_id", certHandlers.GetMetadata)
	certGroup.Put("/update-metadata/:token_id", middleware.AuthorizePermission(constants.UpdateMetadata), certHandlers.UpdateMetadata)

	// Listings
	listHandlers := &listhandler.Handlers{Service: listingsService}
	listGroup := app.Group("/api/v1/listings", middleware.RequireAuth())
	listGroup.Post("/list-for-sale", middleware.AuthorizePermission(constants.CreateListing), listHandlers.ListForSale)
	listGroup.Get("/get-listing/:token_id", listHandlers.GetListing)
	listGroup.Post("/cancel-listing", middleware.AuthorizePermission(constants.CancelListing), listHandlers.CancelListing)
	listGroup.Put("/update-listing", middleware.AuthorizePermission(constants.EditListing), listHandlers.UpdateListing)
	listGroup.Post("/delist-token", middleware.AuthorizePermission(constants.DelistToken), listHandlers.DelistToken)

	// Marketplace
	mktHandlers := &mkthandler.Handlers{Service: marketplaceService}
	mktGroup := app.Group("/api/v1/marketplace", middleware.RequireAuth())
	mktGroup.Post("/buy", middleware.AuthorizePermission(constants.BuyCertificate), mktHandlers.Buy)
	mktGroup.Post("/make-offer", middleware.AuthorizePermission(constants.MakeOffer), mktHandlers.MakeOffer)
	mktGroup.Get("/stats", mktHandlers.Stats)
	mktGroup.Get("/get-offers/:token_id", mktHandlers.GetOffers)

	// Retirements
	retHandlers := &rethandler.Handlers{Service: retirementService}
	retGroup := app.Group("/api/v1/retirements", middleware.RequireAuth())
	retGroup.Post("/retire", middleware.AuthorizePermission(constants.RetireCertificate), retHandlers.Retire)

	// Accounts
	acctHandlers := &accthandler.Handlers{Service: accountsService}
	acctGroup := app.Group("/api/v1/accounts", middleware.RequireAuth())
	acctGroup.Post("/deposit", acctHandlers.Deposit)
	acctGroup.Get("/balance", acctHandlers.Balance)

	// Events
	evHandlers := &evhandler.Handlers{Service: eventsService}
	evGroup := app.Group("/api/v1/events", middleware.RequireAuth())
	evGroup.Get("/get-token-events/:token_id", evHandlers.GetTokenEvents)

	return app
}
