package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/keycard/internal/auth/http"
	"github.com/aussiebroadwan/keycard/internal/auth/metrics"
	"github.com/aussiebroadwan/keycard/internal/auth/service"
	"github.com/aussiebroadwan/keycard/internal/auth/store"
	"github.com/aussiebroadwan/keycard/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/keycard/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/keycard/pkg/cryptox"
	"github.com/aussiebroadwan/keycard/pkg/jwtx"
	"github.com/aussiebroadwan/keycard/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the credential service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	key      *jwtx.SigningKey
	verifier *jwtx.HS256Verifier
	metrics  *metrics.Metrics

	// Services
	tokenService        *service.TokenService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// Configuration problems are returned wrapped in ErrConfiguration.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "keycard-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	// Load the key before touching the database so a bad secret fails fast
	key, err := LoadSigningKey(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.key = key

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed HTTP handler, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("credential service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down credential service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("credential service stopped")
	return nil
}

// Close releases the store without running the server. Used when New
// succeeded but Run is never called.
func (app *Application) Close() error {
	return app.db.Close()
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.StoreDriver {
	case DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL, postgres.Options{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		})
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %w", app.cfg.StoreDriver, err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "store", app.cfg.StoreDriver)
	return nil
}

// initServices initializes the credential services
func (app *Application) initServices() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	app.verifier = jwtx.NewVerifierHS256(app.key, jwtx.VerifyOptions{
		Issuer:   app.cfg.Issuer,
		Audience: app.cfg.Audience,
	})

	app.userService = &service.UserService{
		Store:  app.db,
		Hasher: cryptox.NewPasswordHasher(pepper, cryptox.DefaultArgon2Params),
		Roles:  &service.RolesService{Store: app.db},
	}

	app.tokenService = &service.TokenService{
		Credentials: app.userService,
		Store:       app.db,
		Issuer: jwtx.NewIssuer(app.key, jwtx.IssuerConfig{
			Issuer:   app.cfg.Issuer,
			Audience: []string{app.cfg.Audience},
			TTL:      app.cfg.accessTTL(),
		}),
		Extractor:    app.verifier,
		Metrics:      app.metrics,
		RefreshTTL:   app.cfg.RefreshTTL,
		StoreTimeout: app.cfg.StoreTimeout,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.metrics,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		httpapi.RateLimits{
			Credential:    app.cfg.CredentialLimit,
			Authenticated: app.cfg.AuthenticatedLimit,
			Account:       app.cfg.AccountLimit,
			Public:        app.cfg.PublicLimit,
		},
		app.logger,
	)

	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.Metrics = app.metrics
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
