package app

import (
	"context"

	"github.com/gorilla/mux"

	"mvc-redirect/internal/common/logging"
	"mvc-redirect/internal/config"
	"mvc-redirect/internal/mapping"
	"mvc-redirect/internal/redirect"
	"mvc-redirect/internal/redis"
)

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	RedisClient *redis.Client
	Audit       *redis.AuditListener
	Router      *mux.Router
	Mapping     *mapping.MuxHolder
	Redirector  *redirect.Redirector
	Orders      *OrdersController
	Logger      logging.Logger
	shutdownCh  chan struct{}
}

// New creates a new application instance with all dependencies
func New(cfg *config.Config) (*App, error) {
	app := &App{
		Config:     cfg,
		Logger:     logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
		shutdownCh: make(chan struct{}),
	}

	if err := app.initializeRedis(); err != nil {
		// Redis only backs the audit trail
		app.Logger.Warn("Redis initialization failed, continuing without redirect audit",
			logging.Field{Key: "error", Value: err.Error()})
	}

	app.initializeRedirect()
	app.Orders = NewOrdersController(app.Redirector, app.Logger)
	SetupRoutes(app)

	return app, nil
}

// initializeRedirect builds the router and the redirect machinery that
// resolves URLs against it. Routes are added later by SetupRoutes; the
// mapping holder reads the router lazily.
func (app *App) initializeRedirect() {
	app.Router = mux.NewRouter()
	app.Mapping = mapping.NewMuxHolder(app.Router, app.Config.CacheTTL(),
		logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "mapping"}))

	listeners := []redirect.Listener{redirect.NewLogListener(app.Logger)}
	if app.RedisClient != nil {
		app.Audit = redis.NewAuditListener(app.RedisClient, app.Logger)
		listeners = append(listeners, app.Audit)
	}

	app.Redirector = redirect.New(app.Mapping, redirect.Options{
		UseSessionID: app.Config.EnableSessionIDEncoding,
		Listeners:    listeners,
	}, logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "redirect"}))

	app.Logger.Info("Redirects: Configured",
		logging.Field{Key: "base_uri", Value: app.Config.ApplicationURI},
		logging.Field{Key: "session_id_encoding", Value: app.Config.EnableSessionIDEncoding},
		logging.Field{Key: "listeners", Value: len(listeners)},
	)
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown(ctx context.Context) error {
	select {
	case <-app.shutdownCh:
	default:
		close(app.shutdownCh)
	}
	app.Mapping.Invalidate()
	return nil
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
