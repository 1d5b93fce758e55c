package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/diewo77/nexusmanager/httpx"
	"github.com/diewo77/nexusmanager/internal/handlers"
	"github.com/diewo77/nexusmanager/internal/logging"
	"github.com/diewo77/nexusmanager/internal/metrics"
	"github.com/diewo77/nexusmanager/internal/services"
	"github.com/diewo77/nexusmanager/internal/store"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	handler   http.Handler
	store     *store.Store
	routerCfg *handlers.RouterConfig
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewApp creates a new application with all routes configured.
func NewApp(st *store.Store, m *metrics.Metrics, logger zerolog.Logger, opts ...services.Option) *App {
	app := &App{
		mux:       http.NewServeMux(),
		store:     st,
		routerCfg: handlers.NewRouterConfig(services.New(st, opts...)),
		metrics:   m,
		logger:    logger,
	}
	app.setupRoutes()
	app.handler = logging.Middleware(logger, withRecover(app.mux))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// handle registers h under pattern with per-route metrics.
func (a *App) handle(pattern string, h http.HandlerFunc) {
	a.mux.Handle(pattern, a.metrics.Instrument(pattern, h))
}

func (a *App) setupRoutes() {
	a.handle("GET /{$}", a.welcome)
	a.handle("GET /health", a.health)
	a.handle("GET /healthz", a.healthz)
	a.mux.Handle("GET /metrics", a.metrics.Handler())

	ch := a.routerCfg.ClientHandler
	a.handle("GET /clients", ch.List)
	a.handle("POST /clients", ch.Create)
	a.handle("GET /clients/{id}", ch.View)
	a.handle("POST /clients/{id}", ch.Update)
	a.handle("GET /clients/{id}/delete", ch.ConfirmDelete)
	a.handle("POST /clients/{id}/delete", ch.Delete)
	a.handle("GET /clients/{id}/balance", ch.Balance)

	kh := a.routerCfg.ContractHandler
	a.handle("GET /clients/{id}/contracts", kh.List)
	a.handle("POST /clients/{id}/contracts", kh.Create)
	a.handle("GET /contracts/{id}", kh.View)
	a.handle("POST /contracts/{id}", kh.Update)
	a.handle("POST /contracts/{id}/delete", kh.Delete)

	ih := a.routerCfg.InterventionHandler
	a.handle("GET /clients/{id}/interventions", ih.List)
	a.handle("POST /clients/{id}/interventions", ih.Create)
	a.handle("GET /interventions/{id}", ih.View)
	a.handle("POST /interventions/{id}", ih.Update)
	a.handle("POST /interventions/{id}/delete", ih.Delete)

	ph := a.routerCfg.HourPurchaseHandler
	a.handle("GET /clients/{id}/hour-purchases", ph.List)
	a.handle("POST /clients/{id}/hour-purchases", ph.Create)
	a.handle("GET /hour-purchases/{id}", ph.View)
	a.handle("POST /hour-purchases/{id}", ph.Update)
	a.handle("POST /hour-purchases/{id}/delete", ph.Delete)
}

// withRecover turns a panic into a 500 and logs it.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zerolog.Ctx(r.Context()).Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				httpx.JSONError(w, http.StatusInternalServerError, "internal", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (a *App) welcome(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, httpx.Result{
		Redirect: "/clients",
		Message:  "Welcome to NexusManager",
	})
}

// health is a liveness probe; it never touches the database.
func (a *App) health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// healthz also checks the database connection.
func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.store.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("database ping failed")
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}
