package app

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mvc-redirect/internal/common/logging"
	"mvc-redirect/internal/mapping"
	"mvc-redirect/internal/middleware"
	"mvc-redirect/internal/redirect"
	"mvc-redirect/internal/web"
)

// SetupRoutes configures all HTTP routes for the application. Route names
// double as the reverse URL mapping used by redirects, so every
// redirectable action is registered as "controller.action".
func SetupRoutes(app *App) {
	router := app.Router

	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)
	router.Use(web.Middleware(web.Options{
		ApplicationURI:           app.Config.ApplicationURI,
		DefaultCharacterEncoding: app.Config.DefaultCharacterEncoding,
		SessionCookieName:        app.Config.SessionCookieName,
	}))
	router.Use(redirect.Middleware)

	routes := router
	if app.Config.ApplicationURI != "" {
		routes = router.PathPrefix(app.Config.ApplicationURI).Subrouter()
	}

	// Health check
	routes.HandleFunc("/health", app.HealthCheck).Methods("GET")

	// Redirect audit
	routes.HandleFunc("/api/redirects/recent", app.RecentRedirects).Methods("GET")
	routes.HandleFunc("/api/redirects/stream", app.RedirectStream).Methods("GET")

	// Orders
	orders := app.Orders
	routes.HandleFunc("/", orders.Home).Methods("GET").Name(mapping.RouteName("home", ""))
	routes.HandleFunc("/orders", orders.Index).Methods("GET").Name(mapping.RouteName("orders", "index"))
	routes.HandleFunc("/orders", orders.Save).Methods("POST").Name(mapping.RouteName("orders", "save"))
	routes.HandleFunc("/orders/{id:[0-9]+}", orders.Show).Methods("GET").Name(mapping.RouteName("orders", "show"))
	routes.HandleFunc("/legacy/orders/{id}", orders.Legacy).Methods("GET").Name(mapping.RouteName("legacy", "orders"))

	// Conventional /{controller}/{action}/{id} routes, registered last
	conventions := map[string]http.HandlerFunc{
		mapping.RouteName("orders", ""):      orders.Index,
		mapping.RouteName("orders", "index"): orders.Index,
		mapping.RouteName("orders", "show"):  orders.Show,
	}
	mapping.RegisterDefaults(routes, conventionHandler(conventions))
}

// conventionHandler serves the default routes by looking the controller and
// action variables up in handlers
func conventionHandler(handlers map[string]http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		name := mapping.RouteName(vars[mapping.ControllerVar], vars[mapping.ActionVar])
		h, ok := handlers[name]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no action " + name})
			return
		}
		h(w, r)
	})
}

// HealthCheck reports the service and redis status
func (app *App) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "redis": "disabled"}
	code := http.StatusOK

	if app.RedisClient != nil {
		if err := app.RedisClient.Health(); err != nil {
			logging.WithContext(r.Context()).Warn("Redis health check failed", logging.Field{Key: "error", Value: err.Error()})
			status["status"] = "degraded"
			status["redis"] = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			status["redis"] = "ok"
		}
	}
	if app.Audit != nil {
		status["audit_breaker"] = app.Audit.BreakerStats().State
		if app.Audit.Suspended() {
			status["status"] = "degraded"
			status["audit"] = "suspended"
		}
	}

	writeJSON(w, code, status)
}

// RecentRedirects lists the audited redirects, newest first
func (app *App) RecentRedirects(w http.ResponseWriter, r *http.Request) {
	if app.RedisClient == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "redirect audit is disabled"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := app.RedisClient.RecentRedirects(r.Context(), limit)
	if err != nil {
		logging.WithContext(r.Context()).Error("Failed to read redirect audit", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read redirect audit"})
		return
	}
	count, err := app.RedisClient.RedirectCount(r.Context())
	if err != nil {
		logging.WithContext(r.Context()).Error("Failed to read redirect count", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read redirect count"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"total": count, "redirects": records})
}

// RedirectStream pushes every audited redirect to the client as a
// server-sent event until the client goes away
func (app *App) RedirectStream(w http.ResponseWriter, r *http.Request) {
	if app.RedisClient == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "redirect audit is disabled"})
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming is not supported"})
		return
	}

	ctx := r.Context()
	logger := logging.WithContext(ctx)

	sub := app.RedisClient.SubscribeRedirects(ctx)
	defer sub.Close()

	// Wait for the subscription so no event recorded after the headers
	// are sent can be missed
	if _, err := sub.Receive(ctx); err != nil {
		logger.Error("Failed to subscribe to redirect events", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "redirect events unavailable"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", msg.Payload); err != nil {
				logger.Debug("Redirect stream closed", logging.Field{Key: "error", Value: err.Error()})
				return
			}
			flusher.Flush()
		}
	}
}
