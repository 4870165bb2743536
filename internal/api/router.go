package api

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/aipulse/aipulse/internal/auth"
	"github.com/aipulse/aipulse/internal/consensus"
	"github.com/aipulse/aipulse/internal/database"
)

const (
	// Per-client budget for the public read endpoints. Forecast reads are
	// cheap (snapshot lookups) but on-demand generation hits the database
	// once per category.
	publicRequestsPerSecond = 10
	publicBurst             = 20
)

// SetupRoutes configures all API routes
func SetupRoutes(mux *http.ServeMux, engine *consensus.Engine, source consensus.DistributionSource, forecastRepo *database.ForecastRepository, authConfig auth.Config, logger *slog.Logger) {
	forecastHandler := NewForecastHandler(engine, forecastRepo, source, logger)
	authHandler := NewAuthHandler(authConfig, logger)

	limiter := NewRateLimiter(publicRequestsPerSecond, publicBurst)
	authMiddleware := auth.Middleware(authConfig)

	limited := func(h http.HandlerFunc) http.Handler {
		return limiter.Middleware(h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	// Authentication routes
	mux.Handle("/api/auth/login", limited(authHandler.Login))
	mux.Handle("/api/auth/validate", protected(authHandler.ValidateToken))

	// Public forecast routes
	mux.Handle("/api/forecast", limited(forecastHandler.GetForecast))
	mux.Handle("/api/forecast/latest", limited(forecastHandler.GetLatestForecast))
	mux.Handle("/api/categories", limited(forecastHandler.GetCategories))

	// Admin routes
	mux.Handle("/api/admin/forecast/run", protected(forecastHandler.RunForecast))
}

// writeJSON writes a JSON response with the given status code. Encoding
// failures are logged, not surfaced; headers are already committed.
func writeJSON(w http.ResponseWriter, status int, payload interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
