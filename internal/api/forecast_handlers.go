package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/aipulse/aipulse/internal/consensus"
	"github.com/aipulse/aipulse/internal/database"
)

// ForecastHandler handles forecast-related HTTP requests
type ForecastHandler struct {
	engine       *consensus.Engine
	forecastRepo *database.ForecastRepository
	source       consensus.DistributionSource
	logger       *slog.Logger
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(engine *consensus.Engine, forecastRepo *database.ForecastRepository, source consensus.DistributionSource, logger *slog.Logger) *ForecastHandler {
	return &ForecastHandler{
		engine:       engine,
		forecastRepo: forecastRepo,
		source:       source,
		logger:       logger,
	}
}

// GetForecast handles GET /api/forecast. It computes a forecast on demand
// for ?topic=...&timeframe=...; an optional ?categories=a,b,c restricts
// the category list.
func (h *ForecastHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	topic := r.URL.Query().Get("topic")
	if topic == "" {
		http.Error(w, "topic query parameter is required", http.StatusBadRequest)
		return
	}

	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = "30"
	}

	var categories []string
	if raw := r.URL.Query().Get("categories"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				categories = append(categories, trimmed)
			}
		}
	}

	result, err := h.engine.GenerateForecast(r.Context(), topic, timeframe, categories)
	if err != nil {
		if errors.Is(err, consensus.ErrNoCategories) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "no_categories",
				"message": "no categories are configured for this topic",
			}, h.logger)
			return
		}
		h.logger.Error("failed to generate forecast", "topic", topic, "error", err)
		http.Error(w, "Failed to generate forecast", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result, h.logger)
}

// GetLatestForecast handles GET /api/forecast/latest. It serves the most
// recent precomputed snapshot for (topic, timeframe) without recomputing.
func (h *ForecastHandler) GetLatestForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	topic := r.URL.Query().Get("topic")
	if topic == "" {
		http.Error(w, "topic query parameter is required", http.StatusBadRequest)
		return
	}

	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = "30"
	}

	snapshot, err := h.forecastRepo.LatestSnapshot(r.Context(), topic, timeframe)
	if err != nil {
		h.logger.Error("failed to load latest snapshot", "topic", topic, "error", err)
		http.Error(w, "Failed to load forecast", http.StatusInternalServerError)
		return
	}
	if snapshot == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "not_found",
			"message": "no snapshot exists for this topic and timeframe",
		}, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot, h.logger)
}

// GetCategories handles GET /api/categories?topic=...
func (h *ForecastHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	topic := r.URL.Query().Get("topic")
	if topic == "" {
		http.Error(w, "topic query parameter is required", http.StatusBadRequest)
		return
	}

	categories, err := h.source.AvailableCategories(r.Context(), topic)
	if err != nil {
		h.logger.Error("failed to list categories", "topic", topic, "error", err)
		http.Error(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"topic":      topic,
		"categories": categories,
	}, h.logger)
}

// RunForecastRequest represents an admin request to compute and persist
// a forecast snapshot.
type RunForecastRequest struct {
	Topic      string   `json:"topic"`
	Timeframe  string   `json:"timeframe"`
	Categories []string `json:"categories,omitempty"`
}

// RunForecast handles POST /api/admin/forecast/run
func (h *ForecastHandler) RunForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RunForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}
	if req.Timeframe == "" {
		req.Timeframe = "30"
	}

	result, err := h.engine.GenerateForecast(r.Context(), req.Topic, req.Timeframe, req.Categories)
	if err != nil {
		if errors.Is(err, consensus.ErrNoCategories) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "no_categories",
				"message": "no categories are configured for this topic",
			}, h.logger)
			return
		}
		h.logger.Error("failed to generate forecast", "topic", req.Topic, "error", err)
		http.Error(w, "Failed to generate forecast", http.StatusInternalServerError)
		return
	}

	id, err := h.forecastRepo.CreateSnapshot(r.Context(), *result)
	if err != nil {
		h.logger.Error("failed to store snapshot", "topic", req.Topic, "error", err)
		http.Error(w, "Failed to store snapshot", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":     id,
		"result": result,
	}, h.logger)
}
