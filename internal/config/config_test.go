package config

import (
	"testing"
	"time"

	"log/slog"
)

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != defaultPort {
		t.Errorf("expected default port %q, got %q", defaultPort, cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected default read timeout %v, got %v", defaultReadTimeout, cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != defaultWriteTimeout {
		t.Errorf("expected default write timeout %v, got %v", defaultWriteTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Server.ShutdownTimeout != defaultShutdownTimeout {
		t.Errorf("expected default shutdown timeout %v, got %v", defaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	}
	if cfg.Logging.Level != slog.LevelInfo {
		t.Errorf("expected default log level %v, got %v", slog.LevelInfo, cfg.Logging.Level)
	}
	if cfg.Logging.Format != defaultLogFormat {
		t.Errorf("expected default log format %q, got %q", defaultLogFormat, cfg.Logging.Format)
	}

	if cfg.Forecast.MaxCategories != defaultMaxCategories {
		t.Errorf("expected default max categories %d, got %d", defaultMaxCategories, cfg.Forecast.MaxCategories)
	}
	if cfg.Forecast.MaxIndex != defaultMaxIndex {
		t.Errorf("expected default max index %d, got %d", defaultMaxIndex, cfg.Forecast.MaxIndex)
	}
	if cfg.Forecast.NarrowSpreadThreshold != defaultNarrowSpread {
		t.Errorf("expected default narrow spread %v, got %v", defaultNarrowSpread, cfg.Forecast.NarrowSpreadThreshold)
	}
	if cfg.Forecast.WideSpreadThreshold != defaultWideSpread {
		t.Errorf("expected default wide spread %v, got %v", defaultWideSpread, cfg.Forecast.WideSpreadThreshold)
	}
	if cfg.Forecast.MinCountForNarrowBand != defaultMinCountNarrowBand {
		t.Errorf("expected default narrow-band min count %d, got %d", defaultMinCountNarrowBand, cfg.Forecast.MinCountForNarrowBand)
	}
	if cfg.Forecast.MinCountForStatisticalOutliers != defaultMinCountStatOutliers {
		t.Errorf("expected default outlier min count %d, got %d", defaultMinCountStatOutliers, cfg.Forecast.MinCountForStatisticalOutliers)
	}
	if len(cfg.Forecast.Topics) != 0 {
		t.Errorf("expected no default topics, got %v", cfg.Forecast.Topics)
	}
	if len(cfg.Forecast.Timeframes) != 1 || cfg.Forecast.Timeframes[0] != defaultTimeframe {
		t.Errorf("expected default timeframes [%q], got %v", defaultTimeframe, cfg.Forecast.Timeframes)
	}
	if cfg.Forecast.ScheduleInterval != defaultScheduleInterval {
		t.Errorf("expected default schedule interval %v, got %v", defaultScheduleInterval, cfg.Forecast.ScheduleInterval)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	clearConfigEnv(t)

	overrides := map[string]string{
		"SERVER_PORT":                             "9090",
		"SERVER_READ_TIMEOUT_SECONDS":             "30",
		"SERVER_WRITE_TIMEOUT_SECONDS":            "45",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS":         "15",
		"LOG_LEVEL":                               "debug",
		"LOG_FORMAT":                              "text",
		"FORECAST_MAX_CATEGORIES":                 "5",
		"FORECAST_MAX_INDEX":                      "12",
		"FORECAST_NARROW_SPREAD_THRESHOLD":        "0.8",
		"FORECAST_WIDE_SPREAD_THRESHOLD":          "3.5",
		"FORECAST_MIN_COUNT_NARROW_BAND":          "20",
		"FORECAST_MIN_COUNT_STATISTICAL_OUTLIERS": "8",
		"FORECAST_SCENARIO_FILE":                  "/etc/aipulse/scenarios.yaml",
		"FORECAST_TOPICS":                         "artificial intelligence, quantum computing",
		"FORECAST_TIMEFRAMES":                     "7,30,90",
		"FORECAST_SCHEDULE_MINUTES":               "5",
	}
	for key, value := range overrides {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected overridden port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected read timeout 30s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 45*time.Second {
		t.Errorf("expected write timeout 45s, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Errorf("expected shutdown timeout 15s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Logging.Level != slog.LevelDebug {
		t.Errorf("expected debug log level, got %v", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected text log format, got %q", cfg.Logging.Format)
	}

	if cfg.Forecast.MaxCategories != 5 {
		t.Errorf("expected max categories 5, got %d", cfg.Forecast.MaxCategories)
	}
	if cfg.Forecast.MaxIndex != 12 {
		t.Errorf("expected max index 12, got %d", cfg.Forecast.MaxIndex)
	}
	if cfg.Forecast.NarrowSpreadThreshold != 0.8 {
		t.Errorf("expected narrow spread 0.8, got %v", cfg.Forecast.NarrowSpreadThreshold)
	}
	if cfg.Forecast.WideSpreadThreshold != 3.5 {
		t.Errorf("expected wide spread 3.5, got %v", cfg.Forecast.WideSpreadThreshold)
	}
	if cfg.Forecast.MinCountForNarrowBand != 20 {
		t.Errorf("expected narrow-band min count 20, got %d", cfg.Forecast.MinCountForNarrowBand)
	}
	if cfg.Forecast.MinCountForStatisticalOutliers != 8 {
		t.Errorf("expected outlier min count 8, got %d", cfg.Forecast.MinCountForStatisticalOutliers)
	}
	if cfg.Forecast.ScenarioFile != "/etc/aipulse/scenarios.yaml" {
		t.Errorf("expected scenario file override, got %q", cfg.Forecast.ScenarioFile)
	}

	wantTopics := []string{"artificial intelligence", "quantum computing"}
	if len(cfg.Forecast.Topics) != len(wantTopics) {
		t.Fatalf("expected topics %v, got %v", wantTopics, cfg.Forecast.Topics)
	}
	for i, topic := range wantTopics {
		if cfg.Forecast.Topics[i] != topic {
			t.Errorf("topic %d = %q, want %q", i, cfg.Forecast.Topics[i], topic)
		}
	}

	if len(cfg.Forecast.Timeframes) != 3 {
		t.Fatalf("expected 3 timeframes, got %v", cfg.Forecast.Timeframes)
	}
	if cfg.Forecast.ScheduleInterval != 5*time.Minute {
		t.Errorf("expected schedule interval 5m, got %v", cfg.Forecast.ScheduleInterval)
	}
}

func TestLoadCloudRunPortTakesPrecedence(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "8888")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != "8888" {
		t.Errorf("expected PORT to win, got %q", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric timeout", "SERVER_READ_TIMEOUT_SECONDS", "soon"},
		{"negative timeout", "SERVER_WRITE_TIMEOUT_SECONDS", "-5"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "pretty"},
		{"zero max categories", "FORECAST_MAX_CATEGORIES", "0"},
		{"negative max index", "FORECAST_MAX_INDEX", "-1"},
		{"negative spread", "FORECAST_NARROW_SPREAD_THRESHOLD", "-0.5"},
		{"non-numeric spread", "FORECAST_WIDE_SPREAD_THRESHOLD", "wide"},
		{"zero schedule", "FORECAST_SCHEDULE_MINUTES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s, got nil", tt.key, tt.value)
			}
		})
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT",
		"SERVER_PORT",
		"SERVER_READ_TIMEOUT_SECONDS",
		"SERVER_WRITE_TIMEOUT_SECONDS",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"DATABASE_URL",
		"FORECAST_MAX_CATEGORIES",
		"FORECAST_MAX_INDEX",
		"FORECAST_NARROW_SPREAD_THRESHOLD",
		"FORECAST_WIDE_SPREAD_THRESHOLD",
		"FORECAST_MIN_COUNT_NARROW_BAND",
		"FORECAST_MIN_COUNT_STATISTICAL_OUTLIERS",
		"FORECAST_SCENARIO_FILE",
		"FORECAST_TOPICS",
		"FORECAST_TIMEFRAMES",
		"FORECAST_SCHEDULE_MINUTES",
	}

	for _, key := range keys {
		t.Setenv(key, "")
	}
}
