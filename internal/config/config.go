package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents runtime configuration derived from environment variables.
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Database DatabaseConfig
	Forecast ForecastConfig
}

// ServerConfig holds HTTP server runtime parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  slog.Level
	Format string
}

// DatabaseConfig holds the connection string for the article store.
type DatabaseConfig struct {
	URL string
}

// ForecastConfig carries the consensus engine knobs plus the scheduler's
// precompute settings.
type ForecastConfig struct {
	MaxCategories                  int
	MaxIndex                       int
	NarrowSpreadThreshold          float64
	WideSpreadThreshold            float64
	MinCountForNarrowBand          int
	MinCountForStatisticalOutliers int
	ScenarioFile                   string
	Topics                         []string
	Timeframes                     []string
	ScheduleInterval               time.Duration
}

const (
	defaultPort            = "8080"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second

	defaultLogFormat = "json"

	defaultMaxCategories        = 8
	defaultMaxIndex             = 10
	defaultNarrowSpread         = 0.5
	defaultWideSpread           = 2.0
	defaultMinCountNarrowBand   = 10
	defaultMinCountStatOutliers = 5
	defaultTimeframe            = "30"
	defaultScheduleInterval     = 15 * time.Minute
)

// Load reads configuration from environment variables, applying defaults
// when values are not provided or invalid.
func Load() (Config, error) {
	// Cloud Run sets PORT, but allow SERVER_PORT override for local dev
	port := getEnv("PORT", "")
	if port == "" {
		port = getEnv("SERVER_PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:  slog.LevelInfo,
			Format: defaultLogFormat,
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Forecast: ForecastConfig{
			MaxCategories:                  defaultMaxCategories,
			MaxIndex:                       defaultMaxIndex,
			NarrowSpreadThreshold:          defaultNarrowSpread,
			WideSpreadThreshold:            defaultWideSpread,
			MinCountForNarrowBand:          defaultMinCountNarrowBand,
			MinCountForStatisticalOutliers: defaultMinCountStatOutliers,
			ScenarioFile:                   os.Getenv("FORECAST_SCENARIO_FILE"),
			Timeframes:                     []string{defaultTimeframe},
			ScheduleInterval:               defaultScheduleInterval,
		},
	}

	if v := os.Getenv("SERVER_READ_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_READ_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ReadTimeout = d
	}

	if v := os.Getenv("SERVER_WRITE_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.WriteTimeout = d
	}

	if v := os.Getenv("SERVER_SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ShutdownTimeout = d
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.Logging.Level = level
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		switch v {
		case "json", "text":
			cfg.Logging.Format = v
		default:
			return Config{}, fmt.Errorf("invalid LOG_FORMAT: must be 'json' or 'text'")
		}
	}

	if v := os.Getenv("FORECAST_MAX_CATEGORIES"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FORECAST_MAX_CATEGORIES: %w", err)
		}
		cfg.Forecast.MaxCategories = n
	}

	if v := os.Getenv("FORECAST_MAX_INDEX"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FORECAST_MAX_INDEX: %w", err)
		}
		cfg.Forecast.MaxIndex = n
	}

	if v := os.Getenv("FORECAST_NARROW_SPREAD_THRESHOLD"); v != "" {
		f, err := parseNonNegativeFloat(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FORECAST_NARROW_SPREAD_THRESHOLD: %w", err)
		}
		cfg.Forecast.NarrowSpreadThreshold = f
	}

	if v := os.Getenv("FORECAST_WIDE_SPREAD_THRESHOLD"); v != "" {
		f, err := parseNonNegativeFloat(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FORECAST_WIDE_SPREAD_THRESHOLD: %w", err)
		}
		cfg.Forecast.WideSpreadThreshold = f
	}

	if v := os.Getenv("FORECAST_MIN_COUNT_NARROW_BAND"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FORECAST_MIN_COUNT_NARROW_BAND: %w", err)
		}
		cfg.Forecast.MinCountForNarrowBand = n
	}

	if v := os.Getenv("FORECAST_MIN_COUNT_STATISTICAL_OUTLIERS"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FORECAST_MIN_COUNT_STATISTICAL_OUTLIERS: %w", err)
		}
		cfg.Forecast.MinCountForStatisticalOutliers = n
	}

	if v := os.Getenv("FORECAST_TOPICS"); v != "" {
		cfg.Forecast.Topics = splitList(v)
	}

	if v := os.Getenv("FORECAST_TIMEFRAMES"); v != "" {
		cfg.Forecast.Timeframes = splitList(v)
	}

	if v := os.Getenv("FORECAST_SCHEDULE_MINUTES"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FORECAST_SCHEDULE_MINUTES: %w", err)
		}
		cfg.Forecast.ScheduleInterval = time.Duration(n) * time.Minute
	}

	return cfg, nil
}

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return time.Duration(seconds) * time.Second, nil
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("must be a positive integer")
	}
	return n, nil
}

func parseNonNegativeFloat(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("must be a non-negative number")
	}
	return f, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("must be one of debug, info, warn, error")
	}
}
