// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, upstream API credentials,
// ingestion/analysis tuning, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// YouTubeConfig defines the upstream retrieval settings.
type YouTubeConfig struct {
	APIKey       string        // YOUTUBE_API_KEY (required)
	CommentOrder string        // YOUTUBE_COMMENT_ORDER: time|relevance
	PageInterval time.Duration // YOUTUBE_PAGE_INTERVAL between page fetches
}

// OpenAIConfig defines the optional LLM summarizer settings. When APIKey is
// empty the deterministic heuristic summarizer is used instead.
type OpenAIConfig struct {
	APIKey string // OPENAI_API_KEY
	Model  string // OPENAI_MODEL
}

// IngestConfig tunes the ingestion pipeline.
type IngestConfig struct {
	BatchSize   int           // COMMENT_BATCH_SIZE rows per store write
	MaxComments int           // MAX_COMMENTS total cap per run (0 = unlimited)
	MaxRetries  int           // RETRY_MAX attempts beyond the first
	RetryWait   time.Duration // RETRY_INITIAL_WAIT backoff seed
	RetryMax    time.Duration // RETRY_MAX_WAIT backoff ceiling
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 30s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	LogLevel    string // debug|info|warn|error|fatal|panic
	LogPretty   bool   // pretty console logs in dev
	APIBasePath string // base path for API routes

	// App
	DBPath      string // SQLite path
	EvidenceMax int    // evidence cap per analysis pass

	// Upstream services
	YouTube YouTubeConfig
	OpenAI  OpenAIConfig
	Ingest  IngestConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS CORSConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:   getbool("LOG_PRETTY", false),
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath:      getenv("DB_PATH", "app.db"),
		EvidenceMax: getint("EVIDENCE_MAX", 50),

		// Upstream services
		YouTube: YouTubeConfig{
			APIKey:       getenv("YOUTUBE_API_KEY", ""),
			CommentOrder: strings.ToLower(getenv("YOUTUBE_COMMENT_ORDER", "time")),
			PageInterval: getdur("YOUTUBE_PAGE_INTERVAL", 100*time.Millisecond),
		},
		OpenAI: OpenAIConfig{
			APIKey: getenv("OPENAI_API_KEY", ""),
			Model:  getenv("OPENAI_MODEL", ""),
		},
		Ingest: IngestConfig{
			BatchSize:   getint("COMMENT_BATCH_SIZE", 50),
			MaxComments: getint("MAX_COMMENTS", 0),
			MaxRetries:  getint("RETRY_MAX", 3),
			RetryWait:   getdur("RETRY_INITIAL_WAIT", 500*time.Millisecond),
			RetryMax:    getdur("RETRY_MAX_WAIT", 10*time.Second),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-audience-insights"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	switch cfg.YouTube.CommentOrder {
	case "time", "relevance":
	default:
		cfg.YouTube.CommentOrder = "time"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.YouTube.APIKey) == "" {
		return cfg, errors.New("YOUTUBE_API_KEY must not be empty")
	}
	if cfg.YouTube.PageInterval <= 0 {
		return cfg, errors.New("YOUTUBE_PAGE_INTERVAL must be > 0")
	}
	if cfg.EvidenceMax < 1 {
		return cfg, errors.New("EVIDENCE_MAX must be >= 1")
	}
	if cfg.Ingest.BatchSize < 1 {
		return cfg, errors.New("COMMENT_BATCH_SIZE must be >= 1")
	}
	if cfg.Ingest.MaxComments < 0 {
		return cfg, errors.New("MAX_COMMENTS must be >= 0")
	}
	if cfg.Ingest.MaxRetries < 0 {
		return cfg, errors.New("RETRY_MAX must be >= 0")
	}
	if cfg.Ingest.RetryWait <= 0 || cfg.Ingest.RetryMax <= 0 {
		return cfg, errors.New("retry waits must be positive durations")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
