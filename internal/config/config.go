// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server settings
// (timeouts, logging, database path, rate limiting, observability) together
// with the chat-domain tunables: presence freshness, heartbeat cadence, the
// realtime retry policy, and the translation collaborator.
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

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// PresenceConfig groups the liveness tunables. Freshness and the heartbeat
// interval are deliberately independent knobs: the server prunes by TTL no
// matter how often clients announce themselves.
type PresenceConfig struct {
	TTL               time.Duration // PRESENCE_TTL: heartbeat age beyond which a record is stale
	HeartbeatInterval time.Duration // HEARTBEAT_INTERVAL: cadence of client heartbeats
	PollInterval      time.Duration // PRESENCE_POLL_INTERVAL: staleness floor for the active-users view
}

// RealtimeConfig controls the channel reconnect policy.
type RealtimeConfig struct {
	RetryBaseDelay time.Duration // RETRY_BASE_DELAY: first backoff step
	RetryMaxDelay  time.Duration // RETRY_MAX_DELAY: backoff cap
	MaxRetries     int           // MAX_RETRIES: attempts before terminal failure
	BufferSize     int           // FEED_BUFFER_SIZE: per-subscriber event buffer
}

// TranslateConfig configures the translation collaborator.
type TranslateConfig struct {
	Endpoint string        // TRANSLATE_ENDPOINT: chat-completions URL
	APIKey   string        // TRANSLATE_API_KEY
	Model    string        // TRANSLATE_MODEL
	Timeout  time.Duration // TRANSLATE_TIMEOUT
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool
	APIBasePath    string

	// App
	DBPath          string // SQLite path
	PublicRoomName  string // name of the lazily-created public room
	MaxMessageRunes int    // cap on message text length

	// Rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Domain
	Presence  PresenceConfig
	Realtime  RealtimeConfig
	Translate TranslateConfig

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
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath:          getenv("DB_PATH", "linguachat.db"),
		PublicRoomName:  getenv("PUBLIC_ROOM_NAME", "Global Chat"),
		MaxMessageRunes: getint("MAX_MESSAGE_RUNES", 2000),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Domain
		Presence: PresenceConfig{
			TTL:               getdur("PRESENCE_TTL", 5*time.Minute),
			HeartbeatInterval: getdur("HEARTBEAT_INTERVAL", 30*time.Second),
			PollInterval:      getdur("PRESENCE_POLL_INTERVAL", 10*time.Second),
		},
		Realtime: RealtimeConfig{
			RetryBaseDelay: getdur("RETRY_BASE_DELAY", time.Second),
			RetryMaxDelay:  getdur("RETRY_MAX_DELAY", 30*time.Second),
			MaxRetries:     getint("MAX_RETRIES", 5),
			BufferSize:     getint("FEED_BUFFER_SIZE", 64),
		},
		Translate: TranslateConfig{
			Endpoint: getenv("TRANSLATE_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
			APIKey:   getenv("TRANSLATE_API_KEY", ""),
			Model:    getenv("TRANSLATE_MODEL", "gpt-4"),
			Timeout:  getdur("TRANSLATE_TIMEOUT", 15*time.Second),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-lingua-backend"),
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
	if strings.TrimSpace(cfg.PublicRoomName) == "" {
		return cfg, errors.New("PUBLIC_ROOM_NAME must not be empty")
	}
	if cfg.MaxMessageRunes <= 0 {
		return cfg, errors.New("MAX_MESSAGE_RUNES must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.Presence.TTL <= 0 || cfg.Presence.HeartbeatInterval <= 0 || cfg.Presence.PollInterval <= 0 {
		return cfg, errors.New("presence durations must be positive")
	}
	if cfg.Realtime.RetryBaseDelay <= 0 || cfg.Realtime.RetryMaxDelay < cfg.Realtime.RetryBaseDelay {
		return cfg, errors.New("RETRY_MAX_DELAY must be >= RETRY_BASE_DELAY > 0")
	}
	if cfg.Realtime.MaxRetries < 1 {
		return cfg, errors.New("MAX_RETRIES must be >= 1")
	}
	if cfg.Realtime.BufferSize < 1 {
		return cfg, errors.New("FEED_BUFFER_SIZE must be >= 1")
	}
	if cfg.Translate.Timeout <= 0 {
		return cfg, errors.New("TRANSLATE_TIMEOUT must be > 0")
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
