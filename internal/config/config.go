// Package config provides application configuration loaded from environment
// variables (optionally seeded from a .env file) with defaults and validation.
// It centralizes server timeouts, logging, database connectivity, rate
// limiting, web protection, and observability settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "flexai-site")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DatabaseConfig describes how to reach the relational inquiry store.
//
// Persistent mode is enabled only when the driver-specific settings are
// complete (see Enabled). Otherwise the process runs on the in-memory
// fallback unless Required is set.
type DatabaseConfig struct {
	Driver         string        // DB_DRIVER: mysql|postgres|sqlite
	Host           string        // DB_HOST
	Port           int           // DB_PORT (driver default when unset)
	SocketPath     string        // DB_SOCKET_PATH + INSTANCE_CONNECTION_NAME
	User           string        // DB_USER
	Password       string        // DB_PASSWORD
	Name           string        // DB_NAME
	Path           string        // DB_PATH (sqlite only)
	PoolSize       int           // DB_POOL_SIZE
	TLS            bool          // DB_TLS
	CACertPath     string        // DB_CA_CERT (PEM bundle)
	Required       bool          // DB_REQUIRED: refuse to run degraded
	PasswordParam  string        // DB_PASSWORD_SSM_PARAM
	ConnectTimeout time.Duration // DB_CONNECT_TIMEOUT
}

// Missing returns the names of the variables that still need a value before
// persistent mode can be enabled. An empty result means Enabled is true.
func (d DatabaseConfig) Missing() []string {
	if d.Driver == DriverSQLite {
		if strings.TrimSpace(d.Path) == "" {
			return []string{"DB_PATH"}
		}
		return nil
	}
	var out []string
	if d.User == "" {
		out = append(out, "DB_USER")
	}
	if d.Password == "" && d.PasswordParam == "" {
		out = append(out, "DB_PASSWORD")
	}
	if d.Name == "" {
		out = append(out, "DB_NAME")
	}
	return out
}

// Enabled reports whether enough settings are present to attempt a
// persistent connection.
func (d DatabaseConfig) Enabled() bool { return len(d.Missing()) == 0 }

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // graceful drain window
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	// Site
	StaticDir string // optional on-disk override for the embedded assets

	// Storage
	Database DatabaseConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

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

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result. A .env file in the working
// directory is read first; variables already set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		// Site
		StaticDir: strings.TrimSpace(getenv("STATIC_DIR", "")),

		// Storage
		Database: loadDatabase(),

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

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "flexai-site"),
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
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if err := validateDatabase(cfg.Database); err != nil {
		return cfg, err
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
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

func loadDatabase() DatabaseConfig {
	d := DatabaseConfig{
		Driver:         strings.ToLower(strings.TrimSpace(getenv("DB_DRIVER", DriverMySQL))),
		Host:           getenv("DB_HOST", "127.0.0.1"),
		Port:           getint("DB_PORT", 0),
		User:           os.Getenv("DB_USER"),
		Password:       os.Getenv("DB_PASSWORD"),
		Name:           os.Getenv("DB_NAME"),
		Path:           os.Getenv("DB_PATH"),
		PoolSize:       getint("DB_POOL_SIZE", 10),
		TLS:            getbool("DB_TLS", false),
		CACertPath:     strings.TrimSpace(os.Getenv("DB_CA_CERT")),
		Required:       getbool("DB_REQUIRED", false),
		PasswordParam:  strings.TrimSpace(os.Getenv("DB_PASSWORD_SSM_PARAM")),
		ConnectTimeout: getdur("DB_CONNECT_TIMEOUT", 5*time.Second),
	}
	switch d.Driver {
	case "postgresql", "pg":
		d.Driver = DriverPostgres
	case "sqlite3":
		d.Driver = DriverSQLite
	}
	if d.Port == 0 {
		switch d.Driver {
		case DriverPostgres:
			d.Port = 5432
		default:
			d.Port = 3306
		}
	}
	// Cloud SQL style unix socket: <DB_SOCKET_PATH>/<INSTANCE_CONNECTION_NAME>.
	if inst := strings.TrimSpace(os.Getenv("INSTANCE_CONNECTION_NAME")); inst != "" {
		d.SocketPath = path.Join(getenv("DB_SOCKET_PATH", "/cloudsql"), inst)
	}
	return d
}

func validateDatabase(d DatabaseConfig) error {
	switch d.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return errors.New("DB_DRIVER must be one of: mysql, postgres, sqlite")
	}
	if d.PoolSize < 1 {
		return errors.New("DB_POOL_SIZE must be >= 1")
	}
	if d.Port < 1 || d.Port > 65535 {
		return errors.New("DB_PORT must be in [1,65535]")
	}
	if d.ConnectTimeout <= 0 {
		return errors.New("DB_CONNECT_TIMEOUT must be > 0")
	}
	if d.CACertPath != "" && !d.TLS {
		return errors.New("DB_CA_CERT requires DB_TLS=true")
	}
	if d.Required && !d.Enabled() {
		return fmt.Errorf("DB_REQUIRED is set but persistent storage is not configured: missing %s",
			strings.Join(d.Missing(), ", "))
	}
	return nil
}

// ---- helpers ----

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
