package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// clearDB blanks every DB_* variable so ambient environment does not leak
// into assertions. t.Setenv restores the previous values on cleanup.
func clearDB(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"DB_PATH", "DB_POOL_SIZE", "DB_TLS", "DB_CA_CERT", "DB_REQUIRED",
		"DB_PASSWORD_SSM_PARAM", "DB_CONNECT_TIMEOUT", "DB_SOCKET_PATH",
		"INSTANCE_CONNECTION_NAME",
	} {
		t.Setenv(k, "")
	}
}

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	clearDB(t)
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Defaults(t *testing.T) {
	clearDB(t)
	for _, k := range []string{"PORT", "GIN_MODE", "LOG_LEVEL", "RATE_RPS", "RATE_BURST", "STATIC_DIR"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "8080" || cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("server defaults unexpected: %+v", cfg)
	}
	db := cfg.Database
	if db.Driver != DriverMySQL || db.Host != "127.0.0.1" || db.Port != 3306 || db.PoolSize != 10 {
		t.Fatalf("db defaults unexpected: %+v", db)
	}
	if db.ConnectTimeout != 5*time.Second {
		t.Fatalf("connect timeout default = %v", db.ConnectTimeout)
	}
	if db.Enabled() {
		t.Fatalf("persistent mode must be disabled without credentials")
	}
	if got := db.Missing(); !reflect.DeepEqual(got, []string{"DB_USER", "DB_PASSWORD", "DB_NAME"}) {
		t.Fatalf("Missing() = %v", got)
	}
}

func TestLoad_Success_Overrides(t *testing.T) {
	clearDB(t)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("SHUTDOWN_TIMEOUT", "9s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("STATIC_DIR", " ./public ")

	t.Setenv("DB_DRIVER", "PostgreSQL")
	t.Setenv("DB_USER", "site")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "flexai")
	t.Setenv("DB_POOL_SIZE", "4")
	t.Setenv("DB_TLS", "true")
	t.Setenv("DB_CA_CERT", "/etc/ssl/db-ca.pem")

	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")
	t.Setenv("IDEMPOTENCY_TTL", "48h")
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.ShutdownTimeout != 9*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.StaticDir != "./public" {
		t.Fatalf("logging/docs/site fields unexpected: %+v", cfg)
	}

	db := cfg.Database
	if db.Driver != DriverPostgres || db.Port != 5432 || db.PoolSize != 4 || !db.TLS || db.CACertPath != "/etc/ssl/db-ca.pem" {
		t.Fatalf("db fields unexpected: %+v", db)
	}
	if !db.Enabled() {
		t.Fatalf("persistent mode should be enabled, missing=%v", db.Missing())
	}

	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate defaults not applied: rps=%v burst=%v", cfg.RateRPS, cfg.RateBurst)
	}
	if want := []string{"https://a.com", "http://b"}; !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
		t.Fatalf("CORS origins = %#v, want %#v", cfg.CORS.AllowedOrigins, want)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}
	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("IdempotencyTTL = %v", cfg.IdempotencyTTL)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_CloudSQLSocket(t *testing.T) {
	clearDB(t)
	t.Setenv("INSTANCE_CONNECTION_NAME", "proj:region:inst")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Database.SocketPath != "/cloudsql/proj:region:inst" {
		t.Fatalf("socket path = %q", cfg.Database.SocketPath)
	}

	t.Setenv("DB_SOCKET_PATH", "/var/run/cloudsql/")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Database.SocketPath != "/var/run/cloudsql/proj:region:inst" {
		t.Fatalf("socket path with base = %q", cfg.Database.SocketPath)
	}
}

func TestDatabaseConfig_Missing(t *testing.T) {
	cases := []struct {
		name string
		db   DatabaseConfig
		want []string
	}{
		{"sqlite without path", DatabaseConfig{Driver: DriverSQLite}, []string{"DB_PATH"}},
		{"sqlite with path", DatabaseConfig{Driver: DriverSQLite, Path: "app.db"}, nil},
		{"mysql partial", DatabaseConfig{Driver: DriverMySQL, User: "u"}, []string{"DB_PASSWORD", "DB_NAME"}},
		{"password from ssm", DatabaseConfig{Driver: DriverMySQL, User: "u", Name: "n", PasswordParam: "/db/pw"}, nil},
		{"complete", DatabaseConfig{Driver: DriverPostgres, User: "u", Password: "p", Name: "n"}, nil},
	}
	for _, tc := range cases {
		if got := tc.db.Missing(); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: Missing() = %v, want %v", tc.name, got, tc.want)
		}
		if tc.db.Enabled() != (len(tc.want) == 0) {
			t.Fatalf("%s: Enabled() inconsistent with Missing()", tc.name)
		}
	}
}

// --- validation errors ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"negative timeout", map[string]string{"READ_TIMEOUT": "-1s"}, "timeouts"},
		{"zero header bytes", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}, "DB_DRIVER"},
		{"pool size", map[string]string{"DB_POOL_SIZE": "0"}, "DB_POOL_SIZE"},
		{"port range", map[string]string{"DB_PORT": "70000"}, "DB_PORT"},
		{"ca without tls", map[string]string{"DB_CA_CERT": "/ca.pem"}, "DB_TLS"},
		{"required but missing", map[string]string{"DB_REQUIRED": "true", "DB_USER": "u"}, "DB_PASSWORD, DB_NAME"},
		{"negative rps", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"zero burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"negative hsts", map[string]string{"HSTS_MAX_AGE": "-1h"}, "HSTS_MAX_AGE"},
		{"zero idempotency ttl", map[string]string{"IDEMPOTENCY_TTL": "0s"}, "IDEMPOTENCY_TTL"},
		{"sampler ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearDB(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("Load() err = %v; want containing %q", err, tc.wantMsg)
			}
		})
	}
}

// --- helpers ---

func TestHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	if getbool("X_BOOL", true) {
		t.Fatalf("getbool off should be false")
	}
	t.Setenv("X_BOOL", "maybe")
	if !getbool("X_BOOL", true) {
		t.Fatalf("getbool unknown should return default")
	}
	t.Setenv("X_DUR", "bogus")
	if getdur("X_DUR", time.Minute) != time.Minute {
		t.Fatalf("getdur invalid should return default")
	}
	if splitCSV("") != nil {
		t.Fatalf("splitCSV empty should be nil")
	}
}
