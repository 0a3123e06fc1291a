// Package repo implements the data persistence layer for inquiries, backed by
// GORM, plus the in-process fallback used when no database is reachable. This
// file contains connection bootstrapping for MySQL, PostgreSQL and SQLite
// (pure Go driver), the startup probe, and schema migrations.
package repo

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/flexai-site/internal/config"
	"github.com/tbourn/flexai-site/internal/domain"
)

// mysqlTLSName is the key under which a custom CA pool is registered with
// the MySQL driver.
const mysqlTLSName = "inquiries"

// newTracingPlugin builds the OpenTelemetry plugin installed by Open.
var newTracingPlugin = func() gorm.Plugin { return tracing.NewPlugin() }

// Open connects to the database described by cfg, tunes the connection pool,
// and installs the OpenTelemetry plugin. It does not probe connectivity; call
// Probe for that. On any failure after the handle exists, the pool is closed.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
	case config.DriverMySQL, config.DriverPostgres:
		var dial gorm.Dialector
		dial, err = dialector(cfg)
		if err != nil {
			return nil, err
		}
		db, err = gorm.Open(dial, &gorm.Config{
			Logger:  logger.Default.LogMode(logger.Silent),
			NowFunc: func() time.Time { return time.Now().UTC() },
		})
		if err != nil {
			return nil, closeOnError(db, err)
		}
		if err := tunePool(db, cfg.PoolSize); err != nil {
			return nil, closeOnError(db, err)
		}
	default:
		return nil, fmt.Errorf("repo: unsupported driver %q", cfg.Driver)
	}
	if err := db.Use(newTracingPlugin()); err != nil {
		return nil, closeOnError(db, fmt.Errorf("repo: install tracing plugin: %w", err))
	}
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, closeOnError(db, err)
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	if err := tunePool(db, 10); err != nil {
		return nil, closeOnError(db, err)
	}
	return db, nil
}

// closeOnError releases whatever pool db holds and returns err unchanged.
// gorm.Open may return a non-nil handle alongside its error.
func closeOnError(db *gorm.DB, err error) error {
	if db != nil && db.Config != nil && db.ConnPool != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
	}
	return err
}

func tunePool(db *gorm.DB, size int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("repo: underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(size)
	sqlDB.SetMaxIdleConns(size)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return nil
}

func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	if cfg.Driver == config.DriverPostgres {
		return postgres.Open(PostgresDSN(cfg)), nil
	}
	dsn, err := MySQLDSN(cfg)
	if err != nil {
		return nil, err
	}
	return mysql.Open(dsn), nil
}

// MySQLDSN renders a go-sql-driver DSN for cfg. A unix socket path wins over
// host/port. When TLS is enabled with a CA bundle, the bundle is registered
// with the driver under a private name.
func MySQLDSN(cfg config.DatabaseConfig) (string, error) {
	mc := gomysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Collation = "utf8mb4_unicode_ci"
	mc.Timeout = cfg.ConnectTimeout
	if cfg.SocketPath != "" {
		mc.Net = "unix"
		mc.Addr = cfg.SocketPath
	} else {
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	}
	if cfg.TLS {
		mc.TLSConfig = "true"
		if cfg.CACertPath != "" {
			tc, err := loadCA(cfg.CACertPath)
			if err != nil {
				return "", err
			}
			if err := gomysql.RegisterTLSConfig(mysqlTLSName, tc); err != nil {
				return "", fmt.Errorf("repo: register mysql tls: %w", err)
			}
			mc.TLSConfig = mysqlTLSName
		}
	}
	return mc.FormatDSN(), nil
}

// PostgresDSN renders a libpq keyword/value DSN for cfg. Values are quoted so
// passwords containing spaces or quotes survive.
func PostgresDSN(cfg config.DatabaseConfig) string {
	host := cfg.Host
	if cfg.SocketPath != "" {
		host = cfg.SocketPath
	}
	sslmode := "disable"
	if cfg.TLS {
		sslmode = "require"
		if cfg.CACertPath != "" {
			sslmode = "verify-full"
		}
	}
	kv := []string{
		"host=" + pgQuote(host),
		"port=" + strconv.Itoa(cfg.Port),
		"user=" + pgQuote(cfg.User),
		"password=" + pgQuote(cfg.Password),
		"dbname=" + pgQuote(cfg.Name),
		"sslmode=" + sslmode,
	}
	if cfg.TLS && cfg.CACertPath != "" {
		kv = append(kv, "sslrootcert="+pgQuote(cfg.CACertPath))
	}
	if secs := int(cfg.ConnectTimeout.Seconds()); secs > 0 {
		kv = append(kv, "connect_timeout="+strconv.Itoa(secs))
	}
	return strings.Join(kv, " ")
}

func pgQuote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func loadCA(path string) (*tls.Config, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("repo: read CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("repo: CA bundle contains no PEM certificates")
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// Probe performs the one-time connectivity check used at startup.
func Probe(ctx context.Context, db *gorm.DB, timeout time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates the inquiry and idempotency tables if absent. MySQL
// tables are created as InnoDB with utf8mb4 so Korean text round-trips.
func AutoMigrate(db *gorm.DB, driver string) error {
	if driver == config.DriverMySQL {
		db = db.Set("gorm:table_options", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4")
	}
	return db.AutoMigrate(
		&domain.Inquiry{},
		&domain.Idempotency{},
	)
}
