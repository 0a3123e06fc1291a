// Package bootstrap selects the inquiry storage backend once at startup.
//
// When the database settings are complete the relational store is opened,
// probed a single time, and migrated. Missing settings or a failed probe fall
// back to the in-process store with a WARN line, unless DB_REQUIRED is set,
// in which case the caller gets an error and should exit.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/flexai-site/internal/config"
	"github.com/tbourn/flexai-site/internal/integrations/paramstore"
	"github.com/tbourn/flexai-site/internal/repo"
	"github.com/tbourn/flexai-site/internal/services"
)

// Opener opens a connection pool for cfg. repo.Open in production.
type Opener func(cfg config.DatabaseConfig) (*gorm.DB, error)

// Storage is the outcome of backend selection.
type Storage struct {
	Inquiries   services.InquiryStore
	Idempotency services.IdempotencyStore

	// DB is nil on the in-memory fallback.
	DB *gorm.DB
	// Degraded is true when persistent settings were present but unusable.
	Degraded bool
}

// Backend names the selected inquiry store.
func (s *Storage) Backend() string { return s.Inquiries.Backend() }

// Close releases the connection pool, if any.
func (s *Storage) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return repo.Close(s.DB)
}

// PurgeExpired removes expired idempotency records every interval until ctx
// is done. It returns immediately on the in-memory fallback, which replaces
// expired keys on write.
func (s *Storage) PurgeExpired(ctx context.Context, interval time.Duration) {
	if s == nil || s.DB == nil || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, s.DB, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purging idempotency records")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("purged idempotency records")
			}
		}
	}
}

// ResolveSecrets fills the database password from Parameter Store when
// DB_PASSWORD_SSM_PARAM is set and DB_PASSWORD is not. A nil getter with a
// parameter configured is an error.
func ResolveSecrets(ctx context.Context, cfg *config.DatabaseConfig, getter paramstore.Getter) error {
	if cfg.PasswordParam == "" || cfg.Password != "" {
		return nil
	}
	if getter == nil {
		return errors.New("bootstrap: DB_PASSWORD_SSM_PARAM set but no parameter store client")
	}
	pw, err := getter.GetParameter(ctx, cfg.PasswordParam)
	if err != nil {
		return fmt.Errorf("bootstrap: resolve db password: %w", err)
	}
	cfg.Password = pw
	return nil
}

// Select chooses the storage backend for the lifetime of the process.
// open may be nil, in which case repo.Open is used.
func Select(ctx context.Context, cfg config.DatabaseConfig, open Opener) (*Storage, error) {
	if open == nil {
		open = repo.Open
	}

	if !cfg.Enabled() {
		if cfg.Required {
			return nil, fmt.Errorf("bootstrap: database required but not configured: missing %s",
				strings.Join(cfg.Missing(), ", "))
		}
		log.Warn().
			Strs("missing", cfg.Missing()).
			Msg("database not configured; using in-memory inquiry store")
		return memoryStorage(false), nil
	}

	db, err := connect(ctx, cfg, open)
	if err != nil {
		if cfg.Required {
			return nil, err
		}
		log.Warn().
			Err(err).
			Str("driver", cfg.Driver).
			Msg("database unavailable; using in-memory inquiry store")
		return memoryStorage(true), nil
	}

	log.Info().Str("driver", cfg.Driver).Msg("inquiry store connected")
	return &Storage{
		Inquiries:   repo.NewGormInquiryStore(db, cfg.Driver),
		Idempotency: &repo.GormIdempotencyStore{DB: db},
		DB:          db,
	}, nil
}

func connect(ctx context.Context, cfg config.DatabaseConfig, open Opener) (*gorm.DB, error) {
	db, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open %s: %w", cfg.Driver, err)
	}
	if err := repo.Probe(ctx, db, cfg.ConnectTimeout); err != nil {
		_ = repo.Close(db)
		return nil, fmt.Errorf("bootstrap: probe %s: %w", cfg.Driver, err)
	}
	if err := repo.AutoMigrate(db, cfg.Driver); err != nil {
		_ = repo.Close(db)
		return nil, fmt.Errorf("bootstrap: migrate %s: %w", cfg.Driver, err)
	}
	return db, nil
}

func memoryStorage(degraded bool) *Storage {
	return &Storage{
		Inquiries:   repo.NewMemoryInquiryStore(),
		Idempotency: repo.NewMemoryIdempotencyStore(),
		Degraded:    degraded,
	}
}
