package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/flexai-site/internal/config"
	"github.com/tbourn/flexai-site/internal/domain"
	"github.com/tbourn/flexai-site/internal/repo"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func mysqlCfg() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:         config.DriverMySQL,
		Host:           "127.0.0.1",
		Port:           3306,
		User:           "site",
		Password:       "pw",
		Name:           "flexai",
		PoolSize:       2,
		ConnectTimeout: time.Second,
	}
}

func TestSelect_NotConfigured_FallsBackToMemory(t *testing.T) {
	buf := captureLog(t)
	opened := false
	open := func(config.DatabaseConfig) (*gorm.DB, error) { opened = true; return nil, nil }

	st, err := Select(context.Background(), config.DatabaseConfig{Driver: config.DriverMySQL}, open)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if opened {
		t.Fatalf("opener must not run without settings")
	}
	if st.Backend() != repo.BackendMemory || st.DB != nil || st.Degraded {
		t.Fatalf("unexpected storage: %+v", st)
	}
	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "DB_USER") {
		t.Fatalf("expected warn line naming missing settings, got %s", out)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close on memory storage: %v", err)
	}
}

func TestSelect_NotConfigured_Required(t *testing.T) {
	captureLog(t)
	_, err := Select(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite, Required: true}, nil)
	if err == nil || !strings.Contains(err.Error(), "DB_PATH") {
		t.Fatalf("expected error naming DB_PATH, got %v", err)
	}
}

func TestSelect_OpenFailure(t *testing.T) {
	buf := captureLog(t)
	boom := errors.New("dial tcp: connection refused")
	open := func(config.DatabaseConfig) (*gorm.DB, error) { return nil, boom }

	st, err := Select(context.Background(), mysqlCfg(), open)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if st.Backend() != repo.BackendMemory || !st.Degraded {
		t.Fatalf("expected degraded memory storage, got %+v", st)
	}
	if !strings.Contains(buf.String(), "connection refused") {
		t.Fatalf("warn line should carry the cause: %s", buf.String())
	}

	cfg := mysqlCfg()
	cfg.Required = true
	if _, err := Select(context.Background(), cfg, open); !errors.Is(err, boom) {
		t.Fatalf("required: want wrapped open error, got %v", err)
	}
}

func TestSelect_ProbeFailure(t *testing.T) {
	captureLog(t)
	path := filepath.Join(t.TempDir(), "probe.db")
	open := func(config.DatabaseConfig) (*gorm.DB, error) {
		db, err := repo.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		// A closed pool fails the ping.
		_ = repo.Close(db)
		return db, nil
	}

	st, err := Select(context.Background(), mysqlCfg(), open)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if st.Backend() != repo.BackendMemory || !st.Degraded {
		t.Fatalf("expected memory fallback after failed probe, got %+v", st)
	}

	cfg := mysqlCfg()
	cfg.Required = true
	if _, err := Select(context.Background(), cfg, open); err == nil || !strings.Contains(err.Error(), "probe") {
		t.Fatalf("required: want probe error, got %v", err)
	}
}

func TestSelect_SQLite_Persistent(t *testing.T) {
	captureLog(t)
	cfg := config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		Path:           filepath.Join(t.TempDir(), "inquiries.db"),
		PoolSize:       1,
		ConnectTimeout: time.Second,
	}

	st, err := Select(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if st.Backend() != config.DriverSQLite || st.DB == nil || st.Degraded {
		t.Fatalf("unexpected storage: backend=%s degraded=%v", st.Backend(), st.Degraded)
	}
	ctx := context.Background()
	id, err := st.Inquiries.Insert(ctx, domain.Inquiry{Name: "홍길동", Title: "견적", Message: "문의드립니다"})
	if err != nil || id != 1 {
		t.Fatalf("Insert: id=%d err=%v", id, err)
	}
	if err := st.Idempotency.Save(ctx, "/api/inquiries", "k1", id, 201, "", time.Hour); err != nil {
		t.Fatalf("idempotency table missing: %v", err)
	}
}

type fakeGetter struct {
	val  string
	err  error
	name string
}

func (f *fakeGetter) GetParameter(_ context.Context, name string) (string, error) {
	f.name = name
	return f.val, f.err
}

func TestResolveSecrets(t *testing.T) {
	ctx := context.Background()

	cfg := config.DatabaseConfig{PasswordParam: "/flexai/db/password"}
	g := &fakeGetter{val: "from-ssm"}
	if err := ResolveSecrets(ctx, &cfg, g); err != nil {
		t.Fatalf("ResolveSecrets: %v", err)
	}
	if cfg.Password != "from-ssm" || g.name != "/flexai/db/password" {
		t.Fatalf("password not resolved: %+v name=%q", cfg, g.name)
	}

	// An explicit password wins; the store is not consulted.
	cfg = config.DatabaseConfig{PasswordParam: "/p", Password: "env"}
	g = &fakeGetter{val: "from-ssm"}
	if err := ResolveSecrets(ctx, &cfg, g); err != nil || cfg.Password != "env" || g.name != "" {
		t.Fatalf("explicit password overridden: %+v err=%v", cfg, err)
	}

	// No parameter configured: nothing to do even without a client.
	cfg = config.DatabaseConfig{}
	if err := ResolveSecrets(ctx, &cfg, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg = config.DatabaseConfig{PasswordParam: "/p"}
	if err := ResolveSecrets(ctx, &cfg, nil); err == nil {
		t.Fatalf("expected error without a client")
	}

	boom := errors.New("AccessDenied")
	if err := ResolveSecrets(ctx, &cfg, &fakeGetter{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("want wrapped getter error, got %v", err)
	}
}

func TestStorage_PurgeExpired(t *testing.T) {
	captureLog(t)
	cfg := config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		Path:           filepath.Join(t.TempDir(), "purge.db"),
		PoolSize:       1,
		ConnectTimeout: time.Second,
	}
	st, err := Select(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	if err := st.Idempotency.Save(ctx, "/api/inquiries", "old", 1, 201, "", time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := st.Idempotency.Save(ctx, "/api/inquiries", "live", 2, 201, "", time.Hour); err != nil {
		t.Fatal(err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		st.PurgeExpired(runCtx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		var n int64
		if err := st.DB.Model(&domain.Idempotency{}).Count(&n).Error; err != nil {
			t.Fatal(err)
		}
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expired record not purged; rows=%d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	// The memory fallback has nothing to purge and returns at once.
	memoryStorage(false).PurgeExpired(ctx, time.Millisecond)
}
