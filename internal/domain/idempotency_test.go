package domain

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:domain_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestIdempotency_TableName_AndExpired(t *testing.T) {
	if (Idempotency{}).TableName() != "idempotency" {
		t.Fatalf("unexpected table name")
	}
	now := time.Now().UTC()
	rec := Idempotency{ExpiresAt: now.Add(time.Minute)}
	if rec.Expired(now) {
		t.Fatalf("record should still be valid")
	}
	if !rec.Expired(now.Add(time.Minute)) {
		t.Fatalf("record must expire exactly at ExpiresAt")
	}
}

func TestIdempotency_AutoMigrate_UniqueScopeKey(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	if !m.HasIndex(&Idempotency{}, "ux_idempotency_scope_key") {
		t.Fatalf("expected unique index ux_idempotency_scope_key")
	}
	if !m.HasColumn(&Idempotency{}, "idem_key") {
		t.Fatalf("expected column idem_key")
	}

	now := time.Now().UTC()
	first := Idempotency{ID: uuid.NewString(), Scope: "/api/inquiries", Key: "k1", InquiryID: 7, Status: 201, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("insert first: %v", err)
	}

	// Same key under another scope is allowed.
	other := first
	other.ID = uuid.NewString()
	other.Scope = "/api/consultations"
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("insert other scope: %v", err)
	}

	dup := first
	dup.ID = uuid.NewString()
	if err := db.Create(&dup).Error; err == nil {
		t.Fatalf("expected unique violation for duplicate (scope,key)")
	}
}
