package domain

import "time"

// Idempotency records the outcome of a create request keyed by
// (scope, key), so a retried submission returns the originally created
// inquiry instead of inserting a duplicate. Scope is the route template
// (e.g. "/api/inquiries") the key was presented to.
type Idempotency struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	Scope     string `gorm:"type:varchar(100);not null;uniqueIndex:ux_idempotency_scope_key,priority:1"`
	Key       string `gorm:"column:idem_key;type:varchar(200);not null;uniqueIndex:ux_idempotency_scope_key,priority:2"`
	InquiryID uint64 `gorm:"not null"`
	Status    int    `gorm:"not null"`

	// RequestHash is the hex SHA-256 of the normalized payload. A key reused
	// with a different payload is rejected instead of replayed.
	RequestHash string `gorm:"type:varchar(64);not null;default:''"`

	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

// Expired reports whether the record is no longer replayable at now.
func (i Idempotency) Expired(now time.Time) bool { return !now.Before(i.ExpiresAt) }
