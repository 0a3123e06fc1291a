// This file adapts the free repository functions to the store contracts
// consumed by the service layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/flexai-site/internal/domain"
)

// GormInquiryStore persists inquiries in a relational database.
type GormInquiryStore struct {
	DB     *gorm.DB
	Driver string
}

// NewGormInquiryStore wraps db; driver is reported by Backend.
func NewGormInquiryStore(db *gorm.DB, driver string) *GormInquiryStore {
	return &GormInquiryStore{DB: db, Driver: driver}
}

func (s *GormInquiryStore) ListRecent(ctx context.Context, limit int) ([]domain.Inquiry, error) {
	return ListRecentInquiries(ctx, s.DB, limit)
}

func (s *GormInquiryStore) Insert(ctx context.Context, in domain.Inquiry) (uint64, error) {
	saved, err := CreateInquiry(ctx, s.DB, in)
	if err != nil {
		return 0, err
	}
	return saved.ID, nil
}

func (s *GormInquiryStore) DeleteByID(ctx context.Context, id uint64) (bool, error) {
	n, err := DeleteInquiry(ctx, s.DB, id)
	return n > 0, err
}

func (s *GormInquiryStore) Stats(ctx context.Context) (int64, *time.Time, error) {
	return InquiryStats(ctx, s.DB)
}

func (s *GormInquiryStore) Backend() string { return s.Driver }

// GormIdempotencyStore keeps idempotency records next to the inquiries table.
type GormIdempotencyStore struct {
	DB *gorm.DB
}

func (s *GormIdempotencyStore) Lookup(ctx context.Context, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, s.DB, scope, key, now)
}

func (s *GormIdempotencyStore) Save(ctx context.Context, scope, key string, inquiryID uint64, status int, requestHash string, ttl time.Duration) error {
	_, err := CreateIdempotency(ctx, s.DB, scope, key, inquiryID, status, requestHash, ttl)
	return err
}
