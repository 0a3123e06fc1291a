// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Inquiry
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no validation or trimming,
// only persistence and query composition.
//
// Functions:
//
//   - CreateInquiry(ctx, db, in) -> *domain.Inquiry, error
//     Inserts a row; the database assigns the id, CreatedAt is set to UTC now.
//
//   - ListRecentInquiries(ctx, db, limit) -> []domain.Inquiry, error
//     Newest first, ties broken by id descending.
//
//   - DeleteInquiry(ctx, db, id) -> (int64, error)
//     Removes the row if present and reports rows affected.
package repo

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/flexai-site/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can match either.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateInquiry persists in and returns it with ID and CreatedAt populated.
// A caller-supplied ID or timestamp is ignored.
func CreateInquiry(ctx context.Context, db *gorm.DB, in domain.Inquiry) (*domain.Inquiry, error) {
	in.ID = 0
	in.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(&in).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// ListRecentInquiries returns at most limit inquiries ordered newest first.
// A non-positive limit yields an empty slice.
func ListRecentInquiries(ctx context.Context, db *gorm.DB, limit int) ([]domain.Inquiry, error) {
	out := []domain.Inquiry{}
	if limit <= 0 {
		return out, nil
	}
	err := db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteInquiry removes the inquiry with id. Deleting a missing id is not an
// error; the returned count is 0 in that case. Ids above MaxInt64 cannot be
// bound by the SQL drivers and match no row, so they return 0 without a query.
func DeleteInquiry(ctx context.Context, db *gorm.DB, id uint64) (int64, error) {
	if id > math.MaxInt64 {
		return 0, nil
	}
	res := db.WithContext(ctx).Delete(&domain.Inquiry{}, id)
	return res.RowsAffected, res.Error
}
