// This file provides the in-process fallback stores used when no database is
// configured or reachable. Contents are lost on restart.
package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/flexai-site/internal/domain"
)

// BackendMemory is the Backend name reported by MemoryInquiryStore.
const BackendMemory = "memory"

// MemoryInquiryStore keeps inquiries in insertion order behind a mutex.
// Ids come from a counter that only grows, so a deleted id is never reissued.
type MemoryInquiryStore struct {
	mu     sync.RWMutex
	items  []domain.Inquiry // oldest first
	nextID uint64
	now    func() time.Time
}

// NewMemoryInquiryStore returns an empty store whose first id is 1.
func NewMemoryInquiryStore() *MemoryInquiryStore {
	return &MemoryInquiryStore{now: func() time.Time { return time.Now().UTC() }}
}

func (s *MemoryInquiryStore) ListRecent(_ context.Context, limit int) ([]domain.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.items) {
		limit = len(s.items)
	}
	if limit < 0 {
		limit = 0
	}
	out := make([]domain.Inquiry, 0, limit)
	for i := len(s.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.items[i])
	}
	return out, nil
}

func (s *MemoryInquiryStore) Insert(_ context.Context, in domain.Inquiry) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	in.ID = s.nextID
	in.CreatedAt = s.now()
	// Keep createdAt non-decreasing so insertion order matches list order.
	if n := len(s.items); n > 0 && in.CreatedAt.Before(s.items[n-1].CreatedAt) {
		in.CreatedAt = s.items[n-1].CreatedAt
	}
	s.items = append(s.items, in)
	return in.ID, nil
}

func (s *MemoryInquiryStore) DeleteByID(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryInquiryStore) Stats(_ context.Context) (int64, *time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.items)
	if n == 0 {
		return 0, nil, nil
	}
	latest := s.items[n-1].CreatedAt
	return int64(n), &latest, nil
}

func (s *MemoryInquiryStore) Backend() string { return BackendMemory }

type idemKey struct{ scope, key string }

// MemoryIdempotencyStore is the in-process counterpart of GormIdempotencyStore.
type MemoryIdempotencyStore struct {
	mu   sync.Mutex
	recs map[idemKey]domain.Idempotency
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{recs: make(map[idemKey]domain.Idempotency)}
}

func (s *MemoryIdempotencyStore) Lookup(_ context.Context, scope, key string, now time.Time) (*domain.Idempotency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[idemKey{scope, key}]
	if !ok {
		return nil, ErrNotFound
	}
	if rec.Expired(now) {
		delete(s.recs, idemKey{scope, key})
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryIdempotencyStore) Save(_ context.Context, scope, key string, inquiryID uint64, status int, requestHash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	k := idemKey{scope, key}
	if rec, ok := s.recs[k]; ok && !rec.Expired(now) {
		return ErrDuplicate
	}
	s.recs[k] = domain.Idempotency{
		ID:          uuid.NewString(),
		Scope:       scope,
		Key:         key,
		InquiryID:   inquiryID,
		Status:      status,
		RequestHash: requestHash,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	return nil
}
