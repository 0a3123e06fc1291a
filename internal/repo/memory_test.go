package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tbourn/flexai-site/internal/domain"
)

func TestMemoryInquiryStore_InsertListDelete(t *testing.T) {
	s := NewMemoryInquiryStore()
	ctx := context.Background()

	if s.Backend() != BackendMemory {
		t.Fatalf("backend = %q", s.Backend())
	}
	if items, _ := s.ListRecent(ctx, 20); items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", items)
	}

	var ids []uint64
	for _, title := range []string{"a", "b", "c"} {
		id, err := s.Insert(ctx, domain.Inquiry{ID: 500, Name: "n", Title: title, Message: "m"})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		ids = append(ids, id)
	}
	if ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("ids = %v, want [1 2 3]", ids)
	}

	items, _ := s.ListRecent(ctx, 2)
	if len(items) != 2 || items[0].Title != "c" || items[1].Title != "b" {
		t.Fatalf("unexpected list: %+v", items)
	}
	if items[0].CreatedAt.Before(items[1].CreatedAt) {
		t.Fatalf("createdAt must be non-increasing down the list")
	}

	ok, err := s.DeleteByID(ctx, 3)
	if err != nil || !ok {
		t.Fatalf("delete existing: %v %v", ok, err)
	}
	ok, err = s.DeleteByID(ctx, 3)
	if err != nil || ok {
		t.Fatalf("delete missing: %v %v", ok, err)
	}

	// Counter never reissues a deleted id.
	id, _ := s.Insert(ctx, domain.Inquiry{Name: "n", Title: "d", Message: "m"})
	if id != 4 {
		t.Fatalf("next id = %d, want 4", id)
	}

	count, latest, _ := s.Stats(ctx)
	if count != 3 || latest == nil {
		t.Fatalf("stats = %d %v", count, latest)
	}
}

func TestMemoryInquiryStore_ClockGoingBackwards(t *testing.T) {
	s := NewMemoryInquiryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Minute)}
	s.now = func() time.Time { next := ticks[0]; ticks = ticks[1:]; return next }

	ctx := context.Background()
	_, _ = s.Insert(ctx, domain.Inquiry{Title: "first"})
	_, _ = s.Insert(ctx, domain.Inquiry{Title: "second"})

	items, _ := s.ListRecent(ctx, 10)
	if items[0].Title != "second" || items[0].CreatedAt.Before(items[1].CreatedAt) {
		t.Fatalf("newest insert must list first with non-decreasing time: %+v", items)
	}
}

func TestMemoryInquiryStore_ConcurrentInsertsUniqueIDs(t *testing.T) {
	s := NewMemoryInquiryStore()
	ctx := context.Background()

	const n = 64
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[uint64]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := s.Insert(ctx, domain.Inquiry{Name: "n", Title: "t", Message: "m"})
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != n {
		t.Fatalf("expected %d unique ids, got %d", n, len(seen))
	}
	if items, _ := s.ListRecent(ctx, 100); len(items) != n {
		t.Fatalf("expected %d items, got %d", n, len(items))
	}
}

func TestMemoryIdempotencyStore(t *testing.T) {
	s := NewMemoryIdempotencyStore()
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.Lookup(ctx, "s", "k", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Save(ctx, "s", "k", 7, 201, "", time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "s", "k", 8, 201, "", time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	rec, err := s.Lookup(ctx, "s", "k", now)
	if err != nil || rec.InquiryID != 7 {
		t.Fatalf("lookup: %+v %v", rec, err)
	}
	if _, err := s.Lookup(ctx, "s", "k", now.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record must be ErrNotFound, got %v", err)
	}
	if err := s.Save(ctx, "s", "k", 9, 201, "", time.Hour); err != nil {
		t.Fatalf("save after expiry: %v", err)
	}
}
