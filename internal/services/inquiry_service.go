// Package services – InquiryService
//
// This file implements InquiryService, which owns the inquiry lifecycle on
// top of a storage backend chosen once at startup. It normalizes and
// validates input, clamps list limits, and makes creation retry-safe when
// the caller presents an idempotency key.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/flexai-site/internal/domain"
	"github.com/tbourn/flexai-site/internal/repo"
	"github.com/tbourn/flexai-site/internal/utils"
)

// List limit bounds.
const (
	DefaultListLimit = 20
	MinListLimit     = 1
	MaxListLimit     = 100
)

// Entry points recorded on inquiries_created_total.
const (
	SourceForm         = "form"
	SourceConsultation = "consultation"
)

// InquiryStore is the storage contract shared by the relational and the
// in-process backends.
type InquiryStore interface {
	// ListRecent returns at most limit inquiries, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.Inquiry, error)
	// Insert persists in, assigning the next id and the current time.
	Insert(ctx context.Context, in domain.Inquiry) (uint64, error)
	// DeleteByID removes the inquiry if present; a missing id is (false, nil).
	DeleteByID(ctx context.Context, id uint64) (bool, error)
	// Stats returns the row count and newest createdAt (nil when empty).
	Stats(ctx context.Context) (int64, *time.Time, error)
	// Backend names the implementation: mysql, postgres, sqlite or memory.
	Backend() string
}

// IdempotencyStore records which inquiry a (scope, key) pair produced.
type IdempotencyStore interface {
	// Lookup returns a live record or repo.ErrNotFound.
	Lookup(ctx context.Context, scope, key string, now time.Time) (*domain.Idempotency, error)
	// Save stores a record with the hash of the request that produced it;
	// repo.ErrDuplicate if a live one already exists.
	Save(ctx context.Context, scope, key string, inquiryID uint64, status int, requestHash string, ttl time.Duration) error
}

// InquiryService coordinates validation and persistence of inquiries.
type InquiryService struct {
	Store InquiryStore
	Idem  IdempotencyStore

	// IdempotencyTTL bounds how long a key replays its first result.
	IdempotencyTTL time.Duration
}

// NewInquiryService wires the chosen backend. idem may be nil, which
// disables idempotent replays.
func NewInquiryService(store InquiryStore, idem IdempotencyStore, ttl time.Duration) *InquiryService {
	storeBackend.Reset()
	storeBackend.WithLabelValues(store.Backend()).Set(1)
	return &InquiryService{Store: store, Idem: idem, IdempotencyTTL: ttl}
}

// Backend names the storage backend in use.
func (s *InquiryService) Backend() string { return s.Store.Backend() }

// ClampLimit maps a requested list size into [MinListLimit, MaxListLimit].
func ClampLimit(n int) int {
	return utils.ClampInt(n, MinListLimit, MaxListLimit)
}

// List returns up to limit inquiries, newest first. limit is clamped.
func (s *InquiryService) List(ctx context.Context, limit int) ([]domain.Inquiry, error) {
	limit = ClampLimit(limit)
	ctx, span := tracer().Start(ctx, "List",
		trace.WithAttributes(attribute.Int("limit", limit)),
	)
	defer span.End()

	items, err := s.Store.ListRecent(ctx, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if items == nil {
		items = []domain.Inquiry{}
	}
	return items, nil
}

// Stats exposes the store aggregate used for list ETags.
func (s *InquiryService) Stats(ctx context.Context) (int64, *time.Time, error) {
	return s.Store.Stats(ctx)
}

// Create normalizes and validates f, then persists it. Validation failures
// wrap ErrValidation and nothing is stored.
func (s *InquiryService) Create(ctx context.Context, f domain.InquiryFields) (uint64, error) {
	return s.create(ctx, f, SourceForm)
}

// Consult composes a consultation into inquiry fields and creates it.
func (s *InquiryService) Consult(ctx context.Context, c Consultation) (uint64, error) {
	return s.create(ctx, ComposeConsultation(c), SourceConsultation)
}

func (s *InquiryService) create(ctx context.Context, f domain.InquiryFields, source string) (uint64, error) {
	ctx, span := tracer().Start(ctx, "Create",
		trace.WithAttributes(attribute.String("source", source)),
	)
	defer span.End()

	f = NormalizeFields(f)
	if err := ValidateFields(f); err != nil {
		return 0, err
	}
	id, err := s.Store.Insert(ctx, domain.NewInquiry(f))
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	span.SetAttributes(attribute.Int64("inquiry.id", int64(id)))
	inquiriesCreated.WithLabelValues(source).Inc()
	return id, nil
}

// CreateIdempotent behaves like Create (or Consult when c is non-nil) but
// returns the previously created id, with replayed=true, when the same
// (scope, key) was seen within IdempotencyTTL with the same normalized
// payload. A different payload gets ErrIdempotencyMismatch. An empty key or a
// nil IdempotencyStore skips the bookkeeping.
func (s *InquiryService) CreateIdempotent(ctx context.Context, scope, key string, f domain.InquiryFields, c *Consultation) (id uint64, replayed bool, err error) {
	source := SourceForm
	if c != nil {
		f = ComposeConsultation(*c)
		source = SourceConsultation
	}
	if key == "" || s.Idem == nil {
		id, err = s.create(ctx, f, source)
		return id, false, err
	}

	hash := RequestHash(NormalizeFields(f))
	if rec, lerr := s.Idem.Lookup(ctx, scope, key, time.Now().UTC()); lerr == nil {
		return replay(rec, hash)
	} else if !errors.Is(lerr, repo.ErrNotFound) {
		return 0, false, lerr
	}

	id, err = s.create(ctx, f, source)
	if err != nil {
		return 0, false, err
	}
	if serr := s.Idem.Save(ctx, scope, key, id, http.StatusCreated, hash, s.IdempotencyTTL); serr != nil {
		if !errors.Is(serr, repo.ErrDuplicate) {
			return 0, false, serr
		}
		// A concurrent request with the same key won; undo ours and replay theirs.
		_, _ = s.Store.DeleteByID(ctx, id)
		rec, lerr := s.Idem.Lookup(ctx, scope, key, time.Now().UTC())
		if lerr != nil {
			return 0, false, ErrIdempotencyConflict
		}
		return replay(rec, hash)
	}
	return id, false, nil
}

// replay returns the recorded inquiry id when hash matches the payload the
// key was first used with. Records without a hash replay unconditionally.
func replay(rec *domain.Idempotency, hash string) (uint64, bool, error) {
	if rec.RequestHash != "" && rec.RequestHash != hash {
		return 0, false, ErrIdempotencyMismatch
	}
	return rec.InquiryID, true, nil
}

// Delete removes the inquiry with id. A missing id is not an error.
func (s *InquiryService) Delete(ctx context.Context, id uint64) error {
	ctx, span := tracer().Start(ctx, "Delete",
		trace.WithAttributes(attribute.Int64("inquiry.id", int64(id))),
	)
	defer span.End()

	deleted, err := s.Store.DeleteByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	result := "missing"
	if deleted {
		result = "deleted"
	}
	inquiriesDeleted.WithLabelValues(result).Inc()
	return nil
}

func tracer() trace.Tracer { return otel.Tracer("services/InquiryService") }
