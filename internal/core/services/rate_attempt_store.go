package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/apperrors"
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	portsrepo "github.com/SscSPs/sadaqah_box_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// RateAttemptStore keeps per-currency fetch history. The cooldown gates how
// often a code is attempted; the cache age decides whether a past success can
// still be served.
type RateAttemptStore struct {
	BaseService
	repo portsrepo.CurrencyRateAttemptRepositoryFacade
}

// RateAttemptStoreOption configures a RateAttemptStore.
type RateAttemptStoreOption func(*RateAttemptStore)

// WithStoreClock replaces the wall clock, mostly for tests.
func WithStoreClock(now func() time.Time) RateAttemptStoreOption {
	return func(s *RateAttemptStore) { s.now = now }
}

// NewRateAttemptStore creates a store over repo.
func NewRateAttemptStore(repo portsrepo.CurrencyRateAttemptRepositoryFacade, opts ...RateAttemptStoreOption) *RateAttemptStore {
	s := &RateAttemptStore{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Get returns the record for code, or nil when the code was never attempted.
func (s *RateAttemptStore) Get(ctx context.Context, code string) (*domain.CurrencyRateAttempt, error) {
	a, err := s.repo.FindAttemptByCode(ctx, normalizeCode(code))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load rate attempt for %s: %w", code, err)
	}
	return a, nil
}

// ShouldAttempt is true for a never-seen code or once cooldown has passed
// since the last attempt, whatever that attempt's outcome.
func (s *RateAttemptStore) ShouldAttempt(ctx context.Context, code string, cooldown time.Duration) (bool, error) {
	a, err := s.Get(ctx, code)
	if err != nil {
		return false, err
	}
	return a.CooledDown(s.Now(), cooldown), nil
}

// FilterNeedingAttempt returns the codes, in input order, that ShouldAttempt would accept.
func (s *RateAttemptStore) FilterNeedingAttempt(ctx context.Context, codes []string, cooldown time.Duration) ([]string, error) {
	if len(codes) == 0 {
		return []string{}, nil
	}
	normalized := make([]string, len(codes))
	for i, c := range codes {
		normalized[i] = normalizeCode(c)
	}

	attempts, err := s.repo.FindAttemptsByCodes(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate attempts: %w", err)
	}
	byCode := make(map[string]*domain.CurrencyRateAttempt, len(attempts))
	for i := range attempts {
		byCode[attempts[i].CurrencyCode] = &attempts[i]
	}

	now := s.Now()
	out := make([]string, 0, len(normalized))
	for _, code := range normalized {
		if byCode[code].CooledDown(now, cooldown) {
			out = append(out, code)
		}
	}
	return out, nil
}

// RecordSuccess stores a resolved value for code.
func (s *RateAttemptStore) RecordSuccess(ctx context.Context, code string, usdValue decimal.Decimal, source string) error {
	if err := s.repo.UpsertSuccess(ctx, normalizeCode(code), usdValue, source, s.Now()); err != nil {
		return fmt.Errorf("failed to record rate success for %s: %w", code, err)
	}
	return nil
}

// RecordSuccesses stores a whole provider table in one round trip.
func (s *RateAttemptStore) RecordSuccesses(ctx context.Context, values map[string]decimal.Decimal, source string) error {
	if len(values) == 0 {
		return nil
	}
	normalized := make(map[string]decimal.Decimal, len(values))
	for code, v := range values {
		normalized[normalizeCode(code)] = v
	}
	if err := s.repo.UpsertSuccesses(ctx, normalized, source, s.Now()); err != nil {
		return fmt.Errorf("failed to record %d rate successes from %s: %w", len(values), source, err)
	}
	return nil
}

// RecordNotFound marks an unsuccessful attempt. A previously cached value is kept.
func (s *RateAttemptStore) RecordNotFound(ctx context.Context, code string) error {
	if err := s.repo.UpsertNotFound(ctx, normalizeCode(code), s.Now()); err != nil {
		return fmt.Errorf("failed to record rate miss for %s: %w", code, err)
	}
	return nil
}

// GetAllCached returns every found value whose last success is within maxAge.
func (s *RateAttemptStore) GetAllCached(ctx context.Context, maxAge time.Duration) (map[string]decimal.Decimal, error) {
	now := s.Now()
	attempts, err := s.repo.ListFoundSince(ctx, now.Add(-maxAge))
	if err != nil {
		return nil, fmt.Errorf("failed to list cached rates: %w", err)
	}
	out := make(map[string]decimal.Decimal, len(attempts))
	for i := range attempts {
		a := &attempts[i]
		if a.FreshAt(now, maxAge) {
			out[a.CurrencyCode] = *a.CachedUSDValue
		}
	}
	return out, nil
}

// ClearForCode forgets all history for code.
func (s *RateAttemptStore) ClearForCode(ctx context.Context, code string) error {
	if err := s.repo.DeleteAttempt(ctx, normalizeCode(code)); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to clear rate attempt for %s: %w", code, err)
	}
	return nil
}

// ClearAll forgets all history and returns how many records were removed.
func (s *RateAttemptStore) ClearAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAllAttempts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear rate attempts: %w", err)
	}
	return n, nil
}
