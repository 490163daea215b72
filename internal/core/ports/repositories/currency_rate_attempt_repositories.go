package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyRateAttemptReader defines read operations for rate attempt records.
type CurrencyRateAttemptReader interface {
	// FindAttemptByCode returns apperrors.ErrNotFound when no record exists.
	FindAttemptByCode(ctx context.Context, code string) (*domain.CurrencyRateAttempt, error)

	// FindAttemptsByCodes returns the records that exist for codes, in no particular order.
	FindAttemptsByCodes(ctx context.Context, codes []string) ([]domain.CurrencyRateAttempt, error)

	// ListFoundSince returns found records whose last success is at or after since.
	ListFoundSince(ctx context.Context, since time.Time) ([]domain.CurrencyRateAttempt, error)
}

// CurrencyRateAttemptWriter defines upsert-by-code write operations.
// Each call is a single statement per code so concurrent writers never leave
// last_success_at and cached_usd_value out of step.
type CurrencyRateAttemptWriter interface {
	UpsertSuccess(ctx context.Context, code string, usdValue decimal.Decimal, source string, at time.Time) error
	UpsertSuccesses(ctx context.Context, values map[string]decimal.Decimal, source string, at time.Time) error
	UpsertNotFound(ctx context.Context, code string, at time.Time) error
	DeleteAttempt(ctx context.Context, code string) error
	DeleteAllAttempts(ctx context.Context) (int64, error)
}

// CurrencyRateAttemptRepositoryFacade combines reader and writer.
type CurrencyRateAttemptRepositoryFacade interface {
	CurrencyRateAttemptReader
	CurrencyRateAttemptWriter
}
