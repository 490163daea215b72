package services

import (
	"context"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
)

// RateReaderSvc resolves USD values without changing cooldown policy.
type RateReaderSvc interface {
	// FetchRatesFor returns a best-effort rate map. It never fails because a
	// rate is unavailable; unresolved codes are listed in NotFound.
	FetchRatesFor(ctx context.Context, codes []string) *domain.RateResult

	// CanAttempt reports whether a lookup for code could succeed without
	// waiting out a cooldown.
	CanAttempt(ctx context.Context, code string) (bool, error)

	// GetAttempt returns the attempt record for code, or apperrors.ErrNotFound.
	GetAttempt(ctx context.Context, code string) (*domain.CurrencyRateAttempt, error)
}

// RateRefresherSvc runs bulk refreshes.
type RateRefresherSvc interface {
	// UpdateAllCurrencyValues re-fetches every known currency.
	UpdateAllCurrencyValues(ctx context.Context) (*domain.RefreshSummary, error)

	// ForceRefresh clears all attempt state, then re-fetches everything.
	ForceRefresh(ctx context.Context) (*domain.RefreshSummary, error)
}

// RateSvcFacade combines all rate-related service interfaces
type RateSvcFacade interface {
	RateReaderSvc
	RateRefresherSvc
}
