package dto

import (
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GetRatesParams defines query parameters for a rate lookup.
type GetRatesParams struct {
	Codes string `form:"codes" binding:"required"` // Comma separated, e.g. EUR,BTC,XAU
}

// CanFetchResponse answers whether a live lookup is currently allowed.
type CanFetchResponse struct {
	Code     string `json:"code"`
	CanFetch bool   `json:"canFetch"`
}

// RateAttemptResponse exposes one currency's attempt record.
type RateAttemptResponse struct {
	CurrencyCode   string           `json:"currencyCode"`
	LastAttemptAt  time.Time        `json:"lastAttemptAt"`
	LastSuccessAt  *time.Time       `json:"lastSuccessAt"`
	CachedUSDValue *decimal.Decimal `json:"cachedUsdValue"`
	SourceProvider *string          `json:"sourceProvider"`
	AttemptCount   int64            `json:"attemptCount"`
	Found          bool             `json:"found"`
}

// ToRateAttemptResponse converts a domain.CurrencyRateAttempt to RateAttemptResponse DTO
func ToRateAttemptResponse(a *domain.CurrencyRateAttempt) RateAttemptResponse {
	return RateAttemptResponse{
		CurrencyCode:   a.CurrencyCode,
		LastAttemptAt:  a.LastAttemptAt,
		LastSuccessAt:  a.LastSuccessAt,
		CachedUSDValue: a.CachedUSDValue,
		SourceProvider: a.SourceProvider,
		AttemptCount:   a.AttemptCount,
		Found:          a.Found,
	}
}
