package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRateAttempt tracks fetch attempts for a single currency code.
// LastSuccessAt and CachedUSDValue are either both set or both nil.
type CurrencyRateAttempt struct {
	CurrencyCode   string           `json:"currencyCode"`
	LastAttemptAt  time.Time        `json:"lastAttemptAt"`
	LastSuccessAt  *time.Time       `json:"lastSuccessAt"`
	CachedUSDValue *decimal.Decimal `json:"cachedUsdValue"`
	SourceProvider *string          `json:"sourceProvider"`
	AttemptCount   int64            `json:"attemptCount"`
	Found          bool             `json:"found"`
}

// CooledDown reports whether at least cooldown has passed since the last attempt.
func (a *CurrencyRateAttempt) CooledDown(now time.Time, cooldown time.Duration) bool {
	if a == nil {
		return true
	}
	return now.Sub(a.LastAttemptAt) >= cooldown
}

// FreshAt reports whether the cached value is usable at now given maxAge.
func (a *CurrencyRateAttempt) FreshAt(now time.Time, maxAge time.Duration) bool {
	if a == nil || !a.Found || a.LastSuccessAt == nil || a.CachedUSDValue == nil {
		return false
	}
	return now.Sub(*a.LastSuccessAt) <= maxAge
}
