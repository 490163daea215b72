package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRateAttempt is the row shape of the currency_rate_attempts table.
type CurrencyRateAttempt struct {
	CurrencyCode   string              `json:"currencyCode"`
	LastAttemptAt  time.Time           `json:"lastAttemptAt"`
	LastSuccessAt  *time.Time          `json:"lastSuccessAt"`
	CachedUSDValue decimal.NullDecimal `json:"cachedUsdValue"`
	SourceProvider *string             `json:"sourceProvider"`
	AttemptCount   int64               `json:"attemptCount"`
	Found          bool                `json:"found"`
}
