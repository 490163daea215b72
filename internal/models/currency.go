package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the row shape of the currencies table.
type Currency struct {
	CurrencyID     string              `json:"currencyID"`
	Code           string              `json:"code"`
	Symbol         string              `json:"symbol"`
	Name           string              `json:"name"`
	USDValue       decimal.NullDecimal `json:"usdValue"`
	LastRateUpdate *time.Time          `json:"lastRateUpdate"`
	AuditFields
}
