package domain

import (
	"github.com/shopspring/decimal"
)

// ExtraBucket holds the raw total of donations that could not be converted
// into a box's base currency.
type ExtraBucket struct {
	Total decimal.Decimal `json:"total"`
	Code  string          `json:"code"`
	Name  string          `json:"name"`
}

// ExtraTotals is keyed by currency ID.
type ExtraTotals map[string]ExtraBucket

// Clone returns an independent copy of the buckets.
func (e ExtraTotals) Clone() ExtraTotals {
	out := make(ExtraTotals, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// BoxAggregate holds the running totals of a box.
type BoxAggregate struct {
	Count           int64           `json:"count"`
	TotalValue      decimal.Decimal `json:"totalValue"`      // In the box's base currency
	TotalValueExtra ExtraTotals     `json:"totalValueExtra"` // Amounts not convertible into the base currency
}

// Box is a named collection of donations with a running total in a base currency.
type Box struct {
	BoxID          string `json:"boxID"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	BaseCurrencyID string `json:"baseCurrencyID"`
	BoxAggregate
	AuditFields
}
