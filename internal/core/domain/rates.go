package domain

import "github.com/shopspring/decimal"

// RateResult is the outcome of one rate acquisition call. It is always
// returned, even when nothing could be resolved.
type RateResult struct {
	Rates     map[string]decimal.Decimal `json:"rates"`     // code -> USD value of one unit
	FromCache []string                   `json:"fromCache"` // served from the attempt cache
	Fetched   []string                   `json:"fetched"`   // resolved by a live provider call
	NotFound  []string                   `json:"notFound"`  // unresolved or in cooldown
	Errors    []string                   `json:"errors"`    // provider-level failures
}

// NewRateResult returns an empty result with initialised collections.
func NewRateResult() *RateResult {
	return &RateResult{
		Rates:     make(map[string]decimal.Decimal),
		FromCache: []string{},
		Fetched:   []string{},
		NotFound:  []string{},
		Errors:    []string{},
	}
}

// Rate returns the resolved USD value for code.
func (r *RateResult) Rate(code string) (decimal.Decimal, bool) {
	if r == nil {
		return decimal.Decimal{}, false
	}
	v, ok := r.Rates[code]
	return v, ok
}

// RefreshSummary reports a bulk refresh outcome.
type RefreshSummary struct {
	UpdatedCount int      `json:"updatedCount"`
	Errors       []string `json:"errors"`
}
