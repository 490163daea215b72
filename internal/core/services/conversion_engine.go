package services

import (
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Convert bridges amount from one currency to another through USD.
// ok is false when either USD value is unknown; that is an outcome, not an error.
// The same currency returns amount untouched, with or without a known rate.
func Convert(amount decimal.Decimal, from, to *domain.Currency) (decimal.Decimal, bool) {
	if from == nil || to == nil {
		return decimal.Zero, false
	}
	if from.CurrencyID == to.CurrencyID {
		return amount, true
	}
	if !from.HasRate() || !to.HasRate() || !to.USDValue.IsPositive() {
		return decimal.Zero, false
	}
	inUSD := amount.Mul(*from.USDValue)
	return inUSD.Div(*to.USDValue), true
}

// RouteDonation returns the amount to credit to a box's TotalValue, or nil
// when the amount must be parked in TotalValueExtra under its own currency.
func RouteDonation(amount decimal.Decimal, from, base *domain.Currency) *decimal.Decimal {
	v, ok := Convert(amount, from, base)
	if !ok {
		return nil
	}
	return &v
}

// ApplyDonation adds s to agg using the routing recorded on s.
func ApplyDonation(agg *domain.BoxAggregate, s domain.Sadaqah, currency *domain.Currency) {
	agg.Count++
	if s.ValueInBase != nil {
		agg.TotalValue = agg.TotalValue.Add(*s.ValueInBase)
		return
	}
	adjustExtra(agg, s.CurrencyID, currency, s.Value)
}

// RevertDonation removes s from agg, undoing exactly what ApplyDonation did.
func RevertDonation(agg *domain.BoxAggregate, s domain.Sadaqah, currency *domain.Currency) {
	if agg.Count > 0 {
		agg.Count--
	}
	if s.ValueInBase != nil {
		agg.TotalValue = agg.TotalValue.Sub(*s.ValueInBase)
		return
	}
	adjustExtra(agg, s.CurrencyID, currency, s.Value.Neg())
}

// adjustExtra creates the bucket on first use and drops it once its total
// falls to zero or below.
func adjustExtra(agg *domain.BoxAggregate, currencyID string, currency *domain.Currency, delta decimal.Decimal) {
	if agg.TotalValueExtra == nil {
		agg.TotalValueExtra = domain.ExtraTotals{}
	}
	bucket, ok := agg.TotalValueExtra[currencyID]
	if !ok {
		bucket = domain.ExtraBucket{Total: decimal.Zero}
	}
	if currency != nil {
		bucket.Code = currency.Code
		bucket.Name = currency.Name
	}
	bucket.Total = bucket.Total.Add(delta)
	if !bucket.Total.IsPositive() {
		delete(agg.TotalValueExtra, currencyID)
		return
	}
	agg.TotalValueExtra[currencyID] = bucket
}
