// Package ratesources fetches USD rate tables from third-party providers.
//
// Every table is normalized to the canonical "1 unit = X USD" convention with
// uppercase codes before it leaves this package.
package ratesources

import (
	"context"
	"errors"
	"strings"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrMalformedPayload is returned when a provider answers with a body that has no usable rate table.
var ErrMalformedPayload = errors.New("malformed payload")

// RateProvider returns as many USD values as it can in one call.
type RateProvider interface {
	Name() string
	Fetch(ctx context.Context) (map[string]decimal.Decimal, error)
}

// Invalidator is implemented by providers that keep their own copy of a
// table. Invalidate drops it so the next Fetch reaches upstream.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Sink receives every table a provider successfully returned.
type Sink interface {
	StoreRates(ctx context.Context, source string, rates map[string]decimal.Decimal) error
}

// Group is an asset class whose providers are tried in order.
type Group struct {
	Name      string
	Providers []RateProvider
	// Accepts limits the codes this group may resolve. Nil accepts everything.
	Accepts func(code string) bool
}

func (g Group) accepts(code string) bool {
	if g.Accepts == nil {
		return true
	}
	return g.Accepts(code)
}

// filter keeps accepted, positive values and never lets USD through.
func (g Group) filter(rates map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(rates))
	for code, v := range rates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || code == domain.USDCode || !v.IsPositive() {
			continue
		}
		if !g.accepts(code) {
			continue
		}
		out[code] = v
	}
	return out
}

func notGold(code string) bool { return code != domain.GoldCode }

func onlyGold(code string) bool { return code == domain.GoldCode }
