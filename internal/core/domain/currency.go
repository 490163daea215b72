package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// USDCode is the bridge currency every rate is expressed against.
const USDCode = "USD"

// GoldCode is the commodity code for gold, priced per gram.
const GoldCode = "XAU"

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyID     string           `json:"currencyID"`     // Primary Key (UUID)
	Code           string           `json:"code"`           // Unique, uppercase (e.g., "USD", "XAU", "BTC")
	Symbol         string           `json:"symbol"`         // e.g., "$"
	Name           string           `json:"name"`           // e.g., "US Dollar"
	USDValue       *decimal.Decimal `json:"usdValue"`       // USD value of one unit, nil until a rate is known
	LastRateUpdate *time.Time       `json:"lastRateUpdate"` // When USDValue was last written
	AuditFields
}

// HasRate reports whether a USD value is known for the currency.
func (c *Currency) HasRate() bool {
	return c != nil && c.USDValue != nil
}
