package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sadaqah is the row shape of the sadaqahs table.
type Sadaqah struct {
	SadaqahID    string              `json:"sadaqahID"`
	BoxID        string              `json:"boxID"`
	CurrencyID   string              `json:"currencyID"`
	Value        decimal.Decimal     `json:"value"`
	Notes        *string             `json:"notes"`
	ValueInBase  decimal.NullDecimal `json:"valueInBase"` // NULL when parked in total_value_extra
	CollectionID *string             `json:"collectionID"`
	DonatedAt    time.Time           `json:"donatedAt"`
	AuditFields
}
