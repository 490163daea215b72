package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sadaqah is one recorded donation against a box.
//
// ValueInBase is the amount credited to the box's TotalValue when the donation
// was added; nil means the raw Value was parked in TotalValueExtra.
// CollectionID is set once the box was emptied with this donation in it.
type Sadaqah struct {
	SadaqahID    string           `json:"sadaqahID"`
	BoxID        string           `json:"boxID"`
	CurrencyID   string           `json:"currencyID"`
	Value        decimal.Decimal  `json:"value"` // Raw amount in CurrencyID
	Notes        string           `json:"notes"`
	ValueInBase  *decimal.Decimal `json:"valueInBase"`
	CollectionID *string          `json:"collectionID,omitempty"`
	DonatedAt    time.Time        `json:"donatedAt"`
	AuditFields
}

// Unconverted reports whether the donation was routed into the extra bucket.
func (s *Sadaqah) Unconverted() bool {
	return s.ValueInBase == nil
}

// Collected reports whether the donation was already taken out of its box.
func (s *Sadaqah) Collected() bool {
	return s.CollectionID != nil
}
