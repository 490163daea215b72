package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtraBucket is the JSON shape stored per currency in boxes.total_value_extra.
type ExtraBucket struct {
	Total decimal.Decimal `json:"total"`
	Code  string          `json:"code"`
	Name  string          `json:"name"`
}

// Box is the row shape of the boxes table.
type Box struct {
	BoxID           string                 `json:"boxID"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	BaseCurrencyID  string                 `json:"baseCurrencyID"`
	Count           int64                  `json:"count"`
	TotalValue      decimal.Decimal        `json:"totalValue"`
	TotalValueExtra map[string]ExtraBucket `json:"totalValueExtra"` // jsonb
	AuditFields
}

// Collection is the row shape of the collections table.
type Collection struct {
	CollectionID    string                 `json:"collectionID"`
	BoxID           string                 `json:"boxID"`
	BaseCurrencyID  string                 `json:"baseCurrencyID"`
	Count           int64                  `json:"count"`
	TotalValue      decimal.Decimal        `json:"totalValue"`
	TotalValueExtra map[string]ExtraBucket `json:"totalValueExtra"`
	CollectedAt     time.Time              `json:"collectedAt"`
	AuditFields
}
