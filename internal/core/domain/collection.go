package domain

import "time"

// Collection records a box being emptied, with the totals it held at that moment.
type Collection struct {
	CollectionID   string    `json:"collectionID"`
	BoxID          string    `json:"boxID"`
	BaseCurrencyID string    `json:"baseCurrencyID"`
	CollectedAt    time.Time `json:"collectedAt"`
	BoxAggregate
	AuditFields
}
