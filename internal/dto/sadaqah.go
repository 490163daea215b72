package dto

import (
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AddSadaqahRequest defines the data needed to record a donation.
type AddSadaqahRequest struct {
	CurrencyID string          `json:"currencyID" binding:"required,uuid"`
	Value      decimal.Decimal `json:"value" binding:"required"`
	Amount     int             `json:"amount" binding:"omitempty,min=1,max=1000"` // Repeats the donation, default 1
	Notes      string          `json:"notes" binding:"max=1000"`
	DonatedAt  *time.Time      `json:"donatedAt"` // Optional, defaults to now
}

// ListSadaqahsParams defines query parameters for listing donations.
type ListSadaqahsParams struct {
	Limit     int    `form:"limit,default=20"`
	NextToken string `form:"nextToken"`
}

// SadaqahResponse defines the data returned for a donation.
type SadaqahResponse struct {
	SadaqahID    string           `json:"sadaqahID"`
	BoxID        string           `json:"boxID"`
	CurrencyID   string           `json:"currencyID"`
	Value        decimal.Decimal  `json:"value"`
	ValueInBase  *decimal.Decimal `json:"valueInBase"` // null when kept in totalValueExtra
	Notes        string           `json:"notes"`
	CollectionID *string          `json:"collectionID,omitempty"`
	DonatedAt    time.Time        `json:"donatedAt"`
	CreatedAt    time.Time        `json:"createdAt"`
	CreatedBy    string           `json:"createdBy"`
}

// AddSadaqahResponse returns the new donations with the updated box.
type AddSadaqahResponse struct {
	Sadaqahs []SadaqahResponse `json:"sadaqahs"`
	Box      BoxResponse       `json:"box"`
}

// ListSadaqahsResponse wraps one page of donations.
type ListSadaqahsResponse struct {
	Sadaqahs  []SadaqahResponse `json:"sadaqahs"`
	NextToken string            `json:"nextToken,omitempty"`
}

// ToSadaqahResponse converts a domain.Sadaqah to SadaqahResponse DTO
func ToSadaqahResponse(s *domain.Sadaqah) SadaqahResponse {
	return SadaqahResponse{
		SadaqahID:    s.SadaqahID,
		BoxID:        s.BoxID,
		CurrencyID:   s.CurrencyID,
		Value:        s.Value,
		ValueInBase:  s.ValueInBase,
		Notes:        s.Notes,
		CollectionID: s.CollectionID,
		DonatedAt:    s.DonatedAt,
		CreatedAt:    s.CreatedAt,
		CreatedBy:    s.CreatedBy,
	}
}

// ToSadaqahResponses converts a slice of domain.Sadaqah to []SadaqahResponse.
func ToSadaqahResponses(ss []domain.Sadaqah) []SadaqahResponse {
	out := make([]SadaqahResponse, len(ss))
	for i := range ss {
		out[i] = ToSadaqahResponse(&ss[i])
	}
	return out
}
