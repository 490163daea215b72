package dto

import (
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the data needed to create a new currency.
type CreateCurrencyRequest struct {
	Code     string           `json:"code" binding:"required,currencycode"`
	Symbol   string           `json:"symbol" binding:"required"`
	Name     string           `json:"name" binding:"required"`
	USDValue *decimal.Decimal `json:"usdValue"` // Optional manual rate, USD per unit
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyID     string           `json:"currencyID"`
	Code           string           `json:"code"`
	Symbol         string           `json:"symbol"`
	Name           string           `json:"name"`
	USDValue       *decimal.Decimal `json:"usdValue"`
	LastRateUpdate *time.Time       `json:"lastRateUpdate"`
	CreatedAt      time.Time        `json:"createdAt"`
	CreatedBy      string           `json:"createdBy"`
	LastUpdatedAt  time.Time        `json:"lastUpdatedAt"`
	LastUpdatedBy  string           `json:"lastUpdatedBy"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyID:     curr.CurrencyID,
		Code:           curr.Code,
		Symbol:         curr.Symbol,
		Name:           curr.Name,
		USDValue:       curr.USDValue,
		LastRateUpdate: curr.LastRateUpdate,
		CreatedAt:      curr.CreatedAt,
		CreatedBy:      curr.CreatedBy,
		LastUpdatedAt:  curr.LastUpdatedAt,
		LastUpdatedBy:  curr.LastUpdatedBy,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
