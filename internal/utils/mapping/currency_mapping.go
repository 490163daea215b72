package mapping

import (
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/SscSPs/sadaqah_box_app/internal/models"
)

// ToModelCurrency converts a domain Currency to a model Currency
func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		CurrencyID:     d.CurrencyID,
		Code:           d.Code,
		Symbol:         d.Symbol,
		Name:           d.Name,
		USDValue:       ToNullDecimal(d.USDValue),
		LastRateUpdate: d.LastRateUpdate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyID:     m.CurrencyID,
		Code:           m.Code,
		Symbol:         m.Symbol,
		Name:           m.Name,
		USDValue:       FromNullDecimal(m.USDValue),
		LastRateUpdate: m.LastRateUpdate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCurrencySlice converts a slice of model Currencies to a slice of domain Currencies
func ToDomainCurrencySlice(ms []models.Currency) []domain.Currency {
	ds := make([]domain.Currency, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCurrency(m)
	}
	return ds
}
