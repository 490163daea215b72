package mapping

import (
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/SscSPs/sadaqah_box_app/internal/models"
)

// ToDomainRateAttempt converts a model CurrencyRateAttempt to its domain form.
func ToDomainRateAttempt(m models.CurrencyRateAttempt) domain.CurrencyRateAttempt {
	return domain.CurrencyRateAttempt{
		CurrencyCode:   m.CurrencyCode,
		LastAttemptAt:  m.LastAttemptAt,
		LastSuccessAt:  m.LastSuccessAt,
		CachedUSDValue: FromNullDecimal(m.CachedUSDValue),
		SourceProvider: m.SourceProvider,
		AttemptCount:   m.AttemptCount,
		Found:          m.Found,
	}
}
