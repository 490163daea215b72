package mapping

import (
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/SscSPs/sadaqah_box_app/internal/models"
)

// ToModelSadaqah converts a domain Sadaqah to a model Sadaqah
func ToModelSadaqah(d domain.Sadaqah) models.Sadaqah {
	var notes *string
	if d.Notes != "" {
		n := d.Notes
		notes = &n
	}
	return models.Sadaqah{
		SadaqahID:    d.SadaqahID,
		BoxID:        d.BoxID,
		CurrencyID:   d.CurrencyID,
		Value:        d.Value,
		Notes:        notes,
		ValueInBase:  ToNullDecimal(d.ValueInBase),
		CollectionID: d.CollectionID,
		DonatedAt:    d.DonatedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSadaqah converts a model Sadaqah to a domain Sadaqah
func ToDomainSadaqah(m models.Sadaqah) domain.Sadaqah {
	notes := ""
	if m.Notes != nil {
		notes = *m.Notes
	}
	return domain.Sadaqah{
		SadaqahID:    m.SadaqahID,
		BoxID:        m.BoxID,
		CurrencyID:   m.CurrencyID,
		Value:        m.Value,
		Notes:        notes,
		ValueInBase:  FromNullDecimal(m.ValueInBase),
		CollectionID: m.CollectionID,
		DonatedAt:    m.DonatedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
