package mapping

import (
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/SscSPs/sadaqah_box_app/internal/models"
)

// ToModelExtraTotals converts domain extra buckets to their jsonb shape.
func ToModelExtraTotals(d domain.ExtraTotals) map[string]models.ExtraBucket {
	out := make(map[string]models.ExtraBucket, len(d))
	for id, b := range d {
		out[id] = models.ExtraBucket{Total: b.Total, Code: b.Code, Name: b.Name}
	}
	return out
}

// ToDomainExtraTotals converts jsonb extra buckets to their domain form.
func ToDomainExtraTotals(m map[string]models.ExtraBucket) domain.ExtraTotals {
	out := make(domain.ExtraTotals, len(m))
	for id, b := range m {
		out[id] = domain.ExtraBucket{Total: b.Total, Code: b.Code, Name: b.Name}
	}
	return out
}

// ToModelBox converts a domain Box to a model Box
func ToModelBox(d domain.Box) models.Box {
	return models.Box{
		BoxID:           d.BoxID,
		Name:            d.Name,
		Description:     d.Description,
		BaseCurrencyID:  d.BaseCurrencyID,
		Count:           d.Count,
		TotalValue:      d.TotalValue,
		TotalValueExtra: ToModelExtraTotals(d.TotalValueExtra),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBox converts a model Box to a domain Box
func ToDomainBox(m models.Box) domain.Box {
	return domain.Box{
		BoxID:          m.BoxID,
		Name:           m.Name,
		Description:    m.Description,
		BaseCurrencyID: m.BaseCurrencyID,
		BoxAggregate: domain.BoxAggregate{
			Count:           m.Count,
			TotalValue:      m.TotalValue,
			TotalValueExtra: ToDomainExtraTotals(m.TotalValueExtra),
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCollection converts a domain Collection to a model Collection
func ToModelCollection(d domain.Collection) models.Collection {
	return models.Collection{
		CollectionID:    d.CollectionID,
		BoxID:           d.BoxID,
		BaseCurrencyID:  d.BaseCurrencyID,
		Count:           d.Count,
		TotalValue:      d.TotalValue,
		TotalValueExtra: ToModelExtraTotals(d.TotalValueExtra),
		CollectedAt:     d.CollectedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCollection converts a model Collection to a domain Collection
func ToDomainCollection(m models.Collection) domain.Collection {
	return domain.Collection{
		CollectionID:   m.CollectionID,
		BoxID:          m.BoxID,
		BaseCurrencyID: m.BaseCurrencyID,
		CollectedAt:    m.CollectedAt,
		BoxAggregate: domain.BoxAggregate{
			Count:           m.Count,
			TotalValue:      m.TotalValue,
			TotalValueExtra: ToDomainExtraTotals(m.TotalValueExtra),
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
