package dto

import (
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBoxRequest defines the data needed to create a new box.
type CreateBoxRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	Description    string `json:"description"`
	BaseCurrencyID string `json:"baseCurrencyID" binding:"required,uuid"`
}

// ListBoxesParams defines query parameters for listing boxes.
type ListBoxesParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ExtraBucketResponse is one unconverted per-currency total.
type ExtraBucketResponse struct {
	CurrencyID string          `json:"currencyID"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
}

// BoxResponse defines the data returned for a box.
type BoxResponse struct {
	BoxID           string                         `json:"boxID"`
	Name            string                         `json:"name"`
	Description     string                         `json:"description"`
	BaseCurrencyID  string                         `json:"baseCurrencyID"`
	Count           int64                          `json:"count"`
	TotalValue      decimal.Decimal                `json:"totalValue"`
	TotalValueExtra map[string]ExtraBucketResponse `json:"totalValueExtra"`
	CreatedAt       time.Time                      `json:"createdAt"`
	CreatedBy       string                         `json:"createdBy"`
	LastUpdatedAt   time.Time                      `json:"lastUpdatedAt"`
	LastUpdatedBy   string                         `json:"lastUpdatedBy"`
}

// ListBoxesResponse wraps the list of boxes.
type ListBoxesResponse struct {
	Boxes []BoxResponse `json:"boxes"`
}

// CollectionResponse defines the data returned for a collection.
type CollectionResponse struct {
	CollectionID    string                         `json:"collectionID"`
	BoxID           string                         `json:"boxID"`
	BaseCurrencyID  string                         `json:"baseCurrencyID"`
	Count           int64                          `json:"count"`
	TotalValue      decimal.Decimal                `json:"totalValue"`
	TotalValueExtra map[string]ExtraBucketResponse `json:"totalValueExtra"`
	CollectedAt     time.Time                      `json:"collectedAt"`
	CollectedBy     string                         `json:"collectedBy"`
}

// ListCollectionsResponse wraps the collection history of a box.
type ListCollectionsResponse struct {
	Collections []CollectionResponse `json:"collections"`
}

func toExtraResponse(extra domain.ExtraTotals) map[string]ExtraBucketResponse {
	out := make(map[string]ExtraBucketResponse, len(extra))
	for currencyID, b := range extra {
		out[currencyID] = ExtraBucketResponse{
			CurrencyID: currencyID,
			Code:       b.Code,
			Name:       b.Name,
			Total:      b.Total,
		}
	}
	return out
}

// ToBoxResponse converts a domain.Box to BoxResponse DTO
func ToBoxResponse(b *domain.Box) BoxResponse {
	return BoxResponse{
		BoxID:           b.BoxID,
		Name:            b.Name,
		Description:     b.Description,
		BaseCurrencyID:  b.BaseCurrencyID,
		Count:           b.Count,
		TotalValue:      b.TotalValue,
		TotalValueExtra: toExtraResponse(b.TotalValueExtra),
		CreatedAt:       b.CreatedAt,
		CreatedBy:       b.CreatedBy,
		LastUpdatedAt:   b.LastUpdatedAt,
		LastUpdatedBy:   b.LastUpdatedBy,
	}
}

// ToListBoxesResponse converts a slice of domain.Box to ListBoxesResponse DTO
func ToListBoxesResponse(boxes []domain.Box) ListBoxesResponse {
	res := ListBoxesResponse{Boxes: make([]BoxResponse, len(boxes))}
	for i := range boxes {
		res.Boxes[i] = ToBoxResponse(&boxes[i])
	}
	return res
}

// ToCollectionResponse converts a domain.Collection to CollectionResponse DTO
func ToCollectionResponse(c *domain.Collection) CollectionResponse {
	return CollectionResponse{
		CollectionID:    c.CollectionID,
		BoxID:           c.BoxID,
		BaseCurrencyID:  c.BaseCurrencyID,
		Count:           c.Count,
		TotalValue:      c.TotalValue,
		TotalValueExtra: toExtraResponse(c.TotalValueExtra),
		CollectedAt:     c.CollectedAt,
		CollectedBy:     c.CreatedBy,
	}
}

// ToListCollectionsResponse converts a slice of domain.Collection to ListCollectionsResponse DTO
func ToListCollectionsResponse(cs []domain.Collection) ListCollectionsResponse {
	res := ListCollectionsResponse{Collections: make([]CollectionResponse, len(cs))}
	for i := range cs {
		res.Collections[i] = ToCollectionResponse(&cs[i])
	}
	return res
}
