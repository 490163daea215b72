package services

import (
	"context"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/SscSPs/sadaqah_box_app/internal/dto"
)

// SadaqahReaderSvc defines read operations for donations
type SadaqahReaderSvc interface {
	GetSadaqah(ctx context.Context, sadaqahID string) (*domain.Sadaqah, error)
	// ListSadaqahs returns one page and the token for the next, empty when done.
	ListSadaqahs(ctx context.Context, boxID string, params dto.ListSadaqahsParams) ([]domain.Sadaqah, string, error)
}

// SadaqahWriterSvc defines write operations for donations. Both return the
// box as it stands after the aggregate update.
type SadaqahWriterSvc interface {
	AddSadaqah(ctx context.Context, boxID string, req dto.AddSadaqahRequest, creatorUserID string) ([]domain.Sadaqah, *domain.Box, error)
	DeleteSadaqah(ctx context.Context, sadaqahID, userID string) (*domain.Box, error)
}

// SadaqahSvcFacade combines all donation-related service interfaces
type SadaqahSvcFacade interface {
	SadaqahReaderSvc
	SadaqahWriterSvc
}
