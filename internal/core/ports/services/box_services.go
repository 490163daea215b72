package services

import (
	"context"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/SscSPs/sadaqah_box_app/internal/dto"
)

// BoxReaderSvc defines read operations for boxes
type BoxReaderSvc interface {
	GetBox(ctx context.Context, boxID string) (*domain.Box, error)
	ListBoxes(ctx context.Context, params dto.ListBoxesParams) ([]domain.Box, error)
	ListCollections(ctx context.Context, boxID string) ([]domain.Collection, error)
}

// BoxWriterSvc defines write operations for boxes
type BoxWriterSvc interface {
	CreateBox(ctx context.Context, req dto.CreateBoxRequest, creatorUserID string) (*domain.Box, error)
	// CollectBox snapshots and resets the box aggregate.
	CollectBox(ctx context.Context, boxID, userID string) (*domain.Collection, error)
}

// BoxSvcFacade combines all box-related service interfaces
type BoxSvcFacade interface {
	BoxReaderSvc
	BoxWriterSvc
}
