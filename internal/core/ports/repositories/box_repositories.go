package repositories

import (
	"context"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// BoxReader defines read operations for boxes
type BoxReader interface {
	FindBoxByID(ctx context.Context, boxID string) (*domain.Box, error)
	ListBoxes(ctx context.Context, limit, offset int) ([]domain.Box, error)
	ListCollections(ctx context.Context, boxID string) ([]domain.Collection, error)
}

// BoxWriter defines write operations for boxes.
// Aggregate mutations run inside a caller-owned transaction.
type BoxWriter interface {
	SaveBox(ctx context.Context, box domain.Box) error
	// FindBoxForUpdate loads a box and locks its row until tx ends.
	FindBoxForUpdate(ctx context.Context, tx pgx.Tx, boxID string) (*domain.Box, error)
	UpdateBoxAggregate(ctx context.Context, tx pgx.Tx, box domain.Box) error
	SaveCollection(ctx context.Context, tx pgx.Tx, collection domain.Collection) error
}

// BoxRepositoryFacade combines all box-related repository interfaces
type BoxRepositoryFacade interface {
	BoxReader
	BoxWriter
}

// BoxRepositoryWithTx extends BoxRepositoryFacade with transaction capabilities
type BoxRepositoryWithTx interface {
	BoxRepositoryFacade
	TransactionManager
}
