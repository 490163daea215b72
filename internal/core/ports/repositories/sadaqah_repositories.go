package repositories

import (
	"context"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/SscSPs/sadaqah_box_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

// SadaqahReader defines read operations for donations
type SadaqahReader interface {
	FindSadaqahByID(ctx context.Context, sadaqahID string) (*domain.Sadaqah, error)
	// ListSadaqahsByBox returns up to limit rows ordered newest first, starting after cursor when set.
	ListSadaqahsByBox(ctx context.Context, boxID string, limit int, after *pagination.Cursor) ([]domain.Sadaqah, error)
}

// SadaqahWriter defines write operations for donations, always within the
// transaction that also mutates the owning box aggregate.
type SadaqahWriter interface {
	InsertSadaqah(ctx context.Context, tx pgx.Tx, sadaqah domain.Sadaqah) error
	DeleteSadaqah(ctx context.Context, tx pgx.Tx, sadaqahID string) error
	// MarkCollected stamps the box's uncollected donations and returns how many changed.
	MarkCollected(ctx context.Context, tx pgx.Tx, boxID, collectionID string) (int64, error)
}

// SadaqahRepositoryFacade combines all donation-related repository interfaces
type SadaqahRepositoryFacade interface {
	SadaqahReader
	SadaqahWriter
}
