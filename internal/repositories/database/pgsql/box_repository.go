package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/sadaqah_box_app/internal/apperrors"
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	portsrepo "github.com/SscSPs/sadaqah_box_app/internal/core/ports/repositories"
	"github.com/SscSPs/sadaqah_box_app/internal/models"
	"github.com/SscSPs/sadaqah_box_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const boxColumns = `box_id, name, description, base_currency_id, count, total_value, total_value_extra, created_at, created_by, last_updated_at, last_updated_by`

// PgxBoxRepository stores boxes, their aggregates, and collections.
type PgxBoxRepository struct {
	BaseRepository
}

func newPgxBoxRepository(pool *pgxpool.Pool) portsrepo.BoxRepositoryWithTx {
	return &PgxBoxRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BoxRepositoryWithTx = (*PgxBoxRepository)(nil)

func scanBox(row pgx.Row) (models.Box, error) {
	var m models.Box
	err := row.Scan(
		&m.BoxID,
		&m.Name,
		&m.Description,
		&m.BaseCurrencyID,
		&m.Count,
		&m.TotalValue,
		&m.TotalValueExtra,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveBox inserts a new box with an empty aggregate.
func (r *PgxBoxRepository) SaveBox(ctx context.Context, box domain.Box) error {
	m := mapping.ToModelBox(box)
	query := `
		INSERT INTO boxes (` + boxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BoxID, m.Name, m.Description, m.BaseCurrencyID,
		m.Count, m.TotalValue, m.TotalValueExtra,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save box %s: %w", m.BoxID, err)
	}
	return nil
}

// FindBoxByID retrieves a box by its ID.
func (r *PgxBoxRepository) FindBoxByID(ctx context.Context, boxID string) (*domain.Box, error) {
	query := `SELECT ` + boxColumns + ` FROM boxes WHERE box_id = $1;`
	m, err := scanBox(r.Pool.QueryRow(ctx, query, boxID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find box %s: %w", boxID, err)
	}
	d := mapping.ToDomainBox(m)
	return &d, nil
}

// FindBoxForUpdate retrieves a box and holds a row lock for the rest of tx.
func (r *PgxBoxRepository) FindBoxForUpdate(ctx context.Context, tx pgx.Tx, boxID string) (*domain.Box, error) {
	query := `SELECT ` + boxColumns + ` FROM boxes WHERE box_id = $1 FOR UPDATE;`
	m, err := scanBox(tx.QueryRow(ctx, query, boxID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock box %s: %w", boxID, err)
	}
	d := mapping.ToDomainBox(m)
	return &d, nil
}

// ListBoxes retrieves boxes ordered by creation time.
func (r *PgxBoxRepository) ListBoxes(ctx context.Context, limit, offset int) ([]domain.Box, error) {
	query := `SELECT ` + boxColumns + ` FROM boxes ORDER BY created_at DESC, box_id LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query boxes: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Box, error) {
		return scanBox(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan boxes: %w", err)
	}
	boxes := make([]domain.Box, len(ms))
	for i, m := range ms {
		boxes[i] = mapping.ToDomainBox(m)
	}
	return boxes, nil
}

// UpdateBoxAggregate writes count and totals computed by the caller under the row lock.
func (r *PgxBoxRepository) UpdateBoxAggregate(ctx context.Context, tx pgx.Tx, box domain.Box) error {
	m := mapping.ToModelBox(box)
	query := `
		UPDATE boxes
		SET count = $2, total_value = $3, total_value_extra = $4, last_updated_at = $5, last_updated_by = $6
		WHERE box_id = $1;
	`
	tag, err := tx.Exec(ctx, query, m.BoxID, m.Count, m.TotalValue, m.TotalValueExtra, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update aggregate of box %s: %w", m.BoxID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveCollection records a box being emptied.
func (r *PgxBoxRepository) SaveCollection(ctx context.Context, tx pgx.Tx, collection domain.Collection) error {
	m := mapping.ToModelCollection(collection)
	query := `
		INSERT INTO collections (
			collection_id, box_id, base_currency_id, count, total_value, total_value_extra,
			collected_at, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.CollectionID, m.BoxID, m.BaseCurrencyID, m.Count, m.TotalValue, m.TotalValueExtra,
		m.CollectedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save collection for box %s: %w", m.BoxID, err)
	}
	return nil
}

// ListCollections retrieves a box's collection history, newest first.
func (r *PgxBoxRepository) ListCollections(ctx context.Context, boxID string) ([]domain.Collection, error) {
	query := `
		SELECT collection_id, box_id, base_currency_id, count, total_value, total_value_extra,
			collected_at, created_at, created_by, last_updated_at, last_updated_by
		FROM collections
		WHERE box_id = $1
		ORDER BY collected_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, boxID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Collection, error) {
		var m models.Collection
		err := row.Scan(
			&m.CollectionID, &m.BoxID, &m.BaseCurrencyID, &m.Count, &m.TotalValue, &m.TotalValueExtra,
			&m.CollectedAt, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan collections: %w", err)
	}
	out := make([]domain.Collection, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainCollection(m)
	}
	return out, nil
}
