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
	"github.com/SscSPs/sadaqah_box_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sadaqahColumns = `sadaqah_id, box_id, currency_id, value, notes, value_in_base, collection_id, donated_at, created_at, created_by, last_updated_at, last_updated_by`

// PgxSadaqahRepository stores individual donations.
type PgxSadaqahRepository struct {
	BaseRepository
}

func newPgxSadaqahRepository(pool *pgxpool.Pool) portsrepo.SadaqahRepositoryFacade {
	return &PgxSadaqahRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SadaqahRepositoryFacade = (*PgxSadaqahRepository)(nil)

func scanSadaqah(row pgx.Row) (models.Sadaqah, error) {
	var m models.Sadaqah
	err := row.Scan(
		&m.SadaqahID, &m.BoxID, &m.CurrencyID, &m.Value, &m.Notes, &m.ValueInBase, &m.CollectionID,
		&m.DonatedAt, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// InsertSadaqah inserts a donation row inside tx.
func (r *PgxSadaqahRepository) InsertSadaqah(ctx context.Context, tx pgx.Tx, sadaqah domain.Sadaqah) error {
	m := mapping.ToModelSadaqah(sadaqah)
	query := `
		INSERT INTO sadaqahs (` + sadaqahColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		m.SadaqahID, m.BoxID, m.CurrencyID, m.Value, m.Notes, m.ValueInBase, m.CollectionID,
		m.DonatedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sadaqah %s: %w", m.SadaqahID, err)
	}
	return nil
}

// DeleteSadaqah removes a donation row inside tx.
func (r *PgxSadaqahRepository) DeleteSadaqah(ctx context.Context, tx pgx.Tx, sadaqahID string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM sadaqahs WHERE sadaqah_id = $1;`, sadaqahID)
	if err != nil {
		return fmt.Errorf("failed to delete sadaqah %s: %w", sadaqahID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkCollected stamps every uncollected donation of a box with collectionID.
func (r *PgxSadaqahRepository) MarkCollected(ctx context.Context, tx pgx.Tx, boxID, collectionID string) (int64, error) {
	query := `UPDATE sadaqahs SET collection_id = $2 WHERE box_id = $1 AND collection_id IS NULL;`
	tag, err := tx.Exec(ctx, query, boxID, collectionID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark sadaqahs of box %s collected: %w", boxID, err)
	}
	return tag.RowsAffected(), nil
}

// FindSadaqahByID retrieves a donation by its ID.
func (r *PgxSadaqahRepository) FindSadaqahByID(ctx context.Context, sadaqahID string) (*domain.Sadaqah, error) {
	query := `SELECT ` + sadaqahColumns + ` FROM sadaqahs WHERE sadaqah_id = $1;`
	m, err := scanSadaqah(r.Pool.QueryRow(ctx, query, sadaqahID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sadaqah %s: %w", sadaqahID, err)
	}
	d := mapping.ToDomainSadaqah(m)
	return &d, nil
}

// ListSadaqahsByBox retrieves a page of donations for a box, newest first.
func (r *PgxSadaqahRepository) ListSadaqahsByBox(ctx context.Context, boxID string, limit int, after *pagination.Cursor) ([]domain.Sadaqah, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == nil {
		query := `
			SELECT ` + sadaqahColumns + ` FROM sadaqahs
			WHERE box_id = $1
			ORDER BY donated_at DESC, sadaqah_id DESC
			LIMIT $2;
		`
		rows, err = r.Pool.Query(ctx, query, boxID, limit)
	} else {
		query := `
			SELECT ` + sadaqahColumns + ` FROM sadaqahs
			WHERE box_id = $1 AND (donated_at, sadaqah_id) < ($2, $3::uuid)
			ORDER BY donated_at DESC, sadaqah_id DESC
			LIMIT $4;
		`
		rows, err = r.Pool.Query(ctx, query, boxID, after.DonatedAt, after.ID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sadaqahs for box %s: %w", boxID, err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Sadaqah, error) {
		return scanSadaqah(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan sadaqahs: %w", err)
	}
	out := make([]domain.Sadaqah, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainSadaqah(m)
	}
	return out, nil
}
