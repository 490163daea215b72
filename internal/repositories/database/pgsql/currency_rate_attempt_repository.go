package pgsql

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/apperrors"
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	portsrepo "github.com/SscSPs/sadaqah_box_app/internal/core/ports/repositories"
	"github.com/SscSPs/sadaqah_box_app/internal/models"
	"github.com/SscSPs/sadaqah_box_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const rateAttemptColumns = `currency_code, last_attempt_at, last_success_at, cached_usd_value, source_provider, attempt_count, found`

// Both upserts are single statements; the row lock taken by ON CONFLICT
// serialises concurrent writers for the same code.
const upsertSuccessQuery = `
	INSERT INTO currency_rate_attempts (` + rateAttemptColumns + `)
	VALUES ($1, $2, $2, $3, $4, 1, TRUE)
	ON CONFLICT (currency_code) DO UPDATE SET
		last_attempt_at = EXCLUDED.last_attempt_at,
		last_success_at = EXCLUDED.last_success_at,
		cached_usd_value = EXCLUDED.cached_usd_value,
		source_provider = EXCLUDED.source_provider,
		attempt_count = currency_rate_attempts.attempt_count + 1,
		found = TRUE;
`

const upsertNotFoundQuery = `
	INSERT INTO currency_rate_attempts (` + rateAttemptColumns + `)
	VALUES ($1, $2, NULL, NULL, NULL, 1, FALSE)
	ON CONFLICT (currency_code) DO UPDATE SET
		last_attempt_at = EXCLUDED.last_attempt_at,
		attempt_count = currency_rate_attempts.attempt_count + 1,
		found = FALSE;
`

// PgxCurrencyRateAttemptRepository persists per-currency fetch history.
type PgxCurrencyRateAttemptRepository struct {
	BaseRepository
}

func newPgxCurrencyRateAttemptRepository(pool *pgxpool.Pool) portsrepo.CurrencyRateAttemptRepositoryFacade {
	return &PgxCurrencyRateAttemptRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CurrencyRateAttemptRepositoryFacade = (*PgxCurrencyRateAttemptRepository)(nil)

func scanRateAttempt(row pgx.Row) (models.CurrencyRateAttempt, error) {
	var m models.CurrencyRateAttempt
	err := row.Scan(
		&m.CurrencyCode,
		&m.LastAttemptAt,
		&m.LastSuccessAt,
		&m.CachedUSDValue,
		&m.SourceProvider,
		&m.AttemptCount,
		&m.Found,
	)
	return m, err
}

func (r *PgxCurrencyRateAttemptRepository) collect(rows pgx.Rows) ([]domain.CurrencyRateAttempt, error) {
	defer rows.Close()
	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CurrencyRateAttempt, error) {
		return scanRateAttempt(row)
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.CurrencyRateAttempt, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainRateAttempt(m)
	}
	return out, nil
}

// FindAttemptByCode retrieves the attempt record for one code.
func (r *PgxCurrencyRateAttemptRepository) FindAttemptByCode(ctx context.Context, code string) (*domain.CurrencyRateAttempt, error) {
	query := `SELECT ` + rateAttemptColumns + ` FROM currency_rate_attempts WHERE currency_code = $1;`
	m, err := scanRateAttempt(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate attempt for %s: %w", code, err)
	}
	d := mapping.ToDomainRateAttempt(m)
	return &d, nil
}

// FindAttemptsByCodes retrieves the existing attempt records among codes.
func (r *PgxCurrencyRateAttemptRepository) FindAttemptsByCodes(ctx context.Context, codes []string) ([]domain.CurrencyRateAttempt, error) {
	if len(codes) == 0 {
		return []domain.CurrencyRateAttempt{}, nil
	}
	query := `SELECT ` + rateAttemptColumns + ` FROM currency_rate_attempts WHERE currency_code = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate attempts: %w", err)
	}
	attempts, err := r.collect(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan rate attempts: %w", err)
	}
	return attempts, nil
}

// ListFoundSince retrieves cached values that succeeded at or after since.
func (r *PgxCurrencyRateAttemptRepository) ListFoundSince(ctx context.Context, since time.Time) ([]domain.CurrencyRateAttempt, error) {
	query := `
		SELECT ` + rateAttemptColumns + `
		FROM currency_rate_attempts
		WHERE found AND last_success_at >= $1 AND cached_usd_value IS NOT NULL;
	`
	rows, err := r.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached rates: %w", err)
	}
	attempts, err := r.collect(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan cached rates: %w", err)
	}
	return attempts, nil
}

// UpsertSuccess records a successful fetch for one code.
func (r *PgxCurrencyRateAttemptRepository) UpsertSuccess(ctx context.Context, code string, usdValue decimal.Decimal, source string, at time.Time) error {
	if _, err := r.Pool.Exec(ctx, upsertSuccessQuery, code, at, usdValue, source); err != nil {
		return fmt.Errorf("failed to record rate success for %s: %w", code, err)
	}
	return nil
}

// UpsertSuccesses records a whole provider table in one round trip.
func (r *PgxCurrencyRateAttemptRepository) UpsertSuccesses(ctx context.Context, values map[string]decimal.Decimal, source string, at time.Time) error {
	if len(values) == 0 {
		return nil
	}
	batch := newRateTableBatch(values, source, at)
	br := r.Pool.SendBatch(ctx, batch)
	defer br.Close()

	for range batch.QueuedQueries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to record rate table from %s: %w", source, err)
		}
	}
	return nil
}

// newRateTableBatch queues one upsert per code in code order. The batch runs
// as one implicit transaction, so concurrent writers of overlapping tables
// must take their row locks in the same order.
func newRateTableBatch(values map[string]decimal.Decimal, source string, at time.Time) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, code := range slices.Sorted(maps.Keys(values)) {
		batch.Queue(upsertSuccessQuery, code, at, values[code], source)
	}
	return batch
}

// UpsertNotFound records a failed attempt, keeping any cached value.
func (r *PgxCurrencyRateAttemptRepository) UpsertNotFound(ctx context.Context, code string, at time.Time) error {
	if _, err := r.Pool.Exec(ctx, upsertNotFoundQuery, code, at); err != nil {
		return fmt.Errorf("failed to record rate miss for %s: %w", code, err)
	}
	return nil
}

// DeleteAttempt removes the record for one code.
func (r *PgxCurrencyRateAttemptRepository) DeleteAttempt(ctx context.Context, code string) error {
	if _, err := r.Pool.Exec(ctx, `DELETE FROM currency_rate_attempts WHERE currency_code = $1;`, code); err != nil {
		return fmt.Errorf("failed to clear rate attempt for %s: %w", code, err)
	}
	return nil
}

// DeleteAllAttempts removes every record.
func (r *PgxCurrencyRateAttemptRepository) DeleteAllAttempts(ctx context.Context) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM currency_rate_attempts;`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear rate attempts: %w", err)
	}
	return tag.RowsAffected(), nil
}
