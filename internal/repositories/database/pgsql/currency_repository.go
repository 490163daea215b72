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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const currencyColumns = `currency_id, code, symbol, name, usd_value, last_rate_update, created_at, created_by, last_updated_at, last_updated_by`

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

func scanCurrency(row pgx.Row) (models.Currency, error) {
	var m models.Currency
	err := row.Scan(
		&m.CurrencyID,
		&m.Code,
		&m.Symbol,
		&m.Name,
		&m.USDValue,
		&m.LastRateUpdate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveCurrency inserts a new currency.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)

	query := `
		INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CurrencyID,
		m.Code,
		m.Symbol,
		m.Name,
		m.USDValue,
		m.LastRateUpdate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save currency %s: %w", m.Code, err)
	}
	return nil
}

// FindCurrencyByID retrieves a currency by its ID.
func (r *PgxCurrencyRepository) FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_id = $1;`
	m, err := scanCurrency(r.Pool.QueryRow(ctx, query, currencyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by id %s: %w", currencyID, err)
	}
	d := mapping.ToDomainCurrency(m)
	return &d, nil
}

// FindCurrencyByCode retrieves a currency by its code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE code = $1;`
	m, err := scanCurrency(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", code, err)
	}
	d := mapping.ToDomainCurrency(m)
	return &d, nil
}

// ListCurrencies retrieves all currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	modelCurrencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}

	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

// UpdateUSDValues writes the latest USD value for every matching code in one statement.
func (r *PgxCurrencyRepository) UpdateUSDValues(ctx context.Context, values map[string]decimal.Decimal, at time.Time) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	codes, amounts := sortedUSDValues(values)

	// Rows are locked in code order so overlapping table writes cannot deadlock.
	query := `
		WITH v AS (
			SELECT * FROM UNNEST($1::text[], $2::text[]) AS v(code, usd_value)
		), locked AS (
			SELECT c.currency_id, v.usd_value
			FROM currencies AS c
			JOIN v ON c.code = v.code
			ORDER BY c.code
			FOR UPDATE OF c
		)
		UPDATE currencies AS c
		SET usd_value = l.usd_value::numeric,
			last_rate_update = $3,
			last_updated_at = $3,
			last_updated_by = 'rates'
		FROM locked AS l
		WHERE c.currency_id = l.currency_id;
	`
	tag, err := r.Pool.Exec(ctx, query, codes, amounts, at)
	if err != nil {
		return 0, fmt.Errorf("failed to update currency usd values: %w", err)
	}
	return tag.RowsAffected(), nil
}

func sortedUSDValues(values map[string]decimal.Decimal) (codes, amounts []string) {
	codes = slices.Sorted(maps.Keys(values))
	amounts = make([]string, 0, len(codes))
	for _, code := range codes {
		amounts = append(amounts, values[code].String())
	}
	return codes, amounts
}
