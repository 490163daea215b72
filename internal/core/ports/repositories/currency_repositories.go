package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByID retrieves a currency by its ID.
	FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error)

	// FindCurrencyByCode retrieves a specific currency by its code.
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// UpdateUSDValues writes usd_value/last_rate_update for every known code in
	// values and returns how many rows changed. Unknown codes are ignored.
	UpdateUSDValues(ctx context.Context, values map[string]decimal.Decimal, at time.Time) (int64, error)
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}
