package pgsql

import (
	portsrepo "github.com/SscSPs/sadaqah_box_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:    newPgxCurrencyRepository(dbPool),
		RateAttemptRepo: newPgxCurrencyRateAttemptRepository(dbPool),
		BoxRepo:         newPgxBoxRepository(dbPool),
		SadaqahRepo:     newPgxSadaqahRepository(dbPool),
	}
}
