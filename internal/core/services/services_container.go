package services

import (
	portsrepo "github.com/SscSPs/sadaqah_box_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sadaqah_box_app/internal/core/ports/services"
	"github.com/SscSPs/sadaqah_box_app/internal/platform/config"
	"github.com/SscSPs/sadaqah_box_app/internal/ratesources"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	groups []ratesources.Group,
	background TaskSubmitter,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)

	// The coordinator owns the provider chain and is its write-through sink.
	store := NewRateAttemptStore(repos.RateAttemptRepo)
	container.Rates = NewRateCoordinator(
		store,
		repos.CurrencyRepo,
		groups,
		WithAttemptCooldown(cfg.RateAttemptCooldown),
		WithCacheMaxAge(cfg.RateCacheMaxAge),
	)

	container.Box = NewBoxService(repos.BoxRepo, repos.SadaqahRepo, repos.CurrencyRepo)
	container.Sadaqah = NewSadaqahService(
		repos.BoxRepo,
		repos.SadaqahRepo,
		repos.CurrencyRepo,
		container.Rates,
		WithBackgroundRefresh(background),
		WithRateStaleness(cfg.RateCacheMaxAge),
	)

	return container
}
