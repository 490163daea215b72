package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/apperrors"
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	portsrepo "github.com/SscSPs/sadaqah_box_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sadaqah_box_app/internal/core/ports/services"
	"github.com/SscSPs/sadaqah_box_app/internal/metrics"
	"github.com/SscSPs/sadaqah_box_app/internal/ratesources"
	"github.com/shopspring/decimal"
)

const (
	defaultAttemptCooldown = time.Hour
	defaultCacheMaxAge     = 6 * time.Hour
)

// rateCoordinator decides, per requested code, between the attempt cache,
// a live provider lookup, and reporting the code as unavailable.
type rateCoordinator struct {
	BaseService
	store        *RateAttemptStore
	currencyRepo portsrepo.CurrencyRepositoryFacade
	chain        *ratesources.Chain
	cooldown     time.Duration
	maxAge       time.Duration
}

// RateCoordinatorOption configures the coordinator.
type RateCoordinatorOption func(*rateCoordinator)

// WithAttemptCooldown sets the minimum spacing between live attempts for one code.
func WithAttemptCooldown(d time.Duration) RateCoordinatorOption {
	return func(c *rateCoordinator) {
		if d > 0 {
			c.cooldown = d
		}
	}
}

// WithCacheMaxAge sets how long a successful value is served from the attempt cache.
func WithCacheMaxAge(d time.Duration) RateCoordinatorOption {
	return func(c *rateCoordinator) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// WithCoordinatorClock replaces the wall clock used for rate-update timestamps.
func WithCoordinatorClock(now func() time.Time) RateCoordinatorOption {
	return func(c *rateCoordinator) { c.now = now }
}

// NewRateCoordinator wires the provider groups into a chain that writes every
// successful table through to both the attempt store and the currencies.
func NewRateCoordinator(
	store *RateAttemptStore,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	groups []ratesources.Group,
	opts ...RateCoordinatorOption,
) portssvc.RateSvcFacade {
	c := &rateCoordinator{
		store:        store,
		currencyRepo: currencyRepo,
		cooldown:     defaultAttemptCooldown,
		maxAge:       defaultCacheMaxAge,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.chain = ratesources.NewChain(groups, ratesources.WithSink(c))
	return c
}

var (
	_ portssvc.RateSvcFacade = (*rateCoordinator)(nil)
	_ ratesources.Sink       = (*rateCoordinator)(nil)
)

// StoreRates is the write-through target of the chain.
func (c *rateCoordinator) StoreRates(ctx context.Context, source string, rates map[string]decimal.Decimal) error {
	if err := c.store.RecordSuccesses(ctx, rates, source); err != nil {
		return err
	}
	if _, err := c.currencyRepo.UpdateUSDValues(ctx, rates, c.Now()); err != nil {
		return fmt.Errorf("failed to update currency usd values from %s: %w", source, err)
	}
	return nil
}

func normalizeCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = normalizeCode(code)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// FetchRatesFor serves codes from the cache, then from providers for codes out
// of cooldown. Codes in cooldown are reported NotFound for this call only.
// Store failures degrade to "not cached" and are reported in Errors.
func (c *rateCoordinator) FetchRatesFor(ctx context.Context, codes []string) *domain.RateResult {
	res := domain.NewRateResult()
	logger := c.GetLogger(ctx)

	remaining := make([]string, 0, len(codes))
	for _, code := range normalizeCodes(codes) {
		if code == domain.USDCode {
			res.Rates[code] = decimal.NewFromInt(1)
			continue
		}
		remaining = append(remaining, code)
	}
	if len(remaining) == 0 {
		return res
	}

	cached, err := c.store.GetAllCached(ctx, c.maxAge)
	if err != nil {
		c.LogError(ctx, err, "Failed to read rate cache, treating as empty")
		res.Errors = append(res.Errors, "cache: "+err.Error())
		cached = nil
	}
	uncached := make([]string, 0, len(remaining))
	for _, code := range remaining {
		if v, ok := cached[code]; ok {
			res.Rates[code] = v
			res.FromCache = append(res.FromCache, code)
			continue
		}
		uncached = append(uncached, code)
	}
	metrics.RecordRateLookups("cache", len(res.FromCache))
	if len(uncached) == 0 {
		return res
	}

	eligible, err := c.store.FilterNeedingAttempt(ctx, uncached, c.cooldown)
	if err != nil {
		c.LogError(ctx, err, "Failed to read rate attempts, skipping live fetch")
		res.Errors = append(res.Errors, "attempts: "+err.Error())
		res.NotFound = append(res.NotFound, uncached...)
		metrics.RecordRateLookups("not_found", len(uncached))
		return res
	}

	eligibleSet := make(map[string]struct{}, len(eligible))
	for _, code := range eligible {
		eligibleSet[code] = struct{}{}
	}
	cooling := 0
	for _, code := range uncached {
		if _, ok := eligibleSet[code]; !ok {
			logger.DebugContext(ctx, "Rate lookup in cooldown", slog.String("code", code), slog.Duration("cooldown", c.cooldown))
			res.NotFound = append(res.NotFound, code)
			cooling++
		}
	}
	metrics.RecordRateLookups("cooldown", cooling)
	if len(eligible) == 0 {
		return res
	}

	chainRes := c.chain.Resolve(ctx, eligible)
	res.Errors = append(res.Errors, chainRes.Errors...)

	missed := 0
	for _, code := range eligible {
		if v, ok := chainRes.Rates[code]; ok {
			res.Rates[code] = v
			res.Fetched = append(res.Fetched, code)
			continue
		}
		if err := c.store.RecordNotFound(ctx, code); err != nil {
			c.LogError(ctx, err, "Failed to record rate miss", slog.String("code", code))
			res.Errors = append(res.Errors, "attempts: "+err.Error())
		}
		res.NotFound = append(res.NotFound, code)
		missed++
	}
	metrics.RecordRateLookups("fetched", len(res.Fetched))
	metrics.RecordRateLookups("not_found", missed)

	if missed > 0 || len(chainRes.Errors) > 0 {
		logger.InfoContext(ctx, "Rate lookup finished with gaps",
			slog.Int("fetched", len(res.Fetched)),
			slog.Any("not_found", res.NotFound),
			slog.Int("provider_errors", len(chainRes.Errors)))
	}
	return res
}

// CanAttempt is true when FetchRatesFor could resolve code without waiting:
// USD, a fresh cached value, or a code out of cooldown.
func (c *rateCoordinator) CanAttempt(ctx context.Context, code string) (bool, error) {
	code = normalizeCode(code)
	if code == domain.USDCode {
		return true, nil
	}
	a, err := c.store.Get(ctx, code)
	if err != nil {
		return false, err
	}
	now := c.Now()
	return a.FreshAt(now, c.maxAge) || a.CooledDown(now, c.cooldown), nil
}

func (c *rateCoordinator) GetAttempt(ctx context.Context, code string) (*domain.CurrencyRateAttempt, error) {
	a, err := c.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no rate attempts recorded for %s", normalizeCode(code)))
	}
	return a, nil
}

// UpdateAllCurrencyValues asks the providers for every known non-USD currency,
// ignoring cooldown. Codes no provider returns are recorded as misses.
func (c *rateCoordinator) UpdateAllCurrencyValues(ctx context.Context) (*domain.RefreshSummary, error) {
	currencies, err := c.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies for refresh: %w", err)
	}

	codes := make([]string, 0, len(currencies))
	for _, cur := range currencies {
		if code := normalizeCode(cur.Code); code != domain.USDCode {
			codes = append(codes, code)
		}
	}
	codes = normalizeCodes(codes)

	summary := &domain.RefreshSummary{Errors: []string{}}
	if len(codes) == 0 {
		return summary, nil
	}

	chainRes := c.chain.Resolve(ctx, codes)
	summary.UpdatedCount = len(chainRes.Rates)
	summary.Errors = append(summary.Errors, chainRes.Errors...)

	for _, code := range codes {
		if _, ok := chainRes.Rates[code]; ok {
			continue
		}
		if err := c.store.RecordNotFound(ctx, code); err != nil {
			summary.Errors = append(summary.Errors, "attempts: "+err.Error())
		}
	}

	c.LogInfo(ctx, "Currency values refreshed",
		slog.Int("requested", len(codes)),
		slog.Int("updated", summary.UpdatedCount),
		slog.Int("errors", len(summary.Errors)))
	return summary, nil
}

// ForceRefresh drops all cooldown and cache state, including provider-held
// table copies, before refreshing.
func (c *rateCoordinator) ForceRefresh(ctx context.Context) (*domain.RefreshSummary, error) {
	n, err := c.store.ClearAll(ctx)
	if err != nil {
		return nil, err
	}
	c.LogInfo(ctx, "Rate attempt history cleared", slog.Int64("records", n))

	invalidateErr := c.chain.Invalidate(ctx)
	if invalidateErr != nil {
		c.LogError(ctx, invalidateErr, "Failed to drop cached provider tables")
	}

	summary, err := c.UpdateAllCurrencyValues(ctx)
	if err != nil {
		return nil, err
	}
	if invalidateErr != nil {
		summary.Errors = append(summary.Errors, "cache: "+invalidateErr.Error())
	}
	return summary, nil
}
