package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/apperrors"
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	portsrepo "github.com/SscSPs/sadaqah_box_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sadaqah_box_app/internal/core/ports/services"
	"github.com/SscSPs/sadaqah_box_app/internal/dto"
	"github.com/SscSPs/sadaqah_box_app/internal/metrics"
	"github.com/SscSPs/sadaqah_box_app/internal/utils/pagination"
	"github.com/SscSPs/sadaqah_box_app/internal/worker"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaskSubmitter queues background work without waiting for it.
type TaskSubmitter interface {
	Submit(key string, run worker.Task) bool
}

type sadaqahService struct {
	BaseService
	boxRepo      portsrepo.BoxRepositoryWithTx
	sadaqahRepo  portsrepo.SadaqahRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	rates        portssvc.RateReaderSvc
	background   TaskSubmitter
	staleAfter   time.Duration
}

// SadaqahServiceOption is a functional option for configuring the sadaqah service
type SadaqahServiceOption func(*sadaqahService)

// WithBackgroundRefresh lets donation adds queue rate refreshes instead of waiting on them.
func WithBackgroundRefresh(b TaskSubmitter) SadaqahServiceOption {
	return func(s *sadaqahService) { s.background = b }
}

// WithRateStaleness sets the age after which a known rate is refreshed in the background.
func WithRateStaleness(d time.Duration) SadaqahServiceOption {
	return func(s *sadaqahService) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// WithSadaqahClock replaces the wall clock.
func WithSadaqahClock(now func() time.Time) SadaqahServiceOption {
	return func(s *sadaqahService) { s.now = now }
}

// NewSadaqahService creates a new SadaqahService.
func NewSadaqahService(
	boxRepo portsrepo.BoxRepositoryWithTx,
	sadaqahRepo portsrepo.SadaqahRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	rates portssvc.RateReaderSvc,
	opts ...SadaqahServiceOption,
) portssvc.SadaqahSvcFacade {
	s := &sadaqahService{
		boxRepo:      boxRepo,
		sadaqahRepo:  sadaqahRepo,
		currencyRepo: currencyRepo,
		rates:        rates,
		staleAfter:   defaultCacheMaxAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.SadaqahSvcFacade = (*sadaqahService)(nil)

func (s *sadaqahService) loadCurrency(ctx context.Context, currencyID string) (*domain.Currency, error) {
	c, err := s.currencyRepo.FindCurrencyByID(ctx, currencyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("currency %s not found", currencyID))
		}
		return nil, fmt.Errorf("failed to load currency %s: %w", currencyID, err)
	}
	return c, nil
}

func (s *sadaqahService) isStale(c *domain.Currency) bool {
	return c.LastRateUpdate == nil || s.Now().Sub(*c.LastRateUpdate) > s.staleAfter
}

// ensureRates fills in missing USD values on the given currencies. A missing
// value is fetched inline only when the coordinator could get it without
// waiting out a cooldown; anything else degrades immediately. Stale or still
// missing values are refreshed in the background for later donations.
func (s *sadaqahService) ensureRates(ctx context.Context, currencies ...*domain.Currency) {
	var inline, later []string
	for _, c := range currencies {
		if c.Code == domain.USDCode {
			continue
		}
		if c.HasRate() {
			if s.isStale(c) {
				later = append(later, c.Code)
			}
			continue
		}
		ok, err := s.rates.CanAttempt(ctx, c.Code)
		if err != nil {
			s.LogError(ctx, err, "Rate pre-check failed, degrading", slog.String("code", c.Code))
			later = append(later, c.Code)
			continue
		}
		if !ok {
			s.LogDebug(ctx, "Rate in cooldown, degrading", slog.String("code", c.Code))
			continue
		}
		inline = append(inline, c.Code)
	}

	if len(inline) > 0 {
		res := s.rates.FetchRatesFor(ctx, inline)
		for _, c := range currencies {
			if c.HasRate() {
				continue
			}
			if v, ok := res.Rate(c.Code); ok {
				c.USDValue = &v
				if at, ok := s.backfillFromCache(ctx, res, c.Code); ok {
					c.LastRateUpdate = &at
				}
			} else {
				later = append(later, c.Code)
			}
		}
		if len(res.Errors) > 0 {
			s.LogWarn(ctx, "Rate providers reported errors", slog.Any("errors", res.Errors))
		}
	}

	if len(later) > 0 {
		s.scheduleRefresh(ctx, later)
	}
}

// backfillFromCache copies a value served from the attempt cache onto the
// currency row, stamped with the time it was fetched. Live fetches are
// already written through by the coordinator.
func (s *sadaqahService) backfillFromCache(ctx context.Context, res *domain.RateResult, code string) (time.Time, bool) {
	if !slices.Contains(res.FromCache, code) {
		return time.Time{}, false
	}
	a, err := s.rates.GetAttempt(ctx, code)
	if err != nil || a.LastSuccessAt == nil {
		s.LogWarn(ctx, "Cached rate has no attempt record, not backfilling", slog.String("code", code))
		return time.Time{}, false
	}
	at := *a.LastSuccessAt
	values := map[string]decimal.Decimal{code: res.Rates[code]}
	if _, err := s.currencyRepo.UpdateUSDValues(ctx, values, at); err != nil {
		s.LogError(ctx, err, "Failed to backfill currency usd value", slog.String("code", code))
		return time.Time{}, false
	}
	return at, true
}

func (s *sadaqahService) scheduleRefresh(ctx context.Context, codes []string) {
	if s.background == nil {
		return
	}
	codes = normalizeCodes(codes)
	sort.Strings(codes)
	key := "rates:" + strings.Join(codes, ",")

	queued := s.background.Submit(key, func(taskCtx context.Context) error {
		res := s.rates.FetchRatesFor(taskCtx, codes)
		for _, code := range res.FromCache {
			s.backfillFromCache(taskCtx, res, code)
		}
		if len(res.NotFound) > 0 && len(res.Errors) > 0 {
			return fmt.Errorf("rates still missing for %v: %s", res.NotFound, strings.Join(res.Errors, "; "))
		}
		return nil
	})
	s.LogDebug(ctx, "Background rate refresh requested", slog.String("key", key), slog.Bool("queued", queued))
}

// AddSadaqah records req.Amount identical donations. It fails only for bad
// input or a missing box or currency, never for an unavailable rate.
func (s *sadaqahService) AddSadaqah(ctx context.Context, boxID string, req dto.AddSadaqahRequest, creatorUserID string) (added []domain.Sadaqah, updated *domain.Box, err error) {
	if !req.Value.IsPositive() {
		return nil, nil, apperrors.NewValidationError("value must be greater than zero")
	}
	amount := req.Amount
	if amount <= 0 {
		amount = 1
	}

	box, err := s.boxRepo.FindBoxByID(ctx, boxID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get box for sadaqah: %w", err)
	}
	currency, err := s.loadCurrency(ctx, req.CurrencyID)
	if err != nil {
		return nil, nil, err
	}
	base, err := s.loadCurrency(ctx, box.BaseCurrencyID)
	if err != nil {
		return nil, nil, err
	}

	if currency.CurrencyID != base.CurrencyID {
		s.ensureRates(ctx, currency, base)
	}
	valueInBase := RouteDonation(req.Value, currency, base)

	now := s.Now()
	donatedAt := now
	if req.DonatedAt != nil {
		donatedAt = req.DonatedAt.UTC()
	}

	tx, err := s.boxRepo.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			if rbErr := s.boxRepo.Rollback(ctx, tx); rbErr != nil {
				s.LogError(ctx, rbErr, "Failed to rollback sadaqah add", slog.String("box_id", boxID))
			}
		}
	}()

	locked, err := s.boxRepo.FindBoxForUpdate(ctx, tx, boxID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock box for sadaqah: %w", err)
	}
	if locked.TotalValueExtra == nil {
		locked.TotalValueExtra = domain.ExtraTotals{}
	}

	added = make([]domain.Sadaqah, 0, amount)
	for i := 0; i < amount; i++ {
		sq := domain.Sadaqah{
			SadaqahID:   uuid.NewString(),
			BoxID:       boxID,
			CurrencyID:  currency.CurrencyID,
			Value:       req.Value,
			Notes:       req.Notes,
			ValueInBase: valueInBase,
			DonatedAt:   donatedAt,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
		if err = s.sadaqahRepo.InsertSadaqah(ctx, tx, sq); err != nil {
			return nil, nil, err
		}
		ApplyDonation(&locked.BoxAggregate, sq, currency)
		added = append(added, sq)
	}

	locked.LastUpdatedAt = now
	locked.LastUpdatedBy = creatorUserID
	if err = s.boxRepo.UpdateBoxAggregate(ctx, tx, *locked); err != nil {
		return nil, nil, err
	}
	if err = s.boxRepo.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	bucket := "base"
	if valueInBase == nil {
		bucket = "extra"
	}
	for range added {
		metrics.RecordDonationRouting(bucket)
	}
	s.LogInfo(ctx, "Sadaqah added",
		slog.String("box_id", boxID),
		slog.String("currency", currency.Code),
		slog.Int("amount", amount),
		slog.String("bucket", bucket))
	return added, locked, nil
}

// DeleteSadaqah removes an uncollected donation and reverses exactly the
// routing it was added with.
func (s *sadaqahService) DeleteSadaqah(ctx context.Context, sadaqahID, userID string) (updated *domain.Box, err error) {
	existing, err := s.sadaqahRepo.FindSadaqahByID(ctx, sadaqahID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sadaqah: %w", err)
	}
	currency, err := s.currencyRepo.FindCurrencyByID(ctx, existing.CurrencyID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load currency %s: %w", existing.CurrencyID, err)
	}

	tx, err := s.boxRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rbErr := s.boxRepo.Rollback(ctx, tx); rbErr != nil {
				s.LogError(ctx, rbErr, "Failed to rollback sadaqah delete", slog.String("sadaqah_id", sadaqahID))
			}
		}
	}()

	box, err := s.boxRepo.FindBoxForUpdate(ctx, tx, existing.BoxID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock box for sadaqah delete: %w", err)
	}
	// Re-read under the box lock so a concurrent collect is visible.
	current, err := s.sadaqahRepo.FindSadaqahByID(ctx, sadaqahID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sadaqah: %w", err)
	}
	if current.Collected() {
		return nil, apperrors.NewValidationError("sadaqah was already collected")
	}

	if err = s.sadaqahRepo.DeleteSadaqah(ctx, tx, sadaqahID); err != nil {
		return nil, err
	}
	RevertDonation(&box.BoxAggregate, *current, currency)

	now := s.Now()
	box.LastUpdatedAt = now
	box.LastUpdatedBy = userID
	if err = s.boxRepo.UpdateBoxAggregate(ctx, tx, *box); err != nil {
		return nil, err
	}
	if err = s.boxRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Sadaqah deleted", slog.String("sadaqah_id", sadaqahID), slog.String("box_id", box.BoxID))
	return box, nil
}

func (s *sadaqahService) GetSadaqah(ctx context.Context, sadaqahID string) (*domain.Sadaqah, error) {
	sq, err := s.sadaqahRepo.FindSadaqahByID(ctx, sadaqahID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sadaqah in service: %w", err)
	}
	return sq, nil
}

func (s *sadaqahService) ListSadaqahs(ctx context.Context, boxID string, params dto.ListSadaqahsParams) ([]domain.Sadaqah, string, error) {
	if _, err := s.boxRepo.FindBoxByID(ctx, boxID); err != nil {
		return nil, "", fmt.Errorf("failed to get box in service: %w", err)
	}

	limit := params.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = 20
	}
	var after *pagination.Cursor
	if params.NextToken != "" {
		c, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, "", apperrors.NewValidationError("invalid nextToken: " + err.Error())
		}
		after = &c
	}

	list, err := s.sadaqahRepo.ListSadaqahsByBox(ctx, boxID, limit, after)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list sadaqahs in service: %w", err)
	}
	if list == nil {
		list = []domain.Sadaqah{}
	}

	next := ""
	if len(list) == limit {
		last := list[len(list)-1]
		next = pagination.EncodeToken(pagination.Cursor{DonatedAt: last.DonatedAt, ID: last.SadaqahID})
	}
	return list, next, nil
}
