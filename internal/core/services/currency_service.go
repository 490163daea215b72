package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/sadaqah_box_app/internal/apperrors"
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	portsrepo "github.com/SscSPs/sadaqah_box_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sadaqah_box_app/internal/core/ports/services"
	"github.com/SscSPs/sadaqah_box_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, apperrors.NewValidationError("currency code is required")
	}
	if req.USDValue != nil && !req.USDValue.IsPositive() {
		return nil, apperrors.NewValidationError("usdValue must be positive")
	}

	now := s.Now()
	currency := domain.Currency{
		CurrencyID: uuid.NewString(),
		Code:       code,
		Symbol:     req.Symbol,
		Name:       req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	switch {
	case code == domain.USDCode:
		one := decimal.NewFromInt(1)
		currency.USDValue = &one
		currency.LastRateUpdate = &now
	case req.USDValue != nil:
		v := *req.USDValue
		currency.USDValue = &v
		currency.LastRateUpdate = &now
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to create currency", slog.String("code", code))
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	s.LogInfo(ctx, "Currency created", slog.String("currency_id", currency.CurrencyID), slog.String("code", code))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByID(ctx, currencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by id in service: %w", err)
	}
	return currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}
