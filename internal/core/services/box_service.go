package services

import (
	"context"
	"errors"
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

const maxPageSize = 100

type boxService struct {
	BaseService
	boxRepo      portsrepo.BoxRepositoryWithTx
	sadaqahRepo  portsrepo.SadaqahRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
}

// NewBoxService creates a new BoxService.
func NewBoxService(
	boxRepo portsrepo.BoxRepositoryWithTx,
	sadaqahRepo portsrepo.SadaqahRepositoryFacade,
	currencyRepo portsrepo.CurrencyReader,
) portssvc.BoxSvcFacade {
	return &boxService{
		boxRepo:      boxRepo,
		sadaqahRepo:  sadaqahRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.BoxSvcFacade = (*boxService)(nil)

func (s *boxService) CreateBox(ctx context.Context, req dto.CreateBoxRequest, creatorUserID string) (*domain.Box, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("box name is required")
	}
	if _, err := s.currencyRepo.FindCurrencyByID(ctx, req.BaseCurrencyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("base currency %s does not exist", req.BaseCurrencyID))
		}
		return nil, fmt.Errorf("failed to check base currency: %w", err)
	}

	now := s.Now()
	box := domain.Box{
		BoxID:          uuid.NewString(),
		Name:           name,
		Description:    req.Description,
		BaseCurrencyID: req.BaseCurrencyID,
		BoxAggregate: domain.BoxAggregate{
			TotalValue:      decimal.Zero,
			TotalValueExtra: domain.ExtraTotals{},
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.boxRepo.SaveBox(ctx, box); err != nil {
		return nil, fmt.Errorf("failed to create box in service: %w", err)
	}
	s.LogInfo(ctx, "Box created", slog.String("box_id", box.BoxID), slog.String("base_currency_id", box.BaseCurrencyID))
	return &box, nil
}

func (s *boxService) GetBox(ctx context.Context, boxID string) (*domain.Box, error) {
	box, err := s.boxRepo.FindBoxByID(ctx, boxID)
	if err != nil {
		return nil, fmt.Errorf("failed to get box in service: %w", err)
	}
	return box, nil
}

func (s *boxService) ListBoxes(ctx context.Context, params dto.ListBoxesParams) ([]domain.Box, error) {
	limit, offset := params.Limit, params.Offset
	if limit <= 0 || limit > maxPageSize {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	boxes, err := s.boxRepo.ListBoxes(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list boxes in service: %w", err)
	}
	if boxes == nil {
		return []domain.Box{}, nil
	}
	return boxes, nil
}

func (s *boxService) ListCollections(ctx context.Context, boxID string) ([]domain.Collection, error) {
	if _, err := s.boxRepo.FindBoxByID(ctx, boxID); err != nil {
		return nil, fmt.Errorf("failed to get box in service: %w", err)
	}
	cs, err := s.boxRepo.ListCollections(ctx, boxID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections in service: %w", err)
	}
	if cs == nil {
		return []domain.Collection{}, nil
	}
	return cs, nil
}

// CollectBox empties a box: its aggregate is copied into a Collection, every
// uncollected donation is stamped with it, and the aggregate is reset.
func (s *boxService) CollectBox(ctx context.Context, boxID, userID string) (collection *domain.Collection, err error) {
	tx, err := s.boxRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rbErr := s.boxRepo.Rollback(ctx, tx); rbErr != nil {
				s.LogError(ctx, rbErr, "Failed to rollback collect", slog.String("box_id", boxID))
			}
		}
	}()

	box, err := s.boxRepo.FindBoxForUpdate(ctx, tx, boxID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock box for collection: %w", err)
	}
	if box.Count == 0 {
		return nil, apperrors.NewValidationError("box is empty")
	}

	now := s.Now()
	c := domain.Collection{
		CollectionID:   uuid.NewString(),
		BoxID:          box.BoxID,
		BaseCurrencyID: box.BaseCurrencyID,
		CollectedAt:    now,
		BoxAggregate: domain.BoxAggregate{
			Count:           box.Count,
			TotalValue:      box.TotalValue,
			TotalValueExtra: box.TotalValueExtra.Clone(),
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err = s.boxRepo.SaveCollection(ctx, tx, c); err != nil {
		return nil, err
	}
	marked, err := s.sadaqahRepo.MarkCollected(ctx, tx, box.BoxID, c.CollectionID)
	if err != nil {
		return nil, err
	}

	box.BoxAggregate = domain.BoxAggregate{TotalValue: decimal.Zero, TotalValueExtra: domain.ExtraTotals{}}
	box.LastUpdatedAt = now
	box.LastUpdatedBy = userID
	if err = s.boxRepo.UpdateBoxAggregate(ctx, tx, *box); err != nil {
		return nil, err
	}
	if err = s.boxRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Box collected",
		slog.String("box_id", box.BoxID),
		slog.String("collection_id", c.CollectionID),
		slog.Int64("count", c.Count),
		slog.Int64("donations_marked", marked))
	return &c, nil
}
