package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/apperrors"
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	portssvc "github.com/SscSPs/sadaqah_box_app/internal/core/ports/services"
	"github.com/SscSPs/sadaqah_box_app/internal/core/services"
	"github.com/SscSPs/sadaqah_box_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SadaqahServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	clock      *fakeClock
	currencies *memCurrencyRepo
	boxes      *memBoxRepo
	sadaqahs   *memSadaqahRepo
	fiat       *stubProvider
	crypto     *stubProvider
	gold       *stubProvider
	submitter  *recordingSubmitter
	service    portssvc.SadaqahSvcFacade
	boxService portssvc.BoxSvcFacade
}

func (suite *SadaqahServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.clock = newFakeClock()
	suite.currencies = newMemCurrencyRepo(
		currencyWithRate(usdID, "USD", "US Dollar", ptr(dec("1")), nil),
		currencyWithRate(eurID, "EUR", "Euro", nil, nil),
		currencyWithRate(pkrID, "PKR", "Pakistani Rupee", nil, nil),
	)
	suite.boxes = newMemBoxRepo()
	suite.sadaqahs = newMemSadaqahRepo()
	suite.fiat = &stubProvider{name: "fiat-1", err: errProviderDown}
	suite.crypto = &stubProvider{name: "crypto-1", err: errProviderDown}
	suite.gold = &stubProvider{name: "gold-1", err: errProviderDown}
	suite.submitter = &recordingSubmitter{}

	store := services.NewRateAttemptStore(newMemAttemptRepo(), services.WithStoreClock(suite.clock.Now))
	rates := services.NewRateCoordinator(store, suite.currencies,
		groupsOf(suite.fiat, suite.crypto, suite.gold),
		services.WithCoordinatorClock(suite.clock.Now))

	suite.service = services.NewSadaqahService(suite.boxes, suite.sadaqahs, suite.currencies, rates,
		services.WithBackgroundRefresh(suite.submitter),
		services.WithRateStaleness(6*time.Hour),
		services.WithSadaqahClock(suite.clock.Now))
	suite.boxService = services.NewBoxService(suite.boxes, suite.sadaqahs, suite.currencies)
}

func (suite *SadaqahServiceTestSuite) newBox(baseCurrencyID string) string {
	box, err := suite.boxService.CreateBox(suite.ctx, dto.CreateBoxRequest{Name: "Masjid", BaseCurrencyID: baseCurrencyID}, userID)
	suite.Require().NoError(err)
	return box.BoxID
}

func (suite *SadaqahServiceTestSuite) add(boxID, currencyID, value string) ([]domain.Sadaqah, *domain.Box) {
	added, box, err := suite.service.AddSadaqah(suite.ctx, boxID, dto.AddSadaqahRequest{CurrencyID: currencyID, Value: dec(value)}, userID)
	suite.Require().NoError(err)
	return added, box
}

func (suite *SadaqahServiceTestSuite) stored(boxID string) *domain.Box {
	b, err := suite.boxes.FindBoxByID(suite.ctx, boxID)
	suite.Require().NoError(err)
	return b
}

func (suite *SadaqahServiceTestSuite) providerCalls() int {
	return suite.fiat.Calls() + suite.crypto.Calls() + suite.gold.Calls()
}

func (suite *SadaqahServiceTestSuite) TestUnavailableRateParksInExtra() {
	boxID := suite.newBox(usdID)

	added, box := suite.add(boxID, eurID, "10")

	suite.Require().Len(added, 1)
	suite.Nil(added[0].ValueInBase)
	suite.Equal(int64(1), box.Count)
	suite.True(box.TotalValue.IsZero())
	suite.Require().Contains(box.TotalValueExtra, eurID)
	suite.True(dec("10").Equal(box.TotalValueExtra[eurID].Total))
	suite.Equal("EUR", box.TotalValueExtra[eurID].Code)

	persisted := suite.stored(boxID)
	suite.True(dec("10").Equal(persisted.TotalValueExtra[eurID].Total))
	suite.Equal([]string{"rates:EUR"}, suite.submitter.Keys())
}

func (suite *SadaqahServiceTestSuite) TestLiveRateConvertsIntoBase() {
	suite.fiat.set(map[string]decimal.Decimal{"EUR": dec("1.1")}, nil)
	boxID := suite.newBox(usdID)

	added, box := suite.add(boxID, eurID, "10")

	suite.Require().NotNil(added[0].ValueInBase)
	suite.True(dec("11").Equal(*added[0].ValueInBase))
	suite.True(dec("11").Equal(box.TotalValue))
	suite.Empty(box.TotalValueExtra)
	suite.Empty(suite.submitter.Keys())

	eur, err := suite.currencies.FindCurrencyByID(suite.ctx, eurID)
	suite.Require().NoError(err)
	suite.True(eur.HasRate(), "fetched rate is written through to the currency")
}

func (suite *SadaqahServiceTestSuite) TestCooldownDegradesWithoutProviderCall() {
	boxID := suite.newBox(usdID)
	suite.add(boxID, eurID, "10")
	calls := suite.providerCalls()
	suite.fiat.set(map[string]decimal.Decimal{"EUR": dec("1.1")}, nil)

	_, box := suite.add(boxID, eurID, "5")

	suite.Equal(calls, suite.providerCalls())
	suite.True(dec("15").Equal(box.TotalValueExtra[eurID].Total))
	suite.True(box.TotalValue.IsZero())

	suite.clock.Advance(time.Hour)
	_, box = suite.add(boxID, eurID, "10")
	suite.True(dec("11").Equal(box.TotalValue), "providers are asked again once the cooldown passed")
}

func (suite *SadaqahServiceTestSuite) TestStaleRateUsedAndRefreshedInBackground() {
	suite.currencies.setRate(eurID, dec("1.1"), suite.clock.Now().Add(-7*time.Hour))
	boxID := suite.newBox(usdID)

	_, box := suite.add(boxID, eurID, "10")

	suite.True(dec("11").Equal(box.TotalValue))
	suite.Zero(suite.providerCalls())
	suite.Equal([]string{"rates:EUR"}, suite.submitter.Keys())
}

const gbpID = "55555555-5555-5555-5555-555555555555"

func (suite *SadaqahServiceTestSuite) TestCachedRateIsBackfilledOntoNewCurrency() {
	suite.fiat.set(map[string]decimal.Decimal{"EUR": dec("1.1"), "GBP": dec("1.25")}, nil)
	boxID := suite.newBox(usdID)
	fetchedAt := suite.clock.Now()
	suite.add(boxID, eurID, "10")

	// GBP arrives in the whole-table fetch before the currency exists.
	suite.clock.Advance(30 * time.Minute)
	suite.Require().NoError(suite.currencies.SaveCurrency(suite.ctx,
		currencyWithRate(gbpID, "GBP", "Pound Sterling", nil, nil)))

	_, box := suite.add(boxID, gbpID, "4")

	suite.True(dec("16").Equal(box.TotalValue))
	suite.Equal(1, suite.fiat.Calls())
	gbp, err := suite.currencies.FindCurrencyByID(suite.ctx, gbpID)
	suite.Require().NoError(err)
	suite.Require().True(gbp.HasRate(), "cache hit is written back to the currency")
	suite.True(dec("1.25").Equal(*gbp.USDValue))
	suite.Equal(fetchedAt, *gbp.LastRateUpdate, "stamped with the fetch time, not the donation time")

	_, box = suite.add(boxID, gbpID, "4")
	suite.True(dec("21").Equal(box.TotalValue))
	suite.Equal(1, suite.fiat.Calls())
	suite.Empty(suite.submitter.Keys())
}

func (suite *SadaqahServiceTestSuite) TestBackgroundRefreshBackfillsLaggingCurrency() {
	suite.fiat.set(map[string]decimal.Decimal{"EUR": dec("1.1")}, nil)
	boxID := suite.newBox(usdID)
	fetchedAt := suite.clock.Now()
	suite.add(boxID, eurID, "10")
	suite.currencies.setRate(eurID, dec("1.05"), fetchedAt.Add(-7*time.Hour))

	suite.add(boxID, eurID, "10")
	suite.Require().Equal([]string{"rates:EUR"}, suite.submitter.Keys())

	suite.Require().NoError(suite.submitter.runs[0](suite.ctx))

	suite.Equal(1, suite.fiat.Calls(), "served from the attempt cache")
	eur, err := suite.currencies.FindCurrencyByID(suite.ctx, eurID)
	suite.Require().NoError(err)
	suite.True(dec("1.1").Equal(*eur.USDValue))
	suite.Equal(fetchedAt, *eur.LastRateUpdate)
}

func (suite *SadaqahServiceTestSuite) TestSameCurrencyNeedsNoRate() {
	boxID := suite.newBox(pkrID)

	added, box := suite.add(boxID, pkrID, "500")

	suite.True(dec("500").Equal(*added[0].ValueInBase))
	suite.True(dec("500").Equal(box.TotalValue))
	suite.Zero(suite.providerCalls())
	suite.Empty(suite.submitter.Keys())
}

func (suite *SadaqahServiceTestSuite) TestAmountRepeatsDonation() {
	boxID := suite.newBox(usdID)

	added, box, err := suite.service.AddSadaqah(suite.ctx, boxID,
		dto.AddSadaqahRequest{CurrencyID: usdID, Value: dec("2.5"), Amount: 3, Notes: "jummah"}, userID)

	suite.Require().NoError(err)
	suite.Len(added, 3)
	suite.NotEqual(added[0].SadaqahID, added[1].SadaqahID)
	suite.Equal(int64(3), box.Count)
	suite.True(dec("7.5").Equal(box.TotalValue))
	suite.Equal(1, suite.boxes.commits)
}

func (suite *SadaqahServiceTestSuite) TestAddValidation() {
	boxID := suite.newBox(usdID)

	_, _, err := suite.service.AddSadaqah(suite.ctx, boxID, dto.AddSadaqahRequest{CurrencyID: usdID, Value: decimal.Zero}, userID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, _, err = suite.service.AddSadaqah(suite.ctx, boxID, dto.AddSadaqahRequest{CurrencyID: usdID, Value: dec("-1")}, userID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, _, err = suite.service.AddSadaqah(suite.ctx, boxID, dto.AddSadaqahRequest{CurrencyID: "missing", Value: dec("1")}, userID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, _, err = suite.service.AddSadaqah(suite.ctx, "missing", dto.AddSadaqahRequest{CurrencyID: usdID, Value: dec("1")}, userID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.Equal(int64(0), suite.stored(boxID).Count)
}

func (suite *SadaqahServiceTestSuite) TestDeleteShrinksAndRemovesBucket() {
	boxID := suite.newBox(usdID)
	first, _ := suite.add(boxID, eurID, "5")
	second, _ := suite.add(boxID, eurID, "5")

	box, err := suite.service.DeleteSadaqah(suite.ctx, first[0].SadaqahID, userID)
	suite.Require().NoError(err)
	suite.True(dec("5").Equal(box.TotalValueExtra[eurID].Total))
	suite.Equal(int64(1), box.Count)

	box, err = suite.service.DeleteSadaqah(suite.ctx, second[0].SadaqahID, userID)
	suite.Require().NoError(err)
	suite.NotContains(box.TotalValueExtra, eurID)
	suite.Equal(int64(0), box.Count)
	suite.NotContains(suite.stored(boxID).TotalValueExtra, eurID)

	_, err = suite.service.GetSadaqah(suite.ctx, second[0].SadaqahID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SadaqahServiceTestSuite) TestDeleteRevertsRecordedRouting() {
	suite.fiat.set(map[string]decimal.Decimal{"EUR": dec("1.1")}, nil)
	boxID := suite.newBox(usdID)
	added, _ := suite.add(boxID, eurID, "10")

	suite.currencies.setRate(eurID, dec("2"), suite.clock.Now())
	box, err := suite.service.DeleteSadaqah(suite.ctx, added[0].SadaqahID, userID)

	suite.Require().NoError(err)
	suite.True(box.TotalValue.IsZero(), "got %s", box.TotalValue)
	suite.Empty(box.TotalValueExtra)
}

func (suite *SadaqahServiceTestSuite) TestDeleteCollectedIsRejected() {
	boxID := suite.newBox(usdID)
	added, _ := suite.add(boxID, usdID, "10")
	_, err := suite.boxService.CollectBox(suite.ctx, boxID, userID)
	suite.Require().NoError(err)
	rollbacks := suite.boxes.rollbacks

	_, err = suite.service.DeleteSadaqah(suite.ctx, added[0].SadaqahID, userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(rollbacks+1, suite.boxes.rollbacks)
	suite.Equal(int64(0), suite.stored(boxID).Count)
}

func (suite *SadaqahServiceTestSuite) TestDeleteMissing() {
	_, err := suite.service.DeleteSadaqah(suite.ctx, "missing", userID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SadaqahServiceTestSuite) TestListPaginates() {
	boxID := suite.newBox(usdID)
	base := suite.clock.Now()
	for i := 0; i < 5; i++ {
		at := base.Add(-time.Duration(i) * time.Minute)
		_, _, err := suite.service.AddSadaqah(suite.ctx, boxID,
			dto.AddSadaqahRequest{CurrencyID: usdID, Value: dec("1"), DonatedAt: &at}, userID)
		suite.Require().NoError(err)
	}

	var seen []time.Time
	token := ""
	pages := 0
	for {
		list, next, err := suite.service.ListSadaqahs(suite.ctx, boxID, dto.ListSadaqahsParams{Limit: 2, NextToken: token})
		suite.Require().NoError(err)
		pages++
		for _, s := range list {
			seen = append(seen, s.DonatedAt)
		}
		if next == "" {
			break
		}
		token = next
	}

	suite.Equal(3, pages)
	suite.Require().Len(seen, 5)
	for i := 1; i < len(seen); i++ {
		suite.True(seen[i].Before(seen[i-1]), "newest first")
	}
}

func (suite *SadaqahServiceTestSuite) TestListRejectsBadToken() {
	boxID := suite.newBox(usdID)

	_, _, err := suite.service.ListSadaqahs(suite.ctx, boxID, dto.ListSadaqahsParams{NextToken: "%%%"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestSadaqahService(t *testing.T) {
	suite.Run(t, new(SadaqahServiceTestSuite))
}
