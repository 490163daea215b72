package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestCurrencyRateAttempt_CooledDown(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		attempt *domain.CurrencyRateAttempt
		want    bool
	}{
		{name: "never attempted", attempt: nil, want: true},
		{name: "just attempted", attempt: &domain.CurrencyRateAttempt{LastAttemptAt: now}, want: false},
		{name: "inside cooldown", attempt: &domain.CurrencyRateAttempt{LastAttemptAt: now.Add(-59 * time.Minute)}, want: false},
		{name: "exactly at cooldown", attempt: &domain.CurrencyRateAttempt{LastAttemptAt: now.Add(-time.Hour)}, want: true},
		{name: "found rates are retried too", attempt: &domain.CurrencyRateAttempt{LastAttemptAt: now.Add(-2 * time.Hour), Found: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.attempt.CooledDown(now, time.Hour))
		})
	}
}

func TestCurrencyRateAttempt_FreshAt(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	value := decimalPtr(decimal.RequireFromString("1.08"))

	tests := []struct {
		name    string
		attempt *domain.CurrencyRateAttempt
		want    bool
	}{
		{name: "nil record", attempt: nil, want: false},
		{
			name:    "fresh success",
			attempt: &domain.CurrencyRateAttempt{Found: true, LastSuccessAt: timePtr(now.Add(-time.Hour)), CachedUSDValue: value},
			want:    true,
		},
		{
			name:    "stale success",
			attempt: &domain.CurrencyRateAttempt{Found: true, LastSuccessAt: timePtr(now.Add(-7 * time.Hour)), CachedUSDValue: value},
			want:    false,
		},
		{
			name:    "value kept but last attempt missed",
			attempt: &domain.CurrencyRateAttempt{Found: false, LastSuccessAt: timePtr(now.Add(-time.Hour)), CachedUSDValue: value},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.attempt.FreshAt(now, 6*time.Hour))
		})
	}
}

func TestExtraTotals_CloneIsIndependent(t *testing.T) {
	orig := domain.ExtraTotals{"eur-id": {Total: decimal.NewFromInt(10), Code: "EUR", Name: "Euro"}}
	clone := orig.Clone()
	clone["eur-id"] = domain.ExtraBucket{Total: decimal.NewFromInt(99), Code: "EUR", Name: "Euro"}
	delete(clone, "missing")

	assert.True(t, orig["eur-id"].Total.Equal(decimal.NewFromInt(10)))
}
