package fraud

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fintrack/internal/domain/message"
)

// MockActivityCounter is a mock implementation of ActivityCounter
type MockActivityCounter struct {
	CountRecentByUserFunc func(ctx context.Context, userID int64, since time.Time) (int, error)
}

func (m *MockActivityCounter) CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int, error) {
	if m.CountRecentByUserFunc != nil {
		return m.CountRecentByUserFunc(ctx, userID, since)
	}
	return 0, nil
}

func quietHour() time.Time {
	return time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC) // 14:00, outside window
}

func nightHour() time.Time {
	return time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC) // 02:00, inside window
}

func detectorAt(counter ActivityCounter, at time.Time) *Detector {
	return NewDetectorWithClock(counter, zerolog.Nop(), func() time.Time { return at })
}

func txnWith(amount string, counterparty string) message.ParsedTransaction {
	txn := message.ParsedTransaction{Counterparty: counterparty}
	if amount != "" {
		d := decimal.RequireFromString(amount)
		txn.Amount = &d
	}
	return txn
}

func TestScoreSignals(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		txn       message.ParsedTransaction
		at        time.Time
		recent    int
		wantScore int
		wantFraud bool
		wantFlags []Flag
	}{
		{
			name:      "no signals",
			txn:       txnWith("100", "Swiggy"),
			at:        quietHour(),
			wantScore: 0,
			wantFraud: false,
		},
		{
			name:      "high amount only",
			txn:       txnWith("10000", "Swiggy"),
			at:        quietHour(),
			wantScore: 30,
			wantFraud: false,
			wantFlags: []Flag{FlagHighAmount},
		},
		{
			name:      "unknown merchant only",
			txn:       txnWith("100", "XYZ Pvt Ltd"),
			at:        quietHour(),
			wantScore: 25,
			wantFraud: false,
			wantFlags: []Flag{FlagUnknownMerchant},
		},
		{
			name:      "unusual hour only",
			txn:       txnWith("100", "Swiggy"),
			at:        nightHour(),
			wantScore: 20,
			wantFraud: false,
			wantFlags: []Flag{FlagUnusualHour},
		},
		{
			name:      "rapid frequency only",
			txn:       txnWith("100", "Swiggy"),
			at:        quietHour(),
			recent:    3,
			wantScore: 25,
			wantFraud: false,
			wantFlags: []Flag{FlagRapidFrequency},
		},
		{
			name:      "high amount to unknown merchant at night",
			txn:       txnWith("15000", "XYZ Pvt Ltd"),
			at:        nightHour(),
			wantScore: 75,
			wantFraud: true,
			wantFlags: []Flag{FlagHighAmount, FlagUnknownMerchant, FlagUnusualHour},
		},
		{
			name:      "all four signals cap at 100",
			txn:       txnWith("50000", "Quick Pay Global"),
			at:        nightHour(),
			recent:    5,
			wantScore: 100,
			wantFraud: true,
			wantFlags: []Flag{FlagHighAmount, FlagUnknownMerchant, FlagUnusualHour, FlagRapidFrequency},
		},
		{
			name:      "absent amount cannot trigger high amount",
			txn:       txnWith("", "XYZ Pvt Ltd"),
			at:        quietHour(),
			wantScore: 25,
			wantFraud: false,
			wantFlags: []Flag{FlagUnknownMerchant},
		},
		{
			name:      "absent counterparty cannot trigger unknown merchant",
			txn:       txnWith("15000", ""),
			at:        quietHour(),
			wantScore: 30,
			wantFraud: false,
			wantFlags: []Flag{FlagHighAmount},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &MockActivityCounter{
				CountRecentByUserFunc: func(ctx context.Context, userID int64, since time.Time) (int, error) {
					return tt.recent, nil
				},
			}
			verdict := detectorAt(counter, tt.at).Score(ctx, tt.txn, 1)

			assert.Equal(t, tt.wantScore, verdict.RiskScore)
			assert.Equal(t, tt.wantFraud, verdict.IsFraud)
			assert.ElementsMatch(t, tt.wantFlags, verdict.Flags)
		})
	}
}

func TestScoreMonotonicInSignals(t *testing.T) {
	ctx := context.Background()
	counter := &MockActivityCounter{}

	base := detectorAt(counter, quietHour()).Score(ctx, txnWith("15000", "XYZ Pvt Ltd"), 1)
	withNight := detectorAt(counter, nightHour()).Score(ctx, txnWith("15000", "XYZ Pvt Ltd"), 1)

	assert.GreaterOrEqual(t, withNight.RiskScore, base.RiskScore)
	assert.LessOrEqual(t, withNight.RiskScore, 100)
	assert.GreaterOrEqual(t, base.RiskScore, 0)
}

func TestScoreFailsOpenOnActivityError(t *testing.T) {
	ctx := context.Background()
	counter := &MockActivityCounter{
		CountRecentByUserFunc: func(ctx context.Context, userID int64, since time.Time) (int, error) {
			return 0, errors.New("store unavailable")
		},
	}

	// High amount + unknown merchant still score; the failed rapid-frequency
	// lookup contributes nothing instead of aborting.
	verdict := detectorAt(counter, quietHour()).Score(ctx, txnWith("15000", "XYZ Pvt Ltd"), 1)

	assert.Equal(t, 55, verdict.RiskScore)
	assert.True(t, verdict.IsFraud)
	assert.False(t, verdict.Triggered(FlagRapidFrequency))
}

func TestRapidFrequencyWindow(t *testing.T) {
	ctx := context.Background()
	var gotSince time.Time
	counter := &MockActivityCounter{
		CountRecentByUserFunc: func(ctx context.Context, userID int64, since time.Time) (int, error) {
			gotSince = since
			return 2, nil // below threshold
		},
	}

	at := quietHour()
	verdict := detectorAt(counter, at).Score(ctx, txnWith("100", "Swiggy"), 42)

	assert.Equal(t, at.Add(-5*time.Minute), gotSince)
	assert.False(t, verdict.Triggered(FlagRapidFrequency))
}

func TestTrustedListIsSubstringMatch(t *testing.T) {
	assert.True(t, isTrusted("SWIGGY INSTAMART"))
	assert.True(t, isTrusted("payments to amazon india"))
	assert.False(t, isTrusted("Unknown Trader"))
}
