// Package fraud scores parsed transactions against rule-based risk signals.
package fraud

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"fintrack/internal/domain/message"
)

// Flag names one triggered risk signal.
type Flag string

const (
	FlagHighAmount      Flag = "HIGH_AMOUNT"
	FlagUnknownMerchant Flag = "UNKNOWN_MERCHANT"
	FlagUnusualHour     Flag = "UNUSUAL_HOUR"
	FlagRapidFrequency  Flag = "RAPID_FREQUENCY"
)

// Signal weights. The score is the sum of triggered weights, capped at 100.
const (
	weightHighAmount      = 30
	weightUnknownMerchant = 25
	weightUnusualHour     = 20
	weightRapidFrequency  = 25

	fraudThreshold = 50
	maxScore       = 100

	// Nocturnal window considered unusual for spending, inclusive.
	unusualHourStart = 1
	unusualHourEnd   = 5

	rapidWindow   = 5 * time.Minute
	rapidTxnCount = 3
)

var highAmountThreshold = decimal.NewFromInt(10000)

// Counterparty names considered trustworthy; matched as case-insensitive
// substrings of the parsed counterparty.
var trustedCounterparties = []string{
	"swiggy", "amazon", "zomato", "flipkart", "myntra",
	"bigbasket", "sip investment", "uber", "ola", "irctc",
	"netflix", "hotstar", "spotify",
}

// Verdict is the outcome of one scoring pass. Each evaluation is an
// independent judgment; verdicts are recorded but never mutated.
type Verdict struct {
	IsFraud   bool   `json:"isFraud"`
	RiskScore int    `json:"riskScore"`
	Flags     []Flag `json:"flags"`
}

// Triggered reports whether the given signal fired.
func (v Verdict) Triggered(f Flag) bool {
	for _, flag := range v.Flags {
		if flag == f {
			return true
		}
	}
	return false
}

// ActivityCounter reports how many transactions were logged for a user
// since a point in time. Implemented by the message-log repository.
type ActivityCounter interface {
	CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int, error)
}

// Detector evaluates the four risk signals against a transaction.
type Detector struct {
	activity ActivityCounter
	now      func() time.Time
	log      zerolog.Logger
}

// NewDetector creates a detector using the wall clock.
func NewDetector(activity ActivityCounter, log zerolog.Logger) *Detector {
	return NewDetectorWithClock(activity, log, time.Now)
}

// NewDetectorWithClock creates a detector with an injected clock, so tests
// can pin the UNUSUAL_HOUR and RAPID_FREQUENCY windows.
func NewDetectorWithClock(activity ActivityCounter, log zerolog.Logger, now func() time.Time) *Detector {
	return &Detector{activity: activity, now: now, log: log}
}

// Score evaluates all signals for the transaction. The signals are
// independent, so their evaluation order does not affect the result.
// A failing RAPID_FREQUENCY lookup is fail-open: the signal is skipped,
// logged, and scoring continues on the remaining three.
func (d *Detector) Score(ctx context.Context, txn message.ParsedTransaction, userID int64) Verdict {
	var verdict Verdict

	if txn.HasAmount() && txn.Amount.GreaterThanOrEqual(highAmountThreshold) {
		verdict.Flags = append(verdict.Flags, FlagHighAmount)
		verdict.RiskScore += weightHighAmount
	}

	if txn.Counterparty != "" && !isTrusted(txn.Counterparty) {
		verdict.Flags = append(verdict.Flags, FlagUnknownMerchant)
		verdict.RiskScore += weightUnknownMerchant
	}

	hour := d.now().Hour()
	if hour >= unusualHourStart && hour <= unusualHourEnd {
		verdict.Flags = append(verdict.Flags, FlagUnusualHour)
		verdict.RiskScore += weightUnusualHour
	}

	if triggered := d.rapidFrequency(ctx, userID); triggered {
		verdict.Flags = append(verdict.Flags, FlagRapidFrequency)
		verdict.RiskScore += weightRapidFrequency
	}

	if verdict.RiskScore > maxScore {
		verdict.RiskScore = maxScore
	}
	verdict.IsFraud = verdict.RiskScore >= fraudThreshold

	return verdict
}

func (d *Detector) rapidFrequency(ctx context.Context, userID int64) bool {
	since := d.now().Add(-rapidWindow)
	count, err := d.activity.CountRecentByUser(ctx, userID, since)
	if err != nil {
		d.log.Warn().Err(err).Int64("user_id", userID).
			Msg("rapid-frequency lookup failed, skipping signal")
		return false
	}
	return count >= rapidTxnCount
}

func isTrusted(counterparty string) bool {
	name := strings.ToLower(counterparty)
	for _, trusted := range trustedCounterparties {
		if strings.Contains(name, trusted) {
			return true
		}
	}
	return false
}
