// Package ledger maintains the per-user monthly aggregates for income and
// goal contributions, plus the running totals of saving goals.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrInvalidAmount = errors.New("amount must not be negative")

	// ErrContributionSplit marks the reconciliation-inconsistency state
	// where the goal's running total was updated but the monthly
	// contribution entry write failed. The two aggregates are out of sync
	// and the caller must know.
	ErrContributionSplit = errors.New("goal total updated but monthly contribution entry write failed")
)

// Period is a calendar-month bucket. It is part of a ledger entry's
// identity: there is at most one entry per (user, kind, period).
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// String returns the period as "2024-01".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// IncomeEntry is the income recorded for one user in one period. Income
// uses replace semantics: a new report in the same month overwrites the
// stored value.
type IncomeEntry struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Period    Period          `json:"period"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// GoalContributionEntry is the total contributed by one user in one period,
// across all goals. Contributions accumulate within the period.
type GoalContributionEntry struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Period    Period          `json:"period"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Goal is a saving goal with its all-time invested total. InvestedAmount is
// a running sum over every contribution ever applied, independent of the
// per-period entries derived from the same events.
type Goal struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	Name           string          `json:"name"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	InvestedAmount decimal.Decimal `json:"investedAmount"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// CreateGoalParams contains parameters for creating a new saving goal.
type CreateGoalParams struct {
	UserID       int64
	Name         string
	TargetAmount decimal.Decimal
}

// Validate validates the create parameters.
func (p CreateGoalParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Name == "" {
		return errors.New("goal name is required")
	}
	if p.TargetAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
