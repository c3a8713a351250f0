package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Service contains the reconciliation logic for income and goal ledgers.
type Service struct {
	income IncomeRepository
	goals  GoalRepository
	now    func() time.Time
}

// NewService creates a ledger service using the wall clock.
func NewService(income IncomeRepository, goals GoalRepository) *Service {
	return NewServiceWithClock(income, goals, time.Now)
}

// NewServiceWithClock creates a ledger service with an injected clock. Goal
// contributions resolve their period at call time, so tests need this.
func NewServiceWithClock(income IncomeRepository, goals GoalRepository, now func() time.Time) *Service {
	return &Service{income: income, goals: goals, now: now}
}

// ApplyIncome records the income observed at observedAt into that date's
// calendar-month bucket. Within a period the semantics are replace, not
// accumulate: income models "the income recorded this month", and a later
// report in the same month overwrites an earlier one.
func (s *Service) ApplyIncome(ctx context.Context, userID int64, amount decimal.Decimal, observedAt time.Time) (*IncomeEntry, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	entry, err := s.income.UpsertReplace(ctx, userID, PeriodOf(observedAt), amount)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile income: %w", err)
	}
	return entry, nil
}

// ApplyGoalContribution applies a contribution to a goal. Two aggregates are
// updated from the one event, in this order:
//
//  1. the goal's all-time invested total (always additive), then
//  2. the contributor's current-month entry (additive within the period).
//
// Unlike income, the period is resolved from the clock at call time, not
// from a caller-supplied date. If the monthly entry write fails after the
// total was already updated, the two aggregates are out of sync; that state
// is returned as ErrContributionSplit rather than swallowed.
func (s *Service) ApplyGoalContribution(ctx context.Context, goalID, userID int64, amount decimal.Decimal) (*GoalContributionEntry, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	if err := s.goals.AddToInvested(ctx, goalID, amount); err != nil {
		return nil, fmt.Errorf("failed to update goal total: %w", err)
	}

	entry, err := s.goals.UpsertAccumulate(ctx, userID, PeriodOf(s.now()), amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContributionSplit, err)
	}
	return entry, nil
}

// CreateGoal creates a new saving goal with a zero invested total.
func (s *Service) CreateGoal(ctx context.Context, params CreateGoalParams) (*Goal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.goals.Create(ctx, params)
}

// ListGoals returns all goals for a user.
func (s *Service) ListGoals(ctx context.Context, userID int64) ([]*Goal, error) {
	return s.goals.ListByUser(ctx, userID)
}

// MonthlyContribution returns the user's contribution total for the current
// period, or zero when nothing was contributed this month.
func (s *Service) MonthlyContribution(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return s.goals.ContributionForPeriod(ctx, userID, PeriodOf(s.now()))
}

// LatestIncome returns the user's most recent income entry, or nil.
func (s *Service) LatestIncome(ctx context.Context, userID int64) (*IncomeEntry, error) {
	return s.income.LatestByUser(ctx, userID)
}
