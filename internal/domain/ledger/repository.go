package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// IncomeRepository defines the store operations for monthly income entries.
// The upsert must be atomic on the (user, period) key: concurrent calls for
// the same period must not produce two rows, and the last write wins.
type IncomeRepository interface {
	// UpsertReplace inserts the period entry or replaces its amount if one
	// already exists for (userID, period).
	UpsertReplace(ctx context.Context, userID int64, period Period, amount decimal.Decimal) (*IncomeEntry, error)
	// LatestByUser returns the most recently updated income entry, or nil
	// when the user has none.
	LatestByUser(ctx context.Context, userID int64) (*IncomeEntry, error)
}

// GoalRepository defines the store operations for goals and their monthly
// contribution entries. AddToInvested and UpsertAccumulate must each be
// atomic read-modify-writes on the store side.
type GoalRepository interface {
	Create(ctx context.Context, params CreateGoalParams) (*Goal, error)
	ListByUser(ctx context.Context, userID int64) ([]*Goal, error)
	// AddToInvested adds amount to the goal's running invested total.
	// Returns ErrGoalNotFound when the goal does not exist.
	AddToInvested(ctx context.Context, goalID int64, amount decimal.Decimal) error
	// UpsertAccumulate inserts the period entry or adds amount to it if one
	// already exists for (userID, period).
	UpsertAccumulate(ctx context.Context, userID int64, period Period, amount decimal.Decimal) (*GoalContributionEntry, error)
	// ContributionForPeriod returns the contribution entry amount for the
	// period, or zero when there is none.
	ContributionForPeriod(ctx context.Context, userID int64, period Period) (decimal.Decimal, error)
}
