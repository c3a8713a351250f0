package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/ledger"
)

type GoalRepository struct {
	db *DB
}

func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create inserts a goal with a zero invested total.
func (r *GoalRepository) Create(ctx context.Context, params ledger.CreateGoalParams) (*ledger.Goal, error) {
	query := `
		INSERT INTO goals (user_id, name, target_amount)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, target_amount, invested_amount, created_at
	`

	var goal ledger.Goal
	err := r.db.QueryRowContext(ctx, query, params.UserID, params.Name, params.TargetAmount).Scan(
		&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount,
		&goal.InvestedAmount, &goal.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return &goal, nil
}

// ListByUser retrieves all goals for a user.
func (r *GoalRepository) ListByUser(ctx context.Context, userID int64) ([]*ledger.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, invested_amount, created_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*ledger.Goal
	for rows.Next() {
		var goal ledger.Goal
		err := rows.Scan(
			&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount,
			&goal.InvestedAmount, &goal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, &goal)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// AddToInvested adds amount to the goal's running total in a single
// statement, so concurrent contributions never lose an increment.
func (r *GoalRepository) AddToInvested(ctx context.Context, goalID int64, amount decimal.Decimal) error {
	query := `
		UPDATE goals
		SET invested_amount = invested_amount + $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, goalID, amount)
	if err != nil {
		return fmt.Errorf("failed to update goal total: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check goal update: %w", err)
	}
	if affected == 0 {
		return ledger.ErrGoalNotFound
	}

	return nil
}

// UpsertAccumulate inserts the month's contribution entry or adds to it.
// Like the income upsert this leans on the unique constraint, but the
// conflict action accumulates instead of replacing.
func (r *GoalRepository) UpsertAccumulate(ctx context.Context, userID int64, period ledger.Period, amount decimal.Decimal) (*ledger.GoalContributionEntry, error) {
	query := `
		INSERT INTO goal_contributions (user_id, period_year, period_month, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, period_year, period_month)
		DO UPDATE SET amount = goal_contributions.amount + EXCLUDED.amount, updated_at = now()
		RETURNING id, user_id, period_year, period_month, amount, created_at, updated_at
	`

	var entry ledger.GoalContributionEntry
	var month int
	err := r.db.QueryRowContext(ctx, query, userID, period.Year, int(period.Month), amount).Scan(
		&entry.ID, &entry.UserID, &entry.Period.Year, &month,
		&entry.Amount, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert goal contribution: %w", err)
	}

	entry.Period.Month = monthFromInt(month)
	return &entry, nil
}

// ContributionForPeriod returns the contribution total for the period, or
// zero when there is no entry.
func (r *GoalRepository) ContributionForPeriod(ctx context.Context, userID int64, period ledger.Period) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM goal_contributions
		WHERE user_id = $1 AND period_year = $2 AND period_month = $3
	`

	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, userID, period.Year, int(period.Month)).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get contribution for period: %w", err)
	}

	return total, nil
}

func monthFromInt(m int) time.Month {
	return time.Month(m)
}
