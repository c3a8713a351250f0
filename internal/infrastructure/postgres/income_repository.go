package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/ledger"
)

type IncomeRepository struct {
	db *DB
}

func NewIncomeRepository(db *DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

// UpsertReplace inserts the month's income entry or overwrites its amount.
// The conflict target is the (user, year, month) unique constraint, so two
// concurrent writes for the same month settle on one row with the later
// amount instead of erroring or duplicating.
func (r *IncomeRepository) UpsertReplace(ctx context.Context, userID int64, period ledger.Period, amount decimal.Decimal) (*ledger.IncomeEntry, error) {
	query := `
		INSERT INTO income_entries (user_id, period_year, period_month, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, period_year, period_month)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = now()
		RETURNING id, user_id, period_year, period_month, amount, created_at, updated_at
	`

	var entry ledger.IncomeEntry
	var month int
	err := r.db.QueryRowContext(ctx, query, userID, period.Year, int(period.Month), amount).Scan(
		&entry.ID, &entry.UserID, &entry.Period.Year, &month,
		&entry.Amount, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert income entry: %w", err)
	}

	entry.Period.Month = monthFromInt(month)
	return &entry, nil
}

// LatestByUser returns the most recently updated income entry, or nil when
// the user has never recorded income.
func (r *IncomeRepository) LatestByUser(ctx context.Context, userID int64) (*ledger.IncomeEntry, error) {
	query := `
		SELECT id, user_id, period_year, period_month, amount, created_at, updated_at
		FROM income_entries
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var entry ledger.IncomeEntry
	var month int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&entry.ID, &entry.UserID, &entry.Period.Year, &month,
		&entry.Amount, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest income entry: %w", err)
	}

	entry.Period.Month = monthFromInt(month)
	return &entry, nil
}
