package expense

import "context"

// Repository defines the store operations for expenses.
type Repository interface {
	// Append inserts a new expense row. Never merges with existing rows.
	Append(ctx context.Context, params AppendParams) (*Expense, error)
	// ListByUser returns the user's expenses, newest first.
	ListByUser(ctx context.Context, userID int64, limit int) ([]*Expense, error)
	// SummaryByCategory returns per-category totals and counts for the user.
	SummaryByCategory(ctx context.Context, userID int64) ([]CategorySummary, error)
}
