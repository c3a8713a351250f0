package postgres

import (
	"context"
	"fmt"

	"fintrack/internal/domain/category"
	"fintrack/internal/domain/expense"
)

type ExpenseRepository struct {
	db *DB
}

func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Append inserts a new expense row. There is no conflict target: every
// call creates a row, repeat purchases included.
func (r *ExpenseRepository) Append(ctx context.Context, params expense.AppendParams) (*expense.Expense, error) {
	query := `
		INSERT INTO expenses (user_id, counterparty, category, amount, spent_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, counterparty, category, amount, spent_at, created_at
	`

	var e expense.Expense
	var cat string
	err := r.db.QueryRowContext(ctx, query,
		params.UserID, params.Counterparty, string(params.Category),
		params.Amount, params.SpentAt,
	).Scan(&e.ID, &e.UserID, &e.Counterparty, &cat, &e.Amount, &e.SpentAt, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append expense: %w", err)
	}

	e.Category = category.Category(cat)
	return &e, nil
}

// ListByUser returns the user's expenses, newest first.
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*expense.Expense, error) {
	query := `
		SELECT id, user_id, counterparty, category, amount, spent_at, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY spent_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense
	for rows.Next() {
		var e expense.Expense
		var cat string
		err := rows.Scan(&e.ID, &e.UserID, &e.Counterparty, &cat, &e.Amount, &e.SpentAt, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Category = category.Category(cat)
		expenses = append(expenses, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// SummaryByCategory groups the user's expenses into per-category totals.
func (r *ExpenseRepository) SummaryByCategory(ctx context.Context, userID int64) ([]expense.CategorySummary, error) {
	query := `
		SELECT category, COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses
		WHERE user_id = $1
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	defer rows.Close()

	var summaries []expense.CategorySummary
	for rows.Next() {
		var s expense.CategorySummary
		var cat string
		if err := rows.Scan(&cat, &s.Total, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan expense summary: %w", err)
		}
		s.Category = category.Category(cat)
		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense summary: %w", err)
	}

	return summaries, nil
}
