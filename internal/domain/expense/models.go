// Package expense holds the append-only record of money spent, grouped for
// reporting by category.
package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/category"
)

// Expense is one recorded spend. Expenses are append-only: the same
// counterparty and amount on the same day are separate purchases, so there
// is no dedup or merge on write.
type Expense struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"userId"`
	Counterparty string            `json:"counterparty"`
	Category     category.Category `json:"category"`
	Amount       decimal.Decimal   `json:"amount"`
	SpentAt      time.Time         `json:"spentAt"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// CategorySummary is one row of the grouped expense report.
type CategorySummary struct {
	Category category.Category `json:"category"`
	Total    decimal.Decimal   `json:"total"`
	Count    int               `json:"count"`
}

// AppendParams contains the fields needed to record a new expense.
type AppendParams struct {
	UserID       int64
	Counterparty string
	Category     category.Category
	Amount       decimal.Decimal
	SpentAt      time.Time
}
