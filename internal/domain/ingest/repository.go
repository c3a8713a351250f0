package ingest

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/expense"
	"fintrack/internal/domain/fraud"
	"fintrack/internal/domain/ledger"
	"fintrack/internal/domain/message"
)

// LogStore persists ingestion log records.
type LogStore interface {
	InsertLog(ctx context.Context, record *LogRecord) error
}

// AlertStore persists fraud alert records.
type AlertStore interface {
	InsertAlert(ctx context.Context, alert *AlertRecord) error
}

// ExpenseAppender routes debits into the expense record.
type ExpenseAppender interface {
	Append(ctx context.Context, params expense.AppendParams) (*expense.Expense, error)
}

// IncomeApplier routes credits into the income ledger.
type IncomeApplier interface {
	ApplyIncome(ctx context.Context, userID int64, amount decimal.Decimal, observedAt time.Time) (*ledger.IncomeEntry, error)
}

// ReportInvalidator drops a user's cached report reads. The pipeline
// notifies it after a routing write so summaries don't serve stale totals.
type ReportInvalidator interface {
	InvalidateUser(userID int64)
}

// UserDirectory lists the user IDs a message may be attributed to.
type UserDirectory interface {
	CandidateIDs(ctx context.Context) ([]int64, error)
}

// Scorer produces a fraud verdict for a parsed transaction.
type Scorer interface {
	Score(ctx context.Context, txn message.ParsedTransaction, userID int64) fraud.Verdict
}
