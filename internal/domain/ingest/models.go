// Package ingest runs the full pipeline over raw bank messages: parse,
// categorize, score, persist, and route into the ledgers.
package ingest

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/domain/category"
	"fintrack/internal/domain/fraud"
	"fintrack/internal/domain/message"
)

// ErrNoUsers is returned when ingestion has no user to attribute the
// message to.
var ErrNoUsers = errors.New("no users available for message attribution")

// Routing says where the parsed amount went after the log write.
type Routing string

const (
	// RoutedIncome means a credit was reconciled into the income ledger.
	RoutedIncome Routing = "INCOME"
	// RoutedExpense means a debit was appended to the expense record.
	RoutedExpense Routing = "EXPENSE"
	// RoutedNone means the message was logged but no ledger was touched,
	// either because direction or amount was missing or the route failed.
	RoutedNone Routing = "NONE"
)

// LogRecord is the durable trace of one ingested message. One row is
// written per message regardless of how much the parser extracted.
type LogRecord struct {
	ID           uuid.UUID         `json:"id"`
	UserID       int64             `json:"userId"`
	RawText      string            `json:"rawText"`
	Amount       *decimal.Decimal  `json:"amount,omitempty"`
	Direction    message.Direction `json:"direction,omitempty"`
	Counterparty string            `json:"counterparty,omitempty"`
	Channel      string            `json:"channel,omitempty"`
	ReferenceID  string            `json:"referenceId,omitempty"`
	Category     category.Category `json:"category"`
	RiskScore    int               `json:"riskScore"`
	IsFraud      bool              `json:"isFraud"`
	Flags        []fraud.Flag      `json:"flags"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// AlertRecord is one fraud alert, pointing back at the log row that
// triggered it.
type AlertRecord struct {
	ID        uuid.UUID    `json:"id"`
	LogID     uuid.UUID    `json:"logId"`
	UserID    int64        `json:"userId"`
	RiskScore int          `json:"riskScore"`
	Flags     []fraud.Flag `json:"flags"`
	RawText   string       `json:"rawText"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Result is what one ingestion run produced. Warnings carry the non-fatal
// failures (alert write, ledger routing) that did not abort the run.
type Result struct {
	Record   LogRecord         `json:"record"`
	Category category.Category `json:"category"`
	Verdict  fraud.Verdict     `json:"verdict"`
	Routing  Routing           `json:"routing"`
	Warnings []string          `json:"warnings,omitempty"`
}
