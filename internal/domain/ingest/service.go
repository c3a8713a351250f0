package ingest

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fintrack/internal/domain/category"
	"fintrack/internal/domain/expense"
	"fintrack/internal/domain/message"
)

// Service orchestrates one message's trip through the pipeline. The log
// write is the only fatal step: everything after it degrades to a warning
// so that a persisted trace always exists for whatever happened next.
type Service struct {
	logs     LogStore
	alerts   AlertStore
	expenses ExpenseAppender
	ledger   IncomeApplier
	users    UserDirectory
	scorer   Scorer
	reports  ReportInvalidator
	pick     func(n int) int
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates an ingestion service with the wall clock and uniform
// random user attribution.
func NewService(logs LogStore, alerts AlertStore, expenses ExpenseAppender, income IncomeApplier, users UserDirectory, scorer Scorer, log zerolog.Logger) *Service {
	return &Service{
		logs:     logs,
		alerts:   alerts,
		expenses: expenses,
		ledger:   income,
		users:    users,
		scorer:   scorer,
		pick:     rand.Intn,
		now:      time.Now,
		log:      log,
	}
}

// WithInvalidator registers a cache invalidator notified whenever routing
// writes to a user's ledgers.
func (s *Service) WithInvalidator(reports ReportInvalidator) *Service {
	s.reports = reports
	return s
}

// WithClock replaces the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithPicker replaces the user-attribution picker. Intended for tests.
func (s *Service) WithPicker(pick func(n int) int) *Service {
	s.pick = pick
	return s
}

// Ingest runs the pipeline over one raw message. It fails only when the
// message cannot be attributed to a user or the log write fails; alert and
// ledger failures are reported in Result.Warnings.
func (s *Service) Ingest(ctx context.Context, raw string) (*Result, error) {
	observedAt := s.now()
	txn := message.ParseAt(raw, observedAt)
	cat := category.Categorize(txn.Counterparty)

	userID, err := s.attributeUser(ctx)
	if err != nil {
		return nil, err
	}

	verdict := s.scorer.Score(ctx, txn, userID)

	record := LogRecord{
		ID:           uuid.New(),
		UserID:       userID,
		RawText:      raw,
		Amount:       txn.Amount,
		Direction:    txn.Direction,
		Counterparty: txn.Counterparty,
		Channel:      txn.Channel,
		ReferenceID:  txn.ReferenceID,
		Category:     cat,
		RiskScore:    verdict.RiskScore,
		IsFraud:      verdict.IsFraud,
		Flags:        verdict.Flags,
		CreatedAt:    observedAt,
	}
	if err := s.logs.InsertLog(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to persist message log: %w", err)
	}

	result := &Result{
		Record:   record,
		Category: cat,
		Verdict:  verdict,
		Routing:  RoutedNone,
	}

	if verdict.IsFraud {
		s.raiseAlert(ctx, result, &record)
	}

	s.route(ctx, result, txn, userID, cat)

	return result, nil
}

func (s *Service) attributeUser(ctx context.Context) (int64, error) {
	ids, err := s.users.CandidateIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list candidate users: %w", err)
	}
	if len(ids) == 0 {
		return 0, ErrNoUsers
	}
	return ids[s.pick(len(ids))], nil
}

func (s *Service) raiseAlert(ctx context.Context, result *Result, record *LogRecord) {
	alert := AlertRecord{
		ID:        uuid.New(),
		LogID:     record.ID,
		UserID:    record.UserID,
		RiskScore: record.RiskScore,
		Flags:     record.Flags,
		RawText:   record.RawText,
		CreatedAt: record.CreatedAt,
	}
	if err := s.alerts.InsertAlert(ctx, &alert); err != nil {
		s.log.Warn().Err(err).Stringer("log_id", record.ID).
			Msg("fraud alert write failed, log record stands alone")
		result.Warnings = append(result.Warnings, fmt.Sprintf("alert write failed: %v", err))
	}
}

// route sends the amount to the matching ledger. Routing needs both a
// direction and an amount; a message missing either is logged only.
func (s *Service) route(ctx context.Context, result *Result, txn message.ParsedTransaction, userID int64, cat category.Category) {
	if !txn.HasAmount() || txn.Direction == message.DirectionUnknown {
		return
	}

	switch {
	case txn.IsCredit():
		if _, err := s.ledger.ApplyIncome(ctx, userID, *txn.Amount, txn.ObservedAt); err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).
				Msg("income routing failed for credited message")
			result.Warnings = append(result.Warnings, fmt.Sprintf("income routing failed: %v", err))
			return
		}
		result.Routing = RoutedIncome
	case txn.IsDebit():
		params := expense.AppendParams{
			UserID:       userID,
			Counterparty: txn.Counterparty,
			Category:     cat,
			Amount:       *txn.Amount,
			SpentAt:      txn.ObservedAt,
		}
		if _, err := s.expenses.Append(ctx, params); err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).
				Msg("expense routing failed for debited message")
			result.Warnings = append(result.Warnings, fmt.Sprintf("expense routing failed: %v", err))
			return
		}
		result.Routing = RoutedExpense
	}

	if result.Routing != RoutedNone && s.reports != nil {
		s.reports.InvalidateUser(userID)
	}
}
