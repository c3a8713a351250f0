package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/domain/category"
	"fintrack/internal/domain/expense"
	"fintrack/internal/domain/fraud"
	"fintrack/internal/domain/ledger"
	"fintrack/internal/domain/message"
)

type mockLogStore struct {
	InsertLogFunc func(ctx context.Context, record *LogRecord) error
}

func (m *mockLogStore) InsertLog(ctx context.Context, record *LogRecord) error {
	return m.InsertLogFunc(ctx, record)
}

type mockAlertStore struct {
	InsertAlertFunc func(ctx context.Context, alert *AlertRecord) error
}

func (m *mockAlertStore) InsertAlert(ctx context.Context, alert *AlertRecord) error {
	return m.InsertAlertFunc(ctx, alert)
}

type mockExpenseAppender struct {
	AppendFunc func(ctx context.Context, params expense.AppendParams) (*expense.Expense, error)
}

func (m *mockExpenseAppender) Append(ctx context.Context, params expense.AppendParams) (*expense.Expense, error) {
	return m.AppendFunc(ctx, params)
}

type mockIncomeApplier struct {
	ApplyIncomeFunc func(ctx context.Context, userID int64, amount decimal.Decimal, observedAt time.Time) (*ledger.IncomeEntry, error)
}

func (m *mockIncomeApplier) ApplyIncome(ctx context.Context, userID int64, amount decimal.Decimal, observedAt time.Time) (*ledger.IncomeEntry, error) {
	return m.ApplyIncomeFunc(ctx, userID, amount, observedAt)
}

type mockUserDirectory struct {
	CandidateIDsFunc func(ctx context.Context) ([]int64, error)
}

func (m *mockUserDirectory) CandidateIDs(ctx context.Context) ([]int64, error) {
	return m.CandidateIDsFunc(ctx)
}

type mockScorer struct {
	ScoreFunc func(ctx context.Context, txn message.ParsedTransaction, userID int64) fraud.Verdict
}

func (m *mockScorer) Score(ctx context.Context, txn message.ParsedTransaction, userID int64) fraud.Verdict {
	return m.ScoreFunc(ctx, txn, userID)
}

type mockActivityCounter struct {
	CountRecentByUserFunc func(ctx context.Context, userID int64, since time.Time) (int, error)
}

func (m *mockActivityCounter) CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int, error) {
	return m.CountRecentByUserFunc(ctx, userID, since)
}

// pipeline is a test harness with every collaborator succeeding and benign
// by default. Tests override the pieces they care about.
type pipeline struct {
	logs     *mockLogStore
	alerts   *mockAlertStore
	expenses *mockExpenseAppender
	income   *mockIncomeApplier
	users    *mockUserDirectory
	scorer   *mockScorer

	loggedRecords  []*LogRecord
	raisedAlerts   []*AlertRecord
	appendedParams []expense.AppendParams
	incomeApplies  []decimal.Decimal
}

func newPipeline() *pipeline {
	p := &pipeline{}
	p.logs = &mockLogStore{InsertLogFunc: func(ctx context.Context, record *LogRecord) error {
		p.loggedRecords = append(p.loggedRecords, record)
		return nil
	}}
	p.alerts = &mockAlertStore{InsertAlertFunc: func(ctx context.Context, alert *AlertRecord) error {
		p.raisedAlerts = append(p.raisedAlerts, alert)
		return nil
	}}
	p.expenses = &mockExpenseAppender{AppendFunc: func(ctx context.Context, params expense.AppendParams) (*expense.Expense, error) {
		p.appendedParams = append(p.appendedParams, params)
		return &expense.Expense{ID: 1}, nil
	}}
	p.income = &mockIncomeApplier{ApplyIncomeFunc: func(ctx context.Context, userID int64, amount decimal.Decimal, observedAt time.Time) (*ledger.IncomeEntry, error) {
		p.incomeApplies = append(p.incomeApplies, amount)
		return &ledger.IncomeEntry{ID: 1, UserID: userID, Amount: amount}, nil
	}}
	p.users = &mockUserDirectory{CandidateIDsFunc: func(ctx context.Context) ([]int64, error) {
		return []int64{1}, nil
	}}
	p.scorer = &mockScorer{ScoreFunc: func(ctx context.Context, txn message.ParsedTransaction, userID int64) fraud.Verdict {
		return fraud.Verdict{}
	}}
	return p
}

func (p *pipeline) service() *Service {
	return NewService(p.logs, p.alerts, p.expenses, p.income, p.users, p.scorer, zerolog.Nop())
}

func TestIngestDebitEndToEnd(t *testing.T) {
	p := newPipeline()
	// Real detector: daytime clock, quiet user. XYZ Pvt Ltd is untrusted
	// and 15000 crosses the high-amount line, so 55 points and an alert.
	counter := &mockActivityCounter{CountRecentByUserFunc: func(ctx context.Context, userID int64, since time.Time) (int, error) {
		return 0, nil
	}}
	noon := time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC)
	detector := fraud.NewDetectorWithClock(counter, zerolog.Nop(), func() time.Time { return noon })

	svc := NewService(p.logs, p.alerts, p.expenses, p.income, p.users, detector, zerolog.Nop()).
		WithClock(func() time.Time { return noon })

	result, err := svc.Ingest(context.Background(),
		"Rs. 15000 debited from your account at XYZ Pvt Ltd via UPI Ref No 123456")
	require.NoError(t, err)

	record := result.Record
	require.True(t, record.Amount != nil)
	assert.True(t, record.Amount.Equal(decimal.NewFromInt(15000)))
	assert.Equal(t, message.DirectionDebit, record.Direction)
	assert.Equal(t, "XYZ Pvt Ltd", record.Counterparty)
	assert.Equal(t, "UPI", record.Channel)
	assert.Equal(t, "123456", record.ReferenceID)
	assert.Equal(t, category.Others, result.Category)

	assert.Equal(t, 55, result.Verdict.RiskScore)
	assert.True(t, result.Verdict.IsFraud)
	require.Len(t, p.raisedAlerts, 1)
	assert.Equal(t, record.ID, p.raisedAlerts[0].LogID)

	assert.Equal(t, RoutedExpense, result.Routing)
	require.Len(t, p.appendedParams, 1)
	assert.Equal(t, category.Others, p.appendedParams[0].Category)
	assert.True(t, p.appendedParams[0].Amount.Equal(decimal.NewFromInt(15000)))
	assert.Empty(t, result.Warnings)
}

func TestIngestCreditRoutesToIncome(t *testing.T) {
	p := newPipeline()
	svc := p.service()

	result, err := svc.Ingest(context.Background(),
		"Rs. 50000 credited to your account from Acme Payroll via NEFT")
	require.NoError(t, err)

	assert.Equal(t, RoutedIncome, result.Routing)
	require.Len(t, p.incomeApplies, 1)
	assert.True(t, p.incomeApplies[0].Equal(decimal.NewFromInt(50000)))
	assert.Empty(t, p.appendedParams)
	assert.Empty(t, p.raisedAlerts)
}

func TestIngestLogsEvenWhenNothingParses(t *testing.T) {
	p := newPipeline()

	result, err := p.service().Ingest(context.Background(), "Your OTP for login is 4821")
	require.NoError(t, err)

	require.Len(t, p.loggedRecords, 1)
	assert.Equal(t, RoutedNone, result.Routing)
	assert.Empty(t, p.appendedParams)
	assert.Empty(t, p.incomeApplies)
}

func TestIngestAmountWithoutDirectionIsNotRouted(t *testing.T) {
	p := newPipeline()

	result, err := p.service().Ingest(context.Background(),
		"Payment of Rs. 300 at Cafe Corner is pending")
	require.NoError(t, err)

	assert.Equal(t, RoutedNone, result.Routing)
	assert.Empty(t, p.appendedParams)
	assert.Empty(t, p.incomeApplies)
	require.Len(t, p.loggedRecords, 1)
}

func TestIngestLogWriteFailureIsFatal(t *testing.T) {
	p := newPipeline()
	p.logs.InsertLogFunc = func(ctx context.Context, record *LogRecord) error {
		return errors.New("disk full")
	}

	_, err := p.service().Ingest(context.Background(), "Rs. 100 debited at Shop")
	require.Error(t, err)
	assert.Empty(t, p.appendedParams, "routing must not run without a log row")
}

func TestIngestAlertFailureDegradesToWarning(t *testing.T) {
	p := newPipeline()
	p.scorer.ScoreFunc = func(ctx context.Context, txn message.ParsedTransaction, userID int64) fraud.Verdict {
		return fraud.Verdict{IsFraud: true, RiskScore: 55, Flags: []fraud.Flag{fraud.FlagHighAmount, fraud.FlagUnknownMerchant}}
	}
	p.alerts.InsertAlertFunc = func(ctx context.Context, alert *AlertRecord) error {
		return errors.New("alerts table locked")
	}

	result, err := p.service().Ingest(context.Background(),
		"Rs. 15000 debited from your account at XYZ Pvt Ltd via UPI Ref No 123456")
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "alert write failed")
	// Routing still ran despite the failed alert.
	assert.Equal(t, RoutedExpense, result.Routing)
}

func TestIngestRoutingFailureDegradesToWarning(t *testing.T) {
	p := newPipeline()
	p.expenses.AppendFunc = func(ctx context.Context, params expense.AppendParams) (*expense.Expense, error) {
		return nil, errors.New("constraint violation")
	}

	result, err := p.service().Ingest(context.Background(), "Rs. 100 debited at Cafe Corner")
	require.NoError(t, err)

	assert.Equal(t, RoutedNone, result.Routing)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "expense routing failed")
	require.Len(t, p.loggedRecords, 1)
}

type mockInvalidator struct {
	invalidated []int64
}

func (m *mockInvalidator) InvalidateUser(userID int64) {
	m.invalidated = append(m.invalidated, userID)
}

func TestIngestRoutingInvalidatesCachedReports(t *testing.T) {
	p := newPipeline()
	reports := &mockInvalidator{}
	svc := p.service().WithInvalidator(reports)

	_, err := svc.Ingest(context.Background(), "Rs. 100 debited at Cafe Corner")
	require.NoError(t, err)
	require.Len(t, reports.invalidated, 1, "a routed debit must drop the user's cached reports")
	assert.Equal(t, int64(1), reports.invalidated[0])

	_, err = svc.Ingest(context.Background(), "Rs. 50000 credited from Acme Payroll via NEFT")
	require.NoError(t, err)
	assert.Len(t, reports.invalidated, 2, "a routed credit must drop the user's cached reports")
}

func TestIngestUnroutedMessageKeepsCachedReports(t *testing.T) {
	p := newPipeline()
	reports := &mockInvalidator{}
	svc := p.service().WithInvalidator(reports)

	// No amount or direction: logged only, nothing written to the ledgers.
	_, err := svc.Ingest(context.Background(), "Your OTP for login is 4821")
	require.NoError(t, err)
	assert.Empty(t, reports.invalidated)

	// Routing failed, so the totals didn't change either.
	p.expenses.AppendFunc = func(ctx context.Context, params expense.AppendParams) (*expense.Expense, error) {
		return nil, errors.New("constraint violation")
	}
	_, err = svc.Ingest(context.Background(), "Rs. 100 debited at Cafe Corner")
	require.NoError(t, err)
	assert.Empty(t, reports.invalidated)
}

func TestIngestWithoutUsersFails(t *testing.T) {
	p := newPipeline()
	p.users.CandidateIDsFunc = func(ctx context.Context) ([]int64, error) {
		return nil, nil
	}

	_, err := p.service().Ingest(context.Background(), "Rs. 100 debited at Shop")
	assert.ErrorIs(t, err, ErrNoUsers)
	assert.Empty(t, p.loggedRecords)
}

func TestIngestAttributionUsesPicker(t *testing.T) {
	p := newPipeline()
	p.users.CandidateIDsFunc = func(ctx context.Context) ([]int64, error) {
		return []int64{4, 7, 9}, nil
	}
	svc := p.service().WithPicker(func(n int) int {
		require.Equal(t, 3, n)
		return 1
	})

	result, err := svc.Ingest(context.Background(), "Rs. 100 debited at Cafe Corner")
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Record.UserID)
}
