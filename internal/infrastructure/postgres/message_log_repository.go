package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"fintrack/internal/domain/category"
	"fintrack/internal/domain/fraud"
	"fintrack/internal/domain/ingest"
	"fintrack/internal/domain/message"
)

// MessageLogRepository persists the per-message ingestion trace. It doubles
// as the activity source for rapid-frequency fraud checks.
type MessageLogRepository struct {
	db *DB
}

func NewMessageLogRepository(db *DB) *MessageLogRepository {
	return &MessageLogRepository{db: db}
}

// InsertLog writes one log row.
func (r *MessageLogRepository) InsertLog(ctx context.Context, record *ingest.LogRecord) error {
	query := `
		INSERT INTO message_logs
			(id, user_id, raw_text, amount, direction, counterparty, channel,
			 reference_id, category, risk_score, is_fraud, flags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var amount decimal.NullDecimal
	if record.Amount != nil {
		amount = decimal.NewNullDecimal(*record.Amount)
	}

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.RawText, amount,
		string(record.Direction), record.Counterparty, record.Channel,
		record.ReferenceID, string(record.Category), record.RiskScore,
		record.IsFraud, pq.Array(flagsToStrings(record.Flags)), record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message log: %w", err)
	}

	return nil
}

// CountRecentByUser counts log rows for the user since the given instant.
func (r *MessageLogRepository) CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM message_logs
		WHERE user_id = $1 AND created_at >= $2
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent messages: %w", err)
	}

	return count, nil
}

// ListRecentByUser returns the user's newest log rows, up to limit.
func (r *MessageLogRepository) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*ingest.LogRecord, error) {
	query := `
		SELECT id, user_id, raw_text, amount, direction, counterparty, channel,
		       reference_id, category, risk_score, is_fraud, flags, created_at
		FROM message_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list message logs: %w", err)
	}
	defer rows.Close()

	var records []*ingest.LogRecord
	for rows.Next() {
		var rec ingest.LogRecord
		var amount decimal.NullDecimal
		var direction, cat string
		var flags pq.StringArray
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.RawText, &amount, &direction,
			&rec.Counterparty, &rec.Channel, &rec.ReferenceID, &cat,
			&rec.RiskScore, &rec.IsFraud, &flags, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message log: %w", err)
		}
		if amount.Valid {
			rec.Amount = &amount.Decimal
		}
		rec.Direction = message.Direction(direction)
		rec.Category = category.Category(cat)
		rec.Flags = stringsToFlags(flags)
		records = append(records, &rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message logs: %w", err)
	}

	return records, nil
}

func flagsToStrings(flags []fraud.Flag) []string {
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = string(f)
	}
	return out
}

func stringsToFlags(ss []string) []fraud.Flag {
	if len(ss) == 0 {
		return nil
	}
	out := make([]fraud.Flag, len(ss))
	for i, s := range ss {
		out[i] = fraud.Flag(s)
	}
	return out
}
