package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"fintrack/internal/domain/ingest"
)

type AlertRepository struct {
	db *DB
}

func NewAlertRepository(db *DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// InsertAlert writes one fraud alert row.
func (r *AlertRepository) InsertAlert(ctx context.Context, alert *ingest.AlertRecord) error {
	query := `
		INSERT INTO fraud_alerts (id, log_id, user_id, risk_score, flags, raw_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		alert.ID, alert.LogID, alert.UserID, alert.RiskScore,
		pq.Array(flagsToStrings(alert.Flags)), alert.RawText, alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fraud alert: %w", err)
	}

	return nil
}

// ListByUser returns the user's alerts, newest first.
func (r *AlertRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*ingest.AlertRecord, error) {
	query := `
		SELECT id, log_id, user_id, risk_score, flags, raw_text, created_at
		FROM fraud_alerts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list fraud alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*ingest.AlertRecord
	for rows.Next() {
		var alert ingest.AlertRecord
		var flags pq.StringArray
		err := rows.Scan(
			&alert.ID, &alert.LogID, &alert.UserID, &alert.RiskScore,
			&flags, &alert.RawText, &alert.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fraud alert: %w", err)
		}
		alert.Flags = stringsToFlags(flags)
		alerts = append(alerts, &alert)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fraud alerts: %w", err)
	}

	return alerts, nil
}
