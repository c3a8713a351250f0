package postgres

import (
	"context"
	"fmt"
)

// migrations are applied in order at startup. Each statement is idempotent
// so a restart against an already-migrated database is a no-op.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS message_logs (
		id           UUID PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		raw_text     TEXT NOT NULL,
		amount       NUMERIC(14,2),
		direction    TEXT NOT NULL DEFAULT '',
		counterparty TEXT NOT NULL DEFAULT '',
		channel      TEXT NOT NULL DEFAULT '',
		reference_id TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL,
		risk_score   INTEGER NOT NULL,
		is_fraud     BOOLEAN NOT NULL,
		flags        TEXT[] NOT NULL DEFAULT '{}',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_message_logs_user_created
		ON message_logs (user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS fraud_alerts (
		id         UUID PRIMARY KEY,
		log_id     UUID NOT NULL REFERENCES message_logs(id) ON DELETE CASCADE,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		risk_score INTEGER NOT NULL,
		flags      TEXT[] NOT NULL DEFAULT '{}',
		raw_text   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS expenses (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		counterparty TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL,
		amount       NUMERIC(14,2) NOT NULL,
		spent_at     TIMESTAMPTZ NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses (user_id)`,

	// One row per user and calendar month; the unique constraint is what
	// makes the upserts atomic under concurrent ingestion.
	`CREATE TABLE IF NOT EXISTS income_entries (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		period_year  INTEGER NOT NULL,
		period_month INTEGER NOT NULL,
		amount       NUMERIC(14,2) NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, period_year, period_month)
	)`,

	`CREATE TABLE IF NOT EXISTS goals (
		id              BIGSERIAL PRIMARY KEY,
		user_id         BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		target_amount   NUMERIC(14,2) NOT NULL,
		invested_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS goal_contributions (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		period_year  INTEGER NOT NULL,
		period_month INTEGER NOT NULL,
		amount       NUMERIC(14,2) NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, period_year, period_month)
	)`,
}

// Migrate brings the schema up to date.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
