package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS user_profiles (
		id             TEXT PRIMARY KEY,
		gender         TEXT NOT NULL,
		daily_goal     INTEGER NOT NULL CHECK (daily_goal > 0),
		streak         INTEGER NOT NULL DEFAULT 0,
		longest_streak INTEGER NOT NULL DEFAULT 0,
		timezone       TEXT NOT NULL DEFAULT 'UTC',
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS prayer_debts (
		user_id         TEXT PRIMARY KEY REFERENCES user_profiles(id) ON DELETE CASCADE,
		owed_fajr       INTEGER NOT NULL CHECK (owed_fajr >= 0),
		owed_dhuhr      INTEGER NOT NULL CHECK (owed_dhuhr >= 0),
		owed_asr        INTEGER NOT NULL CHECK (owed_asr >= 0),
		owed_maghrib    INTEGER NOT NULL CHECK (owed_maghrib >= 0),
		owed_isha       INTEGER NOT NULL CHECK (owed_isha >= 0),
		initial_fajr    INTEGER NOT NULL,
		initial_dhuhr   INTEGER NOT NULL,
		initial_asr     INTEGER NOT NULL,
		initial_maghrib INTEGER NOT NULL,
		initial_isha    INTEGER NOT NULL,
		version         INTEGER NOT NULL DEFAULT 1,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS daily_logs (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
		log_date   DATE NOT NULL,
		fajr       INTEGER NOT NULL DEFAULT 0,
		dhuhr      INTEGER NOT NULL DEFAULT 0,
		asr        INTEGER NOT NULL DEFAULT 0,
		maghrib    INTEGER NOT NULL DEFAULT 0,
		isha       INTEGER NOT NULL DEFAULT 0,
		notes      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, log_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_logs_user_date ON daily_logs(user_id, log_date)`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
