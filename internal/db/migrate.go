package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS app_user (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		height_cm     DOUBLE PRECISION,
		weight_kg     DOUBLE PRECISION,
		sport         TEXT NOT NULL,
		level         TEXT NOT NULL,
		position      TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS app_user_email_lower_idx ON app_user (lower(email))`,
	`CREATE TABLE IF NOT EXISTS plan_day (
		id       BIGSERIAL PRIMARY KEY,
		user_id  BIGINT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
		date     DATE NOT NULL,
		day_name TEXT NOT NULL,
		workout  TEXT NOT NULL,
		type     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS plan_day_user_date_idx ON plan_day (user_id, date)`,
}

// Migrate creates the schema if missing. Safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	log.Debugf("db schema ensured (%d statements)", len(migrations))
	return nil
}
