package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		salt          TEXT NOT NULL,
		tier          TEXT NOT NULL DEFAULT 'FREE',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS short_links (
		id               UUID PRIMARY KEY,
		slug             TEXT NOT NULL UNIQUE,
		destination_url  TEXT NOT NULL,
		clicks           BIGINT NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at       TIMESTAMPTZ,
		owner_account_id UUID REFERENCES accounts (id) ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_short_links_owner ON short_links (owner_account_id)`,
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
