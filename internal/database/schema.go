package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is applied at startup and is idempotent. Uniqueness that the
// application also checks (account name, email digest, active campaign
// name, pixel sequence, one view per pixel) is backed here so the
// check-then-insert windows cannot produce duplicates.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		uuid TEXT NOT NULL,
		name_enc TEXT NOT NULL,
		surname_enc TEXT NOT NULL,
		account_name TEXT NOT NULL UNIQUE,
		salt TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		email_enc TEXT NOT NULL,
		email_digest TEXT NOT NULL UNIQUE,
		grant_id INTEGER NOT NULL DEFAULT 0,
		created_datetime TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_datetime TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS logins (
		id SERIAL PRIMARY KEY,
		user_id INTEGER REFERENCES users(id),
		login_datetime TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		login_status INTEGER NOT NULL DEFAULT 0,
		token TEXT,
		token_expiry TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id SERIAL PRIMARY KEY,
		campaign_name TEXT NOT NULL,
		campaign_description TEXT NOT NULL DEFAULT '',
		created_datetime TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_datetime TIMESTAMPTZ,
		start_datetime TIMESTAMPTZ NOT NULL,
		end_datetime TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS campaigns_active_name_idx
		ON campaigns (campaign_name) WHERE deleted_datetime IS NULL`,
	`CREATE TABLE IF NOT EXISTS groups (
		id SERIAL PRIMARY KEY,
		campaign_id INTEGER NOT NULL REFERENCES campaigns(id),
		campaign_group_id INTEGER NOT NULL,
		group_name TEXT NOT NULL,
		group_description TEXT NOT NULL DEFAULT '',
		created_datetime TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_datetime TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		uuid TEXT PRIMARY KEY,
		campaign_id INTEGER NOT NULL REFERENCES campaigns(id),
		group_id INTEGER NOT NULL REFERENCES groups(id),
		scheduled_datetime TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pixels (
		uuid TEXT PRIMARY KEY,
		contact_uuid TEXT NOT NULL REFERENCES contacts(uuid),
		contact_pixel_number INTEGER NOT NULL,
		UNIQUE (contact_uuid, contact_pixel_number)
	)`,
	`CREATE TABLE IF NOT EXISTS views (
		id SERIAL PRIMARY KEY,
		pixel_uuid TEXT NOT NULL UNIQUE REFERENCES pixels(uuid),
		view_datetime TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
