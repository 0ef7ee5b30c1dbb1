package migrations

import (
	"context"
	"database/sql"
)

// Control returns the migration steps for the shared control database.
// Entries are append-only: released versions are never edited or
// reordered.
func Control() []Step {
	return []Step{
		{
			Version: 1,
			Name:    "create schema_migrations",
			Apply: func(ctx context.Context, tx *sql.Tx) error {
				return exec(ctx, tx, `
					CREATE TABLE IF NOT EXISTS schema_migrations (
						version INT PRIMARY KEY,
						applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
					)`)
			},
		},
		{
			Version: 2,
			Name:    "create tenants",
			Apply: func(ctx context.Context, tx *sql.Tx) error {
				return exec(ctx, tx, `
					CREATE TABLE IF NOT EXISTS tenants (
						id TEXT PRIMARY KEY,
						slug TEXT NOT NULL UNIQUE,
						name TEXT NOT NULL,
						status TEXT NOT NULL DEFAULT 'active',
						created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
						updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
					)`)
			},
		},
		{
			Version: 3,
			Name:    "create users",
			Apply: func(ctx context.Context, tx *sql.Tx) error {
				return exec(ctx, tx, `
					CREATE TABLE IF NOT EXISTS users (
						id UUID PRIMARY KEY,
						email TEXT NOT NULL UNIQUE,
						display_name TEXT NOT NULL DEFAULT '',
						created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
						updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
					)`)
			},
		},
		{
			Version: 4,
			Name:    "create tenant_users",
			Apply: func(ctx context.Context, tx *sql.Tx) error {
				return exec(ctx, tx, `
					CREATE TABLE IF NOT EXISTS tenant_users (
						tenant_id TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
						user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
						role TEXT NOT NULL DEFAULT 'member',
						status TEXT NOT NULL DEFAULT 'active',
						created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
						PRIMARY KEY (tenant_id, user_id)
					)`)
			},
		},
		{
			Version: 5,
			Name:    "create tenant_databases",
			Apply: func(ctx context.Context, tx *sql.Tx) error {
				return exec(ctx, tx, `
					CREATE TABLE IF NOT EXISTS tenant_databases (
						tenant_id TEXT PRIMARY KEY REFERENCES tenants(id) ON DELETE CASCADE,
						db_name TEXT NOT NULL UNIQUE,
						created_at TIMESTAMPTZ NOT NULL DEFAULT now()
					)`)
			},
		},
		{
			Version: 6,
			Name:    "create tenant_migrations",
			Apply: func(ctx context.Context, tx *sql.Tx) error {
				// No FK to tenants: rows must stay readable while a
				// partially deleted tenant is being cleaned up.
				return exec(ctx, tx, `
					CREATE TABLE IF NOT EXISTS tenant_migrations (
						tenant_id TEXT NOT NULL,
						version INT NOT NULL,
						applied_at TIMESTAMPTZ NOT NULL DEFAULT now(),
						PRIMARY KEY (tenant_id, version)
					)`)
			},
		},
	}
}
