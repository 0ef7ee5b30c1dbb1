package migrations

import (
	"context"
	"database/sql"
)

// Tenant returns the migration steps for a tenant database. Every
// tenant database runs the same list; per-tenant progress lives in the
// control database's tenant_migrations table.
func Tenant() []Step {
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
			Name:    "create node_types",
			Apply: func(ctx context.Context, tx *sql.Tx) error {
				return exec(ctx, tx, `
					CREATE TABLE IF NOT EXISTS node_types (
						id UUID PRIMARY KEY,
						name TEXT NOT NULL UNIQUE,
						description TEXT NOT NULL DEFAULT '',
						schema TEXT NOT NULL DEFAULT '',
						created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
						updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
					)`)
			},
		},
		{
			Version: 3,
			Name:    "create nodes",
			Apply: func(ctx context.Context, tx *sql.Tx) error {
				return exec(ctx, tx, `
					CREATE TABLE IF NOT EXISTS nodes (
						id UUID PRIMARY KEY,
						node_type_id UUID NOT NULL REFERENCES node_types(id),
						data JSONB NOT NULL DEFAULT '{}',
						created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
						updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
					)`)
			},
		},
		{
			Version: 4,
			Name:    "create relationships",
			Apply: func(ctx context.Context, tx *sql.Tx) error {
				return exec(ctx, tx, `
					CREATE TABLE IF NOT EXISTS relationships (
						id UUID PRIMARY KEY,
						source_node_id UUID NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
						target_node_id UUID NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
						relationship_type TEXT NOT NULL,
						data JSONB NOT NULL DEFAULT '{}',
						created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
						updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
					)`)
			},
		},
		{
			Version: 5,
			Name:    "create graph indexes",
			Apply: func(ctx context.Context, tx *sql.Tx) error {
				return exec(ctx, tx,
					`CREATE INDEX IF NOT EXISTS idx_nodes_node_type ON nodes (node_type_id)`,
					`CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships (source_node_id)`,
					`CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships (target_node_id)`,
					`CREATE INDEX IF NOT EXISTS idx_relationships_type ON relationships (relationship_type)`)
			},
		},
	}
}
