package models

import (
	"time"

	"github.com/hemanthpathath/flexy-db/pkg/types"
)

/*
   Column    |           Type           | Collation | Nullable |  Default
-------------+--------------------------+-----------+----------+-----------
 id          | character varying(10)    |           | not null |
 slug        | character varying(128)   |           | not null |
 name        | character varying(256)   |           | not null |
 status      | character varying(16)    |           | not null | 'active'
 created_at  | timestamp with time zone |           | not null | now()
 updated_at  | timestamp with time zone |           | not null | now()
*/

// Tenant model definition
type Tenant struct {
	ID        types.TenantId `db:"id" json:"id"`
	Slug      string         `db:"slug" json:"slug"`
	Name      string         `db:"name" json:"name"`
	Status    string         `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

/*
   Column    |           Type           | Collation | Nullable | Default
-------------+--------------------------+-----------+----------+---------
 tenant_id   | character varying(10)    |           | not null |
 db_name     | character varying(64)    |           | not null |
 created_at  | timestamp with time zone |           | not null | now()

tenant_id is the primary key: exactly one physical database per tenant.
An existing row implies the physical database exists.
*/

// TenantDatabase model definition
type TenantDatabase struct {
	TenantID  types.TenantId `db:"tenant_id" json:"tenant_id"`
	DBName    string         `db:"db_name" json:"db_name"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

/*
   Column    |           Type           | Collation | Nullable | Default
-------------+--------------------------+-----------+----------+---------
 tenant_id   | character varying(10)    |           | not null |
 version     | integer                  |           | not null |
 applied_at  | timestamp with time zone |           | not null | now()

Append-only. The versions recorded for a tenant always form the contiguous
prefix {1..k} of the defined migration list.
*/

// TenantMigration model definition
type TenantMigration struct {
	TenantID  types.TenantId `db:"tenant_id" json:"tenant_id"`
	Version   int            `db:"version" json:"version"`
	AppliedAt time.Time      `db:"applied_at" json:"applied_at"`
}
