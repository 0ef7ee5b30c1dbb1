package models

import (
	"time"

	"github.com/hemanthpathath/flexy-db/pkg/types"
)

/*
    Column    |           Type           | Collation | Nullable |      Default
--------------+--------------------------+-----------+----------+--------------------
 id           | uuid                     |           | not null |
 email        | character varying(256)   |           | not null |
 display_name | character varying(256)   |           | not null |
 created_at   | timestamp with time zone |           | not null | now()
 updated_at   | timestamp with time zone |           | not null | now()
*/

// User model definition
type User struct {
	ID          string    `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"display_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

/*
   Column    |           Type           | Collation | Nullable |  Default
-------------+--------------------------+-----------+----------+-----------
 tenant_id   | character varying(10)    |           | not null |
 user_id     | uuid                     |           | not null |
 role        | character varying(32)    |           | not null | 'member'
 status      | character varying(16)    |           | not null | 'active'
 created_at  | timestamp with time zone |           | not null | now()
*/

// TenantUser model definition
type TenantUser struct {
	TenantID  types.TenantId `db:"tenant_id" json:"tenant_id"`
	UserID    string         `db:"user_id" json:"user_id"`
	Role      string         `db:"role" json:"role"`
	Status    string         `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
