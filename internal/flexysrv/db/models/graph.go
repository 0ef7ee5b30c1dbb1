package models

import (
	"time"

	"github.com/jackc/pgtype"
)

// Graph models live inside each tenant's physical database, never in the
// control database.

/*
    Column    |           Type           | Collation | Nullable | Default
--------------+--------------------------+-----------+----------+---------
 id           | uuid                     |           | not null |
 name         | character varying(256)   |           | not null |
 description  | character varying(1024)  |           |          |
 schema       | text                     |           |          |
 created_at   | timestamp with time zone |           | not null | now()
 updated_at   | timestamp with time zone |           | not null | now()

schema is an opaque JSON Schema document; "" means unconstrained.
*/

// NodeType model definition
type NodeType struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Schema      string    `db:"schema" json:"schema"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

/*
    Column     |           Type           | Collation | Nullable | Default
---------------+--------------------------+-----------+----------+---------
 id            | uuid                     |           | not null |
 node_type_id  | uuid                     |           | not null |
 data          | jsonb                    |           | not null | '{}'
 created_at    | timestamp with time zone |           | not null | now()
 updated_at    | timestamp with time zone |           | not null | now()
*/

// Node model definition
type Node struct {
	ID         string       `db:"id" json:"id"`
	NodeTypeID string       `db:"node_type_id" json:"node_type_id"`
	Data       pgtype.JSONB `db:"data" json:"data"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

/*
      Column       |           Type           | Collation | Nullable | Default
-------------------+--------------------------+-----------+----------+---------
 id                | uuid                     |           | not null |
 source_node_id    | uuid                     |           | not null |
 target_node_id    | uuid                     |           | not null |
 relationship_type | character varying(128)   |           | not null |
 data              | jsonb                    |           | not null | '{}'
 created_at        | timestamp with time zone |           | not null | now()
 updated_at        | timestamp with time zone |           | not null | now()
*/

// Relationship model definition
type Relationship struct {
	ID               string       `db:"id" json:"id"`
	SourceNodeID     string       `db:"source_node_id" json:"source_node_id"`
	TargetNodeID     string       `db:"target_node_id" json:"target_node_id"`
	RelationshipType string       `db:"relationship_type" json:"relationship_type"`
	Data             pgtype.JSONB `db:"data" json:"data"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}
