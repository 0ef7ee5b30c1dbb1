// Package postgresql implements the control store over the shared
// control database.
package postgresql

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"

	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dbmanager"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// Store executes control-plane queries against the control pool. It
// does not own the pool; the db facade that created both closes it.
type Store struct {
	pool *dbmanager.Pool
}

// NewStore returns a store over the control pool.
func NewStore(pool *dbmanager.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) db() *sql.DB {
	return s.pool.DB()
}

// pgErrCode extracts the Postgres error code, or "" for any other
// error.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
