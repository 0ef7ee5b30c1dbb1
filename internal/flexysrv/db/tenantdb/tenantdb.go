// Package tenantdb executes graph queries against one tenant's
// database. A Repo is bound to the pool the tenant database manager
// handed out and never crosses tenants.
package tenantdb

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"

	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dbmanager"
)

const (
	pgErrForeignKeyViolation = "23503"
)

// Repo is the graph store for a single tenant database.
type Repo struct {
	pool *dbmanager.Pool
}

// New returns a repo over a tenant pool. The pool stays owned by the
// manager's cache.
func New(pool *dbmanager.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) db() *sql.DB {
	return r.pool.DB()
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
