package migrations

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
)

const pgErrUndefinedTable = "42P01"

// localRecorder reads progress from the target database's own
// schema_migrations table. It is used for the control database, which
// has no external ledger to consult.
type localRecorder struct {
	db *sql.DB
}

// NewLocalRecorder returns a recorder over db's schema_migrations table.
func NewLocalRecorder(db *sql.DB) Recorder {
	return &localRecorder{db: db}
}

func (r *localRecorder) Highest(ctx context.Context) (int, apperrors.Error) {
	var version int
	row := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&version); err != nil {
		// A database that predates its own bookkeeping table is at
		// version zero.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUndefinedTable {
			return 0, nil
		}
		return 0, dberror.ErrMigration.MsgErr("failed to read schema_migrations", err)
	}
	return version, nil
}

// Record is satisfied by the mirror row the runner writes inside each
// step transaction.
func (r *localRecorder) Record(ctx context.Context, version int) apperrors.Error {
	return nil
}
