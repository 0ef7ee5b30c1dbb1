package dbmanager

import (
	"context"
	"errors"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	dbconfig "github.com/hemanthpathath/flexy-db/internal/flexysrv/db/config"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/migrations"
)

// OpenControl brings up the control database for this server instance:
// creates it if the server has never run against this Postgres, opens
// its pool, and applies pending control migrations. The returned pool
// is ready for the control store.
func OpenControl(ctx context.Context) (*Pool, apperrors.Error) {
	if err := ensureControlDatabase(ctx); err != nil {
		return nil, err
	}

	pool, err := OpenPool(dbconfig.ControlDSN(), dbconfig.ControlDBName())
	if err != nil {
		return nil, dberror.ErrConnection.MsgErr("failed to open control pool", err)
	}
	if err := pingWithRetry(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	runner, rerr := migrations.NewRunner(migrations.Control(), migrations.NewLocalRecorder(pool.DB()))
	if rerr != nil {
		pool.Close()
		return nil, rerr
	}
	if err := runner.ApplyPending(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	log.Ctx(ctx).Info().Str("db", pool.Name()).Int("version", runner.Latest()).Msg("control database ready")
	return pool, nil
}

// ensureControlDatabase creates the control database through the
// maintenance database if it does not exist yet.
func ensureControlDatabase(ctx context.Context) apperrors.Error {
	admin, err := OpenPool(dbconfig.AdminDSN(), dbconfig.AdminDBName())
	if err != nil {
		return dberror.ErrConnection.MsgErr("failed to open admin pool", err)
	}
	defer admin.Close()

	if err := pingWithRetry(ctx, admin); err != nil {
		return err
	}

	name := dbconfig.ControlDBName()
	var exists bool
	row := admin.DB().QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, name)
	if err := row.Scan(&exists); err != nil {
		return dberror.ErrDatabase.MsgErr("failed to check for control database", err)
	}
	if exists {
		return nil
	}

	stmt := "CREATE DATABASE " + pgx.Identifier{name}.Sanitize()
	if _, err := admin.DB().ExecContext(ctx, stmt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrDuplicateDatabase {
			return nil
		}
		return dberror.ErrProvisioning.MsgErr("failed to create control database", err)
	}
	log.Ctx(ctx).Info().Str("db", name).Msg("created control database")
	return nil
}

// openTenant is the default pool factory: open, then prove the database
// is reachable before the pool is handed to anyone.
func openTenant(ctx context.Context, dbName string) (*Pool, error) {
	pool, err := OpenPool(dbconfig.TenantDSN(dbName), dbName)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// pingWithRetry absorbs the startup races of a database that is itself
// still coming up, such as a sibling container.
func pingWithRetry(ctx context.Context, pool *Pool) apperrors.Error {
	err := retry.Do(
		func() error { return pool.DB().PingContext(ctx) },
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return dberror.ErrConnection.MsgErr("database not reachable: "+pool.Name(), err)
	}
	return nil
}
