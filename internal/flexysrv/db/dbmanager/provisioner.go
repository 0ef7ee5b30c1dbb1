package dbmanager

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	dbconfig "github.com/hemanthpathath/flexy-db/internal/flexysrv/db/config"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
)

const (
	pgErrDuplicateDatabase  = "42P04"
	pgErrInvalidCatalogName = "3D000"
)

// Provisioner creates and drops physical databases on the server the
// control database lives on.
type Provisioner interface {
	// CreateDatabase creates dbName. A database that already exists is
	// treated as success so that a retry after a partial failure
	// converges instead of erroring.
	CreateDatabase(ctx context.Context, dbName string) apperrors.Error

	// DropDatabase drops dbName after disconnecting any remaining
	// sessions. A database that does not exist is treated as success.
	DropDatabase(ctx context.Context, dbName string) apperrors.Error

	// Close releases the provisioner's own connections.
	Close() error
}

// postgresProvisioner issues CREATE DATABASE and DROP DATABASE through
// a pool on the server's maintenance database. Database DDL cannot run
// inside a transaction, so every statement is a plain Exec.
type postgresProvisioner struct {
	admin *Pool
}

// NewPostgresProvisioner opens a pool to the maintenance database and
// returns a provisioner backed by it.
func NewPostgresProvisioner() (Provisioner, apperrors.Error) {
	pool, err := OpenPool(dbconfig.AdminDSN(), dbconfig.AdminDBName())
	if err != nil {
		return nil, dberror.ErrProvisioning.MsgErr("failed to open admin pool", err)
	}
	return &postgresProvisioner{admin: pool}, nil
}

func (p *postgresProvisioner) CreateDatabase(ctx context.Context, dbName string) apperrors.Error {
	stmt := "CREATE DATABASE " + pgx.Identifier{dbName}.Sanitize()
	if _, err := p.admin.DB().ExecContext(ctx, stmt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrDuplicateDatabase {
			log.Ctx(ctx).Info().Str("db", dbName).Msg("database already exists")
			return nil
		}
		log.Ctx(ctx).Error().Err(err).Str("db", dbName).Msg("failed to create database")
		return dberror.ErrProvisioning.MsgErr("failed to create database "+dbName, err)
	}
	log.Ctx(ctx).Info().Str("db", dbName).Msg("created database")
	return nil
}

func (p *postgresProvisioner) DropDatabase(ctx context.Context, dbName string) apperrors.Error {
	// Open sessions block DROP DATABASE, so disconnect them first.
	// Failing to terminate is not fatal; the drop below reports the
	// real outcome.
	terminate := `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()`
	if _, err := p.admin.DB().ExecContext(ctx, terminate, dbName); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("db", dbName).Msg("failed to terminate backends")
	}

	stmt := "DROP DATABASE IF EXISTS " + pgx.Identifier{dbName}.Sanitize()
	if _, err := p.admin.DB().ExecContext(ctx, stmt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrInvalidCatalogName {
			return nil
		}
		log.Ctx(ctx).Error().Err(err).Str("db", dbName).Msg("failed to drop database")
		return dberror.ErrProvisioning.MsgErr("failed to drop database "+dbName, err)
	}
	log.Ctx(ctx).Info().Str("db", dbName).Msg("dropped database")
	return nil
}

func (p *postgresProvisioner) Close() error {
	return p.admin.Close()
}
