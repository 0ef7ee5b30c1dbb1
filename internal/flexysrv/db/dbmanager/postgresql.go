// Package dbmanager manages the physical database estate: the shared
// control database, one database per tenant, the pooled connections to
// each, and the provisioning lifecycle that creates, migrates and drops
// tenant databases.
package dbmanager

import (
	"context"
	"database/sql"
	"sync/atomic"

	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/flexysrv/config"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
)

// Pool is a bounded set of live connections to one database. All
// concurrent callers for the same database share one Pool.
type Pool struct {
	name         string
	db           *sql.DB
	connRequests atomic.Uint64
	connReturns  atomic.Uint64
}

// OpenPool opens a connection pool for the given DSN. The connection is
// lazy; callers that need proof of life should Ping.
func OpenPool(dsn string, name string) (*Pool, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Error().Err(err).Str("db", name).Msg("failed to open db")
		return nil, dberror.ErrConnection.MsgErr("failed to open database "+name, err)
	}

	dbcfg := config.Config().Database
	if dbcfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(dbcfg.MaxConns)
	}
	if dbcfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbcfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(config.Config().ConnMaxLifetime())

	return &Pool{
		name: name,
		db:   sqlDB,
	}, nil
}

// Name returns the database name the pool is connected to.
func (p *Pool) Name() string {
	return p.name
}

// DB exposes the underlying pool for single-statement queries and
// transactions.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Ping verifies the pool can reach its database.
func (p *Pool) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return dberror.ErrConnection.MsgErr("failed to ping database "+p.name, err)
	}
	return nil
}

// Conn pins a single connection from the pool and applies the session
// timeouts every pinned connection runs with. The caller owns the
// connection and must Close it to return it to the pool.
func (p *Pool) Conn(ctx context.Context) (*sql.Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("db", p.name).Msg("failed to obtain connection")
		return nil, dberror.ErrConnection.MsgErr("failed to obtain connection to "+p.name, err)
	}

	if _, err := conn.ExecContext(ctx, "SET lock_timeout = '5s'"); err != nil {
		conn.Close()
		return nil, dberror.ErrConnection.MsgErr("failed to set lock timeout", err)
	}
	if _, err := conn.ExecContext(ctx, "SET statement_timeout = '30s'"); err != nil {
		conn.Close()
		return nil, dberror.ErrConnection.MsgErr("failed to set statement timeout", err)
	}

	p.connRequests.Add(1)
	return conn, nil
}

// ReturnConn closes a pinned connection and counts the return.
func (p *Pool) ReturnConn(conn *sql.Conn) {
	if conn != nil {
		conn.Close()
		p.connReturns.Add(1)
	}
}

// Stats returns the number of pinned-connection requests and returns.
func (p *Pool) Stats() (requests, returns uint64) {
	return p.connRequests.Load(), p.connReturns.Load()
}

// Close closes the pool and all of its connections.
func (p *Pool) Close() error {
	return p.db.Close()
}
