package dbmanager

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/config"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// ControlStore is the slice of the control database the manager depends
// on. The full store implemented by postgresql satisfies it.
type ControlStore interface {
	GetTenant(ctx context.Context, tenantID types.TenantId) (*models.Tenant, apperrors.Error)
	GetTenantDatabase(ctx context.Context, tenantID types.TenantId) (*models.TenantDatabase, apperrors.Error)
	CreateTenantDatabase(ctx context.Context, td *models.TenantDatabase) apperrors.Error
	DeleteTenantDatabase(ctx context.Context, tenantID types.TenantId) apperrors.Error
	HighestTenantMigration(ctx context.Context, tenantID types.TenantId) (int, apperrors.Error)
	RecordTenantMigration(ctx context.Context, tenantID types.TenantId, version int) apperrors.Error
	DeleteTenantMigrations(ctx context.Context, tenantID types.TenantId) apperrors.Error
}

// Migrator brings one tenant database up to the current schema version.
type Migrator interface {
	ApplyPending(ctx context.Context, tenantID types.TenantId, target *Pool) apperrors.Error
}

// PoolFactory opens a pool to a named tenant database.
type PoolFactory func(ctx context.Context, dbName string) (*Pool, error)

// Options configures a Manager. Store and Provisioner are required;
// everything else defaults from config.
type Options struct {
	Store            ControlStore
	Provisioner      Provisioner
	Migrator         Migrator
	PoolFactory      PoolFactory
	DBPrefix         string
	LockTimeout      time.Duration
	ProvisionTimeout time.Duration
}

// Manager owns the tenant database estate for one server instance: the
// pool cache, the per-tenant locks, and the provisioning lifecycle.
// Every dependency is held by the instance; there is no package-level
// registry, so two managers in one process never share state.
type Manager struct {
	store            ControlStore
	provisioner      Provisioner
	migrator         Migrator
	poolFactory      PoolFactory
	pools            *PoolCache
	locks            *KeyedLock
	dbPrefix         string
	provisionTimeout time.Duration
}

// NewManager builds a manager from opts, filling unset fields from the
// server configuration.
func NewManager(opts Options) (*Manager, apperrors.Error) {
	if opts.Store == nil {
		return nil, dberror.ErrDatabase.Msg("manager requires a control store")
	}
	if opts.Provisioner == nil {
		return nil, dberror.ErrDatabase.Msg("manager requires a provisioner")
	}
	if opts.Migrator == nil {
		opts.Migrator = NewTenantMigrator(opts.Store)
	}
	if opts.PoolFactory == nil {
		opts.PoolFactory = openTenant
	}
	if opts.DBPrefix == "" {
		opts.DBPrefix = config.Config().Tenant.DBPrefix
	}
	if opts.LockTimeout == 0 {
		opts.LockTimeout = config.Config().LockTimeout()
	}
	if opts.ProvisionTimeout == 0 {
		opts.ProvisionTimeout = config.Config().ProvisionTimeout()
	}

	return &Manager{
		store:            opts.Store,
		provisioner:      opts.Provisioner,
		migrator:         opts.Migrator,
		poolFactory:      opts.PoolFactory,
		pools:            NewPoolCache(),
		locks:            NewKeyedLock(opts.LockTimeout),
		dbPrefix:         opts.DBPrefix,
		provisionTimeout: opts.ProvisionTimeout,
	}, nil
}

// DatabaseName derives the physical database name for a tenant. The
// mapping is deterministic so a lost tenant_databases row can always be
// reconciled against the server's catalog.
func (m *Manager) DatabaseName(tenantID types.TenantId) string {
	return m.dbPrefix + strings.ToLower(tenantID.String())
}

// GetTenantDB returns a ready pool for the tenant's database,
// provisioning and migrating it first if this is the tenant's first
// access. Concurrent callers for the same tenant perform the expensive
// path once and share the resulting pool.
func (m *Manager) GetTenantDB(ctx context.Context, tenantID types.TenantId) (*Pool, apperrors.Error) {
	if tenantID.IsNil() {
		return nil, dberror.ErrValidation.Msg("tenant id is required")
	}
	k := key(tenantID)

	if pool, ok := m.pools.Get(k); ok {
		return pool, nil
	}

	if _, err := m.store.GetTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	if err := m.locks.Acquire(ctx, k); err != nil {
		return nil, asAppError(err)
	}
	defer m.locks.Release(k)

	if pool, ok := m.pools.Get(k); ok {
		return pool, nil
	}

	// Provisioning must not die with the caller: a canceled request
	// half way through create-migrate-record would strand the tenant.
	// The work is bounded by the provision timeout instead.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.provisionTimeout)
	defer cancel()
	pctx = log.Ctx(ctx).WithContext(pctx)

	pool, err := m.pools.GetOrCreate(k, func() (*Pool, error) {
		return m.provision(pctx, tenantID)
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return pool, nil
}

// provision runs the full first-access path: ensure the physical
// database, open a pool to it, apply pending migrations. The pool is
// only handed to the cache once migrations succeed.
func (m *Manager) provision(ctx context.Context, tenantID types.TenantId) (*Pool, error) {
	dbName, err := m.ensureTenantDatabase(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	pool, perr := m.poolFactory(ctx, dbName)
	if perr != nil {
		return nil, dberror.ErrConnection.MsgErr("failed to open pool for "+dbName, perr)
	}

	if err := m.migrator.ApplyPending(ctx, tenantID, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// EnsureTenantDatabase makes sure the tenant's physical database exists
// and is recorded, without opening a pool or running migrations. It
// returns the database name.
func (m *Manager) EnsureTenantDatabase(ctx context.Context, tenantID types.TenantId) (string, apperrors.Error) {
	if tenantID.IsNil() {
		return "", dberror.ErrValidation.Msg("tenant id is required")
	}
	if _, err := m.store.GetTenant(ctx, tenantID); err != nil {
		return "", err
	}

	k := key(tenantID)
	if err := m.locks.Acquire(ctx, k); err != nil {
		return "", asAppError(err)
	}
	defer m.locks.Release(k)

	return m.ensureTenantDatabase(ctx, tenantID)
}

// ensureTenantDatabase is the critical section body; the caller holds
// the tenant's lock. The control record is written last so a failure at
// any earlier point leaves the store untouched and a bare retry
// converges.
func (m *Manager) ensureTenantDatabase(ctx context.Context, tenantID types.TenantId) (string, apperrors.Error) {
	rec, err := m.store.GetTenantDatabase(ctx, tenantID)
	if err == nil {
		return rec.DBName, nil
	}
	if !errors.Is(err, dberror.ErrNotFound) {
		return "", err
	}

	dbName := m.DatabaseName(tenantID)
	if err := m.provisioner.CreateDatabase(ctx, dbName); err != nil {
		return "", err
	}

	if err := m.store.CreateTenantDatabase(ctx, &models.TenantDatabase{
		TenantID: tenantID,
		DBName:   dbName,
	}); err != nil {
		if errors.Is(err, dberror.ErrAlreadyExists) {
			// Another server instance recorded it between our read and
			// write; the database it points at is the same one.
			return dbName, nil
		}
		return "", err
	}

	log.Ctx(ctx).Info().Str("tenant_id", key(tenantID)).Str("db", dbName).Msg("provisioned tenant database")
	return dbName, nil
}

// DeleteTenantDatabase tears down the tenant's database artifacts: the
// cached pool, the migration records, the control record, and the
// physical database, in that order. Every step tolerates the previous
// attempt having partially completed, so the operation can be re-run
// until it succeeds.
func (m *Manager) DeleteTenantDatabase(ctx context.Context, tenantID types.TenantId) apperrors.Error {
	if tenantID.IsNil() {
		return dberror.ErrValidation.Msg("tenant id is required")
	}
	k := key(tenantID)

	if err := m.locks.Acquire(ctx, k); err != nil {
		return asAppError(err)
	}
	defer m.locks.Release(k)

	m.pools.Evict(k)

	dbName := m.DatabaseName(tenantID)
	rec, err := m.store.GetTenantDatabase(ctx, tenantID)
	if err == nil {
		dbName = rec.DBName
	} else if !errors.Is(err, dberror.ErrNotFound) {
		return err
	}

	if err := m.store.DeleteTenantMigrations(ctx, tenantID); err != nil {
		return err
	}
	if err := m.store.DeleteTenantDatabase(ctx, tenantID); err != nil && !errors.Is(err, dberror.ErrNotFound) {
		return err
	}

	// The physical drop goes last: a leftover database with no record
	// is benign, a record pointing at a missing database is not.
	if err := m.provisioner.DropDatabase(ctx, dbName); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("tenant_id", k).Str("db", dbName).Msg("deleted tenant database")
	return nil
}

// HasPool reports whether a live pool is cached for the tenant.
func (m *Manager) HasPool(tenantID types.TenantId) bool {
	_, ok := m.pools.Get(key(tenantID))
	return ok
}

// Close releases every cached tenant pool and the provisioner's own
// connections.
func (m *Manager) Close() {
	m.pools.Close()
	if m.provisioner != nil {
		m.provisioner.Close()
	}
}

func key(tenantID types.TenantId) string {
	return tenantID.String()
}

func asAppError(err error) apperrors.Error {
	if err == nil {
		return nil
	}
	var appErr apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return dberror.ErrDatabase.Err(err)
}
