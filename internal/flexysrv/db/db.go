// Package db assembles the database layer: the control pool, the
// control store over it, and the tenant database manager that owns the
// per-tenant estate.
package db

import (
	"context"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dbmanager"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/postgresql"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// ControlStore is everything the service layers need from the control
// database.
type ControlStore interface {
	// Tenants
	CreateTenant(ctx context.Context, tenant *models.Tenant) apperrors.Error
	GetTenant(ctx context.Context, tenantID types.TenantId) (*models.Tenant, apperrors.Error)
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, apperrors.Error)
	UpdateTenant(ctx context.Context, tenant *models.Tenant) apperrors.Error
	DeleteTenant(ctx context.Context, tenantID types.TenantId) apperrors.Error
	ListTenants(ctx context.Context, limit, offset int) ([]models.Tenant, int, apperrors.Error)

	// Users
	CreateUser(ctx context.Context, user *models.User) apperrors.Error
	GetUser(ctx context.Context, userID string) (*models.User, apperrors.Error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, apperrors.Error)
	UpdateUser(ctx context.Context, user *models.User) apperrors.Error
	DeleteUser(ctx context.Context, userID string) apperrors.Error
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, apperrors.Error)

	// Memberships
	AddUserToTenant(ctx context.Context, member *models.TenantUser) apperrors.Error
	RemoveUserFromTenant(ctx context.Context, tenantID types.TenantId, userID string) apperrors.Error
	ListTenantUsers(ctx context.Context, tenantID types.TenantId, limit, offset int) ([]models.TenantUser, int, apperrors.Error)

	// Tenant databases and their migration ledger
	GetTenantDatabase(ctx context.Context, tenantID types.TenantId) (*models.TenantDatabase, apperrors.Error)
	CreateTenantDatabase(ctx context.Context, td *models.TenantDatabase) apperrors.Error
	DeleteTenantDatabase(ctx context.Context, tenantID types.TenantId) apperrors.Error
	HighestTenantMigration(ctx context.Context, tenantID types.TenantId) (int, apperrors.Error)
	RecordTenantMigration(ctx context.Context, tenantID types.TenantId, version int) apperrors.Error
	DeleteTenantMigrations(ctx context.Context, tenantID types.TenantId) apperrors.Error
	ListTenantMigrations(ctx context.Context, tenantID types.TenantId) ([]models.TenantMigration, apperrors.Error)
}

// DB is the assembled database layer for one server instance.
type DB struct {
	Store   ControlStore
	Manager *dbmanager.Manager

	controlPool *dbmanager.Pool
}

// Init brings up the control database and builds the store and manager
// over it. The caller owns the returned DB and must Close it.
func Init(ctx context.Context) (*DB, apperrors.Error) {
	pool, err := dbmanager.OpenControl(ctx)
	if err != nil {
		return nil, err
	}

	store := postgresql.NewStore(pool)

	provisioner, err := dbmanager.NewPostgresProvisioner()
	if err != nil {
		pool.Close()
		return nil, err
	}

	manager, err := dbmanager.NewManager(dbmanager.Options{
		Store:       store,
		Provisioner: provisioner,
	})
	if err != nil {
		provisioner.Close()
		pool.Close()
		return nil, err
	}

	return &DB{
		Store:       store,
		Manager:     manager,
		controlPool: pool,
	}, nil
}

// Ping reports whether the control database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.controlPool.Ping(ctx)
}

// Close shuts down tenant pools first, then the control pool they were
// provisioned through.
func (d *DB) Close() {
	if d.Manager != nil {
		d.Manager.Close()
	}
	if d.controlPool != nil {
		d.controlPool.Close()
	}
}
