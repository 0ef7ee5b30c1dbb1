// Package tenantmanager implements the control-plane operations:
// tenants, users and memberships. Tenant deletion reaches through the
// tenant database manager so the tenant's physical database goes away
// with the record.
package tenantmanager

import (
	"context"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// DatabaseManager is the slice of the tenant database manager this
// package needs for teardown.
type DatabaseManager interface {
	DeleteTenantDatabase(ctx context.Context, tenantID types.TenantId) apperrors.Error
}

// TenantManager serves the control-plane operations over the control
// store.
type TenantManager struct {
	store db.ControlStore
	dbm   DatabaseManager
}

// New returns a tenant manager over store. The database manager is
// consulted only when a tenant is deleted.
func New(store db.ControlStore, dbm DatabaseManager) *TenantManager {
	return &TenantManager{
		store: store,
		dbm:   dbm,
	}
}

func requireTenantID(tenantID string) apperrors.Error {
	if tenantID == "" {
		return dberror.ErrValidation.Msg("tenant_id is required")
	}
	return nil
}
