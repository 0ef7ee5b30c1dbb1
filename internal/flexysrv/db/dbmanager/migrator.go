package dbmanager

import (
	"context"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/migrations"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// tenantMigrator applies the tenant step list, keeping per-tenant
// progress in the control store. The control store, not the tenant
// database's own mirror table, is what decides where a resumed run
// picks up.
type tenantMigrator struct {
	store ControlStore
	steps []migrations.Step
}

// NewTenantMigrator returns the production migrator for tenant
// databases.
func NewTenantMigrator(store ControlStore) Migrator {
	return &tenantMigrator{
		store: store,
		steps: migrations.Tenant(),
	}
}

func (tm *tenantMigrator) ApplyPending(ctx context.Context, tenantID types.TenantId, target *Pool) apperrors.Error {
	runner, err := migrations.NewRunner(tm.steps, &tenantRecorder{store: tm.store, tenantID: tenantID})
	if err != nil {
		return err
	}
	return runner.ApplyPending(ctx, target)
}

// tenantRecorder adapts the control store to the recorder the runner
// expects, scoped to one tenant.
type tenantRecorder struct {
	store    ControlStore
	tenantID types.TenantId
}

func (r *tenantRecorder) Highest(ctx context.Context) (int, apperrors.Error) {
	return r.store.HighestTenantMigration(ctx, r.tenantID)
}

func (r *tenantRecorder) Record(ctx context.Context, version int) apperrors.Error {
	return r.store.RecordTenantMigration(ctx, r.tenantID, version)
}
