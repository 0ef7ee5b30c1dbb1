package tenantmanager

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/flexcommon"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// idAttempts bounds the retries on a generated-id collision.
const idAttempts = 3

type createTenantInput struct {
	Slug string `json:"slug" validate:"required,resourceSlug,max=63"`
	Name string `json:"name" validate:"required,max=255"`
}

// CreateTenant registers a new tenant. The physical database is not
// created here; it comes into existence on the tenant's first data
// access.
func (tm *TenantManager) CreateTenant(ctx context.Context, slug, name string) (*models.Tenant, apperrors.Error) {
	if err := flexcommon.ValidateStruct(createTenantInput{Slug: slug, Name: name}); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < idAttempts; attempt++ {
		id, errId := flexcommon.GetUniqueId(flexcommon.ID_TYPE_TENANT)
		if errId != nil {
			return nil, dberror.ErrDatabase.MsgErr("failed to generate tenant id", errId)
		}

		tenant := &models.Tenant{
			ID:     types.TenantId(id),
			Slug:   slug,
			Name:   name,
			Status: types.TenantStatusActive,
		}
		err := tm.store.CreateTenant(ctx, tenant)
		if err == nil {
			log.Ctx(ctx).Info().Str("tenant_id", id).Str("slug", slug).Msg("created tenant")
			return tenant, nil
		}
		if !errors.Is(err, dberror.ErrAlreadyExists) {
			return nil, err
		}

		// The conflict is either the slug being taken or the short id
		// colliding; only the latter is worth another attempt.
		if _, serr := tm.store.GetTenantBySlug(ctx, slug); serr == nil {
			return nil, dberror.ErrAlreadyExists.Msg("tenant with slug '" + slug + "' already exists")
		}
	}
	return nil, dberror.ErrDatabase.Msg("failed to allocate a unique tenant id")
}

// GetTenant retrieves a tenant by id.
func (tm *TenantManager) GetTenant(ctx context.Context, tenantID string) (*models.Tenant, apperrors.Error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	return tm.store.GetTenant(ctx, types.TenantId(tenantID))
}

// UpdateTenant applies a partial update: empty fields keep their
// current values. The slug is immutable.
func (tm *TenantManager) UpdateTenant(ctx context.Context, tenantID, name, status string) (*models.Tenant, apperrors.Error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if status != "" && status != types.TenantStatusActive && status != types.TenantStatusInactive {
		return nil, dberror.ErrValidation.Msg("status must be 'active' or 'inactive'")
	}

	tenant, err := tm.store.GetTenant(ctx, types.TenantId(tenantID))
	if err != nil {
		return nil, err
	}
	if name != "" {
		tenant.Name = name
	}
	if status != "" {
		tenant.Status = status
	}

	if err := tm.store.UpdateTenant(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// DeleteTenant tears down the tenant's database artifacts first, then
// the tenant record. If the physical teardown fails the record stays,
// so a retry sees the whole tenant and runs the teardown again.
func (tm *TenantManager) DeleteTenant(ctx context.Context, tenantID string) apperrors.Error {
	if err := requireTenantID(tenantID); err != nil {
		return err
	}
	id := types.TenantId(tenantID)

	if _, err := tm.store.GetTenant(ctx, id); err != nil {
		return err
	}
	if err := tm.dbm.DeleteTenantDatabase(ctx, id); err != nil {
		return err
	}
	if err := tm.store.DeleteTenant(ctx, id); err != nil && !errors.Is(err, dberror.ErrNotFound) {
		return err
	}

	log.Ctx(ctx).Info().Str("tenant_id", tenantID).Msg("deleted tenant")
	return nil
}

// ListTenants returns one page of tenants.
func (tm *TenantManager) ListTenants(ctx context.Context, opts models.ListOptions) ([]models.Tenant, models.ListResult, apperrors.Error) {
	tenants, total, err := tm.store.ListTenants(ctx, opts.Limit(), opts.Offset())
	if err != nil {
		return nil, models.ListResult{}, err
	}
	return tenants, models.PageResult(opts, len(tenants), total), nil
}
