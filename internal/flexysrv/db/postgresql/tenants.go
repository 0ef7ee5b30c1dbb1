package postgresql

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// CreateTenant inserts a new tenant. Any conflict, on the id or on the
// slug, reports ErrAlreadyExists; the caller distinguishes a slug taken
// by someone else from an id collision it should retry.
func (s *Store) CreateTenant(ctx context.Context, tenant *models.Tenant) apperrors.Error {
	query := `
		INSERT INTO tenants (id, slug, name, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
		RETURNING id, slug, name, status, created_at, updated_at;
	`
	row := s.db().QueryRowContext(ctx, query, tenant.ID, tenant.Slug, tenant.Name, tenant.Status)
	errDb := row.Scan(&tenant.ID, &tenant.Slug, &tenant.Name, &tenant.Status, &tenant.CreatedAt, &tenant.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("slug", tenant.Slug).Msg("tenant already exists")
			return dberror.ErrAlreadyExists.Msg("tenant already exists")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("slug", tenant.Slug).Msg("failed to insert tenant")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// GetTenant retrieves a tenant by id.
func (s *Store) GetTenant(ctx context.Context, tenantID types.TenantId) (*models.Tenant, apperrors.Error) {
	query := `
		SELECT id, slug, name, status, created_at, updated_at
		FROM tenants
		WHERE id = $1;
	`
	var tenant models.Tenant
	row := s.db().QueryRowContext(ctx, query, tenantID)
	errDb := row.Scan(&tenant.ID, &tenant.Slug, &tenant.Name, &tenant.Status, &tenant.CreatedAt, &tenant.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("tenant not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("tenant_id", tenantID.String()).Msg("failed to retrieve tenant")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return &tenant, nil
}

// GetTenantBySlug retrieves a tenant by its slug.
func (s *Store) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, apperrors.Error) {
	query := `
		SELECT id, slug, name, status, created_at, updated_at
		FROM tenants
		WHERE slug = $1;
	`
	var tenant models.Tenant
	row := s.db().QueryRowContext(ctx, query, slug)
	errDb := row.Scan(&tenant.ID, &tenant.Slug, &tenant.Name, &tenant.Status, &tenant.CreatedAt, &tenant.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("tenant not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("slug", slug).Msg("failed to retrieve tenant by slug")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return &tenant, nil
}

// UpdateTenant updates a tenant's name and status. The slug is the
// tenant's stable external key and never changes.
func (s *Store) UpdateTenant(ctx context.Context, tenant *models.Tenant) apperrors.Error {
	query := `
		UPDATE tenants
		SET name = $2, status = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, slug, name, status, created_at, updated_at;
	`
	row := s.db().QueryRowContext(ctx, query, tenant.ID, tenant.Name, tenant.Status)
	errDb := row.Scan(&tenant.ID, &tenant.Slug, &tenant.Name, &tenant.Status, &tenant.CreatedAt, &tenant.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("tenant not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("tenant_id", tenant.ID.String()).Msg("failed to update tenant")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// DeleteTenant removes a tenant row. Memberships and the database
// record go with it through their foreign keys.
func (s *Store) DeleteTenant(ctx context.Context, tenantID types.TenantId) apperrors.Error {
	query := `
		DELETE FROM tenants
		WHERE id = $1
		RETURNING id;
	`
	var deleted types.TenantId
	errDb := s.db().QueryRowContext(ctx, query, tenantID).Scan(&deleted)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("tenant not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("tenant_id", tenantID.String()).Msg("failed to delete tenant")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// ListTenants returns one page of tenants in creation order along with
// the total count.
func (s *Store) ListTenants(ctx context.Context, limit, offset int) ([]models.Tenant, int, apperrors.Error) {
	var total int
	if errDb := s.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&total); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to count tenants")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}

	query := `
		SELECT id, slug, name, status, created_at, updated_at
		FROM tenants
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2;
	`
	rows, errDb := s.db().QueryContext(ctx, query, limit, offset)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to list tenants")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	tenants := []models.Tenant{}
	for rows.Next() {
		var tenant models.Tenant
		if errDb := rows.Scan(&tenant.ID, &tenant.Slug, &tenant.Name, &tenant.Status, &tenant.CreatedAt, &tenant.UpdatedAt); errDb != nil {
			log.Ctx(ctx).Error().Err(errDb).Msg("failed to scan tenant row")
			return nil, 0, dberror.ErrDatabase.Err(errDb)
		}
		tenants = append(tenants, tenant)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	return tenants, total, nil
}
