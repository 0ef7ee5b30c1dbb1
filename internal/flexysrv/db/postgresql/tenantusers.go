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

// AddUserToTenant creates a membership. Adding an existing member
// reports ErrAlreadyExists; a tenant or user that does not exist
// reports ErrNotFound through the foreign keys.
func (s *Store) AddUserToTenant(ctx context.Context, member *models.TenantUser) apperrors.Error {
	query := `
		INSERT INTO tenant_users (tenant_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
		RETURNING tenant_id, user_id, role, status, created_at;
	`
	row := s.db().QueryRowContext(ctx, query, member.TenantID, member.UserID, member.Role, member.Status)
	errDb := row.Scan(&member.TenantID, &member.UserID, &member.Role, &member.Status, &member.CreatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrAlreadyExists.Msg("user is already a member of tenant")
		}
		if code := pgErrCode(errDb); code == pgErrForeignKeyViolation {
			return dberror.ErrNotFound.Msg("tenant or user not found")
		}
		log.Ctx(ctx).Error().Err(errDb).
			Str("tenant_id", member.TenantID.String()).
			Str("user_id", member.UserID).
			Msg("failed to add user to tenant")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// RemoveUserFromTenant deletes a membership.
func (s *Store) RemoveUserFromTenant(ctx context.Context, tenantID types.TenantId, userID string) apperrors.Error {
	query := `
		DELETE FROM tenant_users
		WHERE tenant_id = $1 AND user_id = $2
		RETURNING user_id;
	`
	var deleted string
	errDb := s.db().QueryRowContext(ctx, query, tenantID, userID).Scan(&deleted)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("user is not a member of tenant")
		}
		log.Ctx(ctx).Error().Err(errDb).
			Str("tenant_id", tenantID.String()).
			Str("user_id", userID).
			Msg("failed to remove user from tenant")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// ListTenantUsers returns one page of a tenant's memberships along with
// the total count.
func (s *Store) ListTenantUsers(ctx context.Context, tenantID types.TenantId, limit, offset int) ([]models.TenantUser, int, apperrors.Error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM tenant_users WHERE tenant_id = $1`
	if errDb := s.db().QueryRowContext(ctx, countQuery, tenantID).Scan(&total); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Str("tenant_id", tenantID.String()).Msg("failed to count tenant users")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}

	query := `
		SELECT tenant_id, user_id, role, status, created_at
		FROM tenant_users
		WHERE tenant_id = $1
		ORDER BY created_at, user_id
		LIMIT $2 OFFSET $3;
	`
	rows, errDb := s.db().QueryContext(ctx, query, tenantID, limit, offset)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Str("tenant_id", tenantID.String()).Msg("failed to list tenant users")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	members := []models.TenantUser{}
	for rows.Next() {
		var member models.TenantUser
		if errDb := rows.Scan(&member.TenantID, &member.UserID, &member.Role, &member.Status, &member.CreatedAt); errDb != nil {
			log.Ctx(ctx).Error().Err(errDb).Msg("failed to scan tenant user row")
			return nil, 0, dberror.ErrDatabase.Err(errDb)
		}
		members = append(members, member)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	return members, total, nil
}
