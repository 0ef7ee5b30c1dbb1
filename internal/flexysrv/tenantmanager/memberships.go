package tenantmanager

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// AddUserToTenant creates a membership. Role defaults to "member" and
// status to "active" when omitted.
func (tm *TenantManager) AddUserToTenant(ctx context.Context, tenantID, userID, role, status string) (*models.TenantUser, apperrors.Error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	if role == "" {
		role = types.MemberRoleMember
	}
	if role != types.MemberRoleMember && role != types.MemberRoleAdmin {
		return nil, dberror.ErrValidation.Msg("role must be 'member' or 'admin'")
	}
	if status == "" {
		status = types.MemberStatusActive
	}

	// Resolve both sides up front so the caller learns which one is
	// missing instead of a generic constraint failure.
	if _, err := tm.store.GetTenant(ctx, types.TenantId(tenantID)); err != nil {
		return nil, err
	}
	if _, err := tm.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	member := &models.TenantUser{
		TenantID: types.TenantId(tenantID),
		UserID:   userID,
		Role:     role,
		Status:   status,
	}
	if err := tm.store.AddUserToTenant(ctx, member); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("tenant_id", tenantID).Str("user_id", userID).Msg("added user to tenant")
	return member, nil
}

// RemoveUserFromTenant deletes a membership.
func (tm *TenantManager) RemoveUserFromTenant(ctx context.Context, tenantID, userID string) apperrors.Error {
	if err := requireTenantID(tenantID); err != nil {
		return err
	}
	if err := requireUserID(userID); err != nil {
		return err
	}
	if err := tm.store.RemoveUserFromTenant(ctx, types.TenantId(tenantID), userID); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Str("tenant_id", tenantID).Str("user_id", userID).Msg("removed user from tenant")
	return nil
}

// ListTenantUsers returns one page of a tenant's memberships.
func (tm *TenantManager) ListTenantUsers(ctx context.Context, tenantID string, opts models.ListOptions) ([]models.TenantUser, models.ListResult, apperrors.Error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, models.ListResult{}, err
	}
	if _, err := tm.store.GetTenant(ctx, types.TenantId(tenantID)); err != nil {
		return nil, models.ListResult{}, err
	}

	members, total, err := tm.store.ListTenantUsers(ctx, types.TenantId(tenantID), opts.Limit(), opts.Offset())
	if err != nil {
		return nil, models.ListResult{}, err
	}
	return members, models.PageResult(opts, len(members), total), nil
}
