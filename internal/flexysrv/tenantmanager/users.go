package tenantmanager

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/common/uuid"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/flexcommon"
)

type createUserInput struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,max=255"`
}

// CreateUser registers a new user.
func (tm *TenantManager) CreateUser(ctx context.Context, email, displayName string) (*models.User, apperrors.Error) {
	if err := flexcommon.ValidateStruct(createUserInput{Email: email, DisplayName: displayName}); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
	}
	if err := tm.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, dberror.ErrAlreadyExists) {
			return nil, dberror.ErrAlreadyExists.Msg("user with email '" + email + "' already exists")
		}
		return nil, err
	}

	log.Ctx(ctx).Info().Str("user_id", user.ID).Msg("created user")
	return user, nil
}

func requireUserID(userID string) apperrors.Error {
	if userID == "" {
		return dberror.ErrValidation.Msg("user_id is required")
	}
	if !uuid.IsValid(userID) {
		return dberror.ErrValidation.Msg("user_id is invalid")
	}
	return nil
}

// GetUser retrieves a user by id.
func (tm *TenantManager) GetUser(ctx context.Context, userID string) (*models.User, apperrors.Error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	return tm.store.GetUser(ctx, userID)
}

// UpdateUser applies a partial update: empty fields keep their current
// values.
func (tm *TenantManager) UpdateUser(ctx context.Context, userID, email, displayName string) (*models.User, apperrors.Error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}

	user, err := tm.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if email != "" {
		if verr := flexcommon.ValidateStruct(createUserInput{Email: email, DisplayName: user.DisplayName}); verr != nil {
			return nil, verr
		}
		user.Email = email
	}
	if displayName != "" {
		user.DisplayName = displayName
	}

	if err := tm.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user and, through the store, their memberships.
func (tm *TenantManager) DeleteUser(ctx context.Context, userID string) apperrors.Error {
	if err := requireUserID(userID); err != nil {
		return err
	}
	if err := tm.store.DeleteUser(ctx, userID); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Str("user_id", userID).Msg("deleted user")
	return nil
}

// ListUsers returns one page of users.
func (tm *TenantManager) ListUsers(ctx context.Context, opts models.ListOptions) ([]models.User, models.ListResult, apperrors.Error) {
	users, total, err := tm.store.ListUsers(ctx, opts.Limit(), opts.Offset())
	if err != nil {
		return nil, models.ListResult{}, err
	}
	return users, models.PageResult(opts, len(users), total), nil
}
