package postgresql

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
)

// CreateUser inserts a new user. A duplicate email reports
// ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user *models.User) apperrors.Error {
	query := `
		INSERT INTO users (id, email, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
		RETURNING id, email, display_name, created_at, updated_at;
	`
	row := s.db().QueryRowContext(ctx, query, user.ID, user.Email, user.DisplayName)
	errDb := row.Scan(&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("email", user.Email).Msg("user already exists")
			return dberror.ErrAlreadyExists.Msg("user already exists")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("email", user.Email).Msg("failed to insert user")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, apperrors.Error) {
	query := `
		SELECT id, email, display_name, created_at, updated_at
		FROM users
		WHERE id = $1;
	`
	var user models.User
	row := s.db().QueryRowContext(ctx, query, userID)
	errDb := row.Scan(&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("user not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("user_id", userID).Msg("failed to retrieve user")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, apperrors.Error) {
	query := `
		SELECT id, email, display_name, created_at, updated_at
		FROM users
		WHERE email = $1;
	`
	var user models.User
	row := s.db().QueryRowContext(ctx, query, email)
	errDb := row.Scan(&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("user not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("email", email).Msg("failed to retrieve user by email")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return &user, nil
}

// UpdateUser updates a user's email and display name.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) apperrors.Error {
	query := `
		UPDATE users
		SET email = $2, display_name = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, email, display_name, created_at, updated_at;
	`
	row := s.db().QueryRowContext(ctx, query, user.ID, user.Email, user.DisplayName)
	errDb := row.Scan(&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("user not found")
		}
		if code := pgErrCode(errDb); code == pgErrUniqueViolation {
			return dberror.ErrAlreadyExists.Msg("user with that email already exists")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("user_id", user.ID).Msg("failed to update user")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// DeleteUser removes a user row; memberships cascade.
func (s *Store) DeleteUser(ctx context.Context, userID string) apperrors.Error {
	query := `
		DELETE FROM users
		WHERE id = $1
		RETURNING id;
	`
	var deleted string
	errDb := s.db().QueryRowContext(ctx, query, userID).Scan(&deleted)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("user not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("user_id", userID).Msg("failed to delete user")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// ListUsers returns one page of users in creation order along with the
// total count.
func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, apperrors.Error) {
	var total int
	if errDb := s.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to count users")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}

	query := `
		SELECT id, email, display_name, created_at, updated_at
		FROM users
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2;
	`
	rows, errDb := s.db().QueryContext(ctx, query, limit, offset)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to list users")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if errDb := rows.Scan(&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt); errDb != nil {
			log.Ctx(ctx).Error().Err(errDb).Msg("failed to scan user row")
			return nil, 0, dberror.ErrDatabase.Err(errDb)
		}
		users = append(users, user)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	return users, total, nil
}
