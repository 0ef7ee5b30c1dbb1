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

// GetTenantDatabase retrieves the database record for a tenant. The
// record existing means the physical database was created and recorded.
func (s *Store) GetTenantDatabase(ctx context.Context, tenantID types.TenantId) (*models.TenantDatabase, apperrors.Error) {
	query := `
		SELECT tenant_id, db_name, created_at
		FROM tenant_databases
		WHERE tenant_id = $1;
	`
	var td models.TenantDatabase
	row := s.db().QueryRowContext(ctx, query, tenantID)
	errDb := row.Scan(&td.TenantID, &td.DBName, &td.CreatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("tenant database not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("tenant_id", tenantID.String()).Msg("failed to retrieve tenant database")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return &td, nil
}

// CreateTenantDatabase records a provisioned database. The insert runs
// under a transaction-scoped advisory lock on the tenant id so that two
// server instances provisioning the same tenant serialize here even
// though their in-process locks are separate.
func (s *Store) CreateTenantDatabase(ctx context.Context, td *models.TenantDatabase) (err apperrors.Error) {
	tx, errDb := s.db().BeginTx(ctx, &sql.TxOptions{})
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to start transaction")
		return dberror.ErrDatabase.Err(errDb)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
				log.Ctx(ctx).Error().Err(rollbackErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if _, errDb := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, td.TenantID); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to take advisory lock")
		return dberror.ErrDatabase.Err(errDb)
	}

	query := `
		INSERT INTO tenant_databases (tenant_id, db_name)
		VALUES ($1, $2)
		ON CONFLICT (tenant_id) DO NOTHING
		RETURNING tenant_id, db_name, created_at;
	`
	row := tx.QueryRowContext(ctx, query, td.TenantID, td.DBName)
	errDb = row.Scan(&td.TenantID, &td.DBName, &td.CreatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("tenant_id", td.TenantID.String()).Msg("tenant database already recorded")
			return dberror.ErrAlreadyExists.Msg("tenant database already recorded")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("tenant_id", td.TenantID.String()).Msg("failed to insert tenant database")
		return dberror.ErrDatabase.Err(errDb)
	}

	if errDb := tx.Commit(); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// DeleteTenantDatabase removes the database record for a tenant.
func (s *Store) DeleteTenantDatabase(ctx context.Context, tenantID types.TenantId) apperrors.Error {
	query := `
		DELETE FROM tenant_databases
		WHERE tenant_id = $1
		RETURNING tenant_id;
	`
	var deleted types.TenantId
	errDb := s.db().QueryRowContext(ctx, query, tenantID).Scan(&deleted)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("tenant database not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("tenant_id", tenantID.String()).Msg("failed to delete tenant database")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// HighestTenantMigration returns the highest migration version recorded
// for the tenant, or 0 if none are recorded.
func (s *Store) HighestTenantMigration(ctx context.Context, tenantID types.TenantId) (int, apperrors.Error) {
	query := `SELECT COALESCE(MAX(version), 0) FROM tenant_migrations WHERE tenant_id = $1`
	var version int
	if errDb := s.db().QueryRowContext(ctx, query, tenantID).Scan(&version); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Str("tenant_id", tenantID.String()).Msg("failed to read tenant migrations")
		return 0, dberror.ErrDatabase.Err(errDb)
	}
	return version, nil
}

// RecordTenantMigration appends an applied version for the tenant. A
// version already recorded by another instance is fine; the step it
// stands for is idempotent.
func (s *Store) RecordTenantMigration(ctx context.Context, tenantID types.TenantId, version int) apperrors.Error {
	query := `
		INSERT INTO tenant_migrations (tenant_id, version)
		VALUES ($1, $2)
		ON CONFLICT (tenant_id, version) DO NOTHING;
	`
	if _, errDb := s.db().ExecContext(ctx, query, tenantID, version); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).
			Str("tenant_id", tenantID.String()).
			Int("version", version).
			Msg("failed to record tenant migration")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// DeleteTenantMigrations removes every migration record for the tenant.
func (s *Store) DeleteTenantMigrations(ctx context.Context, tenantID types.TenantId) apperrors.Error {
	query := `DELETE FROM tenant_migrations WHERE tenant_id = $1`
	if _, errDb := s.db().ExecContext(ctx, query, tenantID); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Str("tenant_id", tenantID.String()).Msg("failed to delete tenant migrations")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// ListTenantMigrations returns the tenant's applied versions in order.
func (s *Store) ListTenantMigrations(ctx context.Context, tenantID types.TenantId) ([]models.TenantMigration, apperrors.Error) {
	query := `
		SELECT tenant_id, version, applied_at
		FROM tenant_migrations
		WHERE tenant_id = $1
		ORDER BY version;
	`
	rows, errDb := s.db().QueryContext(ctx, query, tenantID)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Str("tenant_id", tenantID.String()).Msg("failed to list tenant migrations")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	applied := []models.TenantMigration{}
	for rows.Next() {
		var m models.TenantMigration
		if errDb := rows.Scan(&m.TenantID, &m.Version, &m.AppliedAt); errDb != nil {
			log.Ctx(ctx).Error().Err(errDb).Msg("failed to scan tenant migration row")
			return nil, dberror.ErrDatabase.Err(errDb)
		}
		applied = append(applied, m)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return applied, nil
}
