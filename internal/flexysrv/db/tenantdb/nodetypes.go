package tenantdb

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
)

// CreateNodeType inserts a node type. A duplicate name reports
// ErrAlreadyExists.
func (r *Repo) CreateNodeType(ctx context.Context, nt *models.NodeType) apperrors.Error {
	query := `
		INSERT INTO node_types (id, name, description, schema)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
		RETURNING id, name, description, schema, created_at, updated_at;
	`
	row := r.db().QueryRowContext(ctx, query, nt.ID, nt.Name, nt.Description, nt.Schema)
	errDb := row.Scan(&nt.ID, &nt.Name, &nt.Description, &nt.Schema, &nt.CreatedAt, &nt.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("name", nt.Name).Msg("node type already exists")
			return dberror.ErrAlreadyExists.Msg("node type already exists")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("name", nt.Name).Msg("failed to insert node type")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// GetNodeType retrieves a node type by id.
func (r *Repo) GetNodeType(ctx context.Context, id string) (*models.NodeType, apperrors.Error) {
	query := `
		SELECT id, name, description, schema, created_at, updated_at
		FROM node_types
		WHERE id = $1;
	`
	var nt models.NodeType
	row := r.db().QueryRowContext(ctx, query, id)
	errDb := row.Scan(&nt.ID, &nt.Name, &nt.Description, &nt.Schema, &nt.CreatedAt, &nt.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("node type not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("node_type_id", id).Msg("failed to retrieve node type")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return &nt, nil
}

// UpdateNodeType updates a node type's fields.
func (r *Repo) UpdateNodeType(ctx context.Context, nt *models.NodeType) apperrors.Error {
	query := `
		UPDATE node_types
		SET name = $2, description = $3, schema = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, schema, created_at, updated_at;
	`
	row := r.db().QueryRowContext(ctx, query, nt.ID, nt.Name, nt.Description, nt.Schema)
	errDb := row.Scan(&nt.ID, &nt.Name, &nt.Description, &nt.Schema, &nt.CreatedAt, &nt.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("node type not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("node_type_id", nt.ID).Msg("failed to update node type")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// DeleteNodeType removes a node type. A type still referenced by nodes
// reports ErrValidation.
func (r *Repo) DeleteNodeType(ctx context.Context, id string) apperrors.Error {
	query := `
		DELETE FROM node_types
		WHERE id = $1
		RETURNING id;
	`
	var deleted string
	errDb := r.db().QueryRowContext(ctx, query, id).Scan(&deleted)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("node type not found")
		}
		if pgErrCode(errDb) == pgErrForeignKeyViolation {
			return dberror.ErrValidation.Msg("node type is in use")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("node_type_id", id).Msg("failed to delete node type")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// ListNodeTypes returns one page of node types in creation order along
// with the total count.
func (r *Repo) ListNodeTypes(ctx context.Context, limit, offset int) ([]models.NodeType, int, apperrors.Error) {
	var total int
	if errDb := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM node_types`).Scan(&total); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to count node types")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}

	query := `
		SELECT id, name, description, schema, created_at, updated_at
		FROM node_types
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2;
	`
	rows, errDb := r.db().QueryContext(ctx, query, limit, offset)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to list node types")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	nodeTypes := []models.NodeType{}
	for rows.Next() {
		var nt models.NodeType
		if errDb := rows.Scan(&nt.ID, &nt.Name, &nt.Description, &nt.Schema, &nt.CreatedAt, &nt.UpdatedAt); errDb != nil {
			log.Ctx(ctx).Error().Err(errDb).Msg("failed to scan node type row")
			return nil, 0, dberror.ErrDatabase.Err(errDb)
		}
		nodeTypes = append(nodeTypes, nt)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	return nodeTypes, total, nil
}
