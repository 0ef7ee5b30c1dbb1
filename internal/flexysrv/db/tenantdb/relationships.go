package tenantdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
)

// RelationshipFilter narrows a relationship listing. Empty fields are
// ignored.
type RelationshipFilter struct {
	SourceNodeID     string
	TargetNodeID     string
	RelationshipType string
}

// CreateRelationship inserts an edge between two nodes. A missing
// endpoint reports ErrNotFound through the foreign keys.
func (r *Repo) CreateRelationship(ctx context.Context, rel *models.Relationship) apperrors.Error {
	query := `
		INSERT INTO relationships (id, source_node_id, target_node_id, relationship_type, data)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
		RETURNING id, source_node_id, target_node_id, relationship_type, data, created_at, updated_at;
	`
	row := r.db().QueryRowContext(ctx, query, rel.ID, rel.SourceNodeID, rel.TargetNodeID, rel.RelationshipType, rel.Data)
	errDb := row.Scan(&rel.ID, &rel.SourceNodeID, &rel.TargetNodeID, &rel.RelationshipType, &rel.Data, &rel.CreatedAt, &rel.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrAlreadyExists.Msg("relationship already exists")
		}
		if pgErrCode(errDb) == pgErrForeignKeyViolation {
			return dberror.ErrNotFound.Msg("source or target node not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("relationship_id", rel.ID).Msg("failed to insert relationship")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// GetRelationship retrieves an edge by id.
func (r *Repo) GetRelationship(ctx context.Context, id string) (*models.Relationship, apperrors.Error) {
	query := `
		SELECT id, source_node_id, target_node_id, relationship_type, data, created_at, updated_at
		FROM relationships
		WHERE id = $1;
	`
	var rel models.Relationship
	row := r.db().QueryRowContext(ctx, query, id)
	errDb := row.Scan(&rel.ID, &rel.SourceNodeID, &rel.TargetNodeID, &rel.RelationshipType, &rel.Data, &rel.CreatedAt, &rel.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("relationship not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("relationship_id", id).Msg("failed to retrieve relationship")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return &rel, nil
}

// UpdateRelationship replaces an edge's type and data.
func (r *Repo) UpdateRelationship(ctx context.Context, rel *models.Relationship) apperrors.Error {
	query := `
		UPDATE relationships
		SET relationship_type = $2, data = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, source_node_id, target_node_id, relationship_type, data, created_at, updated_at;
	`
	row := r.db().QueryRowContext(ctx, query, rel.ID, rel.RelationshipType, rel.Data)
	errDb := row.Scan(&rel.ID, &rel.SourceNodeID, &rel.TargetNodeID, &rel.RelationshipType, &rel.Data, &rel.CreatedAt, &rel.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("relationship not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("relationship_id", rel.ID).Msg("failed to update relationship")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// DeleteRelationship removes an edge.
func (r *Repo) DeleteRelationship(ctx context.Context, id string) apperrors.Error {
	query := `
		DELETE FROM relationships
		WHERE id = $1
		RETURNING id;
	`
	var deleted string
	errDb := r.db().QueryRowContext(ctx, query, id).Scan(&deleted)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("relationship not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("relationship_id", id).Msg("failed to delete relationship")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// ListRelationships returns one page of edges matching filter in
// creation order along with the total count.
func (r *Repo) ListRelationships(ctx context.Context, filter RelationshipFilter, limit, offset int) ([]models.Relationship, int, apperrors.Error) {
	conds := []string{}
	args := []any{}
	if filter.SourceNodeID != "" {
		args = append(args, filter.SourceNodeID)
		conds = append(conds, fmt.Sprintf("source_node_id = $%d", len(args)))
	}
	if filter.TargetNodeID != "" {
		args = append(args, filter.TargetNodeID)
		conds = append(conds, fmt.Sprintf("target_node_id = $%d", len(args)))
	}
	if filter.RelationshipType != "" {
		args = append(args, filter.RelationshipType)
		conds = append(conds, fmt.Sprintf("relationship_type = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM relationships` + where
	if errDb := r.db().QueryRowContext(ctx, countQuery, args...).Scan(&total); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to count relationships")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}

	query := `SELECT id, source_node_id, target_node_id, relationship_type, data, created_at, updated_at FROM relationships` + where +
		fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, errDb := r.db().QueryContext(ctx, query, append(args, limit, offset)...)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to list relationships")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	rels := []models.Relationship{}
	for rows.Next() {
		var rel models.Relationship
		if errDb := rows.Scan(&rel.ID, &rel.SourceNodeID, &rel.TargetNodeID, &rel.RelationshipType, &rel.Data, &rel.CreatedAt, &rel.UpdatedAt); errDb != nil {
			log.Ctx(ctx).Error().Err(errDb).Msg("failed to scan relationship row")
			return nil, 0, dberror.ErrDatabase.Err(errDb)
		}
		rels = append(rels, rel)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	return rels, total, nil
}
