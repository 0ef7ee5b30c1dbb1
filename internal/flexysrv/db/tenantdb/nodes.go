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

// NodeFilter narrows a node listing.
type NodeFilter struct {
	NodeTypeID string
}

// CreateNode inserts a node. An unknown node type reports ErrNotFound
// through the foreign key.
func (r *Repo) CreateNode(ctx context.Context, node *models.Node) apperrors.Error {
	query := `
		INSERT INTO nodes (id, node_type_id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
		RETURNING id, node_type_id, data, created_at, updated_at;
	`
	row := r.db().QueryRowContext(ctx, query, node.ID, node.NodeTypeID, node.Data)
	errDb := row.Scan(&node.ID, &node.NodeTypeID, &node.Data, &node.CreatedAt, &node.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrAlreadyExists.Msg("node already exists")
		}
		if pgErrCode(errDb) == pgErrForeignKeyViolation {
			return dberror.ErrNotFound.Msg("node type not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("node_id", node.ID).Msg("failed to insert node")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// GetNode retrieves a node by id.
func (r *Repo) GetNode(ctx context.Context, id string) (*models.Node, apperrors.Error) {
	query := `
		SELECT id, node_type_id, data, created_at, updated_at
		FROM nodes
		WHERE id = $1;
	`
	var node models.Node
	row := r.db().QueryRowContext(ctx, query, id)
	errDb := row.Scan(&node.ID, &node.NodeTypeID, &node.Data, &node.CreatedAt, &node.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("node not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("node_id", id).Msg("failed to retrieve node")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return &node, nil
}

// UpdateNode replaces a node's data.
func (r *Repo) UpdateNode(ctx context.Context, node *models.Node) apperrors.Error {
	query := `
		UPDATE nodes
		SET data = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, node_type_id, data, created_at, updated_at;
	`
	row := r.db().QueryRowContext(ctx, query, node.ID, node.Data)
	errDb := row.Scan(&node.ID, &node.NodeTypeID, &node.Data, &node.CreatedAt, &node.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("node not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("node_id", node.ID).Msg("failed to update node")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// DeleteNode removes a node; relationships touching it cascade.
func (r *Repo) DeleteNode(ctx context.Context, id string) apperrors.Error {
	query := `
		DELETE FROM nodes
		WHERE id = $1
		RETURNING id;
	`
	var deleted string
	errDb := r.db().QueryRowContext(ctx, query, id).Scan(&deleted)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("node not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("node_id", id).Msg("failed to delete node")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// ListNodes returns one page of nodes matching filter in creation order
// along with the total count.
func (r *Repo) ListNodes(ctx context.Context, filter NodeFilter, limit, offset int) ([]models.Node, int, apperrors.Error) {
	conds := []string{}
	args := []any{}
	if filter.NodeTypeID != "" {
		args = append(args, filter.NodeTypeID)
		conds = append(conds, fmt.Sprintf("node_type_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM nodes` + where
	if errDb := r.db().QueryRowContext(ctx, countQuery, args...).Scan(&total); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to count nodes")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}

	query := `SELECT id, node_type_id, data, created_at, updated_at FROM nodes` + where +
		fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, errDb := r.db().QueryContext(ctx, query, append(args, limit, offset)...)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to list nodes")
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	nodes := []models.Node{}
	for rows.Next() {
		var node models.Node
		if errDb := rows.Scan(&node.ID, &node.NodeTypeID, &node.Data, &node.CreatedAt, &node.UpdatedAt); errDb != nil {
			log.Ctx(ctx).Error().Err(errDb).Msg("failed to scan node row")
			return nil, 0, dberror.ErrDatabase.Err(errDb)
		}
		nodes = append(nodes, node)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, 0, dberror.ErrDatabase.Err(errDb)
	}
	return nodes, total, nil
}
