package graphmanager

import (
	"bytes"
	"context"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/common/uuid"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/tenantdb"
)

func requireNodeID(id string) apperrors.Error {
	if id == "" {
		return dberror.ErrValidation.Msg("node_id is required")
	}
	if !uuid.IsValid(id) {
		return dberror.ErrValidation.Msg("node_id is invalid")
	}
	return nil
}

// CreateNode creates a node of an existing type. Empty data is stored
// as the empty object.
func (gm *GraphManager) CreateNode(ctx context.Context, tenantID, nodeTypeID string, data []byte) (*models.Node, apperrors.Error) {
	if err := requireNodeTypeID(nodeTypeID); err != nil {
		return nil, err
	}
	jb, err := normalizeData(data)
	if err != nil {
		return nil, err
	}

	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	node := &models.Node{
		ID:         uuid.NewString(),
		NodeTypeID: nodeTypeID,
		Data:       jb,
	}
	if err := repo.CreateNode(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

// GetNode retrieves a node.
func (gm *GraphManager) GetNode(ctx context.Context, tenantID, id string) (*models.Node, apperrors.Error) {
	if err := requireNodeID(id); err != nil {
		return nil, err
	}
	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return repo.GetNode(ctx, id)
}

// UpdateNode replaces a node's data; absent data keeps the current
// value.
func (gm *GraphManager) UpdateNode(ctx context.Context, tenantID, id string, data []byte) (*models.Node, apperrors.Error) {
	if err := requireNodeID(id); err != nil {
		return nil, err
	}
	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	node, err := repo.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) > 0 {
		jb, err := normalizeData(data)
		if err != nil {
			return nil, err
		}
		node.Data = jb
	}

	if err := repo.UpdateNode(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

// DeleteNode removes a node and, through the store, the relationships
// touching it.
func (gm *GraphManager) DeleteNode(ctx context.Context, tenantID, id string) apperrors.Error {
	if err := requireNodeID(id); err != nil {
		return err
	}
	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return err
	}
	return repo.DeleteNode(ctx, id)
}

// ListNodes returns one page of the tenant's nodes, optionally filtered
// by node type.
func (gm *GraphManager) ListNodes(ctx context.Context, tenantID, nodeTypeID string, opts models.ListOptions) ([]models.Node, models.ListResult, apperrors.Error) {
	if nodeTypeID != "" && !uuid.IsValid(nodeTypeID) {
		return nil, models.ListResult{}, dberror.ErrValidation.Msg("node_type_id is invalid")
	}
	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, models.ListResult{}, err
	}

	nodes, total, err := repo.ListNodes(ctx, tenantdb.NodeFilter{NodeTypeID: nodeTypeID}, opts.Limit(), opts.Offset())
	if err != nil {
		return nil, models.ListResult{}, err
	}
	return nodes, models.PageResult(opts, len(nodes), total), nil
}
