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

func requireRelationshipID(id string) apperrors.Error {
	if id == "" {
		return dberror.ErrValidation.Msg("relationship_id is required")
	}
	if !uuid.IsValid(id) {
		return dberror.ErrValidation.Msg("relationship_id is invalid")
	}
	return nil
}

func requireEndpoint(field, id string) apperrors.Error {
	if id == "" {
		return dberror.ErrValidation.Msg(field + " is required")
	}
	if !uuid.IsValid(id) {
		return dberror.ErrValidation.Msg(field + " is invalid")
	}
	return nil
}

// CreateRelationship links two existing nodes. Self loops are allowed.
func (gm *GraphManager) CreateRelationship(ctx context.Context, tenantID, sourceID, targetID, relType string, data []byte) (*models.Relationship, apperrors.Error) {
	if err := requireEndpoint("source_node_id", sourceID); err != nil {
		return nil, err
	}
	if err := requireEndpoint("target_node_id", targetID); err != nil {
		return nil, err
	}
	if relType == "" {
		return nil, dberror.ErrValidation.Msg("relationship_type is required")
	}
	jb, err := normalizeData(data)
	if err != nil {
		return nil, err
	}

	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	rel := &models.Relationship{
		ID:               uuid.NewString(),
		SourceNodeID:     sourceID,
		TargetNodeID:     targetID,
		RelationshipType: relType,
		Data:             jb,
	}
	if err := repo.CreateRelationship(ctx, rel); err != nil {
		return nil, err
	}
	return rel, nil
}

// GetRelationship retrieves a relationship.
func (gm *GraphManager) GetRelationship(ctx context.Context, tenantID, id string) (*models.Relationship, apperrors.Error) {
	if err := requireRelationshipID(id); err != nil {
		return nil, err
	}
	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return repo.GetRelationship(ctx, id)
}

// UpdateRelationship changes a relationship's type and data. Absent
// fields keep their current values; the endpoints are immutable.
func (gm *GraphManager) UpdateRelationship(ctx context.Context, tenantID, id, relType string, data []byte) (*models.Relationship, apperrors.Error) {
	if err := requireRelationshipID(id); err != nil {
		return nil, err
	}
	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rel, err := repo.GetRelationship(ctx, id)
	if err != nil {
		return nil, err
	}

	if relType != "" {
		rel.RelationshipType = relType
	}
	if len(bytes.TrimSpace(data)) > 0 {
		jb, err := normalizeData(data)
		if err != nil {
			return nil, err
		}
		rel.Data = jb
	}

	if err := repo.UpdateRelationship(ctx, rel); err != nil {
		return nil, err
	}
	return rel, nil
}

// DeleteRelationship removes a relationship. The endpoint nodes are
// untouched.
func (gm *GraphManager) DeleteRelationship(ctx context.Context, tenantID, id string) apperrors.Error {
	if err := requireRelationshipID(id); err != nil {
		return err
	}
	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return err
	}
	return repo.DeleteRelationship(ctx, id)
}

// ListRelationships returns one page of the tenant's relationships.
// Source, target and type filters combine with AND.
func (gm *GraphManager) ListRelationships(ctx context.Context, tenantID string, filter tenantdb.RelationshipFilter, opts models.ListOptions) ([]models.Relationship, models.ListResult, apperrors.Error) {
	if filter.SourceNodeID != "" && !uuid.IsValid(filter.SourceNodeID) {
		return nil, models.ListResult{}, dberror.ErrValidation.Msg("source_node_id is invalid")
	}
	if filter.TargetNodeID != "" && !uuid.IsValid(filter.TargetNodeID) {
		return nil, models.ListResult{}, dberror.ErrValidation.Msg("target_node_id is invalid")
	}
	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, models.ListResult{}, err
	}

	rels, total, err := repo.ListRelationships(ctx, filter, opts.Limit(), opts.Offset())
	if err != nil {
		return nil, models.ListResult{}, err
	}
	return rels, models.PageResult(opts, len(rels), total), nil
}
