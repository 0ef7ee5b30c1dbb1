package graphmanager

import (
	"context"
	"errors"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/common/uuid"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
)

// compileSchema gates a node type's schema: empty is allowed, anything
// else must compile as JSON Schema. The schema itself is declarative
// metadata; node writes are not validated against it.
func compileSchema(schema string) apperrors.Error {
	if schema == "" {
		return nil
	}
	if _, err := jsonschema.CompileString("node_type_schema.json", schema); err != nil {
		return dberror.ErrValidation.MsgErr("schema is not a valid JSON Schema", err)
	}
	return nil
}

func requireNodeTypeID(id string) apperrors.Error {
	if id == "" {
		return dberror.ErrValidation.Msg("node_type_id is required")
	}
	if !uuid.IsValid(id) {
		return dberror.ErrValidation.Msg("node_type_id is invalid")
	}
	return nil
}

// CreateNodeType creates a node type in the tenant's database.
func (gm *GraphManager) CreateNodeType(ctx context.Context, tenantID, name, description, schema string) (*models.NodeType, apperrors.Error) {
	if name == "" {
		return nil, dberror.ErrValidation.Msg("name is required")
	}
	if err := compileSchema(schema); err != nil {
		return nil, err
	}

	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	nt := &models.NodeType{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Schema:      schema,
	}
	if err := repo.CreateNodeType(ctx, nt); err != nil {
		if errors.Is(err, dberror.ErrAlreadyExists) {
			return nil, dberror.ErrAlreadyExists.Msg("node type with name '" + name + "' already exists")
		}
		return nil, err
	}
	return nt, nil
}

// GetNodeType retrieves a node type.
func (gm *GraphManager) GetNodeType(ctx context.Context, tenantID, id string) (*models.NodeType, apperrors.Error) {
	if err := requireNodeTypeID(id); err != nil {
		return nil, err
	}
	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return repo.GetNodeType(ctx, id)
}

// UpdateNodeType applies a partial update: empty fields keep their
// current values. A new schema is compile-checked like on create.
func (gm *GraphManager) UpdateNodeType(ctx context.Context, tenantID, id, name, description, schema string) (*models.NodeType, apperrors.Error) {
	if err := requireNodeTypeID(id); err != nil {
		return nil, err
	}
	if err := compileSchema(schema); err != nil {
		return nil, err
	}

	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	nt, err := repo.GetNodeType(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		nt.Name = name
	}
	if description != "" {
		nt.Description = description
	}
	if schema != "" {
		nt.Schema = schema
	}

	if err := repo.UpdateNodeType(ctx, nt); err != nil {
		return nil, err
	}
	return nt, nil
}

// DeleteNodeType removes a node type that no node references.
func (gm *GraphManager) DeleteNodeType(ctx context.Context, tenantID, id string) apperrors.Error {
	if err := requireNodeTypeID(id); err != nil {
		return err
	}
	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return err
	}
	return repo.DeleteNodeType(ctx, id)
}

// ListNodeTypes returns one page of the tenant's node types.
func (gm *GraphManager) ListNodeTypes(ctx context.Context, tenantID string, opts models.ListOptions) ([]models.NodeType, models.ListResult, apperrors.Error) {
	repo, err := gm.repo(ctx, tenantID)
	if err != nil {
		return nil, models.ListResult{}, err
	}
	nodeTypes, total, err := repo.ListNodeTypes(ctx, opts.Limit(), opts.Offset())
	if err != nil {
		return nil, models.ListResult{}, err
	}
	return nodeTypes, models.PageResult(opts, len(nodeTypes), total), nil
}
