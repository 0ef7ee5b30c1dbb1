// Package graphmanager implements the data-plane operations: node
// types, nodes and relationships inside one tenant's database. Every
// operation resolves the tenant's pool through the tenant database
// manager first, which is what provisions the database on first touch.
package graphmanager

import (
	"bytes"
	"context"

	"github.com/jackc/pgtype"
	json "github.com/json-iterator/go"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dbmanager"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/tenantdb"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// TenantDBProvider hands out ready tenant pools. *dbmanager.Manager
// satisfies it.
type TenantDBProvider interface {
	GetTenantDB(ctx context.Context, tenantID types.TenantId) (*dbmanager.Pool, apperrors.Error)
}

// Repo is the graph store surface the manager drives. *tenantdb.Repo
// satisfies it.
type Repo interface {
	CreateNodeType(ctx context.Context, nt *models.NodeType) apperrors.Error
	GetNodeType(ctx context.Context, id string) (*models.NodeType, apperrors.Error)
	UpdateNodeType(ctx context.Context, nt *models.NodeType) apperrors.Error
	DeleteNodeType(ctx context.Context, id string) apperrors.Error
	ListNodeTypes(ctx context.Context, limit, offset int) ([]models.NodeType, int, apperrors.Error)

	CreateNode(ctx context.Context, node *models.Node) apperrors.Error
	GetNode(ctx context.Context, id string) (*models.Node, apperrors.Error)
	UpdateNode(ctx context.Context, node *models.Node) apperrors.Error
	DeleteNode(ctx context.Context, id string) apperrors.Error
	ListNodes(ctx context.Context, filter tenantdb.NodeFilter, limit, offset int) ([]models.Node, int, apperrors.Error)

	CreateRelationship(ctx context.Context, rel *models.Relationship) apperrors.Error
	GetRelationship(ctx context.Context, id string) (*models.Relationship, apperrors.Error)
	UpdateRelationship(ctx context.Context, rel *models.Relationship) apperrors.Error
	DeleteRelationship(ctx context.Context, id string) apperrors.Error
	ListRelationships(ctx context.Context, filter tenantdb.RelationshipFilter, limit, offset int) ([]models.Relationship, int, apperrors.Error)
}

// GraphManager serves graph operations, one tenant database at a time.
type GraphManager struct {
	provider TenantDBProvider
	repoFor  func(pool *dbmanager.Pool) Repo
}

// New returns a graph manager that resolves pools through provider.
func New(provider TenantDBProvider) *GraphManager {
	return &GraphManager{
		provider: provider,
		repoFor: func(pool *dbmanager.Pool) Repo {
			return tenantdb.New(pool)
		},
	}
}

// repo resolves the tenant's pool, provisioning on first access, and
// wraps it in a graph repo.
func (gm *GraphManager) repo(ctx context.Context, tenantID string) (Repo, apperrors.Error) {
	if tenantID == "" {
		return nil, dberror.ErrValidation.Msg("tenant_id is required")
	}
	pool, err := gm.provider.GetTenantDB(ctx, types.TenantId(tenantID))
	if err != nil {
		return nil, err
	}
	return gm.repoFor(pool), nil
}

// normalizeData turns caller-supplied node or relationship data into
// the stored JSONB value. Absent data becomes the empty object; any
// JSON that is not an object is rejected.
func normalizeData(data []byte) (pgtype.JSONB, apperrors.Error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == `""` {
		trimmed = []byte("{}")
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return pgtype.JSONB{}, dberror.ErrValidation.Msg("data must be a JSON object")
	}
	var jb pgtype.JSONB
	if err := jb.Set(trimmed); err != nil {
		return pgtype.JSONB{}, dberror.ErrValidation.MsgErr("data must be a JSON object", err)
	}
	return jb, nil
}
