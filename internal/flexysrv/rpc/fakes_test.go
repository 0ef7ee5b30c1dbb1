package rpc

import (
	"context"
	"testing"

	"github.com/jackc/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/tenantdb"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// The fakes are scripted: every method records its arguments, then
// either fails with the injected error or returns the canned model.
// The handler's job is the envelope, not the semantics, so that is all
// the tests need.

func jsonbOf(t *testing.T, s string) pgtype.JSONB {
	t.Helper()
	var jb pgtype.JSONB
	require.NoError(t, jb.Set([]byte(s)))
	return jb
}

type fakeTenantService struct {
	err    apperrors.Error
	tenant models.Tenant
	user   models.User
	member models.TenantUser

	lastMethod string
	lastArgs   []string

	listResult models.ListResult
}

func (f *fakeTenantService) record(method string, args ...string) {
	f.lastMethod = method
	f.lastArgs = args
}

func (f *fakeTenantService) CreateTenant(ctx context.Context, slug, name string) (*models.Tenant, apperrors.Error) {
	f.record("CreateTenant", slug, name)
	if f.err != nil {
		return nil, f.err
	}
	return &f.tenant, nil
}

func (f *fakeTenantService) GetTenant(ctx context.Context, tenantID string) (*models.Tenant, apperrors.Error) {
	f.record("GetTenant", tenantID)
	if f.err != nil {
		return nil, f.err
	}
	return &f.tenant, nil
}

func (f *fakeTenantService) UpdateTenant(ctx context.Context, tenantID, name, status string) (*models.Tenant, apperrors.Error) {
	f.record("UpdateTenant", tenantID, name, status)
	if f.err != nil {
		return nil, f.err
	}
	return &f.tenant, nil
}

func (f *fakeTenantService) DeleteTenant(ctx context.Context, tenantID string) apperrors.Error {
	f.record("DeleteTenant", tenantID)
	return f.err
}

func (f *fakeTenantService) ListTenants(ctx context.Context, opts models.ListOptions) ([]models.Tenant, models.ListResult, apperrors.Error) {
	f.record("ListTenants", opts.PageToken)
	if f.err != nil {
		return nil, models.ListResult{}, f.err
	}
	return []models.Tenant{f.tenant}, f.listResult, nil
}

func (f *fakeTenantService) CreateUser(ctx context.Context, email, displayName string) (*models.User, apperrors.Error) {
	f.record("CreateUser", email, displayName)
	if f.err != nil {
		return nil, f.err
	}
	return &f.user, nil
}

func (f *fakeTenantService) GetUser(ctx context.Context, userID string) (*models.User, apperrors.Error) {
	f.record("GetUser", userID)
	if f.err != nil {
		return nil, f.err
	}
	return &f.user, nil
}

func (f *fakeTenantService) UpdateUser(ctx context.Context, userID, email, displayName string) (*models.User, apperrors.Error) {
	f.record("UpdateUser", userID, email, displayName)
	if f.err != nil {
		return nil, f.err
	}
	return &f.user, nil
}

func (f *fakeTenantService) DeleteUser(ctx context.Context, userID string) apperrors.Error {
	f.record("DeleteUser", userID)
	return f.err
}

func (f *fakeTenantService) ListUsers(ctx context.Context, opts models.ListOptions) ([]models.User, models.ListResult, apperrors.Error) {
	f.record("ListUsers", opts.PageToken)
	if f.err != nil {
		return nil, models.ListResult{}, f.err
	}
	return []models.User{f.user}, f.listResult, nil
}

func (f *fakeTenantService) AddUserToTenant(ctx context.Context, tenantID, userID, role, status string) (*models.TenantUser, apperrors.Error) {
	f.record("AddUserToTenant", tenantID, userID, role, status)
	if f.err != nil {
		return nil, f.err
	}
	return &f.member, nil
}

func (f *fakeTenantService) RemoveUserFromTenant(ctx context.Context, tenantID, userID string) apperrors.Error {
	f.record("RemoveUserFromTenant", tenantID, userID)
	return f.err
}

func (f *fakeTenantService) ListTenantUsers(ctx context.Context, tenantID string, opts models.ListOptions) ([]models.TenantUser, models.ListResult, apperrors.Error) {
	f.record("ListTenantUsers", tenantID, opts.PageToken)
	if f.err != nil {
		return nil, models.ListResult{}, f.err
	}
	return []models.TenantUser{f.member}, f.listResult, nil
}

type fakeGraphService struct {
	err      apperrors.Error
	nodeType models.NodeType
	node     models.Node
	rel      models.Relationship

	lastMethod string
	lastArgs   []string
	lastData   []byte
	lastFilter tenantdb.RelationshipFilter

	listResult models.ListResult
}

func (f *fakeGraphService) record(method string, args ...string) {
	f.lastMethod = method
	f.lastArgs = args
}

func (f *fakeGraphService) CreateNodeType(ctx context.Context, tenantID, name, description, schema string) (*models.NodeType, apperrors.Error) {
	f.record("CreateNodeType", tenantID, name, description, schema)
	if f.err != nil {
		return nil, f.err
	}
	return &f.nodeType, nil
}

func (f *fakeGraphService) GetNodeType(ctx context.Context, tenantID, id string) (*models.NodeType, apperrors.Error) {
	f.record("GetNodeType", tenantID, id)
	if f.err != nil {
		return nil, f.err
	}
	return &f.nodeType, nil
}

func (f *fakeGraphService) UpdateNodeType(ctx context.Context, tenantID, id, name, description, schema string) (*models.NodeType, apperrors.Error) {
	f.record("UpdateNodeType", tenantID, id, name, description, schema)
	if f.err != nil {
		return nil, f.err
	}
	return &f.nodeType, nil
}

func (f *fakeGraphService) DeleteNodeType(ctx context.Context, tenantID, id string) apperrors.Error {
	f.record("DeleteNodeType", tenantID, id)
	return f.err
}

func (f *fakeGraphService) ListNodeTypes(ctx context.Context, tenantID string, opts models.ListOptions) ([]models.NodeType, models.ListResult, apperrors.Error) {
	f.record("ListNodeTypes", tenantID, opts.PageToken)
	if f.err != nil {
		return nil, models.ListResult{}, f.err
	}
	return []models.NodeType{f.nodeType}, f.listResult, nil
}

func (f *fakeGraphService) CreateNode(ctx context.Context, tenantID, nodeTypeID string, data []byte) (*models.Node, apperrors.Error) {
	f.record("CreateNode", tenantID, nodeTypeID)
	f.lastData = data
	if f.err != nil {
		return nil, f.err
	}
	return &f.node, nil
}

func (f *fakeGraphService) GetNode(ctx context.Context, tenantID, id string) (*models.Node, apperrors.Error) {
	f.record("GetNode", tenantID, id)
	if f.err != nil {
		return nil, f.err
	}
	return &f.node, nil
}

func (f *fakeGraphService) UpdateNode(ctx context.Context, tenantID, id string, data []byte) (*models.Node, apperrors.Error) {
	f.record("UpdateNode", tenantID, id)
	f.lastData = data
	if f.err != nil {
		return nil, f.err
	}
	return &f.node, nil
}

func (f *fakeGraphService) DeleteNode(ctx context.Context, tenantID, id string) apperrors.Error {
	f.record("DeleteNode", tenantID, id)
	return f.err
}

func (f *fakeGraphService) ListNodes(ctx context.Context, tenantID, nodeTypeID string, opts models.ListOptions) ([]models.Node, models.ListResult, apperrors.Error) {
	f.record("ListNodes", tenantID, nodeTypeID, opts.PageToken)
	if f.err != nil {
		return nil, models.ListResult{}, f.err
	}
	return []models.Node{f.node}, f.listResult, nil
}

func (f *fakeGraphService) CreateRelationship(ctx context.Context, tenantID, sourceID, targetID, relType string, data []byte) (*models.Relationship, apperrors.Error) {
	f.record("CreateRelationship", tenantID, sourceID, targetID, relType)
	f.lastData = data
	if f.err != nil {
		return nil, f.err
	}
	return &f.rel, nil
}

func (f *fakeGraphService) GetRelationship(ctx context.Context, tenantID, id string) (*models.Relationship, apperrors.Error) {
	f.record("GetRelationship", tenantID, id)
	if f.err != nil {
		return nil, f.err
	}
	return &f.rel, nil
}

func (f *fakeGraphService) UpdateRelationship(ctx context.Context, tenantID, id, relType string, data []byte) (*models.Relationship, apperrors.Error) {
	f.record("UpdateRelationship", tenantID, id, relType)
	f.lastData = data
	if f.err != nil {
		return nil, f.err
	}
	return &f.rel, nil
}

func (f *fakeGraphService) DeleteRelationship(ctx context.Context, tenantID, id string) apperrors.Error {
	f.record("DeleteRelationship", tenantID, id)
	return f.err
}

func (f *fakeGraphService) ListRelationships(ctx context.Context, tenantID string, filter tenantdb.RelationshipFilter, opts models.ListOptions) ([]models.Relationship, models.ListResult, apperrors.Error) {
	f.record("ListRelationships", tenantID, opts.PageToken)
	f.lastFilter = filter
	if f.err != nil {
		return nil, models.ListResult{}, f.err
	}
	return []models.Relationship{f.rel}, f.listResult, nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeTenantService, *fakeGraphService) {
	t.Helper()
	tenants := &fakeTenantService{
		tenant: models.Tenant{ID: types.TenantId("TA1B2C3"), Slug: "acme", Name: "Acme Corp", Status: "active"},
		user:   models.User{ID: "6a1f8f60-0000-7000-8000-000000000001", Email: "ada@example.com", DisplayName: "Ada Lovelace"},
		member: models.TenantUser{
			TenantID: types.TenantId("TA1B2C3"),
			UserID:   "6a1f8f60-0000-7000-8000-000000000001",
			Role:     "member",
			Status:   "active",
		},
		listResult: models.ListResult{NextPageToken: "1", TotalCount: 42},
	}
	graph := &fakeGraphService{
		nodeType: models.NodeType{ID: "6a1f8f60-0000-7000-8000-00000000000a", Name: "person"},
		node: models.Node{
			ID:         "6a1f8f60-0000-7000-8000-00000000000b",
			NodeTypeID: "6a1f8f60-0000-7000-8000-00000000000a",
			Data:       jsonbOf(t, `{"name": "ada"}`),
		},
		rel: models.Relationship{
			ID:               "6a1f8f60-0000-7000-8000-00000000000c",
			SourceNodeID:     "6a1f8f60-0000-7000-8000-00000000000b",
			TargetNodeID:     "6a1f8f60-0000-7000-8000-00000000000d",
			RelationshipType: "knows",
			Data:             jsonbOf(t, `{}`),
		},
		listResult: models.ListResult{NextPageToken: "", TotalCount: 1},
	}
	return NewHandler(tenants, graph), tenants, graph
}
