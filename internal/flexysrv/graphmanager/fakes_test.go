package graphmanager

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dbmanager"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/tenantdb"
	"github.com/hemanthpathath/flexy-db/pkg/types"
)

const testTenant = "TG7H8J9"

// fakeProvider stands in for the tenant database manager. The fake repo
// below never touches the pool, so handing back nil keeps these tests
// off the network.
type fakeProvider struct {
	calls atomic.Int64
	err   apperrors.Error
}

func (p *fakeProvider) GetTenantDB(ctx context.Context, tenantID types.TenantId) (*dbmanager.Pool, apperrors.Error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return nil, nil
}

// fakeRepo is an in-memory tenant graph with the same error contract as
// the real store: referential checks on node and relationship writes,
// cascade from nodes to the relationships touching them.
type fakeRepo struct {
	mu        sync.Mutex
	nodeTypes map[string]models.NodeType
	nodes     map[string]models.Node
	rels      map[string]models.Relationship
	typeOrder []string
	nodeOrder []string
	relOrder  []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nodeTypes: make(map[string]models.NodeType),
		nodes:     make(map[string]models.Node),
		rels:      make(map[string]models.Relationship),
	}
}

func pageBounds(total, limit, offset int) (int, int) {
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return offset, end
}

func (r *fakeRepo) CreateNodeType(ctx context.Context, nt *models.NodeType) apperrors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.nodeTypes {
		if existing.Name == nt.Name {
			return dberror.ErrAlreadyExists.Msg("node type already exists")
		}
	}
	nt.CreatedAt = time.Now()
	nt.UpdatedAt = nt.CreatedAt
	r.nodeTypes[nt.ID] = *nt
	r.typeOrder = append(r.typeOrder, nt.ID)
	return nil
}

func (r *fakeRepo) GetNodeType(ctx context.Context, id string) (*models.NodeType, apperrors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	nt, ok := r.nodeTypes[id]
	if !ok {
		return nil, dberror.ErrNotFound.Msg("node type not found")
	}
	return &nt, nil
}

func (r *fakeRepo) UpdateNodeType(ctx context.Context, nt *models.NodeType) apperrors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodeTypes[nt.ID]; !ok {
		return dberror.ErrNotFound.Msg("node type not found")
	}
	for id, existing := range r.nodeTypes {
		if id != nt.ID && existing.Name == nt.Name {
			return dberror.ErrAlreadyExists.Msg("node type already exists")
		}
	}
	nt.UpdatedAt = time.Now()
	r.nodeTypes[nt.ID] = *nt
	return nil
}

func (r *fakeRepo) DeleteNodeType(ctx context.Context, id string) apperrors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodeTypes[id]; !ok {
		return dberror.ErrNotFound.Msg("node type not found")
	}
	for _, node := range r.nodes {
		if node.NodeTypeID == id {
			return dberror.ErrValidation.Msg("node type is in use")
		}
	}
	delete(r.nodeTypes, id)
	r.typeOrder = remove(r.typeOrder, id)
	return nil
}

func (r *fakeRepo) ListNodeTypes(ctx context.Context, limit, offset int) ([]models.NodeType, int, apperrors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := len(r.typeOrder)
	lo, hi := pageBounds(total, limit, offset)
	out := make([]models.NodeType, 0, hi-lo)
	for _, id := range r.typeOrder[lo:hi] {
		out = append(out, r.nodeTypes[id])
	}
	return out, total, nil
}

func (r *fakeRepo) CreateNode(ctx context.Context, node *models.Node) apperrors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodeTypes[node.NodeTypeID]; !ok {
		return dberror.ErrNotFound.Msg("node type not found")
	}
	node.CreatedAt = time.Now()
	node.UpdatedAt = node.CreatedAt
	r.nodes[node.ID] = *node
	r.nodeOrder = append(r.nodeOrder, node.ID)
	return nil
}

func (r *fakeRepo) GetNode(ctx context.Context, id string) (*models.Node, apperrors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	node, ok := r.nodes[id]
	if !ok {
		return nil, dberror.ErrNotFound.Msg("node not found")
	}
	return &node, nil
}

func (r *fakeRepo) UpdateNode(ctx context.Context, node *models.Node) apperrors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodes[node.ID]; !ok {
		return dberror.ErrNotFound.Msg("node not found")
	}
	node.UpdatedAt = time.Now()
	r.nodes[node.ID] = *node
	return nil
}

func (r *fakeRepo) DeleteNode(ctx context.Context, id string) apperrors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodes[id]; !ok {
		return dberror.ErrNotFound.Msg("node not found")
	}
	delete(r.nodes, id)
	r.nodeOrder = remove(r.nodeOrder, id)
	for relID, rel := range r.rels {
		if rel.SourceNodeID == id || rel.TargetNodeID == id {
			delete(r.rels, relID)
			r.relOrder = remove(r.relOrder, relID)
		}
	}
	return nil
}

func (r *fakeRepo) ListNodes(ctx context.Context, filter tenantdb.NodeFilter, limit, offset int) ([]models.Node, int, apperrors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]string, 0, len(r.nodeOrder))
	for _, id := range r.nodeOrder {
		if filter.NodeTypeID != "" && r.nodes[id].NodeTypeID != filter.NodeTypeID {
			continue
		}
		matched = append(matched, id)
	}
	total := len(matched)
	lo, hi := pageBounds(total, limit, offset)
	out := make([]models.Node, 0, hi-lo)
	for _, id := range matched[lo:hi] {
		out = append(out, r.nodes[id])
	}
	return out, total, nil
}

func (r *fakeRepo) CreateRelationship(ctx context.Context, rel *models.Relationship) apperrors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodes[rel.SourceNodeID]; !ok {
		return dberror.ErrNotFound.Msg("source or target node not found")
	}
	if _, ok := r.nodes[rel.TargetNodeID]; !ok {
		return dberror.ErrNotFound.Msg("source or target node not found")
	}
	rel.CreatedAt = time.Now()
	rel.UpdatedAt = rel.CreatedAt
	r.rels[rel.ID] = *rel
	r.relOrder = append(r.relOrder, rel.ID)
	return nil
}

func (r *fakeRepo) GetRelationship(ctx context.Context, id string) (*models.Relationship, apperrors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel, ok := r.rels[id]
	if !ok {
		return nil, dberror.ErrNotFound.Msg("relationship not found")
	}
	return &rel, nil
}

func (r *fakeRepo) UpdateRelationship(ctx context.Context, rel *models.Relationship) apperrors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rels[rel.ID]; !ok {
		return dberror.ErrNotFound.Msg("relationship not found")
	}
	rel.UpdatedAt = time.Now()
	r.rels[rel.ID] = *rel
	return nil
}

func (r *fakeRepo) DeleteRelationship(ctx context.Context, id string) apperrors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rels[id]; !ok {
		return dberror.ErrNotFound.Msg("relationship not found")
	}
	delete(r.rels, id)
	r.relOrder = remove(r.relOrder, id)
	return nil
}

func (r *fakeRepo) ListRelationships(ctx context.Context, filter tenantdb.RelationshipFilter, limit, offset int) ([]models.Relationship, int, apperrors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]string, 0, len(r.relOrder))
	for _, id := range r.relOrder {
		rel := r.rels[id]
		if filter.SourceNodeID != "" && rel.SourceNodeID != filter.SourceNodeID {
			continue
		}
		if filter.TargetNodeID != "" && rel.TargetNodeID != filter.TargetNodeID {
			continue
		}
		if filter.RelationshipType != "" && rel.RelationshipType != filter.RelationshipType {
			continue
		}
		matched = append(matched, id)
	}
	total := len(matched)
	lo, hi := pageBounds(total, limit, offset)
	out := make([]models.Relationship, 0, hi-lo)
	for _, id := range matched[lo:hi] {
		out = append(out, r.rels[id])
	}
	return out, total, nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func newTestGraphManager(t *testing.T) (*GraphManager, *fakeRepo, *fakeProvider) {
	t.Helper()
	provider := &fakeProvider{}
	repo := newFakeRepo()
	gm := New(provider)
	gm.repoFor = func(pool *dbmanager.Pool) Repo { return repo }
	return gm, repo, provider
}
