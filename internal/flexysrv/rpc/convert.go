package rpc

import (
	"encoding/json"

	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/pkg/api"
)

// Converters from storage models to the wire shapes in pkg/api.

func tenantToAPI(t *models.Tenant) api.Tenant {
	return api.Tenant{
		ID:        string(t.ID),
		Slug:      t.Slug,
		Name:      t.Name,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func tenantsToAPI(tenants []models.Tenant) []api.Tenant {
	out := make([]api.Tenant, 0, len(tenants))
	for i := range tenants {
		out = append(out, tenantToAPI(&tenants[i]))
	}
	return out
}

func userToAPI(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func usersToAPI(users []models.User) []api.User {
	out := make([]api.User, 0, len(users))
	for i := range users {
		out = append(out, userToAPI(&users[i]))
	}
	return out
}

func tenantUserToAPI(tu *models.TenantUser) api.TenantUser {
	return api.TenantUser{
		TenantID:  string(tu.TenantID),
		UserID:    tu.UserID,
		Role:      tu.Role,
		Status:    tu.Status,
		CreatedAt: tu.CreatedAt,
	}
}

func tenantUsersToAPI(members []models.TenantUser) []api.TenantUser {
	out := make([]api.TenantUser, 0, len(members))
	for i := range members {
		out = append(out, tenantUserToAPI(&members[i]))
	}
	return out
}

func nodeTypeToAPI(nt *models.NodeType) api.NodeType {
	return api.NodeType{
		ID:          nt.ID,
		Name:        nt.Name,
		Description: nt.Description,
		Schema:      nt.Schema,
		CreatedAt:   nt.CreatedAt,
		UpdatedAt:   nt.UpdatedAt,
	}
}

func nodeTypesToAPI(nodeTypes []models.NodeType) []api.NodeType {
	out := make([]api.NodeType, 0, len(nodeTypes))
	for i := range nodeTypes {
		out = append(out, nodeTypeToAPI(&nodeTypes[i]))
	}
	return out
}

func nodeToAPI(n *models.Node) api.Node {
	return api.Node{
		ID:         n.ID,
		NodeTypeID: n.NodeTypeID,
		Data:       rawData(n.Data.Bytes),
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func nodesToAPI(nodes []models.Node) []api.Node {
	out := make([]api.Node, 0, len(nodes))
	for i := range nodes {
		out = append(out, nodeToAPI(&nodes[i]))
	}
	return out
}

func relationshipToAPI(rel *models.Relationship) api.Relationship {
	return api.Relationship{
		ID:               rel.ID,
		SourceNodeID:     rel.SourceNodeID,
		TargetNodeID:     rel.TargetNodeID,
		RelationshipType: rel.RelationshipType,
		Data:             rawData(rel.Data.Bytes),
		CreatedAt:        rel.CreatedAt,
		UpdatedAt:        rel.UpdatedAt,
	}
}

func relationshipsToAPI(rels []models.Relationship) []api.Relationship {
	out := make([]api.Relationship, 0, len(rels))
	for i := range rels {
		out = append(out, relationshipToAPI(&rels[i]))
	}
	return out
}

func rawData(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("{}")
	}
	return json.RawMessage(b)
}

func paginationToAPI(res models.ListResult) api.Pagination {
	return api.Pagination{
		NextPageToken: res.NextPageToken,
		TotalCount:    res.TotalCount,
	}
}
