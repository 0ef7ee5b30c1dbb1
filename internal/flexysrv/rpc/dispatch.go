package rpc

import (
	"context"
	"encoding/json"

	jsonit "github.com/json-iterator/go"

	"github.com/hemanthpathath/flexy-db/internal/common/jsonrpc"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/tenantdb"
	"github.com/hemanthpathath/flexy-db/pkg/api"
)

// dispatch routes one parsed request to its handler.
func (h *Handler) dispatch(ctx context.Context, req *jsonrpc.Request) (any, *rpcError) {
	switch req.Method {
	case api.MethodCreateTenant:
		return h.createTenant(ctx, req.Params)
	case api.MethodGetTenant:
		return h.getTenant(ctx, req.Params)
	case api.MethodUpdateTenant:
		return h.updateTenant(ctx, req.Params)
	case api.MethodDeleteTenant:
		return h.deleteTenant(ctx, req.Params)
	case api.MethodListTenants:
		return h.listTenants(ctx, req.Params)
	case api.MethodCreateUser:
		return h.createUser(ctx, req.Params)
	case api.MethodGetUser:
		return h.getUser(ctx, req.Params)
	case api.MethodUpdateUser:
		return h.updateUser(ctx, req.Params)
	case api.MethodDeleteUser:
		return h.deleteUser(ctx, req.Params)
	case api.MethodListUsers:
		return h.listUsers(ctx, req.Params)
	case api.MethodAddUserToTenant:
		return h.addUserToTenant(ctx, req.Params)
	case api.MethodRemoveUserFromTenant:
		return h.removeUserFromTenant(ctx, req.Params)
	case api.MethodListTenantUsers:
		return h.listTenantUsers(ctx, req.Params)
	case api.MethodCreateNodeType:
		return h.createNodeType(ctx, req.Params)
	case api.MethodGetNodeType:
		return h.getNodeType(ctx, req.Params)
	case api.MethodUpdateNodeType:
		return h.updateNodeType(ctx, req.Params)
	case api.MethodDeleteNodeType:
		return h.deleteNodeType(ctx, req.Params)
	case api.MethodListNodeTypes:
		return h.listNodeTypes(ctx, req.Params)
	case api.MethodCreateNode:
		return h.createNode(ctx, req.Params)
	case api.MethodGetNode:
		return h.getNode(ctx, req.Params)
	case api.MethodUpdateNode:
		return h.updateNode(ctx, req.Params)
	case api.MethodDeleteNode:
		return h.deleteNode(ctx, req.Params)
	case api.MethodListNodes:
		return h.listNodes(ctx, req.Params)
	case api.MethodCreateRelationship:
		return h.createRelationship(ctx, req.Params)
	case api.MethodGetRelationship:
		return h.getRelationship(ctx, req.Params)
	case api.MethodUpdateRelationship:
		return h.updateRelationship(ctx, req.Params)
	case api.MethodDeleteRelationship:
		return h.deleteRelationship(ctx, req.Params)
	case api.MethodListRelationships:
		return h.listRelationships(ctx, req.Params)
	default:
		return nil, methodNotFound(string(req.Method))
	}
}

// unmarshalParams decodes params into p. Absent params decode as the
// zero value so the services produce their own field-level messages.
func unmarshalParams(raw json.RawMessage, p any) *rpcError {
	if len(raw) == 0 {
		return nil
	}
	if err := jsonit.Unmarshal(raw, p); err != nil {
		return invalidParams(err)
	}
	return nil
}

func listOptions(p api.ListParams) models.ListOptions {
	return models.ListOptions{
		PageSize:  p.PageSize,
		PageToken: p.PageToken,
	}
}

func (h *Handler) createTenant(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.CreateTenantParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	tenant, err := h.tenants.CreateTenant(ctx, p.Slug, p.Name)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.TenantResult{Tenant: tenantToAPI(tenant)}, nil
}

func (h *Handler) getTenant(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.GetTenantParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	tenant, err := h.tenants.GetTenant(ctx, p.TenantID)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.TenantResult{Tenant: tenantToAPI(tenant)}, nil
}

func (h *Handler) updateTenant(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.UpdateTenantParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	tenant, err := h.tenants.UpdateTenant(ctx, p.TenantID, p.Name, p.Status)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.TenantResult{Tenant: tenantToAPI(tenant)}, nil
}

func (h *Handler) deleteTenant(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.DeleteTenantParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	if err := h.tenants.DeleteTenant(ctx, p.TenantID); err != nil {
		return nil, fromAppError(err)
	}
	return api.DeleteResult{Deleted: true}, nil
}

func (h *Handler) listTenants(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.ListTenantsParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	tenants, res, err := h.tenants.ListTenants(ctx, listOptions(p.ListParams))
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.TenantListResult{
		Tenants:    tenantsToAPI(tenants),
		Pagination: paginationToAPI(res),
	}, nil
}

func (h *Handler) createUser(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.CreateUserParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	user, err := h.tenants.CreateUser(ctx, p.Email, p.DisplayName)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.UserResult{User: userToAPI(user)}, nil
}

func (h *Handler) getUser(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.GetUserParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	user, err := h.tenants.GetUser(ctx, p.UserID)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.UserResult{User: userToAPI(user)}, nil
}

func (h *Handler) updateUser(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.UpdateUserParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	user, err := h.tenants.UpdateUser(ctx, p.UserID, p.Email, p.DisplayName)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.UserResult{User: userToAPI(user)}, nil
}

func (h *Handler) deleteUser(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.DeleteUserParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	if err := h.tenants.DeleteUser(ctx, p.UserID); err != nil {
		return nil, fromAppError(err)
	}
	return api.DeleteResult{Deleted: true}, nil
}

func (h *Handler) listUsers(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.ListUsersParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	users, res, err := h.tenants.ListUsers(ctx, listOptions(p.ListParams))
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.UserListResult{
		Users:      usersToAPI(users),
		Pagination: paginationToAPI(res),
	}, nil
}

func (h *Handler) addUserToTenant(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.AddUserToTenantParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	member, err := h.tenants.AddUserToTenant(ctx, p.TenantID, p.UserID, p.Role, p.Status)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.TenantUserResult{TenantUser: tenantUserToAPI(member)}, nil
}

func (h *Handler) removeUserFromTenant(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.RemoveUserFromTenantParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	if err := h.tenants.RemoveUserFromTenant(ctx, p.TenantID, p.UserID); err != nil {
		return nil, fromAppError(err)
	}
	return api.DeleteResult{Deleted: true}, nil
}

func (h *Handler) listTenantUsers(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.ListTenantUsersParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	members, res, err := h.tenants.ListTenantUsers(ctx, p.TenantID, listOptions(p.ListParams))
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.TenantUserListResult{
		TenantUsers: tenantUsersToAPI(members),
		Pagination:  paginationToAPI(res),
	}, nil
}

func (h *Handler) createNodeType(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.CreateNodeTypeParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	nt, err := h.graph.CreateNodeType(ctx, p.TenantID, p.Name, p.Description, p.Schema)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.NodeTypeResult{NodeType: nodeTypeToAPI(nt)}, nil
}

func (h *Handler) getNodeType(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.GetNodeTypeParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	nt, err := h.graph.GetNodeType(ctx, p.TenantID, p.NodeTypeID)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.NodeTypeResult{NodeType: nodeTypeToAPI(nt)}, nil
}

func (h *Handler) updateNodeType(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.UpdateNodeTypeParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	nt, err := h.graph.UpdateNodeType(ctx, p.TenantID, p.NodeTypeID, p.Name, p.Description, p.Schema)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.NodeTypeResult{NodeType: nodeTypeToAPI(nt)}, nil
}

func (h *Handler) deleteNodeType(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.DeleteNodeTypeParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	if err := h.graph.DeleteNodeType(ctx, p.TenantID, p.NodeTypeID); err != nil {
		return nil, fromAppError(err)
	}
	return api.DeleteResult{Deleted: true}, nil
}

func (h *Handler) listNodeTypes(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.ListNodeTypesParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	nodeTypes, res, err := h.graph.ListNodeTypes(ctx, p.TenantID, listOptions(p.ListParams))
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.NodeTypeListResult{
		NodeTypes:  nodeTypesToAPI(nodeTypes),
		Pagination: paginationToAPI(res),
	}, nil
}

func (h *Handler) createNode(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.CreateNodeParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	node, err := h.graph.CreateNode(ctx, p.TenantID, p.NodeTypeID, p.Data)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.NodeResult{Node: nodeToAPI(node)}, nil
}

func (h *Handler) getNode(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.GetNodeParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	node, err := h.graph.GetNode(ctx, p.TenantID, p.NodeID)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.NodeResult{Node: nodeToAPI(node)}, nil
}

func (h *Handler) updateNode(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.UpdateNodeParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	node, err := h.graph.UpdateNode(ctx, p.TenantID, p.NodeID, p.Data)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.NodeResult{Node: nodeToAPI(node)}, nil
}

func (h *Handler) deleteNode(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.DeleteNodeParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	if err := h.graph.DeleteNode(ctx, p.TenantID, p.NodeID); err != nil {
		return nil, fromAppError(err)
	}
	return api.DeleteResult{Deleted: true}, nil
}

func (h *Handler) listNodes(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.ListNodesParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	nodes, res, err := h.graph.ListNodes(ctx, p.TenantID, p.NodeTypeID, listOptions(p.ListParams))
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.NodeListResult{
		Nodes:      nodesToAPI(nodes),
		Pagination: paginationToAPI(res),
	}, nil
}

func (h *Handler) createRelationship(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.CreateRelationshipParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	rel, err := h.graph.CreateRelationship(ctx, p.TenantID, p.SourceNodeID, p.TargetNodeID, p.RelationshipType, p.Data)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.RelationshipResult{Relationship: relationshipToAPI(rel)}, nil
}

func (h *Handler) getRelationship(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.GetRelationshipParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	rel, err := h.graph.GetRelationship(ctx, p.TenantID, p.RelationshipID)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.RelationshipResult{Relationship: relationshipToAPI(rel)}, nil
}

func (h *Handler) updateRelationship(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.UpdateRelationshipParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	rel, err := h.graph.UpdateRelationship(ctx, p.TenantID, p.RelationshipID, p.RelationshipType, p.Data)
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.RelationshipResult{Relationship: relationshipToAPI(rel)}, nil
}

func (h *Handler) deleteRelationship(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.DeleteRelationshipParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	if err := h.graph.DeleteRelationship(ctx, p.TenantID, p.RelationshipID); err != nil {
		return nil, fromAppError(err)
	}
	return api.DeleteResult{Deleted: true}, nil
}

func (h *Handler) listRelationships(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var p api.ListRelationshipsParams
	if err := unmarshalParams(raw, &p); err != nil {
		return nil, err
	}
	filter := tenantdb.RelationshipFilter{
		SourceNodeID:     p.SourceNodeID,
		TargetNodeID:     p.TargetNodeID,
		RelationshipType: p.RelationshipType,
	}
	rels, res, err := h.graph.ListRelationships(ctx, p.TenantID, filter, listOptions(p.ListParams))
	if err != nil {
		return nil, fromAppError(err)
	}
	return api.RelationshipListResult{
		Relationships: relationshipsToAPI(rels),
		Pagination:    paginationToAPI(res),
	}, nil
}
