// Package api defines the public JSON-RPC surface: method names and the
// param and result shapes exchanged with the server. Clients should
// depend on this package rather than hand-rolling the wire structs.
package api

// Method names accepted at POST /jsonrpc.
const (
	MethodCreateTenant = "create_tenant"
	MethodGetTenant    = "get_tenant"
	MethodUpdateTenant = "update_tenant"
	MethodDeleteTenant = "delete_tenant"
	MethodListTenants  = "list_tenants"

	MethodCreateUser = "create_user"
	MethodGetUser    = "get_user"
	MethodUpdateUser = "update_user"
	MethodDeleteUser = "delete_user"
	MethodListUsers  = "list_users"

	MethodAddUserToTenant      = "add_user_to_tenant"
	MethodRemoveUserFromTenant = "remove_user_from_tenant"
	MethodListTenantUsers      = "list_tenant_users"

	MethodCreateNodeType = "create_node_type"
	MethodGetNodeType    = "get_node_type"
	MethodUpdateNodeType = "update_node_type"
	MethodDeleteNodeType = "delete_node_type"
	MethodListNodeTypes  = "list_node_types"

	MethodCreateNode = "create_node"
	MethodGetNode    = "get_node"
	MethodUpdateNode = "update_node"
	MethodDeleteNode = "delete_node"
	MethodListNodes  = "list_nodes"

	MethodCreateRelationship = "create_relationship"
	MethodGetRelationship    = "get_relationship"
	MethodUpdateRelationship = "update_relationship"
	MethodDeleteRelationship = "delete_relationship"
	MethodListRelationships  = "list_relationships"
)

// Methods lists every method name, in documentation order.
func Methods() []string {
	return []string{
		MethodCreateTenant, MethodGetTenant, MethodUpdateTenant, MethodDeleteTenant, MethodListTenants,
		MethodCreateUser, MethodGetUser, MethodUpdateUser, MethodDeleteUser, MethodListUsers,
		MethodAddUserToTenant, MethodRemoveUserFromTenant, MethodListTenantUsers,
		MethodCreateNodeType, MethodGetNodeType, MethodUpdateNodeType, MethodDeleteNodeType, MethodListNodeTypes,
		MethodCreateNode, MethodGetNode, MethodUpdateNode, MethodDeleteNode, MethodListNodes,
		MethodCreateRelationship, MethodGetRelationship, MethodUpdateRelationship, MethodDeleteRelationship, MethodListRelationships,
	}
}
