package rpc

import (
	"net/http"
	"sync"

	"github.com/hemanthpathath/flexy-db/internal/common/httpx"
	"github.com/hemanthpathath/flexy-db/pkg/api"
)

// The OpenRPC document served at /openrpc.json. Kept as data so the
// method list and the dispatcher cannot drift apart unnoticed: the test
// suite cross-checks them.

type openrpcDocument struct {
	OpenRPC string          `json:"openrpc"`
	Info    openrpcInfo     `json:"info"`
	Methods []openrpcMethod `json:"methods"`
}

type openrpcInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type openrpcMethod struct {
	Name   string         `json:"name"`
	Params []openrpcParam `json:"params"`
	Result openrpcResult  `json:"result"`
}

type openrpcParam struct {
	Name     string        `json:"name"`
	Required bool          `json:"required,omitempty"`
	Schema   openrpcSchema `json:"schema"`
}

type openrpcResult struct {
	Name   string        `json:"name"`
	Schema openrpcSchema `json:"schema"`
}

type openrpcSchema struct {
	Type string `json:"type"`
}

func str(name string, required bool) openrpcParam {
	return openrpcParam{Name: name, Required: required, Schema: openrpcSchema{Type: "string"}}
}

func integer(name string) openrpcParam {
	return openrpcParam{Name: name, Schema: openrpcSchema{Type: "integer"}}
}

func object(name string) openrpcParam {
	return openrpcParam{Name: name, Schema: openrpcSchema{Type: "object"}}
}

func result(name, typ string) openrpcResult {
	return openrpcResult{Name: name, Schema: openrpcSchema{Type: typ}}
}

func paging() []openrpcParam {
	return []openrpcParam{integer("page_size"), str("page_token", false)}
}

var (
	docOnce sync.Once
	doc     openrpcDocument
)

func document() openrpcDocument {
	docOnce.Do(func() {
		doc = openrpcDocument{
			OpenRPC: "1.2.6",
			Info: openrpcInfo{
				Title:   "flexy-db",
				Version: "0.1.0",
			},
			Methods: []openrpcMethod{
				{Name: api.MethodCreateTenant, Params: []openrpcParam{str("slug", true), str("name", true)}, Result: result("tenant", "object")},
				{Name: api.MethodGetTenant, Params: []openrpcParam{str("tenant_id", true)}, Result: result("tenant", "object")},
				{Name: api.MethodUpdateTenant, Params: []openrpcParam{str("tenant_id", true), str("name", false), str("status", false)}, Result: result("tenant", "object")},
				{Name: api.MethodDeleteTenant, Params: []openrpcParam{str("tenant_id", true)}, Result: result("deleted", "boolean")},
				{Name: api.MethodListTenants, Params: paging(), Result: result("tenants", "array")},

				{Name: api.MethodCreateUser, Params: []openrpcParam{str("email", true), str("display_name", true)}, Result: result("user", "object")},
				{Name: api.MethodGetUser, Params: []openrpcParam{str("user_id", true)}, Result: result("user", "object")},
				{Name: api.MethodUpdateUser, Params: []openrpcParam{str("user_id", true), str("email", false), str("display_name", false)}, Result: result("user", "object")},
				{Name: api.MethodDeleteUser, Params: []openrpcParam{str("user_id", true)}, Result: result("deleted", "boolean")},
				{Name: api.MethodListUsers, Params: paging(), Result: result("users", "array")},

				{Name: api.MethodAddUserToTenant, Params: []openrpcParam{str("tenant_id", true), str("user_id", true), str("role", false), str("status", false)}, Result: result("tenant_user", "object")},
				{Name: api.MethodRemoveUserFromTenant, Params: []openrpcParam{str("tenant_id", true), str("user_id", true)}, Result: result("deleted", "boolean")},
				{Name: api.MethodListTenantUsers, Params: append([]openrpcParam{str("tenant_id", true)}, paging()...), Result: result("tenant_users", "array")},

				{Name: api.MethodCreateNodeType, Params: []openrpcParam{str("tenant_id", true), str("name", true), str("description", false), str("schema", false)}, Result: result("node_type", "object")},
				{Name: api.MethodGetNodeType, Params: []openrpcParam{str("tenant_id", true), str("node_type_id", true)}, Result: result("node_type", "object")},
				{Name: api.MethodUpdateNodeType, Params: []openrpcParam{str("tenant_id", true), str("node_type_id", true), str("name", false), str("description", false), str("schema", false)}, Result: result("node_type", "object")},
				{Name: api.MethodDeleteNodeType, Params: []openrpcParam{str("tenant_id", true), str("node_type_id", true)}, Result: result("deleted", "boolean")},
				{Name: api.MethodListNodeTypes, Params: append([]openrpcParam{str("tenant_id", true)}, paging()...), Result: result("node_types", "array")},

				{Name: api.MethodCreateNode, Params: []openrpcParam{str("tenant_id", true), str("node_type_id", true), object("data")}, Result: result("node", "object")},
				{Name: api.MethodGetNode, Params: []openrpcParam{str("tenant_id", true), str("node_id", true)}, Result: result("node", "object")},
				{Name: api.MethodUpdateNode, Params: []openrpcParam{str("tenant_id", true), str("node_id", true), object("data")}, Result: result("node", "object")},
				{Name: api.MethodDeleteNode, Params: []openrpcParam{str("tenant_id", true), str("node_id", true)}, Result: result("deleted", "boolean")},
				{Name: api.MethodListNodes, Params: append([]openrpcParam{str("tenant_id", true), str("node_type_id", false)}, paging()...), Result: result("nodes", "array")},

				{Name: api.MethodCreateRelationship, Params: []openrpcParam{str("tenant_id", true), str("source_node_id", true), str("target_node_id", true), str("relationship_type", true), object("data")}, Result: result("relationship", "object")},
				{Name: api.MethodGetRelationship, Params: []openrpcParam{str("tenant_id", true), str("relationship_id", true)}, Result: result("relationship", "object")},
				{Name: api.MethodUpdateRelationship, Params: []openrpcParam{str("tenant_id", true), str("relationship_id", true), str("relationship_type", false), object("data")}, Result: result("relationship", "object")},
				{Name: api.MethodDeleteRelationship, Params: []openrpcParam{str("tenant_id", true), str("relationship_id", true)}, Result: result("deleted", "boolean")},
				{Name: api.MethodListRelationships, Params: append([]openrpcParam{str("tenant_id", true), str("source_node_id", false), str("target_node_id", false), str("relationship_type", false)}, paging()...), Result: result("relationships", "array")},
			},
		}
	})
	return doc
}

// ServeDocument handles GET /openrpc.json.
func ServeDocument(w http.ResponseWriter, r *http.Request) {
	httpx.SendJsonRsp(w, http.StatusOK, document())
}
