package api

import (
	"encoding/json"
	"time"
)

// Graph methods operate inside one tenant's database, so every params
// struct carries tenant_id. Node and relationship data are JSON objects
// and travel raw.

type NodeType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Schema      string    `json:"schema"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Node struct {
	ID         string          `json:"id"`
	NodeTypeID string          `json:"node_type_id"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type Relationship struct {
	ID               string          `json:"id"`
	SourceNodeID     string          `json:"source_node_id"`
	TargetNodeID     string          `json:"target_node_id"`
	RelationshipType string          `json:"relationship_type"`
	Data             json.RawMessage `json:"data"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type CreateNodeTypeParams struct {
	TenantID    string `json:"tenant_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Schema      string `json:"schema,omitempty"`
}

type GetNodeTypeParams struct {
	TenantID   string `json:"tenant_id"`
	NodeTypeID string `json:"node_type_id"`
}

type UpdateNodeTypeParams struct {
	TenantID    string `json:"tenant_id"`
	NodeTypeID  string `json:"node_type_id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Schema      string `json:"schema,omitempty"`
}

type DeleteNodeTypeParams struct {
	TenantID   string `json:"tenant_id"`
	NodeTypeID string `json:"node_type_id"`
}

type ListNodeTypesParams struct {
	TenantID string `json:"tenant_id"`
	ListParams
}

type NodeTypeResult struct {
	NodeType NodeType `json:"node_type"`
}

type NodeTypeListResult struct {
	NodeTypes  []NodeType `json:"node_types"`
	Pagination Pagination `json:"pagination"`
}

type CreateNodeParams struct {
	TenantID   string          `json:"tenant_id"`
	NodeTypeID string          `json:"node_type_id"`
	Data       json.RawMessage `json:"data,omitempty"`
}

type GetNodeParams struct {
	TenantID string `json:"tenant_id"`
	NodeID   string `json:"node_id"`
}

type UpdateNodeParams struct {
	TenantID string          `json:"tenant_id"`
	NodeID   string          `json:"node_id"`
	Data     json.RawMessage `json:"data,omitempty"`
}

type DeleteNodeParams struct {
	TenantID string `json:"tenant_id"`
	NodeID   string `json:"node_id"`
}

type ListNodesParams struct {
	TenantID   string `json:"tenant_id"`
	NodeTypeID string `json:"node_type_id,omitempty"`
	ListParams
}

type NodeResult struct {
	Node Node `json:"node"`
}

type NodeListResult struct {
	Nodes      []Node     `json:"nodes"`
	Pagination Pagination `json:"pagination"`
}

type CreateRelationshipParams struct {
	TenantID         string          `json:"tenant_id"`
	SourceNodeID     string          `json:"source_node_id"`
	TargetNodeID     string          `json:"target_node_id"`
	RelationshipType string          `json:"relationship_type"`
	Data             json.RawMessage `json:"data,omitempty"`
}

type GetRelationshipParams struct {
	TenantID       string `json:"tenant_id"`
	RelationshipID string `json:"relationship_id"`
}

type UpdateRelationshipParams struct {
	TenantID         string          `json:"tenant_id"`
	RelationshipID   string          `json:"relationship_id"`
	RelationshipType string          `json:"relationship_type,omitempty"`
	Data             json.RawMessage `json:"data,omitempty"`
}

type DeleteRelationshipParams struct {
	TenantID       string `json:"tenant_id"`
	RelationshipID string `json:"relationship_id"`
}

type ListRelationshipsParams struct {
	TenantID         string `json:"tenant_id"`
	SourceNodeID     string `json:"source_node_id,omitempty"`
	TargetNodeID     string `json:"target_node_id,omitempty"`
	RelationshipType string `json:"relationship_type,omitempty"`
	ListParams
}

type RelationshipResult struct {
	Relationship Relationship `json:"relationship"`
}

type RelationshipListResult struct {
	Relationships []Relationship `json:"relationships"`
	Pagination    Pagination     `json:"pagination"`
}
