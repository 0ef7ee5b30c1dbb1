// Package rpc exposes the tenant and graph managers over JSON-RPC 2.0.
// One POST endpoint carries every method; the envelope, codes and
// method names live in internal/common/jsonrpc and pkg/api.
package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/common/jsonrpc"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/models"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/tenantdb"
)

// TenantService is the control-plane surface the handler dispatches to.
// *tenantmanager.TenantManager satisfies it.
type TenantService interface {
	CreateTenant(ctx context.Context, slug, name string) (*models.Tenant, apperrors.Error)
	GetTenant(ctx context.Context, tenantID string) (*models.Tenant, apperrors.Error)
	UpdateTenant(ctx context.Context, tenantID, name, status string) (*models.Tenant, apperrors.Error)
	DeleteTenant(ctx context.Context, tenantID string) apperrors.Error
	ListTenants(ctx context.Context, opts models.ListOptions) ([]models.Tenant, models.ListResult, apperrors.Error)

	CreateUser(ctx context.Context, email, displayName string) (*models.User, apperrors.Error)
	GetUser(ctx context.Context, userID string) (*models.User, apperrors.Error)
	UpdateUser(ctx context.Context, userID, email, displayName string) (*models.User, apperrors.Error)
	DeleteUser(ctx context.Context, userID string) apperrors.Error
	ListUsers(ctx context.Context, opts models.ListOptions) ([]models.User, models.ListResult, apperrors.Error)

	AddUserToTenant(ctx context.Context, tenantID, userID, role, status string) (*models.TenantUser, apperrors.Error)
	RemoveUserFromTenant(ctx context.Context, tenantID, userID string) apperrors.Error
	ListTenantUsers(ctx context.Context, tenantID string, opts models.ListOptions) ([]models.TenantUser, models.ListResult, apperrors.Error)
}

// GraphService is the data-plane surface the handler dispatches to.
// *graphmanager.GraphManager satisfies it.
type GraphService interface {
	CreateNodeType(ctx context.Context, tenantID, name, description, schema string) (*models.NodeType, apperrors.Error)
	GetNodeType(ctx context.Context, tenantID, id string) (*models.NodeType, apperrors.Error)
	UpdateNodeType(ctx context.Context, tenantID, id, name, description, schema string) (*models.NodeType, apperrors.Error)
	DeleteNodeType(ctx context.Context, tenantID, id string) apperrors.Error
	ListNodeTypes(ctx context.Context, tenantID string, opts models.ListOptions) ([]models.NodeType, models.ListResult, apperrors.Error)

	CreateNode(ctx context.Context, tenantID, nodeTypeID string, data []byte) (*models.Node, apperrors.Error)
	GetNode(ctx context.Context, tenantID, id string) (*models.Node, apperrors.Error)
	UpdateNode(ctx context.Context, tenantID, id string, data []byte) (*models.Node, apperrors.Error)
	DeleteNode(ctx context.Context, tenantID, id string) apperrors.Error
	ListNodes(ctx context.Context, tenantID, nodeTypeID string, opts models.ListOptions) ([]models.Node, models.ListResult, apperrors.Error)

	CreateRelationship(ctx context.Context, tenantID, sourceID, targetID, relType string, data []byte) (*models.Relationship, apperrors.Error)
	GetRelationship(ctx context.Context, tenantID, id string) (*models.Relationship, apperrors.Error)
	UpdateRelationship(ctx context.Context, tenantID, id, relType string, data []byte) (*models.Relationship, apperrors.Error)
	DeleteRelationship(ctx context.Context, tenantID, id string) apperrors.Error
	ListRelationships(ctx context.Context, tenantID string, filter tenantdb.RelationshipFilter, opts models.ListOptions) ([]models.Relationship, models.ListResult, apperrors.Error)
}

// Handler serves the JSON-RPC endpoint.
type Handler struct {
	tenants TenantService
	graph   GraphService
}

// NewHandler builds the endpoint over the two services.
func NewHandler(tenants TenantService, graph GraphService) *Handler {
	return &Handler{
		tenants: tenants,
		graph:   graph,
	}
}

// ServeHTTP handles one JSON-RPC request. JSON-RPC level failures keep
// HTTP 200 with an error object; only an unparseable body gets 400.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, jsonrpc.CodeParseError, "failed to read request body")
		return
	}

	req, err := jsonrpc.ParseRequest(body)
	if err != nil {
		if json.Valid(body) {
			writeError(w, http.StatusOK, rawID(body), jsonrpc.CodeInvalidRequest, "invalid JSON-RPC request")
			return
		}
		writeError(w, http.StatusBadRequest, nil, jsonrpc.CodeParseError, "parse error")
		return
	}

	result, rpcErr := h.dispatch(r.Context(), req)

	// A notification gets no response body even on failure.
	if req.IsNotification() {
		if rpcErr != nil {
			log.Ctx(r.Context()).Info().Str("method", string(req.Method)).Str("error", rpcErr.Message).Msg("notification failed")
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if rpcErr != nil {
		writeError(w, http.StatusOK, req.ID, rpcErr.Code, rpcErr.Message)
		return
	}

	rsp, merr := jsonrpc.ConstructSuccessResponse(req.ID, result)
	if merr != nil {
		log.Ctx(r.Context()).Error().Err(merr).Str("method", string(req.Method)).Msg("failed to marshal result")
		writeError(w, http.StatusOK, req.ID, jsonrpc.CodeInternalError, "failed to marshal result")
		return
	}
	write(w, http.StatusOK, rsp)
}

// rawID pulls the id out of a request that parsed as JSON but failed
// JSON-RPC validation, so the error response can still echo it.
func rawID(body []byte) json.RawMessage {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil
	}
	return probe.ID
}

func write(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, id json.RawMessage, code int, message string) {
	rsp, err := jsonrpc.ConstructErrorResponse(id, code, message, nil)
	if err != nil {
		http.Error(w, message, http.StatusInternalServerError)
		return
	}
	write(w, status, rsp)
}
