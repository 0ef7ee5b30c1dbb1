// Package server implements the REST gateway: a thin facade that maps
// resource-style routes onto the backend's JSON-RPC methods. It holds no
// state of its own; every request is one backend call.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/hemanthpathath/flexy-db/internal/common/jsonrpc"
	"github.com/hemanthpathath/flexy-db/internal/common/jsonrpcclient"
	commonmiddleware "github.com/hemanthpathath/flexy-db/internal/common/middleware"
	"github.com/hemanthpathath/flexy-db/internal/gateway/config"
	"github.com/hemanthpathath/flexy-db/pkg/api"
)

type GatewayServer struct {
	Router *chi.Mux

	client    *jsonrpcclient.Client
	healthURL string
}

func CreateNewServer() (*GatewayServer, error) {
	c := config.Config()
	s := &GatewayServer{
		Router:    chi.NewRouter(),
		client:    jsonrpcclient.New(c.RPCEndpoint()),
		healthURL: c.HealthEndpoint(),
	}
	return s, nil
}

func (s *GatewayServer) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	if config.Config().Server.HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.Router.Route("/tenants/{tenantID}", func(r chi.Router) {
		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", s.createNode)
			r.Get("/", s.listNodes)
			r.Get("/{id}", s.getNode)
			r.Put("/{id}", s.updateNode)
			r.Delete("/{id}", s.deleteNode)
		})
		r.Route("/relationships", func(r chi.Router) {
			r.Post("/", s.createRelationship)
			r.Get("/", s.listRelationships)
			r.Get("/{id}", s.getRelationship)
			r.Put("/{id}", s.updateRelationship)
			r.Delete("/{id}", s.deleteRelationship)
		})
	})
	s.Router.Get("/health", s.getHealth)
}

func (s *GatewayServer) HandleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}

// call forwards params to one backend method and returns the raw result
// envelope.
func (s *GatewayServer) call(r *http.Request, method string, params json.RawMessage) (json.RawMessage, error) {
	var result json.RawMessage
	err := s.client.Call(r.Context(), jsonrpc.MethodType(method), params, &result)
	return result, err
}

// readBody returns the request body as a JSON object, treating an empty
// body as {} so path parameters can still be spliced in.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return []byte("{}"), nil
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, errors.New("request body must be a JSON object")
	}
	return body, nil
}

// --- nodes ---

func (s *GatewayServer) createNode(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	params, _ := sjson.SetBytes(body, "tenant_id", chi.URLParam(r, "tenantID"))
	result, err := s.call(r, api.MethodCreateNode, params)
	if err != nil {
		s.writeBackendError(r, w, err)
		return
	}
	writeRaw(w, http.StatusCreated, gjson.GetBytes(result, "node").Raw)
}

func (s *GatewayServer) getNode(w http.ResponseWriter, r *http.Request) {
	params := pathParams(r, "node_id")
	result, err := s.call(r, api.MethodGetNode, params)
	if err != nil {
		s.writeBackendError(r, w, err)
		return
	}
	writeRaw(w, http.StatusOK, gjson.GetBytes(result, "node").Raw)
}

func (s *GatewayServer) updateNode(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	params, _ := sjson.SetBytes(body, "tenant_id", chi.URLParam(r, "tenantID"))
	params, _ = sjson.SetBytes(params, "node_id", chi.URLParam(r, "id"))
	result, err := s.call(r, api.MethodUpdateNode, params)
	if err != nil {
		s.writeBackendError(r, w, err)
		return
	}
	writeRaw(w, http.StatusOK, gjson.GetBytes(result, "node").Raw)
}

func (s *GatewayServer) deleteNode(w http.ResponseWriter, r *http.Request) {
	params := pathParams(r, "node_id")
	result, err := s.call(r, api.MethodDeleteNode, params)
	if err != nil {
		s.writeBackendError(r, w, err)
		return
	}
	writeRaw(w, http.StatusOK, string(result))
}

func (s *GatewayServer) listNodes(w http.ResponseWriter, r *http.Request) {
	params := listParams(r, "node_type_id")
	result, err := s.call(r, api.MethodListNodes, params)
	if err != nil {
		s.writeBackendError(r, w, err)
		return
	}
	writeRaw(w, http.StatusOK, string(result))
}

// --- relationships ---

func (s *GatewayServer) createRelationship(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	params, _ := sjson.SetBytes(body, "tenant_id", chi.URLParam(r, "tenantID"))
	result, err := s.call(r, api.MethodCreateRelationship, params)
	if err != nil {
		s.writeBackendError(r, w, err)
		return
	}
	writeRaw(w, http.StatusCreated, gjson.GetBytes(result, "relationship").Raw)
}

func (s *GatewayServer) getRelationship(w http.ResponseWriter, r *http.Request) {
	params := pathParams(r, "relationship_id")
	result, err := s.call(r, api.MethodGetRelationship, params)
	if err != nil {
		s.writeBackendError(r, w, err)
		return
	}
	writeRaw(w, http.StatusOK, gjson.GetBytes(result, "relationship").Raw)
}

func (s *GatewayServer) updateRelationship(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	params, _ := sjson.SetBytes(body, "tenant_id", chi.URLParam(r, "tenantID"))
	params, _ = sjson.SetBytes(params, "relationship_id", chi.URLParam(r, "id"))
	result, err := s.call(r, api.MethodUpdateRelationship, params)
	if err != nil {
		s.writeBackendError(r, w, err)
		return
	}
	writeRaw(w, http.StatusOK, gjson.GetBytes(result, "relationship").Raw)
}

func (s *GatewayServer) deleteRelationship(w http.ResponseWriter, r *http.Request) {
	params := pathParams(r, "relationship_id")
	result, err := s.call(r, api.MethodDeleteRelationship, params)
	if err != nil {
		s.writeBackendError(r, w, err)
		return
	}
	writeRaw(w, http.StatusOK, string(result))
}

func (s *GatewayServer) listRelationships(w http.ResponseWriter, r *http.Request) {
	params := listParams(r, "source_node_id", "target_node_id", "relationship_type")
	result, err := s.call(r, api.MethodListRelationships, params)
	if err != nil {
		s.writeBackendError(r, w, err)
		return
	}
	writeRaw(w, http.StatusOK, string(result))
}

// --- health ---

type healthRsp struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

func (s *GatewayServer) getHealth(w http.ResponseWriter, r *http.Request) {
	rsp := &healthRsp{Status: "ok", Backend: "ok"}
	statusCode := http.StatusOK
	if _, err := s.client.Health(r.Context(), s.healthURL); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("backend health probe failed")
		rsp.Status = "degraded"
		rsp.Backend = "unreachable"
		statusCode = http.StatusServiceUnavailable
	}
	body, _ := json.Marshal(rsp)
	writeRaw(w, statusCode, string(body))
}

// --- param and response plumbing ---

// pathParams builds {"tenant_id": ..., <idField>: ...} from the route.
func pathParams(r *http.Request, idField string) json.RawMessage {
	params, _ := sjson.SetBytes([]byte("{}"), "tenant_id", chi.URLParam(r, "tenantID"))
	params, _ = sjson.SetBytes(params, idField, chi.URLParam(r, "id"))
	return params
}

// listParams builds list-method params from the route and the query
// string. Filters are copied only when present so the backend sees the
// same absent-vs-empty distinction the query string had.
func listParams(r *http.Request, filters ...string) json.RawMessage {
	params, _ := sjson.SetBytes([]byte("{}"), "tenant_id", chi.URLParam(r, "tenantID"))
	q := r.URL.Query()
	for _, f := range filters {
		if v := q.Get(f); v != "" {
			params, _ = sjson.SetBytes(params, f, v)
		}
	}
	if v := q.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params, _ = sjson.SetBytes(params, "page_size", n)
		}
	}
	if v := q.Get("page_token"); v != "" {
		params, _ = sjson.SetBytes(params, "page_token", v)
	}
	return params
}

func writeRaw(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(body))
}

type detailRsp struct {
	Detail string `json:"detail"`
}

func writeDetail(w http.ResponseWriter, statusCode int, detail string) {
	body, _ := json.Marshal(&detailRsp{Detail: detail})
	writeRaw(w, statusCode, string(body))
}

// writeBackendError maps a JSON-RPC error object onto the REST status
// codes. Anything that is not a structured backend error is a bad
// gateway: the client's request never completed.
func (s *GatewayServer) writeBackendError(r *http.Request, w http.ResponseWriter, err error) {
	var rpcErr *jsonrpc.ErrorObject
	if errors.As(err, &rpcErr) {
		statusCode := http.StatusBadGateway
		switch rpcErr.Code {
		case jsonrpc.CodeNotFound:
			statusCode = http.StatusNotFound
		case jsonrpc.CodeInvalidParams:
			statusCode = http.StatusBadRequest
		case jsonrpc.CodeAlreadyExists:
			statusCode = http.StatusConflict
		}
		writeDetail(w, statusCode, rpcErr.Message)
		return
	}
	log.Ctx(r.Context()).Error().Err(err).Msg("backend call failed")
	writeDetail(w, http.StatusBadGateway, "backend unavailable")
}
