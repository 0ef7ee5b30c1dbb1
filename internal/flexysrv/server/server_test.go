package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/hemanthpathath/flexy-db/internal/flexysrv/config"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

// echoRPC stands in for the real JSON-RPC handler; routing is what is
// under test here, the endpoint has its own suite.
var echoRPC = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
})

func newTestServer(t *testing.T, control Pinger) *FlexyServer {
	t.Helper()
	config.TestInit()
	s, err := CreateNewServer(echoRPC, control)
	require.NoError(t, err)
	s.MountHandlers()
	return s
}

func executeTestRequest(t *testing.T, s *FlexyServer, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func TestHealthOK(t *testing.T) {
	s := newTestServer(t, &fakePinger{})

	rr := executeTestRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", gjson.GetBytes(rr.Body.Bytes(), "status").String())
	assert.Equal(t, "ok", gjson.GetBytes(rr.Body.Bytes(), "database").String())
}

func TestHealthDegradedWhenControlUnreachable(t *testing.T) {
	s := newTestServer(t, &fakePinger{err: errors.New("connection refused")})

	rr := executeTestRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "degraded", gjson.GetBytes(rr.Body.Bytes(), "status").String())
	assert.Equal(t, "unreachable", gjson.GetBytes(rr.Body.Bytes(), "database").String())
}

func TestJSONRPCRouted(t *testing.T) {
	s := newTestServer(t, &fakePinger{})

	rr := executeTestRequest(t, s, http.MethodPost, "/jsonrpc", `{"jsonrpc":"2.0","id":1,"method":"list_tenants"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2.0", gjson.GetBytes(rr.Body.Bytes(), "jsonrpc").String())

	// The endpoint only accepts POST.
	rr = executeTestRequest(t, s, http.MethodGet, "/jsonrpc", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestOpenRPCDocumentServed(t *testing.T) {
	s := newTestServer(t, &fakePinger{})

	rr := executeTestRequest(t, s, http.MethodGet, "/openrpc.json", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	methods := gjson.GetBytes(rr.Body.Bytes(), "methods.#.name")
	assert.True(t, methods.IsArray())
	assert.NotEmpty(t, methods.Array())
}
