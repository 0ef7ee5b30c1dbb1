// Package jsonrpcclient is a small HTTP client for JSON-RPC 2.0 endpoints.
// The gateway and the CLI both talk to the server through it.
package jsonrpcclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/hemanthpathath/flexy-db/internal/common/jsonrpc"
)

// Doer abstracts the HTTP transport so tests can stub it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	Endpoint string
	HTTP     Doer
}

// New creates a client for the given JSON-RPC endpoint URL.
func New(endpoint string) *Client {
	return &Client{
		Endpoint: endpoint,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Call issues a single JSON-RPC request and decodes the result into result
// (which may be nil to discard it). Server-side errors are returned as
// *jsonrpc.ErrorObject so callers can switch on the code.
func (c *Client) Call(ctx context.Context, method jsonrpc.MethodType, params any, result any) error {
	id, err := gonanoid.New(12)
	if err != nil {
		return fmt.Errorf("failed to generate request id: %w", err)
	}
	body, err := jsonrpc.ConstructRequest(id, method, params)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpRsp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer httpRsp.Body.Close()

	data, err := io.ReadAll(httpRsp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	rsp, err := jsonrpc.ParseResponse(data)
	if err != nil {
		return fmt.Errorf("invalid response (status %d): %w", httpRsp.StatusCode, err)
	}
	if rsp.Error != nil {
		return rsp.Error
	}
	if result == nil {
		return nil
	}
	return rsp.UnmarshalResult(result)
}

// Health probes the server's health endpoint relative to the JSON-RPC
// endpoint and returns the reported status.
func (c *Client) Health(ctx context.Context, healthURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return "", err
	}
	rsp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("health check failed with status %d", rsp.StatusCode)
	}
	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
