package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hemanthpathath/flexy-db/internal/common/jsonrpc"
	"github.com/hemanthpathath/flexy-db/internal/common/jsonrpcclient"
)

const requestTimeout = 30 * time.Second

func newClient() *jsonrpcclient.Client {
	return jsonrpcclient.New(GetConfig().Server + "/jsonrpc")
}

// callMethod issues one JSON-RPC call and returns the raw result
// envelope. The commands pick fields out of it with gjson.
func callMethod(method string, params any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var result json.RawMessage
	if err := newClient().Call(ctx, jsonrpc.MethodType(method), params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
