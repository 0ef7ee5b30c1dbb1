// Package httpx holds the plain-HTTP response helpers shared by the
// server endpoints that sit outside the JSON-RPC envelope.
package httpx

import (
	"encoding/json"
	"net/http"
)

// SendJsonRsp writes data as a JSON response with the given status code.
func SendJsonRsp(w http.ResponseWriter, statusCode int, data any, location ...string) {
	body, err := json.Marshal(data)
	if err != nil {
		ErrApplicationError("unable to marshal response").Send(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if len(location) > 0 {
		w.Header().Set("Location", location[0])
	}
	w.WriteHeader(statusCode)
	w.Write(body)
}
