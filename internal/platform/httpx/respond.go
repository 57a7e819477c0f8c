// Package httpx implements the JSON envelope shared by every API endpoint:
// list responses carry {data, total, summary?}, failures carry {message}.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ListEnvelope is the success body of every collection endpoint. Summary is
// present only on reporting endpoints and carries server-side aggregates.
type ListEnvelope struct {
	Data    any `json:"data"`
	Total   int `json:"total"`
	Summary any `json:"summary,omitempty"`
}

// ErrorBody is the failure body. Clients read Message when present and fall
// back to a resource-specific default otherwise.
type ErrorBody struct {
	Message string `json:"message"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// List writes a collection page.
func List(w http.ResponseWriter, data any, total int, summary any) {
	JSON(w, http.StatusOK, ListEnvelope{Data: data, Total: total, Summary: summary})
}

// Error writes a failure envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Message: message})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
