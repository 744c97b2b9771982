package httphandler

import (
	"encoding/json"
	"net/http"
	"time"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeRaw writes an already-encoded body. An empty contentType defaults to
// JSON.
func writeRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// detailedErrorResponse carries extra context for failed proxy and save calls.
type detailedErrorResponse struct {
	Error           string   `json:"error"`
	Message         string   `json:"message,omitempty"`
	Details         string   `json:"details,omitempty"`
	MissingFields   []string `json:"missingFields,omitempty"`
	InvalidBranches []string `json:"invalidBranches,omitempty"`
}

// successResponse acknowledges a mutation.
type successResponse struct {
	Success bool `json:"success"`
}

// FlagResponse is the JSON representation of a boolean preference.
type FlagResponse struct {
	Value bool `json:"value"`
}

// FlagRequest is the JSON body for setting a boolean preference.
type FlagRequest struct {
	Value *bool `json:"value"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status      string `json:"status"`
	Time        string `json:"time"`
	Subscribers int    `json:"subscribers"`
}

func newHealthResponse(subscribers int) HealthResponse {
	return HealthResponse{
		Status:      "ok",
		Time:        time.Now().UTC().Format(time.RFC3339),
		Subscribers: subscribers,
	}
}
