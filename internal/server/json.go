package server

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message, field string) error {
	return writeJSON(w, status, &errorResponse{
		Error:     message,
		Field:     field,
		RequestID: w.Header().Get(requestIDHeader),
	})
}

// readJSON decodes a single JSON object, rejecting unknown fields and bodies
// above maxBytes
func readJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(data)
}
