// Package handlers implements the HTTP API surface.
package handlers

import (
	"encoding/json"
	"net/http"
)

// HTTPErrorResponder writes an error response for a request.
type HTTPErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

var respondError HTTPErrorResponder = func(w http.ResponseWriter, r *http.Request, err error) {
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// SetHTTPErrorResponder installs the centralized error responder. The server
// package wires this at construction time.
func SetHTTPErrorResponder(responder HTTPErrorResponder) {
	if responder != nil {
		respondError = responder
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
