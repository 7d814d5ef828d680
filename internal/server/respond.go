package server

import (
	"encoding/json"
	"net/http"

	svcErr "github.com/roomiapp/roomi-engine/internal/errors"
)

// WriteJSON writes payload as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// WriteError maps an engine error to its HTTP status and writes it as
// {"error": "..."}.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, svcErr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
