// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// BodiesHandler handles body creation requests.
type BodiesHandler struct {
	deps Dependencies
}

// NewBodiesHandler creates a new bodies handler.
func NewBodiesHandler(deps Dependencies) *BodiesHandler {
	return &BodiesHandler{deps: deps}
}

// HandleAddBody handles POST /bodies requests. The payload is flat:
// {"name": ..., "pl_rade": ..., ...}.
func (h *BodiesHandler) HandleAddBody(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	name, features, err := bodyPayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	if err := h.deps.AddBody(r.Context(), name, features); err != nil {
		status, code := errorStatus(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusCreated, statusResponse{Status: "created", Message: name})
}
