// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// RootHandler answers the liveness probe at the service root.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests with a plain liveness message. Any
// other path falling through the mux is a 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "exorank API running"})
}
