// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/okian/exorank/internal/auth"
	"github.com/okian/exorank/pkg/metrics"
)

// PredictHandler handles scoring requests on both the persisting and the
// token-gated stateless path.
type PredictHandler struct {
	deps Dependencies
	gate auth.Authorizer
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Dependencies, gate auth.Authorizer) *PredictHandler {
	return &PredictHandler{deps: deps, gate: gate}
}

// HandlePredict handles POST /predict requests. When the named body exists
// in the store, its score is updated as part of the call.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

// HandleSecurePredict handles POST /secure/predict requests. The bearer
// token is checked before any payload is parsed; the response never
// persists anything.
func (h *PredictHandler) HandleSecurePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !h.gate.Authorize(r.Context(), token) {
		metrics.RecordUnauthorized()
		writeError(w, http.StatusUnauthorized, "unauthorized", ErrUnauthorized)
		return
	}
	h.serve(w, r, false)
}

func (h *PredictHandler) serve(w http.ResponseWriter, r *http.Request, persist bool) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	name, features, err := bodyPayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	result, err := h.deps.Predict(r.Context(), name, features, persist)
	if err != nil {
		status, code := errorStatus(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
