// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// Default leaderboard window limits; overridable via WithRankLimits.
const (
	defaultRankWindow = 10
	maxRankWindow     = 100
)

// RankHandler handles leaderboard requests.
type RankHandler struct {
	deps     Dependencies
	defaultK int
	maxK     int
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps Dependencies) *RankHandler {
	return &RankHandler{
		deps:     deps,
		defaultK: defaultRankWindow,
		maxK:     maxRankWindow,
	}
}

// HandleGetRank handles GET /rank?k=N requests. A missing k selects the
// configured default window.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	k := h.defaultK
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		k = n
	}
	if k > h.maxK {
		writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
		return
	}

	entries, err := h.deps.TopK(r.Context(), k)
	if err != nil {
		status, code := errorStatus(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
