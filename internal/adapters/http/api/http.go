// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/exorank/internal/adapters/repository"
	"github.com/okian/exorank/internal/auth"
	"github.com/okian/exorank/internal/domain/schema"
	"github.com/okian/exorank/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// AddBody validates and persists a new body.
	AddBody(ctx context.Context, name string, features map[string]any) error

	// Predict scores a feature payload; persist controls the write-back.
	Predict(ctx context.Context, name string, features map[string]any, persist bool) (types.ScoreResult, error)

	// TopK exposes leaderboard data.
	TopK(ctx context.Context, k int) ([]types.Entry, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler    *RootHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	bodiesHandler  *BodiesHandler
	predictHandler *PredictHandler
	rankHandler    *RankHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRankLimits sets the default and maximum leaderboard window.
func WithRankLimits(defaultK, maxK int) Option {
	return func(s *Server) {
		if defaultK > 0 && maxK >= defaultK {
			s.rankHandler.defaultK = defaultK
			s.rankHandler.maxK = maxK
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, gate auth.Authorizer, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		rootHandler:    NewRootHandler(),
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		bodiesHandler:  NewBodiesHandler(deps),
		predictHandler: NewPredictHandler(deps, gate),
		rankHandler:    NewRankHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/bodies", MetricsMiddleware(s.bodiesHandler.HandleAddBody, "bodies"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/secure/predict", MetricsMiddleware(s.predictHandler.HandleSecurePredict, "secure_predict"))
	mux.HandleFunc("/rank", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
}

// bodyPayload splits the flat request JSON into the body name and its
// feature map, mirroring the wire format {"name": ..., "pl_rade": ..., ...}.
func bodyPayload(r *http.Request) (string, map[string]any, error) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return "", nil, errors.New("invalid JSON body")
	}
	name, _ := payload["name"].(string)
	delete(payload, "name")
	return name, payload, nil
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// errorStatus maps domain errors onto HTTP status and error codes.
func errorStatus(err error) (int, string) {
	var missing *schema.MissingFeatureError
	var invalid *schema.InvalidTypeError
	switch {
	case errors.As(err, &missing), errors.As(err, &invalid):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrDuplicateName):
		return http.StatusConflict, "duplicate_name"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
