// Package service provides the core scoring service that implements the
// dependencies required by the HTTP API. It orchestrates schema validation,
// scaling, inference, and the Earth-similarity override, and coordinates
// score persistence with the record store.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/exorank/internal/adapters/repository"
	"github.com/okian/exorank/internal/artifact"
	"github.com/okian/exorank/internal/domain/heuristic"
	"github.com/okian/exorank/internal/domain/inference"
	"github.com/okian/exorank/internal/domain/scaling"
	"github.com/okian/exorank/internal/domain/schema"
	"github.com/okian/exorank/internal/domain/types"
	"github.com/okian/exorank/pkg/logger"
	"github.com/okian/exorank/pkg/metrics"
)

// Default configuration constants.
const (
	defaultPrecision = 4
	defaultTopK      = 10
	classifyAt       = 0.5
)

// Service wires the scoring pipeline to the record store. The schema,
// scaler, and model come from a loaded artifact bundle and never change for
// the lifetime of the service.
type Service struct {
	schema  *schema.Schema
	scaler  scaling.Scaler
	model   inference.Model
	policy  *heuristic.Policy
	store   repository.Store
	version string

	precision int
	defaultK  int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPrecision sets the decimal precision of reported probabilities.
func WithPrecision(p int) Option {
	return func(s *Service) {
		if p >= 0 {
			s.precision = p
		}
	}
}

// WithDefaultTopK sets the leaderboard window used when none is requested.
func WithDefaultTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.defaultK = k
		}
	}
}

// WithPolicy substitutes the habitability override policy.
func WithPolicy(p *heuristic.Policy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// New constructs a Service around a loaded artifact bundle.
func New(bundle *artifact.Bundle, opts ...Option) (*Service, error) {
	s := &Service{
		schema:    bundle.Schema,
		scaler:    bundle.Scaler,
		model:     bundle.Model,
		version:   bundle.Version,
		precision: defaultPrecision,
		defaultK:  defaultTopK,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.policy == nil {
		policy, err := heuristic.NewPolicy(bundle.Schema)
		if err != nil {
			return nil, err
		}
		s.policy = policy
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	return s, nil
}

// AddBody validates the payload and inserts a new body. An existing name
// fails with repository.ErrDuplicateName and leaves the store untouched.
func (s *Service) AddBody(ctx context.Context, name string, payload map[string]any) error {
	if name == "" {
		return ErrEmptyName
	}
	vec, err := s.schema.Validate(payload)
	if err != nil {
		return err
	}

	if err := s.store.Insert(ctx, repository.Body{Name: name, Features: vec}); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			metrics.RecordDuplicateName()
		}
		return err
	}

	metrics.RecordBodyAdded()
	metrics.UpdateBodiesTracked(s.store.Count(ctx))
	s.logger.Info(ctx, "body added", logger.String("name", name))
	return nil
}

// Predict runs one end-to-end scoring request: validate, scale, infer,
// apply the override on the raw features, classify, and optionally persist.
// Validation errors propagate verbatim so the transport layer can name the
// offending field. When persist is set and the name matches a stored body,
// the unrounded score is written and ranks recompute; unmatched names still
// return a result without writing.
func (s *Service) Predict(ctx context.Context, name string, payload map[string]any, persist bool) (types.ScoreResult, error) {
	start := time.Now()

	raw, err := s.schema.Validate(payload)
	if err != nil {
		return types.ScoreResult{}, err
	}
	scaled, err := s.scaler.Scale(raw)
	if err != nil {
		return types.ScoreResult{}, fmt.Errorf("scale features: %w", err)
	}
	score, err := s.model.Score(scaled)
	if err != nil {
		return types.ScoreResult{}, fmt.Errorf("model inference: %w", err)
	}

	adjusted, applied := s.policy.Apply(raw, score)
	adjusted = clamp01(adjusted)
	rounded := roundTo(adjusted, s.precision)
	habitable := rounded >= classifyAt

	if applied {
		metrics.RecordHeuristicOverride()
	}
	outcome := "not_habitable"
	if habitable {
		outcome = "habitable"
	}
	metrics.RecordPrediction(outcome, float64(time.Since(start).Microseconds())/1000)

	result := types.ScoreResult{
		Name:             name,
		Probability:      rounded,
		Habitable:        habitable,
		HeuristicApplied: applied,
	}

	if persist && name != "" {
		switch err := s.store.UpdateScore(ctx, name, adjusted, habitable); {
		case err == nil:
			result.Persisted = true
		case errors.Is(err, repository.ErrNotFound):
			// Unknown names score fine, they just don't persist.
		default:
			return types.ScoreResult{}, fmt.Errorf("persist score: %w", err)
		}
	}

	s.logger.Debug(ctx, "prediction served",
		logger.String("name", name),
		logger.Float64("probability", rounded),
		logger.Bool("habitable", habitable),
		logger.Bool("heuristic", applied),
		logger.Bool("persisted", result.Persisted),
	)
	return result, nil
}

// TopK returns the leaderboard window. A non-positive k selects the
// configured default.
func (s *Service) TopK(ctx context.Context, k int) ([]types.Entry, error) {
	if k < 1 {
		k = s.defaultK
	}
	entries, err := s.store.TopK(ctx, k)
	if err != nil {
		return nil, err
	}

	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = types.Entry{Rank: e.Rank, Name: e.Name, Score: e.Score}
	}
	return out, nil
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	n := s.store.Count(ctx)
	metrics.UpdateBodiesTracked(n)
	return map[string]any{
		"bodies":         n,
		"model":          s.model.Name(),
		"bundle_version": s.version,
		"precision":      s.precision,
	}
}

// Close releases the record store.
func (s *Service) Close() error {
	return s.store.Close()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
