package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/exorank/internal/domain/types"
	"github.com/okian/exorank/pkg/logger"
)

// Default seeder configuration.
const (
	defaultWorkers = 4
	defaultTimeout = 30 * time.Second
	defaultTopN    = 10
)

// Report summarizes a seeding run.
type Report struct {
	RunID       string
	Submitted   int
	Created     int
	Duplicates  int
	Failed      int
	Scored      int
	Habitable   int
	Leaderboard []types.Entry
	Duration    time.Duration
}

// Seeder drives a running service through its public API: create every
// catalog body, score it, then fetch the resulting leaderboard.
type Seeder struct {
	baseURL string
	client  *http.Client
	workers int
	topN    int
}

// SeederOption applies a configuration option to the Seeder.
type SeederOption func(*Seeder)

// WithWorkers bounds the number of concurrent requests.
func WithWorkers(n int) SeederOption {
	return func(s *Seeder) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) SeederOption {
	return func(s *Seeder) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithTopN sets the leaderboard window fetched at the end of the run.
func WithTopN(n int) SeederOption {
	return func(s *Seeder) {
		if n > 0 {
			s.topN = n
		}
	}
}

// NewSeeder creates a Seeder targeting baseURL.
func NewSeeder(baseURL string, opts ...SeederOption) *Seeder {
	s := &Seeder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		workers: defaultWorkers,
		topN:    defaultTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run seeds every catalog body and returns a run report. Individual
// request failures are counted, not fatal; only an unreachable service
// or a canceled context aborts the run.
func (s *Seeder) Run(ctx context.Context, bodies []Body) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	start := time.Now()

	log := logger.Get().Named("seeder")
	log.Info(ctx, "starting seeding run",
		logger.String("run_id", report.RunID),
		logger.String("base_url", s.baseURL),
		logger.Int("bodies", len(bodies)),
		logger.Int("workers", s.workers))

	if err := s.checkHealth(ctx); err != nil {
		return nil, err
	}

	var created, duplicates, failed, scored, habitable int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, body := range bodies {
		g.Go(func() error {
			switch status := s.postBody(gctx, "/bodies", body); status {
			case http.StatusCreated:
				atomic.AddInt64(&created, 1)
			case http.StatusConflict:
				atomic.AddInt64(&duplicates, 1)
			default:
				atomic.AddInt64(&failed, 1)
				log.Warn(gctx, "body submission failed",
					logger.String("name", body.Name),
					logger.Int("status", status))
				return nil
			}

			result, err := s.predict(gctx, body)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				log.Warn(gctx, "scoring failed",
					logger.String("name", body.Name),
					logger.Err(err))
				return nil
			}
			atomic.AddInt64(&scored, 1)
			if result.Habitable {
				atomic.AddInt64(&habitable, 1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("seeding aborted: %w", err)
	}

	report.Submitted = len(bodies)
	report.Created = int(created)
	report.Duplicates = int(duplicates)
	report.Failed = int(failed)
	report.Scored = int(scored)
	report.Habitable = int(habitable)

	entries, err := s.fetchRank(ctx)
	if err != nil {
		log.Warn(ctx, "leaderboard fetch failed", logger.Err(err))
	} else {
		report.Leaderboard = entries
	}

	report.Duration = time.Since(start)
	log.Info(ctx, "seeding run finished",
		logger.String("run_id", report.RunID),
		logger.Int("created", report.Created),
		logger.Int("duplicates", report.Duplicates),
		logger.Int("failed", report.Failed),
		logger.Int("scored", report.Scored),
		logger.Int("habitable", report.Habitable),
		logger.Duration("duration", report.Duration))
	return report, nil
}

// checkHealth verifies the service answers at its root before any
// catalog traffic is sent.
func (s *Seeder) checkHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// postBody posts a catalog entry as a flat JSON payload and returns
// the response status. Transport errors map to status 0.
func (s *Seeder) postBody(ctx context.Context, path string, body Body) int {
	payload := make(map[string]any, len(body.Features)+1)
	for k, v := range body.Features {
		payload[k] = v
	}
	payload["name"] = body.Name

	resp, err := s.post(ctx, path, payload)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

// predict scores a catalog entry through the persisting endpoint.
func (s *Seeder) predict(ctx context.Context, body Body) (types.ScoreResult, error) {
	payload := make(map[string]any, len(body.Features)+1)
	for k, v := range body.Features {
		payload[k] = v
	}
	payload["name"] = body.Name

	resp, err := s.post(ctx, "/predict", payload)
	if err != nil {
		return types.ScoreResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return types.ScoreResult{}, fmt.Errorf("predict returned status %d", resp.StatusCode)
	}

	var result types.ScoreResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return types.ScoreResult{}, fmt.Errorf("failed to decode prediction: %w", err)
	}
	return result, nil
}

// fetchRank retrieves the top-N leaderboard window.
func (s *Seeder) fetchRank(ctx context.Context) ([]types.Entry, error) {
	target := fmt.Sprintf("%s/rank?k=%d", s.baseURL, s.topN)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rank request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rank request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rank returned status %d", resp.StatusCode)
	}

	var entries []types.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	return entries, nil
}

func (s *Seeder) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
