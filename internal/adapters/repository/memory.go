package repository

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs tests and
// ephemeral runs where durability is not needed.
type MemoryStore struct {
	mu     sync.RWMutex
	bodies map[string]*Body
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bodies: make(map[string]*Body),
	}
}

// Insert adds a new body or fails with ErrDuplicateName.
func (s *MemoryStore) Insert(_ context.Context, body Body) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bodies[body.Name]; ok {
		return ErrDuplicateName
	}
	features := make([]float64, len(body.Features))
	copy(features, body.Features)
	s.bodies[body.Name] = &Body{Name: body.Name, Features: features}
	return nil
}

// GetByName returns a copy of the stored body.
func (s *MemoryStore) GetByName(_ context.Context, name string) (Body, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bodies[name]
	if !ok {
		return Body{}, ErrNotFound
	}
	return copyBody(b), nil
}

// UpdateScore stores a new score and recomputes every rank under one lock,
// so concurrent writers cannot observe a stale ordering.
func (s *MemoryStore) UpdateScore(_ context.Context, name string, score float64, habitable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bodies[name]
	if !ok {
		return ErrNotFound
	}
	b.Score = &score
	b.Habitable = &habitable
	s.recomputeRanksLocked()
	return nil
}

// TopK returns up to k scored bodies by score desc, name asc.
func (s *MemoryStore) TopK(_ context.Context, k int) ([]Entry, error) {
	if k < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := s.scoredLocked()
	if k > len(scored) {
		k = len(scored)
	}
	entries := make([]Entry, 0, k)
	for _, b := range scored[:k] {
		entries = append(entries, Entry{Rank: *b.Rank, Name: b.Name, Score: *b.Score})
	}
	return entries, nil
}

// Count returns the number of bodies tracked.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bodies)
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// scoredLocked returns scored bodies in rank order. Callers must hold mu.
func (s *MemoryStore) scoredLocked() []*Body {
	scored := make([]*Body, 0, len(s.bodies))
	for _, b := range s.bodies {
		if b.Score != nil {
			scored = append(scored, b)
		}
	}
	sort.Slice(scored, func(a, b int) bool {
		if *scored[a].Score != *scored[b].Score {
			return *scored[a].Score > *scored[b].Score
		}
		return scored[a].Name < scored[b].Name
	})
	return scored
}

// recomputeRanksLocked reassigns dense 1-based ranks over all scored bodies.
func (s *MemoryStore) recomputeRanksLocked() {
	for i, b := range s.scoredLocked() {
		rank := i + 1
		b.Rank = &rank
	}
}

func copyBody(b *Body) Body {
	out := Body{Name: b.Name, Features: make([]float64, len(b.Features))}
	copy(out.Features, b.Features)
	if b.Score != nil {
		v := *b.Score
		out.Score = &v
	}
	if b.Habitable != nil {
		v := *b.Habitable
		out.Habitable = &v
	}
	if b.Rank != nil {
		v := *b.Rank
		out.Rank = &v
	}
	return out
}
