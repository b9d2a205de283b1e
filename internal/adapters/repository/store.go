// Package repository defines the record store interface and errors.
package repository

import "context"

// Body is a persisted celestial body: its raw features in schema order and,
// once scored, its habitability score and global rank.
type Body struct {
	Name      string
	Features  []float64
	Score     *float64
	Habitable *bool
	Rank      *int
}

// Entry represents a leaderboard row.
type Entry struct {
	Rank  int
	Name  string
	Score float64
}

// Store provides read/write access to persisted bodies and their ranking.
//
// Rank is table-global: every score write recomputes the rank column over
// all scored bodies inside the same transaction, so rank always reflects a
// strict descending order of score with ascending name as the tie-break.
type Store interface {
	// Insert adds a new body. Returns ErrDuplicateName if the name exists;
	// no partial write occurs.
	Insert(ctx context.Context, body Body) error

	// GetByName returns a body by its unique name.
	// Returns ErrNotFound if the name is unknown.
	GetByName(ctx context.Context, name string) (Body, error)

	// UpdateScore sets the score and classification for an existing body and
	// recomputes all ranks. Returns ErrNotFound if the name is unknown.
	UpdateScore(ctx context.Context, name string, score float64, habitable bool) error

	// TopK returns up to k scored bodies ordered by score desc, name asc.
	TopK(ctx context.Context, k int) ([]Entry, error)

	// Count returns the number of bodies tracked, scored or not.
	Count(ctx context.Context) int

	// Close releases the underlying storage.
	Close() error
}
