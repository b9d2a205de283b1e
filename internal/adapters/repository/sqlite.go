package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/okian/exorank/pkg/metrics"
)

// identRe restricts feature column names to safe SQL identifiers. Feature
// names come from the artifact bundle, which is trusted, but a typo there
// must fail loudly at startup instead of producing broken DDL.
var identRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// SQLiteStore is a durable Store on a single SQLite database. Bodies live in
// one table with a column per schema feature plus nullable score,
// classification, and rank columns.
type SQLiteStore struct {
	db       *sql.DB
	features []string
	colList  string // cached comma-joined feature columns
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed creates) the database at path. The
// feature list fixes the table layout and must match the loaded schema order.
func NewSQLiteStore(path string, features []string, opts ...SQLiteOption) (*SQLiteStore, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("sqlite store needs at least one feature column")
	}
	for _, f := range features {
		if !identRe.MatchString(f) {
			return nil, fmt.Errorf("invalid feature column name %q", f)
		}
	}

	cfg := sqliteConfig{maxOpenConns: 1, busyTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single writer connection sidesteps SQLITE_BUSY on concurrent writes;
	// the rank recompute needs a consistent snapshot anyway.
	db.SetMaxOpenConns(cfg.maxOpenConns)
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout.Milliseconds())); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &SQLiteStore{
		db:       db,
		features: append([]string(nil), features...),
		colList:  strings.Join(features, ", "),
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	var cols strings.Builder
	for _, f := range s.features {
		fmt.Fprintf(&cols, "\t%s REAL NOT NULL,\n", f)
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS bodies (
	name TEXT PRIMARY KEY,
%s	score REAL,
	habitable INTEGER,
	"rank" INTEGER
)`, cols.String())
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create bodies table: %w", err)
	}
	return nil
}

// Insert adds a new body or fails with ErrDuplicateName. The primary key
// constraint guarantees no partial write.
func (s *SQLiteStore) Insert(ctx context.Context, body Body) error {
	if len(body.Features) != len(s.features) {
		return fmt.Errorf("body has %d features, table has %d", len(body.Features), len(s.features))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(s.features)+1), ", ")
	args := make([]any, 0, len(s.features)+1)
	args = append(args, body.Name)
	for _, v := range body.Features {
		args = append(args, v)
	}

	query := fmt.Sprintf("INSERT INTO bodies (name, %s) VALUES (%s)", s.colList, placeholders)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "constraint failed") {
			return ErrDuplicateName
		}
		return fmt.Errorf("insert body: %w", err)
	}
	return nil
}

// GetByName returns a body by its unique name.
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (Body, error) {
	query := fmt.Sprintf(`SELECT %s, score, habitable, "rank" FROM bodies WHERE name = ?`, s.colList)
	row := s.db.QueryRowContext(ctx, query, name)

	features := make([]float64, len(s.features))
	dest := make([]any, 0, len(s.features)+3)
	for i := range features {
		dest = append(dest, &features[i])
	}
	var (
		score     sql.NullFloat64
		habitable sql.NullBool
		rank      sql.NullInt64
	)
	dest = append(dest, &score, &habitable, &rank)

	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return Body{}, ErrNotFound
		}
		return Body{}, fmt.Errorf("select body: %w", err)
	}

	body := Body{Name: name, Features: features}
	if score.Valid {
		body.Score = &score.Float64
	}
	if habitable.Valid {
		body.Habitable = &habitable.Bool
	}
	if rank.Valid {
		r := int(rank.Int64)
		body.Rank = &r
	}
	return body, nil
}

// UpdateScore writes the score and classification, then recomputes the rank
// column over all scored rows. Both run in one transaction so concurrent
// writers cannot race the recompute into a stale order.
func (s *SQLiteStore) UpdateScore(ctx context.Context, name string, score float64, habitable bool) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE bodies SET score = ?, habitable = ? WHERE name = ?",
		score, habitable, name)
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	// Full O(n log n) re-sort over scored rows; population sizes in this
	// domain stay small enough for this to hold up.
	if _, err := tx.ExecContext(ctx, `UPDATE bodies SET "rank" = ranked.rn
FROM (
	SELECT name, ROW_NUMBER() OVER (ORDER BY score DESC, name ASC) AS rn
	FROM bodies WHERE score IS NOT NULL
) AS ranked
WHERE bodies.name = ranked.name`); err != nil {
		return fmt.Errorf("recompute ranks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

// TopK returns up to k scored bodies by score desc, name asc.
func (s *SQLiteStore) TopK(ctx context.Context, k int) ([]Entry, error) {
	if k < 1 {
		return nil, ErrInvalidLimit
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx,
		`SELECT "rank", name, score FROM bodies WHERE score IS NOT NULL ORDER BY score DESC, name ASC LIMIT ?`, k)
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]Entry, 0, k)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Rank, &e.Name, &e.Score); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

// Count returns the number of bodies tracked.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bodies").Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
