// Package store persists finished episode results in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"wumpus/internal/sim"
)

// EpisodeStore is an append-mostly log of episode results.
type EpisodeStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewEpisodeStore initializes the SQLite database at the given path.
func NewEpisodeStore(path string) (*EpisodeStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &EpisodeStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *EpisodeStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS episodes (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		score INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		gold_claimed INTEGER NOT NULL,
		wumpus_alive INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_episodes_outcome ON episodes(outcome);
	CREATE INDEX IF NOT EXISTS idx_episodes_created ON episodes(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create episodes table: %w", err)
	}
	return nil
}

// Record appends one episode result.
func (s *EpisodeStore) Record(r sim.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO episodes (id, seed, outcome, score, steps, gold_claimed, wumpus_alive, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.EpisodeID, r.Seed, string(r.Outcome), r.Score, r.Steps,
		boolToInt(r.GoldClaimed), boolToInt(r.WumpusAlive), r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record episode %s: %w", r.EpisodeID, err)
	}
	return nil
}

// Recent returns up to limit episodes, newest first.
func (s *EpisodeStore) Recent(limit int) ([]sim.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, seed, outcome, score, steps, gold_claimed, wumpus_alive, duration_ms
		 FROM episodes ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query episodes: %w", err)
	}
	defer rows.Close()

	var results []sim.Result
	for rows.Next() {
		var r sim.Result
		var outcome string
		var gold, wumpus int
		var durationMS int64
		if err := rows.Scan(&r.EpisodeID, &r.Seed, &outcome, &r.Score, &r.Steps,
			&gold, &wumpus, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan episode row: %w", err)
		}
		r.Outcome = sim.Outcome(outcome)
		r.GoldClaimed = gold != 0
		r.WumpusAlive = wumpus != 0
		r.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}

// Summary aggregates outcomes over the whole log.
type Summary struct {
	Episodes  int
	Escaped   int
	Died      int
	Stalled   int
	MeanScore float64
}

// Summarize computes aggregate stats across all recorded episodes.
func (s *EpisodeStore) Summarize() (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum Summary
	row := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(outcome = 'escaped'), 0),
		        COALESCE(SUM(outcome = 'died'), 0),
		        COALESCE(SUM(outcome = 'stalled'), 0),
		        COALESCE(AVG(score), 0)
		 FROM episodes`)
	if err := row.Scan(&sum.Episodes, &sum.Escaped, &sum.Died, &sum.Stalled, &sum.MeanScore); err != nil {
		return Summary{}, fmt.Errorf("failed to summarize episodes: %w", err)
	}
	return sum, nil
}

// Close releases the underlying database handle.
func (s *EpisodeStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
