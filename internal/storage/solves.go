package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeFormat is fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Solve status values.
const (
	StatusInProgress = "in_progress"
	StatusSolved     = "solved"
	StatusAbandoned  = "abandoned"
)

// Solve is one timed attempt, from the end of a scramble to solved.
type Solve struct {
	SolveID    string
	StartedAt  time.Time
	EndedAt    *time.Time
	DurationMs *int64
	MoveCount  int
	Scramble   string
	Status     string
	Source     string
}

// Duration returns the recorded duration, or zero while in progress.
func (s Solve) Duration() time.Duration {
	if s.DurationMs == nil {
		return 0
	}
	return time.Duration(*s.DurationMs) * time.Millisecond
}

// SolveRepository provides CRUD operations for solves.
type SolveRepository struct {
	db *DB
}

// NewSolveRepository creates a new solve repository.
func NewSolveRepository(db *DB) *SolveRepository {
	return &SolveRepository{db: db}
}

// Create starts a new solve and returns its ID.
func (r *SolveRepository) Create(scramble, source string, startedAt time.Time) (string, error) {
	id := uuid.New().String()
	if source == "" {
		source = "local"
	}

	_, err := r.db.Exec(`
		INSERT INTO solves (solve_id, started_at, scramble, status, source)
		VALUES (?, ?, ?, ?, ?)
	`, id, startedAt.UTC().Format(timeFormat), scramble, StatusInProgress, source)
	if err != nil {
		return "", fmt.Errorf("storage: cannot create solve: %w", err)
	}
	return id, nil
}

// Finish marks a solve as solved.
func (r *SolveRepository) Finish(solveID string, endedAt time.Time, duration time.Duration, moveCount int) error {
	return r.end(solveID, StatusSolved, endedAt, duration, moveCount)
}

// Abandon marks a solve as given up.
func (r *SolveRepository) Abandon(solveID string, endedAt time.Time, duration time.Duration, moveCount int) error {
	return r.end(solveID, StatusAbandoned, endedAt, duration, moveCount)
}

func (r *SolveRepository) end(solveID, status string, endedAt time.Time, duration time.Duration, moveCount int) error {
	res, err := r.db.Exec(`
		UPDATE solves
		SET ended_at = ?, duration_ms = ?, move_count = ?, status = ?
		WHERE solve_id = ? AND status = ?
	`, endedAt.UTC().Format(timeFormat), duration.Milliseconds(), moveCount, status, solveID, StatusInProgress)
	if err != nil {
		return fmt.Errorf("storage: cannot end solve: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: open solve %s", ErrNotFound, solveID)
	}
	return nil
}

const solveColumns = `solve_id, started_at, ended_at, duration_ms, move_count, scramble, status, source`

func scanSolve(row interface{ Scan(...any) error }) (*Solve, error) {
	var s Solve
	var startedAt string
	var endedAt, scramble sql.NullString
	if err := row.Scan(&s.SolveID, &startedAt, &endedAt, &s.DurationMs, &s.MoveCount, &scramble, &s.Status, &s.Source); err != nil {
		return nil, err
	}
	s.StartedAt, _ = time.Parse(timeFormat, startedAt)
	if endedAt.Valid {
		t, _ := time.Parse(timeFormat, endedAt.String)
		s.EndedAt = &t
	}
	s.Scramble = scramble.String
	return &s, nil
}

// Get retrieves a solve by ID.
func (r *SolveRepository) Get(solveID string) (*Solve, error) {
	s, err := scanSolve(r.db.QueryRow(`SELECT `+solveColumns+` FROM solves WHERE solve_id = ?`, solveID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: solve %s", ErrNotFound, solveID)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get solve: %w", err)
	}
	return s, nil
}

// FindByPrefix returns the solve whose ID starts with prefix. An ambiguous
// prefix is an error.
func (r *SolveRepository) FindByPrefix(prefix string) (*Solve, error) {
	rows, err := r.db.Query(`
		SELECT `+solveColumns+` FROM solves
		WHERE solve_id LIKE ? || '%'
		LIMIT 2
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot find solve: %w", err)
	}
	defer rows.Close()

	var found []*Solve
	for rows.Next() {
		s, err := scanSolve(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan solve: %w", err)
		}
		found = append(found, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: cannot find solve: %w", err)
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: solve %s", ErrNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("storage: solve prefix %q is ambiguous", prefix)
	}
}

// List returns the most recent solves, newest first.
func (r *SolveRepository) List(limit int) ([]Solve, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`
		SELECT `+solveColumns+` FROM solves
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list solves: %w", err)
	}
	defer rows.Close()

	var solves []Solve
	for rows.Next() {
		s, err := scanSolve(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan solve: %w", err)
		}
		solves = append(solves, *s)
	}
	return solves, rows.Err()
}

// Best returns the fastest solved attempt.
func (r *SolveRepository) Best() (*Solve, error) {
	s, err := scanSolve(r.db.QueryRow(`
		SELECT `+solveColumns+` FROM solves
		WHERE status = ? AND duration_ms IS NOT NULL
		ORDER BY duration_ms ASC, started_at ASC
		LIMIT 1
	`, StatusSolved))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no solved attempts", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get best solve: %w", err)
	}
	return s, nil
}

// Stats summarizes solved attempts.
type Stats struct {
	Solved    int
	Abandoned int
	AverageMs int64
	BestMs    int64
}

// Stats computes totals over all attempts.
func (r *SolveRepository) Stats() (Stats, error) {
	var st Stats
	var avg sql.NullFloat64
	var best sql.NullInt64
	err := r.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			AVG(CASE WHEN status = ? THEN duration_ms END),
			MIN(CASE WHEN status = ? THEN duration_ms END)
		FROM solves
	`, StatusSolved, StatusAbandoned, StatusSolved, StatusSolved).Scan(&st.Solved, &st.Abandoned, &avg, &best)
	if err != nil {
		return st, fmt.Errorf("storage: cannot compute stats: %w", err)
	}
	st.AverageMs = int64(avg.Float64)
	st.BestMs = best.Int64
	return st, nil
}

// DeleteAll removes every solve and, through cascades, its moves and splits.
func (r *SolveRepository) DeleteAll() error {
	if _, err := r.db.Exec(`DELETE FROM solves`); err != nil {
		return fmt.Errorf("storage: cannot delete solves: %w", err)
	}
	return nil
}
