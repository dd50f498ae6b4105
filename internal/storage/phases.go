package storage

import "fmt"

// PhaseSplit records when a solve first reached a phase.
type PhaseSplit struct {
	SolveID   string
	Phase     string
	ReachedMs int64
	MoveIndex int
}

// PhaseRepository stores phase splits.
type PhaseRepository struct {
	db *DB
}

// NewPhaseRepository creates a new phase repository.
func NewPhaseRepository(db *DB) *PhaseRepository {
	return &PhaseRepository{db: db}
}

// Create stores a split. A phase is only recorded the first time it is
// reached.
func (r *PhaseRepository) Create(p PhaseSplit) error {
	_, err := r.db.Exec(`
		INSERT OR IGNORE INTO phase_splits (solve_id, phase, reached_ms, move_index)
		VALUES (?, ?, ?, ?)
	`, p.SolveID, p.Phase, p.ReachedMs, p.MoveIndex)
	if err != nil {
		return fmt.Errorf("storage: cannot create phase split: %w", err)
	}
	return nil
}

// GetBySolve returns the splits of a solve in the order they were reached.
func (r *PhaseRepository) GetBySolve(solveID string) ([]PhaseSplit, error) {
	rows, err := r.db.Query(`
		SELECT solve_id, phase, reached_ms, move_index
		FROM phase_splits
		WHERE solve_id = ?
		ORDER BY reached_ms, move_index
	`, solveID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get phase splits: %w", err)
	}
	defer rows.Close()

	var splits []PhaseSplit
	for rows.Next() {
		var p PhaseSplit
		if err := rows.Scan(&p.SolveID, &p.Phase, &p.ReachedMs, &p.MoveIndex); err != nil {
			return nil, fmt.Errorf("storage: cannot scan phase split: %w", err)
		}
		splits = append(splits, p)
	}
	return splits, rows.Err()
}
