package storage

import (
	"database/sql"
	"fmt"
)

// Move is one recorded turn of a solve.
type Move struct {
	SolveID  string
	Seq      int
	Notation string
	TsMs     int64 // milliseconds since the solve started
}

// MoveRepository stores the turns of each solve.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

// Create stores one move.
func (r *MoveRepository) Create(m Move) error {
	_, err := r.db.Exec(`
		INSERT INTO moves (solve_id, seq, notation, ts_ms)
		VALUES (?, ?, ?, ?)
	`, m.SolveID, m.Seq, m.Notation, m.TsMs)
	if err != nil {
		return fmt.Errorf("storage: cannot create move: %w", err)
	}
	return nil
}

// CreateBatch stores many moves in one transaction.
func (r *MoveRepository) CreateBatch(moves []Move) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO moves (solve_id, seq, notation, ts_ms) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("storage: cannot prepare move insert: %w", err)
		}
		defer stmt.Close()

		for _, m := range moves {
			if _, err := stmt.Exec(m.SolveID, m.Seq, m.Notation, m.TsMs); err != nil {
				return fmt.Errorf("storage: cannot create move %d: %w", m.Seq, err)
			}
		}
		return nil
	})
}

// GetBySolve returns the moves of a solve in order.
func (r *MoveRepository) GetBySolve(solveID string) ([]Move, error) {
	rows, err := r.db.Query(`
		SELECT solve_id, seq, notation, ts_ms
		FROM moves
		WHERE solve_id = ?
		ORDER BY seq
	`, solveID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get moves: %w", err)
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var m Move
		if err := rows.Scan(&m.SolveID, &m.Seq, &m.Notation, &m.TsMs); err != nil {
			return nil, fmt.Errorf("storage: cannot scan move: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}
