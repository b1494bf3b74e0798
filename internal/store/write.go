package store

import (
	"context"
	"fmt"
)

// WriteRun records a run with its applications and discoveries in one
// transaction and returns the assigned seq.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, input_path, output_path, table_path, input_bytes, output_bytes, input_hash, output_hash, replaced, registered, remaining)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.InputPath,
		run.OutputPath,
		run.TablePath,
		run.InputBytes,
		run.OutputBytes,
		run.InputHash,
		run.OutputHash,
		run.Replaced,
		run.Registered,
		run.Remaining,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("write run: seq: %w", err)
	}

	for i, a := range run.Applications {
		repl := a.Replacement
		if repl == nil {
			repl = []byte{}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO applications (run_id, position, mapping_id, bad_sequence, replacement, count)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, i, a.MappingID, a.BadSequence, repl, a.Count)
		if err != nil {
			return 0, fmt.Errorf("write application %d: %w", a.MappingID, err)
		}
	}

	for i, d := range run.Discoveries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO discoveries (run_id, position, mapping_id, bad_sequence, byte_offset, is_new)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, i, d.MappingID, d.BadSequence, d.Offset, d.New)
		if err != nil {
			return 0, fmt.Errorf("write discovery %d: %w", d.MappingID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}
