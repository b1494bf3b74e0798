package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by ReadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// ListRuns returns up to limit runs, newest first, without their child
// records. A limit <= 0 returns every run.
//
// Returns an empty slice (not nil) if there are no runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT seq, id, input_path, output_path, table_path, input_bytes, output_bytes, input_hash, output_hash, replaced, registered, remaining
		FROM runs
		ORDER BY seq DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns one run with its applications and discoveries.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, input_path, output_path, table_path, input_bytes, output_bytes, input_hash, output_hash, replaced, registered, remaining
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	if run.Applications, err = s.readApplications(ctx, id); err != nil {
		return Run{}, err
	}
	if run.Discoveries, err = s.readDiscoveries(ctx, id); err != nil {
		return Run{}, err
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	err := row.Scan(&r.Seq, &r.ID, &r.InputPath, &r.OutputPath, &r.TablePath,
		&r.InputBytes, &r.OutputBytes, &r.InputHash, &r.OutputHash, &r.Replaced, &r.Registered, &r.Remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}

func (s *Store) readApplications(ctx context.Context, runID string) ([]Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mapping_id, bad_sequence, replacement, count
		FROM applications
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.MappingID, &a.BadSequence, &a.Replacement, &a.Count); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return out, nil
}

func (s *Store) readDiscoveries(ctx context.Context, runID string) ([]Discovery, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mapping_id, bad_sequence, byte_offset, is_new
		FROM discoveries
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query discoveries: %w", err)
	}
	defer rows.Close()

	var out []Discovery
	for rows.Next() {
		var d Discovery
		if err := rows.Scan(&d.MappingID, &d.BadSequence, &d.Offset, &d.New); err != nil {
			return nil, fmt.Errorf("scan discovery: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discoveries: %w", err)
	}
	return out, nil
}
