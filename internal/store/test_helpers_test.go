package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with one application and one discovery.
func createTestRun(id string) Run {
	return Run{
		ID:          id,
		InputPath:   "in.txt",
		OutputPath:  "out.txt",
		TablePath:   "mappings.txt",
		InputBytes:  10,
		OutputBytes: 8,
		InputHash:   Digest([]byte("in")),
		OutputHash:  Digest([]byte("out")),
		Replaced:    2,
		Registered:  1,
		Remaining:   1,
		Applications: []Application{
			{MappingID: 1, BadSequence: `\xE2\x80\x99`, Replacement: []byte("'"), Count: 2},
		},
		Discoveries: []Discovery{
			{MappingID: 2, BadSequence: `\x80`, Offset: 5, New: true},
		},
	}
}
