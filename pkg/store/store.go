// Package store persists named needle sets and run records across
// process invocations. It is entirely optional: the core engine
// (pkg/automaton, pkg/matcher, pkg/stream) has no dependency on it, and
// callers that only need in-process replacement never touch this
// package.
package store

import (
	"fmt"

	"github.com/streamsed/streamsed/pkg/types"
)

// Store abstracts the underlying persistence backend (SQLite, in-memory)
// for named needle sets and run records.
type Store interface {
	// PutNeedleSet registers or replaces a named needle set.
	PutNeedleSet(set types.NeedleSet) error

	// GetNeedleSet retrieves a needle set by name.
	GetNeedleSet(name string) (types.NeedleSet, error)

	// ListNeedleSets returns the names of all registered needle sets.
	ListNeedleSets() ([]string, error)

	// DeleteNeedleSet removes a named needle set.
	DeleteNeedleSet(name string) error

	// PutRun records a completed run's statistics.
	PutRun(stats *types.RunStats) error

	// GetRuns retrieves all run records for a given needle-set structural ID.
	GetRuns(needleSetID string) ([]*types.RunStats, error)

	// Close closes the underlying connection.
	Close() error
}

// Config configures store construction.
type Config struct {
	// Path is the database file path. ":memory:" selects the in-memory
	// backend (no SQL engine involved at all).
	Path string
}

// New creates a Store. File paths are backed by SQLite; ":memory:" uses
// an in-memory map-backed implementation. modernc.org/sqlite needs no
// CGO, so one SQLite implementation covers every build target without
// a native/wasm fork.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("streamsed: store path is required")
	}
	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}
