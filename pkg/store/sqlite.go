package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/streamsed/streamsed/pkg/types"
)

// SQLiteStore implements Store using modernc.org/sqlite, a pure-Go
// driver with no CGO dependency, so this package needs no native/wasm
// build-tag split for persistence.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if necessary) a SQLite-backed store at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// PutNeedleSet registers or replaces a named needle set.
func (s *SQLiteStore) PutNeedleSet(set types.NeedleSet) error {
	needlesJSON, err := json.Marshal(set.Needles)
	if err != nil {
		return fmt.Errorf("marshaling needles: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO needle_sets (name, structural_id, needles_json) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET structural_id = excluded.structural_id, needles_json = excluded.needles_json
	`, set.Name, set.StructuralID(), string(needlesJSON))
	if err != nil {
		return fmt.Errorf("inserting needle set: %w", err)
	}
	return nil
}

// GetNeedleSet retrieves a needle set by name.
func (s *SQLiteStore) GetNeedleSet(name string) (types.NeedleSet, error) {
	var needlesJSON string
	err := s.db.QueryRow(`SELECT needles_json FROM needle_sets WHERE name = ?`, name).Scan(&needlesJSON)
	if err == sql.ErrNoRows {
		return types.NeedleSet{}, fmt.Errorf("streamsed: no needle set named %q", name)
	}
	if err != nil {
		return types.NeedleSet{}, fmt.Errorf("querying needle set: %w", err)
	}

	var needles []types.Needle
	if err := json.Unmarshal([]byte(needlesJSON), &needles); err != nil {
		return types.NeedleSet{}, fmt.Errorf("unmarshaling needles: %w", err)
	}
	return types.NeedleSet{Name: name, Needles: needles}, nil
}

// ListNeedleSets returns the names of all registered needle sets.
func (s *SQLiteStore) ListNeedleSets() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM needle_sets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying needle sets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning needle set name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteNeedleSet removes a named needle set.
func (s *SQLiteStore) DeleteNeedleSet(name string) error {
	_, err := s.db.Exec(`DELETE FROM needle_sets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting needle set: %w", err)
	}
	return nil
}

// PutRun records a completed run's statistics.
func (s *SQLiteStore) PutRun(stats *types.RunStats) error {
	hitsJSON, err := json.Marshal(stats.NeedleHits)
	if err != nil {
		return fmt.Errorf("marshaling needle hits: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO runs (needle_set_id, input_bytes, output_bytes, elide_count, needle_hits_json)
		VALUES (?, ?, ?, ?, ?)
	`, stats.NeedleSetID, stats.InputBytes, stats.OutputBytes, stats.ElideCount, string(hitsJSON))
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetRuns retrieves all run records for a given needle-set structural ID.
func (s *SQLiteStore) GetRuns(needleSetID string) ([]*types.RunStats, error) {
	rows, err := s.db.Query(`
		SELECT input_bytes, output_bytes, elide_count, needle_hits_json
		FROM runs WHERE needle_set_id = ?
	`, needleSetID)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*types.RunStats
	for rows.Next() {
		r := &types.RunStats{NeedleSetID: needleSetID}
		var hitsJSON string
		if err := rows.Scan(&r.InputBytes, &r.OutputBytes, &r.ElideCount, &hitsJSON); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if err := json.Unmarshal([]byte(hitsJSON), &r.NeedleHits); err != nil {
			return nil, fmt.Errorf("unmarshaling needle hits: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
