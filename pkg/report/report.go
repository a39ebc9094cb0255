// Package report renders a completed run's statistics as a versioned
// JSON document, using a "versioned schema struct with a ToJSON
// method" shape, simplified since a byte-replacement run has no
// findings or locations to report, only counts.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/streamsed/streamsed/pkg/types"
)

// SchemaVersion is the current report schema version.
const SchemaVersion = 1

// Report is the top-level document produced from a RunStats.
type Report struct {
	Schema       int              `json:"schema"`
	NeedleSetID  string           `json:"needle_set_id"`
	InputBytes   int64            `json:"input_bytes"`
	OutputBytes  int64            `json:"output_bytes"`
	ElideCount   int64            `json:"elide_count"`
	NeedleHits   map[string]int64 `json:"needle_hits"` // keyed by needle index, as a string for JSON object compatibility
	TotalCommits int64            `json:"total_commits"`
}

// FromStats builds a Report from accumulated run statistics.
func FromStats(stats *types.RunStats) Report {
	hits := make(map[string]int64, len(stats.NeedleHits))
	for idx, count := range stats.NeedleHits {
		hits[fmt.Sprintf("%d", idx)] = count
	}
	return Report{
		Schema:       SchemaVersion,
		NeedleSetID:  stats.NeedleSetID,
		InputBytes:   stats.InputBytes,
		OutputBytes:  stats.OutputBytes,
		ElideCount:   stats.ElideCount,
		NeedleHits:   hits,
		TotalCommits: stats.TotalCommits(),
	}
}

// ToJSON serializes the report with indentation, matching the
// teacher's sarif.Report.ToJSON formatting convention.
func (r Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
