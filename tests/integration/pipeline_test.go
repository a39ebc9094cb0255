// Package integration exercises streamsed end-to-end: loading a needle
// set, building an automaton, running a replace, and persisting the
// resulting report through the run store.
package integration

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamsed/streamsed"
	"github.com/streamsed/streamsed/pkg/report"
	"github.com/streamsed/streamsed/pkg/ruleset"
	"github.com/streamsed/streamsed/pkg/store"
	"github.com/streamsed/streamsed/pkg/types"
)

func TestBuiltinSetEndToEnd(t *testing.T) {
	loader := ruleset.NewLoader()
	set, err := loader.LoadBuiltinSet("redact-common")
	require.NoError(t, err)

	a, err := streamsed.Build(set.Needles)
	require.NoError(t, err)

	input := "user=alice password=hunter2 api_key=sk-123456"
	var out bytes.Buffer
	stats, err := a.ReplaceAll(context.Background(), bytes.NewBufferString(input), &out, 8)
	require.NoError(t, err)

	assert.NotContains(t, out.String(), "hunter2")
	assert.Contains(t, out.String(), "[REDACTED]")

	rs := types.NewRunStats(set.StructuralID())
	rs.InputBytes = stats.InputBytes
	rs.OutputBytes = stats.OutputBytes
	rs.ElideCount = stats.ElideCount
	for idx, count := range stats.NeedleHits {
		rs.NeedleHits[idx] = count
	}

	rpt := report.FromStats(rs)
	assert.Equal(t, stats.ElideCount+sumHits(stats), rpt.TotalCommits)

	s, err := store.New(store.Config{Path: ":memory:"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PutNeedleSet(set))
	require.NoError(t, s.PutRun(rs))

	gotSet, err := s.GetNeedleSet(set.Name)
	require.NoError(t, err)
	assert.Equal(t, set.Needles, gotSet.Needles)

	runs, err := s.GetRuns(set.StructuralID())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, stats.InputBytes, runs[0].InputBytes)
}

func sumHits(stats streamsed.Stats) int64 {
	var total int64
	for _, n := range stats.NeedleHits {
		total += n
	}
	return total
}

func TestReplaceAllIsInvariantToBufferSize(t *testing.T) {
	a, err := streamsed.Build([]streamsed.Needle{
		{Pattern: []byte("foo"), Action: streamsed.Replace([]byte("BAR"))},
		{Pattern: []byte("secret"), Action: streamsed.Elide()},
	})
	require.NoError(t, err)

	input := "foofoo this secret contains foobar and foosecret"

	var reference bytes.Buffer
	refStats, err := a.Clone().ReplaceAll(context.Background(), bytes.NewBufferString(input), &reference, len(input))
	require.NoError(t, err)

	for _, bufSize := range []int{1, 2, 3, 5, 7, 16, 64} {
		var out bytes.Buffer
		stats, err := a.Clone().ReplaceAll(context.Background(), bytes.NewBufferString(input), &out, bufSize)
		require.NoError(t, err)
		assert.Equal(t, reference.String(), out.String(), "buffer size %d produced a different stream", bufSize)
		assert.Equal(t, refStats.ElideCount, stats.ElideCount)
		assert.Equal(t, refStats.NeedleHits, stats.NeedleHits)
	}
}

func TestCancelledContextStopsReplaceAllEarly(t *testing.T) {
	a, err := streamsed.Build([]streamsed.Needle{
		{Pattern: []byte("x"), Action: streamsed.Replace([]byte("y"))},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err = a.ReplaceAll(ctx, bytes.NewBufferString("xxxxxxxxxx"), &out, 2)
	assert.Error(t, err)
}
