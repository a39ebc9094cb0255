package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamsed/streamsed/pkg/store"
	"github.com/streamsed/streamsed/pkg/types"
)

// backends runs each test against every Store implementation so the
// contract stays identical across backends.
func backends(t *testing.T) map[string]store.Store {
	t.Helper()
	mem, err := store.New(store.Config{Path: ":memory:"})
	require.NoError(t, err)

	sqlitePath := filepath.Join(t.TempDir(), "runs.db")
	sqliteStore, err := store.New(store.Config{Path: sqlitePath})
	require.NoError(t, err)

	t.Cleanup(func() {
		mem.Close()
		sqliteStore.Close()
	})

	return map[string]store.Store{
		"memory": mem,
		"sqlite": sqliteStore,
	}
}

func exampleSet(name string) types.NeedleSet {
	return types.NeedleSet{
		Name: name,
		Needles: []types.Needle{
			{Pattern: []byte("he"), Action: types.Replace([]byte("HE"))},
			{Pattern: []byte("secret"), Action: types.Elide()},
		},
	}
}

func TestStorePutGetListDeleteNeedleSet(t *testing.T) {
	for name, s := range backends(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			set := exampleSet("mine")
			require.NoError(t, s.PutNeedleSet(set))

			got, err := s.GetNeedleSet("mine")
			require.NoError(t, err)
			assert.Equal(t, set.Needles, got.Needles)

			names, err := s.ListNeedleSets()
			require.NoError(t, err)
			assert.Contains(t, names, "mine")

			require.NoError(t, s.DeleteNeedleSet("mine"))
			_, err = s.GetNeedleSet("mine")
			assert.Error(t, err)
		})
	}
}

func TestStoreGetMissingNeedleSet(t *testing.T) {
	for name, s := range backends(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			_, err := s.GetNeedleSet("nope")
			assert.Error(t, err)
		})
	}
}

func TestStorePutGetRuns(t *testing.T) {
	for name, s := range backends(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			stats := types.NewRunStats("abc123")
			stats.InputBytes = 100
			stats.OutputBytes = 80
			stats.RecordCommit(0)
			stats.RecordCommit(0)
			stats.RecordElide()

			require.NoError(t, s.PutRun(stats))

			runs, err := s.GetRuns("abc123")
			require.NoError(t, err)
			require.Len(t, runs, 1)
			assert.EqualValues(t, 100, runs[0].InputBytes)
			assert.EqualValues(t, 2, runs[0].NeedleHits[0])
			assert.EqualValues(t, 1, runs[0].ElideCount)
		})
	}
}

func TestStorePutNeedleSetUpsert(t *testing.T) {
	for name, s := range backends(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.PutNeedleSet(exampleSet("x")))
			updated := types.NeedleSet{Name: "x", Needles: []types.Needle{
				{Pattern: []byte("only"), Action: types.Elide()},
			}}
			require.NoError(t, s.PutNeedleSet(updated))

			got, err := s.GetNeedleSet("x")
			require.NoError(t, err)
			require.Len(t, got.Needles, 1)
			assert.Equal(t, "only", string(got.Needles[0].Pattern))
		})
	}
}

func TestNewRequiresPath(t *testing.T) {
	_, err := store.New(store.Config{})
	assert.Error(t, err)
}
