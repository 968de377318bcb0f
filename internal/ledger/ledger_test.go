// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/xapkbatch/internal/batch"
	"github.com/pdiddy/xapkbatch/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(types.LedgerConfig{
		Path: filepath.Join(t.TempDir(), "history.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(types.LedgerConfig{})
	require.Error(t, err)
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "xapkbatch", "history.db")
	store, err := Open(types.LedgerConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestRecordAndQueryRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	runID, err := store.BeginRun(ctx, "/apps")
	require.NoError(t, err)

	outcomes := []types.Outcome{
		{Dir: "/apps/A", Status: types.OutcomeConverted, ExitCode: 0},
		{Dir: "/apps/B/C", Status: types.OutcomeSkipped},
		{Dir: "/apps/D", Status: types.OutcomeFailed, ExitCode: 1},
	}
	require.NoError(t, store.RecordOutcomes(ctx, runID, outcomes))
	require.NoError(t, store.FinishRun(ctx, runID, batch.Summarize(outcomes)))

	runs, err := store.RecentRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, "/apps", run.Root)
	assert.Equal(t, 1, run.Converted)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, 1, run.Failed)
	assert.False(t, run.StartedAt.IsZero())
	assert.False(t, run.FinishedAt.IsZero())

	got, err := store.Outcomes(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, outcomes, got)
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.BeginRun(ctx, "/one")
	require.NoError(t, err)
	second, err := store.BeginRun(ctx, "/two")
	require.NoError(t, err)

	runs, err := store.RecentRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
}

func TestRecentRunsHonorsLimit(t *testing.T) {
	store, err := Open(types.LedgerConfig{
		Path:    filepath.Join(t.TempDir(), "history.db"),
		MaxRuns: 2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	for _, root := range []string{"/a", "/b", "/c"} {
		_, err := store.BeginRun(ctx, root)
		require.NoError(t, err)
	}

	runs, err := store.RecentRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.Equal(t, "/c", runs[0].Root)
}

func TestOutcomesUnknownRunIsEmpty(t *testing.T) {
	store := openTestStore(t)

	outcomes, err := store.Outcomes(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}
