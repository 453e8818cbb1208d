package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jts/internal/config"
	"jts/internal/domain"
)

func newJSONStorage(t *testing.T) *JSONStorage {
	t.Helper()
	cfg := config.New()
	cfg.OutputJSONDir = filepath.Join(t.TempDir(), ".jts")
	return NewJSONStorage(cfg)
}

func TestJSONStorage_SaveTotalsDirectories(t *testing.T) {
	st := newJSONStorage(t)

	dirs := []domain.DirectoryReport{
		{Dir: "a", Total: 3, Passed: 2, NotPassed: 1},
		{Dir: "b", Total: 2, Passed: 2, Errored: 1, Interrupted: true},
		{Dir: "c", Error: "directory unavailable: c: no such file or directory"},
	}
	failures := []domain.TestFailure{
		{FilePath: "a/n_2.json", Dir: "a", Verdict: "unexpected_failure"},
		{FilePath: "b/y_9.json", Dir: "b", Verdict: "errored", Resolved: true},
	}
	meta := domain.TestResultsMeta{RunID: "run-1", Subject: "./json_test", Workers: 4, CrashPolicy: "failure"}

	require.NoError(t, st.Save(meta, dirs, failures, 1500*time.Millisecond))

	out, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "run-1", out.Meta.RunID)
	assert.Equal(t, 5, out.Meta.TotalCases)
	assert.Equal(t, 4, out.Meta.PassedCases)
	assert.Equal(t, 1, out.Meta.NotPassedCases)
	assert.Equal(t, 1, out.Meta.ErroredCases)
	assert.True(t, out.Meta.Interrupted)
	assert.Equal(t, 1.5, out.Meta.DurationSeconds)
	assert.Len(t, out.Directories, 3)
	assert.Equal(t, dirs[2].Error, out.Directories[2].Error)

	paths := FailedPaths(out)
	assert.Equal(t, map[string]struct{}{"a/n_2.json": {}}, paths)
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	_, err := newJSONStorage(t).Load()
	assert.Error(t, err)
}

func TestJSONStorage_SaveEmptyRunHasEmptyLists(t *testing.T) {
	st := newJSONStorage(t)
	require.NoError(t, st.Save(domain.TestResultsMeta{}, nil, nil, 0))

	out, err := st.Load()
	require.NoError(t, err)
	assert.NotNil(t, out.Directories)
	assert.NotNil(t, out.Details)
}
