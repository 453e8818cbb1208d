package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jts/internal/cli"
	"jts/internal/config"
	"jts/internal/domain"
)

const exitFromContent = `#!/bin/sh
exit "$(cat "$1")"
`

type workspace struct {
	root    string
	subject string
	corpus  string
	dumps   string
}

// newWorkspace changes into a fresh directory holding a subject script and a
// corpus with one unexpected failure.
func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script subjects need a POSIX shell")
	}
	for _, key := range []string{"JTS_SUBJECT", "JTS_DIRS", "JTS_DUMP_DIR", "JTS_CRASH_POLICY", "JTS_HISTORY_DSN", "JTS_TIMEOUT", "JTS_PROCESSORS"} {
		t.Setenv(key, "")
	}

	root := t.TempDir()
	t.Chdir(root)

	w := &workspace{
		root:    root,
		subject: filepath.Join(root, "subject.sh"),
		corpus:  filepath.Join(root, "corpus"),
		dumps:   filepath.Join(root, "dumps"),
	}
	require.NoError(t, os.WriteFile(w.subject, []byte(exitFromContent), 0755))
	require.NoError(t, os.Mkdir(w.corpus, 0755))
	for name, code := range map[string]string{
		"y_ok.json":    "0",
		"n_bad.json":   "0",
		"n_good.json":  "1",
		"i_maybe.json": "1",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(w.corpus, name), []byte(code), 0644))
	}
	return w
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	_, err := executeWith(t, args...)
	return err
}

// executeWith also returns the configuration the command resolved.
func executeWith(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	cfg := config.New()
	root := &cobra.Command{Use: "jts", SilenceErrors: true, SilenceUsage: true}
	var flags cli.Flags
	NewCommands(cfg).Register(root, &flags)
	root.SetArgs(args)
	return cfg, root.ExecuteContext(context.Background())
}

func (w *workspace) report(t *testing.T) domain.TestResultsOutput {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(w.root, config.DefaultOutputJSONDir, config.DefaultOutputJSONFile))
	require.NoError(t, err)
	var out domain.TestResultsOutput
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestRun_WritesDumpAndReport(t *testing.T) {
	w := newWorkspace(t)

	err := execute(t, "run", "--subject", w.subject, "--dump-dir", w.dumps, w.corpus)
	require.NoError(t, err)

	out := w.report(t)
	assert.Equal(t, 3, out.Meta.TotalCases)
	assert.Equal(t, 2, out.Meta.PassedCases)
	assert.Equal(t, 1, out.Meta.NotPassedCases)
	assert.NotEmpty(t, out.Meta.RunID)
	require.Len(t, out.Directories, 1)
	require.Len(t, out.Details, 1)
	assert.Equal(t, filepath.Join(w.corpus, "n_bad.json"), out.Details[0].FilePath)

	dump, err := os.ReadFile(out.Directories[0].DumpFile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.corpus, "n_bad.json"), string(dump))
	assert.True(t, strings.HasPrefix(filepath.Base(out.Directories[0].DumpFile), "dump"))
}

func TestRun_BareRootRuns(t *testing.T) {
	w := newWorkspace(t)

	require.NoError(t, execute(t, "--subject", w.subject, "--dump-dir", w.dumps, w.corpus))
	assert.Equal(t, 3, w.report(t).Meta.TotalCases)
}

func TestRun_StrictExitsNonZero(t *testing.T) {
	w := newWorkspace(t)

	err := execute(t, "run", "--strict", "--subject", w.subject, "--dump-dir", w.dumps, w.corpus)
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
}

func TestRun_UnavailableDirectoryExitsNonZero(t *testing.T) {
	w := newWorkspace(t)

	err := execute(t, "run", "--subject", w.subject, "--dump-dir", w.dumps, filepath.Join(w.root, "missing"), w.corpus)
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)

	out := w.report(t)
	require.Len(t, out.Directories, 2)
	assert.NotEmpty(t, out.Directories[0].Error)
	assert.Equal(t, 3, out.Directories[1].Total)
}

func TestRun_MissingSubject(t *testing.T) {
	w := newWorkspace(t)

	err := execute(t, "run", "--subject", filepath.Join(w.root, "nope"), w.corpus)
	assert.ErrorIs(t, err, domain.ErrSubjectNotFound)
}

func TestRun_FailedRerunsOnlyLastFailures(t *testing.T) {
	w := newWorkspace(t)

	require.NoError(t, execute(t, "run", "--subject", w.subject, "--dump-dir", w.dumps, w.corpus))
	require.NoError(t, execute(t, "run", "--failed", "--subject", w.subject, "--dump-dir", w.dumps, w.corpus))

	out := w.report(t)
	assert.Equal(t, 1, out.Meta.TotalCases)
	assert.Equal(t, 1, out.Meta.NotPassedCases)
}

func TestRun_RecordsHistory(t *testing.T) {
	w := newWorkspace(t)
	dsn := "sqlite://" + filepath.Join(w.root, "history.db")

	require.NoError(t, execute(t, "run", "--history-dsn", dsn, "--subject", w.subject, "--dump-dir", w.dumps, w.corpus))
	require.NoError(t, execute(t, "history", "--history-dsn", dsn, "--limit", "5"))
}

func TestHistory_RequiresDSN(t *testing.T) {
	newWorkspace(t)
	assert.Error(t, execute(t, "history"))
}

func TestList(t *testing.T) {
	w := newWorkspace(t)

	require.NoError(t, execute(t, "list", w.corpus))

	err := execute(t, "list", filepath.Join(w.root, "missing"))
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
}

func TestConfigFileIsLoaded(t *testing.T) {
	w := newWorkspace(t)
	cfg := "subject: " + w.subject + "\ndump_dir: " + w.dumps + "\ndirs:\n  - " + w.corpus + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(w.root, config.DefaultConfigFile), []byte(cfg), 0644))

	require.NoError(t, execute(t, "run"))
	assert.Equal(t, 3, w.report(t).Meta.TotalCases)
}

func TestRun_TimeoutFlag(t *testing.T) {
	w := newWorkspace(t)

	cfg, err := executeWith(t, "run", "--timeout", "0", "--subject", w.subject, "--dump-dir", w.dumps, w.corpus)
	require.NoError(t, err)
	assert.Zero(t, cfg.Timeout)

	cfg, err = executeWith(t, "run", "--subject", w.subject, "--dump-dir", w.dumps, w.corpus)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTimeout, cfg.Timeout)

	cfg, err = executeWith(t, "run", "--timeout", "3s", "--subject", w.subject, "--dump-dir", w.dumps, w.corpus)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestHistory_LimitFlag(t *testing.T) {
	w := newWorkspace(t)
	dsn := "sqlite://" + filepath.Join(w.root, "history.db")
	for i := 0; i < 3; i++ {
		require.NoError(t, execute(t, "run", "--history-dsn", dsn, "--subject", w.subject, "--dump-dir", w.dumps, w.corpus))
	}

	listed := func(args ...string) []string {
		t.Helper()
		var out bytes.Buffer
		root := &cobra.Command{Use: "jts", SilenceErrors: true, SilenceUsage: true}
		var flags cli.Flags
		cmds := NewCommands(config.New())
		cmds.History.out = &out
		cmds.Register(root, &flags)
		root.SetArgs(append([]string{"history", "--history-dsn", dsn}, args...))
		require.NoError(t, root.ExecuteContext(context.Background()))
		return strings.Split(strings.TrimSpace(out.String()), "\n")
	}

	lines := listed("--limit", "2")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "NOT PASSED")
	assert.Contains(t, lines[1], w.corpus)

	assert.Len(t, listed("-n", "1"), 2)
	assert.Len(t, listed(), 4)
}
