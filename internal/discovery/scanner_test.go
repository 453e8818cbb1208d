package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jts/internal/domain"
)

func TestScanner_Enumerate(t *testing.T) {
	// Create a temporary corpus directory for testing
	tmpDir := t.TempDir()

	testFiles := []string{
		"y_array_empty.json",
		"n_array_extra_comma.json",
		"i_number_huge_exp.json",
		"n_object_trailing_comma.json",
	}
	for _, file := range testFiles {
		if err := os.WriteFile(filepath.Join(tmpDir, file), []byte("[]"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", file, err)
		}
	}
	// Nested directories are not part of the corpus
	if err := os.MkdirAll(filepath.Join(tmpDir, "nested"), 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "nested", "y_hidden.json"), []byte("[]"), 0644); err != nil {
		t.Fatalf("failed to create nested file: %v", err)
	}

	t.Run("enumerates files directly in the directory", func(t *testing.T) {
		cases, err := NewScanner(false).Enumerate(tmpDir)
		require.NoError(t, err)
		assert.Len(t, cases, 4)
	})

	t.Run("sorted enumeration is ordered by name", func(t *testing.T) {
		cases, err := NewScanner(true).Enumerate(tmpDir)
		require.NoError(t, err)

		var names []string
		for _, c := range cases {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{
			"i_number_huge_exp.json",
			"n_array_extra_comma.json",
			"n_object_trailing_comma.json",
			"y_array_empty.json",
		}, names)
		assert.Equal(t, filepath.Join(tmpDir, "y_array_empty.json"), cases[3].Path)
		assert.Equal(t, domain.MustAccept, cases[3].Expectation)
	})

	t.Run("counts by expectation", func(t *testing.T) {
		cases, err := NewScanner(true).Enumerate(tmpDir)
		require.NoError(t, err)
		counts := CountByExpectation(cases)
		assert.Equal(t, 1, counts[domain.MustAccept])
		assert.Equal(t, 2, counts[domain.MustReject])
		assert.Equal(t, 1, counts[domain.Either])
	})
}

func TestScanner_UnavailableIsDistinctFromEmpty(t *testing.T) {
	scanner := NewScanner(true)

	empty := t.TempDir()
	cases, err := scanner.Enumerate(empty)
	require.NoError(t, err)
	assert.Empty(t, cases)

	_, err = scanner.Enumerate(filepath.Join(empty, "missing"))
	require.Error(t, err)
	var unavailable *domain.DirectoryUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, filepath.Join(empty, "missing"), unavailable.Dir)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestScanner_FileInsteadOfDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "y_1.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))

	_, err := NewScanner(true).Enumerate(file)
	var unavailable *domain.DirectoryUnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestScanner_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(dir, 0o000))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	_, err := NewScanner(true).Enumerate(dir)
	var unavailable *domain.DirectoryUnavailableError
	assert.True(t, errors.As(err, &unavailable))
}
