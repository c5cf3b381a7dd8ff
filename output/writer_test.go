package output

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/qainsights/qainsights/render"
)

func TestWriter_CreatesDirectoryAndWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	artifacts := []render.Artifact{
		{Name: "a.html", Content: []byte("<html/>")},
		{Name: "summary.json", Content: []byte("{}")},
	}

	paths, err := NewWriter(zerolog.Nop()).Write(dir, artifacts)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, p := range paths {
		require.FileExists(t, p)
	}
}

func TestWriter_OverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.html")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	_, err := NewWriter(zerolog.Nop()).Write(dir, []render.Artifact{
		{Name: "a.html", Content: []byte("new")},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new", string(data))
}

func TestWriter_UnwritableDestination(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}
	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0o555))
	t.Cleanup(func() { _ = os.Chmod(parent, 0o755) })

	_, err := NewWriter(zerolog.Nop()).Write(filepath.Join(parent, "out"), nil)
	var writeErr *WriteError
	require.Error(t, err)
	require.True(t, errors.As(err, &writeErr))
}
