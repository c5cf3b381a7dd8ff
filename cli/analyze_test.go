package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("<testsuite/>"), 0o644))
	return path
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	reports := filepath.Join(dir, "reports")
	require.NoError(t, os.MkdirAll(filepath.Join(reports, "nested"), 0o755))

	// Created out of name order on purpose: expansion must sort
	touch(t, filepath.Join(reports, "zz.xml"))
	touch(t, filepath.Join(reports, "aa.xml"))
	touch(t, filepath.Join(reports, "notes.txt"))
	single := touch(t, filepath.Join(dir, "single.xml"))

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "single file passed through",
			args: []string{single},
			want: []string{single},
		},
		{
			name: "directory expands to sorted xml entries",
			args: []string{reports},
			want: []string{
				filepath.Join(reports, "aa.xml"),
				filepath.Join(reports, "zz.xml"),
			},
		},
		{
			name: "file and directory keep argument order",
			args: []string{single, reports},
			want: []string{
				single,
				filepath.Join(reports, "aa.xml"),
				filepath.Join(reports, "zz.xml"),
			},
		},
		{
			name: "missing file kept for per-file error reporting",
			args: []string{filepath.Join(dir, "missing.xml")},
			want: []string{filepath.Join(dir, "missing.xml")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandInputs(zerolog.Nop(), tt.args)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
