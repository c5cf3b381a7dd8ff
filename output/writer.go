package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/qainsights/qainsights/render"
)

// WriteError reports an unusable output destination. Unlike the per-file
// input errors, this one is fatal to the whole invocation.
type WriteError struct {
	Path   string
	Reason error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Reason)
}

func (e *WriteError) Unwrap() error {
	return e.Reason
}

// Writer persists rendered artifacts into a destination directory.
type Writer struct {
	logger zerolog.Logger
}

func NewWriter(logger zerolog.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write creates the destination directory (with parents) if absent and
// writes every artifact, overwriting existing files at the same paths.
// Overwriting is deliberate: the artifact set is a stable, predictable
// file layout, not a versioned archive. Returns the written paths.
func (w *Writer) Write(dir string, artifacts []render.Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &WriteError{Path: dir, Reason: err}
	}

	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := filepath.Join(dir, a.Name)
		if err := os.WriteFile(path, a.Content, 0o644); err != nil {
			return nil, &WriteError{Path: path, Reason: err}
		}
		w.logger.Debug().Str("path", path).Int("bytes", len(a.Content)).Msg("Wrote artifact")
		paths = append(paths, path)
	}
	return paths, nil
}
