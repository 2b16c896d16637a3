package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/111110100/ph-election-smartmatic/internal/adapter"
	"github.com/111110100/ph-election-smartmatic/internal/logger"
)

// Sink writes report artifacts under a single output directory. CSV
// artifacts are comma separated with a header row and LF line endings;
// JSON artifacts are indented with four spaces and end with a newline.
// All writes go through the injected file system so tests can intercept
// them.
type Sink struct {
	fs  adapter.FileSystem
	dir string
}

// NewSink prepares the output directory and returns a sink bound to it.
func NewSink(fs adapter.FileSystem, dir string) (*Sink, error) {
	if err := fs.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
	}

	return &Sink{fs: fs, dir: dir}, nil
}

// WriteCSV writes the header and rows to the named artifact.
func (s *Sink) WriteCSV(name string, header []string, rows [][]string) error {
	f, err := s.fs.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create artifact %s: %w", name, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write artifact %s: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush artifact %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close artifact %s: %w", name, err)
	}

	logger.Debug("Artifact written",
		zap.String("artifact", name),
		zap.Int("rows", len(rows)))

	return nil
}

// WriteJSON renders v as indented JSON to the named artifact. Map keys
// come out sorted, which keeps reruns byte identical.
func (s *Sink) WriteJSON(name string, v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact %s: %w", name, err)
	}
	buf = append(buf, '\n')

	f, err := s.fs.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create artifact %s: %w", name, err)
	}
	if _, err := f.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close artifact %s: %w", name, err)
	}

	logger.Debug("Artifact written",
		zap.String("artifact", name),
		zap.Int("bytes", len(buf)))

	return nil
}
