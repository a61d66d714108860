package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/utafrali/shirtsearch/internal/domain"
)

// FileSource reads a catalog from a JSON or YAML file chosen by extension.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file the source reads.
func (s *FileSource) Path() string {
	return s.path
}

// Load reads and validates the file. The file is re-read on every call.
func (s *FileSource) Load(ctx context.Context) ([]domain.Shirt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := formatFromPath(s.path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", s.path, err)
	}

	return ValidateDocument(doc, s.path)
}

func formatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("catalog file %s: unsupported extension %q", path, filepath.Ext(path))
	}
}
