package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/hierarchy"
)

// FileSource serves mappings stored as files in Dir. A request for "app.py"
// reads the first of app.py.hierarchy.{json,yaml,yml,toml} that exists, or
// the file itself when it already carries one of those extensions.
type FileSource struct {
	Dir string
}

// NewFileSource returns a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

var hierarchyExts = []string{".json", ".yaml", ".yml", ".toml"}

// Classes reads the mapping for file.
func (s *FileSource) Classes(ctx context.Context, file string) (*hierarchy.Mapping, error) {
	if err := apperrors.ValidateFileName(file); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, path := range s.candidates(file) {
		m, err := hierarchy.ReadMappingFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "reading %s", path)
		}
		return m, nil
	}
	return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, ErrNotFound, "no hierarchy for %s in %s", file, s.Dir)
}

func (s *FileSource) candidates(file string) []string {
	var out []string
	if _, err := hierarchy.FormatFromPath(file); err == nil {
		out = append(out, filepath.Join(s.Dir, file))
	}
	for _, ext := range hierarchyExts {
		out = append(out, filepath.Join(s.Dir, file+".hierarchy"+ext))
	}
	return out
}

// HierarchyPath is the file name `classview fetch` writes for file.
func HierarchyPath(dir, file string) string {
	return filepath.Join(dir, file+".hierarchy.json")
}

// WriteHierarchy stores m where a FileSource rooted at dir will find it.
func WriteHierarchy(dir, file string, m *hierarchy.Mapping) (string, error) {
	path := HierarchyPath(dir, file)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := hierarchy.WriteMapping(f, m, hierarchy.FormatJSON); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

var _ Source = (*FileSource)(nil)
