package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watchMapping calls onChange whenever a mapping file for file in dir is
// written, created or renamed into place. It watches the directory so
// editors that replace files on save are covered. It returns when ctx ends.
func watchMapping(ctx context.Context, dir, file string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger := loggerFromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !isMappingFor(filepath.Base(ev.Name), file) {
				continue
			}
			logger.Debug("mapping changed", "path", ev.Name, "op", ev.Op.String())
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// isMappingFor reports whether name is file itself or one of its
// <file>.hierarchy.* mapping files.
func isMappingFor(name, file string) bool {
	return name == file || strings.HasPrefix(name, file+".hierarchy.")
}
