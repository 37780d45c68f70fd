package organizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"sorter/internal/category"
	"sorter/internal/logging"
)

// walk lists dir and dispatches one unit per visible child. Category folders
// directly under the root are not descended into. Symlinks are handed to the
// relocator like files and never followed.
func (r *run) walk(ctx context.Context, dir string) {
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("scanning directory", logging.String("dir", dir))
	r.countDir()

	entries, err := os.ReadDir(dir)
	if err != nil {
		r.record(ctx, Outcome{Source: dir, Action: ActionFailed, Err: wrap("read directory", dir, err)})
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if entry.IsDir() {
			if dir == r.root && category.IsCategory(name) {
				continue
			}
			if !r.dispatch(ctx, func(ctx context.Context) { r.walk(ctx, path) }) {
				return
			}
			continue
		}
		if !r.dispatch(ctx, func(ctx context.Context) { r.record(ctx, r.relocate(ctx, path)) }) {
			return
		}
	}
}
