package organizer

import (
	"context"
	"os"
	"path/filepath"

	"sorter/internal/category"
	"sorter/internal/logging"
)

// CleanResult lists what the cleaner removed from the root and what it could
// not remove.
type CleanResult struct {
	Removed  []string
	Failures []error
}

// clean removes every direct child of the root that is not a category
// folder. It must only run after every unit has finished.
func (r *run) clean(ctx context.Context) CleanResult {
	logger := logging.WithContext(ctx, r.logger)
	var result CleanResult

	entries, err := os.ReadDir(r.root)
	if err != nil {
		err = wrap("list root for cleanup", r.root, err)
		logging.ErrorWithContext(logger, "cleanup failed", "cleanup_failed", logging.Error(err))
		result.Failures = append(result.Failures, err)
		return result
	}

	for _, entry := range entries {
		name := entry.Name()
		if category.IsCategory(name) {
			continue
		}
		path := filepath.Join(r.root, name)
		var rmErr error
		if entry.IsDir() {
			rmErr = os.RemoveAll(path)
		} else {
			rmErr = os.Remove(path)
		}
		if rmErr != nil {
			rmErr = wrap("remove stray entry", path, rmErr)
			logging.ErrorWithContext(logger, "stray entry removal failed", "cleanup_failed",
				logging.String("path", path),
				logging.Error(rmErr),
			)
			result.Failures = append(result.Failures, rmErr)
			continue
		}
		logger.Info("removed stray entry", logging.String("path", path), logging.Bool("dir", entry.IsDir()))
		result.Removed = append(result.Removed, path)
	}
	return result
}
