package organizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"sorter/internal/archive"
	"sorter/internal/category"
	"sorter/internal/fileutil"
	"sorter/internal/logging"
	"sorter/internal/textutil"
)

// relocate classifies src, normalizes its name and moves it into its
// category folder under the root. Archives are extracted instead.
func (r *run) relocate(ctx context.Context, src string) Outcome {
	base := filepath.Base(src)
	suffix := filepath.Ext(base)
	stem := strings.TrimSuffix(base, suffix)

	cat := category.Classify(suffix)
	if cat != category.Other {
		stem = textutil.NormalizeStem(stem)
	}
	out := Outcome{Source: src, Category: cat}

	catDir := filepath.Join(r.root, cat)
	if err := os.MkdirAll(catDir, 0o755); err != nil {
		return failed(out, wrap("create category directory", catDir, err))
	}
	if cat == category.Archives {
		return r.extractArchive(ctx, out, catDir, stem, suffix)
	}

	dest, err := claimFile(catDir, stem, suffix)
	if err != nil {
		return failed(out, wrap("claim destination", src, err))
	}
	return r.move(ctx, out, dest)
}

// move renames out.Source onto the placeholder claimed at dest. The
// placeholder is removed again when the move fails.
func (r *run) move(ctx context.Context, out Outcome, dest string) Outcome {
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("moving file",
		logging.String("source", out.Source),
		logging.String("destination", dest),
		logging.String("category", out.Category),
	)
	if err := fileutil.MoveFile(out.Source, dest); err != nil {
		if rmErr := os.Remove(dest); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Debug("placeholder cleanup failed", logging.String("path", dest), logging.Error(rmErr))
		}
		return failed(out, wrap("move file", out.Source, err))
	}
	out.Destination = dest
	if out.Action == "" {
		out.Action = ActionMoved
	}
	return out
}

// extractArchive unpacks out.Source into a freshly claimed directory under
// catDir and deletes the archive. Anything that cannot be extracted is moved
// to the other folder under its original name.
func (r *run) extractArchive(ctx context.Context, out Outcome, catDir, stem, suffix string) Outcome {
	logger := logging.WithContext(ctx, r.logger)
	dest, err := claimArchiveDir(catDir, stem, suffix)
	if err != nil {
		return failed(out, wrap("claim extraction directory", out.Source, err))
	}

	format, extractErr := archive.Extract(ctx, out.Source, dest)
	if extractErr == nil {
		if err := os.Remove(out.Source); err != nil {
			out.Destination = dest
			return failed(out, wrap("remove extracted archive", out.Source, err))
		}
		logger.Info("archive extracted",
			logging.String("source", out.Source),
			logging.String("destination", dest),
			logging.String("format", string(format)),
		)
		out.Destination = dest
		out.Action = ActionExtracted
		return out
	}

	if err := os.RemoveAll(dest); err != nil {
		logger.Debug("extraction directory cleanup failed", logging.String("path", dest), logging.Error(err))
	}
	if ctx.Err() != nil && errors.Is(extractErr, ctx.Err()) {
		return failed(out, wrap("extract archive", out.Source, extractErr))
	}

	logging.WarnWithContext(logger, "archive extraction failed; moving to other", "archive_extract_failed",
		logging.String("source", out.Source),
		logging.Error(extractErr),
		logging.String(logging.FieldImpact, "archive kept unextracted in the other folder"),
		logging.String(logging.FieldErrorHint, "verify the archive is complete and in a supported format"),
	)
	return r.fallback(ctx, out)
}

// fallback moves an archive that could not be extracted into the other
// folder, keeping its original stem and suffix.
func (r *run) fallback(ctx context.Context, out Outcome) Outcome {
	out.Category = category.Other
	otherDir := filepath.Join(r.root, category.Other)
	if err := os.MkdirAll(otherDir, 0o755); err != nil {
		return failed(out, wrap("create category directory", otherDir, err))
	}
	base := filepath.Base(out.Source)
	suffix := filepath.Ext(base)
	dest, err := claimFile(otherDir, strings.TrimSuffix(base, suffix), suffix)
	if err != nil {
		return failed(out, wrap("claim destination", out.Source, err))
	}
	out.Action = ActionFallback
	return r.move(ctx, out, dest)
}

func failed(out Outcome, err error) Outcome {
	out.Action = ActionFailed
	out.Err = err
	return out
}
