package organizer_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sorter/internal/config"
	"sorter/internal/journal"
	"sorter/internal/logging"
	"sorter/internal/organizer"
	"sorter/internal/runlock"
	"sorter/internal/testsupport"
)

func TestRunOrganizesTree(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	root := t.TempDir()

	testsupport.WriteTree(t, root, map[string]string{
		"photo.jpg":            "jpg",
		"report.PDF":           "pdf",
		"видео.mp4":            "mp4",
		"a.txt":                "root a",
		"my file!.txt":         "spaces",
		"unknown.xyz":          "xyz",
		"corrupt.zip":          "this is not a zip archive",
		".secret":              "hidden",
		"sub/a.txt":            "nested a",
		"sub/deeper/notes.txt": "notes",
		"images/old.png":       "already sorted",
		"sub/.hidden/skip.txt": "never relocated",
	})
	testsupport.WriteZip(t, filepath.Join(root, "archive.zip"), map[string]string{"inner.txt": "inside"})

	org := organizer.New(cfg, store, logging.NewNop())
	summary, err := org.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"archives/",
		"archives/archive/",
		"archives/archive/inner.txt",
		"documents/",
		"documents/a.txt",
		"documents/a_1.txt",
		"documents/my_file_.txt",
		"documents/notes.txt",
		"documents/report.PDF",
		"images/",
		"images/old.png",
		"images/photo.jpg",
		"other/",
		"other/corrupt.zip",
		"other/unknown.xyz",
		"video/",
		"video/video.mp4",
	}, testsupport.ListTree(t, root))

	contents := []string{
		testsupport.ReadFile(t, filepath.Join(root, "documents", "a.txt")),
		testsupport.ReadFile(t, filepath.Join(root, "documents", "a_1.txt")),
	}
	sort.Strings(contents)
	assert.Equal(t, []string{"nested a", "root a"}, contents)
	assert.Equal(t, "inside", testsupport.ReadFile(t, filepath.Join(root, "archives", "archive", "inner.txt")))
	assert.Equal(t, "this is not a zip archive", testsupport.ReadFile(t, filepath.Join(root, "other", "corrupt.zip")))
	assert.Equal(t, "already sorted", testsupport.ReadFile(t, filepath.Join(root, "images", "old.png")))

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 8, summary.Moved)
	assert.Equal(t, 1, summary.Extracted)
	assert.Equal(t, 1, summary.Fallback)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 3, summary.DirsScanned)
	assert.Equal(t, 2, summary.Cleaned)
	assert.False(t, summary.Interrupted)
	assert.Equal(t, map[string]int{
		"archives":  1,
		"documents": 5,
		"images":    1,
		"other":     2,
		"video":     1,
	}, summary.ByCategory)
	assert.Equal(t, journal.StatusCompleted, summary.Status())
	assert.False(t, summary.Finished.Before(summary.Started))

	run, err := store.GetRun(context.Background(), summary.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, journal.StatusCompleted, run.Status)
	assert.Equal(t, summary.Root, run.Root)
	assert.Equal(t, 8, run.Moved)
	assert.Equal(t, 2, run.Cleaned)

	entries, err := store.Outcomes(context.Background(), summary.RunID)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
	actions := map[string]int{}
	for _, entry := range entries {
		actions[entry.Action]++
	}
	assert.Equal(t, map[string]int{"moved": 8, "extracted": 1, "archive_fallback": 1}, actions)
}

func TestRunIsIdempotentOnSortedTree(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutJournal())
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"documents/a.txt": "a",
		"images/b.png":    "b",
	})

	summary, err := organizer.New(cfg, nil, nil).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed())
	assert.Equal(t, 0, summary.Cleaned)
	assert.Equal(t, []string{"documents/", "documents/a.txt", "images/", "images/b.png"}, testsupport.ListTree(t, root))
}

func TestRunCategoryNamedDirectoryBelowRootIsWalked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"sub/images/pic.png": "png",
	})

	_, err := organizer.New(cfg, nil, nil).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"images/", "images/pic.png"}, testsupport.ListTree(t, root))
}

func TestRunConcurrentDuplicatesGetDistinctNames(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(8))
	root := t.TempDir()

	const n = 20
	files := make(map[string]string, n)
	for i := 0; i < n; i++ {
		files[fmt.Sprintf("dir%02d/same.txt", i)] = fmt.Sprintf("content-%02d", i)
	}
	testsupport.WriteTree(t, root, files)

	summary, err := organizer.New(cfg, nil, nil).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, n, summary.Moved)

	entries, err := os.ReadDir(filepath.Join(root, "documents"))
	require.NoError(t, err)
	require.Len(t, entries, n)

	seen := make(map[string]bool, n)
	for _, entry := range entries {
		content := testsupport.ReadFile(t, filepath.Join(root, "documents", entry.Name()))
		assert.False(t, seen[content], "content %q landed twice", content)
		seen[content] = true
	}
	for i := 0; i < n; i++ {
		name := "same.txt"
		if i > 0 {
			name = fmt.Sprintf("same_%d.txt", i)
		}
		assert.FileExists(t, filepath.Join(root, "documents", name))
	}
}

func TestRunNeverOverwritesExistingDestinations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()

	testsupport.WriteTree(t, root, map[string]string{
		"documents/a.txt":   "orig",
		"other/corrupt.zip": "prior",
		"a.txt":             "new",
		"corrupt.zip":       "not a zip",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "archives", "archive"), 0o755))
	testsupport.WriteZip(t, filepath.Join(root, "archive.zip"), map[string]string{"x.txt": "inside"})

	summary, err := organizer.New(cfg, nil, nil).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Moved)
	assert.Equal(t, 1, summary.Extracted)
	assert.Equal(t, 1, summary.Fallback)
	assert.Equal(t, 0, summary.Failed)

	assert.Equal(t, []string{
		"archives/",
		"archives/archive/",
		"archives/archive_1/",
		"archives/archive_1/x.txt",
		"documents/",
		"documents/a.txt",
		"documents/a_1.txt",
		"other/",
		"other/corrupt.zip",
		"other/corrupt_1.zip",
	}, testsupport.ListTree(t, root))
	assert.Equal(t, "orig", testsupport.ReadFile(t, filepath.Join(root, "documents", "a.txt")))
	assert.Equal(t, "new", testsupport.ReadFile(t, filepath.Join(root, "documents", "a_1.txt")))
	assert.Equal(t, "prior", testsupport.ReadFile(t, filepath.Join(root, "other", "corrupt.zip")))
	assert.Equal(t, "not a zip", testsupport.ReadFile(t, filepath.Join(root, "other", "corrupt_1.zip")))
	assert.Equal(t, "inside", testsupport.ReadFile(t, filepath.Join(root, "archives", "archive_1", "x.txt")))
}

func TestRunSymlinkIsRelocatedNotFollowed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()
	outside := t.TempDir()
	testsupport.WriteTree(t, outside, map[string]string{"keep.txt": "keep"})
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))

	_, err := organizer.New(cfg, nil, nil).Run(context.Background(), root)
	require.NoError(t, err)

	info, err := os.Lstat(filepath.Join(root, "other", "link"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
	assert.Equal(t, "keep", testsupport.ReadFile(t, filepath.Join(outside, "keep.txt")))
}

func TestRunInvalidRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org := organizer.New(cfg, nil, nil)

	_, err := org.Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, organizer.ErrInvalidRoot)

	file := filepath.Join(t.TempDir(), "plain.txt")
	testsupport.WriteFile(t, file, 16)
	_, err = org.Run(context.Background(), file)
	require.ErrorIs(t, err, organizer.ErrInvalidRoot)
	assert.FileExists(t, file)
}

func TestRunRefusesLockedRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{"a.txt": "a"})

	lock, err := runlock.Acquire(cfg.LockDir(), root)
	require.NoError(t, err)
	defer lock.Release()

	_, err = organizer.New(cfg, nil, nil).Run(context.Background(), root)
	require.ErrorIs(t, err, organizer.ErrRunInProgress)
	assert.Equal(t, []string{"a.txt"}, testsupport.ListTree(t, root))
}

// failureTree makes the first relocation fail: with a single worker children
// run in name order, and "b.txt" cannot create the documents folder while a
// regular file named "documents" occupies that path.
func failureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"b.txt":     "b",
		"documents": "not a folder",
		"z.jpg":     "z",
	})
	return root
}

func TestRunContinuePolicyReportsPartialFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(1))
	root := failureTree(t)

	summary, err := organizer.New(cfg, nil, nil).Run(context.Background(), root)
	require.ErrorIs(t, err, organizer.ErrPartialFailure)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, filepath.Join(summary.Root, "b.txt"), summary.Failures[0].Source)
	assert.Equal(t, organizer.ActionFailed, summary.Failures[0].Action)
	assert.Equal(t, 2, summary.Moved)
	assert.Equal(t, journal.StatusPartial, summary.Status())
	assert.False(t, summary.CleanSkipped)

	assert.Equal(t, []string{"images/", "images/z.jpg", "other/", "other/documents"}, testsupport.ListTree(t, root))
}

func TestRunAbortPolicyStopsAndSkipsCleanup(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(1), testsupport.WithFailurePolicy(config.FailurePolicyAbort))
	root := failureTree(t)

	summary, err := organizer.New(cfg, nil, nil).Run(context.Background(), root)
	require.ErrorIs(t, err, organizer.ErrPartialFailure)
	assert.True(t, summary.Interrupted)
	assert.True(t, summary.CleanSkipped)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Moved)
	assert.Equal(t, journal.StatusAborted, summary.Status())

	assert.Equal(t, []string{"b.txt", "documents", "z.jpg"}, testsupport.ListTree(t, root))
}

func TestRunCancelledContextLeavesTreeAlone(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{"a.txt": "a", "sub/b.png": "b"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := organizer.New(cfg, nil, nil).Run(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, summary.Interrupted)
	assert.True(t, summary.CleanSkipped)
	assert.Equal(t, []string{"a.txt", "sub/", "sub/b.png"}, testsupport.ListTree(t, root))
}

type failingRecorder struct {
	calls int
}

func (f *failingRecorder) BeginRun(context.Context, journal.Run) error {
	f.calls++
	return errors.New("disk full")
}

func (f *failingRecorder) RecordOutcome(context.Context, journal.Entry) error {
	return errors.New("disk full")
}

func (f *failingRecorder) FinishRun(context.Context, journal.Run) error {
	f.calls++
	return errors.New("disk full")
}

func TestRunJournalFailuresDoNotFailRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{"a.txt": "a"})

	recorder := &failingRecorder{}
	summary, err := organizer.New(cfg, recorder, nil).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Moved)
	assert.Equal(t, 2, recorder.calls)
	assert.FileExists(t, filepath.Join(root, "documents", "a.txt"))
}

func TestNewWithoutConfigUsesDefaults(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{"song.MP3": "mp3"})

	summary, err := organizer.New(nil, nil, nil).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, config.FailurePolicyContinue, summary.FailurePolicy)
	assert.Equal(t, config.DefaultWorkers(), summary.Workers)
	assert.FileExists(t, filepath.Join(root, "audio", "song.MP3"))
}
