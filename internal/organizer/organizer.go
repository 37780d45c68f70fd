package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"sorter/internal/config"
	"sorter/internal/journal"
	"sorter/internal/logging"
	"sorter/internal/preflight"
	"sorter/internal/runlock"
)

// Recorder receives the run journal. *journal.Store satisfies it.
type Recorder interface {
	BeginRun(ctx context.Context, run journal.Run) error
	RecordOutcome(ctx context.Context, entry journal.Entry) error
	FinishRun(ctx context.Context, run journal.Run) error
}

// Organizer sorts root directories according to cfg.
type Organizer struct {
	workers int
	policy  string
	lockDir string
	journal Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// New constructs an Organizer. A nil recorder disables the journal and a nil
// logger discards output. A nil cfg uses the built-in defaults without a run
// lock.
func New(cfg *config.Config, recorder Recorder, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Organizer{
		workers: config.DefaultWorkers(),
		policy:  config.FailurePolicyContinue,
		journal: recorder,
		logger:  logging.NewComponentLogger(logger, "organizer"),
		now:     time.Now,
	}
	if cfg != nil {
		if cfg.Organizer.Workers > 0 {
			o.workers = cfg.Organizer.Workers
		}
		if cfg.Organizer.FailurePolicy != "" {
			o.policy = cfg.Organizer.FailurePolicy
		}
		o.lockDir = cfg.LockDir()
	}
	return o
}

// Run sorts every file below root into category folders and then removes
// whatever else is left directly in root.
//
// Unit failures do not stop the run under the continue policy; they are
// collected and returned as an error matching ErrPartialFailure alongside the
// Summary. The returned Summary is meaningful even when err is non-nil.
func (o *Organizer) Run(ctx context.Context, root string) (Summary, error) {
	summary := Summary{Root: root, FailurePolicy: o.policy, Workers: o.workers}
	if err := preflight.ValidateRoot(root); err != nil {
		return summary, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return summary, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	summary.Root = abs

	lock, err := runlock.Acquire(o.lockDir, abs)
	if err != nil {
		if errors.Is(err, runlock.ErrHeld) {
			return summary, fmt.Errorf("%w: %s", ErrRunInProgress, abs)
		}
		return summary, wrap("acquire run lock", abs, err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logging.WarnWithContext(o.logger, "run lock release failed", "runlock_release_failed",
				logging.String("lock", lock.Path()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the stale lock file if later runs report a run in progress"),
			)
		}
	}()

	summary.RunID = uuid.NewString()
	r := newRun(o, summary)
	return r.execute(ctx)
}
