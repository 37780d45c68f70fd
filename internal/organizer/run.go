package organizer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"sorter/internal/config"
	"sorter/internal/journal"
	"sorter/internal/logging"
)

// run holds the state shared by every unit of one Organizer.Run call.
type run struct {
	root    string
	policy  string
	logger  *slog.Logger
	journal Recorder
	now     func() time.Time
	group   *taskGroup

	cancel  context.CancelFunc
	units   atomic.Int64
	aborted atomic.Bool

	mu      sync.Mutex
	summary Summary
}

func newRun(o *Organizer, summary Summary) *run {
	return &run{
		root:    summary.Root,
		policy:  o.policy,
		logger:  o.logger,
		journal: o.journal,
		now:     o.now,
		group:   newTaskGroup(o.workers),
		summary: summary,
	}
}

func (r *run) execute(parent context.Context) (Summary, error) {
	ctx, cancel := context.WithCancel(logging.WithRunID(parent, r.summary.RunID))
	defer cancel()
	r.cancel = cancel
	logger := logging.WithContext(ctx, r.logger)

	r.summary.Started = r.now()
	logger.Info("start sorting",
		logging.String("root", r.root),
		logging.Int("workers", r.summary.Workers),
		logging.String("failure_policy", r.policy),
	)
	r.beginJournal(ctx)

	r.dispatch(ctx, func(ctx context.Context) { r.walk(ctx, r.root) })
	r.group.Wait()

	if parent.Err() != nil {
		r.summary.Interrupted = true
	}
	if r.summary.Interrupted {
		r.summary.CleanSkipped = true
		logging.WarnWithContext(logger, "cleanup skipped", "cleanup_skipped",
			logging.String(logging.FieldImpact, "stray entries stay in the root so unprocessed files are not lost"),
			logging.String(logging.FieldErrorHint, "fix the reported failures and run again"),
		)
	} else {
		result := r.clean(ctx)
		r.summary.Cleaned = len(result.Removed)
		r.summary.CleanFailures = result.Failures
	}

	r.summary.Finished = r.now()
	r.summary.Elapsed = r.summary.Finished.Sub(r.summary.Started)
	r.finishJournal(ctx)

	logger.Info("finish sorting",
		logging.Duration("elapsed", r.summary.Elapsed),
		logging.Int("processed", r.summary.Processed()),
		logging.Int("failed", r.summary.Failed),
		logging.Int("cleaned", r.summary.Cleaned),
		logging.String("status", string(r.summary.Status())),
	)
	err := r.summary.Err()
	if parent.Err() != nil {
		err = errors.Join(err, parent.Err())
	}
	return r.summary, err
}

// dispatch schedules fn as a new unit. It reports false once the run context
// is cancelled so walkers stop fanning out.
func (r *run) dispatch(ctx context.Context, fn func(ctx context.Context)) bool {
	if ctx.Err() != nil {
		r.markInterrupted()
		return false
	}
	unitCtx := logging.WithUnit(ctx, r.units.Add(1))
	r.group.Go(func() { fn(unitCtx) })
	return true
}

func (r *run) markInterrupted() {
	r.mu.Lock()
	r.summary.Interrupted = true
	r.mu.Unlock()
}

func (r *run) countDir() {
	r.mu.Lock()
	r.summary.DirsScanned++
	r.mu.Unlock()
}

// record folds out into the summary and the journal and applies the failure
// policy.
func (r *run) record(ctx context.Context, out Outcome) {
	r.mu.Lock()
	r.summary.add(out)
	r.mu.Unlock()

	logger := logging.WithContext(ctx, r.logger)
	if out.Err != nil {
		logging.ErrorWithContext(logger, "relocation failed", "relocation_failed",
			logging.String("source", out.Source),
			logging.Error(out.Err),
			logging.String(logging.FieldErrorHint, "check permissions and free space for the source and the category folder"),
		)
		if r.policy == config.FailurePolicyAbort && r.aborted.CompareAndSwap(false, true) {
			logging.WarnWithContext(logger, "aborting run after failure", "run_aborted",
				logging.String(logging.FieldImpact, "remaining entries are left in place"),
			)
			r.markInterrupted()
			r.cancel()
		}
	}

	if r.journal == nil {
		return
	}
	entry := journal.Entry{
		RunID:       r.summary.RunID,
		Source:      out.Source,
		Destination: out.Destination,
		Category:    out.Category,
		Action:      string(out.Action),
		RecordedAt:  r.now(),
	}
	if out.Err != nil {
		entry.Error = out.Err.Error()
	}
	if err := r.journal.RecordOutcome(context.WithoutCancel(ctx), entry); err != nil {
		r.journalWarning(logger, "journal outcome write failed", err)
	}
}

func (r *run) beginJournal(ctx context.Context) {
	if r.journal == nil {
		return
	}
	if err := r.journal.BeginRun(context.WithoutCancel(ctx), r.summary.journalRun()); err != nil {
		r.journalWarning(logging.WithContext(ctx, r.logger), "journal begin failed", err)
	}
}

func (r *run) finishJournal(ctx context.Context) {
	if r.journal == nil {
		return
	}
	if err := r.journal.FinishRun(context.WithoutCancel(ctx), r.summary.journalRun()); err != nil {
		r.journalWarning(logging.WithContext(ctx, r.logger), "journal finish failed", err)
	}
}

func (r *run) journalWarning(logger *slog.Logger, msg string, err error) {
	logging.WarnWithContext(logger, msg, "journal_write_failed",
		logging.Error(err),
		logging.String(logging.FieldImpact, "run history is incomplete; files are unaffected"),
		logging.String(logging.FieldErrorHint, "check the journal path or run with --no-journal"),
	)
}
