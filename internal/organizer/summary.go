package organizer

import (
	"errors"
	"time"

	"sorter/internal/journal"
)

// Action names what happened to a source file.
type Action string

const (
	ActionMoved     Action = "moved"
	ActionExtracted Action = "extracted"
	ActionFallback  Action = "archive_fallback"
	ActionFailed    Action = "failed"
)

// Outcome is the result of one unit. Directory units only produce an Outcome
// when listing the directory failed.
type Outcome struct {
	Source      string
	Destination string
	Category    string
	Action      Action
	Err         error
}

// Summary aggregates every outcome of a run.
type Summary struct {
	RunID         string
	Root          string
	FailurePolicy string
	Workers       int
	Started       time.Time
	Finished      time.Time
	Elapsed       time.Duration

	Moved       int
	Extracted   int
	Fallback    int
	Failed      int
	DirsScanned int
	Cleaned     int
	ByCategory  map[string]int

	// Interrupted is set when dispatch stopped early, either through the
	// abort policy or because the caller cancelled the context.
	Interrupted  bool
	CleanSkipped bool

	Failures      []Outcome
	CleanFailures []error
}

func (s *Summary) add(out Outcome) {
	switch out.Action {
	case ActionMoved:
		s.Moved++
	case ActionExtracted:
		s.Extracted++
	case ActionFallback:
		s.Fallback++
	case ActionFailed:
		s.Failed++
		s.Failures = append(s.Failures, out)
		return
	}
	if s.ByCategory == nil {
		s.ByCategory = make(map[string]int)
	}
	s.ByCategory[out.Category]++
}

// Processed counts the files that reached a destination.
func (s Summary) Processed() int {
	return s.Moved + s.Extracted + s.Fallback
}

// Status maps the summary onto the journal's run status.
func (s Summary) Status() journal.Status {
	switch {
	case s.Interrupted:
		return journal.StatusAborted
	case s.Failed > 0 || len(s.CleanFailures) > 0:
		return journal.StatusPartial
	default:
		return journal.StatusCompleted
	}
}

// Err joins ErrPartialFailure with every unit and cleanup failure, or returns
// nil when the run had none.
func (s Summary) Err() error {
	if len(s.Failures) == 0 && len(s.CleanFailures) == 0 {
		return nil
	}
	errs := make([]error, 0, 1+len(s.Failures)+len(s.CleanFailures))
	errs = append(errs, ErrPartialFailure)
	for _, failure := range s.Failures {
		errs = append(errs, failure.Err)
	}
	errs = append(errs, s.CleanFailures...)
	return errors.Join(errs...)
}

func (s Summary) journalRun() journal.Run {
	return journal.Run{
		ID:            s.RunID,
		Root:          s.Root,
		Status:        s.Status(),
		FailurePolicy: s.FailurePolicy,
		Workers:       s.Workers,
		Moved:         s.Moved,
		Extracted:     s.Extracted,
		Fallback:      s.Fallback,
		Failed:        s.Failed,
		Cleaned:       s.Cleaned,
		DirsScanned:   s.DirsScanned,
		StartedAt:     s.Started,
		FinishedAt:    s.Finished,
	}
}
