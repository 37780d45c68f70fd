package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"sorter/internal/config"
	"sorter/internal/journal"
	"sorter/internal/logging"
	"sorter/internal/organizer"
)

type organizeFlags struct {
	workers       int
	failurePolicy string
	noJournal     bool
}

func attachOrganizeFlags(cmd *cobra.Command, ctx *commandContext) {
	flags := &organizeFlags{}
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "Maximum concurrent units (default from config, 0 = 4 x CPU count)")
	cmd.Flags().StringVar(&flags.failurePolicy, "failure-policy", "", "continue or abort when a file cannot be organized")
	cmd.Flags().BoolVar(&flags.noJournal, "no-journal", false, "Do not record this run in the journal")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return err
		}
		runCfg := *cfg
		if cmd.Flags().Changed("workers") {
			runCfg.Organizer.Workers = flags.workers
			if runCfg.Organizer.Workers == 0 {
				runCfg.Organizer.Workers = config.DefaultWorkers()
			}
		}
		if policy := strings.TrimSpace(flags.failurePolicy); policy != "" {
			runCfg.Organizer.FailurePolicy = strings.ToLower(policy)
		}
		if flags.noJournal {
			runCfg.Journal.Enabled = false
		}
		if err := runCfg.Validate(); err != nil {
			return err
		}
		return runOrganize(cmd, &runCfg, args[0])
	}
}

func runOrganize(cmd *cobra.Command, cfg *config.Config, root string) error {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	var recorder organizer.Recorder
	if cfg.Journal.Enabled {
		store, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			logging.WarnWithContext(logger, "journal unavailable", "journal_open_failed",
				logging.String("path", cfg.Journal.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not appear in history"),
				logging.String(logging.FieldErrorHint, "fix journal.path or pass --no-journal"),
			)
		} else {
			defer closeJournal(store, logger)
			recorder = store
		}
	}

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	summary, runErr := organizer.New(cfg, recorder, logger).Run(signalCtx, root)
	switch {
	case errors.Is(runErr, organizer.ErrInvalidRoot):
		fmt.Fprintf(cmd.ErrOrStderr(), "The folder address is incorrect: (%s)\n", root)
		return errReported
	case errors.Is(runErr, organizer.ErrRunInProgress):
		return runErr
	}

	writeSummary(cmd.OutOrStdout(), summary)
	if runErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), describeRunError(summary, runErr))
		return errReported
	}
	return nil
}

func closeJournal(store *journal.Store, logger *slog.Logger) {
	if err := store.Close(); err != nil {
		logger.Debug("journal close failed", logging.Error(err))
	}
}

// describeRunError condenses the aggregated run error into one line; the
// per-file causes are in the summary and the log.
func describeRunError(summary organizer.Summary, err error) string {
	switch {
	case errors.Is(err, organizer.ErrPartialFailure) && summary.Interrupted:
		return fmt.Sprintf("run aborted after %d failure(s); cleanup was skipped", summary.Failed)
	case errors.Is(err, organizer.ErrPartialFailure):
		return fmt.Sprintf("%d entr%s could not be organized", summary.Failed+len(summary.CleanFailures),
			pluralSuffix(summary.Failed+len(summary.CleanFailures), "y", "ies"))
	case summary.Interrupted:
		return "run interrupted; cleanup was skipped"
	default:
		return err.Error()
	}
}

func pluralSuffix(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
