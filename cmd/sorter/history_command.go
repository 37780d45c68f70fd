package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sorter/internal/journal"
)

const defaultHistoryLimit = 20

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs recorded in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled {
				return errors.New("journal is disabled (set journal.enabled = true to record runs)")
			}
			store, err := journal.Open(cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(historyTable(runs)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "Number of runs to show (0 = all)")
	return cmd
}

func historyTable(runs []journal.Run) tableSpec {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		elapsed := "-"
		if d := run.Elapsed(); d > 0 {
			elapsed = d.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Root,
			string(run.Status),
			strconv.Itoa(run.Moved),
			strconv.Itoa(run.Extracted),
			strconv.Itoa(run.Fallback),
			strconv.Itoa(run.Failed),
			strconv.Itoa(run.Cleaned),
			elapsed,
			run.ID,
		})
	}
	return tableSpec{
		headers: []string{"Started", "Root", "Status", "Moved", "Extracted", "Fallback", "Failed", "Cleaned", "Elapsed", "Run"},
		rows:    rows,
		aligns: []columnAlignment{
			alignLeft, alignLeft, alignLeft,
			alignRight, alignRight, alignRight, alignRight, alignRight, alignRight,
			alignLeft,
		},
	}
}
