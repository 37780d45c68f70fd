package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"sorter/internal/category"
	"sorter/internal/organizer"
)

type summaryField struct {
	key   string
	label string
	value string
}

func summaryFields(s organizer.Summary) []summaryField {
	return []summaryField{
		{"run_id", "Run", s.RunID},
		{"root", "Root", s.Root},
		{"status", "Status", string(s.Status())},
		{"moved", "Moved", strconv.Itoa(s.Moved)},
		{"extracted", "Extracted", strconv.Itoa(s.Extracted)},
		{"archive_fallback", "Archive fallback", strconv.Itoa(s.Fallback)},
		{"failed", "Failed", strconv.Itoa(s.Failed)},
		{"dirs_scanned", "Directories scanned", strconv.Itoa(s.DirsScanned)},
		{"cleaned", "Cleaned", cleanedValue(s)},
		{"elapsed", "Elapsed", s.Elapsed.Round(time.Millisecond).String()},
	}
}

func cleanedValue(s organizer.Summary) string {
	if s.CleanSkipped {
		return "skipped"
	}
	return strconv.Itoa(s.Cleaned)
}

// writeSummary prints a table on terminals and key=value lines otherwise.
func writeSummary(w io.Writer, s organizer.Summary) {
	if isTerminal(w) {
		writeSummaryTable(w, s)
		return
	}
	writeSummaryPlain(w, s)
}

func writeSummaryPlain(w io.Writer, s organizer.Summary) {
	for _, field := range summaryFields(s) {
		fmt.Fprintf(w, "%s=%s\n", field.key, field.value)
	}
	for _, name := range categoriesInSummary(s) {
		fmt.Fprintf(w, "category.%s=%d\n", name, s.ByCategory[name])
	}
	for _, failure := range s.Failures {
		fmt.Fprintf(w, "failure=%q\n", failure.Err.Error())
	}
	for _, err := range s.CleanFailures {
		fmt.Fprintf(w, "failure=%q\n", err.Error())
	}
}

func writeSummaryTable(w io.Writer, s organizer.Summary) {
	fields := summaryFields(s)
	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		rows = append(rows, []string{field.label, field.value})
	}
	fmt.Fprintln(w, renderTable(tableSpec{
		title:   "Sorting summary",
		headers: []string{"Metric", "Value"},
		rows:    rows,
	}))

	if names := categoriesInSummary(s); len(names) > 0 {
		catRows := make([][]string, 0, len(names))
		for _, name := range names {
			catRows = append(catRows, []string{name, strconv.Itoa(s.ByCategory[name])})
		}
		fmt.Fprintln(w, renderTable(tableSpec{
			headers: []string{"Category", "Files"},
			rows:    catRows,
			aligns:  []columnAlignment{alignLeft, alignRight},
		}))
	}

	if len(s.Failures) > 0 || len(s.CleanFailures) > 0 {
		failRows := make([][]string, 0, len(s.Failures)+len(s.CleanFailures))
		for _, failure := range s.Failures {
			failRows = append(failRows, []string{failure.Source, failure.Err.Error()})
		}
		for _, err := range s.CleanFailures {
			failRows = append(failRows, []string{"(cleanup)", err.Error()})
		}
		fmt.Fprintln(w, renderTable(tableSpec{
			title:   "Failures",
			headers: []string{"Source", "Error"},
			rows:    failRows,
		}))
	}
}

// categoriesInSummary lists the categories that received files, in table
// order.
func categoriesInSummary(s organizer.Summary) []string {
	var names []string
	for _, name := range category.Names() {
		if s.ByCategory[name] > 0 {
			names = append(names, name)
		}
	}
	return names
}
