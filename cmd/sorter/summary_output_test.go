package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"sorter/internal/organizer"
)

func TestWriteSummaryPlainForNonTerminal(t *testing.T) {
	summary := organizer.Summary{
		RunID:      "run-1",
		Root:       "/data/inbox",
		Moved:      3,
		Extracted:  1,
		Failed:     1,
		Cleaned:    2,
		Elapsed:    1234567 * time.Microsecond,
		ByCategory: map[string]int{"video": 1, "documents": 2, "archives": 1},
		Failures: []organizer.Outcome{{
			Source: "/data/inbox/x.txt",
			Action: organizer.ActionFailed,
			Err:    errors.New("organizer: move file: /data/inbox/x.txt: permission denied"),
		}},
	}

	var buf bytes.Buffer
	writeSummary(&buf, summary)
	out := buf.String()

	for _, want := range []string{
		"run_id=run-1\n",
		"root=/data/inbox\n",
		"status=partial\n",
		"moved=3\n",
		"extracted=1\n",
		"failed=1\n",
		"cleaned=2\n",
		"elapsed=1.235s\n",
		`failure="organizer: move file: /data/inbox/x.txt: permission denied"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	docs := strings.Index(out, "category.documents=2")
	video := strings.Index(out, "category.video=1")
	archives := strings.Index(out, "category.archives=1")
	if docs < 0 || video < 0 || archives < 0 || !(video < docs && docs < archives) {
		t.Fatalf("categories should follow table order:\n%s", out)
	}
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	writeSummaryTable(&buf, organizer.Summary{
		RunID:        "run-2",
		Root:         "/data",
		CleanSkipped: true,
		Interrupted:  true,
		ByCategory:   map[string]int{"images": 4},
	})
	out := buf.String()
	for _, want := range []string{"Run", "run-2", "skipped", "aborted", "images", "4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}
