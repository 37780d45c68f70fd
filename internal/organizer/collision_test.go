package organizer

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestResolveNameSequence(t *testing.T) {
	dir := t.TempDir()
	want := []string{"a", "a_1", "a_2", "a_3"}
	for _, expected := range want {
		name, err := resolveName(dir, "a", ".txt")
		if err != nil {
			t.Fatalf("resolveName: %v", err)
		}
		if name != expected {
			t.Fatalf("resolveName = %q, want %q", name, expected)
		}
		if err := os.WriteFile(filepath.Join(dir, name+".txt"), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func TestResolveNameIgnoresOtherSuffixes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.pdf"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	name, err := resolveName(dir, "a", ".txt")
	if err != nil {
		t.Fatalf("resolveName: %v", err)
	}
	if name != "a" {
		t.Fatalf("resolveName = %q, want a", name)
	}
}

func TestResolveNameSkipsGaps(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "a_1.txt", "a_3.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	name, err := resolveName(dir, "a", ".txt")
	if err != nil {
		t.Fatalf("resolveName: %v", err)
	}
	if name != "a_2" {
		t.Fatalf("resolveName = %q, want a_2", name)
	}
}

func TestClaimFileTakesResolvedName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "a_1.txt", "a_3.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("keep"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	want, err := resolveName(dir, "a", ".txt")
	if err != nil {
		t.Fatalf("resolveName: %v", err)
	}
	path, err := claimFile(dir, "a", ".txt")
	if err != nil {
		t.Fatalf("claimFile: %v", err)
	}
	if path != filepath.Join(dir, want+".txt") {
		t.Fatalf("claimFile = %q, want %s.txt", path, want)
	}
	next, err := resolveName(dir, "a", ".txt")
	if err != nil {
		t.Fatalf("resolveName: %v", err)
	}
	if next != "a_4" {
		t.Fatalf("resolveName after claim = %q, want a_4", next)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a_1.txt"))
	if err != nil || string(data) != "keep" {
		t.Fatalf("existing a_1.txt changed: %q, %v", data, err)
	}
}

func TestClaimFileConcurrentNamesAreDistinct(t *testing.T) {
	dir := t.TempDir()
	const n = 50

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		paths = make(map[string]struct{}, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path, err := claimFile(dir, "same", ".txt")
			if err != nil {
				t.Errorf("claimFile: %v", err)
				return
			}
			mu.Lock()
			paths[path] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(paths) != n {
		t.Fatalf("expected %d distinct claims, got %d", n, len(paths))
	}
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, candidateName("same", i)+".txt")
		if _, ok := paths[path]; !ok {
			t.Fatalf("expected %s to be claimed", path)
		}
	}
}

func TestClaimArchiveDirNeedsFileAndDirFree(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bundle.zip"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "bundle_1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, err := claimArchiveDir(dir, "bundle", ".zip")
	if err != nil {
		t.Fatalf("claimArchiveDir: %v", err)
	}
	if want := filepath.Join(dir, "bundle_2"); path != want {
		t.Fatalf("claimArchiveDir = %q, want %q", path, want)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected claimed directory at %s (err=%v)", path, err)
	}
}

func TestCandidateName(t *testing.T) {
	if got := candidateName("x", 0); got != "x" {
		t.Fatalf("candidateName(x, 0) = %q", got)
	}
	if got := candidateName("x", 12); got != "x_12" {
		t.Fatalf("candidateName(x, 12) = %q", got)
	}
}
