package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/walker"
)

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"main.go":  "// REF: entry\nfunc main() {}\n// CLOSE: entry\n",
		"util.py":  "# REF: helpers\ndef f():\n    pass\n# CLOSE: helpers\n",
		"plain.go": "package plain\n\nfunc F() {}\n",
		"bad.go":   "// REF:\nfunc broken() {}\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestScanner_Run(t *testing.T) {
	dir := writeProject(t)
	files, err := walker.Walk(walker.WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	summary := NewScanner(2).Run(context.Background(), files)

	if summary.FilesTotal != 4 {
		t.Errorf("FilesTotal = %d, want 4", summary.FilesTotal)
	}
	if summary.FilesAnnotated != 2 {
		t.Errorf("FilesAnnotated = %d, want 2 (main.go and util.py)", summary.FilesAnnotated)
	}
	if summary.SectionsTotal != 2 {
		t.Errorf("SectionsTotal = %d, want 2", summary.SectionsTotal)
	}
	if summary.DiagnosticsTotal != 1 {
		t.Errorf("DiagnosticsTotal = %d, want 1 (malformed marker in bad.go)", summary.DiagnosticsTotal)
	}
	if summary.FilesFailed != 0 {
		t.Errorf("FilesFailed = %d, want 0", summary.FilesFailed)
	}
	if len(summary.Errors) != 0 {
		t.Errorf("unexpected errors: %v", summary.Errors)
	}
}

func TestScanner_ResultsSortedByPath(t *testing.T) {
	dir := writeProject(t)
	files, err := walker.Walk(walker.WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	summary := NewScanner(4).Run(context.Background(), files)
	for i := 1; i < len(summary.Files); i++ {
		if summary.Files[i-1].File.RelPath > summary.Files[i].File.RelPath {
			t.Fatalf("results out of order: %q before %q",
				summary.Files[i-1].File.RelPath, summary.Files[i].File.RelPath)
		}
	}
}

func TestScanner_ReportsProgress(t *testing.T) {
	dir := writeProject(t)
	files, err := walker.Walk(walker.WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	var mu sync.Mutex
	var calls int
	var last int
	s := NewScanner(2)
	s.SetProgressFunc(func(current, total int, path string) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if current > last {
			last = current
		}
		if total != len(files) {
			t.Errorf("progress total = %d, want %d", total, len(files))
		}
	})

	s.Run(context.Background(), files)

	if calls != len(files) {
		t.Errorf("progress called %d times, want %d", calls, len(files))
	}
	if last != len(files) {
		t.Errorf("final progress count = %d, want %d", last, len(files))
	}
}

func TestScanner_UnreadableFileBecomesError(t *testing.T) {
	dir := writeProject(t)
	files, err := walker.Walk(walker.WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	// Remove one file between walk and scan to force a read failure.
	if err := os.Remove(filepath.Join(dir, "plain.go")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	summary := NewScanner(2).Run(context.Background(), files)
	if summary.FilesFailed != 1 {
		t.Errorf("FilesFailed = %d, want 1", summary.FilesFailed)
	}
	if len(summary.Errors) != 1 {
		t.Errorf("got %d errors, want 1", len(summary.Errors))
	}
	if len(summary.Files) != len(files)-1 {
		t.Errorf("got %d results, want %d", len(summary.Files), len(files)-1)
	}
}

func TestScanner_EmptyInput(t *testing.T) {
	summary := NewScanner(2).Run(context.Background(), nil)
	if summary.FilesTotal != 0 || len(summary.Files) != 0 {
		t.Errorf("empty scan produced %+v", summary)
	}
}

// --- Cache tests ---

func TestCache_PutGet(t *testing.T) {
	c := NewCache(4)
	doc := annotate.Parse("// REF: a\nx()\n", annotate.FamilyCLike)

	c.Put("h1", doc)
	got, ok := c.Get("h1")
	if !ok || got != doc {
		t.Error("cached document not returned")
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on a missing hash should report false")
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	c := NewCache(2)
	doc := annotate.Parse("", annotate.FamilyCLike)

	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("h%d", i), doc)
	}

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("h0"); ok {
		t.Error("oldest entry h0 should have been evicted")
	}
	if _, ok := c.Get("h2"); !ok {
		t.Error("newest entry h2 should still be cached")
	}
}

func TestCache_GetRefreshesRecency(t *testing.T) {
	c := NewCache(2)
	doc := annotate.Parse("", annotate.FamilyCLike)

	c.Put("h0", doc)
	c.Put("h1", doc)
	c.Get("h0")
	c.Put("h2", doc)

	if _, ok := c.Get("h0"); !ok {
		t.Error("recently read entry h0 should survive eviction")
	}
	if _, ok := c.Get("h1"); ok {
		t.Error("least recently used entry h1 should have been evicted")
	}
}
