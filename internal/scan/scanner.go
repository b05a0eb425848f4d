package scan

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/walker"
)

// ProgressFunc is called after each file finishes, with the number of
// files done so far, the total, and the file that just finished.
type ProgressFunc func(current, total int, path string)

// FileResult pairs one walked file with its parsed document.
type FileResult struct {
	File walker.FileInfo
	Doc  *annotate.Document
}

// Summary aggregates one scan over a project tree.
type Summary struct {
	FilesTotal       int
	FilesAnnotated   int
	FilesFailed      int
	SectionsTotal    int
	DiagnosticsTotal int
	Duration         time.Duration
	Files            []FileResult
	Errors           []error
}

// Scanner parses every walked file for annotation markers, fanning the
// work out across a bounded number of goroutines.
type Scanner struct {
	concurrency int
	onProgress  ProgressFunc
}

// NewScanner creates a Scanner with the given concurrency limit.
func NewScanner(concurrency int) *Scanner {
	if concurrency < 1 {
		concurrency = 4
	}
	return &Scanner{concurrency: concurrency}
}

// SetProgressFunc sets the progress callback.
func (s *Scanner) SetProgressFunc(fn ProgressFunc) {
	s.onProgress = fn
}

// Run parses the given files concurrently. Unreadable files become
// entries in Errors; parsing itself never fails, so every readable file
// produces a result even when its markers are malformed.
func (s *Scanner) Run(ctx context.Context, files []walker.FileInfo) *Summary {
	start := time.Now()
	summary := &Summary{FilesTotal: len(files)}
	total := len(files)
	if total == 0 {
		summary.Duration = time.Since(start)
		return summary
	}

	sem := make(chan struct{}, s.concurrency)
	var mu sync.Mutex
	var processed int64
	var wg sync.WaitGroup

	report := func(path string) {
		count := atomic.AddInt64(&processed, 1)
		if s.onProgress != nil {
			s.onProgress(int(count), total, path)
		}
	}

	for _, file := range files {
		select {
		case <-ctx.Done():
			mu.Lock()
			summary.Errors = append(summary.Errors, ctx.Err())
			summary.FilesFailed++
			mu.Unlock()
			report(file.RelPath)
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(f walker.FileInfo) {
			defer wg.Done()
			defer func() { <-sem }()

			content, err := os.ReadFile(f.Path)
			if err != nil {
				mu.Lock()
				summary.Errors = append(summary.Errors, fmt.Errorf("read %s: %w", f.RelPath, err))
				summary.FilesFailed++
				mu.Unlock()
				report(f.RelPath)
				return
			}

			doc := annotate.Parse(string(content), f.Family)

			mu.Lock()
			summary.Files = append(summary.Files, FileResult{File: f, Doc: doc})
			mu.Unlock()
			report(f.RelPath)
		}(file)
	}

	wg.Wait()

	sort.Slice(summary.Files, func(i, j int) bool {
		return summary.Files[i].File.RelPath < summary.Files[j].File.RelPath
	})
	for _, fr := range summary.Files {
		if len(fr.Doc.Sections) > 0 {
			summary.FilesAnnotated++
		}
		summary.SectionsTotal += len(fr.Doc.Sections)
		summary.DiagnosticsTotal += len(fr.Doc.Diagnostics)
	}
	summary.Duration = time.Since(start)
	return summary
}
