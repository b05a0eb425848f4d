package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/config"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/progress"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/registry"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/scan"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/walker"
)

var (
	checkStrict bool
	checkFormat string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scan the project and report annotation coverage and diagnostics",
	Long: `Walks the configured root directory, parses every source file for
annotation markers, and prints a coverage summary with any diagnostics.
Each run is recorded in the project registry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		files, err := walker.Walk(walker.WalkerConfig{
			RootDir:     cfg.RootDir,
			Include:     cfg.Include,
			Exclude:     cfg.Exclude,
			MaxFileSize: cfg.MaxFileSize,
		})
		if err != nil {
			return fmt.Errorf("walking %s: %w", cfg.RootDir, err)
		}

		scanner := scan.NewScanner(cfg.Concurrency)
		if checkFormat == "text" {
			scanner.SetProgressFunc(progress.Func(progress.NewReporter()))
		}
		summary := scanner.Run(cmd.Context(), files)

		if err := recordScan(cmd, cfg, summary); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not record scan: %v\n", err)
		}

		switch checkFormat {
		case "json":
			if err := printSummaryJSON(summary); err != nil {
				return err
			}
		case "text":
			printSummaryText(summary)
		default:
			return fmt.Errorf("unknown format %q (want text or json)", checkFormat)
		}

		if checkStrict && summary.DiagnosticsTotal > 0 {
			return fmt.Errorf("%d diagnostic(s) found", summary.DiagnosticsTotal)
		}
		if len(summary.Errors) > 0 {
			return fmt.Errorf("%d file(s) could not be read", len(summary.Errors))
		}
		return nil
	},
}

// recordScan registers the project (if needed) and stores the scan row.
func recordScan(cmd *cobra.Command, cfg *config.Config, summary *scan.Summary) error {
	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	store := registry.NewStore(database)
	project, err := ensureProject(cmd.Context(), store, cfg.RootDir)
	if err != nil {
		return err
	}

	return store.AddScan(cmd.Context(), &registry.Scan{
		ProjectID:        project.ID,
		FilesTotal:       summary.FilesTotal,
		FilesAnnotated:   summary.FilesAnnotated,
		SectionsTotal:    summary.SectionsTotal,
		DiagnosticsTotal: summary.DiagnosticsTotal,
		DurationMs:       summary.Duration.Milliseconds(),
	})
}

func printSummaryText(summary *scan.Summary) {
	fmt.Printf("Scanned %d file(s) in %s\n", summary.FilesTotal, summary.Duration.Round(time.Millisecond))
	fmt.Printf("  Annotated: %d\n", summary.FilesAnnotated)
	fmt.Printf("  Sections:  %d\n", summary.SectionsTotal)

	for _, fr := range summary.Files {
		if len(fr.Doc.Diagnostics) == 0 {
			continue
		}
		for _, d := range fr.Doc.Diagnostics {
			fmt.Printf("  %s:%d: %s\n", fr.File.RelPath, d.Line, d.Message)
		}
	}
	if summary.DiagnosticsTotal > 0 {
		fmt.Printf("  Diagnostics: %d\n", summary.DiagnosticsTotal)
	}
	for _, err := range summary.Errors {
		fmt.Fprintf(os.Stderr, "  error: %v\n", err)
	}
}

func printSummaryJSON(summary *scan.Summary) error {
	type fileDiag struct {
		File        string                `json:"file"`
		Diagnostics []annotate.Diagnostic `json:"diagnostics"`
	}

	out := struct {
		FilesTotal       int        `json:"files_total"`
		FilesAnnotated   int        `json:"files_annotated"`
		FilesFailed      int        `json:"files_failed"`
		SectionsTotal    int        `json:"sections_total"`
		DiagnosticsTotal int        `json:"diagnostics_total"`
		DurationMs       int64      `json:"duration_ms"`
		Files            []fileDiag `json:"files,omitempty"`
	}{
		FilesTotal:       summary.FilesTotal,
		FilesAnnotated:   summary.FilesAnnotated,
		FilesFailed:      summary.FilesFailed,
		SectionsTotal:    summary.SectionsTotal,
		DiagnosticsTotal: summary.DiagnosticsTotal,
		DurationMs:       summary.Duration.Milliseconds(),
	}

	for _, fr := range summary.Files {
		if len(fr.Doc.Diagnostics) == 0 {
			continue
		}
		out.Files = append(out.Files, fileDiag{File: fr.File.RelPath, Diagnostics: fr.Doc.Diagnostics})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit non-zero when any diagnostic is found")
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "output format: text or json")
	rootCmd.AddCommand(checkCmd)
}
