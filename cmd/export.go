package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/progress"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/site"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the project as a static dual-pane walkthrough site",
	Long: `Generates a self-contained static HTML site: one dual-pane page per
annotated file, a sidebar file tree, and client-side scroll sync.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("output", "codewalk-site", "output directory for the site")
	exportCmd.Flags().String("archive", "", "also pack the site into a tar.gz at this path")
	exportCmd.Flags().Bool("serve", false, "start a local HTTP server after generating")
	exportCmd.Flags().Int("port", 8080, "port for the local dev server")
	exportCmd.Flags().Bool("open", false, "open browser automatically when serving")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")

	// Derive project name from the root directory.
	projectName := "Codewalk"
	if absRoot, absErr := filepath.Abs(cfg.RootDir); absErr == nil {
		if base := filepath.Base(absRoot); base != "." && base != "" {
			projectName = base
		}
	}

	gen := site.NewGenerator(projectName, cfg.RootDir, outputDir)
	gen.Include = cfg.Include
	gen.Exclude = cfg.Exclude
	gen.MaxFileSize = cfg.MaxFileSize
	gen.Theme = string(cfg.Viewer.Theme)
	if cfg.Concurrency > 0 {
		gen.Concurrency = cfg.Concurrency
	}
	gen.OnProgress = progress.Func(progress.NewReporter())

	pageCount, err := gen.Generate(cmd.Context())
	if err != nil {
		return fmt.Errorf("generating site: %w", err)
	}
	fmt.Printf("Static site generated: %s (%d pages)\n", outputDir, pageCount)

	if archivePath, _ := cmd.Flags().GetString("archive"); archivePath != "" {
		if err := site.Archive(outputDir, archivePath); err != nil {
			return fmt.Errorf("archiving site: %w", err)
		}
		info, statErr := os.Stat(archivePath)
		if statErr == nil {
			fmt.Printf("Archive written: %s (%d bytes)\n", archivePath, info.Size())
		} else {
			fmt.Printf("Archive written: %s\n", archivePath)
		}
	}

	if serve, _ := cmd.Flags().GetBool("serve"); serve {
		port, _ := cmd.Flags().GetInt("port")
		openBrowser, _ := cmd.Flags().GetBool("open")
		if err := site.Serve(outputDir, port, openBrowser); err != nil {
			return fmt.Errorf("serving site: %w", err)
		}
	}

	return nil
}
