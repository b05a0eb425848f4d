package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/mcpserver"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/registry"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the
project registry and annotation-reading tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		store := registry.NewStore(database)
		if _, err := ensureProject(cmd.Context(), store, cfg.RootDir); err != nil {
			return fmt.Errorf("registering project: %w", err)
		}

		mcpserver.Version = Version

		// Stdout carries the MCP protocol; status goes to stderr.
		fmt.Fprintf(os.Stderr, "codewalk MCP server started on stdio (db=%s)\n", cfg.DBPath)

		srv := mcpserver.NewServer(store, mcpserver.Config{
			Include:     cfg.Include,
			Exclude:     cfg.Exclude,
			MaxFileSize: cfg.MaxFileSize,
			Concurrency: cfg.Concurrency,
		})
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
