package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "codewalk",
	Short: "Annotated code walkthroughs with a synchronized dual-pane viewer",
	Long: `Codewalk extracts REF:/CLOSE: annotation markers from source comments
and presents each file as prose sections beside the stripped code, with
the two panes scrolling in sync. It serves a local viewer, exports
static walkthrough sites, and exposes annotations to AI agents via MCP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".codewalk.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
