package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize codewalk configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure codewalk for your project and generates a .codewalk.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
