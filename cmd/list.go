package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered projects and their latest scan stats",
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
		projects, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing projects: %w", err)
		}

		if len(projects) == 0 {
			fmt.Println("No projects registered. Run `codewalk check` to register one.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tROOT\tFILES\tANNOTATED\tSECTIONS\tLAST SCAN")
		for _, p := range projects {
			scans, err := store.ListScans(cmd.Context(), p.ID)
			if err != nil {
				return fmt.Errorf("listing scans for %s: %w", p.Name, err)
			}
			if len(scans) == 0 {
				fmt.Fprintf(w, "%s\t%s\t-\t-\t-\tnever\n", p.Name, p.RootPath)
				continue
			}
			last := scans[0]
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
				p.Name, p.RootPath,
				last.FilesTotal, last.FilesAnnotated, last.SectionsTotal,
				last.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
