package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/walker"
)

var (
	parseFormat   string
	parseStripped bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse one file's annotations and print the result",
	Long: `Runs a single source file through the annotation pipeline and prints
the extracted sections, stripped code, pairings, and diagnostics.
The comment syntax is picked from the file extension.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		family := walker.DetectFamily(filepath.Base(path))
		doc := annotate.Parse(string(content), family)

		if parseStripped {
			fmt.Print(doc.StrippedCode)
			return nil
		}

		out := struct {
			File         string                `json:"file" yaml:"file"`
			Language     string                `json:"language" yaml:"language"`
			Sections     []annotate.Section    `json:"sections" yaml:"sections"`
			StrippedCode string                `json:"stripped_code" yaml:"stripped_code"`
			Pairings     []annotate.Pairing    `json:"pairings" yaml:"pairings"`
			Diagnostics  []annotate.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
		}{
			File:         path,
			Language:     walker.DetectLanguage(filepath.Base(path)),
			Sections:     doc.Sections,
			StrippedCode: doc.StrippedCode,
			Pairings:     doc.Pairings,
			Diagnostics:  doc.Diagnostics,
		}

		switch parseFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(out)
		default:
			return fmt.Errorf("unknown format %q (want json or yaml)", parseFormat)
		}
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "json", "output format: json or yaml")
	parseCmd.Flags().BoolVar(&parseStripped, "stripped", false, "print only the stripped code")
	rootCmd.AddCommand(parseCmd)
}
