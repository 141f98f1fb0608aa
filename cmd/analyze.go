// File: cmd/analyze.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lirislabs/liris-cli/internal/selector"
)

// newAnalyzeCmd creates the `analyze` command: run the selector generator
// against a saved markup snippet without touching any browser.
func newAnalyzeCmd() *cobra.Command {
	var showScripts bool

	analyzeCmd := &cobra.Command{
		Use:   "analyze [markup-file]",
		Short: "Derives detection and extraction config from a saved markup snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read markup: %w", err)
			}

			analysis := selector.Analyze(string(raw))
			out, err := yaml.Marshal(analysis)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))

			if !showScripts {
				return nil
			}
			detect, err := selector.BuildDetectionScript(analysis.Detection)
			if err != nil {
				return err
			}
			extract, err := selector.BuildExtractionScript(analysis.Extraction)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n# detection script\n%s\n\n# extraction script\n%s\n", detect, extract)
			return nil
		},
	}

	analyzeCmd.Flags().BoolVar(&showScripts, "scripts", false, "also print the generated console scripts")
	return analyzeCmd
}
