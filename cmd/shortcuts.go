// File: cmd/shortcuts.go
package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lirislabs/liris-cli/internal/console"
)

// newShortcutsCmd creates the `shortcuts` command, a quick reference for
// which keys the bridge will press on this machine.
func newShortcutsCmd() *cobra.Command {
	var goos string

	shortcutsCmd := &cobra.Command{
		Use:   "shortcuts [browser]",
		Short: "Shows the devtools key plan for a browser on this OS",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			browsers := console.Known()
			if len(args) == 1 {
				browsers = []string{args[0]}
			}
			out := cmd.OutOrStdout()
			for _, b := range browsers {
				sc, err := console.Lookup(b, goos)
				if err != nil {
					if len(args) == 1 {
						return err
					}
					continue
				}
				var chords []string
				for _, c := range sc.Open {
					chords = append(chords, strings.Join(c, "+"))
				}
				fmt.Fprintf(out, "%-8s open: %s", console.Normalize(b), strings.Join(chords, " then "))
				if len(sc.TabNav) > 0 {
					fmt.Fprintf(out, "  console tab: %s", strings.Join(sc.TabNav, "+"))
				}
				fmt.Fprintln(out)
				if sc.Note != "" {
					fmt.Fprintf(out, "         note: %s\n", sc.Note)
				}
			}
			return nil
		},
	}

	shortcutsCmd.Flags().StringVar(&goos, "os", runtime.GOOS, "target OS (windows, linux, darwin)")
	return shortcutsCmd
}
