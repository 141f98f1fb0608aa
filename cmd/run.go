// File: cmd/run.go
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lirislabs/liris-cli/internal/config"
	"github.com/lirislabs/liris-cli/internal/input"
	"github.com/lirislabs/liris-cli/internal/observability"
	"github.com/lirislabs/liris-cli/internal/profile"
	"github.com/lirislabs/liris-cli/internal/sequencer"
)

// timeRound keeps reported durations readable.
const timeRound = 100 * time.Millisecond

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [platform]",
		Short: "Sends a prompt to a configured platform and prints the response",
		Long: strings.TrimSpace(`
Drives the platform's browser through OS-level mouse and keyboard input:
focuses the window, types the prompt, submits it, then injects a console
script to detect completion and copy the response text out through the
clipboard. The browser must already be open on the platform's page, and
the screen coordinates in the profile must match the current layout.

Do not touch the mouse or keyboard while a run is in flight; the first
Ctrl+C requests a clean stop at the next step boundary.`),
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("profiles.path", cmd.Flags().Lookup("profiles")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("failed to re-unmarshal config with flag overrides: %w", err)
			}

			prompt := viper.GetString("prompt")
			if prompt == "" {
				return errors.New("a non-empty --prompt is required")
			}

			store, err := profile.Load(cfg.Profiles.Path)
			if err != nil {
				return err
			}
			plat, err := store.Find(args[0])
			if err != nil {
				return err
			}

			seq, err := sequencer.New(input.NewSystemDrivers(), cfg.Sequencer, cfg.Console)
			if err != nil {
				return err
			}

			// The first interrupt asks the run to stop cleanly at a step
			// boundary; a second one kills the process the usual way.
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			run, err := seq.Start(ctx, plat, prompt)
			if err != nil {
				return err
			}
			logger.Info("Run started",
				zap.String("run_id", run.ID.String()),
				zap.String("platform", plat.Name))

			for {
				select {
				case ev := <-run.Events():
					logger.Info("Step", zap.String("state", ev.State.String()), zap.String("detail", ev.Message))
				case <-run.Done():
					res := run.Result()
					if !res.Success {
						return fmt.Errorf("run failed after %s: %w", res.Duration.Round(timeRound), res.Err)
					}
					if res.Degraded {
						logger.Warn("Completion was never detected; response may be truncated")
					}
					fmt.Fprintln(cmd.OutOrStdout(), res.Text)
					return nil
				}
			}
		},
	}

	runCmd.Flags().StringP("prompt", "p", "", "prompt text to send")
	runCmd.Flags().String("profiles", "", "path to the platform profiles file")
	return runCmd
}
