package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/macsetup/internal/app"
	"github.com/felixgeelhaar/macsetup/internal/domain/config"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

var (
	// Global flags
	cfgFile     string
	interactive bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "macsetup",
	Short: "Provision a macOS development workstation",
	Long: `Macsetup provisions a macOS development workstation in ordered phases:
core tools, packages, shell, git, editors, containers, runtimes, mobile
toolchains, and system settings.

Every action is idempotent; re-running the tool skips what is already
in place. The run ends with a validation report of the live system.`,
	SilenceErrors: true, // We format errors ourselves
	SilenceUsage:  true, // Don't show usage on error
	RunE: func(cmd *cobra.Command, _ []string) error {
		err := app.Run(cmd.Context(), app.Options{
			ConfigPath:  cfgFile,
			Interactive: interactive,
			Verbose:     verbose,
			TTY:         isTerminal(os.Stdout),
			In:          cmd.InOrStdin(),
			Out:         cmd.OutOrStdout(),
		})
		if err != nil {
			printError(err)
		}
		return err
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().BoolVarP(&interactive, "interactive", "i", false, "choose phases before running")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// exitStatus maps an aborted run to the process exit code. When the
// failure was a command that exited nonzero, that status is
// propagated; everything else exits 1.
func exitStatus(err error) int {
	var cmdErr *ports.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code > 0 {
		return cmdErr.Code
	}
	return 1
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
