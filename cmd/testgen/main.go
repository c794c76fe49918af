// Package main is the entry point for the testgen CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JayPatil165/TestGen-AI/internal/debug"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags
var (
	debugFlag bool
)

// newRootCmd creates and returns the root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testgen",
		Short: "Language-agnostic test execution and classification",
		Long: `Testgen detects the language and test framework of a project, runs the
native test command, and normalizes the output into one unified result
model regardless of framework.

GETTING STARTED:
  1. See what testgen thinks your project is:
     $ testgen detect

  2. Run the tests:
     $ testgen run

COMMON USAGE PATTERNS:
  • Run a subset of tests:
    $ testgen run --pattern TestLogin

  • Run several sub-projects concurrently:
    $ testgen run services/api services/worker web

  • Separate fast and slow tests before running:
    $ testgen classify

EXAMPLES:
  # Detect language and framework
  $ testgen detect ./my-project

  # Count test definitions without executing anything
  $ testgen count

  # Run with coverage, 10 minute timeout
  $ testgen run --coverage --timeout 10m

  # Enable debug output for troubleshooting
  $ testgen --debug run`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				debug.Enable()
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")

	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveRoot turns the optional positional directory argument into an
// absolute project root, defaulting to the current directory.
func resolveRoot(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return cwd, nil
}
