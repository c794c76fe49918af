package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JayPatil165/TestGen-AI/internal/registry"
	"github.com/JayPatil165/TestGen-AI/internal/reporter"
	"github.com/JayPatil165/TestGen-AI/internal/runner"
)

var (
	countLanguage  string
	countFramework string
	countList      bool
)

// countCmd represents the count command
var countCmd = &cobra.Command{
	Use:   "count [dir]",
	Short: "Count test definitions without running them",
	Long: `Count discovers the project's test files and counts individual test
definitions by the framework's naming convention. Nothing is executed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCountCommand,
}

func init() {
	countCmd.Flags().StringVar(&countLanguage, "language", "", "Override the detected language")
	countCmd.Flags().StringVar(&countFramework, "framework", "", "Override the detected framework")
	countCmd.Flags().BoolVar(&countList, "list", false, "List the discovered test files")
	rootCmd.AddCommand(countCmd)
}

func runCountCommand(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(args)
	if err != nil {
		return err
	}

	reg := registry.New()
	lang, fw, _ := resolvePairing(root, countLanguage, countFramework, reg)

	r := runner.NewFactory(reg).Runner(lang, fw)
	files, err := r.Discover(root)
	if err != nil {
		return fmt.Errorf("failed to discover test files: %w", err)
	}
	definitions, err := r.Count(root)
	if err != nil {
		return fmt.Errorf("failed to count tests: %w", err)
	}

	reporter.New(os.Stdout).Count(len(files), definitions)
	if countList {
		for _, f := range files {
			fmt.Println(" ", f)
		}
	}
	return nil
}
