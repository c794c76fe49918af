package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JayPatil165/TestGen-AI/internal/classify"
	"github.com/JayPatil165/TestGen-AI/internal/registry"
	"github.com/JayPatil165/TestGen-AI/internal/reporter"
	"github.com/JayPatil165/TestGen-AI/internal/runner"
)

var (
	classifyLanguage  string
	classifyFramework string
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify [dir]",
	Short: "Classify test files by purpose",
	Long: `Classify scans the project's test files and groups them by purpose:
unit, integration, e2e, performance or api.

Scoring is heuristic. Each file is matched against per-language signal
tables (library imports, call patterns, filename keywords); a file with no
specific markers counts as a unit test. Nothing is executed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassifyCommand,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyLanguage, "language", "", "Override the detected language")
	classifyCmd.Flags().StringVar(&classifyFramework, "framework", "", "Override the detected framework")
	rootCmd.AddCommand(classifyCmd)
}

func runClassifyCommand(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(args)
	if err != nil {
		return err
	}

	reg := registry.New()
	lang, fw, _ := resolvePairing(root, classifyLanguage, classifyFramework, reg)

	r := runner.NewFactory(reg).Runner(lang, fw)
	files, err := r.Discover(root)
	if err != nil {
		return fmt.Errorf("failed to discover test files: %w", err)
	}
	if len(files) == 0 {
		fmt.Printf("no test files found for %s/%s under %s\n", lang, fw, root)
		return nil
	}

	byType := classify.ClassifyDir(root, files, lang)
	reporter.New(os.Stdout).Classifications(byType)
	return nil
}
