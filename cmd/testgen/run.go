package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JayPatil165/TestGen-AI/internal/command"
	"github.com/JayPatil165/TestGen-AI/internal/detector"
	"github.com/JayPatil165/TestGen-AI/internal/executor"
	"github.com/JayPatil165/TestGen-AI/internal/registry"
	"github.com/JayPatil165/TestGen-AI/internal/reporter"
	"github.com/JayPatil165/TestGen-AI/internal/runner"
	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

var (
	runPattern   string
	runLanguage  string
	runFramework string
	runCoverage  bool
	runParallel  bool
	runVerbose   bool
	runTimeout   time.Duration
	runWorkers   int
	runYes       bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [dir...]",
	Short: "Run the project's tests",
	Long: `Run detects each target project's language and test framework, executes
the native test command, and prints a normalized result.

With several directories the suites run concurrently through a bounded
worker pool and a merged summary is printed at the end.

Exit codes:
  0 - All tests passed
  1 - Test failures, a timeout, or an infrastructure error`,
	RunE: runRunCommand,
}

func init() {
	runCmd.Flags().StringVarP(&runPattern, "pattern", "p", "", "Only run tests matching this pattern")
	runCmd.Flags().StringVar(&runLanguage, "language", "", "Override the detected language")
	runCmd.Flags().StringVar(&runFramework, "framework", "", "Override the detected framework")
	runCmd.Flags().BoolVar(&runCoverage, "coverage", false, "Collect coverage where the framework supports it")
	runCmd.Flags().BoolVar(&runParallel, "parallel", false, "Let the framework parallelize within the suite")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Verbose framework output")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Per-suite timeout (default 5m)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 4, "Concurrent suites when running multiple directories")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Do not ask for confirmation on low-confidence detection")
	rootCmd.AddCommand(runCmd)
}

func runRunCommand(cmd *cobra.Command, args []string) error {
	roots := args
	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		roots = []string{cwd}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := registry.New()
	factory := runner.NewFactory(reg)
	rep := reporter.New(os.Stdout)

	opts := runner.Options{
		Coverage: runCoverage,
		Parallel: runParallel,
		Verbose:  runVerbose,
		Timeout:  runTimeout,
	}

	jobs := make([]executor.SuiteJob, 0, len(roots))
	for _, root := range roots {
		lang, fw, det := resolvePairing(root, runLanguage, runFramework, reg)
		if runLanguage == "" && !confirmLowConfidence(det) {
			return fmt.Errorf("aborted: detection for %s was low confidence", root)
		}

		r := factory.Runner(lang, fw)
		scope := command.Scope{Dir: root, Pattern: runPattern}
		jobs = append(jobs, executor.SuiteJob{
			ID: root,
			Run: func(ctx context.Context) (*result.SuiteResult, error) {
				return r.Run(ctx, scope, opts)
			},
		})
	}

	pool := executor.NewPool(runWorkers)
	res := pool.Run(ctx, jobs, progressFunc(len(jobs)))

	for _, id := range res.Order {
		if err := res.Errors[id]; err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", id, err)
			continue
		}
		if suite, ok := res.Results[id]; ok {
			if len(jobs) > 1 {
				fmt.Printf("── %s ──\n", id)
			}
			rep.Suite(suite)
		}
	}

	if len(jobs) > 1 {
		merged := res.Merged()
		fmt.Printf("── total ──\n%s\n", merged.Summary())
	}

	if res.HasFailures() {
		return fmt.Errorf("test run failed")
	}
	return nil
}

// confirmLowConfidence asks the user whether to proceed when detection is a
// low-confidence guess. Non-interactive runs proceed without asking.
func confirmLowConfidence(det detector.Detection) bool {
	if runYes || det.Confidence != detector.ConfidenceLow {
		return true
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return true
	}

	proceed := true
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Detection is a low-confidence guess (%s/%s). Run anyway?",
			det.Language, det.Framework),
		Default: true,
	}
	if err := survey.AskOne(prompt, &proceed); err != nil {
		return false
	}
	return proceed
}

// progressFunc renders a progress bar for multi-suite runs on a terminal.
// Single suites and piped output get no bar.
func progressFunc(total int) executor.ProgressFunc {
	if total <= 1 || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("running suites"),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
	)
	return func(completed, _ int, _ string) {
		_ = bar.Set(completed)
	}
}
