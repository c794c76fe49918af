// Package runner ties detection, command building, supervised execution and
// parsing together behind one interface per (language, framework) pairing.
package runner

import (
	"context"
	"os"
	"regexp"
	"time"

	"github.com/JayPatil165/TestGen-AI/internal/command"
	"github.com/JayPatil165/TestGen-AI/internal/debug"
	"github.com/JayPatil165/TestGen-AI/internal/executor"
	"github.com/JayPatil165/TestGen-AI/internal/parser"
	"github.com/JayPatil165/TestGen-AI/internal/registry"
	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

// Options are the execution toggles a caller can request for one run.
// They mirror command.Options minus the structured-output flag, which the
// runner decides for itself from the framework descriptor.
type Options struct {
	Coverage bool
	Parallel bool
	Verbose  bool
	Timeout  time.Duration
}

// Runner executes one framework's tests and reports on its test files.
//
// Implementations are stateless and safe for concurrent use; all per-run
// state lives in the arguments and the returned values.
type Runner interface {
	// Language returns the runner's source language.
	Language() result.Language
	// Framework returns the runner's test framework.
	Framework() result.Framework
	// Discover returns the framework's test files under root, relative to
	// root, in sorted order.
	Discover(root string) ([]string, error)
	// Count returns the number of test definitions in the framework's test
	// files under root, without executing anything.
	Count(root string) (int, error)
	// Run executes the tests in scope and returns the normalized result.
	// The error is non-nil only for infrastructure failures; test failures
	// are reported inside the SuiteResult.
	Run(ctx context.Context, scope command.Scope, opts Options) (*result.SuiteResult, error)
}

// frameworkRunner is the standard Runner for any registered pairing. All
// per-framework variation lives in the descriptor, the command template and
// the parser strategy, so one implementation covers every pairing.
type frameworkRunner struct {
	lang result.Language
	fw   result.Framework
	desc *registry.Descriptor

	supervisor *executor.Supervisor
	parser     *parser.Parser
}

func (r *frameworkRunner) Language() result.Language   { return r.lang }
func (r *frameworkRunner) Framework() result.Framework { return r.fw }

func (r *frameworkRunner) Discover(root string) ([]string, error) {
	return discover(root, r.desc.TestGlobs)
}

func (r *frameworkRunner) Count(root string) (int, error) {
	files, err := r.Discover(root)
	if err != nil {
		return 0, err
	}
	return countDefinitions(root, files, r.desc.CountPattern)
}

func (r *frameworkRunner) Run(ctx context.Context, scope command.Scope, opts Options) (*result.SuiteResult, error) {
	cmdOpts := command.Options{
		Coverage:         opts.Coverage,
		Parallel:         opts.Parallel,
		Verbose:          opts.Verbose,
		Timeout:          opts.Timeout,
		StructuredOutput: r.desc.Format == registry.FormatStructured,
	}
	inv := command.Build(r.lang, r.fw, scope, cmdOpts)

	raw, err := r.supervisor.Execute(ctx, inv)
	if err != nil {
		return nil, err
	}
	suite := r.parser.Parse(raw, r.lang, r.fw)
	debug.Log("suite finished: %s", suite.Summary())
	return suite, nil
}

// countDefinitions sums pattern matches across the given files. Unreadable
// files are skipped; a missing pattern counts files instead, so Count stays
// total for every descriptor.
func countDefinitions(root string, files []string, pattern string) (int, error) {
	if pattern == "" {
		return len(files), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, f := range files {
		content, err := os.ReadFile(joinRoot(root, f))
		if err != nil {
			continue
		}
		total += len(re.FindAllIndex(content, -1))
	}
	return total, nil
}
