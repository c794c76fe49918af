package runner

import (
	"context"

	"github.com/JayPatil165/TestGen-AI/internal/command"
	"github.com/JayPatil165/TestGen-AI/internal/executor"
	"github.com/JayPatil165/TestGen-AI/internal/parser"
	"github.com/JayPatil165/TestGen-AI/internal/registry"
	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

// Factory hands out runners for (language, framework) pairings. The heavy
// collaborators (supervisor, parser, registry) are built once and shared by
// every runner the factory produces.
type Factory struct {
	registry   *registry.Registry
	supervisor *executor.Supervisor
	parser     *parser.Parser
}

// NewFactory creates a factory over the given registry. A nil registry
// selects the default table.
func NewFactory(reg *registry.Registry) *Factory {
	if reg == nil {
		reg = registry.New()
	}
	return &Factory{
		registry:   reg,
		supervisor: executor.NewSupervisor(0, 0),
		parser:     parser.New(),
	}
}

// Runner returns the runner for the pairing. An empty framework selects the
// language's registered default. Unknown pairings get the generic runner,
// so the return value is never nil and execution can always proceed,
// degraded at worst.
func (f *Factory) Runner(lang result.Language, fw result.Framework) Runner {
	if fw == "" || fw == result.FrameworkGeneric {
		fw = f.registry.DefaultFramework(lang)
	}
	if desc, ok := f.registry.Lookup(lang, fw); ok && command.Supported(lang, fw) {
		return &frameworkRunner{
			lang:       lang,
			fw:         fw,
			desc:       desc,
			supervisor: f.supervisor,
			parser:     f.parser,
		}
	}
	return &genericRunner{
		lang:       lang,
		supervisor: f.supervisor,
		parser:     f.parser,
	}
}

// genericRunner is the last-resort runner for unsupported pairings. It
// discovers files by a filename heuristic, assumes a pytest-style
// invocation and relies on the parser's generic token tier.
type genericRunner struct {
	lang       result.Language
	supervisor *executor.Supervisor
	parser     *parser.Parser
}

// genericGlobs approximates "looks like a test file" across ecosystems.
var genericGlobs = []string{
	"**/test_*.*",
	"**/*_test.*",
	"**/*.test.*",
	"**/*.spec.*",
}

func (r *genericRunner) Language() result.Language   { return r.lang }
func (r *genericRunner) Framework() result.Framework { return result.FrameworkGeneric }

func (r *genericRunner) Discover(root string) ([]string, error) {
	return discover(root, genericGlobs)
}

// Count falls back to counting test files; without a framework there is no
// reliable per-definition pattern.
func (r *genericRunner) Count(root string) (int, error) {
	files, err := r.Discover(root)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

func (r *genericRunner) Run(ctx context.Context, scope command.Scope, opts Options) (*result.SuiteResult, error) {
	inv := command.Build(r.lang, result.FrameworkGeneric, scope, command.Options{
		Coverage: opts.Coverage,
		Parallel: opts.Parallel,
		Verbose:  opts.Verbose,
		Timeout:  opts.Timeout,
	})
	raw, err := r.supervisor.Execute(ctx, inv)
	if err != nil {
		return nil, err
	}
	return r.parser.Parse(raw, r.lang, result.FrameworkGeneric), nil
}
