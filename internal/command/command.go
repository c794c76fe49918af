// Package command builds test command invocations. Building is a pure
// function of (language, framework, scope, options): no I/O, no side
// effects, so every template is unit-testable without a filesystem.
package command

import (
	"fmt"
	"time"

	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

// Scope identifies what to run: a target directory plus an optional
// file/test pattern understood by the framework.
type Scope struct {
	Dir     string
	Pattern string
}

// Options enumerates the recognized execution toggles. Unrecognized
// concerns simply have no field here; they are ignored, not errors.
type Options struct {
	Coverage         bool
	Parallel         bool
	StructuredOutput bool
	Verbose          bool
	Timeout          time.Duration
}

// Invocation is the value object describing one test command execution.
// It is built fresh per run and never mutated after construction.
type Invocation struct {
	Program string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// String renders the invocation for logging.
func (inv Invocation) String() string {
	return fmt.Sprintf("%s %v (dir=%s)", inv.Program, inv.Args, inv.Dir)
}

// template renders the invocation for one (language, framework) pair.
type template func(scope Scope, opts Options) Invocation

type pairing struct {
	lang result.Language
	fw   result.Framework
}

// templates is the per-pairing invocation table. Adding a pairing is
// additive: register one more entry, no conditionals elsewhere.
var templates = map[pairing]template{
	{result.LangPython, result.FrameworkPytest}:         pytestTemplate,
	{result.LangJavaScript, result.FrameworkJest}:       jestTemplate,
	{result.LangTypeScript, result.FrameworkJest}:       jestTemplate,
	{result.LangJavaScript, result.FrameworkMocha}:      mochaTemplate,
	{result.LangTypeScript, result.FrameworkVitest}:     vitestTemplate,
	{result.LangTypeScript, result.FrameworkPlaywright}: playwrightTemplate,
	{result.LangGo, result.FrameworkGoTest}:             goTestTemplate,
	{result.LangRust, result.FrameworkCargo}:            cargoTemplate,
	{result.LangJava, result.FrameworkJUnit}:            mavenTemplate,
	{result.LangRuby, result.FrameworkRSpec}:            rspecTemplate,
	{result.LangPHP, result.FrameworkPHPUnit}:           phpunitTemplate,
	{result.LangCSharp, result.FrameworkXUnit}:          dotnetTemplate,
}

// Build renders the invocation for the given pairing. Unknown pairings fall
// back to the pytest template, matching the detector's lowest-risk default,
// so Build is total and the generic runner always has something to execute.
func Build(lang result.Language, fw result.Framework, scope Scope, opts Options) Invocation {
	tmpl, ok := templates[pairing{lang, fw}]
	if !ok {
		tmpl = pytestTemplate
	}
	inv := tmpl(scope, opts)
	inv.Timeout = opts.Timeout
	return inv
}

// Supported reports whether a dedicated template exists for the pairing.
func Supported(lang result.Language, fw result.Framework) bool {
	_, ok := templates[pairing{lang, fw}]
	return ok
}

func pytestTemplate(scope Scope, opts Options) Invocation {
	args := []string{"-m", "pytest", scope.Dir, "--tb=short"}
	if scope.Pattern != "" {
		args = append(args, "-k", scope.Pattern)
	}
	if opts.Verbose {
		args = append(args, "-v")
	} else {
		args = append(args, "-q")
	}
	if opts.StructuredOutput {
		args = append(args, "--json-report", "--json-report-file=/dev/stdout")
	}
	if opts.Coverage {
		args = append(args, "--cov")
	}
	if opts.Parallel {
		args = append(args, "-n", "auto")
	}
	return Invocation{Program: "python", Args: args, Dir: scope.Dir}
}

func jestTemplate(scope Scope, opts Options) Invocation {
	args := []string{"jest", "--rootDir", scope.Dir}
	if scope.Pattern != "" {
		args = append(args, "-t", scope.Pattern)
	}
	if opts.StructuredOutput {
		args = append(args, "--json")
	}
	if opts.Coverage {
		args = append(args, "--coverage")
	}
	if !opts.Parallel {
		args = append(args, "--runInBand")
	}
	if opts.Verbose {
		args = append(args, "--verbose")
	}
	return Invocation{Program: "npx", Args: args, Dir: scope.Dir}
}

func vitestTemplate(scope Scope, opts Options) Invocation {
	args := []string{"vitest", "run", "--root", scope.Dir}
	if scope.Pattern != "" {
		args = append(args, "-t", scope.Pattern)
	}
	if opts.StructuredOutput {
		args = append(args, "--reporter=json")
	}
	if opts.Coverage {
		args = append(args, "--coverage")
	}
	return Invocation{Program: "npx", Args: args, Dir: scope.Dir}
}

func mochaTemplate(scope Scope, opts Options) Invocation {
	args := []string{"mocha", "--recursive", scope.Dir}
	if scope.Pattern != "" {
		args = append(args, "--grep", scope.Pattern)
	}
	return Invocation{Program: "npx", Args: args, Dir: scope.Dir}
}

func playwrightTemplate(scope Scope, opts Options) Invocation {
	args := []string{"playwright", "test"}
	if scope.Pattern != "" {
		args = append(args, "--grep", scope.Pattern)
	}
	if opts.Verbose {
		args = append(args, "--reporter=list")
	}
	return Invocation{Program: "npx", Args: args, Dir: scope.Dir}
}

func goTestTemplate(scope Scope, opts Options) Invocation {
	args := []string{"test"}
	if opts.StructuredOutput {
		args = append(args, "-json")
	}
	if opts.Verbose {
		args = append(args, "-v")
	}
	if opts.Coverage {
		args = append(args, "-cover")
	}
	if scope.Pattern != "" {
		args = append(args, "-run", scope.Pattern)
	}
	args = append(args, "./...")
	return Invocation{Program: "go", Args: args, Dir: scope.Dir}
}

func cargoTemplate(scope Scope, opts Options) Invocation {
	args := []string{"test"}
	if scope.Pattern != "" {
		args = append(args, scope.Pattern)
	}
	if opts.Verbose {
		args = append(args, "--", "--nocapture")
	}
	return Invocation{Program: "cargo", Args: args, Dir: scope.Dir}
}

func mavenTemplate(scope Scope, opts Options) Invocation {
	args := []string{"test", "-B"}
	if scope.Pattern != "" {
		args = append(args, "-Dtest="+scope.Pattern)
	}
	return Invocation{Program: "mvn", Args: args, Dir: scope.Dir}
}

func rspecTemplate(scope Scope, opts Options) Invocation {
	args := []string{}
	if scope.Pattern != "" {
		args = append(args, "-e", scope.Pattern)
	}
	if opts.StructuredOutput {
		args = append(args, "--format", "json")
	}
	return Invocation{Program: "rspec", Args: args, Dir: scope.Dir}
}

func phpunitTemplate(scope Scope, opts Options) Invocation {
	args := []string{scope.Dir}
	if scope.Pattern != "" {
		args = append(args, "--filter", scope.Pattern)
	}
	return Invocation{Program: "phpunit", Args: args, Dir: scope.Dir}
}

func dotnetTemplate(scope Scope, opts Options) Invocation {
	args := []string{"test"}
	if scope.Pattern != "" {
		args = append(args, "--filter", scope.Pattern)
	}
	return Invocation{Program: "dotnet", Args: args, Dir: scope.Dir}
}
