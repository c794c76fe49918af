// Package parser normalizes heterogeneous test framework output into the
// unified suite result model.
//
// Dispatch is a lookup table keyed by (language, framework). Every entry
// runs up to three tiers on the same raw output: the structured strategy
// (machine-readable report requested via a framework flag), then the
// framework's text rules, then the generic PASS/FAIL token scan. Only when
// all tiers recognize zero tests does the result degrade to exit code and
// aggregate duration. Execution results are never lost, only downgraded in
// fidelity.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/JayPatil165/TestGen-AI/internal/debug"
	"github.com/JayPatil165/TestGen-AI/internal/executor"
	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

// structuredFunc decodes a machine-readable report from the raw stdout.
// ok is false when the output holds no decodable report (wrong flag,
// malformed or truncated JSON); the caller then falls back to text rules.
type structuredFunc func(stdout string) (tests []result.Test, duration float64, ok bool)

// textFunc extracts tests from free-form console output with
// framework-specific line rules. An empty slice means nothing recognizable.
type textFunc func(output string) (tests []result.Test, duration float64)

type strategy struct {
	structured structuredFunc
	text       textFunc
}

type pairing struct {
	lang result.Language
	fw   result.Framework
}

// Parser dispatches raw execution results to per-framework strategies.
// The table is immutable after construction.
type Parser struct {
	strategies map[pairing]strategy
}

// New builds the parser with all registered framework strategies.
func New() *Parser {
	return &Parser{
		strategies: map[pairing]strategy{
			{result.LangPython, result.FrameworkPytest}:         {structured: parsePytestJSON, text: parsePytestText},
			{result.LangJavaScript, result.FrameworkJest}:       {structured: parseJestJSON, text: parseJestText},
			{result.LangTypeScript, result.FrameworkJest}:       {structured: parseJestJSON, text: parseJestText},
			{result.LangTypeScript, result.FrameworkVitest}:     {structured: parseJestJSON, text: parseJestText},
			{result.LangJavaScript, result.FrameworkMocha}:      {text: parseMochaText},
			{result.LangTypeScript, result.FrameworkPlaywright}: {text: parsePlaywrightText},
			{result.LangGo, result.FrameworkGoTest}:             {structured: parseGoTestJSON, text: parseGoTestText},
			{result.LangRust, result.FrameworkCargo}:            {structured: parseCargoJSON, text: parseCargoText},
			{result.LangJava, result.FrameworkJUnit}:            {text: parseMavenText},
			{result.LangRuby, result.FrameworkRSpec}:            {structured: parseRSpecJSON, text: parseRSpecText},
			{result.LangPHP, result.FrameworkPHPUnit}:           {text: parsePHPUnitText},
			{result.LangCSharp, result.FrameworkXUnit}:          {text: parseDotnetText},
		},
	}
}

// Parse converts a raw execution result into the normalized suite result.
// It never fails and never returns nil.
func (p *Parser) Parse(raw *executor.RawResult, lang result.Language, fw result.Framework) *result.SuiteResult {
	suite := &result.SuiteResult{
		Language:  lang,
		Framework: fw,
		ExitCode:  raw.ExitCode,
		TimedOut:  raw.TimedOut,
	}
	combined := raw.Stdout
	if raw.Stderr != "" {
		combined += "\n" + raw.Stderr
	}

	entry, known := p.strategies[pairing{lang, fw}]

	if known && entry.structured != nil {
		if tests, duration, ok := entry.structured(raw.Stdout); ok && len(tests) > 0 {
			debug.LogParse("structured", len(tests), false)
			suite.Tests = tests
			suite.TotalDuration = pickDuration(duration, raw.Duration)
			return suite
		}
	}

	if known && entry.text != nil {
		if tests, duration := entry.text(combined); len(tests) > 0 {
			debug.LogParse("text", len(tests), false)
			suite.Tests = tests
			suite.TotalDuration = pickDuration(duration, raw.Duration)
			return suite
		}
	}

	// Last line-oriented resort, and the whole story for unknown pairings.
	if tests := parseGenericTokens(combined); len(tests) > 0 {
		debug.LogParse("generic", len(tests), false)
		suite.Tests = tests
		suite.TotalDuration = raw.Duration
		return suite
	}

	debug.LogParse("degraded", 0, true)
	suite.Degraded = true
	suite.TotalDuration = raw.Duration
	suite.Raw = combined
	return suite
}

// pickDuration prefers the duration the framework reported, falling back
// to the measured wall clock.
func pickDuration(parsed, measured float64) float64 {
	if parsed > 0 {
		return parsed
	}
	return measured
}

// genericTokenRe matches obvious status-token lines such as
// "FAIL: test_foo", "PASS - test_bar" or "PASSED test_baz".
var genericTokenRe = regexp.MustCompile(`(?m)^\s*(PASS|FAIL|SKIP|ERROR)(?:ED)?\s*[:\-]?\s+(\S+)`)

// parseGenericTokens applies the exit-code-agnostic heuristics of the
// generic runner: count lines with obvious PASS/FAIL tokens.
func parseGenericTokens(output string) []result.Test {
	var tests []result.Test
	for _, m := range genericTokenRe.FindAllStringSubmatch(output, -1) {
		status := result.StatusPassed
		switch m[1] {
		case "FAIL":
			status = result.StatusFailed
		case "SKIP":
			status = result.StatusSkipped
		case "ERROR":
			status = result.StatusErrored
		}
		tests = append(tests, result.Test{Name: m[2], Status: status})
	}
	return tests
}

// synthesizeTests expands aggregate counts into anonymous entries so that
// summary-only output still yields a non-degraded suite whose counts add
// up. Frameworks that print per-test lines never reach this path.
func synthesizeTests(passed, failed, skipped, errored int) []result.Test {
	total := passed + failed + skipped + errored
	if total <= 0 {
		return nil
	}
	tests := make([]result.Test, 0, total)
	add := func(n int, status result.Status) {
		for i := 0; i < n; i++ {
			tests = append(tests, result.Test{
				Name:   string(status) + " #" + strconv.Itoa(len(tests)+1),
				Status: status,
			})
		}
	}
	add(passed, result.StatusPassed)
	add(failed, result.StatusFailed)
	add(skipped, result.StatusSkipped)
	add(errored, result.StatusErrored)
	return tests
}

// firstJSONDocument returns the first decodable JSON object or array in s.
// Framework output often surrounds the report with plain text (warnings,
// summary lines), so decoding the whole stream rarely works.
func firstJSONDocument(s string) (string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		if doc, ok := balancedFrom(s, i); ok {
			return doc, true
		}
	}
	return "", false
}

// balancedFrom extracts a balanced JSON value starting at index i, honoring
// string literals and escapes. Truncated documents report !ok.
func balancedFrom(s string, i int) (string, bool) {
	open := s[i]
	var closer byte = '}'
	if open == '[' {
		closer = ']'
	}
	depth := 0
	inString := false
	for j := i; j < len(s); j++ {
		c := s[j]
		if inString {
			switch c {
			case '\\':
				j++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[i : j+1], true
			}
		}
	}
	return "", false
}

// splitLines splits output into trimmed-right lines.
func splitLines(output string) []string {
	lines := strings.Split(output, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	return lines
}
