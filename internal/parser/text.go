package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

// Each framework's line rules live in their own block so a format change in
// one framework cannot corrupt parsing of another.

// --- pytest ---

var (
	pytestTestLineRe = regexp.MustCompile(`^(\S+::\S+)\s+(PASSED|FAILED|SKIPPED|ERROR|XFAIL|XPASS)\b`)
	pytestSummaryRe  = regexp.MustCompile(`(\d+)\s+(passed|failed|skipped|error(?:s)?)`)
	pytestTimeRe     = regexp.MustCompile(`in\s+([0-9.]+)s`)
)

func parsePytestText(output string) ([]result.Test, float64) {
	var tests []result.Test
	var duration float64

	for _, line := range splitLines(output) {
		if m := pytestTestLineRe.FindStringSubmatch(line); m != nil {
			status := result.StatusErrored
			switch m[2] {
			case "PASSED", "XPASS":
				status = result.StatusPassed
			case "FAILED":
				status = result.StatusFailed
			case "SKIPPED", "XFAIL":
				status = result.StatusSkipped
			}
			tests = append(tests, result.Test{Name: m[1], Status: status})
		}
		if m := pytestTimeRe.FindStringSubmatch(line); m != nil {
			duration = parseFloat(m[1])
		}
	}
	if len(tests) > 0 {
		return tests, duration
	}

	// Quiet runs only print the summary line, e.g. "3 passed, 1 failed in 0.5s".
	var passed, failed, skipped, errored int
	for _, m := range pytestSummaryRe.FindAllStringSubmatch(output, -1) {
		n := parseInt(m[1])
		switch {
		case m[2] == "passed":
			passed = n
		case m[2] == "failed":
			failed = n
		case m[2] == "skipped":
			skipped = n
		default:
			errored = n
		}
	}
	return synthesizeTests(passed, failed, skipped, errored), duration
}

// --- jest ---

var (
	jestTestLineRe = regexp.MustCompile(`^\s*(✓|✔|✗|✕|○)\s+(.+?)(?:\s+\((\d+)\s*ms\))?$`)
	jestSummaryRe  = regexp.MustCompile(`Tests:\s+(.*)`)
	jestCountRe    = regexp.MustCompile(`(\d+)\s+(passed|failed|skipped|pending|todo)`)
	jestTimeRe     = regexp.MustCompile(`Time:\s+([0-9.]+)\s*s`)
)

func parseJestText(output string) ([]result.Test, float64) {
	var tests []result.Test
	var duration float64

	for _, line := range splitLines(output) {
		if m := jestTestLineRe.FindStringSubmatch(line); m != nil {
			status := result.StatusPassed
			switch m[1] {
			case "✗", "✕":
				status = result.StatusFailed
			case "○":
				status = result.StatusSkipped
			}
			test := result.Test{Name: strings.TrimSpace(m[2]), Status: status}
			if m[3] != "" {
				test.Duration = parseFloat(m[3]) / 1000.0
			}
			tests = append(tests, test)
		}
		if m := jestTimeRe.FindStringSubmatch(line); m != nil {
			duration = parseFloat(m[1])
		}
	}
	if len(tests) > 0 {
		return tests, duration
	}

	// Fall back to the "Tests: 1 failed, 2 passed, 3 total" summary.
	if m := jestSummaryRe.FindStringSubmatch(output); m != nil {
		var passed, failed, skipped int
		for _, c := range jestCountRe.FindAllStringSubmatch(m[1], -1) {
			n := parseInt(c[1])
			switch c[2] {
			case "passed":
				passed = n
			case "failed":
				failed = n
			default:
				skipped += n
			}
		}
		return synthesizeTests(passed, failed, skipped, 0), duration
	}
	return nil, duration
}

// --- go test ---

var (
	goTestLineRe = regexp.MustCompile(`^\s*--- (PASS|FAIL|SKIP): (\S+) \(([0-9.]+)s\)`)
	goPackageRe  = regexp.MustCompile(`^(?:ok|FAIL)\s+\S+\s+([0-9.]+)s`)
)

func parseGoTestText(output string) ([]result.Test, float64) {
	var tests []result.Test
	var duration float64

	for _, line := range splitLines(output) {
		if m := goTestLineRe.FindStringSubmatch(line); m != nil {
			status := result.StatusPassed
			switch m[1] {
			case "FAIL":
				status = result.StatusFailed
			case "SKIP":
				status = result.StatusSkipped
			}
			tests = append(tests, result.Test{
				Name:     m[2],
				Status:   status,
				Duration: parseFloat(m[3]),
			})
		}
		if m := goPackageRe.FindStringSubmatch(line); m != nil {
			duration += parseFloat(m[1])
		}
	}
	return tests, duration
}

// --- cargo ---

var (
	cargoTestLineRe = regexp.MustCompile(`^test\s+(\S+)\s+\.\.\.\s+(ok|FAILED|ignored)`)
	cargoTimeRe     = regexp.MustCompile(`finished in ([0-9.]+)s`)
)

func parseCargoText(output string) ([]result.Test, float64) {
	var tests []result.Test
	var duration float64

	for _, line := range splitLines(output) {
		if m := cargoTestLineRe.FindStringSubmatch(line); m != nil {
			status := result.StatusPassed
			switch m[2] {
			case "FAILED":
				status = result.StatusFailed
			case "ignored":
				status = result.StatusSkipped
			}
			tests = append(tests, result.Test{Name: m[1], Status: status})
		}
		if m := cargoTimeRe.FindStringSubmatch(line); m != nil {
			duration += parseFloat(m[1])
		}
	}
	return tests, duration
}

// --- maven / junit ---

var mavenSummaryRe = regexp.MustCompile(`Tests run:\s*(\d+),\s*Failures:\s*(\d+),\s*Errors:\s*(\d+),\s*Skipped:\s*(\d+)`)

func parseMavenText(output string) ([]result.Test, float64) {
	// Surefire prints per-class summaries plus a final aggregate; the last
	// match is the aggregate.
	matches := mavenSummaryRe.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return nil, 0
	}
	m := matches[len(matches)-1]
	total := parseInt(m[1])
	failed := parseInt(m[2])
	errored := parseInt(m[3])
	skipped := parseInt(m[4])
	passed := total - failed - errored - skipped
	if passed < 0 {
		passed = 0
	}
	return synthesizeTests(passed, failed, skipped, errored), 0
}

// --- rspec ---

var (
	rspecSummaryRe = regexp.MustCompile(`(\d+)\s+examples?,\s+(\d+)\s+failures?(?:,\s+(\d+)\s+pending)?`)
	rspecTimeRe    = regexp.MustCompile(`Finished in ([0-9.]+) seconds?`)
)

func parseRSpecText(output string) ([]result.Test, float64) {
	var duration float64
	if m := rspecTimeRe.FindStringSubmatch(output); m != nil {
		duration = parseFloat(m[1])
	}
	m := rspecSummaryRe.FindStringSubmatch(output)
	if m == nil {
		return nil, duration
	}
	total := parseInt(m[1])
	failed := parseInt(m[2])
	pending := parseInt(m[3])
	passed := total - failed - pending
	if passed < 0 {
		passed = 0
	}
	return synthesizeTests(passed, failed, pending, 0), duration
}

// --- phpunit ---

// The summary counts are extracted with one regex each: PHPUnit prints
// Errors before Failures, and older versions vary the order further, so a
// single positional regex cannot be trusted.
var (
	phpunitOKRe      = regexp.MustCompile(`OK \((\d+) tests?`)
	phpunitTestsRe   = regexp.MustCompile(`Tests:\s*(\d+)`)
	phpunitFailedRe  = regexp.MustCompile(`Failures:\s*(\d+)`)
	phpunitErrorsRe  = regexp.MustCompile(`Errors:\s*(\d+)`)
	phpunitSkippedRe = regexp.MustCompile(`Skipped:\s*(\d+)`)
	phpunitTimeRe    = regexp.MustCompile(`Time:\s*(?:(\d+):)?([0-9.]+)`)
)

func parsePHPUnitText(output string) ([]result.Test, float64) {
	var duration float64
	if m := phpunitTimeRe.FindStringSubmatch(output); m != nil {
		duration = parseFloat(m[2])
		if m[1] != "" {
			duration += float64(parseInt(m[1])) * 60
		}
	}

	if m := phpunitOKRe.FindStringSubmatch(output); m != nil {
		return synthesizeTests(parseInt(m[1]), 0, 0, 0), duration
	}
	if m := phpunitTestsRe.FindStringSubmatch(output); m != nil {
		total := parseInt(m[1])
		failed := submatchInt(phpunitFailedRe, output)
		errored := submatchInt(phpunitErrorsRe, output)
		skipped := submatchInt(phpunitSkippedRe, output)
		passed := total - failed - errored - skipped
		if passed < 0 {
			passed = 0
		}
		return synthesizeTests(passed, failed, skipped, errored), duration
	}
	return nil, duration
}

// submatchInt returns the first capture of re in output as an int, 0 when
// absent.
func submatchInt(re *regexp.Regexp, output string) int {
	if m := re.FindStringSubmatch(output); m != nil {
		return parseInt(m[1])
	}
	return 0
}

// --- mocha ---

var (
	mochaTestLineRe = regexp.MustCompile(`^\s*(✓|✔|✗|✖|-)\s+(.+?)(?:\s+\((\d+)ms\))?$`)
	mochaPassingRe  = regexp.MustCompile(`(\d+)\s+passing(?:\s+\(([0-9.]+[ms]+)\))?`)
	mochaFailingRe  = regexp.MustCompile(`(\d+)\s+failing`)
	mochaPendingRe  = regexp.MustCompile(`(\d+)\s+pending`)
)

func parseMochaText(output string) ([]result.Test, float64) {
	var tests []result.Test
	for _, line := range splitLines(output) {
		if m := mochaTestLineRe.FindStringSubmatch(line); m != nil {
			status := result.StatusPassed
			switch m[1] {
			case "✗", "✖":
				status = result.StatusFailed
			case "-":
				status = result.StatusSkipped
			}
			test := result.Test{Name: strings.TrimSpace(m[2]), Status: status}
			if m[3] != "" {
				test.Duration = parseFloat(m[3]) / 1000.0
			}
			tests = append(tests, test)
		}
	}
	if len(tests) > 0 {
		return tests, 0
	}

	var passed, failed, pending int
	if m := mochaPassingRe.FindStringSubmatch(output); m != nil {
		passed = parseInt(m[1])
	}
	if m := mochaFailingRe.FindStringSubmatch(output); m != nil {
		failed = parseInt(m[1])
	}
	if m := mochaPendingRe.FindStringSubmatch(output); m != nil {
		pending = parseInt(m[1])
	}
	return synthesizeTests(passed, failed, pending, 0), 0
}

// --- playwright ---

var (
	playwrightPassedRe  = regexp.MustCompile(`(\d+)\s+passed\s+\(([0-9.]+)(m?s)\)`)
	playwrightFailedRe  = regexp.MustCompile(`(\d+)\s+failed`)
	playwrightSkippedRe = regexp.MustCompile(`(\d+)\s+skipped`)
)

func parsePlaywrightText(output string) ([]result.Test, float64) {
	var passed, failed, skipped int
	var duration float64
	if m := playwrightPassedRe.FindStringSubmatch(output); m != nil {
		passed = parseInt(m[1])
		duration = parseFloat(m[2])
		if m[3] == "ms" {
			duration /= 1000.0
		}
	}
	if m := playwrightFailedRe.FindStringSubmatch(output); m != nil {
		failed = parseInt(m[1])
	}
	if m := playwrightSkippedRe.FindStringSubmatch(output); m != nil {
		skipped = parseInt(m[1])
	}
	return synthesizeTests(passed, failed, skipped, 0), duration
}

// --- dotnet test ---

var dotnetSummaryRe = regexp.MustCompile(`Failed:\s*(\d+),\s*Passed:\s*(\d+),\s*Skipped:\s*(\d+),\s*Total:\s*(\d+)(?:,\s*Duration:\s*([0-9.]+)\s*(m?s))?`)

func parseDotnetText(output string) ([]result.Test, float64) {
	m := dotnetSummaryRe.FindStringSubmatch(output)
	if m == nil {
		return nil, 0
	}
	failed := parseInt(m[1])
	passed := parseInt(m[2])
	skipped := parseInt(m[3])
	var duration float64
	if m[5] != "" {
		duration = parseFloat(m[5])
		if m[6] == "ms" {
			duration /= 1000.0
		}
	}
	return synthesizeTests(passed, failed, skipped, 0), duration
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
