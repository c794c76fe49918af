// Package result provides the normalized test result and classification
// types shared by the detector, runners and parsers.
package result

import "fmt"

// Language identifies one supported source-code ecosystem.
type Language string

// Supported languages, in detection priority order.
const (
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangJava       Language = "java"
	LangRuby       Language = "ruby"
	LangPHP        Language = "php"
	LangCSharp     Language = "csharp"
	LangUnknown    Language = "unknown"
)

// Framework identifies a test-execution tool associated with a Language.
type Framework string

// Supported test frameworks.
const (
	FrameworkPytest     Framework = "pytest"
	FrameworkJest       Framework = "jest"
	FrameworkVitest     Framework = "vitest"
	FrameworkMocha      Framework = "mocha"
	FrameworkGoTest     Framework = "gotest"
	FrameworkCargo      Framework = "cargo"
	FrameworkJUnit      Framework = "junit"
	FrameworkRSpec      Framework = "rspec"
	FrameworkPHPUnit    Framework = "phpunit"
	FrameworkXUnit      Framework = "xunit"
	FrameworkPlaywright Framework = "playwright"
	FrameworkGeneric    Framework = "generic"
)

// Status is the outcome of a single test.
type Status string

// Test outcomes.
const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusErrored Status = "errored"
)

// Failure carries the details of a failed or errored test.
type Failure struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// Test is the normalized result of one individual test.
type Test struct {
	Name     string   `json:"name"`
	Status   Status   `json:"status"`
	Duration float64  `json:"duration"` // seconds, 0.0 when the source format has none
	Failure  *Failure `json:"failure,omitempty"`
}

// SuiteResult is the normalized result of one test command invocation.
//
// When Degraded is true the per-test breakdown could not be recovered and
// only ExitCode and TotalDuration are trustworthy; Raw holds the captured
// output for caller inspection in that case.
type SuiteResult struct {
	Language      Language  `json:"language"`
	Framework     Framework `json:"framework"`
	Tests         []Test    `json:"tests"`
	TotalDuration float64   `json:"totalDuration"` // seconds
	ExitCode      int       `json:"exitCode"`
	TimedOut      bool      `json:"timedOut,omitempty"`
	Degraded      bool      `json:"degraded,omitempty"`
	Raw           string    `json:"raw,omitempty"`
}

// Total returns the number of individual tests in the suite.
func (s *SuiteResult) Total() int {
	return len(s.Tests)
}

// Passed returns the number of passed tests.
func (s *SuiteResult) Passed() int { return s.countStatus(StatusPassed) }

// Failed returns the number of failed tests.
func (s *SuiteResult) Failed() int { return s.countStatus(StatusFailed) }

// Skipped returns the number of skipped tests.
func (s *SuiteResult) Skipped() int { return s.countStatus(StatusSkipped) }

// Errored returns the number of errored tests.
func (s *SuiteResult) Errored() int { return s.countStatus(StatusErrored) }

func (s *SuiteResult) countStatus(status Status) int {
	n := 0
	for i := range s.Tests {
		if s.Tests[i].Status == status {
			n++
		}
	}
	return n
}

// Success reports whether the suite finished with no failures or errors.
// A degraded suite is successful only when the exit code is zero.
func (s *SuiteResult) Success() bool {
	if s.Degraded {
		return s.ExitCode == 0 && !s.TimedOut
	}
	return s.Failed() == 0 && s.Errored() == 0 && !s.TimedOut
}

// PassRate returns passed/total in [0, 1]. An empty suite has rate 0.0.
func (s *SuiteResult) PassRate() float64 {
	total := s.Total()
	if total == 0 {
		return 0.0
	}
	return float64(s.Passed()) / float64(total)
}

// FailedTests returns the failed and errored tests in suite order.
func (s *SuiteResult) FailedTests() []Test {
	var failed []Test
	for _, t := range s.Tests {
		if t.Status == StatusFailed || t.Status == StatusErrored {
			failed = append(failed, t)
		}
	}
	return failed
}

// Summary returns a one-line human-readable summary of the suite.
func (s *SuiteResult) Summary() string {
	status := "[PASS]"
	if !s.Success() {
		status = "[FAIL]"
	}
	if s.Degraded {
		return fmt.Sprintf("%s degraded (exit %d) in %.2fs [%s/%s]",
			status, s.ExitCode, s.TotalDuration, s.Language, s.Framework)
	}
	return fmt.Sprintf("%s %d/%d passed (%.1f%%) in %.2fs [%s/%s]",
		status, s.Passed(), s.Total(), s.PassRate()*100, s.TotalDuration, s.Language, s.Framework)
}

// Merge reduces independently completed suite results into one aggregate.
// The aggregate keeps the language/framework of the first suite, sums
// durations, concatenates tests in input order, and reports the worst exit
// code. Merging any degraded suite yields a degraded aggregate.
func Merge(suites ...*SuiteResult) *SuiteResult {
	merged := &SuiteResult{Language: LangUnknown, Framework: FrameworkGeneric}
	for i, s := range suites {
		if s == nil {
			continue
		}
		if i == 0 {
			merged.Language = s.Language
			merged.Framework = s.Framework
		}
		merged.Tests = append(merged.Tests, s.Tests...)
		merged.TotalDuration += s.TotalDuration
		if s.ExitCode != 0 && merged.ExitCode == 0 {
			merged.ExitCode = s.ExitCode
		}
		merged.TimedOut = merged.TimedOut || s.TimedOut
		merged.Degraded = merged.Degraded || s.Degraded
	}
	return merged
}
