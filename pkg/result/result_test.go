package result

import (
	"math"
	"strings"
	"testing"
)

func suiteWith(statuses ...Status) *SuiteResult {
	s := &SuiteResult{Language: LangPython, Framework: FrameworkPytest}
	for i, status := range statuses {
		s.Tests = append(s.Tests, Test{Name: "t" + string(rune('a'+i)), Status: status})
	}
	return s
}

func TestSuiteResult_Counts(t *testing.T) {
	s := suiteWith(StatusPassed, StatusPassed, StatusFailed, StatusSkipped, StatusErrored)

	if s.Total() != 5 {
		t.Errorf("Total() = %d, want 5", s.Total())
	}
	if s.Passed() != 2 || s.Failed() != 1 || s.Skipped() != 1 || s.Errored() != 1 {
		t.Errorf("counts = %d/%d/%d/%d, want 2/1/1/1",
			s.Passed(), s.Failed(), s.Skipped(), s.Errored())
	}
	if got := s.Passed() + s.Failed() + s.Skipped() + s.Errored(); got != s.Total() {
		t.Errorf("status counts sum to %d, want Total() = %d", got, s.Total())
	}
}

func TestSuiteResult_PassRate(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     float64
	}{
		{"all passed", []Status{StatusPassed, StatusPassed}, 1.0},
		{"mixed", []Status{StatusPassed, StatusPassed, StatusPassed, StatusFailed, StatusSkipped}, 0.6},
		{"all failed", []Status{StatusFailed}, 0.0},
		{"empty suite", nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := suiteWith(tt.statuses...)
			got := s.PassRate()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PassRate() = %v, want %v", got, tt.want)
			}
			if got < 0.0 || got > 1.0 {
				t.Errorf("PassRate() = %v outside [0, 1]", got)
			}
			if math.IsNaN(got) {
				t.Error("PassRate() is NaN")
			}
		})
	}
}

func TestSuiteResult_Success(t *testing.T) {
	tests := []struct {
		name  string
		suite *SuiteResult
		want  bool
	}{
		{"all passed", suiteWith(StatusPassed, StatusSkipped), true},
		{"one failed", suiteWith(StatusPassed, StatusFailed), false},
		{"one errored", suiteWith(StatusErrored), false},
		{"timed out", &SuiteResult{Tests: []Test{{Name: "a", Status: StatusPassed}}, TimedOut: true}, false},
		{"degraded clean exit", &SuiteResult{Degraded: true, ExitCode: 0}, true},
		{"degraded nonzero exit", &SuiteResult{Degraded: true, ExitCode: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.suite.Success(); got != tt.want {
				t.Errorf("Success() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuiteResult_FailedTests(t *testing.T) {
	s := suiteWith(StatusPassed, StatusFailed, StatusErrored, StatusSkipped)
	failed := s.FailedTests()
	if len(failed) != 2 {
		t.Fatalf("FailedTests() returned %d tests, want 2", len(failed))
	}
	if failed[0].Status != StatusFailed || failed[1].Status != StatusErrored {
		t.Errorf("FailedTests() order = %v, %v", failed[0].Status, failed[1].Status)
	}
}

func TestSuiteResult_Summary(t *testing.T) {
	s := suiteWith(StatusPassed, StatusFailed)
	sum := s.Summary()
	if !strings.Contains(sum, "[FAIL]") || !strings.Contains(sum, "1/2") {
		t.Errorf("Summary() = %q", sum)
	}

	degraded := &SuiteResult{Language: LangGo, Framework: FrameworkGoTest, Degraded: true, ExitCode: 2}
	if !strings.Contains(degraded.Summary(), "degraded") {
		t.Errorf("degraded Summary() = %q", degraded.Summary())
	}
}

func TestMerge(t *testing.T) {
	a := suiteWith(StatusPassed, StatusPassed)
	a.TotalDuration = 1.5
	b := suiteWith(StatusFailed)
	b.TotalDuration = 0.5
	b.ExitCode = 1

	merged := Merge(a, b)
	if merged.Total() != 3 {
		t.Errorf("merged Total() = %d, want 3", merged.Total())
	}
	if merged.TotalDuration != 2.0 {
		t.Errorf("merged TotalDuration = %v, want 2.0", merged.TotalDuration)
	}
	if merged.ExitCode != 1 {
		t.Errorf("merged ExitCode = %d, want 1", merged.ExitCode)
	}
	if merged.Language != LangPython {
		t.Errorf("merged Language = %s, want first suite's language", merged.Language)
	}
	if merged.Success() {
		t.Error("merged suite with a failure reports Success()")
	}
}

func TestMerge_DegradedPropagates(t *testing.T) {
	a := suiteWith(StatusPassed)
	b := &SuiteResult{Language: LangGo, Framework: FrameworkGoTest, Degraded: true}

	if !Merge(a, b).Degraded {
		t.Error("merging a degraded suite did not degrade the aggregate")
	}
	if Merge(a, nil).Degraded {
		t.Error("nil suites should be ignored")
	}
}

func TestMerge_Empty(t *testing.T) {
	merged := Merge()
	if merged == nil {
		t.Fatal("Merge() returned nil")
	}
	if merged.Total() != 0 || merged.PassRate() != 0.0 {
		t.Errorf("empty merge: Total()=%d PassRate()=%v", merged.Total(), merged.PassRate())
	}
}
