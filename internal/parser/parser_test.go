package parser

import (
	"math"
	"testing"

	"github.com/JayPatil165/TestGen-AI/internal/executor"
	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

const pytestReportJSON = `{
  "duration": 2.5,
  "summary": {"total": 5},
  "tests": [
    {"nodeid": "tests/test_auth.py::test_login", "outcome": "passed", "duration": 0.5},
    {"nodeid": "tests/test_auth.py::test_logout", "outcome": "passed", "duration": 0.3},
    {"nodeid": "tests/test_auth.py::test_refresh", "outcome": "passed", "duration": 0.2},
    {"nodeid": "tests/test_auth.py::test_expired", "outcome": "failed", "duration": 0.4,
     "call": {"crash": {"path": "tests/test_auth.py", "lineno": 42, "message": "assert token is None"}}},
    {"nodeid": "tests/test_auth.py::test_slow", "outcome": "skipped", "duration": 0.0}
  ]
}`

func rawWith(stdout string, exitCode int) *executor.RawResult {
	return &executor.RawResult{Stdout: stdout, ExitCode: exitCode, Duration: 3.0}
}

func TestParse_StructuredPytest(t *testing.T) {
	p := New()

	suite := p.Parse(rawWith(pytestReportJSON, 1), result.LangPython, result.FrameworkPytest)

	if suite.Degraded {
		t.Fatal("well-formed report parsed as degraded")
	}
	if suite.Total() != 5 {
		t.Fatalf("Total() = %d, want 5", suite.Total())
	}
	if suite.Passed() != 3 || suite.Failed() != 1 || suite.Skipped() != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/1/1",
			suite.Passed(), suite.Failed(), suite.Skipped())
	}
	if got := suite.Passed() + suite.Failed() + suite.Skipped() + suite.Errored(); got != suite.Total() {
		t.Errorf("status counts sum to %d, want %d", got, suite.Total())
	}
	if math.Abs(suite.PassRate()-0.6) > 1e-9 {
		t.Errorf("PassRate() = %v, want 0.6", suite.PassRate())
	}
	if suite.TotalDuration != 2.5 {
		t.Errorf("TotalDuration = %v, want the reported 2.5", suite.TotalDuration)
	}

	failed := suite.FailedTests()
	if len(failed) != 1 || failed[0].Failure == nil {
		t.Fatal("failed test missing failure details")
	}
	if failed[0].Failure.Line != 42 {
		t.Errorf("failure line = %d, want 42", failed[0].Failure.Line)
	}
}

func TestParse_ReportSurroundedByNoise(t *testing.T) {
	p := New()
	noisy := "warning: plugin loaded\n" + pytestReportJSON + "\n5 tests done\n"

	suite := p.Parse(rawWith(noisy, 1), result.LangPython, result.FrameworkPytest)
	if suite.Degraded || suite.Total() != 5 {
		t.Errorf("embedded report not recovered: degraded=%v total=%d", suite.Degraded, suite.Total())
	}
}

func TestParse_TruncatedJSONFallsBackToText(t *testing.T) {
	p := New()
	// Killed mid-write: JSON cut off, but verbose lines survived.
	out := `tests/test_a.py::test_one PASSED
tests/test_a.py::test_two FAILED
{"duration": 1.0, "tests": [{"nodeid": "trunc`

	suite := p.Parse(rawWith(out, 1), result.LangPython, result.FrameworkPytest)

	if suite.Degraded {
		t.Fatal("text fallback did not engage")
	}
	if suite.Total() != 2 || suite.Passed() != 1 || suite.Failed() != 1 {
		t.Errorf("fallback parsed %d/%d/%d, want 2 tests, 1 passed, 1 failed",
			suite.Total(), suite.Passed(), suite.Failed())
	}
}

func TestParse_GenericTokens(t *testing.T) {
	p := New()
	out := "PASS: test_bar\nFAIL: test_foo\nsome unrelated line\n"

	// Unknown pairing: only the generic tier applies.
	suite := p.Parse(rawWith(out, 1), result.LangUnknown, result.FrameworkGeneric)

	if suite.Degraded {
		t.Fatal("generic tokens not recognized")
	}
	if suite.Total() != 2 {
		t.Fatalf("Total() = %d, want 2", suite.Total())
	}
	if suite.Tests[0].Name != "test_bar" || suite.Tests[0].Status != result.StatusPassed {
		t.Errorf("first test = %+v", suite.Tests[0])
	}
	if suite.Tests[1].Name != "test_foo" || suite.Tests[1].Status != result.StatusFailed {
		t.Errorf("second test = %+v", suite.Tests[1])
	}
}

func TestParse_DegradedKeepsRawAndExitCode(t *testing.T) {
	p := New()
	out := "Segmentation fault (core dumped)\n"

	suite := p.Parse(rawWith(out, 139), result.LangPython, result.FrameworkPytest)

	if !suite.Degraded {
		t.Fatal("unparseable output not marked degraded")
	}
	if suite.ExitCode != 139 {
		t.Errorf("ExitCode = %d, want 139", suite.ExitCode)
	}
	if suite.Raw == "" {
		t.Error("raw output dropped from degraded result")
	}
	if suite.TotalDuration != 3.0 {
		t.Errorf("TotalDuration = %v, want measured wall clock", suite.TotalDuration)
	}
	if suite.Total() != 0 {
		t.Errorf("degraded suite has %d tests", suite.Total())
	}
}

func TestParse_NeverNil(t *testing.T) {
	p := New()
	suite := p.Parse(&executor.RawResult{}, result.LangUnknown, result.FrameworkGeneric)
	if suite == nil {
		t.Fatal("Parse returned nil")
	}
}

func TestParse_TimedOutPropagates(t *testing.T) {
	p := New()
	raw := &executor.RawResult{Stdout: "", ExitCode: -1, TimedOut: true}

	suite := p.Parse(raw, result.LangGo, result.FrameworkGoTest)
	if !suite.TimedOut {
		t.Error("TimedOut flag lost in parsing")
	}
	if suite.Success() {
		t.Error("timed-out suite reports Success()")
	}
}

func TestParse_GoTestJSONStream(t *testing.T) {
	p := New()
	out := `{"Action":"run","Package":"example.com/m","Test":"TestAdd"}
{"Action":"output","Package":"example.com/m","Test":"TestAdd","Output":"=== RUN TestAdd\n"}
{"Action":"pass","Package":"example.com/m","Test":"TestAdd","Elapsed":0.01}
{"Action":"output","Package":"example.com/m","Test":"TestSub","Output":"sub failed: got 3\n"}
{"Action":"fail","Package":"example.com/m","Test":"TestSub","Elapsed":0.02}
{"Action":"fail","Package":"example.com/m","Elapsed":0.05}
`

	suite := p.Parse(rawWith(out, 1), result.LangGo, result.FrameworkGoTest)

	if suite.Degraded || suite.Total() != 2 {
		t.Fatalf("degraded=%v total=%d, want 2 tests", suite.Degraded, suite.Total())
	}
	if suite.Passed() != 1 || suite.Failed() != 1 {
		t.Errorf("counts = %d passed / %d failed, want 1/1", suite.Passed(), suite.Failed())
	}
	failed := suite.FailedTests()[0]
	if failed.Failure == nil || failed.Failure.Message == "" {
		t.Error("failed go test lost its accumulated output")
	}
	if math.Abs(suite.TotalDuration-0.05) > 1e-9 {
		t.Errorf("TotalDuration = %v, want package elapsed 0.05", suite.TotalDuration)
	}
}

func TestParse_JestJSON(t *testing.T) {
	p := New()
	out := `{
  "numTotalTests": 2,
  "testResults": [
    {"startTime": 1000, "endTime": 2500, "assertionResults": [
      {"fullName": "login succeeds", "status": "passed", "duration": 120},
      {"fullName": "login rejects bad password", "status": "failed",
       "failureMessages": ["expected 401, got 200"]}
    ]}
  ]
}`

	suite := p.Parse(rawWith(out, 1), result.LangTypeScript, result.FrameworkJest)

	if suite.Degraded || suite.Total() != 2 {
		t.Fatalf("degraded=%v total=%d", suite.Degraded, suite.Total())
	}
	if suite.Tests[0].Duration != 0.12 {
		t.Errorf("duration = %v, want 0.12s from 120ms", suite.Tests[0].Duration)
	}
	if suite.TotalDuration != 1.5 {
		t.Errorf("TotalDuration = %v, want 1.5s", suite.TotalDuration)
	}
	if suite.Tests[1].Failure == nil {
		t.Error("jest failure message dropped")
	}
}

func TestParse_CargoJSONLines(t *testing.T) {
	p := New()
	out := `{"type":"suite","event":"started","test_count":2}
{"type":"test","event":"ok","name":"tests::adds","exec_time":0.001}
{"type":"test","event":"failed","name":"tests::subs","exec_time":0.002,"stdout":"assertion failed"}
{"type":"suite","event":"failed","passed":1,"failed":1,"exec_time":0.01}
`

	suite := p.Parse(rawWith(out, 101), result.LangRust, result.FrameworkCargo)

	if suite.Degraded || suite.Total() != 2 {
		t.Fatalf("degraded=%v total=%d", suite.Degraded, suite.Total())
	}
	if suite.Passed() != 1 || suite.Failed() != 1 {
		t.Errorf("counts = %d/%d, want 1 passed 1 failed", suite.Passed(), suite.Failed())
	}
}

func TestParse_RSpecJSON(t *testing.T) {
	p := New()
	out := `{"examples":[
  {"full_description":"User logs in","status":"passed","run_time":0.2},
  {"full_description":"User sees error","status":"failed","run_time":0.1,
   "file_path":"./spec/user_spec.rb","line_number":12,
   "exception":{"class":"RSpec::Expectations::ExpectationNotMetError","message":"expected true"}}
],"summary":{"duration":0.35}}`

	suite := p.Parse(rawWith(out, 1), result.LangRuby, result.FrameworkRSpec)

	if suite.Degraded || suite.Total() != 2 {
		t.Fatalf("degraded=%v total=%d", suite.Degraded, suite.Total())
	}
	failure := suite.FailedTests()[0].Failure
	if failure == nil || failure.Kind == "" || failure.Line != 12 {
		t.Errorf("rspec failure details = %+v", failure)
	}
}

func TestFirstJSONDocument(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"noise around", `x {"a":{"b":"}"}} y`, `{"a":{"b":"}"}}`, true},
		{"escaped quote", `{"a":"\""}`, `{"a":"\""}`, true},
		{"truncated", `{"a":`, "", false},
		{"no json", "hello", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstJSONDocument(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("firstJSONDocument(%q) = (%q, %v), want (%q, %v)",
					tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSynthesizeTests(t *testing.T) {
	tests := synthesizeTests(3, 1, 1, 0)
	if len(tests) != 5 {
		t.Fatalf("synthesized %d tests, want 5", len(tests))
	}

	s := &result.SuiteResult{Tests: tests}
	if s.Passed() != 3 || s.Failed() != 1 || s.Skipped() != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/1/1", s.Passed(), s.Failed(), s.Skipped())
	}
	if synthesizeTests(0, 0, 0, 0) != nil {
		t.Error("zero counts should synthesize nothing")
	}
}
