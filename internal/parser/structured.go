package parser

import (
	"encoding/json"
	"strings"

	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

// pytestReport is the pytest-json-report schema (the parts we consume).
type pytestReport struct {
	Duration float64 `json:"duration"`
	Summary  struct {
		Total int `json:"total"`
	} `json:"summary"`
	Tests []struct {
		NodeID   string  `json:"nodeid"`
		Outcome  string  `json:"outcome"`
		Duration float64 `json:"duration"`
		Call     struct {
			Duration float64 `json:"duration"`
			Longrepr string  `json:"longrepr"`
			Crash    struct {
				Path    string `json:"path"`
				Lineno  int    `json:"lineno"`
				Message string `json:"message"`
			} `json:"crash"`
		} `json:"call"`
	} `json:"tests"`
}

func parsePytestJSON(stdout string) ([]result.Test, float64, bool) {
	doc, ok := firstJSONDocument(stdout)
	if !ok {
		return nil, 0, false
	}
	var report pytestReport
	if err := json.Unmarshal([]byte(doc), &report); err != nil || len(report.Tests) == 0 {
		return nil, 0, false
	}

	tests := make([]result.Test, 0, len(report.Tests))
	for _, t := range report.Tests {
		duration := t.Duration
		if duration == 0 {
			duration = t.Call.Duration
		}
		test := result.Test{
			Name:     t.NodeID,
			Status:   pytestOutcome(t.Outcome),
			Duration: duration,
		}
		if test.Status == result.StatusFailed || test.Status == result.StatusErrored {
			message := t.Call.Crash.Message
			if message == "" {
				message = t.Call.Longrepr
			}
			test.Failure = &result.Failure{
				Message: message,
				File:    t.Call.Crash.Path,
				Line:    t.Call.Crash.Lineno,
			}
		}
		tests = append(tests, test)
	}
	return tests, report.Duration, true
}

func pytestOutcome(outcome string) result.Status {
	switch outcome {
	case "passed", "xpassed":
		return result.StatusPassed
	case "failed":
		return result.StatusFailed
	case "skipped", "xfailed", "deselected":
		return result.StatusSkipped
	default:
		return result.StatusErrored
	}
}

// jestReport covers jest --json and the vitest json reporter, which mirrors
// jest's shape.
type jestReport struct {
	NumTotalTests int `json:"numTotalTests"`
	TestResults   []struct {
		AssertionResults []struct {
			FullName        string   `json:"fullName"`
			Title           string   `json:"title"`
			Status          string   `json:"status"`
			Duration        *float64 `json:"duration"` // milliseconds
			FailureMessages []string `json:"failureMessages"`
		} `json:"assertionResults"`
		StartTime int64 `json:"startTime"`
		EndTime   int64 `json:"endTime"`
	} `json:"testResults"`
}

func parseJestJSON(stdout string) ([]result.Test, float64, bool) {
	doc, ok := firstJSONDocument(stdout)
	if !ok {
		return nil, 0, false
	}
	var report jestReport
	if err := json.Unmarshal([]byte(doc), &report); err != nil || len(report.TestResults) == 0 {
		return nil, 0, false
	}

	var tests []result.Test
	var duration float64
	for _, file := range report.TestResults {
		if file.EndTime > file.StartTime {
			duration += float64(file.EndTime-file.StartTime) / 1000.0
		}
		for _, a := range file.AssertionResults {
			name := a.FullName
			if name == "" {
				name = a.Title
			}
			test := result.Test{Name: name, Status: jestStatus(a.Status)}
			if a.Duration != nil {
				test.Duration = *a.Duration / 1000.0
			}
			if test.Status == result.StatusFailed && len(a.FailureMessages) > 0 {
				test.Failure = &result.Failure{Message: a.FailureMessages[0]}
			}
			tests = append(tests, test)
		}
	}
	if len(tests) == 0 {
		return nil, 0, false
	}
	return tests, duration, true
}

func jestStatus(status string) result.Status {
	switch status {
	case "passed":
		return result.StatusPassed
	case "failed":
		return result.StatusFailed
	case "pending", "skipped", "todo", "disabled":
		return result.StatusSkipped
	default:
		return result.StatusErrored
	}
}

// goTestEvent is one line of the `go test -json` event stream.
type goTestEvent struct {
	Action  string  `json:"Action"`
	Package string  `json:"Package"`
	Test    string  `json:"Test"`
	Output  string  `json:"Output"`
	Elapsed float64 `json:"Elapsed"`
}

func parseGoTestJSON(stdout string) ([]result.Test, float64, bool) {
	var tests []result.Test
	output := make(map[string][]string)
	var duration float64
	decoded := false

	for _, line := range splitLines(stdout) {
		line = strings.TrimSpace(line)
		if line == "" || line[0] != '{' {
			continue
		}
		var ev goTestEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		decoded = true
		key := ev.Package + "/" + ev.Test

		switch ev.Action {
		case "output":
			if ev.Test != "" {
				output[key] = append(output[key], ev.Output)
			}
		case "pass", "fail", "skip":
			if ev.Test == "" {
				// Package-level event carries the aggregate elapsed time.
				duration += ev.Elapsed
				continue
			}
			test := result.Test{
				Name:     ev.Test,
				Status:   goTestStatus(ev.Action),
				Duration: ev.Elapsed,
			}
			if test.Status == result.StatusFailed {
				test.Failure = &result.Failure{Message: strings.Join(output[key], "")}
			}
			tests = append(tests, test)
		}
	}

	if !decoded || len(tests) == 0 {
		return nil, 0, false
	}
	return tests, duration, true
}

func goTestStatus(action string) result.Status {
	switch action {
	case "pass":
		return result.StatusPassed
	case "fail":
		return result.StatusFailed
	default:
		return result.StatusSkipped
	}
}

// cargoTestEvent is one line of libtest's JSON output.
type cargoTestEvent struct {
	Type     string  `json:"type"`
	Event    string  `json:"event"`
	Name     string  `json:"name"`
	ExecTime float64 `json:"exec_time"`
	Stdout   string  `json:"stdout"`
}

func parseCargoJSON(stdout string) ([]result.Test, float64, bool) {
	var tests []result.Test
	var duration float64

	for _, line := range splitLines(stdout) {
		line = strings.TrimSpace(line)
		if line == "" || line[0] != '{' {
			continue
		}
		var ev cargoTestEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		switch ev.Type {
		case "test":
			switch ev.Event {
			case "ok":
				tests = append(tests, result.Test{Name: ev.Name, Status: result.StatusPassed, Duration: ev.ExecTime})
			case "failed":
				tests = append(tests, result.Test{
					Name: ev.Name, Status: result.StatusFailed, Duration: ev.ExecTime,
					Failure: &result.Failure{Message: ev.Stdout},
				})
			case "ignored":
				tests = append(tests, result.Test{Name: ev.Name, Status: result.StatusSkipped})
			}
		case "suite":
			if ev.Event == "ok" || ev.Event == "failed" {
				duration += ev.ExecTime
			}
		}
	}

	if len(tests) == 0 {
		return nil, 0, false
	}
	return tests, duration, true
}

// rspecReport is rspec's --format json schema.
type rspecReport struct {
	Examples []struct {
		FullDescription string  `json:"full_description"`
		Status          string  `json:"status"`
		RunTime         float64 `json:"run_time"`
		FilePath        string  `json:"file_path"`
		LineNumber      int     `json:"line_number"`
		Exception       struct {
			Class   string `json:"class"`
			Message string `json:"message"`
		} `json:"exception"`
	} `json:"examples"`
	Summary struct {
		Duration float64 `json:"duration"`
	} `json:"summary"`
}

func parseRSpecJSON(stdout string) ([]result.Test, float64, bool) {
	doc, ok := firstJSONDocument(stdout)
	if !ok {
		return nil, 0, false
	}
	var report rspecReport
	if err := json.Unmarshal([]byte(doc), &report); err != nil || len(report.Examples) == 0 {
		return nil, 0, false
	}

	tests := make([]result.Test, 0, len(report.Examples))
	for _, ex := range report.Examples {
		test := result.Test{
			Name:     ex.FullDescription,
			Status:   rspecStatus(ex.Status),
			Duration: ex.RunTime,
		}
		if test.Status == result.StatusFailed {
			test.Failure = &result.Failure{
				Message: ex.Exception.Message,
				Kind:    ex.Exception.Class,
				File:    ex.FilePath,
				Line:    ex.LineNumber,
			}
		}
		tests = append(tests, test)
	}
	return tests, report.Summary.Duration, true
}

func rspecStatus(status string) result.Status {
	switch status {
	case "passed":
		return result.StatusPassed
	case "failed":
		return result.StatusFailed
	case "pending":
		return result.StatusSkipped
	default:
		return result.StatusErrored
	}
}
