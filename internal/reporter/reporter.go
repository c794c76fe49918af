// Package reporter renders suite results, detections and classifications
// for the terminal.
package reporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/JayPatil165/TestGen-AI/internal/detector"
	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

var (
	passColor   = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	skipColor   = color.New(color.FgYellow)
	headerColor = color.New(color.FgCyan, color.Bold)
	dimColor    = color.New(color.Faint)
)

// Reporter writes human-readable output to a single destination.
type Reporter struct {
	out io.Writer
}

// New creates a reporter writing to out.
func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Detection prints the detected language/framework pair.
func (r *Reporter) Detection(d detector.Detection) {
	headerColor.Fprintln(r.out, "Project detection")
	fmt.Fprintf(r.out, "  Language:   %s\n", d.Language)
	if d.Assumed {
		fmt.Fprintf(r.out, "  Framework:  %s (assumed)\n", d.Framework)
	} else {
		fmt.Fprintf(r.out, "  Framework:  %s\n", d.Framework)
	}
	fmt.Fprintf(r.out, "  Confidence: %s\n", d.Confidence)
	if len(d.Markers) > 0 {
		dimColor.Fprintf(r.out, "  Markers:    %v\n", d.Markers)
	}
}

// Suite prints one suite result: the summary line, then failure details.
func (r *Reporter) Suite(s *result.SuiteResult) {
	if s.Success() {
		passColor.Fprintln(r.out, s.Summary())
	} else {
		failColor.Fprintln(r.out, s.Summary())
	}

	if s.TimedOut {
		failColor.Fprintln(r.out, "  run timed out; results below are partial")
	}
	if s.Degraded {
		dimColor.Fprintln(r.out, "  per-test breakdown unavailable; inspect raw output with --debug")
		return
	}

	if skipped := s.Skipped(); skipped > 0 {
		skipColor.Fprintf(r.out, "  %d skipped\n", skipped)
	}
	for _, t := range s.FailedTests() {
		failColor.Fprintf(r.out, "  ✗ %s\n", t.Name)
		if t.Failure == nil {
			continue
		}
		if t.Failure.File != "" {
			dimColor.Fprintf(r.out, "    at %s:%d\n", t.Failure.File, t.Failure.Line)
		}
		if t.Failure.Message != "" {
			fmt.Fprintf(r.out, "    %s\n", firstLine(t.Failure.Message))
		}
	}
}

// Classifications prints a per-type breakdown of classified test files.
func (r *Reporter) Classifications(byType map[result.TestType][]result.Classification) {
	headerColor.Fprintln(r.out, "Test file classification")

	types := make([]result.TestType, 0, len(byType))
	for typ := range byType {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, typ := range types {
		files := byType[typ]
		fmt.Fprintf(r.out, "  %s (%d)\n", typ, len(files))
		for _, c := range files {
			dimColor.Fprintf(r.out, "    %s (%.0f%%)\n", c.FilePath, c.Confidence()*100)
		}
	}
}

// Count prints a discovery/count summary.
func (r *Reporter) Count(files, definitions int) {
	fmt.Fprintf(r.out, "%d test definitions across %d files\n", definitions, files)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
