// Package classify scores test files into purpose categories (unit,
// integration, e2e, performance, api) from textual evidence: imported
// libraries, characteristic call patterns and filename keywords.
//
// Classification is a pure scoring function over one file's content. It is
// stateless and re-entrant, so files may be classified in parallel.
package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

// Threshold is the minimum score a type needs to be included in a
// classification.
const Threshold = 0.3

// unitResidualScore is assigned to the unit type when no other type clears
// the threshold.
const unitResidualScore = 0.5

// signalKind tells where a signal's pattern is matched.
type signalKind string

const (
	// kindImport matches a library reference anywhere in the content,
	// case-insensitively.
	kindImport signalKind = "import"
	// kindCall matches a call pattern in the content, case-sensitively.
	kindCall signalKind = "call"
	// kindKeyword matches a word anywhere in the content, case-insensitively.
	kindKeyword signalKind = "keyword"
	// kindFilename matches a keyword in the lowercased base filename.
	kindFilename signalKind = "filename"
)

// signal is one piece of weighted evidence for a test type.
type signal struct {
	kind    signalKind
	pattern string
	typ     result.TestType
	weight  float64
}

// sharedSignals apply to every language.
var sharedSignals = []signal{
	// e2e filename conventions
	{kindFilename, "e2e", result.TypeE2E, 0.3},
	{kindFilename, "ui", result.TypeE2E, 0.3},
	{kindFilename, "browser", result.TypeE2E, 0.3},
	{kindFilename, "selenium", result.TypeE2E, 0.3},
	{kindFilename, "playwright", result.TypeE2E, 0.3},

	// integration
	{kindFilename, "integration", result.TypeIntegration, 0.4},
	{kindKeyword, "testcontainers", result.TypeIntegration, 0.2},
	{kindKeyword, "docker", result.TypeIntegration, 0.1},
	{kindKeyword, "database", result.TypeIntegration, 0.1},
	{kindKeyword, "fixture", result.TypeIntegration, 0.1},
	{kindKeyword, "teardown", result.TypeIntegration, 0.1},

	// performance
	{kindFilename, "perf", result.TypePerformance, 0.5},
	{kindFilename, "bench", result.TypePerformance, 0.5},
	{kindFilename, "load", result.TypePerformance, 0.5},
	{kindFilename, "stress", result.TypePerformance, 0.5},
	{kindKeyword, "benchmark", result.TypePerformance, 0.2},
	{kindImport, "locust", result.TypePerformance, 0.3},
	{kindImport, "k6", result.TypePerformance, 0.3},

	// api
	{kindFilename, "api", result.TypeAPI, 0.4},
	{kindFilename, "rest", result.TypeAPI, 0.4},
	{kindFilename, "graphql", result.TypeAPI, 0.4},
	{kindFilename, "endpoint", result.TypeAPI, 0.4},
	{kindKeyword, "endpoint", result.TypeAPI, 0.15},
	{kindKeyword, "baseurl", result.TypeAPI, 0.15},
	{kindCall, "get(", result.TypeAPI, 0.15},
	{kindCall, "post(", result.TypeAPI, 0.15},
	{kindCall, "put(", result.TypeAPI, 0.15},
	{kindCall, "delete(", result.TypeAPI, 0.15},
}

// languageSignals carry the per-language library and call-pattern evidence.
var languageSignals = map[result.Language][]signal{
	result.LangPython: {
		{kindImport, "playwright", result.TypeE2E, 0.4},
		{kindImport, "selenium", result.TypeE2E, 0.4},
		{kindImport, "pyppeteer", result.TypeE2E, 0.4},
		{kindCall, "page.", result.TypeE2E, 0.2},
		{kindCall, "driver.", result.TypeE2E, 0.2},
		{kindKeyword, "send_keys", result.TypeE2E, 0.1},
		{kindImport, "requests", result.TypeAPI, 0.3},
		{kindImport, "httpx", result.TypeAPI, 0.3},
		{kindCall, "requests.", result.TypeAPI, 0.15},
		{kindImport, "pytest-benchmark", result.TypePerformance, 0.3},
		{kindImport, "pytest_benchmark", result.TypePerformance, 0.3},
		{kindImport, "sqlalchemy", result.TypeIntegration, 0.2},
		{kindImport, "psycopg", result.TypeIntegration, 0.2},
	},
	result.LangJavaScript: {
		{kindImport, "playwright", result.TypeE2E, 0.4},
		{kindImport, "puppeteer", result.TypeE2E, 0.4},
		{kindImport, "cypress", result.TypeE2E, 0.4},
		{kindImport, "webdriver", result.TypeE2E, 0.4},
		{kindCall, "page.", result.TypeE2E, 0.2},
		{kindCall, "browser.", result.TypeE2E, 0.2},
		{kindCall, "cy.", result.TypeE2E, 0.2},
		{kindKeyword, "waitfor", result.TypeE2E, 0.1},
		{kindImport, "supertest", result.TypeAPI, 0.3},
		{kindImport, "axios", result.TypeAPI, 0.3},
		{kindCall, "fetch(", result.TypeAPI, 0.15},
	},
	result.LangGo: {
		{kindImport, "chromedp", result.TypeE2E, 0.4},
		{kindImport, "selenium", result.TypeE2E, 0.4},
		{kindCall, "chromedp.", result.TypeE2E, 0.2},
		{kindImport, "net/http/httptest", result.TypeAPI, 0.3},
		{kindCall, "http.Get(", result.TypeAPI, 0.15},
		{kindCall, "http.Post(", result.TypeAPI, 0.15},
		{kindCall, "testing.B", result.TypePerformance, 0.3},
		{kindCall, "func Benchmark", result.TypePerformance, 0.5},
		{kindImport, "database/sql", result.TypeIntegration, 0.2},
	},
	result.LangJava: {
		{kindImport, "org.openqa.selenium", result.TypeE2E, 0.4},
		{kindCall, "WebDriver", result.TypeE2E, 0.2},
		{kindCall, "findElement", result.TypeE2E, 0.2},
		{kindImport, "org.testcontainers", result.TypeIntegration, 0.4},
		{kindImport, "io.rest-assured", result.TypeAPI, 0.3},
		{kindImport, "org.openjdk.jmh", result.TypePerformance, 0.3},
	},
	result.LangRuby: {
		{kindImport, "capybara", result.TypeE2E, 0.4},
		{kindImport, "selenium", result.TypeE2E, 0.4},
		{kindImport, "watir", result.TypeE2E, 0.4},
		{kindCall, "visit ", result.TypeE2E, 0.2},
		{kindCall, "click_button", result.TypeE2E, 0.2},
		{kindCall, "fill_in", result.TypeE2E, 0.2},
	},
	result.LangRust: {
		{kindCall, "#[bench]", result.TypePerformance, 0.5},
		{kindImport, "criterion", result.TypePerformance, 0.4},
		{kindImport, "reqwest", result.TypeAPI, 0.3},
	},
	result.LangPHP: {
		{kindImport, "Facebook\\WebDriver", result.TypeE2E, 0.4},
		{kindImport, "Behat", result.TypeE2E, 0.4},
		{kindCall, "$driver->", result.TypeE2E, 0.2},
		{kindCall, "$browser->", result.TypeE2E, 0.2},
		{kindImport, "GuzzleHttp", result.TypeAPI, 0.3},
	},
	result.LangCSharp: {
		{kindImport, "Selenium", result.TypeE2E, 0.4},
		{kindImport, "Playwright", result.TypeE2E, 0.4},
		{kindCall, "IWebDriver", result.TypeE2E, 0.2},
		{kindCall, "FindElement", result.TypeE2E, 0.2},
		{kindImport, "BenchmarkDotNet", result.TypePerformance, 0.4},
	},
}

func init() {
	// TypeScript shares the JavaScript ecosystem wholesale.
	languageSignals[result.LangTypeScript] = languageSignals[result.LangJavaScript]
}

// Classify scores one test file. It never fails: with no matching evidence
// the file classifies as a unit test at the residual confidence.
func Classify(filePath string, content []byte, lang result.Language) result.Classification {
	text := string(content)
	lower := strings.ToLower(text)
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath)))

	scores := make(map[result.TestType]float64)
	var signals []string

	apply := func(s signal) {
		matched := false
		switch s.kind {
		case kindFilename:
			matched = strings.Contains(base, s.pattern)
		case kindCall:
			matched = strings.Contains(text, s.pattern)
		default:
			matched = strings.Contains(lower, strings.ToLower(s.pattern))
		}
		if !matched {
			return
		}
		scores[s.typ] += s.weight
		signals = append(signals, fmt.Sprintf("%s %s: %q", s.typ, s.kind, s.pattern))
	}

	for _, s := range sharedSignals {
		apply(s)
	}
	for _, s := range languageSignals[lang] {
		apply(s)
	}

	included := make(map[result.TestType]float64)
	for typ, score := range scores {
		if score > 1.0 {
			score = 1.0
		}
		if score > Threshold {
			included[typ] = score
		}
	}
	if len(included) == 0 {
		included[result.TypeUnit] = unitResidualScore
		signals = append(signals, "no specific markers, defaulting to unit")
	}

	c := result.Classification{
		FilePath: filePath,
		Language: lang,
		Scores:   included,
		Signals:  signals,
	}
	c.PrimaryType = primaryType(included)
	return c
}

// primaryType picks the highest-scored type, ties broken alphabetically.
func primaryType(scores map[result.TestType]float64) result.TestType {
	best := result.TypeUnit
	bestScore := -1.0
	for typ, score := range scores {
		if score > bestScore || (score == bestScore && typ < best) {
			best = typ
			bestScore = score
		}
	}
	return best
}

// ClassifyDir classifies the given test files (relative to root) and groups
// them by primary type. Unreadable files are skipped, not errors.
func ClassifyDir(root string, files []string, lang result.Language) map[result.TestType][]result.Classification {
	byType := make(map[result.TestType][]result.Classification)
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		content, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		c := Classify(f, content, lang)
		byType[c.PrimaryType] = append(byType[c.PrimaryType], c)
	}
	return byType
}

// Summary reduces a grouped classification to per-type counts.
func Summary(byType map[result.TestType][]result.Classification) map[result.TestType]int {
	counts := make(map[result.TestType]int, len(byType))
	for typ, files := range byType {
		if len(files) > 0 {
			counts[typ] = len(files)
		}
	}
	return counts
}
