// Package detector provides language and test framework detection for
// project directories.
package detector

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/JayPatil165/TestGen-AI/internal/debug"
	"github.com/JayPatil165/TestGen-AI/internal/registry"
	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

// Confidence grades how trustworthy a detection is.
type Confidence string

// Detection confidence levels.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Detection is the best-guess (language, framework) pair for a project root.
// Assumed is set when no framework-specific marker was found and the
// language's registered default framework was used.
type Detection struct {
	Language   result.Language
	Framework  result.Framework
	Confidence Confidence
	Assumed    bool
	Markers    []string
}

// markerFile represents an ecosystem-defining file with its weight.
type markerFile struct {
	name   string
	weight float64
}

// Detector resolves a project root to a (language, framework) pair.
type Detector struct {
	registry    *registry.Registry
	markerFiles map[result.Language][]markerFile

	// Extension histogram bounds, so detection stays fast on huge trees.
	maxDepth int
	maxFiles int
}

// New creates a Detector with the default marker configuration.
func New(reg *registry.Registry) *Detector {
	return &Detector{
		registry: reg,
		markerFiles: map[result.Language][]markerFile{
			result.LangPython: {
				{name: "pyproject.toml", weight: 1.0},
				{name: "setup.py", weight: 0.8},
				{name: "Pipfile", weight: 0.8},
				{name: "requirements.txt", weight: 0.6},
				{name: "poetry.lock", weight: 0.6},
				{name: "tox.ini", weight: 0.5},
				{name: "manage.py", weight: 0.7},
			},
			// tsconfig.json is checked before the generic package manifest
			// shared with JavaScript, so TypeScript wins marker ties.
			result.LangTypeScript: {
				{name: "tsconfig.json", weight: 1.0},
				{name: "tsconfig.*.json", weight: 0.6},
			},
			result.LangJavaScript: {
				{name: "package.json", weight: 1.0},
				{name: "package-lock.json", weight: 0.5},
				{name: "yarn.lock", weight: 0.5},
				{name: "pnpm-lock.yaml", weight: 0.5},
				{name: "jsconfig.json", weight: 0.4},
			},
			result.LangGo: {
				{name: "go.mod", weight: 1.0},
				{name: "go.sum", weight: 0.7},
				{name: "go.work", weight: 0.8},
			},
			result.LangRust: {
				{name: "Cargo.toml", weight: 1.0},
				{name: "Cargo.lock", weight: 0.7},
				{name: "rust-toolchain.toml", weight: 0.5},
			},
			result.LangJava: {
				{name: "pom.xml", weight: 1.0},
				{name: "build.gradle", weight: 1.0},
				{name: "build.gradle.kts", weight: 1.0},
				{name: "settings.gradle", weight: 0.7},
				{name: "gradlew", weight: 0.5},
			},
			result.LangRuby: {
				{name: "Gemfile", weight: 1.0},
				{name: "Gemfile.lock", weight: 0.7},
				{name: "Rakefile", weight: 0.6},
				{name: ".ruby-version", weight: 0.4},
			},
			result.LangPHP: {
				{name: "composer.json", weight: 1.0},
				{name: "composer.lock", weight: 0.7},
				{name: "artisan", weight: 0.8},
			},
			result.LangCSharp: {
				{name: "*.csproj", weight: 1.0},
				{name: "*.sln", weight: 0.9},
				{name: "global.json", weight: 0.6},
			},
		},
		maxDepth: 5,
		maxFiles: 2000,
	}
}

// Detect resolves the project root to its (language, framework) pair. It
// never fails: on an unreadable or empty directory it returns the default
// language (python) with low confidence and the framework flagged assumed.
func (d *Detector) Detect(projectRoot string) Detection {
	debug.LogSection("Language Detection")
	debug.Log("Scanning path: %s", projectRoot)

	lang, confidence, markers := d.detectLanguage(projectRoot)
	fw, assumed, fwMarkers := d.detectFramework(projectRoot, lang)

	det := Detection{
		Language:   lang,
		Framework:  fw,
		Confidence: confidence,
		Assumed:    assumed,
		Markers:    append(markers, fwMarkers...),
	}
	debug.LogDetection(string(det.Language), string(det.Framework), string(det.Confidence), det.Markers)
	return det
}

// detectLanguage runs the ordered rules: marker files first, then the
// bounded extension histogram, then the default language.
func (d *Detector) detectLanguage(root string) (result.Language, Confidence, []string) {
	scores, decisive, found := d.scanMarkers(root)

	// An ecosystem-defining marker resolves the language by the fixed
	// priority order alone. Weaker markers (lockfiles, tool configs) never
	// outvote it across ecosystems: a TypeScript project keeps its npm
	// lockfile, and tsconfig.json must still win over the shared package
	// manifest.
	for _, lang := range d.registry.Languages() {
		if decisive[lang] {
			return lang, ConfidenceHigh, found[lang]
		}
	}

	// Only secondary markers present: highest accumulated weight wins,
	// ties broken by the priority order, never by filesystem iteration
	// order.
	best := result.LangUnknown
	bestScore := 0.0
	for _, lang := range d.registry.Languages() {
		if scores[lang] > bestScore {
			best = lang
			bestScore = scores[lang]
		}
	}
	if best != result.LangUnknown {
		return best, ConfidenceMedium, found[best]
	}

	// No markers: fall back to counting source-file extensions.
	if lang := d.extensionPlurality(root); lang != result.LangUnknown {
		return lang, ConfidenceMedium, []string{"extension histogram"}
	}

	// Empty or unrecognizable directory: lowest-risk default.
	return result.LangPython, ConfidenceLow, nil
}

// scanMarkers checks the root directory entries against every language's
// marker table. A language is decisive when one of its ecosystem-defining
// markers (weight 1.0) is present.
func (d *Detector) scanMarkers(root string) (map[result.Language]float64, map[result.Language]bool, map[result.Language][]string) {
	scores := make(map[result.Language]float64)
	decisive := make(map[result.Language]bool)
	found := make(map[result.Language][]string)

	entries, err := os.ReadDir(root)
	if err != nil {
		return scores, decisive, found
	}

	for _, entry := range entries {
		name := entry.Name()
		for lang, markers := range d.markerFiles {
			for _, marker := range markers {
				if matchesMarker(name, marker.name) {
					debug.Log("Found marker %q for %s (weight: %.1f)", name, lang, marker.weight)
					scores[lang] += marker.weight
					if marker.weight >= 1.0 {
						decisive[lang] = true
					}
					found[lang] = append(found[lang], name)
					break // one hit per file per language
				}
			}
		}
	}

	return scores, decisive, found
}

// extensionPlurality walks the tree (bounded) and returns the language with
// the most source files, ties broken by priority order.
func (d *Detector) extensionPlurality(root string) result.Language {
	counts := make(map[result.Language]int)
	files := 0

	_ = filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped, not fatal
		}
		if entry.IsDir() {
			if skipDir(entry.Name()) {
				return filepath.SkipDir
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil && strings.Count(rel, string(filepath.Separator)) >= d.maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if files >= d.maxFiles {
			return filepath.SkipAll
		}
		files++
		if lang := d.registry.LanguageForExtension(filepath.Ext(entry.Name())); lang != result.LangUnknown {
			counts[lang]++
		}
		return nil
	})

	best := result.LangUnknown
	bestCount := 0
	for _, lang := range d.registry.Languages() {
		if counts[lang] > bestCount {
			best = lang
			bestCount = counts[lang]
		}
	}
	return best
}

// detectFramework repeats the two-tier approach scoped to the language's
// known frameworks. Absent any signal, the registered default framework is
// used with assumed=true.
func (d *Detector) detectFramework(root string, lang result.Language) (result.Framework, bool, []string) {
	switch lang {
	case result.LangPython:
		if fileExists(root, "pytest.ini") {
			return result.FrameworkPytest, false, []string{"pytest.ini"}
		}
		for _, manifest := range []string{"pyproject.toml", "requirements.txt", "requirements-dev.txt", "setup.cfg"} {
			if fileContains(root, manifest, "pytest") {
				return result.FrameworkPytest, false, []string{manifest}
			}
		}

	case result.LangJavaScript, result.LangTypeScript:
		if fw, marker, ok := d.detectNodeFramework(root); ok {
			return fw, false, []string{marker}
		}

	case result.LangGo:
		// The toolchain is the framework; a module manifest is the marker.
		if fileExists(root, "go.mod") {
			return result.FrameworkGoTest, false, []string{"go.mod"}
		}

	case result.LangRust:
		if fileExists(root, "Cargo.toml") {
			return result.FrameworkCargo, false, []string{"Cargo.toml"}
		}

	case result.LangJava:
		for _, manifest := range []string{"pom.xml", "build.gradle", "build.gradle.kts"} {
			if fileContains(root, manifest, "junit") {
				return result.FrameworkJUnit, false, []string{manifest}
			}
		}

	case result.LangRuby:
		if fileContains(root, "Gemfile", "rspec") || dirExists(root, "spec") {
			return result.FrameworkRSpec, false, []string{"Gemfile"}
		}

	case result.LangPHP:
		if fileExists(root, "phpunit.xml") || fileExists(root, "phpunit.xml.dist") {
			return result.FrameworkPHPUnit, false, []string{"phpunit.xml"}
		}
		if fileContains(root, "composer.json", "phpunit") {
			return result.FrameworkPHPUnit, false, []string{"composer.json"}
		}

	case result.LangCSharp:
		if matches, _ := filepath.Glob(filepath.Join(root, "*.csproj")); len(matches) > 0 {
			for _, m := range matches {
				data, err := os.ReadFile(m)
				if err == nil && strings.Contains(strings.ToLower(string(data)), "xunit") {
					return result.FrameworkXUnit, false, []string{filepath.Base(m)}
				}
			}
		}
	}

	return d.registry.DefaultFramework(lang), true, nil
}

// detectNodeFramework inspects package.json dependencies and framework
// config files. Playwright is checked before the unit frameworks so a
// browser-test project is not misread as plain jest.
func (d *Detector) detectNodeFramework(root string) (result.Framework, string, bool) {
	if data, err := os.ReadFile(filepath.Join(root, "package.json")); err == nil {
		manifest := string(data)
		deps := []struct {
			needle string
			fw     result.Framework
		}{
			{`"@playwright/test"`, result.FrameworkPlaywright},
			{`"jest"`, result.FrameworkJest},
			{`"vitest"`, result.FrameworkVitest},
			{`"mocha"`, result.FrameworkMocha},
		}
		for _, dep := range deps {
			if strings.Contains(manifest, dep.needle) {
				return dep.fw, "package.json", true
			}
		}
	}

	configs := []struct {
		glob string
		fw   result.Framework
	}{
		{"playwright.config.*", result.FrameworkPlaywright},
		{"jest.config.*", result.FrameworkJest},
		{"vitest.config.*", result.FrameworkVitest},
		{".mocharc.*", result.FrameworkMocha},
	}
	for _, cfg := range configs {
		if matches, _ := filepath.Glob(filepath.Join(root, cfg.glob)); len(matches) > 0 {
			return cfg.fw, filepath.Base(matches[0]), true
		}
	}

	return result.FrameworkGeneric, "", false
}

// matchesMarker checks if a filename matches a marker pattern
func matchesMarker(filename, pattern string) bool {
	if strings.Contains(pattern, "*") {
		matched, _ := filepath.Match(pattern, filename)
		return matched
	}
	return filename == pattern
}

func skipDir(name string) bool {
	switch name {
	case "node_modules", "vendor", "__pycache__", ".git", "target", "dist", "build", ".venv", "venv":
		return true
	}
	return strings.HasPrefix(name, ".")
}

func fileExists(root, name string) bool {
	info, err := os.Stat(filepath.Join(root, name))
	return err == nil && !info.IsDir()
}

func dirExists(root, name string) bool {
	info, err := os.Stat(filepath.Join(root, name))
	return err == nil && info.IsDir()
}

func fileContains(root, name, needle string) bool {
	data, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), needle)
}
