// Package registry defines the static framework descriptor table shared by
// the detector, the command builder and the runner factory.
package registry

import (
	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

// OutputFormat is the kind of output a framework invocation is expected to
// produce when asked for machine-readable results.
type OutputFormat string

// Expected output formats.
const (
	// FormatStructured means the framework can emit a JSON-like report.
	FormatStructured OutputFormat = "structured"
	// FormatText means only free-form console output is available.
	FormatText OutputFormat = "text"
)

// Descriptor is the static record for one (language, framework) pair:
// where its test files live, what output it can produce and how generated
// test files are named.
type Descriptor struct {
	Language  result.Language
	Framework result.Framework
	// TestGlobs are doublestar patterns matching the framework's test files,
	// relative to the scope directory.
	TestGlobs []string
	// Format is the most reliable output format the framework supports.
	Format OutputFormat
	// TestFilePattern is the naming convention for generated test files,
	// with %s standing for the unit under test.
	TestFilePattern string
	// CountPattern is a regex matching one test definition per occurrence.
	CountPattern string
}

// Registry is the immutable language/framework table. It is constructed
// once at process start and passed by injection; there is no mutable
// package-level state.
type Registry struct {
	descriptors map[result.Language]map[result.Framework]*Descriptor
	defaults    map[result.Language]result.Framework
	priority    []result.Language
	extensions  map[string]result.Language
}

// New builds the registry with all supported language/framework pairings.
func New() *Registry {
	r := &Registry{
		descriptors: make(map[result.Language]map[result.Framework]*Descriptor),
		defaults: map[result.Language]result.Framework{
			result.LangPython:     result.FrameworkPytest,
			result.LangTypeScript: result.FrameworkJest,
			result.LangJavaScript: result.FrameworkJest,
			result.LangGo:         result.FrameworkGoTest,
			result.LangRust:       result.FrameworkCargo,
			result.LangJava:       result.FrameworkJUnit,
			result.LangRuby:       result.FrameworkRSpec,
			result.LangPHP:        result.FrameworkPHPUnit,
			result.LangCSharp:     result.FrameworkXUnit,
		},
		// Most-specific ecosystems first; ties during detection are broken
		// by this order, never by directory iteration order.
		priority: []result.Language{
			result.LangPython,
			result.LangTypeScript,
			result.LangJavaScript,
			result.LangGo,
			result.LangRust,
			result.LangJava,
			result.LangRuby,
			result.LangPHP,
			result.LangCSharp,
		},
		extensions: map[string]result.Language{
			".py":   result.LangPython,
			".ts":   result.LangTypeScript,
			".tsx":  result.LangTypeScript,
			".js":   result.LangJavaScript,
			".jsx":  result.LangJavaScript,
			".mjs":  result.LangJavaScript,
			".go":   result.LangGo,
			".rs":   result.LangRust,
			".java": result.LangJava,
			".rb":   result.LangRuby,
			".php":  result.LangPHP,
			".cs":   result.LangCSharp,
		},
	}

	for _, d := range defaultDescriptors() {
		byFramework, ok := r.descriptors[d.Language]
		if !ok {
			byFramework = make(map[result.Framework]*Descriptor)
			r.descriptors[d.Language] = byFramework
		}
		byFramework[d.Framework] = d
	}

	return r
}

// Lookup returns the descriptor for a (language, framework) pair.
func (r *Registry) Lookup(lang result.Language, fw result.Framework) (*Descriptor, bool) {
	d, ok := r.descriptors[lang][fw]
	return d, ok
}

// DefaultFramework returns the registered default framework for a language,
// or the generic framework when the language is unknown.
func (r *Registry) DefaultFramework(lang result.Language) result.Framework {
	if fw, ok := r.defaults[lang]; ok {
		return fw
	}
	return result.FrameworkGeneric
}

// Languages returns the supported languages in detection priority order.
func (r *Registry) Languages() []result.Language {
	langs := make([]result.Language, len(r.priority))
	copy(langs, r.priority)
	return langs
}

// Frameworks returns the frameworks registered for a language.
func (r *Registry) Frameworks(lang result.Language) []result.Framework {
	var fws []result.Framework
	for fw := range r.descriptors[lang] {
		fws = append(fws, fw)
	}
	return fws
}

// LanguageForExtension maps a file extension (with leading dot) to its
// language, or LangUnknown when the extension is not a supported source
// extension.
func (r *Registry) LanguageForExtension(ext string) result.Language {
	if lang, ok := r.extensions[ext]; ok {
		return lang
	}
	return result.LangUnknown
}

func defaultDescriptors() []*Descriptor {
	return []*Descriptor{
		{
			Language:        result.LangPython,
			Framework:       result.FrameworkPytest,
			TestGlobs:       []string{"**/test_*.py", "**/*_test.py"},
			Format:          FormatStructured,
			TestFilePattern: "test_%s.py",
			CountPattern:    `(?m)^\s*def test_\w+`,
		},
		{
			Language:        result.LangJavaScript,
			Framework:       result.FrameworkJest,
			TestGlobs:       []string{"**/*.test.js", "**/*.spec.js", "**/__tests__/**/*.js"},
			Format:          FormatStructured,
			TestFilePattern: "%s.test.js",
			CountPattern:    `(?m)^\s*(?:it|test)\s*\(`,
		},
		{
			Language:        result.LangJavaScript,
			Framework:       result.FrameworkMocha,
			TestGlobs:       []string{"test/**/*.js", "**/*.spec.js"},
			Format:          FormatText,
			TestFilePattern: "%s.spec.js",
			CountPattern:    `(?m)^\s*it\s*\(`,
		},
		{
			Language:        result.LangTypeScript,
			Framework:       result.FrameworkJest,
			TestGlobs:       []string{"**/*.test.ts", "**/*.spec.ts", "**/__tests__/**/*.ts"},
			Format:          FormatStructured,
			TestFilePattern: "%s.test.ts",
			CountPattern:    `(?m)^\s*(?:it|test)\s*\(`,
		},
		{
			Language:        result.LangTypeScript,
			Framework:       result.FrameworkVitest,
			TestGlobs:       []string{"**/*.test.ts", "**/*.spec.ts"},
			Format:          FormatStructured,
			TestFilePattern: "%s.test.ts",
			CountPattern:    `(?m)^\s*(?:it|test)\s*\(`,
		},
		{
			Language:        result.LangTypeScript,
			Framework:       result.FrameworkPlaywright,
			TestGlobs:       []string{"**/*.spec.ts", "e2e/**/*.ts", "tests/**/*.spec.ts"},
			Format:          FormatText,
			TestFilePattern: "%s.spec.ts",
			CountPattern:    `(?m)^\s*test\s*\(`,
		},
		{
			Language:        result.LangGo,
			Framework:       result.FrameworkGoTest,
			TestGlobs:       []string{"**/*_test.go"},
			Format:          FormatStructured,
			TestFilePattern: "%s_test.go",
			CountPattern:    `(?m)^func Test\w+`,
		},
		{
			Language:        result.LangRust,
			Framework:       result.FrameworkCargo,
			TestGlobs:       []string{"tests/**/*.rs", "src/**/*.rs"},
			Format:          FormatText,
			TestFilePattern: "%s_test.rs",
			CountPattern:    `(?m)^\s*#\[test\]`,
		},
		{
			Language:        result.LangJava,
			Framework:       result.FrameworkJUnit,
			TestGlobs:       []string{"**/src/test/**/*Test.java", "**/*Test.java"},
			Format:          FormatText,
			TestFilePattern: "%sTest.java",
			CountPattern:    `(?m)^\s*@Test\b`,
		},
		{
			Language:        result.LangRuby,
			Framework:       result.FrameworkRSpec,
			TestGlobs:       []string{"spec/**/*_spec.rb"},
			Format:          FormatStructured,
			TestFilePattern: "%s_spec.rb",
			CountPattern:    `(?m)^\s*it\s+`,
		},
		{
			Language:        result.LangPHP,
			Framework:       result.FrameworkPHPUnit,
			TestGlobs:       []string{"tests/**/*Test.php", "**/*Test.php"},
			Format:          FormatText,
			TestFilePattern: "%sTest.php",
			CountPattern:    `(?m)^\s*(?:public\s+)?function\s+test\w+`,
		},
		{
			Language:        result.LangCSharp,
			Framework:       result.FrameworkXUnit,
			TestGlobs:       []string{"**/*Tests.cs", "**/*Test.cs"},
			Format:          FormatText,
			TestFilePattern: "%sTests.cs",
			CountPattern:    `(?m)^\s*\[(?:Fact|Theory|Test|TestMethod)\]`,
		},
	}
}
