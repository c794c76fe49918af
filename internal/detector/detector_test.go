package detector

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/JayPatil165/TestGen-AI/internal/registry"
	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

func newTestDetector() *Detector {
	return New(registry.New())
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDetector_Detect(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		language   result.Language
		framework  result.Framework
		confidence Confidence
		assumed    bool
	}{
		{
			name:       "python project with pytest",
			files:      map[string]string{"pyproject.toml": "[tool.pytest.ini_options]\n", "requirements.txt": "pytest\n"},
			language:   result.LangPython,
			framework:  result.FrameworkPytest,
			confidence: ConfidenceHigh,
		},
		{
			name:       "python marker without framework signal",
			files:      map[string]string{"setup.py": "from setuptools import setup\n"},
			language:   result.LangPython,
			framework:  result.FrameworkPytest,
			confidence: ConfidenceMedium,
			assumed:    true,
		},
		{
			name:       "typescript beats javascript on marker tie",
			files:      map[string]string{"tsconfig.json": "{}", "package.json": `{"devDependencies":{"jest":"^29.0.0"}}`},
			language:   result.LangTypeScript,
			framework:  result.FrameworkJest,
			confidence: ConfidenceHigh,
		},
		{
			// The npm lockfile must not let the shared package manifest
			// outweigh the TypeScript compiler config.
			name: "typescript survives a javascript lockfile",
			files: map[string]string{
				"tsconfig.json":     "{}",
				"package.json":      `{"devDependencies":{"jest":"^29.0.0"}}`,
				"package-lock.json": "{}",
			},
			language:   result.LangTypeScript,
			framework:  result.FrameworkJest,
			confidence: ConfidenceHigh,
		},
		{
			name:       "playwright wins over jest",
			files:      map[string]string{"package.json": `{"devDependencies":{"@playwright/test":"^1.40.0","jest":"^29.0.0"}}`},
			language:   result.LangJavaScript,
			framework:  result.FrameworkPlaywright,
			confidence: ConfidenceHigh,
		},
		{
			name:       "go module",
			files:      map[string]string{"go.mod": "module example.com/x\n\ngo 1.23\n"},
			language:   result.LangGo,
			framework:  result.FrameworkGoTest,
			confidence: ConfidenceHigh,
		},
		{
			name:       "rust crate",
			files:      map[string]string{"Cargo.toml": "[package]\nname = \"x\"\n"},
			language:   result.LangRust,
			framework:  result.FrameworkCargo,
			confidence: ConfidenceHigh,
		},
		{
			name:       "maven project with junit",
			files:      map[string]string{"pom.xml": "<project><dependencies><artifactId>junit</artifactId></dependencies></project>"},
			language:   result.LangJava,
			framework:  result.FrameworkJUnit,
			confidence: ConfidenceHigh,
		},
		{
			name:       "ruby with rspec",
			files:      map[string]string{"Gemfile": "gem 'rspec'\n"},
			language:   result.LangRuby,
			framework:  result.FrameworkRSpec,
			confidence: ConfidenceHigh,
		},
		{
			name:       "php with phpunit config",
			files:      map[string]string{"composer.json": "{}", "phpunit.xml": "<phpunit/>"},
			language:   result.LangPHP,
			framework:  result.FrameworkPHPUnit,
			confidence: ConfidenceHigh,
		},
		{
			name:       "csharp xunit project",
			files:      map[string]string{"App.csproj": `<Project><PackageReference Include="xunit" /></Project>`},
			language:   result.LangCSharp,
			framework:  result.FrameworkXUnit,
			confidence: ConfidenceHigh,
		},
	}

	d := newTestDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, tt.files)

			det := d.Detect(root)
			if det.Language != tt.language {
				t.Errorf("Language = %s, want %s", det.Language, tt.language)
			}
			if det.Framework != tt.framework {
				t.Errorf("Framework = %s, want %s", det.Framework, tt.framework)
			}
			if det.Confidence != tt.confidence {
				t.Errorf("Confidence = %s, want %s", det.Confidence, tt.confidence)
			}
			if det.Assumed != tt.assumed {
				t.Errorf("Assumed = %v, want %v", det.Assumed, tt.assumed)
			}
		})
	}
}

func TestDetector_EmptyDirectory(t *testing.T) {
	det := newTestDetector().Detect(t.TempDir())

	if det.Language != result.LangPython {
		t.Errorf("empty dir Language = %s, want the python default", det.Language)
	}
	if det.Confidence != ConfidenceLow {
		t.Errorf("empty dir Confidence = %s, want low", det.Confidence)
	}
	if !det.Assumed {
		t.Error("empty dir framework should be flagged assumed")
	}
}

func TestDetector_ExtensionHistogramFallback(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/a.go":   "package a\n",
		"src/b.go":   "package a\n",
		"src/c.go":   "package a\n",
		"scripts.py": "print('x')\n",
	})

	det := newTestDetector().Detect(root)
	if det.Language != result.LangGo {
		t.Errorf("Language = %s, want go from extension plurality", det.Language)
	}
	if det.Confidence != ConfidenceMedium {
		t.Errorf("Confidence = %s, want medium for histogram detection", det.Confidence)
	}
}

func TestDetector_SkipsDependencyDirs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"main.py":                "print('x')\n",
		"node_modules/dep/a.js":  "x",
		"node_modules/dep/b.js":  "x",
		"node_modules/dep2/c.js": "x",
		"node_modules/dep2/d.js": "x",
		"node_modules/dep2/e.js": "x",
	})

	det := newTestDetector().Detect(root)
	if det.Language != result.LangPython {
		t.Errorf("Language = %s, want python; node_modules should be skipped", det.Language)
	}
}

func TestDetector_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":  `{"devDependencies":{"vitest":"^1.0.0"}}`,
		"tsconfig.json": "{}",
	})

	d := newTestDetector()
	first := d.Detect(root)
	for i := 0; i < 10; i++ {
		if got := d.Detect(root); !reflect.DeepEqual(got, first) {
			t.Fatalf("detection differs between runs: %+v vs %+v", got, first)
		}
	}
}
