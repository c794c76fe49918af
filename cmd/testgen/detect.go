package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/JayPatil165/TestGen-AI/internal/detector"
	"github.com/JayPatil165/TestGen-AI/internal/registry"
	"github.com/JayPatil165/TestGen-AI/internal/reporter"
	"github.com/JayPatil165/TestGen-AI/pkg/result"
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect [dir]",
	Short: "Detect the project's language and test framework",
	Long: `Detect inspects a project directory and reports its best-guess
(language, framework) pair, the confidence of that guess, and the marker
files that produced it.

Detection never fails: an empty or unrecognizable directory reports the
default guess with low confidence.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetectCommand,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetectCommand(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(args)
	if err != nil {
		return err
	}

	det := detector.New(registry.New()).Detect(root)
	reporter.New(os.Stdout).Detection(det)
	return nil
}

// resolvePairing returns the (language, framework) pair for a project,
// honoring explicit --language/--framework overrides, and falls back to
// detection for whatever is missing.
func resolvePairing(root, langFlag, fwFlag string, reg *registry.Registry) (result.Language, result.Framework, detector.Detection) {
	var det detector.Detection
	if langFlag == "" || fwFlag == "" {
		det = detector.New(reg).Detect(root)
	}

	lang := det.Language
	if langFlag != "" {
		lang = result.Language(langFlag)
	}
	fw := det.Framework
	if fwFlag != "" {
		fw = result.Framework(fwFlag)
	} else if langFlag != "" {
		// Explicit language without a framework selects that language's
		// default rather than the detected one.
		fw = reg.DefaultFramework(lang)
	}
	return lang, fw, det
}
