// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"
)

// InVirtualEnv detects an active Python virtual or conda environment.
var InVirtualEnv = func() bool {
	return os.Getenv("VIRTUAL_ENV") != "" || os.Getenv("CONDA_PREFIX") != ""
}

// Python distributions providing each default tool.
var toolPackages = map[string]string{
	"rst2html.py":  "docutils",
	"rst2html":     "docutils",
	"cog":          "cogapp",
	"sphinx-build": "sphinx",
}

// ForToolNotFound returns hints for an external tool missing from PATH.
// Suggests the distribution to install and activating a virtual environment.
func ForToolNotFound(tool string) string {
	var hints []string

	if pkg, ok := toolPackages[filepath.Base(tool)]; ok {
		hints = append(hints, "install it with: pip install "+pkg)
	} else {
		hints = append(hints, "check the tools section of pkgdocs.yaml")
	}

	if !InVirtualEnv() {
		hints = append(hints, "activate the package's virtual environment")
	}

	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/pkgdocs/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForMissingReadme returns hints when the documentation-source readme is absent.
func ForMissingReadme(docsDir string) string {
	return format("create " + filepath.Join(docsDir, "README.rst") + " or set docsDir in pkgdocs.yaml")
}

// ForStrictBuild returns hints for renderer or site-generator failures.
// Both tools run with warnings treated as errors.
func ForStrictBuild() string {
	return format("warnings are fatal in strict mode; rerun with --verbose for renderer messages")
}

// ForDiffMismatch returns hints for a regenerated module that differs from
// its committed version.
func ForDiffMismatch(errorFiles []string) string {
	if len(errorFiles) == 0 {
		return ""
	}
	return format("inspect " + strings.Join(errorFiles, ", ") + "; run with --rebuild to accept the changes")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
