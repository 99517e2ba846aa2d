package pkgdocs

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/alnah/go-pkgdocs/internal/fileutil"
)

// diffContext is the number of unchanged lines shown around each hunk.
const diffContext = 3

// DiffFiles returns the unified diff between two text files, one line per
// element, or nil when their lines are identical. Trailing whitespace is
// ignored on both sides.
func DiffFiles(fromFile, toFile string) ([]string, error) {
	a, err := fileutil.ReadLines(fromFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fromFile, err)
	}
	b, err := fileutil.ReadLines(toFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", toFile, err)
	}
	return DiffLines(a, b, fromFile, toFile)
}

// DiffLines returns the unified diff of two line slices, or nil when they
// are equal.
func DiffLines(a, b []string, fromFile, toFile string) ([]string, error) {
	if equalLines(a, b) {
		return nil, nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withNewlines(a),
		B:        withNewlines(b),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  diffContext,
	})
	if err != nil {
		return nil, fmt.Errorf("diffing %s and %s: %w", fromFile, toFile, err)
	}

	return strings.Split(strings.TrimSuffix(text, "\n"), "\n"), nil
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}
	return out
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
