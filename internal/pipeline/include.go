package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/alnah/go-pkgdocs/internal/config"
	"github.com/alnah/go-pkgdocs/internal/fileutil"
)

// ErrIncludeRead indicates an included file could not be read.
var ErrIncludeRead = errors.New("failed to read included file")

// DefaultChangelog is the include target that is never inlined. Package
// indexes append the change log to the readme on their own.
const DefaultChangelog = config.DefaultChangelog

const (
	includeDirective = ".. include::"
	commentPrefix    = ".. "
)

// Directive lines inside an included file survive comment filtering.
var directivePattern = regexp.MustCompile(`^\s*\.\. \S+::`)

// IncludeExpander inlines the files named by include directives.
type IncludeExpander struct {
	// Dir is the directory include paths are relative to.
	Dir string
	// Changelog is the base name that is skipped (DefaultChangelog if empty).
	Changelog string
}

// IsInclude reports whether the line is an include directive.
func IsInclude(line string) bool {
	return hasTrimmedPrefix(line, includeDirective)
}

// Target returns the path named by an include directive line: its last
// whitespace-separated field.
func Target(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// Expand returns the lines to inline for an include directive line. Comment
// lines are dropped unless they are themselves directives.
func (e *IncludeExpander) Expand(line string) ([]string, error) {
	target := Target(line)
	if filepath.Base(target) == e.changelog() {
		return nil, nil
	}

	path := filepath.Join(e.Dir, filepath.FromSlash(target))
	lines, err := fileutil.ReadLines(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIncludeRead, target, err)
	}

	out := make([]string, 0, len(lines))
	for _, inc := range lines {
		if isComment(inc) && !directivePattern.MatchString(inc) {
			continue
		}
		out = append(out, inc)
	}
	return out, nil
}

func (e *IncludeExpander) changelog() string {
	if e.Changelog == "" {
		return DefaultChangelog
	}
	return e.Changelog
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), commentPrefix)
}
