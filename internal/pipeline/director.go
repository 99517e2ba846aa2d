package pipeline

import (
	"bytes"
	_ "embed"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"unicode"

	"github.com/alnah/go-pkgdocs/internal/config"
)

// State is the directive region the director is currently inside.
// Exactly one state is active at a time; regions do not nest.
type State int

const (
	StateNormal State = iota
	StateAutoFunction
	StateLiteralInclude
	StateRemoveBlock
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateAutoFunction:
		return "autofunction"
	case StateLiteralInclude:
		return "literalinclude"
	case StateRemoveBlock:
		return "remove-block"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Directive prefixes, matched against the left-trimmed line.
const (
	literalIncludeDirective = ".. literalinclude::"
	autoFunctionDirective   = ".. autofunction::"
	linesOption             = ":lines:"
	fileOption              = ":file:"
)

// Defaults for the generated code-insertion block. The support directory is
// written relative to the package root with a ./ prefix.
const (
	DefaultHelperModule = config.DefaultHelperModule
	DefaultSupportDir   = "./" + config.DefaultSupportDir
	DefaultCSVFile      = config.DefaultCSVFile
)

// A line with leading whitespace before its first non-space character.
var indentPattern = regexp.MustCompile(`^(\s*)\S+`)

//go:embed cogblock.tmpl
var cogBlockSource string

var cogBlock = template.Must(template.New("cogblock").Parse(cogBlockSource))

// Options configures a Director.
type Options struct {
	// Package is the package name used by module references and the
	// generated insertion block.
	Package string
	// DocsDir is the directory include paths are relative to.
	DocsDir string
	// Changelog is the include target that is never inlined.
	Changelog string
	// HelperModule is the preprocessor helper that inserts file excerpts.
	HelperModule string
	// SupportDir is the support directory passed to the helper.
	SupportDir string
	// CSVFile replaces the data file named by csv-table :file: options.
	CSVFile string
}

func (o Options) withDefaults() Options {
	if o.HelperModule == "" {
		o.HelperModule = DefaultHelperModule
	}
	if o.SupportDir == "" {
		o.SupportDir = DefaultSupportDir
	}
	if o.CSVFile == "" {
		o.CSVFile = DefaultCSVFile
	}
	if o.Changelog == "" {
		o.Changelog = DefaultChangelog
	}
	return o
}

// Director walks the documentation-source readme one line at a time and
// decides, per line, whether to pass it through, rewrite it, or drop it.
type Director struct {
	opts     Options
	state    State
	literal  string // file captured by the open literalinclude
	xrefs    *XRefStripper
	includes *IncludeExpander
}

// NewDirector creates a Director in the normal state.
func NewDirector(opts Options) *Director {
	opts = opts.withDefaults()
	return &Director{
		opts:  opts,
		state: StateNormal,
		xrefs: NewXRefStripper(opts.Package),
		includes: &IncludeExpander{
			Dir:       opts.DocsDir,
			Changelog: opts.Changelog,
		},
	}
}

// State returns the active directive region.
func (d *Director) State() State {
	return d.state
}

// Run feeds every line through Step and returns the collected output.
// A non-normal State afterwards means the input ended inside a region.
func (d *Director) Run(lines []string) ([]string, error) {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		emitted, err := d.Step(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, emitted...)
	}
	return out, nil
}

// Step processes one line and returns the lines to emit for it.
func (d *Director) Step(line string) ([]string, error) {
	// A stop marker is always dropped; it only closes a remove block.
	if isRemoveStop(line) {
		if d.state == StateRemoveBlock {
			d.state = StateNormal
		}
		return nil, nil
	}

	switch d.state {
	case StateRemoveBlock:
		return nil, nil

	case StateAutoFunction:
		if isIndented(line) {
			return nil, nil
		}
		d.state = StateNormal
		return []string{line}, nil

	case StateLiteralInclude:
		if !hasTrimmedPrefix(line, linesOption) {
			return nil, nil
		}
		d.state = StateNormal
		return d.insertionBlock(d.literal, optionValue(line, linesOption))
	}

	return d.normal(line)
}

// normal handles a line outside any directive region.
func (d *Director) normal(line string) ([]string, error) {
	if out, ok := d.xrefs.Strip(line); ok {
		return []string{out}, nil
	}

	switch {
	case hasTrimmedPrefix(line, literalIncludeDirective):
		d.literal = optionValue(line, literalIncludeDirective)
		d.state = StateLiteralInclude
	case hasTrimmedPrefix(line, fileOption):
		return []string{d.rewriteFileOption(line)}, nil
	case IsInclude(line):
		return d.includes.Expand(line)
	case hasTrimmedPrefix(line, autoFunctionDirective):
		d.state = StateAutoFunction
	case isRemoveStart(line):
		d.state = StateRemoveBlock
	default:
		return []string{line}, nil
	}
	return nil, nil
}

// insertionBlock renders the preprocessor block that re-inserts lines
// lineRange of file when the readme is processed.
func (d *Director) insertionBlock(file, lineRange string) ([]string, error) {
	data := struct {
		Package    string
		Helper     string
		File       string
		Lines      string
		SupportDir string
	}{
		Package:    d.opts.Package,
		Helper:     d.opts.HelperModule,
		File:       path.Base(filepath.ToSlash(file)),
		Lines:      lineRange,
		SupportDir: d.opts.SupportDir,
	}

	var buf bytes.Buffer
	if err := cogBlock.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering insertion block for %s: %w", file, err)
	}
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"), nil
}

// rewriteFileOption points a csv-table :file: option at the support data file.
func (d *Director) rewriteFileOption(line string) string {
	name := optionValue(line, fileOption)
	if name == "" {
		return line
	}
	return strings.ReplaceAll(line, name, d.opts.CSVFile)
}

// optionValue returns the text following prefix on a directive or option line.
func optionValue(line, prefix string) string {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	return strings.TrimSpace(strings.Replace(trimmed, prefix, "", 1))
}

// isIndented reports whether the line has content preceded by whitespace.
// Blank lines are not indented.
func isIndented(line string) bool {
	m := indentPattern.FindStringSubmatch(line)
	return m != nil && m[1] != ""
}
