package pipeline

import (
	"strings"
	"unicode"
)

// Explicit remove-block markers. Matched against the left-trimmed line.
const (
	RemoveStartMarker = ".. [REMOVE START]"
	RemoveStopMarker  = ".. [REMOVE STOP]"
)

// FilterLines strips trailing whitespace from every line and collapses runs
// of blank lines to a single blank line. A leading blank line is kept.
func FilterLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevBlank := false
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		blank := line == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}
	return out
}

// StripRemoveBlocks drops every line between a remove-start marker and the
// next remove-stop marker, markers included. A stop marker outside a block is
// dropped as well.
func StripRemoveBlocks(lines []string) []string {
	out := make([]string, 0, len(lines))
	inBlock := false
	for _, line := range lines {
		switch {
		case isRemoveStop(line):
			inBlock = false
		case inBlock:
		case isRemoveStart(line):
			inBlock = true
		default:
			out = append(out, line)
		}
	}
	return out
}

// Cleanup is the final pass over the top-level readme once the preprocessor
// has inserted its excerpts: remove blocks go, then blank runs collapse.
func Cleanup(lines []string) []string {
	return FilterLines(StripRemoveBlocks(lines))
}

func isRemoveStart(line string) bool {
	return hasTrimmedPrefix(line, RemoveStartMarker)
}

func isRemoveStop(line string) bool {
	return hasTrimmedPrefix(line, RemoveStopMarker)
}

// hasTrimmedPrefix reports whether line, ignoring leading whitespace,
// starts with prefix.
func hasTrimmedPrefix(line, prefix string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), prefix)
}
