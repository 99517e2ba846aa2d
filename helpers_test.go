package pkgdocs

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-pkgdocs/internal/config"
)

// fakeRunner records every command and simulates the external tools: the
// preprocessor copies its input to the -o file, the renderer writes an empty
// HTML page, everything else succeeds silently. handle, when set, runs first;
// a nil outcome falls through to the simulation.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []Command
	handle func(c Command) *outcome
}

type outcome struct {
	res Result
	err error
}

func (f *fakeRunner) Run(_ context.Context, c Command) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	if f.handle != nil {
		if o := f.handle(c); o != nil {
			return o.res, o.err
		}
	}
	return simulateTool(c)
}

func (f *fakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsTo returns the recorded commands for one tool.
func (f *fakeRunner) CallsTo(name string) []Command {
	var out []Command
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func simulateTool(c Command) (Result, error) {
	switch c.Name {
	case config.DefaultCog:
		in := c.Args[len(c.Args)-1]
		data, err := os.ReadFile(in)
		if err != nil {
			return Result{ExitCode: 1}, err
		}
		if err := os.WriteFile(outputArg(c), data, 0o644); err != nil {
			return Result{ExitCode: 1}, err
		}
	case config.DefaultRST2HTML:
		out := c.Args[len(c.Args)-1]
		if err := os.WriteFile(out, []byte("<html><body></body></html>"), 0o644); err != nil {
			return Result{ExitCode: 1}, err
		}
	}
	return Result{}, nil
}

// outputArg returns the value following -o.
func outputArg(c Command) string {
	for i, a := range c.Args {
		if a == "-o" && i+1 < len(c.Args) {
			return c.Args[i+1]
		}
	}
	return ""
}

// fixedClock returns a clock that advances by step on every call.
func fixedClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(step)
		return t
	}
}

// newPackageRoot creates a package root named putil with a docs/README.rst
// holding readme and returns its path.
func newPackageRoot(t *testing.T, readme string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "putil")
	for _, dir := range []string{"docs/support", "putil"} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o750); err != nil {
			t.Fatal(err)
		}
	}
	if readme != "" {
		writeTestFile(t, filepath.Join(root, "docs", "README.rst"), readme)
	}
	return root
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func argsString(c Command) string {
	return strings.Join(c.Args, " ")
}
