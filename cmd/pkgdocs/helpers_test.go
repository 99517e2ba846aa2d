package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	pkgdocs "github.com/alnah/go-pkgdocs"
)

// fakeRunner records commands and simulates the external tools: the
// preprocessor copies its input to the -o file, the renderer writes an empty
// page, everything else succeeds. handle, when set, runs first; a nil error
// pointer falls through to the simulation.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []pkgdocs.Command
	handle func(c pkgdocs.Command) *error
}

func (f *fakeRunner) Run(_ context.Context, c pkgdocs.Command) (pkgdocs.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	if f.handle != nil {
		if errp := f.handle(c); errp != nil {
			return pkgdocs.Result{}, *errp
		}
	}

	last := ""
	if len(c.Args) > 0 {
		last = c.Args[len(c.Args)-1]
	}
	switch c.Name {
	case "cog":
		data, err := os.ReadFile(last)
		if err != nil {
			return pkgdocs.Result{ExitCode: 1}, err
		}
		return pkgdocs.Result{}, os.WriteFile(outputArg(c), data, 0o644)
	case "rst2html.py":
		return pkgdocs.Result{}, os.WriteFile(last, []byte("<html></html>"), 0o644)
	}
	return pkgdocs.Result{}, nil
}

func (f *fakeRunner) Calls() []pkgdocs.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func outputArg(c pkgdocs.Command) string {
	for i, a := range c.Args {
		if a == "-o" && i+1 < len(c.Args) {
			return c.Args[i+1]
		}
	}
	return ""
}

func failWith(err error) *error { return &err }

// testEnv bundles an isolated Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	runner *fakeRunner
	vars   map[string]string
}

// newTestEnv returns an Environment that never reads the real process
// environment, standard input or PATH.
func newTestEnv(stdin string) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		runner: &fakeRunner{},
		vars:   map[string]string{},
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(stdin),
		Stdout: te.stdout,
		Stderr: te.stderr,
		Runner: te.runner,
		LookPath: func(file string) (string, error) {
			return "/usr/bin/" + file, nil
		},
		MaxCPUs: func() int { return 4 },
		Getenv: func(key string) (string, bool) {
			v, ok := te.vars[key]
			return v, ok
		},
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			return out
		},
	}
	return te
}

var errNotOnPath = errors.New("executable file not found in $PATH")

const testReadme = "putil\n=====\n\nThe :py:mod:`putil.eng` module.\n"

// newProject creates a package root named putil with a source readme and,
// when configYAML is not empty, a pkgdocs.yaml.
func newProject(t *testing.T, readme, configYAML string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "putil")
	for _, dir := range []string{"docs/support", "putil"} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o750); err != nil {
			t.Fatal(err)
		}
	}
	if readme != "" {
		writeFile(t, filepath.Join(root, "docs", "README.rst"), readme)
	}
	if configYAML != "" {
		writeFile(t, filepath.Join(root, "pkgdocs.yaml"), configYAML)
	}
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
