package pkgdocs

// Notes:
// - External tools are simulated by fakeRunner (see helpers_test.go); the
//   real subprocess path is covered by runner_test.go.
// - Elapsed-time lines are checked by prefix only; FormatElapsed has its own
//   table test.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alnah/go-pkgdocs/internal/config"
)

const sampleReadme = `putil
=====

.. [REMOVE START]
.. image:: badge.svg
.. [REMOVE STOP]

The :py:mod:` + "`putil.eng`" + ` module.
Returns a :py:class:` + "`Series`" + ` object.

.. literalinclude:: ./support/example.py
    :language: python
    :lines: 1-4

.. autofunction:: putil.eng.peng
    :noindex:

End
`

func newTestBuilder(t *testing.T, cfg *config.Config, runner CommandRunner, out io.Writer, opts ...Option) *Builder {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	base := []Option{WithRunner(runner), WithOutput(out), WithClock(fixedClock(time.Second))}
	return New(cfg, append(base, opts...)...)
}

// ---------------------------------------------------------------------------
// TestBuilder_Build - Full build without exception documentation
// ---------------------------------------------------------------------------

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	root := newPackageRoot(t, sampleReadme)
	stale := filepath.Join(root, "docs", "_build", "html")
	if err := os.MkdirAll(stale, 0o750); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{}
	var out bytes.Buffer
	b := newTestBuilder(t, nil, runner, &out)

	res, err := b.Build(context.Background(), BuildOptions{Root: root})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}

	wantReadme := "putil\n=====\n\nThe eng module.\nReturns a Series object.\n\nEnd\n"
	if diff := cmp.Diff(wantReadme, readTestFile(t, filepath.Join(root, "README.rst"))); diff != "" {
		t.Errorf("README.rst mismatch (-want +got):\n%s", diff)
	}

	var stages []string
	for _, s := range res.Stages {
		stages = append(stages, s.Name)
	}
	if diff := cmp.Diff([]string{StageReadme, StageInsert, StageCleanup, StageSite}, stages); diff != "" {
		t.Errorf("stages mismatch (-want +got):\n%s", diff)
	}

	docsReadme := filepath.Join(root, "docs", "README.rst")
	topReadme := filepath.Join(root, "README.rst")
	type call struct{ name, args, dir string }
	var got []call
	for _, c := range runner.Calls() {
		args := argsString(c)
		if c.Name == config.DefaultRST2HTML {
			// The output file is a random temp path.
			args = strings.Join(c.Args[:len(c.Args)-1], " ")
		}
		got = append(got, call{c.Name, args, c.Dir})
	}
	want := []call{
		{"rst2html.py", "--exit-status=3 --verbose --strict " + topReadme, ""},
		{"cog", "-e -x -o " + docsReadme + ".tmp " + docsReadme, root},
		{"cog", "-e -o " + docsReadme + ".tmp " + docsReadme, root},
		{"cog", "-e -x -o " + topReadme + ".tmp " + topReadme, root},
		{"cog", "-e -o " + topReadme + ".tmp " + topReadme, root},
		{"rst2html.py", "--exit-status=3 --verbose --strict " + topReadme, ""},
		{"sphinx-build", "-b html -d " + filepath.Join("_build", "doctrees") + " -W . " + filepath.Join("_build", "html"), filepath.Join(root, "docs")},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(call{})); diff != "" {
		t.Errorf("tool calls mismatch (-want +got):\n%s", diff)
	}

	if exists(stale) {
		t.Error("docs/_build was not removed before the site build")
	}
	for _, leftover := range []string{docsReadme + ".tmp", topReadme + ".tmp"} {
		if exists(leftover) {
			t.Errorf("%s left behind", leftover)
		}
	}

	for _, line := range []string{"Rebuilding documentation", "Generating top-level README.rst file", "Inserting source files in documentation files", "   Processing file " + topReadme, "Generating HTML output", "Total elapsed time: "} {
		if !strings.Contains(out.String(), line) {
			t.Errorf("output missing %q:\n%s", line, out.String())
		}
	}
}

func TestBuilder_Build_InsertionBlock(t *testing.T) {
	t.Parallel()

	root := newPackageRoot(t, sampleReadme)
	var generated string
	runner := &fakeRunner{handle: func(c Command) *outcome {
		// Capture the top-level readme as the preprocessor first sees it.
		if c.Name == config.DefaultCog && generated == "" && strings.HasSuffix(c.Args[len(c.Args)-1], filepath.Join("putil", "README.rst")) {
			generated = readTestFile(t, c.Args[len(c.Args)-1])
		}
		return nil
	}}

	b := newTestBuilder(t, &config.Config{Readme: config.ReadmeConfig{HelperModule: "docs.incfile"}}, runner, io.Discard)
	if _, err := b.Build(context.Background(), BuildOptions{Root: root}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, want := range []string{".. import putil", ".. import docs.incfile", `..     "example.py",`, `..     "1-4",`, `..     "./docs/support"`} {
		if !strings.Contains(generated, want) {
			t.Errorf("generated readme missing %q:\n%s", want, generated)
		}
	}
}

// ---------------------------------------------------------------------------
// TestBuilder_Build_ExDoc - Exception documentation rebuild
// ---------------------------------------------------------------------------

const engSource = "def peng():\n    pass\n"

// modifyModule makes the simulated preprocessor rewrite the named modules.
func modifyModule(names ...string) func(c Command) *outcome {
	return func(c Command) *outcome {
		if c.Name != config.DefaultCog {
			return nil
		}
		in := c.Args[len(c.Args)-1]
		for _, name := range names {
			if filepath.Base(in) == name {
				if err := os.WriteFile(outputArg(c), []byte("def peng():\n    raise RuntimeError\n"), 0o644); err != nil {
					return &outcome{err: err}
				}
				return &outcome{}
			}
		}
		return nil
	}
}

func exDocConfig(submodules ...string) *config.Config {
	return &config.Config{ExDoc: config.ExDocConfig{Submodules: submodules}}
}

func TestBuilder_Build_ExDocTestIdentical(t *testing.T) {
	t.Parallel()

	root := newPackageRoot(t, sampleReadme)
	src := filepath.Join(root, "putil", "eng.py")
	trace := filepath.Join(root, "docs", "support", "eng.pkl")
	writeTestFile(t, src, engSource)
	writeTestFile(t, trace, "trace")

	runner := &fakeRunner{}
	var out bytes.Buffer
	b := newTestBuilder(t, exDocConfig("eng"), runner, &out)

	res, err := b.Build(context.Background(), BuildOptions{Root: root, Test: true, NumCPUs: 2})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if res.ExitCode != 0 || len(res.Mismatches) != 0 {
		t.Errorf("ExitCode = %d, Mismatches = %v, want clean result", res.ExitCode, res.Mismatches)
	}
	if res.Stages[0].Name != StageExDoc {
		t.Errorf("first stage = %q, want %q", res.Stages[0].Name, StageExDoc)
	}

	first := runner.Calls()[0]
	if got, want := argsString(first), "-e -o "+src+".tmp "+src; got != want {
		t.Errorf("exdoc args = %q, want %q", got, want)
	}
	wantEnv := []string{"NOPTION=-n 2", "TRACER_DIR=" + filepath.Join(root, "docs", "support")}
	if diff := cmp.Diff(wantEnv, first.Env); diff != "" {
		t.Errorf("exdoc env mismatch (-want +got):\n%s", diff)
	}

	if got := readTestFile(t, src); got != engSource {
		t.Errorf("source = %q, want unchanged", got)
	}
	if exists(src + ".orig") {
		t.Error("backup left behind")
	}
	if exists(trace) {
		t.Error("trace file not removed for identical module")
	}

	for _, line := range []string{"Rebuilding exceptions documentation (test mode)", "Processing module eng", "File " + src + " identical from original", "Elapsed time: "} {
		if !strings.Contains(out.String(), line) {
			t.Errorf("output missing %q:\n%s", line, out.String())
		}
	}
}

func TestBuilder_Build_ExDocTestDiffers(t *testing.T) {
	t.Parallel()

	root := newPackageRoot(t, sampleReadme)
	eng := filepath.Join(root, "putil", "eng.py")
	plot := filepath.Join(root, "putil", "plot.py")
	engTrace := filepath.Join(root, "docs", "support", "eng.pkl")
	plotTrace := filepath.Join(root, "docs", "support", "plot.pkl")
	writeTestFile(t, eng, engSource)
	writeTestFile(t, plot, engSource)
	writeTestFile(t, engTrace, "trace")
	writeTestFile(t, plotTrace, "trace")

	runner := &fakeRunner{handle: modifyModule("eng.py")}
	var out bytes.Buffer
	b := newTestBuilder(t, exDocConfig("eng", "plot"), runner, &out)

	res, err := b.Build(context.Background(), BuildOptions{Root: root, Test: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// A later identical module does not clear the failure.
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if diff := cmp.Diff([]string{eng + ".error"}, res.Mismatches); diff != "" {
		t.Errorf("Mismatches mismatch (-want +got):\n%s", diff)
	}
	if len(res.Stages) != 5 {
		t.Errorf("len(Stages) = %d, want 5: a difference does not stop the build", len(res.Stages))
	}

	if got := readTestFile(t, eng); got != engSource {
		t.Errorf("source = %q, want original restored", got)
	}
	if got := readTestFile(t, eng+".error"); !strings.Contains(got, "raise RuntimeError") {
		t.Errorf("failure artifact = %q, want regenerated content", got)
	}
	if !exists(engTrace) {
		t.Error("trace file removed for differing module")
	}
	if exists(plotTrace) {
		t.Error("trace file kept for identical module")
	}

	for _, line := range []string{
		"File " + eng + " differs from original",
		"   Differences:",
		"   --- " + eng,
		"   +++ " + eng + ".orig",
		"   -    raise RuntimeError",
		"   +    pass",
		"File " + plot + " identical from original",
	} {
		if !strings.Contains(out.String(), line) {
			t.Errorf("output missing %q:\n%s", line, out.String())
		}
	}
}

func TestBuilder_Build_ExDocRebuild(t *testing.T) {
	t.Parallel()

	root := newPackageRoot(t, sampleReadme)
	src := filepath.Join(root, "putil", "eng.py")
	trace := filepath.Join(root, "docs", "support", "eng.pkl")
	writeTestFile(t, src, engSource)
	writeTestFile(t, trace, "trace")

	runner := &fakeRunner{handle: modifyModule("eng.py")}
	cfg := exDocConfig("eng")
	cfg.ExDoc.RefreshCommand = []string{"python", "refresh_moddb.py"}
	cfg.ExDoc.BuildCommand = []string{"python", "build_moddb.py"}
	var out bytes.Buffer
	b := newTestBuilder(t, cfg, runner, &out)

	res, err := b.Build(context.Background(), BuildOptions{Root: root, Rebuild: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0 outside test mode", res.ExitCode)
	}
	if got := readTestFile(t, src); !strings.Contains(got, "raise RuntimeError") {
		t.Errorf("source = %q, want regenerated content", got)
	}
	if exists(trace) {
		t.Error("trace file not removed")
	}
	if strings.Contains(out.String(), "(test mode)") {
		t.Error("test mode announced outside test mode")
	}

	calls := runner.Calls()
	if len(calls) < 3 {
		t.Fatalf("len(calls) = %d, want at least 3", len(calls))
	}
	if got := calls[0].Name + " " + argsString(calls[0]); got != "python refresh_moddb.py" {
		t.Errorf("first call = %q, want refresh hook", got)
	}
	if calls[0].Dir != root {
		t.Errorf("hook dir = %q, want %q", calls[0].Dir, root)
	}
	if calls[1].Name != "cog" {
		t.Errorf("second call = %q, want preprocessor", calls[1].Name)
	}
	if got := calls[1].Env[0]; got != "NOPTION=" {
		t.Errorf("processor option = %q, want empty for one CPU", got)
	}
	if got := calls[2].Name + " " + argsString(calls[2]); got != "python build_moddb.py" {
		t.Errorf("third call = %q, want build hook", got)
	}
}

func TestBuilder_Build_ExDocNoSubmodules(t *testing.T) {
	t.Parallel()

	root := newPackageRoot(t, sampleReadme)
	runner := &fakeRunner{}
	var out bytes.Buffer
	cfg := &config.Config{ExDoc: config.ExDocConfig{RefreshCommand: []string{"python", "refresh.py"}}}
	b := newTestBuilder(t, cfg, runner, &out)

	if _, err := b.Build(context.Background(), BuildOptions{Root: root, Rebuild: true}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.Contains(out.String(), "No submodules defined, skipping exception documentation rebuilding") {
		t.Errorf("output missing skip notice:\n%s", out.String())
	}
	if calls := runner.CallsTo("python"); len(calls) != 0 {
		t.Errorf("hooks ran without submodules: %v", calls)
	}
}

func TestBuilder_Build_ExDocFailureRestoresSource(t *testing.T) {
	t.Parallel()

	root := newPackageRoot(t, sampleReadme)
	src := filepath.Join(root, "putil", "eng.py")
	writeTestFile(t, src, engSource)

	runner := &fakeRunner{handle: func(c Command) *outcome {
		if c.Name == config.DefaultCog {
			// Leave a partial output behind like a crashing tool would.
			_ = os.WriteFile(outputArg(c), []byte("partial"), 0o644)
			return &outcome{res: Result{ExitCode: 1}, err: fmt.Errorf("%w: cog exited with status 1", ErrToolFailed)}
		}
		return nil
	}}
	b := newTestBuilder(t, exDocConfig("eng"), runner, io.Discard)

	res, err := b.Build(context.Background(), BuildOptions{Root: root, Test: true})
	if !errors.Is(err, ErrExDocGenerate) || !errors.Is(err, ErrToolFailed) {
		t.Fatalf("Build() error = %v, want ErrExDocGenerate wrapping ErrToolFailed", err)
	}
	if len(res.Stages) != 1 {
		t.Errorf("len(Stages) = %d, want 1", len(res.Stages))
	}
	if got := readTestFile(t, src); got != engSource {
		t.Errorf("source = %q, want original restored", got)
	}
	for _, leftover := range []string{src + ".orig", src + ".tmp"} {
		if exists(leftover) {
			t.Errorf("%s left behind", leftover)
		}
	}
}

func TestBuilder_Build_HookFailure(t *testing.T) {
	t.Parallel()

	root := newPackageRoot(t, sampleReadme)
	writeTestFile(t, filepath.Join(root, "putil", "eng.py"), engSource)

	runner := &fakeRunner{handle: func(c Command) *outcome {
		if c.Name == "python" {
			return &outcome{err: fmt.Errorf("%w: python exited with status 2", ErrToolFailed)}
		}
		return nil
	}}
	cfg := exDocConfig("eng")
	cfg.ExDoc.RefreshCommand = []string{"python", "refresh.py"}
	b := newTestBuilder(t, cfg, runner, io.Discard)

	_, err := b.Build(context.Background(), BuildOptions{Root: root, Rebuild: true})
	if !errors.Is(err, ErrHookFailed) {
		t.Fatalf("Build() error = %v, want ErrHookFailed", err)
	}
	if !strings.Contains(err.Error(), "refreshCommand") {
		t.Errorf("error = %q, want hook named", err)
	}
	if calls := runner.CallsTo("cog"); len(calls) != 0 {
		t.Errorf("preprocessor ran after hook failure: %d calls", len(calls))
	}
}

// ---------------------------------------------------------------------------
// TestBuilder_Build_Errors - Stage failures
// ---------------------------------------------------------------------------

func TestBuilder_Build_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		readme     string
		handle     func(c Command) *outcome
		wantErrs   []error
		wantSubstr []string
	}{
		{
			name:       "missing source readme",
			readme:     "",
			wantErrs:   []error{ErrReadmeNotFound},
			wantSubstr: []string{"hint:", "README.rst"},
		},
		{
			name:   "renderer rejects readme",
			readme: sampleReadme,
			handle: func(c Command) *outcome {
				if c.Name == config.DefaultRST2HTML {
					return &outcome{
						res: Result{Stderr: "README.rst:2: (WARNING/2) Title underline too short.\n", ExitCode: 3},
						err: fmt.Errorf("%w: rst2html.py exited with status 3", ErrToolFailed),
					}
				}
				return nil
			},
			wantErrs:   []error{ErrReadmeRender, ErrToolFailed},
			wantSubstr: []string{"Title underline too short", "strict mode"},
		},
		{
			name:   "preprocessor missing",
			readme: sampleReadme,
			handle: func(c Command) *outcome {
				if c.Name == config.DefaultCog {
					return &outcome{err: fmt.Errorf("%w: cog", ErrToolNotFound)}
				}
				return nil
			},
			wantErrs:   []error{ErrStripInsertions, ErrToolNotFound},
			wantSubstr: []string{"pip install cogapp"},
		},
		{
			name:   "insert pass fails",
			readme: sampleReadme,
			handle: func(c Command) *outcome {
				if c.Name == config.DefaultCog && c.Args[1] == "-o" {
					return &outcome{err: fmt.Errorf("%w: cog exited with status 1", ErrToolFailed)}
				}
				return nil
			},
			wantErrs: []error{ErrInsertSources, ErrToolFailed},
		},
		{
			name:   "site generator fails",
			readme: sampleReadme,
			handle: func(c Command) *outcome {
				if c.Name == config.DefaultSphinx {
					return &outcome{err: fmt.Errorf("%w: sphinx-build exited with status 2", ErrToolFailed)}
				}
				return nil
			},
			wantErrs: []error{ErrSiteBuild, ErrToolFailed},
		},
		{
			name:     "include target missing",
			readme:   "Title\n.. include:: missing.rst\n",
			wantErrs: []error{os.ErrNotExist},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := newPackageRoot(t, tt.readme)
			b := newTestBuilder(t, nil, &fakeRunner{handle: tt.handle}, io.Discard)

			res, err := b.Build(context.Background(), BuildOptions{Root: root})
			if err == nil {
				t.Fatal("Build() error = nil, want failure")
			}
			if res == nil {
				t.Fatal("Build() result = nil, want partial result")
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("error = %v, want %v", err, want)
				}
			}
			for _, want := range tt.wantSubstr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error = %q, want containing %q", err, want)
				}
			}
		})
	}
}

func TestBuilder_Build_InvalidOptions(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := New(nil).Build(context.Background(), BuildOptions{})
		if !errors.Is(err, ErrNilConfig) {
			t.Errorf("error = %v, want ErrNilConfig", err)
		}
	})

	t.Run("negative CPUs", func(t *testing.T) {
		t.Parallel()

		b := newTestBuilder(t, nil, &fakeRunner{}, io.Discard)
		_, err := b.Build(context.Background(), BuildOptions{Root: t.TempDir(), NumCPUs: -1})
		if !errors.Is(err, ErrInvalidNumCPUs) {
			t.Errorf("error = %v, want ErrInvalidNumCPUs", err)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()

		b := newTestBuilder(t, nil, &fakeRunner{}, io.Discard)
		_, err := b.Build(context.Background(), BuildOptions{Root: filepath.Join(t.TempDir(), "nope")})
		if !errors.Is(err, ErrInvalidDirectory) {
			t.Errorf("error = %v, want ErrInvalidDirectory", err)
		}
	})
}

func TestBuilder_Build_Cancelled(t *testing.T) {
	t.Parallel()

	root := newPackageRoot(t, sampleReadme)
	runner := &fakeRunner{}
	b := newTestBuilder(t, nil, runner, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx, BuildOptions{Root: root})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Build() error = %v, want context.Canceled", err)
	}
	if calls := runner.Calls(); len(calls) != 0 {
		t.Errorf("tools ran after cancellation: %d calls", len(calls))
	}
}

// ---------------------------------------------------------------------------
// TestBuilder_Build_Output - Quiet mode and streaming
// ---------------------------------------------------------------------------

func TestBuilder_Build_SiteOutput(t *testing.T) {
	t.Parallel()

	sphinx := func(ok bool) func(c Command) *outcome {
		return func(c Command) *outcome {
			if c.Name != config.DefaultSphinx {
				return nil
			}
			_, _ = io.WriteString(c.Stdout, "WARNING: document isn't included in any toctree\n")
			if ok {
				return &outcome{}
			}
			return &outcome{err: fmt.Errorf("%w: sphinx-build exited with status 1", ErrToolFailed)}
		}
	}

	t.Run("streamed when not quiet", func(t *testing.T) {
		t.Parallel()

		root := newPackageRoot(t, sampleReadme)
		var out bytes.Buffer
		b := newTestBuilder(t, nil, &fakeRunner{handle: sphinx(true)}, &out)
		if _, err := b.Build(context.Background(), BuildOptions{Root: root}); err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if !strings.Contains(out.String(), "toctree") {
			t.Errorf("site generator output not streamed:\n%s", out.String())
		}
	})

	t.Run("captured and reported when quiet", func(t *testing.T) {
		t.Parallel()

		root := newPackageRoot(t, sampleReadme)
		var out bytes.Buffer
		b := newTestBuilder(t, nil, &fakeRunner{handle: sphinx(false)}, &out, WithQuiet(true))
		_, err := b.Build(context.Background(), BuildOptions{Root: root})
		if !errors.Is(err, ErrSiteBuild) {
			t.Fatalf("Build() error = %v, want ErrSiteBuild", err)
		}
		if !strings.Contains(err.Error(), "toctree") {
			t.Errorf("error = %q, want captured output", err)
		}
		if out.Len() != 0 {
			t.Errorf("quiet build wrote output:\n%s", out.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuilder_Build_Logging - Diagnostics
// ---------------------------------------------------------------------------

func TestBuilder_Build_Logging(t *testing.T) {
	t.Parallel()

	root := newPackageRoot(t, "Title\n=====\n\n.. literalinclude:: example.py\n    :language: python\n")
	runner := &fakeRunner{handle: func(c Command) *outcome {
		if c.Name != config.DefaultRST2HTML {
			return nil
		}
		page := `<html><body><div class="system-message">
<p class="system-message-title">System Message: INFO/1 (<tt>README.rst</tt>, line 1)</p>
<p>Hyperlink target "x" is not referenced.</p></div></body></html>`
		if err := os.WriteFile(c.Args[len(c.Args)-1], []byte(page), 0o644); err != nil {
			return &outcome{err: err}
		}
		return &outcome{}
	}}

	core, logs := observer.New(zapcore.DebugLevel)
	b := newTestBuilder(t, nil, runner, io.Discard, WithLogger(zap.New(core)))
	if _, err := b.Build(context.Background(), BuildOptions{Root: root}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	warn := logs.FilterMessage("readme ends inside a directive region").All()
	if len(warn) != 1 {
		t.Fatalf("got %d region warnings, want 1", len(warn))
	}
	if warn[0].Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", warn[0].Level)
	}
	if got := warn[0].ContextMap()["state"]; got != "literalinclude" {
		t.Errorf("state field = %v, want literalinclude", got)
	}

	msgs := logs.FilterMessage("renderer message").All()
	// One per validation: after generation and after cleanup.
	if len(msgs) != 2 {
		t.Fatalf("got %d renderer messages, want 2", len(msgs))
	}
	if got := msgs[0].ContextMap()["text"]; got != `Hyperlink target "x" is not referenced.` {
		t.Errorf("text field = %v", got)
	}
}
