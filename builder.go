package pkgdocs

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// Builder orchestrates a documentation build.
type Builder struct {
	cfg    *Config
	runner CommandRunner
	logger *zap.Logger
	out    io.Writer
	color  bool
	quiet  bool
	now    func() time.Time

	tools  *toolchain
	report *Reporter
}

// Option configures a Builder.
type Option func(*Builder)

// WithRunner sets the runner used for external tools (default: ExecRunner).
func WithRunner(r CommandRunner) Option {
	return func(b *Builder) {
		b.runner = r
	}
}

// WithLogger sets the diagnostics logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithOutput sets where status lines and streamed tool output are written
// (default: discarded).
func WithOutput(w io.Writer) Option {
	return func(b *Builder) {
		b.out = w
	}
}

// WithColor enables colored status lines.
func WithColor(enabled bool) Option {
	return func(b *Builder) {
		b.color = enabled
	}
}

// WithQuiet suppresses informational status lines. Tool output is captured
// instead of streamed and shown only on failure.
func WithQuiet(quiet bool) Option {
	return func(b *Builder) {
		b.quiet = quiet
	}
}

// WithClock sets the time source used for elapsed-time reporting.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// New creates a Builder for cfg. Empty config fields take their defaults.
func New(cfg *Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:    cfg,
		runner: &ExecRunner{},
		logger: zap.NewNop(),
		out:    io.Discard,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	b.report = NewReporter(b.out, b.color, b.quiet)

	return b
}

// BuildOptions selects what a build does.
type BuildOptions struct {
	// Root is the package root (default ".").
	Root string
	// SourceDir holds the module sources (default Root/<package>).
	SourceDir string
	// Rebuild regenerates the exception documentation.
	Rebuild bool
	// Test regenerates the exception documentation, diffs each module
	// against its committed version, and restores it.
	Test bool
	// NumCPUs is passed to the exception-documentation preprocessor
	// (default 1).
	NumCPUs int
}

// Stage names reported in BuildResult.Stages.
const (
	StageExDoc   = "exdoc"
	StageReadme  = "readme"
	StageInsert  = "insert"
	StageCleanup = "cleanup"
	StageSite    = "site"
)

// StageTiming records how long one stage ran.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// BuildResult summarizes a build.
type BuildResult struct {
	// ExitCode is 1 when test mode found differences, 0 otherwise.
	ExitCode int
	// Mismatches lists the failure artifacts written for modules that
	// differ from their committed version.
	Mismatches []string
	Stages     []StageTiming
	Elapsed    time.Duration
}

// Build runs every stage in order and stops at the first error. The
// returned result is never nil and holds the stages completed so far.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	res := &BuildResult{}
	if b.cfg == nil {
		return res, ErrNilConfig
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	b.cfg.ApplyDefaults(opts.Root)
	b.tools = &toolchain{runner: b.runner, names: b.cfg.Tools, logger: b.logger}

	if opts.NumCPUs == 0 {
		opts.NumCPUs = 1
	}
	if opts.NumCPUs < 0 {
		return res, fmt.Errorf("%w: %d", ErrInvalidNumCPUs, opts.NumCPUs)
	}

	layout, err := NewLayout(b.cfg, opts.Root, opts.SourceDir)
	if err != nil {
		return res, err
	}
	b.logger.Debug("build layout",
		zap.String("root", layout.Root),
		zap.String("docs", layout.DocsDir),
		zap.String("support", layout.SupportDir),
		zap.String("source", layout.SourceDir),
		zap.Bool("rebuild", opts.Rebuild),
		zap.Bool("test", opts.Test),
		zap.Int("cpus", opts.NumCPUs),
	)

	start := b.now()
	b.report.Info("Rebuilding documentation")

	stages := []struct {
		name string
		skip bool
		run  func(context.Context) error
	}{
		{StageExDoc, !opts.Rebuild && !opts.Test, func(ctx context.Context) error {
			mismatches, err := b.rebuildExDocs(ctx, layout, opts)
			res.Mismatches = mismatches
			if len(mismatches) > 0 {
				res.ExitCode = 1
			}
			return err
		}},
		{StageReadme, false, func(ctx context.Context) error { return b.generateReadme(ctx, layout) }},
		{StageInsert, false, func(ctx context.Context) error { return b.insertExcerpts(ctx, layout) }},
		{StageCleanup, false, func(ctx context.Context) error { return b.cleanupReadme(ctx, layout) }},
		{StageSite, false, func(ctx context.Context) error { return b.buildSite(ctx, layout) }},
	}

	for _, st := range stages {
		if st.skip {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		stageStart := b.now()
		err := st.run(ctx)
		elapsed := b.now().Sub(stageStart)
		res.Stages = append(res.Stages, StageTiming{Name: st.name, Duration: elapsed})
		if err != nil {
			b.logger.Debug("stage failed", zap.String("stage", st.name), zap.Duration("elapsed", elapsed), zap.Error(err))
			return res, err
		}
		b.logger.Debug("stage done", zap.String("stage", st.name), zap.Duration("elapsed", elapsed))
	}

	res.Elapsed = b.now().Sub(start)
	b.report.Info("Total elapsed time: %s", FormatElapsed(res.Elapsed))
	return res, nil
}

// streamOutput is where tool output goes: the status output, or nil to
// capture it in quiet mode.
func (b *Builder) streamOutput() io.Writer {
	if b.report.Quiet() {
		return nil
	}
	return b.report.Writer()
}
