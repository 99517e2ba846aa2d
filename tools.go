package pkgdocs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-pkgdocs/internal/config"
	"github.com/alnah/go-pkgdocs/internal/fileutil"
	"github.com/alnah/go-pkgdocs/internal/hints"
)

// Environment variables read by the preprocessor helpers during the
// exception-documentation rebuild.
const (
	EnvProcessorOption = "NOPTION"
	EnvTracerDir       = "TRACER_DIR"
)

// tmpSuffix names the sibling file a preprocessor pass writes to.
const tmpSuffix = ".tmp"

// toolchain adapts the external renderer, preprocessor and site generator.
type toolchain struct {
	runner CommandRunner
	names  config.ToolsConfig
	logger *zap.Logger
}

// run executes cmd and adds an install hint when the tool is missing.
func (t *toolchain) run(ctx context.Context, cmd Command) (Result, error) {
	t.logger.Debug("running tool", zap.Stringer("command", cmd), zap.String("dir", cmd.Dir), zap.Strings("env", cmd.Env))
	res, err := t.runner.Run(ctx, cmd)
	if errors.Is(err, ErrToolNotFound) {
		return res, fmt.Errorf("%w%s", err, hints.ForToolNotFound(cmd.Name))
	}
	return res, err
}

// validateRST renders file with the reStructuredText renderer in strict mode
// and discards the HTML. Messages embedded in the HTML are logged at debug
// level.
func (t *toolchain) validateRST(ctx context.Context, file string) error {
	out, cleanup, err := fileutil.WriteTempFile("", "html")
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := t.run(ctx, Command{
		Name: t.names.RST2HTML,
		Args: []string{"--exit-status=3", "--verbose", "--strict", file, out},
	})
	if err != nil {
		if errors.Is(err, ErrToolFailed) {
			return fmt.Errorf("%w: %s:\n%s: %w%s", ErrReadmeRender, file, strings.TrimSpace(res.Stderr), err, hints.ForStrictBuild())
		}
		return fmt.Errorf("%w: %s: %w", ErrReadmeRender, file, err)
	}

	t.logRenderMessages(file, out)
	return nil
}

func (t *toolchain) logRenderMessages(file, htmlPath string) {
	f, err := os.Open(htmlPath) // #nosec G304 -- temp file created above
	if err != nil {
		t.logger.Debug("reading rendered HTML", zap.String("file", file), zap.Error(err))
		return
	}
	defer func() { _ = f.Close() }()

	msgs, err := ParseSystemMessages(f)
	if err != nil {
		t.logger.Debug("parsing rendered HTML", zap.String("file", file), zap.Error(err))
		return
	}
	for _, m := range msgs {
		t.logger.Debug("renderer message",
			zap.String("file", file),
			zap.String("level", m.Level),
			zap.Int("line", m.Line),
			zap.String("text", m.Text),
		)
	}
}

// preprocess runs one preprocessor pass over file, from dir, into a .tmp
// sibling and moves the result over file. extra holds pass-specific flags.
func (t *toolchain) preprocess(ctx context.Context, file, dir string, env []string, extra ...string) error {
	tmp := file + tmpSuffix
	args := append([]string{"-e"}, extra...)
	args = append(args, "-o", tmp, file)

	res, err := t.run(ctx, Command{Name: t.names.Cog, Args: args, Dir: dir, Env: env})
	if err != nil {
		_ = fileutil.RemoveIfExists(tmp)
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			return fmt.Errorf("%w:\n%s", err, msg)
		}
		return err
	}
	if err := fileutil.MoveFile(tmp, file); err != nil {
		return fmt.Errorf("replacing %s: %w", file, err)
	}
	return nil
}

// stripInsertions removes previously inserted excerpts from file.
func (t *toolchain) stripInsertions(ctx context.Context, file, dir string) error {
	if err := t.preprocess(ctx, file, dir, nil, "-x"); err != nil {
		return fmt.Errorf("%w %s: %w", ErrStripInsertions, file, err)
	}
	return nil
}

// insertSources inserts current excerpts into file.
func (t *toolchain) insertSources(ctx context.Context, file, dir string) error {
	if err := t.preprocess(ctx, file, dir, nil); err != nil {
		return fmt.Errorf("%w %s: %w", ErrInsertSources, file, err)
	}
	return nil
}

// generateExDoc regenerates the exception documentation embedded in a
// module source file.
func (t *toolchain) generateExDoc(ctx context.Context, file, dir string, env []string) error {
	if err := t.preprocess(ctx, file, dir, env); err != nil {
		return fmt.Errorf("%w in module %s: %w", ErrExDocGenerate, file, err)
	}
	return nil
}

// buildSite runs the site generator in docsDir with warnings treated as
// errors. Output is streamed to w; when w is nil it is captured and
// included in the error.
func (t *toolchain) buildSite(ctx context.Context, docsDir string, w io.Writer) error {
	var captured bytes.Buffer
	out := &lockedWriter{w: w}
	if w == nil {
		out.w = &captured
	}

	_, err := t.run(ctx, Command{
		Name: t.names.Sphinx,
		Args: []string{
			"-b", "html",
			"-d", filepath.Join("_build", "doctrees"),
			"-W",
			".",
			filepath.Join("_build", "html"),
		},
		Dir:    docsDir,
		Stdout: out,
		Stderr: out,
	})
	if err != nil {
		if w == nil && captured.Len() > 0 {
			return fmt.Errorf("%w: %w\n%s%s", ErrSiteBuild, err, strings.TrimSpace(captured.String()), hints.ForStrictBuild())
		}
		return fmt.Errorf("%w: %w", ErrSiteBuild, err)
	}
	return nil
}

// runHook runs an optional user command in dir.
func (t *toolchain) runHook(ctx context.Context, name string, argv []string, dir string, w io.Writer) error {
	if len(argv) == 0 {
		return nil
	}
	cmd := Command{Name: argv[0], Args: argv[1:], Dir: dir}
	if w != nil {
		out := &lockedWriter{w: w}
		cmd.Stdout, cmd.Stderr = out, out
	}
	if _, err := t.run(ctx, cmd); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrHookFailed, name, err)
	}
	return nil
}

// exDocEnv returns the environment handed to the exception-documentation
// preprocessor run.
func exDocEnv(numCPUs int, tracerDir string) []string {
	option := ""
	if numCPUs > 1 {
		option = fmt.Sprintf("-n %d", numCPUs)
	}
	return []string{
		EnvProcessorOption + "=" + option,
		EnvTracerDir + "=" + tracerDir,
	}
}
