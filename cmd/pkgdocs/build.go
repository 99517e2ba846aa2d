package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	pkgdocs "github.com/alnah/go-pkgdocs"
	"github.com/alnah/go-pkgdocs/internal/config"
	"github.com/alnah/go-pkgdocs/internal/fileutil"
	"github.com/alnah/go-pkgdocs/internal/hints"
)

// ErrUnexpectedArgs is returned when a command receives positional arguments.
var ErrUnexpectedArgs = errors.New("unexpected arguments")

func unexpectedArgs(args []string) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedArgs, strings.Join(args, " "))
}

// runBuildCmd executes the build command and returns an exit code.
func runBuildCmd(args []string, env *Environment) int {
	flags, positional, err := parseBuildFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}
	if len(positional) > 0 {
		fmt.Fprintln(env.Stderr, unexpectedArgs(positional))
		printBuildUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	res, err := runBuild(ctx, flags, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	if res == nil {
		return ExitSuccess
	}
	if len(res.Mismatches) > 0 {
		fmt.Fprintf(env.Stderr, "%d module(s) differ from original%s\n", len(res.Mismatches), hints.ForDiffMismatch(res.Mismatches))
	}
	return res.ExitCode
}

// runBuild resolves the effective settings and runs the build. It returns a
// nil result when the user declines the rebuild prompt.
func runBuild(ctx context.Context, flags *buildFlags, env *Environment) (*pkgdocs.BuildResult, error) {
	src, root, err := resolveEnv(flags.common.root, env)
	if err != nil {
		return nil, err
	}
	envCfg := loadEnvConfig(src)

	if !fileutil.DirExists(root) {
		return nil, fmt.Errorf("%w: directory %s does not exist", pkgdocs.ErrInvalidDirectory, root)
	}
	if flags.directory != "" && !fileutil.DirExists(flags.directory) {
		return nil, fmt.Errorf("%w: directory %s does not exist", pkgdocs.ErrInvalidDirectory, flags.directory)
	}

	numCPUs := flags.numCPUs
	if !flags.numCPUsSet && envCfg.NumCPUs > 0 {
		numCPUs = envCfg.NumCPUs
	}
	if err := validateNumCPUs(numCPUs, env.maxCPUs()); err != nil {
		return nil, err
	}

	cfg, err := loadBuildConfig(flags.common.config, envCfg.ConfigPath, root)
	if err != nil {
		return nil, err
	}

	if flags.rebuild && !flags.test && !confirm(env.Stdin, env.Stdout) {
		return nil, nil
	}

	logger := newLogger(env.Stderr, flags.common.verbose)
	defer func() { _ = logger.Sync() }()

	opts := []pkgdocs.Option{
		pkgdocs.WithLogger(logger),
		pkgdocs.WithOutput(env.Stdout),
		pkgdocs.WithColor(colorEnabled(flags.common.noColor, envCfg.NoColor, env)),
		pkgdocs.WithQuiet(flags.common.quiet),
	}
	if env.Runner != nil {
		opts = append(opts, pkgdocs.WithRunner(env.Runner))
	}
	if env.Now != nil {
		opts = append(opts, pkgdocs.WithClock(env.Now))
	}

	return pkgdocs.New(cfg, opts...).Build(ctx, pkgdocs.BuildOptions{
		Root:      root,
		SourceDir: flags.directory,
		Rebuild:   flags.rebuild,
		Test:      flags.test,
		NumCPUs:   numCPUs,
	})
}

// resolveEnv picks the package root (flag, then PKGDOCS_ROOT, then ".") and
// loads its .env file. Unknown PKGDOCS_* variables are reported.
func resolveEnv(flagRoot string, env *Environment) (envSource, string, error) {
	root := flagRoot
	if root == "" {
		root, _ = env.lookupEnv("PKGDOCS_ROOT")
	}
	if root == "" {
		root = "."
	}

	dotenv, err := readDotEnv(root)
	if err != nil {
		return envSource{}, "", err
	}
	src := envSource{env: env, dotenv: dotenv}
	warnUnknownEnvVars(env.Stderr, src)
	return src, root, nil
}

// validateNumCPUs checks the CPU count is positive and within the limit.
func validateNumCPUs(n, limit int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d (must be at least 1)", pkgdocs.ErrInvalidNumCPUs, n)
	}
	if n > limit {
		return fmt.Errorf("%w: %d (at most %d available)", pkgdocs.ErrInvalidNumCPUs, n, limit)
	}
	return nil
}

// loadBuildConfig loads the named config, or discovers one in root. The
// flag wins over the environment variable.
func loadBuildConfig(flagName, envName, root string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}

	var cfg *config.Config
	var err error
	if name != "" {
		cfg, err = config.LoadConfig(name)
	} else {
		cfg, _, err = config.Discover(root)
	}
	if err != nil {
		var nf *config.NotFoundError
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(nf.Tried))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg.ApplyDefaults(root)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// confirm asks before overwriting committed module sources. Only y or Y
// accepts.
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Are you sure [Y/N]? ")
	if in == nil {
		return false
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

// newLogger returns a console logger at debug level on w when verbose, a
// no-op logger otherwise.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(w)), zapcore.DebugLevel)
	return zap.New(core)
}

// colorEnabled decides whether status lines are colored: never when disabled
// by flag or environment, otherwise only on a color-capable terminal.
func colorEnabled(flagNoColor, envNoColor bool, env *Environment) bool {
	if flagNoColor || envNoColor {
		return false
	}
	if v, ok := env.lookupEnv("NO_COLOR"); ok && v != "" {
		return false
	}
	f, ok := env.Stdout.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return false
	}
	return color.SupportColor()
}
