package pkgdocs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/alnah/go-pkgdocs/internal/fileutil"
	"github.com/alnah/go-pkgdocs/internal/process"
)

// Command describes one external tool invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory (empty = current directory).
	Dir string
	// Env holds KEY=VALUE pairs added to the inherited environment of the
	// child only.
	Env []string
	// Stdout and Stderr, when set, receive the output as it is produced.
	// Output is captured in the Result either way.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run starts the command and waits for it. A missing executable wraps
// ErrToolNotFound; a nonzero exit wraps ErrToolFailed. Cancelling ctx kills
// the tool's process group and returns the context error.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...) // #nosec G204 -- tool names come from config
	process.Configure(cmd)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	// Each stream gets its own copier goroutine once teed, so a writer
	// shared by both must be serialized here.
	outW, errW := c.Stdout, c.Stderr
	if outW != nil && sameWriter(outW, errW) {
		shared := &lockedWriter{w: outW}
		outW, errW = shared, shared
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = teeTo(&stdout, outW)
	cmd.Stderr = teeTo(&stderr, errW)

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || (errors.Is(err, os.ErrNotExist) && fileutil.IsFilePath(c.Name)) {
			return Result{}, fmt.Errorf("%w: %s", ErrToolNotFound, c.Name)
		}
		return Result{}, fmt.Errorf("starting %s: %w", c.Name, err)
	}

	err := cmd.Wait()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s: %w", c.Name, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return res, fmt.Errorf("%w: %s exited with status %d", ErrToolFailed, c.Name, res.ExitCode)
		}
		return res, fmt.Errorf("running %s: %w", c.Name, err)
	}
	return res, nil
}

// sameWriter reports whether a and b are the same writer. Writers of
// non-comparable types are never equal.
func sameWriter(a, b io.Writer) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// lockedWriter serializes writes from a tool's stdout and stderr copiers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func teeTo(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
