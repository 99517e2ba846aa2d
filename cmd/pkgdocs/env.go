package main

import (
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	pkgdocs "github.com/alnah/go-pkgdocs"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and the seams to external tools.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Runner executes external tools (nil = real subprocesses).
	Runner pkgdocs.CommandRunner
	// LookPath locates tools for the doctor command.
	LookPath func(file string) (string, error)
	// MaxCPUs is the upper bound for --num-cpus.
	MaxCPUs func() int
	// Getenv reads the process environment.
	Getenv func(key string) (string, bool)
	// Environ lists the process environment as KEY=VALUE pairs.
	Environ func() []string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		LookPath: exec.LookPath,
		MaxCPUs:  func() int { return runtime.GOMAXPROCS(0) },
		Getenv:   os.LookupEnv,
		Environ:  os.Environ,
	}
}

func (e *Environment) lookupEnv(key string) (string, bool) {
	if e.Getenv == nil {
		return os.LookupEnv(key)
	}
	return e.Getenv(key)
}

func (e *Environment) environ() []string {
	if e.Environ == nil {
		return os.Environ()
	}
	return e.Environ()
}

func (e *Environment) maxCPUs() int {
	if e.MaxCPUs == nil {
		return runtime.GOMAXPROCS(0)
	}
	return e.MaxCPUs()
}
