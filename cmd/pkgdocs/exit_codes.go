package main

import (
	"errors"
	"os"

	pkgdocs "github.com/alnah/go-pkgdocs"
	"github.com/alnah/go-pkgdocs/internal/config"
	"github.com/alnah/go-pkgdocs/internal/pipeline"
)

// Exit codes for pkgdocs CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
// A test-mode build that finds differences exits with ExitGeneral.
const (
	ExitSuccess      = 0 // Successful build, identical modules in test mode
	ExitGeneral      = 1 // General/unexpected error, tool failure, module differences
	ExitUsage        = 2 // Invalid flags, config, or validation
	ExitIO           = 3 // File not found, permission denied
	ExitToolNotFound = 4 // External tool missing from PATH
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Missing tools (exit 4)
	if errors.Is(err, pkgdocs.ErrToolNotFound) {
		return ExitToolNotFound
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, pkgdocs.ErrInvalidDirectory) ||
		errors.Is(err, pkgdocs.ErrInvalidNumCPUs) ||
		errors.Is(err, ErrUnexpectedArgs) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, pkgdocs.ErrReadmeNotFound) ||
		errors.Is(err, pipeline.ErrIncludeRead) {
		return ExitIO
	}

	return ExitGeneral
}
