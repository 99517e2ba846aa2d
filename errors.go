package pkgdocs

import "errors"

// Sentinel errors for build operations.
var (
	// External tool errors.
	ErrToolNotFound = errors.New("tool not found")
	ErrToolFailed   = errors.New("tool failed")

	// Stage errors.
	ErrReadmeNotFound  = errors.New("documentation-source readme not found")
	ErrReadmeRender    = errors.New("validating top-level README.rst HTML conversion")
	ErrStripInsertions = errors.New("deleting insertion of source files in documentation file")
	ErrInsertSources   = errors.New("inserting source files in documentation file")
	ErrExDocGenerate   = errors.New("generating exceptions documentation")
	ErrSiteBuild       = errors.New("building documentation site")
	ErrHookFailed      = errors.New("build hook failed")

	// Option validation errors.
	ErrInvalidDirectory = errors.New("invalid directory")
	ErrInvalidNumCPUs   = errors.New("invalid number of CPUs")
	ErrNilConfig        = errors.New("config cannot be nil")
)
