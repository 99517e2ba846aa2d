package pkgdocs

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/alnah/go-pkgdocs/internal/fileutil"
)

const (
	readmeName    = "README.rst"
	buildDirName  = "_build"
	traceExt      = ".pkl"
	backupSuffix  = ".orig"
	failureSuffix = ".error"
)

// Layout holds the absolute paths a build reads and writes.
type Layout struct {
	Root       string // package root
	DocsDir    string // documentation sources
	SupportDir string // preprocessor support files and trace artifacts
	SourceDir  string // module sources for the exception-documentation rebuild
}

// NewLayout resolves the build paths for cfg under root. An empty sourceDir
// defaults to root/<package>.
func NewLayout(cfg *Config, root, sourceDir string) (Layout, error) {
	if root == "" {
		root = "."
	}
	absRoot, err := fileutil.Abs(root)
	if err != nil {
		return Layout{}, err
	}
	if !fileutil.DirExists(absRoot) {
		return Layout{}, fmt.Errorf("%w: directory %s does not exist", ErrInvalidDirectory, root)
	}

	if sourceDir == "" {
		sourceDir = filepath.Join(absRoot, cfg.Package)
	}
	absSource, err := fileutil.Abs(sourceDir)
	if err != nil {
		return Layout{}, err
	}

	return Layout{
		Root:       absRoot,
		DocsDir:    filepath.Join(absRoot, filepath.FromSlash(cfg.DocsDir)),
		SupportDir: filepath.Join(absRoot, filepath.FromSlash(cfg.SupportDir)),
		SourceDir:  absSource,
	}, nil
}

// SourceReadme is the documentation-source readme.
func (l Layout) SourceReadme() string {
	return filepath.Join(l.DocsDir, readmeName)
}

// TopReadme is the generated top-level readme.
func (l Layout) TopReadme() string {
	return filepath.Join(l.Root, readmeName)
}

// BuildDir is the site generator's output directory.
func (l Layout) BuildDir() string {
	return filepath.Join(l.DocsDir, buildDirName)
}

// ModuleSource is the source file of a documented submodule.
func (l Layout) ModuleSource(name, ext string) string {
	return filepath.Join(l.SourceDir, filepath.FromSlash(name)+ext)
}

// TraceFile is the trace artifact the preprocessor leaves for a submodule.
func (l Layout) TraceFile(name string) string {
	return filepath.Join(l.SupportDir, filepath.FromSlash(name)+traceExt)
}

// relativeSupportDir renders the support directory the way generated
// insertion blocks reference it: relative to the root, with a ./ prefix.
func relativeSupportDir(cfg *Config) string {
	return "./" + path.Clean(filepath.ToSlash(cfg.SupportDir))
}
