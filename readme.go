package pkgdocs

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/alnah/go-pkgdocs/internal/fileutil"
	"github.com/alnah/go-pkgdocs/internal/hints"
	"github.com/alnah/go-pkgdocs/internal/pipeline"
)

// generateReadme runs the documentation-source readme through the directive
// pipeline into the top-level readme and validates the result.
func (b *Builder) generateReadme(ctx context.Context, layout Layout) error {
	b.report.Info("Generating top-level README.rst file")

	src := layout.SourceReadme()
	lines, err := fileutil.ReadLines(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s%s", ErrReadmeNotFound, src, hints.ForMissingReadme(b.cfg.DocsDir))
		}
		return fmt.Errorf("reading %s: %w", src, err)
	}

	d := pipeline.NewDirector(pipeline.Options{
		Package:      b.cfg.Package,
		DocsDir:      layout.DocsDir,
		Changelog:    b.cfg.Changelog,
		HelperModule: b.cfg.Readme.HelperModule,
		SupportDir:   relativeSupportDir(b.cfg),
		CSVFile:      b.cfg.Readme.CSVFile,
	})
	out, err := d.Run(lines)
	if err != nil {
		return fmt.Errorf("generating top-level README.rst from %s: %w", src, err)
	}
	if state := d.State(); state != pipeline.StateNormal {
		b.logger.Warn("readme ends inside a directive region", zap.String("file", src), zap.Stringer("state", state))
	}

	dest := layout.TopReadme()
	if err := fileutil.WriteLines(dest, out); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return b.tools.validateRST(ctx, dest)
}

// insertExcerpts refreshes the source excerpts in both readmes: the strip
// pass removes previous insertions, the insert pass adds current ones.
func (b *Builder) insertExcerpts(ctx context.Context, layout Layout) error {
	files := []string{layout.TopReadme()}
	if fileutil.FileExists(layout.SourceReadme()) {
		files = append([]string{layout.SourceReadme()}, files...)
	}

	b.report.Info("Inserting source files in documentation files")
	for _, file := range files {
		b.report.Info("   Processing file %s", file)
		if err := b.tools.stripInsertions(ctx, file, layout.Root); err != nil {
			return err
		}
		if err := b.tools.insertSources(ctx, file, layout.Root); err != nil {
			return err
		}
	}
	return nil
}

// cleanupReadme drops remove blocks and blank runs from the top-level readme
// and validates it again.
func (b *Builder) cleanupReadme(ctx context.Context, layout Layout) error {
	file := layout.TopReadme()
	lines, err := fileutil.ReadLines(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	if err := fileutil.WriteLines(file, pipeline.Cleanup(lines)); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	return b.tools.validateRST(ctx, file)
}

// buildSite removes previous output and runs the site generator.
func (b *Builder) buildSite(ctx context.Context, layout Layout) error {
	b.report.Info("Generating HTML output")
	if err := os.RemoveAll(layout.BuildDir()); err != nil {
		return fmt.Errorf("removing %s: %w", layout.BuildDir(), err)
	}
	return b.tools.buildSite(ctx, layout.DocsDir, b.streamOutput())
}
