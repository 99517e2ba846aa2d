package pkgdocs

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-pkgdocs/internal/fileutil"
)

// rebuildExDocs regenerates the exception documentation of every configured
// submodule. In test mode it returns the failure artifacts written for
// modules whose regenerated source differs from the committed one; a
// difference in one module does not stop the others.
func (b *Builder) rebuildExDocs(ctx context.Context, layout Layout, opts BuildOptions) ([]string, error) {
	submodules := b.cfg.ExDoc.Submodules
	if len(submodules) == 0 {
		b.report.Info("No submodules defined, skipping exception documentation rebuilding")
		return nil, nil
	}

	if err := b.tools.runHook(ctx, "refreshCommand", b.cfg.ExDoc.RefreshCommand, layout.Root, b.streamOutput()); err != nil {
		return nil, err
	}

	mode := ""
	if opts.Test {
		mode = " (test mode)"
	}
	b.report.Stage("Rebuilding exceptions documentation%s", mode)

	start := b.now()
	env := exDocEnv(opts.NumCPUs, layout.SupportDir)

	var mismatches []string
	for _, name := range submodules {
		failure, err := b.rebuildModule(ctx, layout, name, opts.Test, env)
		if err != nil {
			return mismatches, err
		}
		if failure != "" {
			mismatches = append(mismatches, failure)
		}
	}

	b.report.Info("Elapsed time: %s", FormatElapsed(b.now().Sub(start)))

	if err := b.tools.runHook(ctx, "buildCommand", b.cfg.ExDoc.BuildCommand, layout.Root, b.streamOutput()); err != nil {
		return mismatches, err
	}
	return mismatches, nil
}

// rebuildModule regenerates one submodule. In test mode the committed source
// is backed up first and always restored afterwards.
func (b *Builder) rebuildModule(ctx context.Context, layout Layout, name string, test bool, env []string) (string, error) {
	src := layout.ModuleSource(name, b.cfg.ExDoc.Extension)
	trace := layout.TraceFile(name)
	b.report.Stage("Processing module %s", name)

	if !test {
		if err := b.tools.generateExDoc(ctx, src, layout.Root, env); err != nil {
			return "", err
		}
		return "", removeTrace(trace)
	}

	backup := src + backupSuffix
	if err := fileutil.CopyFile(src, backup); err != nil {
		return "", fmt.Errorf("backing up %s: %w", src, err)
	}

	failure, err := b.compareModule(ctx, layout, src, backup, trace, env)
	if restoreErr := fileutil.MoveFile(backup, src); restoreErr != nil {
		err = errors.Join(err, fmt.Errorf("restoring %s: %w", src, restoreErr))
	}
	return failure, err
}

// compareModule regenerates src and diffs it against backup, so removed
// lines are the regenerated text. When they
// differ the regenerated file is copied to a failure artifact whose path is
// returned.
func (b *Builder) compareModule(ctx context.Context, layout Layout, src, backup, trace string, env []string) (string, error) {
	if err := b.tools.generateExDoc(ctx, src, layout.Root, env); err != nil {
		return "", err
	}

	diff, err := DiffFiles(src, backup)
	if err != nil {
		return "", err
	}
	if diff == nil {
		b.report.Success("   File %s identical from original", src)
		return "", removeTrace(trace)
	}

	b.report.Failure("   File %s differs from original", src)
	b.report.Block([]string{"Differences:"}, 3)
	b.report.Block(diff, 3)
	b.logger.Debug("module differs", zap.String("file", src), zap.Int("diffLines", len(diff)))

	failure := src + failureSuffix
	if err := fileutil.CopyFile(src, failure); err != nil {
		return "", fmt.Errorf("saving %s: %w", failure, err)
	}
	return failure, nil
}

func removeTrace(path string) error {
	if err := fileutil.RemoveIfExists(path); err != nil {
		return fmt.Errorf("removing trace file: %w", err)
	}
	return nil
}
