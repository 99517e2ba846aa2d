// Package pkgdocs builds the documentation of a Python package whose docs
// are written in reStructuredText.
//
// # Quick Start
//
// Load a configuration, create a builder and run a full build:
//
//	cfg, _, err := pkgdocs.DiscoverConfig(root)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b := pkgdocs.New(cfg, pkgdocs.WithOutput(os.Stdout))
//	res, err := b.Build(ctx, pkgdocs.BuildOptions{Root: root})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Exit(res.ExitCode)
//
// # Build Stages
//
// A build runs these stages in order, stopping at the first failure:
//
//  1. Exception documentation rebuild (only with Rebuild or Test): every
//     configured submodule is regenerated by the code-insertion
//     preprocessor; in test mode the result is diffed against the
//     committed file, which is then restored
//  2. Top-level readme generation: docs/README.rst is run through the
//     directive pipeline (internal/pipeline) into README.rst and validated
//     with the reStructuredText renderer in strict mode
//  3. Excerpt insertion: the preprocessor strips previous insertions and
//     inserts current ones into both readmes
//  4. Cleanup: remove blocks and blank runs are dropped from README.rst,
//     which is validated again
//  5. Site build: docs/_build is removed and the site generator runs with
//     warnings treated as errors
//
// Differences found in test mode do not stop the build; they set
// BuildResult.ExitCode to 1.
//
// # External Tools
//
// Tools run through a CommandRunner. ExecRunner starts each tool in its own
// process group so that cancelling the build context kills the tool and its
// children. Configuration for a tool is passed in Command.Env; the
// environment of the running process is never modified.
//
// # Error Handling
//
// Errors wrap the sentinels in errors.go and can be checked with errors.Is:
//
//	if errors.Is(err, pkgdocs.ErrToolNotFound) {
//	    // renderer, preprocessor or site generator missing from PATH
//	}
package pkgdocs
