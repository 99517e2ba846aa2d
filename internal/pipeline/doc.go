// Package pipeline implements the line-oriented readme transformations.
//
// The documentation-source readme is written for the site generator and uses
// markup that plain hosting platforms do not render. This package rewrites it
// into a portable top-level readme:
//   - Cross-references are replaced by their display text (XRefStripper)
//   - Directive regions are suppressed or rewritten (Director)
//   - Include directives are expanded in place (IncludeExpander)
//   - Remove blocks and runs of blank lines are dropped (Cleanup, FilterLines)
//
// Every function works on a []string of lines. Reading and writing files,
// and invoking the external renderer and preprocessor, are handled by the
// root pkgdocs package.
package pipeline
