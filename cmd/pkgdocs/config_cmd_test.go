package main

import (
	"strings"
	"testing"

	"github.com/alnah/go-pkgdocs/internal/config"
	"github.com/alnah/go-pkgdocs/internal/yamlutil"
)

// ---------------------------------------------------------------------------
// TestRunConfigCmd - Effective configuration output
// ---------------------------------------------------------------------------

func TestRunConfigCmd(t *testing.T) {
	t.Parallel()

	root := newProject(t, testReadme, "exdoc:\n  submodules: [eng]\ntools:\n  cog: cog3\n")
	env := newTestEnv("")

	if code := runMain([]string{"pkgdocs", "config", "-C", root}, env.Environment); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, env.stderr.String())
	}

	// The output is itself a valid strict config.
	var cfg config.Config
	if err := yamlutil.Decode(env.stdout.Bytes(), &cfg); err != nil {
		t.Fatalf("output does not decode: %v\n%s", err, env.stdout.String())
	}
	if cfg.Package != "putil" || cfg.DocsDir != config.DefaultDocsDir || cfg.Tools.Cog != "cog3" {
		t.Errorf("effective config = %+v", cfg)
	}
	if len(cfg.ExDoc.Submodules) != 1 || cfg.ExDoc.Submodules[0] != "eng" {
		t.Errorf("submodules = %v, want [eng]", cfg.ExDoc.Submodules)
	}
	if !strings.Contains(env.stdout.String(), "docsDir: docs") {
		t.Errorf("output missing docsDir key:\n%s", env.stdout.String())
	}
}

func TestRunConfigCmd_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"missing named config", []string{"-c", "/nonexistent/pkgdocs.yaml"}, ExitUsage},
		{"positional argument", []string{"show"}, ExitUsage},
		{"help", []string{"--help"}, ExitSuccess},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			if code := runConfigCmd(tt.args, env.Environment); code != tt.wantCode {
				t.Errorf("runConfigCmd() = %d, want %d\nstderr: %s", code, tt.wantCode, env.stderr.String())
			}
		})
	}
}
