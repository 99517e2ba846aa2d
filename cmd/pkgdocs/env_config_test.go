package main

// Notes:
// - loadEnvConfig: we test every variable, invalid values (ignored, not
//   errors) and .env fallback. The process environment is replaced by a map
//   in Environment, so tests run in parallel.
// - warnUnknownEnvVars: we test typo detection from both sources.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"path/filepath"
	"testing"
)

func sourceWith(vars, dotenv map[string]string) envSource {
	env := newTestEnv("")
	for k, v := range vars {
		env.vars[k] = v
	}
	return envSource{env: env.Environment, dotenv: dotenv}
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		vars   map[string]string
		dotenv map[string]string
		want   envConfig
	}{
		{
			name: "all variables",
			vars: map[string]string{
				"PKGDOCS_CONFIG":   "ci",
				"PKGDOCS_ROOT":     "/src/putil",
				"PKGDOCS_NUM_CPUS": "4",
				"PKGDOCS_NO_COLOR": "1",
			},
			want: envConfig{ConfigPath: "ci", Root: "/src/putil", NumCPUs: 4, NoColor: true},
		},
		{
			name: "invalid values ignored",
			vars: map[string]string{"PKGDOCS_NUM_CPUS": "-2", "PKGDOCS_NO_COLOR": "maybe"},
			want: envConfig{},
		},
		{
			name: "non-numeric cpus ignored",
			vars: map[string]string{"PKGDOCS_NUM_CPUS": "many"},
			want: envConfig{},
		},
		{
			name:   "dotenv fills missing values",
			vars:   map[string]string{"PKGDOCS_CONFIG": "real"},
			dotenv: map[string]string{"PKGDOCS_CONFIG": "file", "PKGDOCS_NUM_CPUS": "2"},
			want:   envConfig{ConfigPath: "real", NumCPUs: 2},
		},
		{
			name: "empty environment",
			want: envConfig{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := loadEnvConfig(sourceWith(tt.vars, tt.dotenv))
			if *got != tt.want {
				t.Errorf("loadEnvConfig() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	src := sourceWith(
		map[string]string{"PKGDOCS_CONFIG": "x", "PKGDOCS_CONFG": "x", "HOME": "/root"},
		map[string]string{"PKGDOCS_ROTO": "y", "PKGDOCS_ROOT": "y"},
	)

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, src)

	want := "warning: unknown environment variable PKGDOCS_CONFG (typo?)\n" +
		"warning: unknown environment variable PKGDOCS_ROTO (typo?)\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWarnUnknownEnvVars_KnownOnly(t *testing.T) {
	t.Parallel()

	vars := make(map[string]string)
	for name := range knownEnvVars {
		vars[name] = "1"
	}

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, sourceWith(vars, nil))
	if buf.Len() != 0 {
		t.Errorf("known variables warned: %q", buf.String())
	}
}

// ---------------------------------------------------------------------------
// TestReadDotEnv
// ---------------------------------------------------------------------------

func TestReadDotEnv(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		vars, err := readDotEnv(t.TempDir())
		if err != nil || len(vars) != 0 {
			t.Errorf("readDotEnv() = %v, %v, want no variables", vars, err)
		}
	})

	t.Run("parsed file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".env"), "# build settings\nPKGDOCS_NUM_CPUS=2\nexport PKGDOCS_CONFIG=\"ci\"\n")

		vars, err := readDotEnv(dir)
		if err != nil {
			t.Fatalf("readDotEnv() error = %v", err)
		}
		if vars["PKGDOCS_NUM_CPUS"] != "2" || vars["PKGDOCS_CONFIG"] != "ci" {
			t.Errorf("readDotEnv() = %v", vars)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()

		vars, err := readDotEnv(filepath.Join(t.TempDir(), "missing"))
		if err != nil || vars != nil {
			t.Errorf("readDotEnv() = %v, %v, want nil", vars, err)
		}
	})
}
