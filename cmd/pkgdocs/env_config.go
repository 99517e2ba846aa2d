package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-pkgdocs/internal/fileutil"
)

// envPrefix marks the variables read by pkgdocs.
const envPrefix = "PKGDOCS_"

// dotEnvName is the optional environment file read from the package root.
const dotEnvName = ".env"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // PKGDOCS_CONFIG: config file name or path
	Root       string // PKGDOCS_ROOT: package root directory
	NumCPUs    int    // PKGDOCS_NUM_CPUS: CPUs for the exceptions documentation rebuild
	NoColor    bool   // PKGDOCS_NO_COLOR: disable colored output
}

// knownEnvVars lists valid PKGDOCS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PKGDOCS_CONFIG":   true,
	"PKGDOCS_ROOT":     true,
	"PKGDOCS_NUM_CPUS": true,
	"PKGDOCS_NO_COLOR": true,
}

// envSource resolves variables from the process environment first, then
// from the root's .env file.
type envSource struct {
	env    *Environment
	dotenv map[string]string
}

func (s envSource) lookup(key string) (string, bool) {
	if v, ok := s.env.lookupEnv(key); ok {
		return v, true
	}
	v, ok := s.dotenv[key]
	return v, ok
}

func (s envSource) get(key string) string {
	v, _ := s.lookup(key)
	return v
}

// readDotEnv parses root/.env. A missing file yields no variables.
func readDotEnv(root string) (map[string]string, error) {
	path := filepath.Join(root, dotEnvName)
	if !fileutil.FileExists(path) {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vars, nil
}

// loadEnvConfig reads configuration from environment variables.
// Invalid numeric or boolean values are ignored.
func loadEnvConfig(src envSource) *envConfig {
	cfg := &envConfig{
		ConfigPath: src.get("PKGDOCS_CONFIG"),
		Root:       src.get("PKGDOCS_ROOT"),
	}

	if cpus := src.get("PKGDOCS_NUM_CPUS"); cpus != "" {
		if n, err := strconv.Atoi(cpus); err == nil && n > 0 {
			cfg.NumCPUs = n
		}
	}

	if noColor := src.get("PKGDOCS_NO_COLOR"); noColor != "" {
		if b, err := strconv.ParseBool(noColor); err == nil {
			cfg.NoColor = b
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized PKGDOCS_* variables.
// Helps catch typos like PKGDOCS_NUMCPUS instead of PKGDOCS_NUM_CPUS.
func warnUnknownEnvVars(w io.Writer, src envSource) {
	seen := make(map[string]bool)
	for _, kv := range src.env.environ() {
		seen[strings.SplitN(kv, "=", 2)[0]] = true
	}
	for name := range src.dotenv {
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}
