package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-pkgdocs/internal/fileutil"
	"github.com/alnah/go-pkgdocs/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// DefaultName is the config name looked up in the package root when no
// --config is given.
const DefaultName = "pkgdocs"

// Default values applied by DefaultConfig and ApplyDefaults.
const (
	DefaultDocsDir      = "docs"
	DefaultSupportDir   = "docs/support"
	DefaultChangelog    = "CHANGELOG.rst"
	DefaultExtension    = ".py"
	DefaultHelperModule = "pypkg.incfile"
	DefaultCSVFile      = "./docs/support/data.csv"
	DefaultRST2HTML     = "rst2html.py"
	DefaultCog          = "cog"
	DefaultSphinx       = "sphinx-build"
)

// Submodule names are dotted identifiers, optionally nested with slashes.
var submodulePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(?:[./][A-Za-z_][A-Za-z0-9_]*)*$`)

// Config holds all configuration for a documentation build.
type Config struct {
	Package    string       `yaml:"package"`    // Empty = base name of the package root
	DocsDir    string       `yaml:"docsDir"`    // Relative to the package root
	SupportDir string       `yaml:"supportDir"` // Relative to the package root
	Changelog  string       `yaml:"changelog"`  // Include target never inlined
	ExDoc      ExDocConfig  `yaml:"exdoc"`
	Readme     ReadmeConfig `yaml:"readme"`
	Tools      ToolsConfig  `yaml:"tools"`
}

// ExDocConfig defines the exception-documentation rebuild.
type ExDocConfig struct {
	Extension      string   `yaml:"extension"`      // Source file extension (default: ".py")
	Submodules     []string `yaml:"submodules"`     // Empty = rebuild skipped
	RefreshCommand []string `yaml:"refreshCommand"` // Optional argv run before the rebuild
	BuildCommand   []string `yaml:"buildCommand"`   // Optional argv run after the rebuild
}

// ReadmeConfig defines the top-level readme generation.
type ReadmeConfig struct {
	HelperModule string `yaml:"helperModule"` // Preprocessor helper for literal includes
	CSVFile      string `yaml:"csvFile"`      // Replacement for csv-table :file: options
}

// ToolsConfig names the external executables.
type ToolsConfig struct {
	RST2HTML string `yaml:"rst2html"`
	Cog      string `yaml:"cog"`
	Sphinx   string `yaml:"sphinx"`
}

// DefaultConfig returns the configuration used when no file is found.
// Package stays empty until ApplyDefaults knows the root.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults("")
	return cfg
}

// ApplyDefaults fills every empty field. The package name defaults to the
// base name of root when root is not empty.
func (c *Config) ApplyDefaults(root string) {
	if c.Package == "" && root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			c.Package = filepath.Base(abs)
		}
	}
	setDefault(&c.DocsDir, DefaultDocsDir)
	setDefault(&c.SupportDir, DefaultSupportDir)
	setDefault(&c.Changelog, DefaultChangelog)
	setDefault(&c.ExDoc.Extension, DefaultExtension)
	setDefault(&c.Readme.HelperModule, DefaultHelperModule)
	setDefault(&c.Readme.CSVFile, DefaultCSVFile)
	setDefault(&c.Tools.RST2HTML, DefaultRST2HTML)
	setDefault(&c.Tools.Cog, DefaultCog)
	setDefault(&c.Tools.Sphinx, DefaultSphinx)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks directory fields, tool names and submodule names.
// Called automatically by LoadConfig, but available for callers that
// construct Config manually.
func (c *Config) Validate() error {
	if c.Package != "" && strings.ContainsAny(c.Package, `/\ `) {
		return fmt.Errorf("%w: package: invalid name %q", ErrInvalidConfig, c.Package)
	}

	for _, dir := range []struct{ field, value string }{
		{"docsDir", c.DocsDir},
		{"supportDir", c.SupportDir},
	} {
		if err := validateRelativeDir(dir.field, dir.value); err != nil {
			return err
		}
	}

	if c.Changelog != "" && filepath.Base(c.Changelog) != c.Changelog {
		return fmt.Errorf("%w: changelog: must be a file name, got %q", ErrInvalidConfig, c.Changelog)
	}

	if c.ExDoc.Extension != "" {
		if err := fileutil.ValidateExtension(strings.TrimPrefix(c.ExDoc.Extension, ".")); err != nil {
			return fmt.Errorf("%w: exdoc.extension: %w", ErrInvalidConfig, err)
		}
	}
	for i, name := range c.ExDoc.Submodules {
		if !submodulePattern.MatchString(name) {
			return fmt.Errorf("%w: exdoc.submodules[%d]: invalid name %q", ErrInvalidConfig, i, name)
		}
	}
	for _, cmd := range []struct {
		field string
		argv  []string
	}{
		{"exdoc.refreshCommand", c.ExDoc.RefreshCommand},
		{"exdoc.buildCommand", c.ExDoc.BuildCommand},
	} {
		if len(cmd.argv) > 0 && strings.TrimSpace(cmd.argv[0]) == "" {
			return fmt.Errorf("%w: %s: empty program name", ErrInvalidConfig, cmd.field)
		}
	}

	for _, tool := range []struct{ field, value string }{
		{"tools.rst2html", c.Tools.RST2HTML},
		{"tools.cog", c.Tools.Cog},
		{"tools.sphinx", c.Tools.Sphinx},
	} {
		if tool.value != "" && strings.TrimSpace(tool.value) == "" {
			return fmt.Errorf("%w: %s: blank tool name", ErrInvalidConfig, tool.field)
		}
	}

	return nil
}

// validateRelativeDir rejects absolute paths and paths escaping the root.
func validateRelativeDir(field, value string) error {
	if value == "" {
		return nil
	}
	if filepath.IsAbs(value) {
		return fmt.Errorf("%w: %s: must be relative to the package root, got %q", ErrInvalidConfig, field, value)
	}
	clean := filepath.Clean(filepath.FromSlash(value))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s: escapes the package root: %q", ErrInvalidConfig, field, value)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	return loadFile(configPath)
}

// Discover looks for pkgdocs.yaml or pkgdocs.yml in root. It returns the
// default configuration and an empty path when neither exists.
func Discover(root string) (*Config, string, error) {
	for _, ext := range configExtensions {
		path := filepath.Join(root, DefaultName+ext)
		if fileutil.FileExists(path) {
			cfg, err := loadFile(path)
			if err != nil {
				return nil, "", err
			}
			return cfg, path, nil
		}
	}
	return DefaultConfig(), "", nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s:\n%s", ErrConfigParse, path, yamlutil.Explain(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var configExtensions = []string{".yaml", ".yml"}

// NotFoundError reports the locations searched for a named config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/pkgdocs/
func resolveConfigPath(name string) (string, error) {
	tried := make([]string, 0, len(configExtensions)*2)

	for _, ext := range configExtensions {
		local := name + ext
		if fileutil.FileExists(local) {
			return local, nil
		}
		tried = append(tried, local)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range configExtensions {
			userPath := filepath.Join(userConfigDir, "pkgdocs", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", &NotFoundError{Name: name, Tried: tried}
}
