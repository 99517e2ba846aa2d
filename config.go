package pkgdocs

import "github.com/alnah/go-pkgdocs/internal/config"

// Config holds the build configuration read from pkgdocs.yaml.
type Config = config.Config

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// LoadConfig loads a config by file path or by name. Names are searched as
// name.yaml and name.yml in the current directory, then in the user config
// directory under pkgdocs/.
func LoadConfig(nameOrPath string) (*Config, error) {
	return config.LoadConfig(nameOrPath)
}

// DiscoverConfig loads pkgdocs.yaml or pkgdocs.yml from root and returns the
// path it read. Without either file it returns DefaultConfig and an empty
// path.
func DiscoverConfig(root string) (*Config, string, error) {
	return config.Discover(root)
}
