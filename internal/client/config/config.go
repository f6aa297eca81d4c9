// Package config loads runtime settings for the PANVault CLI.
package config

import (
	"os"
	"path/filepath"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - DirectoryPath: path of the local JSON account directory file.
type Config struct {
	DirectoryPath string
}

// LoadDefaults populates c with sensible defaults. The account directory
// lives under the user's home directory; if the home directory cannot be
// resolved, the current directory is used.
func (c *Config) LoadDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	c.DirectoryPath = filepath.Join(home, ".panvault", "accounts.json")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
