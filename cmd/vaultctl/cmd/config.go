package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/vaultfile/vaultfile"
)

// Config holds the subset of vaultctl's configuration file that affects
// how vaults are saved (spec §4.1/§9: cipher rounds, default compression)
// and where ambient state lives (key-file search path, recent-vaults
// registry). Decoded from viper via mapstructure, the way the teacher
// decodes its own server configuration in cmd/config.go.
type Config struct {
	Rounds       uint64 `mapstructure:"rounds"`
	Compression  string `mapstructure:"compression"`
	KeyFilePath  string `mapstructure:"keyfile"`
	RecentDBPath string `mapstructure:"recent_db"`
}

// DefaultConfig matches vaultfile.New's own defaults, so an unconfigured
// vaultctl behaves the same as a fresh in-process database.
func DefaultConfig() Config {
	return Config{
		Rounds:       6000,
		Compression:  "gzip",
		RecentDBPath: defaultRecentDBPath(),
	}
}

// loadConfig decodes the active viper configuration into a Config,
// layering CLI flags (already bound to viper in root.go's init) over any
// config-file values.
func loadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if viper.GetUint64("rounds") != 0 {
		cfg.Rounds = viper.GetUint64("rounds")
	}
	if viper.GetString("keyfile") != "" {
		cfg.KeyFilePath = viper.GetString("keyfile")
	}
	return cfg, nil
}

// defaultRecentDBPath returns $HOME/.vaultctl/recent.db, falling back to a
// relative path if the home directory can't be resolved.
func defaultRecentDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vaultctl-recent.db"
	}
	return filepath.Join(home, ".vaultctl", "recent.db")
}

// compression maps the config's string setting to a vaultfile.Compression
// value, defaulting to gzip for anything unrecognized.
func (c Config) compression() vaultfile.Compression {
	if c.Compression == "none" {
		return vaultfile.CompressionNone
	}
	return vaultfile.CompressionGZip
}
