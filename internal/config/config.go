// Package config reads the TOML configuration file shared by the CLI and
// REPL collaborators: default grammar/output paths and the on-disk build
// cache directory.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk shape of an ll1gen TOML config file.
type Config struct {
	// GrammarFile is the default path to read a grammar description from
	// when --grammar/-g is not given on the command line.
	GrammarFile string `toml:"grammar_file"`

	// OutFile is the default path to write generated source to when
	// --out/-o is not given.
	OutFile string `toml:"out_file"`

	// CacheDir is the directory holding memoized generation results. If
	// empty, generation runs without a build cache.
	CacheDir string `toml:"cache_dir"`
}

// Load reads and parses the TOML config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}
