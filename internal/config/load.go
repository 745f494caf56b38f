package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/dragstorm/internal/config/loader"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "DRAGSTORM_"

// maxIncludeDepth bounds nested @include directives.
const maxIncludeDepth = 8

// LoadOptions controls where settings are read from.
type LoadOptions struct {
	// Path is an explicit settings file. When set, the file must
	// exist. When empty the default path is tried and silently
	// skipped if absent.
	Path string

	// SkipEnv disables environment variable overrides.
	SkipEnv bool

	// FS substitutes the file system, for tests.
	FS loader.FileSystem
}

// Load builds the settings: defaults, then the TOML file, then
// environment overrides, validated as a whole.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	fs := opts.FS
	if fs == nil {
		fs = loader.DefaultFS()
	}

	path := opts.Path
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		tl := loader.NewTOMLLoaderWithFS(fs, path)
		raw, err := tl.LoadWithIncludes(path, maxIncludeDepth)
		if err != nil {
			return cfg, err
		}
		if raw == nil && explicit {
			return cfg, fmt.Errorf("settings file %s: %w", path, os.ErrNotExist)
		}
		if err := decodeInto(&cfg, raw); err != nil {
			return cfg, fmt.Errorf("settings file %s: %w", path, err)
		}
	}

	if !opts.SkipEnv {
		env, err := loader.NewEnvLoader(EnvPrefix).Load()
		if err != nil {
			return cfg, err
		}
		if err := decodeInto(&cfg, env); err != nil {
			return cfg, fmt.Errorf("environment overrides: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultPath returns the standard settings file location, or empty
// when no user configuration directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "dragstorm", "config.toml")
}

// decodeInto applies a raw settings map on top of cfg. Keys absent
// from the map keep their current values; unknown keys are ignored.
func decodeInto(cfg *Config, raw map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	return nil
}
