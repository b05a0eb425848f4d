package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CODEWALK_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: CODEWALK_ROOT_DIR -> root_dir,
	// CODEWALK_SERVER_PORT -> server.port, etc.
	if err := k.Load(env.Provider("CODEWALK_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "CODEWALK_"))
		if after, ok := strings.CutPrefix(s, "server_"); ok {
			return "server." + after
		}
		if after, ok := strings.CutPrefix(s, "viewer_"); ok {
			return "viewer." + after
		}
		return s
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validThemes is the set of recognized viewer theme values.
var validThemes = map[Theme]bool{
	ThemeGitHub:  true,
	ThemeMonokai: true,
	ThemeDracula: true,
}

// validLogLevels is the set of recognized log level values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.RootDir == "" {
		return fmt.Errorf("root_dir is required")
	}

	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must be non-negative")
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be non-negative")
	}

	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error, fatal", c.LogLevel)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	if c.Viewer.Theme != "" && !validThemes[c.Viewer.Theme] {
		return fmt.Errorf("invalid theme %q: must be one of github, monokai, dracula", c.Viewer.Theme)
	}

	if c.Viewer.SyncDebounceMs < 0 {
		return fmt.Errorf("sync_debounce_ms must be non-negative")
	}

	return nil
}
