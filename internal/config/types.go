package config

// Theme selects the color scheme used by the viewer and the static export.
type Theme string

const (
	ThemeGitHub  Theme = "github"
	ThemeMonokai Theme = "monokai"
	ThemeDracula Theme = "dracula"
)

// Config is the top-level codewalk configuration, corresponding to .codewalk.yml.
type Config struct {
	RootDir     string       `yaml:"root_dir" koanf:"root_dir"`
	Include     []string     `yaml:"include" koanf:"include"`
	Exclude     []string     `yaml:"exclude" koanf:"exclude"`
	MaxFileSize int64        `yaml:"max_file_size" koanf:"max_file_size"`
	Concurrency int          `yaml:"concurrency" koanf:"concurrency"`
	DBPath      string       `yaml:"db_path" koanf:"db_path"`
	LogLevel    string       `yaml:"log_level" koanf:"log_level"`
	Server      ServerConfig `yaml:"server" koanf:"server"`
	Viewer      ViewerConfig `yaml:"viewer" koanf:"viewer"`
}

// ServerConfig holds the viewer server's listen settings.
type ServerConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port int    `yaml:"port" koanf:"port"`
}

// ViewerConfig holds dual-pane viewer settings.
type ViewerConfig struct {
	Theme          Theme `yaml:"theme" koanf:"theme"`
	SyncDebounceMs int   `yaml:"sync_debounce_ms" koanf:"sync_debounce_ms"`
}
