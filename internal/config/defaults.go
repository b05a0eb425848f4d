package config

// DefaultExcludes are glob patterns excluded from walking by default.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	".next/**",
	"*.min.js",
	"*.min.css",
	"*.lock",
	"go.sum",
	"package-lock.json",
	"yarn.lock",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RootDir:     ".",
		Include:     []string{"**"},
		Exclude:     DefaultExcludes,
		MaxFileSize: 1 << 20,
		Concurrency: 4,
		DBPath:      ".codewalk/codewalk.db",
		LogLevel:    "info",
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Viewer: ViewerConfig{
			Theme:          ThemeGitHub,
			SyncDebounceMs: 150,
		},
	}
}
