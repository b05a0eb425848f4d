package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.RootDir != "." {
		t.Errorf("expected default root_dir %q, got %q", ".", cfg.RootDir)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Viewer.Theme != ThemeGitHub {
		t.Errorf("expected default theme %q, got %q", ThemeGitHub, cfg.Viewer.Theme)
	}
	if cfg.Viewer.SyncDebounceMs != 150 {
		t.Errorf("expected default sync_debounce_ms 150, got %d", cfg.Viewer.SyncDebounceMs)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("expected default concurrency 4, got %d", cfg.Concurrency)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.codewalk.yml")

	original := DefaultConfig()
	original.RootDir = "/srv/teaching"
	original.Include = []string{"**/*.go", "**/*.jsx"}
	original.Server.Port = 9000
	original.Viewer.Theme = ThemeDracula
	original.MaxFileSize = 2 << 20

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.RootDir != original.RootDir {
		t.Errorf("root_dir: got %q, want %q", loaded.RootDir, original.RootDir)
	}
	if loaded.Server.Port != original.Server.Port {
		t.Errorf("server.port: got %d, want %d", loaded.Server.Port, original.Server.Port)
	}
	if loaded.Viewer.Theme != original.Viewer.Theme {
		t.Errorf("viewer.theme: got %q, want %q", loaded.Viewer.Theme, original.Viewer.Theme)
	}
	if loaded.MaxFileSize != original.MaxFileSize {
		t.Errorf("max_file_size: got %d, want %d", loaded.MaxFileSize, original.MaxFileSize)
	}
	if len(loaded.Include) != len(original.Include) {
		t.Errorf("include length: got %d, want %d", len(loaded.Include), len(original.Include))
	}
	for i, v := range loaded.Include {
		if v != original.Include[i] {
			t.Errorf("include[%d]: got %q, want %q", i, v, original.Include[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.RootDir != "." {
		t.Errorf("expected default root_dir, got %q", cfg.RootDir)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Override root dir via env var.
	os.Setenv("CODEWALK_ROOT_DIR", "/opt/courses")
	defer os.Unsetenv("CODEWALK_ROOT_DIR")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.RootDir != "/opt/courses" {
		t.Errorf("env override failed: got %q, want %q", loaded.RootDir, "/opt/courses")
	}
}

func TestLoadEnvOverrideNested(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("CODEWALK_SERVER_PORT", "9999")
	defer os.Unsetenv("CODEWALK_SERVER_PORT")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 9999 {
		t.Errorf("nested env override failed: got %d, want 9999", loaded.Server.Port)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateEmptyRootDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty root_dir")
	}
}

func TestValidateInvalidTheme(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viewer.Theme = "solarized"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid theme")
	}
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid log_level")
	}
}

func TestValidateInvalidPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for out-of-range port")
	}
}

func TestValidateNegativeDebounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viewer.SyncDebounceMs = -10
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative sync_debounce_ms")
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.go", []string{"**/*.go"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
