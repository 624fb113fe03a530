package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"shuttle/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadAppliesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + dir + `/data"
assets_dir = "` + dir + `/assets"
log_dir = "` + dir + `/logs"

[source]
base_url = "https://old.example.com/"

[downloads]
workers = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Downloads.Workers != 5 {
		t.Fatalf("workers = %d, want 5", cfg.Downloads.Workers)
	}
	if cfg.Source.BaseURL != "https://old.example.com" {
		t.Fatalf("base url not normalized: %q", cfg.Source.BaseURL)
	}
	if cfg.Downloads.RequestTimeout == 0 {
		t.Fatal("defaults not applied alongside file values")
	}
}

func TestValidateBoundsWorkers(t *testing.T) {
	for _, workers := range []int{0, 6, -1} {
		cfg := config.Default()
		cfg.Downloads.Workers = workers
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected workers=%d to fail validation", workers)
		}
	}
}

func TestValidateRejectsRelativeBaseURL(t *testing.T) {
	cfg := config.Default()
	cfg.Source.BaseURL = "old.example.com/cms"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected relative base url to fail")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.AssetsDir = filepath.Join(dir, "assets")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, p := range []string{cfg.Paths.DataDir, cfg.Paths.AssetsDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			t.Fatalf("directory %s missing", p)
		}
	}
}
