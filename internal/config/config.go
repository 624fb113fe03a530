package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// DataDir holds stage snapshot files and the run journal.
	DataDir string `toml:"data_dir"`
	// AssetsDir receives downloaded files, one subtree per category.
	AssetsDir string `toml:"assets_dir"`
	LogDir    string `toml:"log_dir"`
}

// Source describes the content-management instance records are scraped from.
type Source struct {
	BaseURL string `toml:"base_url"`
}

// Destination describes the content-management instance records are created on.
type Destination struct {
	BaseURL string `toml:"base_url"`
}

// Downloads contains settings for the file download stage.
type Downloads struct {
	// Workers is the download worker pool size. Bounded to 1-5; each worker
	// owns its own HTTP client.
	Workers int `toml:"workers"`
	// RequestTimeout bounds a single file fetch, in seconds.
	RequestTimeout int `toml:"request_timeout"`
}

// Workflow contains navigation retry and page-stability timing.
type Workflow struct {
	// NavRetryAttempts bounds navigation retries; per-attempt timeouts grow
	// with each retry.
	NavRetryAttempts int `toml:"nav_retry_attempts"`
	// NavTimeout is the first attempt's navigation timeout, in seconds.
	NavTimeout int `toml:"nav_timeout"`
	// StablePollInterval is the page-stability polling interval, in milliseconds.
	StablePollInterval int `toml:"stable_poll_interval"`
	// StableReads is the number of consecutive unchanged size reads required
	// before a page counts as stable.
	StableReads int `toml:"stable_reads"`
	// StableTimeout caps the whole stability wait, in seconds; on expiry the
	// page is treated as probably stable.
	StableTimeout int `toml:"stable_timeout"`
	// CreateFormAttempts bounds how often the create stage re-triggers the
	// "create new" action while waiting for a blank form.
	CreateFormAttempts int `toml:"create_form_attempts"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for shuttle.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Source      Source      `toml:"source"`
	Destination Destination `toml:"destination"`
	Downloads   Downloads   `toml:"downloads"`
	Workflow    Workflow    `toml:"workflow"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shuttle/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The bool reports
// whether a config file was actually found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// EnsureDirectories creates the data, assets, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.AssetsDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("shuttle.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// ExpandPath resolves ~ and cleans a user-supplied path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return filepath.Clean(path), nil
}
