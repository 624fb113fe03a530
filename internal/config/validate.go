package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := c.validateDownloads(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.AssetsDir == "" {
		return errors.New("paths.assets_dir must be set")
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	for name, raw := range map[string]string{
		"source.base_url":      c.Source.BaseURL,
		"destination.base_url": c.Destination.BaseURL,
	} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		parsed, err := url.Parse(raw)
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	return nil
}

func (c *Config) validateDownloads() error {
	if c.Downloads.Workers < 1 || c.Downloads.Workers > 5 {
		return fmt.Errorf("downloads.workers must be between 1 and 5, got %d", c.Downloads.Workers)
	}
	if c.Downloads.RequestTimeout < 1 {
		return errors.New("downloads.request_timeout must be at least 1 second")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.NavRetryAttempts < 1 {
		return errors.New("workflow.nav_retry_attempts must be at least 1")
	}
	if c.Workflow.NavTimeout < 1 {
		return errors.New("workflow.nav_timeout must be at least 1 second")
	}
	if c.Workflow.StablePollInterval < 10 {
		return errors.New("workflow.stable_poll_interval must be at least 10 milliseconds")
	}
	if c.Workflow.StableReads < 1 {
		return errors.New("workflow.stable_reads must be at least 1")
	}
	if c.Workflow.StableTimeout < 1 {
		return errors.New("workflow.stable_timeout must be at least 1 second")
	}
	if c.Workflow.CreateFormAttempts < 1 {
		return errors.New("workflow.create_form_attempts must be at least 1")
	}
	return nil
}
