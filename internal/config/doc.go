// Package config loads, normalizes, and validates shuttle configuration.
//
// It supplies repository defaults, expands tilde paths, reads TOML files,
// and centralizes every knob the CLI and pipeline need: data and asset
// directories, source and destination base URLs, download worker counts, and
// navigation timing. Always obtain settings through this package so
// downstream code receives sanitized paths and clear validation errors.
package config
