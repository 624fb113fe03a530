// Package logging assembles the structured slog loggers used across the
// pipeline.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code automatically
// tags log lines with the active run, stage, category, and record href. A
// no-op logger is available for tests and wiring code that cannot fail.
package logging
