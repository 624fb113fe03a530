// Package services defines the shared error taxonomy for pipeline stages.
//
// Stage code wraps failures with a sentinel marker (validation, navigation,
// download, creation, configuration, timeout) plus stage and operation
// context. The orchestrator classifies wrapped errors with errors.Is to
// decide whether a failure is local to one record or fatal to the run, and
// extracts the human-readable message for the record's retained error note.
package services
