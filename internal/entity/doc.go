// Package entity defines the content records the pipeline migrates and the
// lifecycle state machine that makes every stage restartable.
//
// Each content category (release, event, presentation, download listing,
// person) is a record type built on a shared Core: title, source href,
// optional date and time, tags, body text, visibility flags, lifecycle state,
// and the destination href recorded once creation succeeds. Records expose a
// downloadable-files view so the download stage can process attachments
// without knowing category internals, and they serialize losslessly to JSON
// so snapshot files round-trip field for field.
//
// Identity across stages is the scraped source href, never an assigned id.
// Lifecycle state is mutated only by the pipeline orchestrator.
package entity
