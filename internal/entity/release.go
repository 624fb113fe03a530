package entity

import (
	"fmt"

	"shuttle/internal/values"
)

// Release is a news item: dated body text with an optional category select,
// file attachments, a related document, and an optional override that either
// points the listing at an external URL or replaces the body with a file.
type Release struct {
	Core
	NewsCategory *values.Option    `json:"category,omitempty"`
	Attachments  []*values.FileRef `json:"attachments,omitempty"`
	RelatedDoc   *values.FileRef   `json:"related_document,omitempty"`
	OverrideFile *values.FileRef   `json:"override_file,omitempty"`
	OverrideURL  string            `json:"override_url,omitempty"`
}

// Category identifies the content category.
func (r *Release) Category() Category { return CategoryRelease }

// Files returns the downloadable-files view: the override file when present,
// then attachments, then the related document.
func (r *Release) Files() []*values.FileRef {
	var out []*values.FileRef
	out = appendFile(out, r.OverrideFile)
	out = appendFile(out, r.Attachments...)
	out = appendFile(out, r.RelatedDoc)
	return out
}

// SetOverride stores a listing override. URLs that carry a file extension
// become a downloadable file reference, which participates in the
// downloadable-files view; bare URLs are stored as a plain link override,
// which does not. The distinction is structural: only files get downloaded
// and re-uploaded.
func (r *Release) SetOverride(rawURL string) error {
	if values.HasFileExtension(rawURL) {
		ref, err := values.NewFileRef(rawURL, "")
		if err != nil {
			return fmt.Errorf("override file: %w", err)
		}
		r.OverrideFile = ref
		r.OverrideURL = ""
		return nil
	}
	if err := values.ValidateAbsoluteURL(rawURL); err != nil {
		return fmt.Errorf("override url: %w", err)
	}
	r.OverrideURL = rawURL
	r.OverrideFile = nil
	return nil
}

// AddAttachment appends a validated file attachment.
func (r *Release) AddAttachment(ref *values.FileRef) {
	if ref != nil {
		r.Attachments = append(r.Attachments, ref)
	}
}
