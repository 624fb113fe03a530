package entity

import "shuttle/internal/values"

// DownloadListing is a dashboard-style listing of multimedia items grouped
// under a download type, with an optional related file. These records follow
// the alternate index → reverted lifecycle.
type DownloadListing struct {
	Core
	DownloadType *values.Option    `json:"download_type,omitempty"`
	Items        []*values.FileRef `json:"items,omitempty"`
	RelatedFile  *values.FileRef   `json:"related_file,omitempty"`
}

// Category identifies the content category.
func (d *DownloadListing) Category() Category { return CategoryDownload }

// Files returns the downloadable-files view: the multimedia items, then the
// related file.
func (d *DownloadListing) Files() []*values.FileRef {
	var out []*values.FileRef
	out = appendFile(out, d.Items...)
	out = appendFile(out, d.RelatedFile)
	return out
}

// AddItem appends a multimedia item.
func (d *DownloadListing) AddItem(ref *values.FileRef) {
	if ref != nil {
		d.Items = append(d.Items, ref)
	}
}

// TypeToken returns the download type's value for use as a directory
// segment, or an empty string when no type is set.
func (d *DownloadListing) TypeToken() string {
	if d.DownloadType == nil || d.DownloadType.IsZero() {
		return ""
	}
	if text := d.DownloadType.Text(); text != "" {
		return text
	}
	return d.DownloadType.Value()
}
