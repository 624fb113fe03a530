// Package pagedriver defines the contract the pipeline requires from a live
// page session, together with the bounded wait/retry helpers composed over
// that contract. Concrete drivers (a browser automation bridge, a recorded
// session for tests) implement only the primitives; the stability, retry,
// and form semantics live here so every driver behaves the same way.
package pagedriver

import "context"

// Row is one structured row scraped from an index table, keyed by the
// column names the TableSpec asked for.
type Row map[string]string

// TableSpec identifies an index-listing table and the columns to extract.
type TableSpec struct {
	// Selector locates the table on the rendered page.
	Selector string
	// Columns names the cells each extracted Row must carry. The href of a
	// row's primary link is always returned under the "href" key.
	Columns []string
}

// BannerKind classifies the post-submit banner a destination page shows.
type BannerKind int

const (
	// BannerNone means no recognizable banner was present.
	BannerNone BannerKind = iota
	// BannerSuccess carries the href of the newly created record.
	BannerSuccess
	// BannerError carries the destination system's rejection message.
	BannerError
)

// Banner is the outcome readout after a form submission.
type Banner struct {
	Kind    BannerKind
	Message string
	Href    string
}

// Driver is the primitive surface a live page session must provide. Every
// method that touches the page takes a context so callers can bound it; the
// element-addressed methods report whether the target was found so missing
// controls are data, not errors.
type Driver interface {
	// Navigate loads a page by URL.
	Navigate(ctx context.Context, url string) error
	// RenderedSize returns a scalar measure of the page's rendered content,
	// used by WaitUntilStable to detect that loading has settled.
	RenderedSize(ctx context.Context) (int, error)
	// ExtractRows scrapes structured rows from an index table.
	ExtractRows(ctx context.Context, spec TableSpec) ([]Row, error)
	// ReadField returns a form control's current value and whether the
	// control exists.
	ReadField(ctx context.Context, selector string) (string, bool, error)
	// WriteField sets a form control's value, reporting whether the control
	// exists.
	WriteField(ctx context.Context, selector, value string) (bool, error)
	// SelectOption picks a select control's option by value.
	SelectOption(ctx context.Context, selector, value string) (bool, error)
	// Click activates an element.
	Click(ctx context.Context, selector string) (bool, error)
	// Submit submits the current form.
	Submit(ctx context.Context) error
	// ReadBanner reads the post-submit outcome banner.
	ReadBanner(ctx context.Context) (Banner, error)
	// Close releases the underlying session.
	Close() error
}
