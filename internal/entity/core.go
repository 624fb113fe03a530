package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"shuttle/internal/values"
)

// maxTitleLength is the longest title the destination system accepts.
const maxTitleLength = 500

// Core holds the fields every content category shares. Optional fields are
// omitted from serialized output when unset; Active stays a pointer so an
// explicit false survives a snapshot round trip while "never set" still
// defaults to true.
type Core struct {
	Title       string        `json:"title"`
	Href        string        `json:"href"`
	Date        *values.Date  `json:"date,omitempty"`
	Time        *values.Clock `json:"time,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Body        string        `json:"body,omitempty"`
	Active      *bool         `json:"active,omitempty"`
	Exclude     bool          `json:"exclude,omitempty"`
	NewWindow   bool          `json:"open_in_new_window,omitempty"`
	State       State         `json:"state"`
	ErrorNote   string        `json:"error_message,omitempty"`
	CreatedHref string        `json:"created_href,omitempty"`
}

// NewCore seeds a record at the start of its lifecycle. Title and href are
// the minimal identity established by the index stage.
func NewCore(title, href string) (Core, error) {
	core := Core{State: StateUninitialized}
	if err := core.SetTitle(title); err != nil {
		return Core{}, err
	}
	core.Href = strings.TrimSpace(href)
	if core.Href == "" {
		return Core{}, fmt.Errorf("record href must not be empty")
	}
	return core, nil
}

// SetTitle validates and assigns the record title.
func (c *Core) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("record title must not be empty")
	}
	if n := utf8.RuneCountInString(title); n > maxTitleLength {
		return fmt.Errorf("record title is %d characters, limit is %d", n, maxTitleLength)
	}
	c.Title = title
	return nil
}

// SetDate assigns the record date.
func (c *Core) SetDate(d values.Date) {
	c.Date = &d
}

// SetTime assigns the record time.
func (c *Core) SetTime(t values.Clock) {
	c.Time = &t
}

// SetActive records an explicit visibility decision.
func (c *Core) SetActive(active bool) {
	c.Active = &active
}

// IsActive reports the effective visibility flag; records default to active
// until the detail stage reads an explicit value.
func (c *Core) IsActive() bool {
	return c.Active == nil || *c.Active
}

// AddTags appends tags, skipping blanks. The tag list is ordered and defaults
// to empty rather than null.
func (c *Core) AddTags(tags ...string) {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			c.Tags = append(c.Tags, tag)
		}
	}
}

// SetCreated records the destination href and completes the main lifecycle.
func (c *Core) SetCreated(href string) error {
	href = strings.TrimSpace(href)
	if href == "" {
		return fmt.Errorf("created href must not be empty")
	}
	if err := c.Advance(StateCreated); err != nil {
		return err
	}
	c.CreatedHref = href
	c.ErrorNote = ""
	return nil
}

// Common satisfies the Record interface for every embedding category type.
func (c *Core) Common() *Core { return c }

// Record is one content record of a given category, carrying data plus
// lifecycle state.
type Record interface {
	// Common exposes the shared lifecycle and common fields.
	Common() *Core
	// Category identifies the content category.
	Category() Category
	// Files returns the ordered downloadable-files view: every file
	// reference reachable from the record's fields, skipping cleared and
	// unset references.
	Files() []*values.FileRef
}

// appendFile adds refs that still point at a file.
func appendFile(out []*values.FileRef, refs ...*values.FileRef) []*values.FileRef {
	for _, ref := range refs {
		if ref != nil && !ref.IsCleared() {
			out = append(out, ref)
		}
	}
	return out
}
