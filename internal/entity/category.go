package entity

import "strings"

// Category identifies a content category. Each category has its own record
// type, its own index listing on the source system, and its own creation form
// on the destination.
type Category string

const (
	CategoryRelease      Category = "release"
	CategoryEvent        Category = "event"
	CategoryPresentation Category = "presentation"
	CategoryDownload     Category = "download"
	CategoryPerson       Category = "person"
)

var allCategories = []Category{
	CategoryRelease,
	CategoryEvent,
	CategoryPresentation,
	CategoryDownload,
	CategoryPerson,
}

// AllCategories returns the ordered list of known categories.
func AllCategories() []Category {
	cp := make([]Category, len(allCategories))
	copy(cp, allCategories)
	return cp
}

// ParseCategory converts a string into a known Category.
func ParseCategory(value string) (Category, bool) {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, c := range allCategories {
		if c == normalized {
			return c, true
		}
	}
	return "", false
}

// Plural returns the category's plural slug, used in snapshot filenames and
// asset directory paths.
func (c Category) Plural() string {
	switch c {
	case CategoryRelease:
		return "releases"
	case CategoryEvent:
		return "events"
	case CategoryPresentation:
		return "presentations"
	case CategoryDownload:
		return "downloads"
	case CategoryPerson:
		return "people"
	default:
		return string(c)
	}
}

// New returns an empty record of this category, used by snapshot loading to
// reconstruct concrete types.
func (c Category) New() Record {
	switch c {
	case CategoryRelease:
		return &Release{}
	case CategoryEvent:
		return &Event{}
	case CategoryPresentation:
		return &Presentation{}
	case CategoryDownload:
		return &DownloadListing{}
	case CategoryPerson:
		return &Person{}
	default:
		return nil
	}
}
