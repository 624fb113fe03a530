// Package category isolates per-category scraping and creation logic behind
// one Strategy interface so the pipeline stays generic. Each content category
// knows its source listing, its destination form, and how its fields map to
// on-page controls; the pipeline sequences stages without knowing any of it.
package category

import (
	"context"
	"fmt"

	"shuttle/internal/entity"
	"shuttle/internal/pagedriver"
)

// Strategy is the per-category behavior the pipeline is parameterized over.
type Strategy interface {
	// Category identifies which records this strategy handles.
	Category() entity.Category
	// IndexPath is the source system's listing page, relative to its base URL.
	IndexPath() string
	// Table describes the listing table ExtractRows scrapes.
	Table() pagedriver.TableSpec
	// ParseRow builds a minimal record from one index row: title, href, and
	// a coarse date when the listing shows one.
	ParseRow(row pagedriver.Row) (entity.Record, error)
	// ScrapeDetails populates the record's category-specific fields from its
	// detail page. The pipeline has already navigated to the record's href.
	ScrapeDetails(ctx context.Context, driver pagedriver.Driver, record entity.Record) error
	// CreatePath is the destination system's form page, relative to its base URL.
	CreatePath() string
	// Form describes the destination form's create trigger and key fields.
	Form() pagedriver.FormSpec
	// FillForm writes the record into a blank destination form. The pipeline
	// handles blanking beforehand and submission afterwards.
	FillForm(ctx context.Context, driver pagedriver.Driver, record entity.Record) error
}

// Reverter is the optional capability for categories whose records follow the
// alternate index-then-revert lifecycle instead of detail scraping and
// creation.
type Reverter interface {
	// Revert flips the record back to its live condition on the source
	// system. Only legal for records still in the index state.
	Revert(ctx context.Context, driver pagedriver.Driver, record entity.Record) error
}

// ForCategory returns the strategy handling cat.
func ForCategory(cat entity.Category) (Strategy, error) {
	switch cat {
	case entity.CategoryRelease:
		return &releaseStrategy{}, nil
	case entity.CategoryEvent:
		return &eventStrategy{}, nil
	case entity.CategoryPresentation:
		return &presentationStrategy{}, nil
	case entity.CategoryDownload:
		return &downloadStrategy{}, nil
	case entity.CategoryPerson:
		return &personStrategy{}, nil
	default:
		return nil, fmt.Errorf("no strategy for category %q", cat)
	}
}
