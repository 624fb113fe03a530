package category

import (
	"context"
	"fmt"
	"strings"

	"shuttle/internal/entity"
	"shuttle/internal/pagedriver"
	"shuttle/internal/services"
	"shuttle/internal/values"
)

const (
	selDownloadType    = "#ddlDownloadType"
	selDownloadItems   = "table.download-items"
	selDownloadRelated = "#fuRelatedFile"
	selRevertToLive    = "#btnRevertToLive"
)

// downloadStrategy migrates dashboard-style download listings. These records
// also support the alternate revert-to-live operation, which flips an indexed
// listing back to its live condition without detail scraping or creation.
type downloadStrategy struct{}

func (downloadStrategy) Category() entity.Category { return entity.CategoryDownload }

func (downloadStrategy) IndexPath() string { return "/admin/downloads" }

func (downloadStrategy) Table() pagedriver.TableSpec {
	return pagedriver.TableSpec{
		Selector: "table.download-index",
		Columns:  []string{"title", "href", "date", "type"},
	}
}

func (downloadStrategy) ParseRow(row pagedriver.Row) (entity.Record, error) {
	core, err := parseCore(row)
	if err != nil {
		return nil, err
	}
	listing := &entity.DownloadListing{Core: core}
	if value := strings.TrimSpace(row["type"]); value != "" {
		option, err := values.NewOption("", value)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "index", "download type", value, err)
		}
		listing.DownloadType = &option
	}
	return listing, nil
}

func (downloadStrategy) ScrapeDetails(ctx context.Context, driver pagedriver.Driver, record entity.Record) error {
	listing, ok := record.(*entity.DownloadListing)
	if !ok {
		return fmt.Errorf("download strategy got a %T", record)
	}

	var err error
	if listing.Body, err = readText(ctx, driver, selBody); err != nil {
		return err
	}

	active, err := readFlag(ctx, driver, selActive, true)
	if err != nil {
		return err
	}
	listing.SetActive(active)

	if value, err := readText(ctx, driver, selDownloadType); err != nil {
		return err
	} else if value != "" {
		text := ""
		if listing.DownloadType != nil {
			text = listing.DownloadType.Text()
		}
		option, err := values.NewOption(value, text)
		if err != nil {
			return services.Wrap(services.ErrValidation, "details", "download type", value, err)
		}
		listing.DownloadType = &option
	}

	items, err := scrapeFileRefs(ctx, driver, selDownloadItems)
	if err != nil {
		return err
	}
	for _, ref := range items {
		listing.AddItem(ref)
	}

	if related, err := readText(ctx, driver, selDownloadRelated); err != nil {
		return err
	} else if related != "" {
		ref, err := values.NewFileRef(related, "")
		if err != nil {
			return services.Wrap(services.ErrValidation, "details", "related file", related, err)
		}
		listing.RelatedFile = ref
	}
	return nil
}

func (downloadStrategy) CreatePath() string { return "/admin/downloads/edit" }

func (downloadStrategy) Form() pagedriver.FormSpec {
	return pagedriver.FormSpec{
		NewSelector: selCreateNew,
		KeyFields:   []string{selTitle},
	}
}

func (downloadStrategy) FillForm(ctx context.Context, driver pagedriver.Driver, record entity.Record) error {
	listing, ok := record.(*entity.DownloadListing)
	if !ok {
		return fmt.Errorf("download strategy got a %T", record)
	}
	w := formWriter{ctx: ctx, driver: driver}
	if err := w.fillCommon(listing.Common()); err != nil {
		return err
	}
	if err := w.selectOption(selDownloadType, listing.DownloadType); err != nil {
		return err
	}
	for i, ref := range listing.Items {
		if ref == nil || ref.IsCleared() {
			continue
		}
		if err := w.write(fmt.Sprintf("#fuItem%d", i+1), ref.LocalPath); err != nil {
			return err
		}
	}
	if listing.RelatedFile != nil && !listing.RelatedFile.IsCleared() {
		if err := w.write(selDownloadRelated, listing.RelatedFile.LocalPath); err != nil {
			return err
		}
	}
	return nil
}

// Revert flips an indexed listing back to live on the source system. The
// record must still be in the index state; the lifecycle transition itself is
// owned by the caller.
func (downloadStrategy) Revert(ctx context.Context, driver pagedriver.Driver, record entity.Record) error {
	if _, ok := record.(*entity.DownloadListing); !ok {
		return fmt.Errorf("download strategy got a %T", record)
	}
	found, err := driver.Click(ctx, selRevertToLive)
	if err != nil {
		return services.Wrap(services.ErrNavigation, "revert", "click revert", selRevertToLive, err)
	}
	if !found {
		return services.Wrap(services.ErrCreation, "revert", "click revert",
			fmt.Sprintf("control %q not found", selRevertToLive), nil)
	}
	return nil
}
