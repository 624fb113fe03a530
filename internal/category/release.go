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
	selReleaseCategory     = "#ddlCategory"
	selReleaseOverride     = "#tbLinkOverride"
	selReleaseRelatedDoc   = "#fuRelatedDocument"
	selReleaseBodyOverride = "#fuBodyOverride"
	selReleaseAttachments  = "table.attachment-list"
)

// releaseStrategy migrates news releases: dated body text with a category
// select, attachments, a related document, and an optional listing override.
type releaseStrategy struct{}

func (releaseStrategy) Category() entity.Category { return entity.CategoryRelease }

func (releaseStrategy) IndexPath() string { return "/admin/news" }

func (releaseStrategy) Table() pagedriver.TableSpec {
	return pagedriver.TableSpec{
		Selector: "table.news-index",
		Columns:  []string{"title", "href", "date"},
	}
}

func (releaseStrategy) ParseRow(row pagedriver.Row) (entity.Record, error) {
	core, err := parseCore(row)
	if err != nil {
		return nil, err
	}
	return &entity.Release{Core: core}, nil
}

func (releaseStrategy) ScrapeDetails(ctx context.Context, driver pagedriver.Driver, record entity.Record) error {
	release, ok := record.(*entity.Release)
	if !ok {
		return fmt.Errorf("release strategy got a %T", record)
	}

	body, err := readText(ctx, driver, selBody)
	if err != nil {
		return err
	}
	release.Body = body

	if raw, err := readText(ctx, driver, selTime); err != nil {
		return err
	} else if raw != "" {
		clock, err := values.ParseClock(raw)
		if err != nil {
			return services.Wrap(services.ErrValidation, "details", "release time", raw, err)
		}
		release.SetTime(clock)
	}

	active, err := readFlag(ctx, driver, selActive, true)
	if err != nil {
		return err
	}
	release.SetActive(active)
	if release.Exclude, err = readFlag(ctx, driver, selExclude, false); err != nil {
		return err
	}
	if release.NewWindow, err = readFlag(ctx, driver, selNewWindow, false); err != nil {
		return err
	}

	if tags, err := readText(ctx, driver, selTags); err != nil {
		return err
	} else if tags != "" {
		release.AddTags(strings.Split(tags, ",")...)
	}

	if value, err := readText(ctx, driver, selReleaseCategory); err != nil {
		return err
	} else if value != "" {
		option, err := values.NewOption(value, "")
		if err != nil {
			return services.Wrap(services.ErrValidation, "details", "release category", value, err)
		}
		release.NewsCategory = &option
	}

	if override, err := readText(ctx, driver, selReleaseOverride); err != nil {
		return err
	} else if override != "" {
		if err := release.SetOverride(override); err != nil {
			return services.Wrap(services.ErrValidation, "details", "release override", override, err)
		}
	}

	attachments, err := scrapeFileRefs(ctx, driver, selReleaseAttachments)
	if err != nil {
		return err
	}
	for _, ref := range attachments {
		release.AddAttachment(ref)
	}

	if related, err := readText(ctx, driver, selReleaseRelatedDoc); err != nil {
		return err
	} else if related != "" {
		ref, err := values.NewFileRef(related, "")
		if err != nil {
			return services.Wrap(services.ErrValidation, "details", "related document", related, err)
		}
		release.RelatedDoc = ref
	}
	return nil
}

func (releaseStrategy) CreatePath() string { return "/admin/news/edit" }

func (releaseStrategy) Form() pagedriver.FormSpec {
	return pagedriver.FormSpec{
		NewSelector: selCreateNew,
		KeyFields:   []string{selTitle, selDate},
	}
}

func (releaseStrategy) FillForm(ctx context.Context, driver pagedriver.Driver, record entity.Record) error {
	release, ok := record.(*entity.Release)
	if !ok {
		return fmt.Errorf("release strategy got a %T", record)
	}
	w := formWriter{ctx: ctx, driver: driver}
	if err := w.fillCommon(release.Common()); err != nil {
		return err
	}
	if err := w.selectOption(selReleaseCategory, release.NewsCategory); err != nil {
		return err
	}
	if release.OverrideURL != "" {
		if err := w.write(selReleaseOverride, release.OverrideURL); err != nil {
			return err
		}
	}
	if release.OverrideFile != nil && !release.OverrideFile.IsCleared() {
		if err := w.write(selReleaseBodyOverride, release.OverrideFile.LocalPath); err != nil {
			return err
		}
	}
	for i, ref := range release.Attachments {
		if ref == nil || ref.IsCleared() {
			continue
		}
		if err := w.write(fmt.Sprintf("#fuAttachment%d", i+1), ref.LocalPath); err != nil {
			return err
		}
	}
	if release.RelatedDoc != nil && !release.RelatedDoc.IsCleared() {
		if err := w.write(selReleaseRelatedDoc, release.RelatedDoc.LocalPath); err != nil {
			return err
		}
	}
	return nil
}
