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
	selPresentationSlides   = "#fuPresentation"
	selPresentationAudio    = "#fuAudio"
	selPresentationVideo    = "#fuVideo"
	selPresentationSpeakers = "table.speaker-list"
)

// presentationStrategy migrates slide decks with optional audio and video
// recordings.
type presentationStrategy struct{}

func (presentationStrategy) Category() entity.Category { return entity.CategoryPresentation }

func (presentationStrategy) IndexPath() string { return "/admin/presentations" }

func (presentationStrategy) Table() pagedriver.TableSpec {
	return pagedriver.TableSpec{
		Selector: "table.presentation-index",
		Columns:  []string{"title", "href", "date"},
	}
}

func (presentationStrategy) ParseRow(row pagedriver.Row) (entity.Record, error) {
	core, err := parseCore(row)
	if err != nil {
		return nil, err
	}
	return &entity.Presentation{Core: core}, nil
}

func (presentationStrategy) ScrapeDetails(ctx context.Context, driver pagedriver.Driver, record entity.Record) error {
	pres, ok := record.(*entity.Presentation)
	if !ok {
		return fmt.Errorf("presentation strategy got a %T", record)
	}

	var err error
	if pres.Body, err = readText(ctx, driver, selBody); err != nil {
		return err
	}

	active, err := readFlag(ctx, driver, selActive, true)
	if err != nil {
		return err
	}
	pres.SetActive(active)

	if tags, err := readText(ctx, driver, selTags); err != nil {
		return err
	} else if tags != "" {
		pres.AddTags(strings.Split(tags, ",")...)
	}

	for _, slot := range []struct {
		selector string
		target   **values.FileRef
		label    string
	}{
		{selPresentationSlides, &pres.Slides, "presentation file"},
		{selPresentationAudio, &pres.Audio, "audio file"},
		{selPresentationVideo, &pres.Video, "video file"},
	} {
		href, err := readText(ctx, driver, slot.selector)
		if err != nil {
			return err
		}
		if href == "" {
			continue
		}
		ref, err := values.NewFileRef(href, "")
		if err != nil {
			return services.Wrap(services.ErrValidation, "details", slot.label, href, err)
		}
		*slot.target = ref
	}

	speakers, err := scrapeSpeakers(ctx, driver, selPresentationSpeakers)
	if err != nil {
		return err
	}
	for _, s := range speakers {
		pres.AddSpeaker(s.Name, s.Title)
	}
	return nil
}

func (presentationStrategy) CreatePath() string { return "/admin/presentations/edit" }

func (presentationStrategy) Form() pagedriver.FormSpec {
	return pagedriver.FormSpec{
		NewSelector: selCreateNew,
		KeyFields:   []string{selTitle, selDate},
	}
}

func (presentationStrategy) FillForm(ctx context.Context, driver pagedriver.Driver, record entity.Record) error {
	pres, ok := record.(*entity.Presentation)
	if !ok {
		return fmt.Errorf("presentation strategy got a %T", record)
	}
	w := formWriter{ctx: ctx, driver: driver}
	if err := w.fillCommon(pres.Common()); err != nil {
		return err
	}
	for _, slot := range []struct {
		selector string
		ref      *values.FileRef
	}{
		{selPresentationSlides, pres.Slides},
		{selPresentationAudio, pres.Audio},
		{selPresentationVideo, pres.Video},
	} {
		if slot.ref == nil || slot.ref.IsCleared() {
			continue
		}
		if err := w.write(slot.selector, slot.ref.LocalPath); err != nil {
			return err
		}
	}
	for i, speaker := range pres.Speakers {
		if err := w.write(fmt.Sprintf("#tbSpeakerName%d", i+1), speaker.Name); err != nil {
			return err
		}
		if err := w.writeIf(fmt.Sprintf("#tbSpeakerTitle%d", i+1), speaker.Title); err != nil {
			return err
		}
	}
	return nil
}
