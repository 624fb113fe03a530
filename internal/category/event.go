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
	selEventLocation    = "#tbLocation"
	selEventAttachments = "table.attachment-list"
	selEventSpeakers    = "table.speaker-list"
)

// eventStrategy migrates calendar events: date, time, and location with
// attachments and a speaker list.
type eventStrategy struct{}

func (eventStrategy) Category() entity.Category { return entity.CategoryEvent }

func (eventStrategy) IndexPath() string { return "/admin/events" }

func (eventStrategy) Table() pagedriver.TableSpec {
	return pagedriver.TableSpec{
		Selector: "table.event-index",
		Columns:  []string{"title", "href", "date"},
	}
}

func (eventStrategy) ParseRow(row pagedriver.Row) (entity.Record, error) {
	core, err := parseCore(row)
	if err != nil {
		return nil, err
	}
	return &entity.Event{Core: core}, nil
}

func (eventStrategy) ScrapeDetails(ctx context.Context, driver pagedriver.Driver, record entity.Record) error {
	event, ok := record.(*entity.Event)
	if !ok {
		return fmt.Errorf("event strategy got a %T", record)
	}

	var err error
	if event.Location, err = readText(ctx, driver, selEventLocation); err != nil {
		return err
	}
	if event.Body, err = readText(ctx, driver, selBody); err != nil {
		return err
	}

	if raw, err := readText(ctx, driver, selTime); err != nil {
		return err
	} else if raw != "" {
		clock, err := values.ParseClock(raw)
		if err != nil {
			return services.Wrap(services.ErrValidation, "details", "event time", raw, err)
		}
		event.SetTime(clock)
	}

	active, err := readFlag(ctx, driver, selActive, true)
	if err != nil {
		return err
	}
	event.SetActive(active)
	if event.Exclude, err = readFlag(ctx, driver, selExclude, false); err != nil {
		return err
	}

	if tags, err := readText(ctx, driver, selTags); err != nil {
		return err
	} else if tags != "" {
		event.AddTags(strings.Split(tags, ",")...)
	}

	attachments, err := scrapeFileRefs(ctx, driver, selEventAttachments)
	if err != nil {
		return err
	}
	for _, ref := range attachments {
		event.AddAttachment(ref)
	}

	speakers, err := scrapeSpeakers(ctx, driver, selEventSpeakers)
	if err != nil {
		return err
	}
	for _, s := range speakers {
		event.AddSpeaker(s.Name, s.Title)
	}
	return nil
}

func (eventStrategy) CreatePath() string { return "/admin/events/edit" }

func (eventStrategy) Form() pagedriver.FormSpec {
	return pagedriver.FormSpec{
		NewSelector: selCreateNew,
		KeyFields:   []string{selTitle, selEventLocation},
	}
}

func (eventStrategy) FillForm(ctx context.Context, driver pagedriver.Driver, record entity.Record) error {
	event, ok := record.(*entity.Event)
	if !ok {
		return fmt.Errorf("event strategy got a %T", record)
	}
	w := formWriter{ctx: ctx, driver: driver}
	if err := w.fillCommon(event.Common()); err != nil {
		return err
	}
	if err := w.writeIf(selEventLocation, event.Location); err != nil {
		return err
	}
	for i, ref := range event.Attachments {
		if ref == nil || ref.IsCleared() {
			continue
		}
		if err := w.write(fmt.Sprintf("#fuAttachment%d", i+1), ref.LocalPath); err != nil {
			return err
		}
	}
	for i, speaker := range event.Speakers {
		if err := w.write(fmt.Sprintf("#tbSpeakerName%d", i+1), speaker.Name); err != nil {
			return err
		}
		if err := w.writeIf(fmt.Sprintf("#tbSpeakerTitle%d", i+1), speaker.Title); err != nil {
			return err
		}
	}
	return nil
}
