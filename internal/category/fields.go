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

// parseCore builds the minimal record identity from an index row and moves it
// into the index state. The date column is optional and lenient: listings
// sometimes show free text where a date is expected, and that is detail-stage
// data, not an index failure.
func parseCore(row pagedriver.Row) (entity.Core, error) {
	core, err := entity.NewCore(row["title"], row["href"])
	if err != nil {
		return entity.Core{}, services.Wrap(services.ErrValidation, "index", "parse row", "", err)
	}
	if raw := strings.TrimSpace(row["date"]); raw != "" {
		if date, err := values.ParseDate(raw); err == nil {
			core.SetDate(date)
		}
	}
	if err := core.Advance(entity.StateIndex); err != nil {
		return entity.Core{}, err
	}
	return core, nil
}

// readText reads an optional text control; a missing control is an empty
// value, not an error.
func readText(ctx context.Context, driver pagedriver.Driver, selector string) (string, error) {
	value, found, err := driver.ReadField(ctx, selector)
	if err != nil {
		return "", services.Wrap(services.ErrNavigation, "details", "read field", selector, err)
	}
	if !found {
		return "", nil
	}
	return strings.TrimSpace(value), nil
}

// readFlag interprets a checkbox-style control. Absent controls default to
// defaultValue so categories without the control keep the record default.
func readFlag(ctx context.Context, driver pagedriver.Driver, selector string, defaultValue bool) (bool, error) {
	value, found, err := driver.ReadField(ctx, selector)
	if err != nil {
		return defaultValue, services.Wrap(services.ErrNavigation, "details", "read field", selector, err)
	}
	if !found {
		return defaultValue, nil
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "checked", "on", "1", "yes":
		return true, nil
	case "false", "", "0", "no":
		return false, nil
	default:
		return defaultValue, nil
	}
}

// scrapeFileRefs extracts file references from a link table on the detail
// page. Rows whose href cannot form a valid reference are skipped with the
// validation error surfaced to the caller's collector; drivers return
// absolute URLs for link cells.
func scrapeFileRefs(ctx context.Context, driver pagedriver.Driver, selector string) ([]*values.FileRef, error) {
	rows, err := driver.ExtractRows(ctx, pagedriver.TableSpec{
		Selector: selector,
		Columns:  []string{"href", "filename"},
	})
	if err != nil {
		return nil, services.Wrap(services.ErrNavigation, "details", "extract file rows", selector, err)
	}
	refs := make([]*values.FileRef, 0, len(rows))
	for _, row := range rows {
		href := strings.TrimSpace(row["href"])
		if href == "" {
			continue
		}
		ref, err := values.NewFileRef(href, strings.TrimSpace(row["filename"]))
		if err != nil {
			return refs, services.Wrap(services.ErrValidation, "details", "file reference", href, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// scrapeSpeakers extracts a speaker table; absent tables yield no speakers.
func scrapeSpeakers(ctx context.Context, driver pagedriver.Driver, selector string) ([]entity.Speaker, error) {
	rows, err := driver.ExtractRows(ctx, pagedriver.TableSpec{
		Selector: selector,
		Columns:  []string{"name", "title"},
	})
	if err != nil {
		return nil, services.Wrap(services.ErrNavigation, "details", "extract speakers", selector, err)
	}
	speakers := make([]entity.Speaker, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row["name"])
		if name == "" {
			continue
		}
		speakers = append(speakers, entity.Speaker{Name: name, Title: strings.TrimSpace(row["title"])})
	}
	return speakers, nil
}

// formWriter wraps a driver for filling one destination form, turning the
// found-or-not booleans of the primitives into creation errors: a control the
// category expects to write must exist on the form.
type formWriter struct {
	ctx    context.Context
	driver pagedriver.Driver
}

func (w formWriter) write(selector, value string) error {
	found, err := w.driver.WriteField(w.ctx, selector, value)
	if err != nil {
		return services.Wrap(services.ErrNavigation, "create", "write field", selector, err)
	}
	if !found {
		return services.Wrap(services.ErrCreation, "create", "write field",
			fmt.Sprintf("control %q not found on form", selector), nil)
	}
	return nil
}

// writeIf writes only when value is non-empty, so unset optional fields leave
// the blank form untouched.
func (w formWriter) writeIf(selector, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return w.write(selector, value)
}

func (w formWriter) check(selector string, on bool) error {
	value := "false"
	if on {
		value = "true"
	}
	return w.write(selector, value)
}

func (w formWriter) selectOption(selector string, option *values.Option) error {
	if option == nil || option.IsZero() {
		return nil
	}
	found, err := w.driver.SelectOption(w.ctx, selector, option.Value())
	if err != nil {
		return services.Wrap(services.ErrNavigation, "create", "select option", selector, err)
	}
	if !found {
		return services.Wrap(services.ErrCreation, "create", "select option",
			fmt.Sprintf("control %q not found on form", selector), nil)
	}
	return nil
}

// fillCommon writes the shared fields every category's form carries.
func (w formWriter) fillCommon(core *entity.Core) error {
	if err := w.write(selTitle, core.Title); err != nil {
		return err
	}
	if core.Date != nil {
		if err := w.write(selDate, core.Date.String()); err != nil {
			return err
		}
	}
	if core.Time != nil {
		if err := w.write(selTime, core.Time.String()); err != nil {
			return err
		}
	}
	if err := w.writeIf(selTags, strings.Join(core.Tags, ", ")); err != nil {
		return err
	}
	if err := w.writeIf(selBody, core.Body); err != nil {
		return err
	}
	if err := w.check(selActive, core.IsActive()); err != nil {
		return err
	}
	if err := w.check(selExclude, core.Exclude); err != nil {
		return err
	}
	return w.check(selNewWindow, core.NewWindow)
}

// Shared control selectors on the destination forms. Every category's form
// carries the common block under the same ids; category-specific controls are
// declared next to their strategies.
const (
	selTitle     = "#tbTitle"
	selDate      = "#tbDate"
	selTime      = "#tbTime"
	selTags      = "#tbTags"
	selBody      = "#tbBody"
	selActive    = "#cbActive"
	selExclude   = "#cbExclude"
	selNewWindow = "#cbOpenInNewWindow"
	selCreateNew = "#btnCreateNew"
)
