package category

import (
	"context"
	"fmt"

	"shuttle/internal/entity"
	"shuttle/internal/pagedriver"
	"shuttle/internal/services"
	"shuttle/internal/values"
)

const (
	selPersonJobTitle   = "#tbJobTitle"
	selPersonDepartment = "#ddlDepartment"
	selPersonPhoto      = "#fuPhoto"
	selPersonEmail      = "#tbEmail"
)

// personStrategy migrates people profiles. The shared body field carries the
// biography; listings show no date column.
type personStrategy struct{}

func (personStrategy) Category() entity.Category { return entity.CategoryPerson }

func (personStrategy) IndexPath() string { return "/admin/people" }

func (personStrategy) Table() pagedriver.TableSpec {
	return pagedriver.TableSpec{
		Selector: "table.people-index",
		Columns:  []string{"title", "href"},
	}
}

func (personStrategy) ParseRow(row pagedriver.Row) (entity.Record, error) {
	core, err := parseCore(row)
	if err != nil {
		return nil, err
	}
	return &entity.Person{Core: core}, nil
}

func (personStrategy) ScrapeDetails(ctx context.Context, driver pagedriver.Driver, record entity.Record) error {
	person, ok := record.(*entity.Person)
	if !ok {
		return fmt.Errorf("person strategy got a %T", record)
	}

	var err error
	if person.JobTitle, err = readText(ctx, driver, selPersonJobTitle); err != nil {
		return err
	}
	if person.Email, err = readText(ctx, driver, selPersonEmail); err != nil {
		return err
	}
	if person.Body, err = readText(ctx, driver, selBody); err != nil {
		return err
	}

	active, err := readFlag(ctx, driver, selActive, true)
	if err != nil {
		return err
	}
	person.SetActive(active)

	if value, err := readText(ctx, driver, selPersonDepartment); err != nil {
		return err
	} else if value != "" {
		option, err := values.NewOption(value, "")
		if err != nil {
			return services.Wrap(services.ErrValidation, "details", "department", value, err)
		}
		person.Department = &option
	}

	if href, err := readText(ctx, driver, selPersonPhoto); err != nil {
		return err
	} else if href != "" {
		ref, err := values.NewFileRef(href, "")
		if err != nil {
			return services.Wrap(services.ErrValidation, "details", "photo", href, err)
		}
		person.Photo = ref
	}
	return nil
}

func (personStrategy) CreatePath() string { return "/admin/people/edit" }

func (personStrategy) Form() pagedriver.FormSpec {
	return pagedriver.FormSpec{
		NewSelector: selCreateNew,
		KeyFields:   []string{selTitle, selPersonJobTitle},
	}
}

func (personStrategy) FillForm(ctx context.Context, driver pagedriver.Driver, record entity.Record) error {
	person, ok := record.(*entity.Person)
	if !ok {
		return fmt.Errorf("person strategy got a %T", record)
	}
	w := formWriter{ctx: ctx, driver: driver}
	if err := w.fillCommon(person.Common()); err != nil {
		return err
	}
	if err := w.writeIf(selPersonJobTitle, person.JobTitle); err != nil {
		return err
	}
	if err := w.writeIf(selPersonEmail, person.Email); err != nil {
		return err
	}
	if err := w.selectOption(selPersonDepartment, person.Department); err != nil {
		return err
	}
	if person.Photo != nil && !person.Photo.IsCleared() {
		if err := w.write(selPersonPhoto, person.Photo.LocalPath); err != nil {
			return err
		}
	}
	return nil
}
