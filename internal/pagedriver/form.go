package pagedriver

import (
	"context"
	"fmt"

	"shuttle/internal/services"
)

// FormSpec describes the destination form the create stage fills in.
type FormSpec struct {
	// NewSelector is the control that opens a blank create form.
	NewSelector string
	// KeyFields are the identifying controls that must all read back empty
	// before the form counts as blank.
	KeyFields []string
}

// CreateNewAndAwaitEmptyForm triggers the create-new action until the form's
// key fields all read back empty, bounded by attempts. The destination can
// take an unpredictable amount of time to present a truly blank form, so one
// trigger-and-check is not enough; exceeding the bound is fatal for the run
// because every later submission would write into a stale form.
func CreateNewAndAwaitEmptyForm(ctx context.Context, driver Driver, spec FormSpec, attempts int, policy StablePolicy) error {
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return services.Wrap(services.ErrNavigation, "", "await empty form", "", ctx.Err())
		}
		found, err := driver.Click(ctx, spec.NewSelector)
		if err != nil {
			return services.Wrap(services.ErrNavigation, "", "trigger create form", spec.NewSelector, err)
		}
		if !found {
			return services.Wrap(services.ErrNavigation, "", "trigger create form",
				fmt.Sprintf("control %q not found", spec.NewSelector), nil)
		}
		if err := WaitUntilStable(ctx, driver, policy); err != nil {
			return err
		}
		empty, err := keyFieldsEmpty(ctx, driver, spec.KeyFields)
		if err != nil {
			return err
		}
		if empty {
			return nil
		}
	}
	return services.Wrap(services.ErrTimeout, "", "await empty form",
		fmt.Sprintf("form never read back empty after %d attempts", attempts), nil)
}

func keyFieldsEmpty(ctx context.Context, driver Driver, fields []string) (bool, error) {
	for _, selector := range fields {
		value, found, err := driver.ReadField(ctx, selector)
		if err != nil {
			return false, services.Wrap(services.ErrNavigation, "", "read form field", selector, err)
		}
		if !found || value != "" {
			return false, nil
		}
	}
	return true, nil
}

// SubmitAndVerify submits the current form and reads the outcome banner.
// A success banner yields the created record's href; an error banner is a
// creation error carrying the destination's message verbatim; no banner at
// all is a navigation failure, since the outcome is unknowable.
func SubmitAndVerify(ctx context.Context, driver Driver, policy StablePolicy) (string, error) {
	if err := driver.Submit(ctx); err != nil {
		return "", services.Wrap(services.ErrNavigation, "", "submit form", "", err)
	}
	if err := WaitUntilStable(ctx, driver, policy); err != nil {
		return "", err
	}
	banner, err := driver.ReadBanner(ctx)
	if err != nil {
		return "", services.Wrap(services.ErrNavigation, "", "read outcome banner", "", err)
	}
	switch banner.Kind {
	case BannerSuccess:
		if banner.Href == "" {
			return "", services.Wrap(services.ErrCreation, "", "verify submission", "success banner carried no href", nil)
		}
		return banner.Href, nil
	case BannerError:
		return "", services.Wrap(services.ErrCreation, "", "verify submission", banner.Message, nil)
	default:
		return "", services.Wrap(services.ErrNavigation, "", "verify submission", "no outcome banner found", nil)
	}
}
