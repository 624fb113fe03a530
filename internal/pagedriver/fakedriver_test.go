package pagedriver_test

import (
	"context"
	"errors"
	"time"

	"shuttle/internal/pagedriver"
)

// fakeDriver is a scripted Driver. Each slice is consumed in order; the last
// element repeats once the script runs out.
type fakeDriver struct {
	sizes       []int
	sizeReads   int
	fields      map[string][]string
	fieldReads  map[string]int
	clicks      map[string]int
	clickFound  bool
	navErrs     []error
	navCalls    int
	submitErr   error
	submitted   int
	banner      pagedriver.Banner
	bannerErr   error
	renderedErr error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		fields:     map[string][]string{},
		fieldReads: map[string]int{},
		clicks:     map[string]int{},
		clickFound: true,
	}
}

func scripted[T any](script []T, calls int, fallback T) T {
	if len(script) == 0 {
		return fallback
	}
	if calls >= len(script) {
		return script[len(script)-1]
	}
	return script[calls]
}

func (f *fakeDriver) Navigate(_ context.Context, _ string) error {
	err := scripted(f.navErrs, f.navCalls, nil)
	f.navCalls++
	return err
}

func (f *fakeDriver) RenderedSize(_ context.Context) (int, error) {
	if f.renderedErr != nil {
		return 0, f.renderedErr
	}
	size := scripted(f.sizes, f.sizeReads, 0)
	f.sizeReads++
	return size, nil
}

func (f *fakeDriver) ExtractRows(_ context.Context, _ pagedriver.TableSpec) ([]pagedriver.Row, error) {
	return nil, errors.New("not scripted")
}

func (f *fakeDriver) ReadField(_ context.Context, selector string) (string, bool, error) {
	script, ok := f.fields[selector]
	if !ok {
		return "", false, nil
	}
	value := scripted(script, f.fieldReads[selector], "")
	f.fieldReads[selector]++
	return value, true, nil
}

func (f *fakeDriver) WriteField(_ context.Context, selector, value string) (bool, error) {
	f.fields[selector] = []string{value}
	return true, nil
}

func (f *fakeDriver) SelectOption(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}

func (f *fakeDriver) Click(_ context.Context, selector string) (bool, error) {
	f.clicks[selector]++
	return f.clickFound, nil
}

func (f *fakeDriver) Submit(_ context.Context) error {
	f.submitted++
	return f.submitErr
}

func (f *fakeDriver) ReadBanner(_ context.Context) (pagedriver.Banner, error) {
	return f.banner, f.bannerErr
}

func (f *fakeDriver) Close() error { return nil }

func quickPolicy() pagedriver.StablePolicy {
	return pagedriver.StablePolicy{
		PollInterval: 0,
		StableReads:  3,
		Timeout:      time.Second,
	}
}
