package category

import (
	"context"
	"errors"
	"testing"

	"shuttle/internal/entity"
	"shuttle/internal/pagedriver"
	"shuttle/internal/services"
	"shuttle/internal/values"
)

func mustRef(t *testing.T, remote string) *values.FileRef {
	t.Helper()
	ref, err := values.NewFileRef(remote, "")
	if err != nil {
		t.Fatalf("NewFileRef(%q) failed: %v", remote, err)
	}
	return ref
}

// pageFake serves scripted field values and tables and records every write.
type pageFake struct {
	fields   map[string]string
	tables   map[string][]pagedriver.Row
	written  map[string]string
	selected map[string]string
	clicked  map[string]int
	absent   map[string]bool
}

func newPageFake() *pageFake {
	return &pageFake{
		fields:   map[string]string{},
		tables:   map[string][]pagedriver.Row{},
		written:  map[string]string{},
		selected: map[string]string{},
		clicked:  map[string]int{},
		absent:   map[string]bool{},
	}
}

func (p *pageFake) Navigate(context.Context, string) error { return nil }
func (p *pageFake) RenderedSize(context.Context) (int, error) {
	return 1, nil
}

func (p *pageFake) ExtractRows(_ context.Context, spec pagedriver.TableSpec) ([]pagedriver.Row, error) {
	return p.tables[spec.Selector], nil
}

func (p *pageFake) ReadField(_ context.Context, selector string) (string, bool, error) {
	value, ok := p.fields[selector]
	return value, ok, nil
}

func (p *pageFake) WriteField(_ context.Context, selector, value string) (bool, error) {
	if p.absent[selector] {
		return false, nil
	}
	p.written[selector] = value
	return true, nil
}

func (p *pageFake) SelectOption(_ context.Context, selector, value string) (bool, error) {
	if p.absent[selector] {
		return false, nil
	}
	p.selected[selector] = value
	return true, nil
}

func (p *pageFake) Click(_ context.Context, selector string) (bool, error) {
	if p.absent[selector] {
		return false, nil
	}
	p.clicked[selector]++
	return true, nil
}

func (p *pageFake) Submit(context.Context) error { return nil }
func (p *pageFake) ReadBanner(context.Context) (pagedriver.Banner, error) {
	return pagedriver.Banner{}, nil
}
func (p *pageFake) Close() error { return nil }

func TestForCategoryCoversEveryCategory(t *testing.T) {
	for _, cat := range entity.AllCategories() {
		strategy, err := ForCategory(cat)
		if err != nil {
			t.Fatalf("ForCategory(%s) failed: %v", cat, err)
		}
		if strategy.Category() != cat {
			t.Fatalf("strategy for %s reports %s", cat, strategy.Category())
		}
		_, reverts := strategy.(Reverter)
		if cat == entity.CategoryDownload && !reverts {
			t.Fatal("download strategy must support revert")
		}
		if cat != entity.CategoryDownload && reverts {
			t.Fatalf("%s strategy must not support revert", cat)
		}
	}
	if _, err := ForCategory(entity.Category("blog")); err == nil {
		t.Fatal("unknown category should fail")
	}
}

func TestReleaseParseRow(t *testing.T) {
	strategy, _ := ForCategory(entity.CategoryRelease)
	record, err := strategy.ParseRow(pagedriver.Row{
		"title": "Quarterly Results",
		"href":  "/news/123",
		"date":  "03/14/2026",
	})
	if err != nil {
		t.Fatalf("ParseRow failed: %v", err)
	}
	core := record.Common()
	if core.State != entity.StateIndex {
		t.Fatalf("state = %s, want %s", core.State, entity.StateIndex)
	}
	if core.Date == nil || core.Date.String() != "03/14/2026" {
		t.Fatalf("date not parsed: %v", core.Date)
	}
}

func TestParseRowRejectsMissingTitle(t *testing.T) {
	strategy, _ := ForCategory(entity.CategoryRelease)
	_, err := strategy.ParseRow(pagedriver.Row{"href": "/news/123"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestParseRowToleratesUnparseableDate(t *testing.T) {
	strategy, _ := ForCategory(entity.CategoryEvent)
	record, err := strategy.ParseRow(pagedriver.Row{
		"title": "Annual Meeting",
		"href":  "/events/9",
		"date":  "TBD",
	})
	if err != nil {
		t.Fatalf("ParseRow failed: %v", err)
	}
	if record.Common().Date != nil {
		t.Fatal("free-text date should stay unset")
	}
}

func TestReleaseScrapeDetails(t *testing.T) {
	strategy, _ := ForCategory(entity.CategoryRelease)
	record, err := strategy.ParseRow(pagedriver.Row{"title": "Results", "href": "/news/1"})
	if err != nil {
		t.Fatalf("ParseRow failed: %v", err)
	}

	driver := newPageFake()
	driver.fields["#tbBody"] = "Full text."
	driver.fields["#tbTime"] = "09:30 AM"
	driver.fields["#cbActive"] = "false"
	driver.fields["#tbTags"] = "finance, q1"
	driver.fields["#ddlCategory"] = "12"
	driver.tables["table.attachment-list"] = []pagedriver.Row{
		{"href": "https://cdn.example.test/a.pdf", "filename": ""},
	}

	if err := strategy.ScrapeDetails(context.Background(), driver, record); err != nil {
		t.Fatalf("ScrapeDetails failed: %v", err)
	}
	release := record.(*entity.Release)
	if release.Body != "Full text." {
		t.Fatalf("body = %q", release.Body)
	}
	if release.Time == nil || release.Time.String() != "09:30 AM" {
		t.Fatalf("time = %v", release.Time)
	}
	if release.IsActive() {
		t.Fatal("explicit false should override the active default")
	}
	if len(release.Tags) != 2 || release.Tags[0] != "finance" {
		t.Fatalf("tags = %v", release.Tags)
	}
	if release.NewsCategory == nil || release.NewsCategory.Value() != "12" {
		t.Fatalf("category = %v", release.NewsCategory)
	}
	if len(release.Attachments) != 1 {
		t.Fatalf("attachments = %d", len(release.Attachments))
	}
}

func TestReleaseOverrideRouting(t *testing.T) {
	strategy, _ := ForCategory(entity.CategoryRelease)

	fileRecord, _ := strategy.ParseRow(pagedriver.Row{"title": "A", "href": "/news/2"})
	driver := newPageFake()
	driver.fields["#tbLinkOverride"] = "https://cdn.example.test/full-report.pdf"
	if err := strategy.ScrapeDetails(context.Background(), driver, fileRecord); err != nil {
		t.Fatalf("ScrapeDetails failed: %v", err)
	}
	release := fileRecord.(*entity.Release)
	if release.OverrideFile == nil || release.OverrideURL != "" {
		t.Fatalf("extension URL should become the file override: %+v", release)
	}

	urlRecord, _ := strategy.ParseRow(pagedriver.Row{"title": "B", "href": "/news/3"})
	driver = newPageFake()
	driver.fields["#tbLinkOverride"] = "https://example.test/investors"
	if err := strategy.ScrapeDetails(context.Background(), driver, urlRecord); err != nil {
		t.Fatalf("ScrapeDetails failed: %v", err)
	}
	release = urlRecord.(*entity.Release)
	if release.OverrideFile != nil || release.OverrideURL == "" {
		t.Fatalf("bare URL should become the link override: %+v", release)
	}
}

func TestReleaseFillFormWritesCommonAndSkipsCleared(t *testing.T) {
	strategy, _ := ForCategory(entity.CategoryRelease)
	record, _ := strategy.ParseRow(pagedriver.Row{"title": "Results", "href": "/news/1", "date": "01/02/2026"})
	release := record.(*entity.Release)
	release.Body = "Text"
	ref := mustRef(t, "https://cdn.example.test/kept.pdf")
	ref.SetLocalPath("/tmp/assets/kept.pdf")
	cleared := mustRef(t, "https://cdn.example.test/gone.pdf")
	cleared.Clear()
	release.AddAttachment(ref)
	release.AddAttachment(cleared)

	driver := newPageFake()
	if err := strategy.FillForm(context.Background(), driver, record); err != nil {
		t.Fatalf("FillForm failed: %v", err)
	}
	if driver.written["#tbTitle"] != "Results" {
		t.Fatalf("title write = %q", driver.written["#tbTitle"])
	}
	if driver.written["#tbDate"] != "01/02/2026" {
		t.Fatalf("date write = %q", driver.written["#tbDate"])
	}
	if driver.written["#cbActive"] != "true" {
		t.Fatalf("active write = %q", driver.written["#cbActive"])
	}
	if driver.written["#fuAttachment1"] != "/tmp/assets/kept.pdf" {
		t.Fatalf("attachment write = %q", driver.written["#fuAttachment1"])
	}
	if _, wrote := driver.written["#fuAttachment2"]; wrote {
		t.Fatal("cleared attachment must not be written")
	}
}

func TestFillFormMissingControlIsCreationError(t *testing.T) {
	strategy, _ := ForCategory(entity.CategoryPerson)
	record, _ := strategy.ParseRow(pagedriver.Row{"title": "Jane Doe", "href": "/people/4"})

	driver := newPageFake()
	driver.absent["#tbTitle"] = true
	err := strategy.FillForm(context.Background(), driver, record)
	if !errors.Is(err, services.ErrCreation) {
		t.Fatalf("want creation error, got %v", err)
	}
}

func TestDownloadRevertClicksControl(t *testing.T) {
	strategy, _ := ForCategory(entity.CategoryDownload)
	record, err := strategy.ParseRow(pagedriver.Row{"title": "Media Kit", "href": "/downloads/7", "type": "Press"})
	if err != nil {
		t.Fatalf("ParseRow failed: %v", err)
	}
	listing := record.(*entity.DownloadListing)
	if listing.DownloadType == nil || listing.DownloadType.Text() != "Press" {
		t.Fatalf("download type = %v", listing.DownloadType)
	}

	driver := newPageFake()
	reverter := strategy.(Reverter)
	if err := reverter.Revert(context.Background(), driver, record); err != nil {
		t.Fatalf("Revert failed: %v", err)
	}
	if driver.clicked["#btnRevertToLive"] != 1 {
		t.Fatalf("clicks = %d", driver.clicked["#btnRevertToLive"])
	}

	driver = newPageFake()
	driver.absent["#btnRevertToLive"] = true
	if err := reverter.Revert(context.Background(), driver, record); err == nil {
		t.Fatal("missing revert control should fail")
	}
}
