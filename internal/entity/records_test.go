package entity_test

import (
	"encoding/json"
	"strings"
	"testing"

	"shuttle/internal/entity"
	"shuttle/internal/values"
)

func mustFileRef(t *testing.T, remote, custom string) *values.FileRef {
	t.Helper()
	ref, err := values.NewFileRef(remote, custom)
	if err != nil {
		t.Fatalf("NewFileRef(%q) failed: %v", remote, err)
	}
	return ref
}

func TestTitleLengthBound(t *testing.T) {
	core := entity.Core{}
	if err := core.SetTitle(strings.Repeat("a", 500)); err != nil {
		t.Fatalf("500-character title rejected: %v", err)
	}
	if err := core.SetTitle(strings.Repeat("a", 501)); err == nil {
		t.Fatal("expected 501-character title to fail")
	}
	if err := core.SetTitle("  "); err == nil {
		t.Fatal("expected blank title to fail")
	}
}

func TestActiveDefaultsTrueButExplicitFalseSurvives(t *testing.T) {
	release := &entity.Release{}
	if !release.IsActive() {
		t.Fatal("unset active should default to true")
	}

	release.SetActive(false)
	data, err := json.Marshal(release)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded entity.Release
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.IsActive() {
		t.Fatal("explicit false was lost in the round trip")
	}

	fresh := &entity.Release{}
	data, err = json.Marshal(fresh)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "\"active\"") {
		t.Fatalf("unset active leaked into output: %s", data)
	}
}

func TestUnsetOptionalFieldsAreOmitted(t *testing.T) {
	core, err := entity.NewCore("Minimal", "/news/minimal")
	if err != nil {
		t.Fatalf("NewCore failed: %v", err)
	}
	release := &entity.Release{Core: core}
	data, err := json.Marshal(release)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, field := range []string{"date", "time", "tags", "body", "attachments", "related_document", "override_file", "override_url", "created_href", "error_message"} {
		if strings.Contains(string(data), "\""+field+"\"") {
			t.Fatalf("unset field %q present in output: %s", field, data)
		}
	}
}

func TestReleaseRoundTripReproducesSetFields(t *testing.T) {
	core, err := entity.NewCore("Annual Results", "/news/annual-results")
	if err != nil {
		t.Fatalf("NewCore failed: %v", err)
	}
	date, err := values.NewDate(3, 14, 2026)
	if err != nil {
		t.Fatalf("NewDate failed: %v", err)
	}
	clock, err := values.NewClock(9, 30, values.MeridiemAM)
	if err != nil {
		t.Fatalf("NewClock failed: %v", err)
	}
	category, err := values.NewOption("4", "Financial News")
	if err != nil {
		t.Fatalf("NewOption failed: %v", err)
	}

	release := &entity.Release{Core: core, NewsCategory: &category}
	release.SetDate(date)
	release.SetTime(clock)
	release.AddTags("results", "annual")
	release.Body = "Full year results are available."
	release.SetActive(true)
	release.AddAttachment(mustFileRef(t, "https://cdn.example.com/results.pdf", ""))
	release.RelatedDoc = mustFileRef(t, "https://cdn.example.com/notes.pdf", "footnotes.pdf")
	if err := release.Advance(entity.StateIndex); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	data, err := json.Marshal(release)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded entity.Release
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Title != release.Title || decoded.Href != release.Href {
		t.Fatalf("identity fields differ: %+v", decoded.Core)
	}
	if decoded.Date == nil || !decoded.Date.Equal(date) {
		t.Fatalf("date did not round trip: %v", decoded.Date)
	}
	if decoded.Time == nil || !decoded.Time.Equal(clock) {
		t.Fatalf("time did not round trip: %v", decoded.Time)
	}
	if len(decoded.Tags) != 2 || decoded.Tags[0] != "results" || decoded.Tags[1] != "annual" {
		t.Fatalf("tags did not round trip: %v", decoded.Tags)
	}
	if decoded.NewsCategory == nil || !decoded.NewsCategory.Equal(category) {
		t.Fatalf("category did not round trip: %v", decoded.NewsCategory)
	}
	if len(decoded.Attachments) != 1 || !decoded.Attachments[0].Equal(release.Attachments[0]) {
		t.Fatalf("attachments did not round trip: %v", decoded.Attachments)
	}
	if !decoded.RelatedDoc.Equal(release.RelatedDoc) {
		t.Fatalf("related document did not round trip: %v", decoded.RelatedDoc)
	}
	if decoded.State != entity.StateIndex {
		t.Fatalf("state did not round trip: %s", decoded.State)
	}
}

func TestSetOverrideDistinguishesFilesFromBareURLs(t *testing.T) {
	release := &entity.Release{}
	if err := release.SetOverride("https://cdn.example.com/brochure.pdf"); err != nil {
		t.Fatalf("SetOverride(file) failed: %v", err)
	}
	if release.OverrideFile == nil || release.OverrideURL != "" {
		t.Fatalf("file override stored incorrectly: %+v", release)
	}
	if len(release.Files()) != 1 {
		t.Fatal("file override should appear in the downloadable-files view")
	}

	if err := release.SetOverride("https://partner.example.com/landing"); err != nil {
		t.Fatalf("SetOverride(url) failed: %v", err)
	}
	if release.OverrideFile != nil || release.OverrideURL == "" {
		t.Fatalf("url override stored incorrectly: %+v", release)
	}
	if len(release.Files()) != 0 {
		t.Fatal("url override must not appear in the downloadable-files view")
	}

	if err := release.SetOverride("not-a-url"); err == nil {
		t.Fatal("expected relative override to fail")
	}
}

func TestFilesViewOrder(t *testing.T) {
	release := &entity.Release{}
	if err := release.SetOverride("https://cdn.example.com/override.pdf"); err != nil {
		t.Fatalf("SetOverride failed: %v", err)
	}
	first := mustFileRef(t, "https://cdn.example.com/a.pdf", "")
	second := mustFileRef(t, "https://cdn.example.com/b.pdf", "")
	release.AddAttachment(first)
	release.AddAttachment(second)
	release.RelatedDoc = mustFileRef(t, "https://cdn.example.com/related.pdf", "")

	files := release.Files()
	if len(files) != 4 {
		t.Fatalf("len(files) = %d, want 4", len(files))
	}
	wantOrder := []string{
		"https://cdn.example.com/override.pdf",
		"https://cdn.example.com/a.pdf",
		"https://cdn.example.com/b.pdf",
		"https://cdn.example.com/related.pdf",
	}
	for i, want := range wantOrder {
		if files[i].RemotePath != want {
			t.Fatalf("files[%d] = %q, want %q", i, files[i].RemotePath, want)
		}
	}

	first.Clear()
	if got := len(release.Files()); got != 3 {
		t.Fatalf("cleared reference still in view: len = %d", got)
	}
}

func TestPresentationFilesOrder(t *testing.T) {
	pres := &entity.Presentation{
		Slides: mustFileRef(t, "https://cdn.example.com/deck.pdf", ""),
		Audio:  mustFileRef(t, "https://cdn.example.com/audio.mp3", ""),
		Video:  mustFileRef(t, "https://cdn.example.com/video.mp4", ""),
	}
	files := pres.Files()
	if len(files) != 3 {
		t.Fatalf("len(files) = %d, want 3", len(files))
	}
	if files[0] != pres.Slides || files[1] != pres.Audio || files[2] != pres.Video {
		t.Fatal("files view out of order")
	}
}

func TestEventRoundTrip(t *testing.T) {
	core, err := entity.NewCore("Capital Markets Day", "/events/cmd-2026")
	if err != nil {
		t.Fatalf("NewCore failed: %v", err)
	}
	date, err := values.NewDate(6, 2, 2026)
	if err != nil {
		t.Fatalf("NewDate failed: %v", err)
	}
	clock, err := values.NewClock(2, 0, values.MeridiemPM)
	if err != nil {
		t.Fatalf("NewClock failed: %v", err)
	}

	event := &entity.Event{Core: core, Location: "Frankfurt"}
	event.SetDate(date)
	event.SetTime(clock)
	event.AddAttachment(mustFileRef(t, "https://cdn.example.com/agenda.pdf", ""))
	event.AddSpeaker("Jo Marsh", "CFO")
	event.AddSpeaker("Ada Keller", "")

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded entity.Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Title != event.Title || decoded.Href != event.Href {
		t.Fatalf("identity fields differ: %+v", decoded.Core)
	}
	if decoded.Location != "Frankfurt" {
		t.Fatalf("location did not round trip: %q", decoded.Location)
	}
	if decoded.Date == nil || !decoded.Date.Equal(date) {
		t.Fatalf("date did not round trip: %v", decoded.Date)
	}
	if decoded.Time == nil || !decoded.Time.Equal(clock) {
		t.Fatalf("time did not round trip: %v", decoded.Time)
	}
	if len(decoded.Attachments) != 1 || !decoded.Attachments[0].Equal(event.Attachments[0]) {
		t.Fatalf("attachments did not round trip: %v", decoded.Attachments)
	}
	if len(decoded.Speakers) != 2 || decoded.Speakers[0] != event.Speakers[0] || decoded.Speakers[1] != event.Speakers[1] {
		t.Fatalf("speakers did not round trip: %v", decoded.Speakers)
	}
}

func TestPresentationRoundTrip(t *testing.T) {
	core, err := entity.NewCore("Q1 Investor Call", "/presentations/q1-call")
	if err != nil {
		t.Fatalf("NewCore failed: %v", err)
	}
	pres := &entity.Presentation{
		Core:   core,
		Slides: mustFileRef(t, "https://cdn.example.com/deck.pdf", ""),
		Audio:  mustFileRef(t, "https://cdn.example.com/call.mp3", ""),
		Video:  mustFileRef(t, "https://cdn.example.com/call.mp4", ""),
	}
	pres.AddSpeaker("Sam Osei", "CEO")

	data, err := json.Marshal(pres)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded entity.Presentation
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Title != pres.Title || decoded.Href != pres.Href {
		t.Fatalf("identity fields differ: %+v", decoded.Core)
	}
	if !decoded.Slides.Equal(pres.Slides) || !decoded.Audio.Equal(pres.Audio) || !decoded.Video.Equal(pres.Video) {
		t.Fatalf("media slots did not round trip: %+v", decoded)
	}
	if len(decoded.Speakers) != 1 || decoded.Speakers[0] != pres.Speakers[0] {
		t.Fatalf("speakers did not round trip: %v", decoded.Speakers)
	}
	if len(decoded.Files()) != 3 {
		t.Fatalf("files view = %d entries, want 3", len(decoded.Files()))
	}
}

func TestPersonRoundTrip(t *testing.T) {
	core, err := entity.NewCore("Dana Iveson", "/people/dana-iveson")
	if err != nil {
		t.Fatalf("NewCore failed: %v", err)
	}
	department, err := values.NewOption("3", "Finance")
	if err != nil {
		t.Fatalf("NewOption failed: %v", err)
	}
	person := &entity.Person{
		Core:       core,
		JobTitle:   "Head of Treasury",
		Department: &department,
		Photo:      mustFileRef(t, "https://cdn.example.com/dana.jpg", ""),
		Email:      "dana@example.com",
	}
	person.Body = "Dana joined the group in 2014."

	data, err := json.Marshal(person)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded entity.Person
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Title != person.Title || decoded.Href != person.Href {
		t.Fatalf("identity fields differ: %+v", decoded.Core)
	}
	if decoded.JobTitle != person.JobTitle || decoded.Email != person.Email {
		t.Fatalf("profile fields did not round trip: %+v", decoded)
	}
	if decoded.Department == nil || !decoded.Department.Equal(department) {
		t.Fatalf("department did not round trip: %v", decoded.Department)
	}
	if !decoded.Photo.Equal(person.Photo) {
		t.Fatalf("photo did not round trip: %v", decoded.Photo)
	}
	if decoded.Body != person.Body {
		t.Fatalf("biography did not round trip: %q", decoded.Body)
	}
	if len(decoded.Files()) != 1 {
		t.Fatalf("files view = %d entries, want 1", len(decoded.Files()))
	}
}

func TestDownloadListingRoundTrip(t *testing.T) {
	dtype, err := values.NewOption("7", "Investor Kit")
	if err != nil {
		t.Fatalf("NewOption failed: %v", err)
	}
	listing := &entity.DownloadListing{DownloadType: &dtype}
	listing.AddItem(mustFileRef(t, "https://cdn.example.com/kit.zip", ""))
	listing.RelatedFile = mustFileRef(t, "https://cdn.example.com/readme.txt", "")

	data, err := json.Marshal(listing)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded entity.DownloadListing
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.DownloadType == nil || !decoded.DownloadType.Equal(dtype) {
		t.Fatalf("download type did not round trip: %v", decoded.DownloadType)
	}
	if got := decoded.TypeToken(); got != "Investor Kit" {
		t.Fatalf("TypeToken() = %q", got)
	}
	if len(decoded.Files()) != 2 {
		t.Fatalf("files view = %d entries", len(decoded.Files()))
	}
}

func TestCategoryNewReturnsMatchingTypes(t *testing.T) {
	for _, cat := range entity.AllCategories() {
		rec := cat.New()
		if rec == nil {
			t.Fatalf("Category(%s).New() returned nil", cat)
		}
		if rec.Category() != cat {
			t.Fatalf("record category = %s, want %s", rec.Category(), cat)
		}
	}
	if _, ok := entity.ParseCategory("people"); ok {
		t.Fatal("plural slug should not parse as a category")
	}
	if cat, ok := entity.ParseCategory("Person"); !ok || cat != entity.CategoryPerson {
		t.Fatalf("ParseCategory = %q, %v", cat, ok)
	}
}
