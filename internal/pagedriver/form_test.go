package pagedriver_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shuttle/internal/pagedriver"
	"shuttle/internal/services"
)

func blankFormSpec() pagedriver.FormSpec {
	return pagedriver.FormSpec{
		NewSelector: "#create-new",
		KeyFields:   []string{"#title", "#href"},
	}
}

func TestCreateNewAndAwaitEmptyFormHappyPath(t *testing.T) {
	driver := newFakeDriver()
	driver.sizes = []int{50}
	driver.fields["#title"] = []string{""}
	driver.fields["#href"] = []string{""}

	err := pagedriver.CreateNewAndAwaitEmptyForm(context.Background(), driver, blankFormSpec(), 10, quickPolicy())
	if err != nil {
		t.Fatalf("CreateNewAndAwaitEmptyForm failed: %v", err)
	}
	if driver.clicks["#create-new"] != 1 {
		t.Fatalf("clicks = %d, want 1", driver.clicks["#create-new"])
	}
}

func TestCreateNewAndAwaitEmptyFormRetriesUntilBlank(t *testing.T) {
	driver := newFakeDriver()
	driver.sizes = []int{50}
	// The title still shows stale content for two rounds.
	driver.fields["#title"] = []string{"old record", "old record", ""}
	driver.fields["#href"] = []string{""}

	err := pagedriver.CreateNewAndAwaitEmptyForm(context.Background(), driver, blankFormSpec(), 10, quickPolicy())
	if err != nil {
		t.Fatalf("CreateNewAndAwaitEmptyForm failed: %v", err)
	}
	if driver.clicks["#create-new"] != 3 {
		t.Fatalf("clicks = %d, want 3", driver.clicks["#create-new"])
	}
}

func TestCreateNewAndAwaitEmptyFormBoundedAttempts(t *testing.T) {
	driver := newFakeDriver()
	driver.sizes = []int{50}
	// The form never reads back empty.
	driver.fields["#title"] = []string{"stuck"}
	driver.fields["#href"] = []string{""}

	err := pagedriver.CreateNewAndAwaitEmptyForm(context.Background(), driver, blankFormSpec(), 4, quickPolicy())
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("want timeout error, got %v", err)
	}
	if driver.clicks["#create-new"] != 4 {
		t.Fatalf("clicks = %d, want exactly the attempt bound 4", driver.clicks["#create-new"])
	}
}

func TestCreateNewAndAwaitEmptyFormMissingControl(t *testing.T) {
	driver := newFakeDriver()
	driver.clickFound = false

	err := pagedriver.CreateNewAndAwaitEmptyForm(context.Background(), driver, blankFormSpec(), 4, quickPolicy())
	if !errors.Is(err, services.ErrNavigation) {
		t.Fatalf("want navigation error, got %v", err)
	}
}

func TestSubmitAndVerifySuccessBanner(t *testing.T) {
	driver := newFakeDriver()
	driver.sizes = []int{80}
	driver.banner = pagedriver.Banner{Kind: pagedriver.BannerSuccess, Href: "/news/created-42"}

	href, err := pagedriver.SubmitAndVerify(context.Background(), driver, quickPolicy())
	if err != nil {
		t.Fatalf("SubmitAndVerify failed: %v", err)
	}
	if href != "/news/created-42" {
		t.Fatalf("href = %q", href)
	}
	if driver.submitted != 1 {
		t.Fatalf("submitted = %d, want 1", driver.submitted)
	}
}

func TestSubmitAndVerifyErrorBannerKeepsMessage(t *testing.T) {
	driver := newFakeDriver()
	driver.sizes = []int{80}
	driver.banner = pagedriver.Banner{Kind: pagedriver.BannerError, Message: "Title is required."}

	_, err := pagedriver.SubmitAndVerify(context.Background(), driver, quickPolicy())
	if !errors.Is(err, services.ErrCreation) {
		t.Fatalf("want creation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Title is required.") {
		t.Fatalf("banner message lost: %v", err)
	}
}

func TestSubmitAndVerifyMissingBanner(t *testing.T) {
	driver := newFakeDriver()
	driver.sizes = []int{80}

	_, err := pagedriver.SubmitAndVerify(context.Background(), driver, quickPolicy())
	if !errors.Is(err, services.ErrNavigation) {
		t.Fatalf("want navigation error, got %v", err)
	}
}
