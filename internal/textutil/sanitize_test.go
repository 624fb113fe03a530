package textutil_test

import (
	"testing"

	"shuttle/internal/textutil"
)

func TestNormalizeFilename(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"dotted date", "report 03.14.2026.pdf", "report-03-14-2026.pdf"},
		{"slashed date", "minutes 3/14/26.doc", "minutes-3-14-26.doc"},
		{"parenthetical", "results (final).pdf", "results-final.pdf"},
		{"apostrophe", "shareholder's letter.pdf", "shareholders-letter.pdf"},
		{"curly apostrophe", "year’s end.pdf", "years-end.pdf"},
		{"currency", "$5 coupon.pdf", "usd5-coupon.pdf"},
		{"euro", "€-pricing.xlsx", "eur-pricing.xlsx"},
		{"diacritics", "résumé.pdf", "resume.pdf"},
		{"ampersand", "terms & conditions.pdf", "terms-and-conditions.pdf"},
		{"unsafe runs", "a  b *: c.pdf", "a-b-c.pdf"},
		{"already clean", "plain-name.pdf", "plain-name.pdf"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textutil.NormalizeFilename(tc.in); got != tc.want {
				t.Fatalf("NormalizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeFilenameIsDeterministic(t *testing.T) {
	in := "Opération (v2) 01.02.2026 $final.pdf"
	first := textutil.NormalizeFilename(in)
	second := textutil.NormalizeFilename(in)
	if first != second {
		t.Fatalf("normalization not deterministic: %q vs %q", first, second)
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Investor Kit", "investor_kit"},
		{"Q1/Q2 2026", "q1_q2_2026"},
		{"", "unknown"},
		{"***", "unknown"},
		{"already-safe_token", "already-safe_token"},
	}
	for _, tc := range cases {
		if got := textutil.SanitizeToken(tc.in); got != tc.want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
