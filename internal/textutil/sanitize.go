package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe
// alternatives. Apostrophes vanish, currency symbols become words, path and
// shell metacharacters become dashes or disappear.
var fileNameReplacer = strings.NewReplacer(
	"'", "",
	"’", "",
	"`", "",
	"$", "usd",
	"€", "eur",
	"£", "gbp",
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"&", "and",
	"#", "",
	"%", "",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	",", "",
)

var (
	// dottedDate matches dates whose components are separated by dots or
	// slashes, e.g. 03.14.2026 or 3/14/26.
	dottedDate = regexp.MustCompile(`(\d{1,2})[./](\d{1,2})[./](\d{2,4})`)
	// parenthetical matches a parenthesized suffix such as "(final)".
	parenthetical = regexp.MustCompile(`\(([^)]*)\)`)
	whitespace    = regexp.MustCompile(`\s+`)
	dashRuns      = regexp.MustCompile(`-{2,}`)
)

// stripMarks removes combining marks after canonical decomposition, turning
// "résumé" into "resume".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeFilename transliterates a remote filename into a stable local
// name: diacritics stripped, date separators normalized to dashes,
// parenthetical suffixes flattened, apostrophes and currency symbols
// replaced, remaining unsafe characters removed, whitespace collapsed to
// single dashes. The mapping is deterministic so repeated runs resolve to
// the same local path.
func NormalizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if stripped, _, err := transform.String(stripMarks, name); err == nil {
		name = stripped
	}
	name = dottedDate.ReplaceAllString(name, "$1-$2-$3")
	name = parenthetical.ReplaceAllString(name, "-$1")
	name = fileNameReplacer.Replace(name)
	name = whitespace.ReplaceAllString(name, "-")
	name = dashRuns.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	return name
}

// SanitizeToken converts a string to a lowercase filesystem-safe token for
// directory segments. Letters are lowercased, digits and hyphens/underscores
// are kept, everything else becomes an underscore. Returns "unknown" for
// empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
