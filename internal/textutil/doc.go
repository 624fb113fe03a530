// Package textutil provides filename and token transliteration helpers.
//
// Remote filenames on the source system routinely contain characters the
// destination system or a local filesystem rejects: diacritics, apostrophes,
// currency symbols, parenthetical suffixes, and dotted dates. The helpers
// here map those to stable, collision-resistant safe names deterministically,
// so re-running the download stage reproduces identical local paths.
package textutil
