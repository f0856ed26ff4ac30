package store

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks after canonical decomposition, so
// "Ngolé" and "Ngole" fold to the same bytes.
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// foldSearch lowercases and removes diacritics for the search columns. When
// the transform fails on malformed input the lowercased original is used;
// search then simply degrades to exact-accent matching for that row.
func foldSearch(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	folded, _, err := transform.String(foldTransformer, lowered)
	if err != nil {
		return lowered
	}
	return folded
}

// searchText builds the folded haystack column for a recording.
func searchText(rec Recording) string {
	parts := []string{rec.Title, rec.Theme, rec.TranscriptionOriginal, rec.TranscriptionEnglish}
	kept := parts[:0]
	for _, p := range parts {
		if folded := foldSearch(p); folded != "" {
			kept = append(kept, folded)
		}
	}
	return strings.Join(kept, "\n")
}

// likePattern converts a folded query into a LIKE pattern with escaped
// metacharacters.
func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(foldSearch(query))
	return "%" + escaped + "%"
}
