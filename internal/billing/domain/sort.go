package domain

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortSpanish orders strings the way a Spanish-speaking reviewer expects:
// accent-insensitive, with embedded numbers compared by value.
func SortSpanish(values []string) {
	collator := collate.New(language.Spanish, collate.Loose, collate.Numeric)
	sort.SliceStable(values, func(i, j int) bool {
		return collator.CompareString(values[i], values[j]) < 0
	})
}
