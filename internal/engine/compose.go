package engine

import "strings"

// Compose turns a path into the command string. Composition starts at the
// last anchor entry (or the beginning when there is none) and joins the
// effective values in path order with single spaces. Entries without a value
// contribute nothing and no separator, so the result never carries doubled
// or trailing whitespace.
func Compose(entries []Entry) string {
	start := 0
	for i, e := range entries {
		if e.Anchor {
			start = i
		}
	}

	parts := make([]string, 0, len(entries)-start)
	for _, e := range entries[start:] {
		if e.Value != "" {
			parts = append(parts, e.Value)
		}
	}
	return strings.Join(parts, " ")
}
