// Package catalog filters ordered media lists by category.
package catalog

// All is the filter value that passes every item through.
const All = "All"

// Filter returns the items whose category equals selected, preserving
// relative order. Matching is exact and case-sensitive. When selected is
// All the input slice is returned as is.
func Filter[T any](items []T, selected string, categoryOf func(T) string) []T {
	if selected == All {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if categoryOf(it) == selected {
			out = append(out, it)
		}
	}
	return out
}

// Categories returns All followed by the distinct categories of items in
// first-seen order.
func Categories[T any](items []T, categoryOf func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	out := []string{All}
	for _, it := range items {
		c := categoryOf(it)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Selected resolves a requested filter value against the available
// categories. Unknown or empty values fall back to All.
func Selected(requested string, categories []string) string {
	for _, c := range categories {
		if c == requested {
			return c
		}
	}
	return All
}
