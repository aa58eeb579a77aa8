// Package normalize provides helper functions for consistent string normalization
// across the application. Use these helpers instead of scattered strings.ToLower
// and strings.TrimSpace calls to ensure consistent behavior.
package normalize

import "strings"

// Email normalizes an email address by trimming whitespace and converting to lowercase.
// This is the canonical way to normalize emails before storage or comparison.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name normalizes a name by trimming whitespace.
// Use text.Fold() for case-insensitive comparison keys.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// ProjectType normalizes a contact project type by trimming whitespace and
// converting to lowercase.
func ProjectType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Category normalizes a media category by trimming whitespace.
// Categories are case-sensitive, so case is preserved.
func Category(s string) string {
	return strings.TrimSpace(s)
}

// SortOrder normalizes a sort query value to "asc" or "desc".
// Anything other than "asc" (case-insensitive) means "desc".
func SortOrder(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return "asc"
	}
	return "desc"
}

// Status normalizes a status value by trimming whitespace and converting to lowercase.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role normalizes a role value by trimming whitespace and converting to lowercase.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam normalizes a query parameter by trimming whitespace.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
