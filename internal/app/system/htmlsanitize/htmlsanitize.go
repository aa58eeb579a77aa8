// Package htmlsanitize cleans visitor- and admin-entered text.
//
// Contact messages and media descriptions are plain text. Markup is stripped
// with a bluemonday strict policy before storage, and line breaks are turned
// into <br> only when rendering.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strict removes every element and attribute.
	strict     *bluemonday.Policy
	strictOnce sync.Once
)

func getStrict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// StripTags removes all markup from s and returns plain text, trimmed.
// Entities are decoded so "Tom & Jerry" is stored as typed. Content of
// script and style elements is dropped entirely.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(getStrict().Sanitize(s)))
}

// IsPlainText checks if content appears to be plain text (no HTML tags).
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PlainTextToHTML escapes text and converts newlines to <br>, wrapped in <p>.
func PlainTextToHTML(text string) string {
	if text == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay renders stored text as HTML. Any markup that slipped in
// before sanitizing existed is stripped first.
func PrepareForDisplay(content string) template.HTML {
	if content == "" {
		return ""
	}
	if !IsPlainText(content) {
		content = StripTags(content)
	}
	return template.HTML(PlainTextToHTML(content))
}
