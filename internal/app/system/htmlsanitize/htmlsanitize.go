// Package htmlsanitize provides HTML sanitization for rich text content.
// It uses bluemonday to strip potentially dangerous HTML while preserving
// safe formatting in seeded record bodies and wysiwyg field values.
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy is the shared bluemonday policy for sanitizing rich text.
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// Start with UGC (User Generated Content) policy as base
		policy = bluemonday.UGCPolicy()

		// Schema documents routinely embed tables in rich text
		policy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
		policy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		policy.AllowAttrs("class").OnElements("table", "th", "td", "tr")

		// Allow common text formatting
		policy.AllowElements("u", "s", "sub", "sup", "mark")

		// Allow style attribute on specific elements for tables
		policy.AllowAttrs("style").OnElements("table", "th", "td")
	})
	return policy
}

// Sanitize cleans HTML input, removing potentially dangerous elements and
// attributes. It preserves safe formatting like bold, italic, lists, links,
// and tables. Returns the sanitized HTML string.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return getPolicy().Sanitize(html)
}

// IsPlainText checks if content appears to be plain text (no HTML tags).
// Seeded content bodies may be authored as plain text in the schema document.
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	// Valid HTML tags require both characters, so if either is missing,
	// treat contents as plain text.
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PlainTextToHTML converts plain text to minimal HTML by escaping HTML
// entities, converting newlines to <br> tags, and wrapping in a <p> tag.
func PlainTextToHTML(text string) string {
	if text == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareBody takes a content body (which may be plain text or HTML
// depending on how the schema author wrote it) and returns a sanitized
// HTML string ready for storage.
func PrepareBody(content string) string {
	if content == "" {
		return ""
	}
	if IsPlainText(content) {
		return PlainTextToHTML(content)
	}
	return Sanitize(content)
}
