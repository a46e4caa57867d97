// Package sanitize filters user-authored HTML fragments down to a fixed
// allow-list of tags and attributes.
package sanitize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// The HN API returns item text with its markup entity-escaped, so fragments
// are unescaped before filtering. Allowed tags follow the common
// user-content set plus p and pre (HN uses both for comment bodies).
var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowElements(
		"a", "abbr", "acronym", "b", "blockquote", "code",
		"em", "i", "li", "ol", "strong", "ul", "p", "pre",
	)
	p.AllowAttrs("title", "rel").OnElements("a")
	p.AllowAttrs("title").OnElements("abbr", "acronym")
	return p
}()

// HTML unescapes and sanitizes a fragment. It is a no-op on fragments it
// has already cleaned.
func HTML(fragment string) string {
	return policy.Sanitize(html.UnescapeString(fragment))
}
