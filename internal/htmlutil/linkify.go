// Package htmlutil prepares user-written text for rendering: bare
// URLs become anchors and the result is sanitized.
package htmlutil

import (
	"fmt"
	"html"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("a")
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(false)
	return p
}()

// Linkify escapes the text and converts any URLs in it into anchors
// opening in a new tab. The output is safe to render as HTML.
func Linkify(text string) string {
	escaped := html.EscapeString(text)
	linked := urlPattern.ReplaceAllStringFunc(escaped, func(u string) string {
		return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`, u, u)
	})
	return policy.Sanitize(linked)
}
