// Package htmlsanitize strips markup from visitor and editor text before it
// is forwarded to the API or echoed into a page.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce sync.Once
	strict     *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// PlainText removes every tag (and the contents of script and style
// elements) and returns the remaining text unescaped and trimmed. Line
// breaks are kept.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(html.UnescapeString(policy().Sanitize(s)))
}
