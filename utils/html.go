package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML projects an HTML fragment (series captions, search snippets) to
// plain text. Malformed markup degrades to the raw input.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<>") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	doc.Find("br").Each(func(i int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	return strings.TrimSpace(doc.Text())
}
