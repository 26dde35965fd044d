package locator

import (
	"iter"

	"github.com/PuerkitoBio/goquery"

	"m3u8cmd/dom"
)

// attributeProbes are checked in order; each names the attribute to read.
var attributeProbes = []struct {
	selector string
	attr     string
}{
	{`[content*=".m3u8"]`, "content"},
	{`[src*=".m3u8"]`, "src"},
	{`[data-src*=".m3u8"]`, "data-src"},
}

// metadataAttributeHits yields attribute values that mention a playlist,
// such as <meta property="og:video" content="...m3u8">.
func metadataAttributeHits(doc *dom.Document) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, probe := range attributeProbes {
			stopped := false
			doc.Find(probe.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if !yield(s.AttrOr(probe.attr, "")) {
					stopped = true
				}
				return !stopped
			})
			if stopped {
				return
			}
		}
	}
}
