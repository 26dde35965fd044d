package locator

import (
	"iter"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"m3u8cmd/dom"
	"m3u8cmd/internal/logger"
)

// scriptPattern is one family of URL shapes searched for in script text.
// group selects the submatch holding the URL (0 for the whole match).
type scriptPattern struct {
	name  string
	re    *regexp.Regexp
	group int
}

// scriptPatterns are tried in order; within a family, matches are taken in
// order of appearance.
var scriptPatterns = []scriptPattern{
	{
		name: "bare-url",
		re:   regexp.MustCompile(`https?://[^\s"'<>\\]+?\.m3u8[^\s"'<>\\]*`),
	},
	{
		name: "vendor-embed",
		re: regexp.MustCompile(`(?i)(?:https?:)?//(?:` +
			`fast\.wistia\.(?:com|net)/embed/medias/[a-z0-9]+\.m3u8` +
			`|manifest\.prod\.boltdns\.net/manifest/[^\s"'<>\\]+?\.m3u8` +
			`|cdnapisec\.kaltura\.com/p/\d+/[^\s"'<>\\]+?\.m3u8` +
			`|cdn\.jwplayer\.com/manifests/[a-z0-9]+\.m3u8` +
			`|[a-z0-9.-]*vimeocdn\.com/[^\s"'<>\\]+?\.m3u8` +
			`)[^\s"'<>\\]*`),
	},
	{
		name:  "quoted",
		re:    regexp.MustCompile(`["']([^"'\s<>]+?\.m3u8[^"'\s<>]*)["']`),
		group: 1,
	},
}

// jsonEscapes undoes the slash escaping JSON encoders apply inside scripts.
var jsonEscapes = strings.NewReplacer(`\/`, "/", `\u002F`, "/", `\u002f`, "/")

// inlineScriptHits yields URL-shaped matches from inline script text,
// pattern family by pattern family.
func inlineScriptHits(doc *dom.Document) iter.Seq[string] {
	return func(yield func(string) bool) {
		var texts []string
		doc.Find("script").Each(func(_ int, s *goquery.Selection) {
			if _, external := s.Attr("src"); external {
				return
			}
			if text := s.Text(); strings.Contains(text, "m3u8") {
				texts = append(texts, jsonEscapes.Replace(text))
			}
		})
		log.Emit(logger.VERBOSE, "Found %d inline script(s) mentioning m3u8\n", len(texts))

		for _, p := range scriptPatterns {
			for _, text := range texts {
				for _, m := range p.re.FindAllStringSubmatch(text, -1) {
					if !yield(m[p.group]) {
						return
					}
				}
			}
		}
	}
}
