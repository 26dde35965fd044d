package locator

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"m3u8cmd/dom"
	"m3u8cmd/models"
)

// playlistMIMETypes are the <source type> values that announce HLS.
var playlistMIMETypes = map[string]bool{
	"application/x-mpegurl":         true,
	"application/vnd.apple.mpegurl": true,
	"audio/mpegurl":                 true,
	"audio/x-mpegurl":               true,
}

// IsPlaylistMIME reports whether a type attribute names an HLS playlist.
// Parameters such as "; codecs=..." are ignored.
func IsPlaylistMIME(t string) bool {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return playlistMIMETypes[strings.ToLower(strings.TrimSpace(t))]
}

// declarativeMediaHits yields playlist sources of <video> elements: typed
// <source> children first, then the element's own src.
func declarativeMediaHits(doc *dom.Document) iter.Seq[string] {
	return func(yield func(string) bool) {
		doc.Find("video").EachWithBreak(func(_ int, video *goquery.Selection) bool {
			keepGoing := true
			video.Find("source[type]").EachWithBreak(func(_ int, source *goquery.Selection) bool {
				src := source.AttrOr("src", "")
				if !IsPlaylistMIME(source.AttrOr("type", "")) || !models.ContainsPlaylistMarker(src) {
					return true
				}
				keepGoing = yield(src)
				return keepGoing
			})
			if !keepGoing {
				return false
			}
			if src := video.AttrOr("src", ""); models.ContainsPlaylistMarker(src) {
				return yield(src)
			}
			return true
		})
	}
}
