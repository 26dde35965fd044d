package locator

import (
	"encoding/json"
	"iter"

	"github.com/PuerkitoBio/goquery"
	"github.com/mitchellh/mapstructure"

	"m3u8cmd/dom"
	"m3u8cmd/internal/logger"
	"m3u8cmd/models"
)

const jsonLDSelector = `script[type="application/ld+json"]`

// ldRecord is the subset of a schema.org record that can carry a media URL.
type ldRecord struct {
	Type       any    `mapstructure:"@type"`
	ContentURL string `mapstructure:"contentUrl"`
	EmbedURL   string `mapstructure:"embedUrl"`
	Graph      []any  `mapstructure:"@graph"`
	Video      any    `mapstructure:"video"`
	HasPart    any    `mapstructure:"hasPart"`
}

// structuredDataHits yields contentUrl/embedUrl values from JSON-LD blocks.
// Blocks that fail to parse are skipped.
func structuredDataHits(doc *dom.Document) iter.Seq[string] {
	return func(yield func(string) bool) {
		scripts := doc.Find(jsonLDSelector)
		log.Emit(logger.VERBOSE, "Found %d JSON-LD script(s)\n", scripts.Length())

		scripts.EachWithBreak(func(i int, s *goquery.Selection) bool {
			var data any
			if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
				log.Emit(logger.DEBUG, "Error parsing JSON-LD block %d: %v\n", i, err)
				return true
			}
			return walkLD(data, yield)
		})
	}
}

// walkLD visits records depth-first; it returns false once yield asks to stop.
func walkLD(v any, yield func(string) bool) bool {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if !walkLD(item, yield) {
				return false
			}
		}
	case map[string]any:
		var rec ldRecord
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &rec,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return true
		}
		if err := decoder.Decode(t); err != nil {
			log.Emit(logger.DEBUG, "Skipping JSON-LD record: %v\n", err)
			return true
		}

		for _, u := range []string{rec.ContentURL, rec.EmbedURL} {
			if models.ContainsPlaylistMarker(u) && !yield(u) {
				return false
			}
		}
		for _, nested := range []any{rec.Graph, rec.Video, rec.HasPart} {
			if nested != nil && !walkLD(nested, yield) {
				return false
			}
		}
	}
	return true
}
