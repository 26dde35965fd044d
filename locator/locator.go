// Package locator finds HLS playlist URLs inside a single document.
//
// A Locator applies a fixed, ordered list of strategies and returns the first
// URL any of them accepts:
//
//	structured-data    JSON-LD blocks with a contentUrl/embedUrl
//	declarative-media  <video><source type="application/x-mpegURL">
//	inline-script      URL-shaped patterns inside script text (optional)
//	metadata-attribute content/src/data-src attributes
//
// Every strategy is read-only. Probe matches the frames.Probe signature so a
// Locator can drive a frame search directly. Synthesize is a separate,
// best-effort fallback that guesses a provider URL from the page address; its
// result is always flagged as a guess.
package locator

import (
	"iter"
	"slices"
	"strings"

	"m3u8cmd/dom"
	"m3u8cmd/internal/logger"
	"m3u8cmd/models"
)

var log = logger.Get("Locator")

// Strategy names, in priority order.
const (
	StrategyStructuredData    = "structured-data"
	StrategyDeclarativeMedia  = "declarative-media"
	StrategyInlineScript      = "inline-script"
	StrategyMetadataAttribute = "metadata-attribute"
	StrategySynthesized       = "synthesized"
)

// Strategy yields raw playlist references found in a document, best first.
type Strategy struct {
	Name string
	Hits func(doc *dom.Document) iter.Seq[string]

	// FilterDecoys drops hits listed in Options.Decoys or that look like
	// template placeholders.
	FilterDecoys bool
}

// Options configures a Locator.
type Options struct {
	// ScriptPatterns enables the inline-script strategy.
	ScriptPatterns bool
	// Synthesize enables the provider URL guess in Synthesize.
	Synthesize bool
	// Decoys are exact URLs that scripts commonly carry but never play.
	Decoys []string
	// Providers drive URL synthesis; the first one is used when only bare
	// <video> elements are present.
	Providers []Provider
	// MinTokenLength is the shortest page-address token used for synthesis.
	MinTokenLength int
	// OnHit is called with the strategy name whenever a candidate is accepted.
	OnHit func(strategy string)
}

// DefaultDecoys are sample URLs shipped in player demo configs.
func DefaultDecoys() []string {
	return []string{
		"https://example.com/video.m3u8",
		"https://example.com/playlist.m3u8",
		"https://test-streams.mux.dev/x36xhzz/x36xhzz.m3u8",
	}
}

// DefaultOptions enables every strategy with the built-in decoys and providers.
func DefaultOptions() Options {
	return Options{
		ScriptPatterns: true,
		Synthesize:     true,
		Decoys:         DefaultDecoys(),
		Providers:      DefaultProviders(),
		MinTokenLength: DefaultMinTokenLength,
	}
}

// Locator runs the strategy cascade.
type Locator struct {
	opts       Options
	strategies []Strategy
	decoys     []string
	synth      *synthesizer
}

// New creates a Locator with the strategies enabled by opts.
func New(opts Options) *Locator {
	strategies := []Strategy{
		{Name: StrategyStructuredData, Hits: structuredDataHits},
		{Name: StrategyDeclarativeMedia, Hits: declarativeMediaHits},
	}
	if opts.ScriptPatterns {
		strategies = append(strategies, Strategy{Name: StrategyInlineScript, Hits: inlineScriptHits, FilterDecoys: true})
	}
	strategies = append(strategies, Strategy{Name: StrategyMetadataAttribute, Hits: metadataAttributeHits})

	decoys := make([]string, 0, len(opts.Decoys))
	for _, d := range opts.Decoys {
		decoys = append(decoys, models.NormalizePlaylistURL(d))
	}

	return &Locator{
		opts:       opts,
		strategies: strategies,
		decoys:     decoys,
		synth:      newSynthesizer(opts.Providers, opts.MinTokenLength),
	}
}

// Strategies returns the enabled strategy names in evaluation order.
func (l *Locator) Strategies() []string {
	names := make([]string, 0, len(l.strategies))
	for _, s := range l.strategies {
		names = append(names, s.Name)
	}
	return names
}

// Probe runs the strategies against doc and returns the first accepted
// candidate. depth is recorded on the candidate.
func (l *Locator) Probe(doc *dom.Document, depth int) (*models.MediaCandidate, bool) {
	for _, s := range l.strategies {
		for raw := range s.Hits(doc) {
			c, ok := l.accept(doc, raw, s, depth)
			if !ok {
				continue
			}
			log.Emit(logger.DEBUG, "Level %d - %s accepted %s\n", depth, s.Name, c.URL)
			if l.opts.OnHit != nil {
				l.opts.OnHit(s.Name)
			}
			return c, true
		}
		log.Emit(logger.VERBOSE, "Level %d - %s found nothing\n", depth, s.Name)
	}
	return nil, false
}

func (l *Locator) accept(doc *dom.Document, raw string, s Strategy, depth int) (*models.MediaCandidate, bool) {
	cleaned := models.NormalizePlaylistURL(raw)
	if !models.ContainsPlaylistMarker(cleaned) {
		return nil, false
	}
	resolved := models.NormalizePlaylistURL(doc.Resolve(cleaned))
	if s.FilterDecoys && l.isDecoy(cleaned, resolved) {
		log.Emit(logger.DEBUG, "Level %d - %s skipped decoy %s\n", depth, s.Name, resolved)
		return nil, false
	}

	c, err := models.NewMediaCandidate(resolved, s.Name, depth)
	if err != nil {
		log.Emit(logger.VERBOSE, "Level %d - %s rejected %q: %v\n", depth, s.Name, raw, err)
		return nil, false
	}
	return c, true
}

func (l *Locator) isDecoy(values ...string) bool {
	for _, v := range values {
		if strings.ContainsAny(v, "{}") {
			return true
		}
		if slices.Contains(l.decoys, v) {
			return true
		}
	}
	return false
}
