package locator

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"m3u8cmd/dom"
	"m3u8cmd/internal/logger"
	"m3u8cmd/models"
)

// DefaultMinTokenLength is the shortest page-address token considered a
// media id.
const DefaultMinTokenLength = 8

// Provider describes a third-party player whose playlist address can be
// derived from a media id. Template must contain "{id}".
type Provider struct {
	Name     string `yaml:"name" validate:"required"`
	Fragment string `yaml:"fragment" validate:"required"`
	Template string `yaml:"template" validate:"required,contains={id}"`
}

// DefaultProviders returns the built-in provider table.
func DefaultProviders() []Provider {
	return []Provider{
		{Name: "wistia", Fragment: "wistia", Template: "https://fast.wistia.com/embed/medias/{id}.m3u8"},
		{Name: "jwplayer", Fragment: "jwplayer", Template: "https://cdn.jwplayer.com/manifests/{id}.m3u8"},
	}
}

type synthesizer struct {
	providers []Provider
	token     *regexp.Regexp
}

func newSynthesizer(providers []Provider, minLen int) *synthesizer {
	if minLen <= 0 {
		minLen = DefaultMinTokenLength
	}
	return &synthesizer{
		providers: providers,
		token:     regexp.MustCompile(fmt.Sprintf(`[A-Za-z0-9]{%d,}`, minLen)),
	}
}

// Synthesize guesses a playlist URL when the document looks like it embeds a
// known player but no strategy found a real reference. The id is taken from
// pageURL. The candidate is marked as a guess and must not be presented as a
// confirmed match.
func (l *Locator) Synthesize(doc *dom.Document, pageURL *url.URL) (*models.MediaCandidate, bool) {
	if !l.opts.Synthesize || pageURL == nil {
		return nil, false
	}

	provider, evidence := l.synth.evidence(doc)
	if provider == nil {
		log.Emit(logger.DEBUG, "No video evidence, skipping URL synthesis\n")
		return nil, false
	}

	token := l.synth.tokenFrom(pageURL)
	if token == "" {
		log.Emit(logger.DEBUG, "Video evidence (%s) but no usable id in %s\n", evidence, pageURL)
		return nil, false
	}

	guess := strings.ReplaceAll(provider.Template, "{id}", token)
	c, err := models.NewMediaCandidate(guess, StrategySynthesized, 0)
	if err != nil {
		log.Emit(logger.WARNING, "Provider %s template produced an invalid URL: %v\n", provider.Name, err)
		return nil, false
	}
	c.Guess = true

	log.Emit(logger.WARNING, "Synthesized %s from %s (evidence: %s); this is a guess\n", c.URL, provider.Name, evidence)
	if l.opts.OnHit != nil {
		l.opts.OnHit(StrategySynthesized)
	}
	return c, true
}

// evidence returns the provider whose embed frame appears in doc, or the
// first provider when only bare <video> elements are present.
func (s *synthesizer) evidence(doc *dom.Document) (*Provider, string) {
	for i := range s.providers {
		p := &s.providers[i]
		if p.Fragment == "" {
			continue
		}
		sel := fmt.Sprintf(`iframe[src*=%q], frame[src*=%q]`, p.Fragment, p.Fragment)
		if doc.Find(sel).Length() > 0 {
			return p, p.Name + " frame"
		}
	}
	if len(s.providers) > 0 && doc.Find("video").Length() > 0 {
		return &s.providers[0], "video element"
	}
	return nil, ""
}

// tokenFrom picks a media id from the page address. Path segments are tried
// last to first, then query values; tokens mixing letters and digits are
// preferred over plain words.
func (s *synthesizer) tokenFrom(pageURL *url.URL) string {
	var sources []string
	segments := strings.Split(strings.Trim(pageURL.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		sources = append(sources, segments[i])
	}

	query := pageURL.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sources = append(sources, query[k]...)
	}

	var fallback string
	for _, src := range sources {
		for _, tok := range s.token.FindAllString(src, -1) {
			if hasLetterAndDigit(tok) {
				return tok
			}
			if fallback == "" {
				fallback = tok
			}
		}
	}
	return fallback
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letter = true
		}
	}
	return letter && digit
}
