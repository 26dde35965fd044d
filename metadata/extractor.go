// Package metadata recovers the naming data of a page: main title, subtitle
// and page index.
//
// Course players render titles as SVG text and announce pagination through
// accessibility attributes, so each value is read through an ordered cascade
// of selectors. The first element with usable text wins.
package metadata

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"m3u8cmd/dom"
	"m3u8cmd/internal/logger"
	"m3u8cmd/models"
)

var log = logger.Get("Metadata")

// Page fallback modes used when the page has no pagination markup.
const (
	FallbackRandom = "random"
	FallbackFixed  = "fixed"
)

// MaxRandomPage is the upper bound (inclusive) of a random page index.
const MaxRandomPage = 10

// SimilarityThreshold is the minimum Levenshtein similarity between the main
// title and the start of an accessibility label for the two to be treated as
// the same text.
const SimilarityThreshold = 0.85

var (
	// TitleSelectors locate the main title.
	TitleSelectors = []string{
		`svg g g g g text[font-size="24px"]`,
		`svg text[font-size="24px"]`,
		`text[font-size="24"]`,
	}

	// SubTitleSelectors locate the subtitle.
	SubTitleSelectors = []string{
		`svg g g g g text[font-size="19px"]`,
		`svg text[font-size="19px"]`,
		`text[font-size="19"]`,
	}

	// PageSelectors locate the pagination label.
	PageSelectors = []string{
		`div[data-acc-text*="Page"][data-acc-text*="of"]`,
		`div.slide-object[data-acc-text*="Page"]`,
		`div[data-display-name="SlideObject"][data-acc-text*="Page"]`,
		`span[data-original-size="16px"]`,
		`p span`,
		`span`,
	}
)

var (
	pagePattern    = regexp.MustCompile(`Page[\s\x{A0}]+(\d+)[\s\x{A0}]+of`)
	sectionPattern = regexp.MustCompile(`^(.*?)[\s\-:|]*\b((?:Module|Lesson|Chapter|Part|Unit)\s+[0-9A-Za-z]+\s*:.*|(?:Introduction|Overview|Summary)\b.*)$`)
)

// Options configures an Extractor.
type Options struct {
	// DefaultTitle replaces a missing main title.
	DefaultTitle string
	// Reconcile recovers a missing subtitle from accessibility labels.
	Reconcile bool
	// PageFallback is FallbackRandom or FallbackFixed.
	PageFallback string
	// IntN returns a value in [0, n). Defaults to math/rand/v2.IntN.
	IntN func(n int) int
}

// Extractor reads TitleInfo from a top-level document.
type Extractor struct {
	opts   Options
	metric *metrics.Levenshtein
}

// New creates an Extractor. Empty options fall back to the "Video" title and
// a random page index.
func New(opts Options) *Extractor {
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = models.DefaultMainTitle
	}
	if opts.PageFallback == "" {
		opts.PageFallback = FallbackRandom
	}
	if opts.IntN == nil {
		opts.IntN = rand.IntN
	}

	metric := metrics.NewLevenshtein()
	metric.CaseSensitive = false

	return &Extractor{opts: opts, metric: metric}
}

// Extract runs every cascade against doc. The result always validates: the
// title is never empty and the page index is always numeric.
func (e *Extractor) Extract(doc *dom.Document) *models.TitleInfo {
	info := &models.TitleInfo{
		MainTitle: e.opts.DefaultTitle,
	}

	titleFound := false
	if title, ok := firstText(doc, TitleSelectors); ok {
		info.MainTitle = title
		titleFound = true
		log.Emit(logger.DEBUG, "Found main title: %s\n", title)
	}

	if sub, ok := firstText(doc, SubTitleSelectors); ok {
		info.SubTitle = sub
		log.Emit(logger.DEBUG, "Found subtitle: %s\n", sub)
	} else if e.opts.Reconcile {
		if main, sub, ok := e.reconcile(doc, info.MainTitle, titleFound); ok {
			info.MainTitle = main
			info.SubTitle = sub
			log.Emit(logger.DEBUG, "Reconciled subtitle from accessibility text: %s\n", sub)
		}
	}

	if index, ok := PageIndex(doc); ok {
		info.PageIndex = index
		log.Emit(logger.DEBUG, "Extracted page number: %s\n", index)
	} else {
		info.PageIndex = e.fallbackPage()
		info.PageSynthesized = true
		log.Emit(logger.INFO, "No page found, using %s page %s\n", e.opts.PageFallback, info.PageIndex)
	}

	return info
}

// PageIndex returns the first "Page N of" number found through PageSelectors.
// An element's data-acc-text takes precedence over its text content.
func PageIndex(doc *dom.Document) (string, bool) {
	for i, sel := range PageSelectors {
		var index string
		elements := doc.Find(sel)
		log.Emit(logger.VERBOSE, "Trying page selector %d (%s) - found %d elements\n", i, sel, elements.Length())

		elements.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := s.AttrOr("data-acc-text", "")
			if text == "" {
				text = strings.TrimSpace(s.Text())
			}
			if m := pagePattern.FindStringSubmatch(text); m != nil {
				index = m[1]
				return false
			}
			return true
		})
		if index != "" {
			return index, true
		}
	}
	return "", false
}

func (e *Extractor) fallbackPage() string {
	if e.opts.PageFallback == FallbackFixed {
		return "1"
	}
	return strconv.Itoa(e.opts.IntN(MaxRandomPage) + 1)
}

// firstText returns the trimmed text of the first element, across the
// selectors in order, whose text is not blank.
func firstText(doc *dom.Document, selectors []string) (string, bool) {
	for _, sel := range selectors {
		var found string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			found = strings.TrimSpace(s.Text())
			return found == ""
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

// reconcile looks for a subtitle in the accessibility labels of the page.
//
// A label that repeats the main title (exactly, or with a start similar enough
// to it) yields the rest of the label as the subtitle. Otherwise a label
// holding a section heading such as "Module 2: Safety" is split into title
// and subtitle; the title part only replaces a title that was not found.
func (e *Extractor) reconcile(doc *dom.Document, title string, titleFound bool) (string, string, bool) {
	var labels []string
	doc.Find("[data-acc-text]").Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSpace(s.AttrOr("data-acc-text", ""))
		if label == "" || pagePattern.MatchString(label) {
			return
		}
		labels = append(labels, label)
	})
	if len(labels) == 0 {
		return "", "", false
	}

	if titleFound {
		for _, label := range labels {
			if rest, ok := e.stripTitle(label, title); ok {
				return title, rest, true
			}
		}
	}

	for _, label := range labels {
		m := sectionPattern.FindStringSubmatch(label)
		if m == nil {
			continue
		}
		main := title
		if prefix := trimSeparators(m[1]); prefix != "" && !titleFound {
			main = prefix
		}
		if sub := trimSeparators(m[2]); sub != "" {
			return main, sub, true
		}
	}
	return "", "", false
}

// stripTitle removes title from the start or middle of label and returns what
// is left.
func (e *Extractor) stripTitle(label, title string) (string, bool) {
	if title == "" || label == title {
		return "", false
	}

	if i := strings.Index(label, title); i >= 0 {
		rest := trimSeparators(label[:i] + " " + label[i+len(title):])
		return rest, rest != ""
	}

	labelRunes := []rune(label)
	n := len([]rune(title))
	if len(labelRunes) <= n {
		return "", false
	}
	similarity := strutil.Similarity(string(labelRunes[:n]), title, e.metric)
	log.Emit(logger.VERBOSE, "Label %q starts %.2f similar to title\n", label, similarity)
	if similarity < SimilarityThreshold {
		return "", false
	}
	rest := trimSeparators(string(labelRunes[n:]))
	return rest, rest != ""
}

func trimSeparators(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("-:|,", r)
	})
}
