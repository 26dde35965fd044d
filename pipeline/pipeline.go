// Package pipeline runs one extraction: frame search, playlist location,
// metadata extraction, path building and command composition.
//
// Run is the outermost fault boundary. Expected failures (unparseable JSON-LD,
// inaccessible frames) are absorbed by the stages themselves; an exhausted
// search is reported as *NotFoundError; anything else that panics is
// recovered and reported as ErrUnexpected.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"

	"m3u8cmd/command"
	"m3u8cmd/dom"
	"m3u8cmd/frames"
	"m3u8cmd/internal/logger"
	"m3u8cmd/locator"
	"m3u8cmd/metadata"
	"m3u8cmd/metrics"
	"m3u8cmd/models"
	"m3u8cmd/naming"
)

var log = logger.Get("Pipeline")

// ErrUnexpected wraps a panic recovered during a run.
var ErrUnexpected = errors.New("unexpected failure")

// NotFoundError reports that no playlist was found anywhere in the frame tree.
type NotFoundError struct {
	Levels int
	Stats  frames.Stats
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no M3U8 video found - searched %d frame levels", e.Levels)
}

// Options configures a Pipeline.
type Options struct {
	Locator  locator.Options
	Metadata metadata.Options
	Policy   naming.Policy

	// MaxDepth bounds the frame search below the top document.
	MaxDepth int
	// Resolver loads frame documents. Nil means frames are never entered.
	Resolver dom.Resolver
	// PageURL overrides the address of the top document.
	PageURL *url.URL

	Tool      string
	Separator string
	// ExtraArgs are appended to the command after the output path.
	ExtraArgs []string

	Metrics *metrics.Recorder
}

// Result is the outcome of a successful run.
type Result struct {
	RunID       string
	Candidate   *models.MediaCandidate
	Title       *models.TitleInfo
	Output      *models.OutputPath
	Command     command.Command
	CommandLine string
	Stats       frames.Stats
}

// Guessed reports whether the playlist URL was synthesized.
func (r *Result) Guessed() bool {
	return r.Candidate != nil && r.Candidate.Guess
}

// Pipeline holds the stages of a run. It is safe to reuse across runs but
// not for concurrent use.
type Pipeline struct {
	opts      Options
	locator   *locator.Locator
	walker    *frames.Walker
	extractor *metadata.Extractor
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	locOpts := opts.Locator
	onHit := locOpts.OnHit
	recorder := opts.Metrics
	locOpts.OnHit = func(strategy string) {
		recorder.StrategyHit(strategy)
		if onHit != nil {
			onHit(strategy)
		}
	}

	return &Pipeline{
		opts:      opts,
		locator:   locator.New(locOpts),
		walker:    frames.NewWalker(opts.Resolver, opts.MaxDepth),
		extractor: metadata.New(opts.Metadata),
	}
}

// NewResolver returns the resolver used for saved pages: inline srcdoc
// content first, then the snapshot directory.
func NewResolver(framesDir string, allowCrossOrigin bool) dom.Resolver {
	return dom.Chain{
		dom.SrcdocResolver{},
		&dom.SnapshotResolver{Dir: framesDir, AllowCrossOrigin: allowCrossOrigin},
	}
}

// LoadDocument parses the top-level page. When pageURL is nil the address is
// taken from the page itself (canonical link, og:url or <base>), if present.
func LoadDocument(r io.Reader, pageURL *url.URL) (*dom.Document, error) {
	doc, err := dom.Parse(r, pageURL)
	if err != nil {
		return nil, err
	}
	if pageURL == nil {
		if discovered := doc.DiscoverURL(); discovered != nil {
			log.Emit(logger.DEBUG, "Using page address from markup: %s\n", discovered)
			doc = doc.WithURL(discovered)
		}
	}
	return doc, nil
}

// Run searches doc and composes the download command.
func (p *Pipeline) Run(ctx context.Context, doc *dom.Document) (res *Result, err error) {
	runID := uuid.NewString()
	start := time.Now()
	outcome := metrics.OutcomeError

	defer func() {
		if r := recover(); r != nil {
			log.Emit(logger.ERROR, "Run %s panicked: %v\n", runID, r)
			res = nil
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
			outcome = metrics.OutcomeError
		}
		p.opts.Metrics.ObserveRun(outcome, time.Since(start))
		log.Emit(logger.DEBUG, "Run %s finished (%s) in %s\n", runID, outcome, time.Since(start).Round(time.Microsecond))
	}()

	log.Emit(logger.INFO, "Run %s started\n", runID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("no document to search")
	}
	if p.opts.PageURL != nil {
		doc = doc.WithURL(p.opts.PageURL)
	}

	stats := frames.Stats{}
	candidate, found := p.walker.Search(doc, p.locator.Probe, &stats)
	p.opts.Metrics.ObserveFrames(stats.Documents-1, stats.Denied, stats.Missing, stats.Unexplored, stats.LevelsSearched())
	log.Emit(logger.DEBUG, "Searched %d document(s) across %d level(s), %d denied, %d missing\n",
		stats.Documents, stats.LevelsSearched(), stats.Denied, stats.Missing)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !found {
		candidate, found = p.locator.Synthesize(doc, doc.URL())
	}
	if !found {
		outcome = metrics.OutcomeNotFound
		return nil, &NotFoundError{Levels: stats.LevelsSearched(), Stats: stats}
	}

	info := p.extractor.Extract(doc)
	if err := info.Validate(); err != nil {
		return nil, fmt.Errorf("invalid title info: %w", err)
	}

	output, err := p.opts.Policy.BuildPath(info.MainTitle, info.SubTitle, info.PageIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to build output path: %w", err)
	}

	builder := command.NewDownloadBuilder(p.opts.Tool).
		SetCandidate(candidate).
		SetOutput(output).
		SetSeparator(p.opts.Separator).
		AddExtraArgs(p.opts.ExtraArgs...)
	line, err := builder.DryRun()
	if err != nil {
		return nil, fmt.Errorf("failed to compose command: %w", err)
	}

	outcome = metrics.OutcomeFound
	if candidate.Guess {
		outcome = metrics.OutcomeGuessed
	}
	log.Emit(logger.SUCCESS, "Run %s found %s via %s at level %d\n", runID, candidate.URL, candidate.Strategy, candidate.Depth)

	return &Result{
		RunID:       runID,
		Candidate:   candidate,
		Title:       info,
		Output:      output,
		Command:     builder,
		CommandLine: line,
		Stats:       stats,
	}, nil
}
