// Package frames searches a document and its nested frames for the first
// document a probe accepts.
//
// The search is depth-first in document order and bounded: frames nested
// deeper than MaxDepth levels below the top document are never resolved.
// Frames that cannot be resolved (cross-origin, missing content) are counted
// and skipped; they never abort the search.
package frames

import (
	"errors"

	"m3u8cmd/dom"
	"m3u8cmd/internal/logger"
	"m3u8cmd/models"
)

var log = logger.Get("Frames")

// DefaultMaxDepth is the number of frame levels explored below the top
// document, giving four probed levels in total.
const DefaultMaxDepth = 3

// Probe inspects a single document. depth is 0 for the top document.
type Probe func(doc *dom.Document, depth int) (*models.MediaCandidate, bool)

// Stats accumulates what a search touched. The caller owns it so the numbers
// survive a search that finds nothing.
type Stats struct {
	Documents    int `json:"documents"`
	DeepestLevel int `json:"deepest_level"`
	Denied       int `json:"denied"`
	Missing      int `json:"missing"`
	Unexplored   int `json:"unexplored"`
}

// LevelsSearched returns how many nesting levels were probed, counting the
// top document as the first.
func (s *Stats) LevelsSearched() int {
	return s.DeepestLevel + 1
}

// Walker performs bounded frame searches.
type Walker struct {
	resolver dom.Resolver
	maxDepth int
}

// NewWalker creates a Walker. A nil resolver means frames are never entered;
// a negative maxDepth is treated as zero.
func NewWalker(resolver dom.Resolver, maxDepth int) *Walker {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Walker{
		resolver: resolver,
		maxDepth: maxDepth,
	}
}

// MaxDepth returns the configured frame bound.
func (w *Walker) MaxDepth() int {
	return w.maxDepth
}

type pendingFrame struct {
	parent *dom.Document
	frame  dom.Frame
	depth  int
}

// Search probes root and then its frames, depth-first in document order,
// and returns the first accepted candidate. Once a probe succeeds no further
// frame is resolved. stats may be nil.
func (w *Walker) Search(root *dom.Document, probe Probe, stats *Stats) (*models.MediaCandidate, bool) {
	if stats == nil {
		stats = &Stats{}
	}

	if c, ok := w.visit(root, 0, probe, stats); ok {
		return c, true
	}

	stack := w.children(root, 0, stats)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		doc, err := w.resolve(next)
		if err != nil {
			if errors.Is(err, dom.ErrCrossOrigin) {
				stats.Denied++
				log.Emit(logger.DEBUG, "Level %d - cross-origin frame %s: %v\n", next.depth-1, next.frame.Label(), err)
			} else {
				stats.Missing++
				log.Emit(logger.DEBUG, "Level %d - unresolvable frame %s: %v\n", next.depth-1, next.frame.Label(), err)
			}
			continue
		}

		if c, ok := w.visit(doc, next.depth, probe, stats); ok {
			return c, true
		}
		stack = append(stack, w.children(doc, next.depth, stats)...)
	}

	return nil, false
}

func (w *Walker) visit(doc *dom.Document, depth int, probe Probe, stats *Stats) (*models.MediaCandidate, bool) {
	stats.Documents++
	if depth > stats.DeepestLevel {
		stats.DeepestLevel = depth
	}
	log.Emit(logger.VERBOSE, "Searching document at level %d\n", depth)

	c, ok := probe(doc, depth)
	if ok {
		log.Emit(logger.DEBUG, "Level %d - found %s via %s\n", depth, c.URL, c.Strategy)
	}
	return c, ok
}

func (w *Walker) resolve(p pendingFrame) (*dom.Document, error) {
	if w.resolver == nil {
		return nil, dom.ErrNoContent
	}
	return w.resolver.Resolve(p.parent, p.frame)
}

// children returns doc's frames in reverse document order so that popping
// the work stack visits them first to last.
func (w *Walker) children(doc *dom.Document, depth int, stats *Stats) []pendingFrame {
	frames := doc.Frames()
	if len(frames) == 0 {
		return nil
	}
	if depth >= w.maxDepth {
		stats.Unexplored += len(frames)
		log.Emit(logger.DEBUG, "Level %d - %d frame(s) beyond depth limit %d\n", depth, len(frames), w.maxDepth)
		return nil
	}

	log.Emit(logger.VERBOSE, "Level %d - found %d frame(s)\n", depth, len(frames))
	out := make([]pendingFrame, 0, len(frames))
	for i := len(frames) - 1; i >= 0; i-- {
		out = append(out, pendingFrame{parent: doc, frame: frames[i], depth: depth + 1})
	}
	return out
}
