package dom

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"m3u8cmd/internal/logger"
)

var log = logger.Get("Resolver")

// Resolver turns a frame reference into the nested document it hosts.
//
// Implementations return ErrCrossOrigin or ErrNoContent (possibly wrapped) for
// the expected failure modes; callers treat every error as "this branch has
// no document" and move on.
type Resolver interface {
	Resolve(parent *Document, frame Frame) (*Document, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(parent *Document, frame Frame) (*Document, error)

func (f ResolverFunc) Resolve(parent *Document, frame Frame) (*Document, error) {
	return f(parent, frame)
}

// SrcdocResolver parses inline srcdoc content. Such documents share the
// parent's origin and are always accessible.
type SrcdocResolver struct{}

func (SrcdocResolver) Resolve(parent *Document, frame Frame) (*Document, error) {
	if !frame.HasSrcdoc {
		return nil, ErrNoContent
	}
	return ParseString(frame.Srcdoc, parent.URL())
}

// SnapshotResolver loads frame documents from a directory holding a saved
// copy of the page's frames.
//
// A frame whose address resolves to https://host/a/b.html is looked up as
// Dir/host/a/b.html and then as Dir/b.html. Relative addresses on a page with
// unknown URL are looked up relative to Dir. Frames on a different origin
// than their parent are denied unless AllowCrossOrigin is set, mirroring the
// browser's same-origin policy. When the parent's URL is unknown every
// absolute address is denied, and a warning suggesting -page-url is logged
// once.
type SnapshotResolver struct {
	Dir              string
	AllowCrossOrigin bool

	unknownOrigin sync.Once
}

func (r *SnapshotResolver) Resolve(parent *Document, frame Frame) (*Document, error) {
	if frame.Src == "" || strings.HasPrefix(frame.Src, "about:") || strings.HasPrefix(frame.Src, "javascript:") {
		return nil, ErrNoContent
	}

	target, err := parent.ResolveURL(frame.Src)
	if err != nil {
		return nil, fmt.Errorf("%w: bad src %q: %v", ErrNoContent, frame.Src, err)
	}

	if !r.AllowCrossOrigin && !r.sameOrigin(parent.URL(), target) {
		if parent.URL() == nil {
			r.unknownOrigin.Do(func() {
				log.Emit(logger.WARNING, "Frame %s denied because the page address is unknown; pass -page-url to enter same-site frames\n", target)
			})
			return nil, fmt.Errorf("%w: %s (page address unknown)", ErrCrossOrigin, target)
		}
		return nil, fmt.Errorf("%w: %s", ErrCrossOrigin, target)
	}

	if r.Dir == "" {
		return nil, ErrNoContent
	}

	for _, candidate := range r.candidatePaths(target) {
		f, err := os.Open(candidate)
		if err != nil {
			continue
		}
		doc, err := Parse(f, baseFor(target))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrNoContent, candidate, err)
		}
		return doc, nil
	}

	return nil, fmt.Errorf("%w: %s not in snapshot", ErrNoContent, target)
}

func (r *SnapshotResolver) sameOrigin(parent, target *url.URL) bool {
	if !target.IsAbs() {
		return true
	}
	if parent == nil {
		return false
	}
	return SameOrigin(parent, target)
}

// candidatePaths lists snapshot files that may hold target, most specific
// first. Paths are cleaned so they cannot escape Dir.
func (r *SnapshotResolver) candidatePaths(target *url.URL) []string {
	clean := path.Clean("/" + target.Path)
	if strings.HasSuffix(target.Path, "/") || clean == "/" {
		clean = path.Join(clean, "index.html")
	}

	var paths []string
	if target.Host != "" {
		paths = append(paths, filepath.Join(r.Dir, target.Hostname(), filepath.FromSlash(clean)))
	} else {
		paths = append(paths, filepath.Join(r.Dir, filepath.FromSlash(clean)))
	}
	if base := path.Base(clean); base != "/" && base != "." {
		paths = append(paths, filepath.Join(r.Dir, base))
	}
	return paths
}

func baseFor(target *url.URL) *url.URL {
	if target.IsAbs() {
		return target
	}
	return nil
}

// Chain tries each resolver in order and returns the first document found.
// When all fail, a cross-origin denial takes precedence over missing content.
type Chain []Resolver

func (c Chain) Resolve(parent *Document, frame Frame) (*Document, error) {
	var last error = ErrNoContent
	for _, r := range c {
		doc, err := r.Resolve(parent, frame)
		if err == nil {
			return doc, nil
		}
		if errors.Is(err, ErrCrossOrigin) || !errors.Is(last, ErrCrossOrigin) {
			last = err
		}
	}
	return nil, last
}
