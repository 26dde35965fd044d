// Package dom wraps parsed HTML documents and the frames embedded in them.
//
// A Document is an immutable view over a tree produced by golang.org/x/net/html
// and queried with goquery selectors. Frames are discovered in document order
// and resolved to nested Documents through a Resolver; resolution may fail
// because the frame is cross-origin or because its content is not available.
package dom

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FrameSelector matches every element that can host a nested document.
const FrameSelector = "iframe, frame"

// Document is a parsed page together with the URL it was loaded from.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// Parse reads an HTML document from r. base may be nil when the page address
// is unknown; relative references are then left as they are.
func Parse(r io.Reader, base *url.URL) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return FromNode(root, base), nil
}

// ParseString parses HTML from a string.
func ParseString(s string, base *url.URL) (*Document, error) {
	return Parse(strings.NewReader(s), base)
}

// FromNode wraps an already parsed tree.
func FromNode(root *html.Node, base *url.URL) *Document {
	doc := goquery.NewDocumentFromNode(root)
	doc.Url = base
	return &Document{doc: doc, base: base}
}

// URL returns the document address, or nil if unknown.
func (d *Document) URL() *url.URL {
	return d.base
}

// Find returns all elements matching the CSS selector, in document order.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// First returns the first element matching selector.
func (d *Document) First(selector string) *goquery.Selection {
	return d.doc.Find(selector).First()
}

// Resolve turns ref into an absolute address using the document URL.
// If the document URL is unknown or ref does not parse, ref is returned as is.
func (d *Document) Resolve(ref string) string {
	u, err := d.ResolveURL(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

// ResolveURL parses ref and resolves it against the document URL.
func (d *Document) ResolveURL(ref string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, err
	}
	if d.base == nil {
		return u, nil
	}
	return d.base.ResolveReference(u), nil
}

// Frames returns the frame references declared directly in this document.
func (d *Document) Frames() []Frame {
	var frames []Frame
	d.doc.Find(FrameSelector).Each(func(i int, s *goquery.Selection) {
		srcdoc, hasSrcdoc := s.Attr("srcdoc")
		frames = append(frames, Frame{
			Index:     i,
			Tag:       goquery.NodeName(s),
			Src:       strings.TrimSpace(s.AttrOr("src", "")),
			Name:      s.AttrOr("name", ""),
			Srcdoc:    srcdoc,
			HasSrcdoc: hasSrcdoc,
		})
	})
	return frames
}

// DiscoverURL looks for the page address inside the document itself:
// <link rel="canonical">, og:url and <base href>, in that order. Only absolute
// addresses are accepted.
func (d *Document) DiscoverURL() *url.URL {
	candidates := []string{
		d.First(`link[rel="canonical"]`).AttrOr("href", ""),
		d.First(`meta[property="og:url"]`).AttrOr("content", ""),
		d.First(`base[href]`).AttrOr("href", ""),
	}
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(raw))
		if err == nil && u.IsAbs() && u.Host != "" {
			return u
		}
	}
	return nil
}

// WithURL returns a copy of d that resolves references against base.
func (d *Document) WithURL(base *url.URL) *Document {
	doc := goquery.NewDocumentFromNode(d.doc.Nodes[0])
	doc.Url = base
	return &Document{doc: doc, base: base}
}
