// Package models provides the data structures passed between extraction stages.
package models

import (
	"fmt"
	"strings"
)

// PlaylistMarker is the extension token identifying an HLS playlist.
const PlaylistMarker = ".m3u8"

// MediaCandidate is a playlist URL accepted by one of the locator strategies.
//
// The URL is always normalized: surrounding whitespace and quote characters
// are removed and any query string or fragment is cut off. Use
// NewMediaCandidate to create a validated instance.
type MediaCandidate struct {
	URL      string `json:"url"`
	Strategy string `json:"strategy"`
	Depth    int    `json:"depth"`
	Guess    bool   `json:"guess"`
}

// NewMediaCandidate normalizes raw and validates the result.
//
// Returns an error if the normalized URL is empty or does not contain the
// playlist marker.
//
// Example:
//
//	c, err := models.NewMediaCandidate(`"https://x.com/a.m3u8?t=1"`, "declarative-media", 0)
//	// c.URL == "https://x.com/a.m3u8"
func NewMediaCandidate(raw, strategy string, depth int) (*MediaCandidate, error) {
	c := &MediaCandidate{
		URL:      NormalizePlaylistURL(raw),
		Strategy: strategy,
		Depth:    depth,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid media candidate: %w", err)
	}
	return c, nil
}

// NormalizePlaylistURL strips quotes, whitespace, query and fragment from raw.
func NormalizePlaylistURL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(`"`, "", "'", "", "`", "").Replace(s)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ContainsPlaylistMarker reports whether s references an HLS playlist.
func ContainsPlaylistMarker(s string) bool {
	return strings.Contains(s, PlaylistMarker)
}

// Validate checks the candidate invariants.
func (c *MediaCandidate) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url cannot be empty")
	}
	if !ContainsPlaylistMarker(c.URL) {
		return fmt.Errorf("url %q does not contain %s", c.URL, PlaylistMarker)
	}
	if strings.ContainsAny(c.URL, "?#\"'") {
		return fmt.Errorf("url %q still carries a query, fragment or quote", c.URL)
	}
	if c.Depth < 0 {
		return fmt.Errorf("depth cannot be negative")
	}
	return nil
}

// String returns the candidate URL.
func (c *MediaCandidate) String() string {
	return c.URL
}
