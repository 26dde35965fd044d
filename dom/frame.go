package dom

import (
	"errors"
	"net/url"
)

var (
	// ErrCrossOrigin is returned when a frame's document belongs to a
	// different origin than its parent and access is not allowed.
	ErrCrossOrigin = errors.New("frame is cross-origin")

	// ErrNoContent is returned when a frame has no resolvable document.
	ErrNoContent = errors.New("frame has no accessible content")
)

// Frame is a reference to a nested document declared by an iframe or frame
// element. Index is the position among the parent's frames.
type Frame struct {
	Index     int
	Tag       string
	Src       string
	Name      string
	Srcdoc    string
	HasSrcdoc bool
}

// Label returns a short description of the frame for logging.
func (f Frame) Label() string {
	switch {
	case f.HasSrcdoc:
		return f.Tag + "[srcdoc]"
	case f.Src != "":
		return f.Tag + "[src=" + f.Src + "]"
	default:
		return f.Tag
	}
}

// SameOrigin reports whether a and b share scheme, host and port.
func SameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Scheme == b.Scheme &&
		a.Hostname() == b.Hostname() &&
		effectivePort(a) == effectivePort(b)
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch u.Scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}
