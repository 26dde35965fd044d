// Package naming turns page titles into filesystem-safe path segments and
// composes the relative output path handed to the downloader.
//
// Two policies exist. The strict policy removes all whitespace and uses a
// zero-padded "-page-NN" suffix so the result never needs shell escaping
// beyond quoting. The lenient policy keeps single spaces and writes
// " page N".
package naming

import (
	"regexp"
	"strings"

	"m3u8cmd/internal/textutil"
)

// Whitespace selects how runs of whitespace are treated by Sanitize.
type Whitespace int

const (
	// StripWhitespace removes every whitespace run.
	StripWhitespace Whitespace = iota
	// CollapseWhitespace replaces every whitespace run with one space.
	CollapseWhitespace
)

var (
	reservedChars = regexp.MustCompile(`[:<>"|?*\\/]`)
	whitespaceRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
)

// Sanitize makes text safe to use as a single path segment.
//
// Non-breaking spaces and the characters : < > " | ? * \ / become hyphens,
// whitespace is stripped or collapsed according to ws and the result is
// trimmed. Sanitize is idempotent.
//
// Example:
//
//	Sanitize("Intro: Part 1", StripWhitespace)    // "Intro-Part1"
//	Sanitize("Intro: Part 1", CollapseWhitespace) // "Intro- Part 1"
func Sanitize(text string, ws Whitespace) string {
	out := textutil.ReplaceNBSP(text, "-")
	out = reservedChars.ReplaceAllString(out, "-")
	switch ws {
	case CollapseWhitespace:
		out = whitespaceRun.ReplaceAllString(out, " ")
	default:
		out = whitespaceRun.ReplaceAllString(out, "")
	}
	return strings.TrimSpace(out)
}
