// Package textutil provides small string normalization helpers shared by the
// sanitizer and the command composer.
package textutil

import "strings"

// NBSP is the non-breaking space code point (U+00A0).
const NBSP = '\u00A0'

// ReplaceNBSP replaces every non-breaking space in s with repl.
//
// Page titles rendered by authoring tools frequently carry NBSPs that survive
// copy/paste and break shell quoting, so both file names and the final command
// string are passed through this.
//
// Example:
//
//	ReplaceNBSP("Intro\u00A0Part", "-") // "Intro-Part"
func ReplaceNBSP(s, repl string) string {
	if !strings.ContainsRune(s, NBSP) {
		return s
	}
	return strings.ReplaceAll(s, string(NBSP), repl)
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
