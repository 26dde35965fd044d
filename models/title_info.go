package models

import (
	"fmt"
	"strings"

	"m3u8cmd/internal/textutil"
)

// DefaultMainTitle is used when the page carries no recognizable title.
const DefaultMainTitle = "Video"

// TitleInfo holds the human readable naming data recovered from a page.
//
// PageIndex is never empty: when the page has no pagination markup the
// extractor synthesizes one and sets PageSynthesized so callers can tell the
// difference.
type TitleInfo struct {
	MainTitle       string `json:"main_title"`
	SubTitle        string `json:"sub_title"`
	PageIndex       string `json:"page_index"`
	PageSynthesized bool   `json:"page_synthesized"`
}

// Validate checks if the TitleInfo has usable data.
//
// Returns an error if:
//   - MainTitle is empty or whitespace-only
//   - PageIndex is not a run of digits
func (t *TitleInfo) Validate() error {
	if strings.TrimSpace(t.MainTitle) == "" {
		return fmt.Errorf("main_title cannot be empty")
	}
	if !textutil.IsDigits(t.PageIndex) {
		return fmt.Errorf("page_index must be numeric, got %q", t.PageIndex)
	}
	return nil
}

// HasSubTitle reports whether a non-blank subtitle was recovered.
func (t *TitleInfo) HasSubTitle() bool {
	return strings.TrimSpace(t.SubTitle) != ""
}
