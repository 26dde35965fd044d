package naming

import (
	"fmt"
	"strings"

	"m3u8cmd/internal/textutil"
	"m3u8cmd/models"
)

// Variant names accepted by PolicyFor.
const (
	VariantStrict  = "strict"
	VariantLenient = "lenient"
)

// DefaultExtension is the container extension of the downloaded file.
const DefaultExtension = ".mp4"

// PageStyle selects how the page index is appended to a file name.
type PageStyle int

const (
	// HyphenatedPage renders "-page-03".
	HyphenatedPage PageStyle = iota
	// SpacedPage renders " page 3".
	SpacedPage
)

// Policy describes how titles become path segments and file names.
type Policy struct {
	Whitespace   Whitespace
	PageStyle    PageStyle
	PadPage      bool
	Extension    string
	DefaultTitle string
}

// StrictPolicy strips whitespace and pads the page index to two digits.
func StrictPolicy() Policy {
	return Policy{
		Whitespace:   StripWhitespace,
		PageStyle:    HyphenatedPage,
		PadPage:      true,
		Extension:    DefaultExtension,
		DefaultTitle: models.DefaultMainTitle,
	}
}

// LenientPolicy collapses whitespace and keeps the page index as found.
func LenientPolicy() Policy {
	return Policy{
		Whitespace:   CollapseWhitespace,
		PageStyle:    SpacedPage,
		PadPage:      false,
		Extension:    DefaultExtension,
		DefaultTitle: models.DefaultMainTitle,
	}
}

// PolicyFor returns the preset policy for a variant name.
func PolicyFor(variant string) (Policy, error) {
	switch variant {
	case VariantStrict:
		return StrictPolicy(), nil
	case VariantLenient:
		return LenientPolicy(), nil
	}
	return Policy{}, fmt.Errorf("unknown naming variant %q", variant)
}

// Sanitize applies the policy's whitespace rule.
func (p Policy) Sanitize(text string) string {
	return Sanitize(text, p.Whitespace)
}

// PageSuffix formats the page index for appending to a title.
//
// Returns an error if index is not a run of digits.
func (p Policy) PageSuffix(index string) (string, error) {
	if !textutil.IsDigits(index) {
		return "", fmt.Errorf("page index must be numeric, got %q", index)
	}
	if p.PadPage && len(index) == 1 {
		index = "0" + index
	}
	if p.PageStyle == SpacedPage {
		return " page " + index, nil
	}
	return "-page-" + index, nil
}

// BuildPath composes the output location for one page.
//
// With a subtitle the file lands in Title/Subtitle and is named after the
// subtitle. Without one the file lands in Title and is named after the title.
// A title that sanitizes to nothing falls back to the policy's default title.
//
// Example (strict):
//
//	p, _ := StrictPolicy().BuildPath("Course", "Intro", "3")
//	p.Join(`\`) // `Course\Intro\Intro-page-03.mp4`
func (p Policy) BuildPath(title, subtitle, pageIndex string) (*models.OutputPath, error) {
	cleanTitle := p.Sanitize(title)
	if cleanTitle == "" {
		cleanTitle = p.Sanitize(p.DefaultTitle)
	}
	if cleanTitle == "" {
		cleanTitle = models.DefaultMainTitle
	}
	cleanSub := p.Sanitize(subtitle)

	suffix, err := p.PageSuffix(pageIndex)
	if err != nil {
		return nil, err
	}

	ext := p.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	if cleanSub != "" {
		return models.NewOutputPath([]string{cleanTitle, cleanSub}, cleanSub+suffix+ext)
	}
	return models.NewOutputPath([]string{cleanTitle}, cleanTitle+suffix+ext)
}
