package command

import (
	"fmt"
	"strings"

	"m3u8cmd/internal/textutil"
	"m3u8cmd/models"
)

// DownloadBuilder composes `<tool> "<url>" "<path>"`.
type DownloadBuilder struct {
	tool      string
	url       string
	output    *models.OutputPath
	separator string
	extraArgs []string
}

// NewDownloadBuilder creates a builder for tool. An empty tool falls back to
// DefaultTool.
func NewDownloadBuilder(tool string) *DownloadBuilder {
	if tool == "" {
		tool = DefaultTool
	}
	return &DownloadBuilder{
		tool:      tool,
		separator: DefaultSeparator,
		extraArgs: []string{},
	}
}

// SetURL sets the playlist URL.
func (b *DownloadBuilder) SetURL(url string) *DownloadBuilder {
	b.url = url
	return b
}

// SetCandidate sets the playlist URL from a located candidate.
func (b *DownloadBuilder) SetCandidate(c *models.MediaCandidate) *DownloadBuilder {
	if c != nil {
		b.url = c.URL
	}
	return b
}

// SetOutput sets the output location.
func (b *DownloadBuilder) SetOutput(p *models.OutputPath) *DownloadBuilder {
	b.output = p
	return b
}

// SetSeparator sets the string placed between path segments.
func (b *DownloadBuilder) SetSeparator(sep string) *DownloadBuilder {
	if sep != "" {
		b.separator = sep
	}
	return b
}

// AddExtraArgs appends arguments after the output path.
func (b *DownloadBuilder) AddExtraArgs(args ...string) *DownloadBuilder {
	b.extraArgs = append(b.extraArgs, args...)
	return b
}

// BuildArgs returns the unquoted tool arguments.
func (b *DownloadBuilder) BuildArgs() []string {
	args := []string{b.url, b.GetOutputPath()}
	return append(args, b.extraArgs...)
}

// DryRun renders the command line. The URL and path are double quoted and
// every non-breaking space in the result becomes "-".
func (b *DownloadBuilder) DryRun() (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}

	parts := []string{b.tool}
	for _, arg := range b.BuildArgs() {
		parts = append(parts, quote(arg))
	}
	return textutil.ReplaceNBSP(strings.Join(parts, " "), "-"), nil
}

// Validate checks that every part of the command is present.
func (b *DownloadBuilder) Validate() error {
	if strings.TrimSpace(b.tool) == "" {
		return fmt.Errorf("tool cannot be empty")
	}
	if strings.TrimSpace(b.url) == "" {
		return fmt.Errorf("playlist url cannot be empty")
	}
	if b.output == nil {
		return fmt.Errorf("output path cannot be empty")
	}
	if err := b.output.Validate(); err != nil {
		return fmt.Errorf("output path: %w", err)
	}
	return nil
}

// GetToolName returns the downloader executable name.
func (b *DownloadBuilder) GetToolName() string {
	return b.tool
}

// GetURL returns the playlist URL.
func (b *DownloadBuilder) GetURL() string {
	return b.url
}

// GetOutputPath returns the output path joined with the separator, or "" if
// none was set.
func (b *DownloadBuilder) GetOutputPath() string {
	if b.output == nil {
		return ""
	}
	return b.output.Join(b.separator)
}

// quote wraps s in double quotes unless it already is.
func quote(s string) string {
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) > 1 {
		return s
	}
	return `"` + s + `"`
}
