package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputPath is the relative location the downloader should write to.
//
// Directory holds one or two sanitized segments (title, optionally subtitle)
// and Filename always ends with a media extension.
type OutputPath struct {
	Directory []string `json:"directory"`
	Filename  string   `json:"filename"`
}

// NewOutputPath creates a validated OutputPath.
func NewOutputPath(directory []string, filename string) (*OutputPath, error) {
	p := &OutputPath{
		Directory: directory,
		Filename:  filename,
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid output path: %w", err)
	}
	return p, nil
}

// Validate checks if the OutputPath is well formed.
//
// Returns an error if:
//   - Directory has fewer than 1 or more than 2 segments
//   - any segment is empty
//   - Filename is empty or has no extension
func (p *OutputPath) Validate() error {
	if len(p.Directory) < 1 || len(p.Directory) > 2 {
		return fmt.Errorf("directory must have 1 or 2 segments, got %d", len(p.Directory))
	}
	for i, seg := range p.Directory {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("directory segment %d is empty", i)
		}
	}
	if strings.TrimSpace(p.Filename) == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if filepath.Ext(p.Filename) == "" {
		return fmt.Errorf("filename %q has no extension", p.Filename)
	}
	return nil
}

// Join renders the path with sep between segments.
//
// Example:
//
//	p := &OutputPath{Directory: []string{"Course", "Intro"}, Filename: "Intro-page-01.mp4"}
//	p.Join(`\`) // `Course\Intro\Intro-page-01.mp4`
func (p *OutputPath) Join(sep string) string {
	parts := make([]string, 0, len(p.Directory)+1)
	parts = append(parts, p.Directory...)
	parts = append(parts, p.Filename)
	return strings.Join(parts, sep)
}
