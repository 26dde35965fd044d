package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(value string) []string {
	var items []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// MergeFromFlags parses os.Args and overrides config values
func (c *Config) MergeFromFlags() error {
	return c.MergeFromArgs(os.Args[1:])
}

// MergeFromArgs parses command-line arguments and overrides config values.
// The first positional argument is taken as the input when -input is unset.
func (c *Config) MergeFromArgs(args []string) error {
	fs := flag.NewFlagSet("m3u8cmd", flag.ContinueOnError)
	fs.Usage = printUsage

	// Page source
	input := fs.String("input", "", "Saved HTML page, or - for stdin")
	pageURL := fs.String("page-url", "", "Address the page was saved from")
	framesDir := fs.String("frames-dir", "", "Directory holding saved frame documents")
	allowCrossOrigin := fs.Bool("allow-cross-origin", false, "Enter frames from other origins")
	maxDepth := fs.Int("max-depth", -1, "Frame levels explored below the page (default: from config)")

	// Config file override (handled by LoadConfig before this function is called)
	_ = fs.String("config", "", "Path to config file (default: search standard locations)")
	saveConfig := fs.String("save-config", "", "Write the effective configuration to this file")

	// Playlist search
	scripts := fs.Bool("scripts", false, "Search inline scripts for playlist URLs")
	noScripts := fs.Bool("no-scripts", false, "Do not search inline scripts")
	synthesize := fs.Bool("synthesize", false, "Guess a provider URL when nothing is found")
	noSynthesize := fs.Bool("no-synthesize", false, "Never guess a provider URL")

	// Naming
	variant := fs.String("variant", "", "Naming variant: strict, lenient (default: from config)")
	pageFallback := fs.String("page-fallback", "", "Page index when none is found: random, fixed (default: from config)")
	extension := fs.String("extension", "", "Output file extension (default: from config)")
	defaultTitle := fs.String("default-title", "", "Title used when the page has none (default: from config)")

	// Output
	tool := fs.String("tool", "", "Downloader executable (default: from config)")
	separator := fs.String("path-separator", "", "Output path separator (default: from config)")
	noClipboard := fs.Bool("no-clipboard", false, "Print the command instead of copying it")
	clipboardTimeout := fs.Duration("clipboard-timeout", 0, "Clipboard write timeout (default: from config)")
	extraArgs := fs.String("extra-args", "", "Comma-separated arguments appended after the output path")

	// Behavioral flags
	metricsFile := fs.String("metrics-file", "", "Write run metrics to this Prometheus textfile")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	trace := fs.Bool("trace", false, "Enable per-selector and per-strategy tracing (implies -verbose)")
	dryRun := fs.Bool("dry-run", false, "Show configuration and command without touching the clipboard")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Override with flag values (only if explicitly set)
	if *input != "" {
		c.Input = *input
	} else if fs.NArg() > 0 {
		c.Input = fs.Arg(0)
	}
	if *pageURL != "" {
		c.PageURL = *pageURL
	}
	if *framesDir != "" {
		c.FramesDir = *framesDir
	}
	if *allowCrossOrigin {
		c.AllowCrossOrigin = true
	}
	if *maxDepth >= 0 {
		c.MaxDepth = *maxDepth
	}
	if *saveConfig != "" {
		c.SaveConfig = *saveConfig
	}

	if *scripts {
		c.Locator.ScriptPatterns = true
	}
	if *noScripts {
		c.Locator.ScriptPatterns = false
	}
	if *synthesize {
		c.Locator.Synthesize = true
	}
	if *noSynthesize {
		c.Locator.Synthesize = false
	}

	if *variant != "" {
		c.Naming.Variant = *variant
	}
	if *pageFallback != "" {
		c.Naming.PageFallback = *pageFallback
	}
	if *extension != "" {
		c.Naming.Extension = *extension
	}
	if *defaultTitle != "" {
		c.Naming.DefaultTitle = *defaultTitle
	}

	if *tool != "" {
		c.Output.Tool = *tool
	}
	if *separator != "" {
		c.Output.PathSeparator = *separator
	}
	if *noClipboard {
		c.Output.Clipboard = false
	}
	if *clipboardTimeout > 0 {
		c.Output.ClipboardTimeout = *clipboardTimeout
	}
	if *extraArgs != "" {
		c.Output.ExtraArgs = splitList(*extraArgs)
	}

	if *metricsFile != "" {
		c.MetricsFile = *metricsFile
	}
	if *verbose {
		c.Verbose = true
	}
	if *trace {
		c.Trace = true
	}
	if *dryRun {
		c.DryRun = true
	}

	return nil
}

// printUsage prints help text
func printUsage() {
	fmt.Fprintf(os.Stderr, `m3u8cmd - Find the HLS playlist in a saved page and compose a download command

USAGE:
  m3u8cmd [OPTIONS] PAGE.html
  m3u8cmd -input - [OPTIONS] < PAGE.html

PAGE SOURCE:
  -input string
        Saved HTML page, or - for stdin
  -page-url string
        Address the page was saved from (default: canonical link, og:url or <base>)
  -frames-dir string
        Directory holding saved frame documents as <host>/<path> or <basename>
  --allow-cross-origin
        Enter frames whose origin differs from their parent
  -max-depth int
        Frame levels explored below the page (default: 3)

CONFIGURATION:
  -config string
        Path to config file (default: search ./m3u8cmd.yaml, ~/.m3u8cmd/config.yaml, /etc/m3u8cmd/config.yaml)
  -save-config string
        Write the effective configuration to this file

PLAYLIST SEARCH:
  --scripts / --no-scripts
        Search inline scripts for playlist URLs (default: on)
  --synthesize / --no-synthesize
        Guess a provider URL when nothing is found (default: on)

NAMING:
  -variant string
        strict: Title-page-03.mp4, lenient: "Title page 3.mp4" (default: strict)
  -page-fallback string
        Page index when none is found: random (1-10) or fixed (1) (default: random)
  -extension string
        Output file extension (default: .mp4)
  -default-title string
        Title used when the page has none (default: Video)

OUTPUT:
  -tool string
        Downloader executable (default: dlm3u8.bat)
  -path-separator string
        Output path separator (default: \)
  --no-clipboard
        Print the command instead of copying it
  -clipboard-timeout duration
        Clipboard write timeout (default: 3s)
  -extra-args string
        Comma-separated arguments appended after the output path

BEHAVIORAL FLAGS:
  -metrics-file string
        Write run metrics to this Prometheus textfile
  --verbose
        Enable debug logging
  --trace
        Enable per-selector and per-strategy tracing (implies --verbose)
  --dry-run
        Show effective configuration and command without touching the clipboard

EXAMPLES:
  # Saved page with its frames
  m3u8cmd -frames-dir ./page_files -page-url https://lms.example.com/course/7 page.html

  # Lenient names, fixed page fallback
  m3u8cmd -variant lenient -page-fallback fixed page.html

  # Show effective configuration
  m3u8cmd --dry-run page.html

CONFIGURATION FILES:
  Config files are searched in order:
    1. ./m3u8cmd.yaml
    2. ~/.m3u8cmd/config.yaml
    3. /etc/m3u8cmd/config.yaml

  Environment variables M3U8CMD_* override the file.
  Priority: CLI flags > Environment > Config file > Defaults

EXIT CODES:
  0 success, 1 error, 2 no playlist found, 130 interrupted

`)
}

// PrintConfig prints the effective configuration
func (c *Config) PrintConfig() {
	heading := color.New(color.Bold)

	fmt.Println("═══════════════════════════════════════════════════════════")
	heading.Println("                 Effective Configuration                  ")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("Input:          %s\n", c.Input)
	if c.PageURL != "" {
		fmt.Printf("Page URL:       %s\n", c.PageURL)
	}
	if c.FramesDir != "" {
		fmt.Printf("Frames Dir:     %s\n", c.FramesDir)
	}
	fmt.Printf("Max Depth:      %d\n", c.MaxDepth)
	fmt.Printf("Cross Origin:   %v\n", c.AllowCrossOrigin)

	fmt.Println("\nPlaylist Search:")
	fmt.Printf("  Scripts:      %v\n", c.Locator.ScriptPatterns)
	fmt.Printf("  Synthesize:   %v\n", c.Locator.Synthesize)
	fmt.Printf("  Decoys:       %d\n", len(c.Locator.Decoys))
	names := make([]string, 0, len(c.Locator.Providers))
	for _, p := range c.Locator.Providers {
		names = append(names, p.Name)
	}
	fmt.Printf("  Providers:    %s\n", strings.Join(names, ", "))

	fmt.Println("\nNaming:")
	fmt.Printf("  Variant:      %s\n", c.Naming.Variant)
	fmt.Printf("  Fallback:     %s\n", c.Naming.PageFallback)
	fmt.Printf("  Extension:    %s\n", c.Naming.Extension)
	fmt.Printf("  Default:      %s\n", c.Naming.DefaultTitle)

	fmt.Println("\nOutput:")
	fmt.Printf("  Tool:         %s\n", c.Output.Tool)
	fmt.Printf("  Separator:    %s\n", c.Output.PathSeparator)
	fmt.Printf("  Clipboard:    %v\n", c.Output.Clipboard)
	fmt.Printf("  Timeout:      %s\n", c.Output.ClipboardTimeout.Round(time.Millisecond))
	if len(c.Output.ExtraArgs) > 0 {
		fmt.Printf("  Extra Args:   %s\n", strings.Join(c.Output.ExtraArgs, " "))
	}

	fmt.Println("\nBehavioral Flags:")
	fmt.Printf("  Verbose:       %v\n", c.Verbose)
	fmt.Printf("  Trace:         %v\n", c.Trace)
	if c.MetricsFile != "" {
		fmt.Printf("  Metrics File:  %s\n", c.MetricsFile)
	}
	fmt.Println("═══════════════════════════════════════════════════════════")
}
