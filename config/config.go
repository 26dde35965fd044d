package config

import (
	"slices"
	"time"

	"m3u8cmd/command"
	"m3u8cmd/frames"
	"m3u8cmd/internal/logger"
	"m3u8cmd/locator"
	"m3u8cmd/metadata"
	"m3u8cmd/models"
	"m3u8cmd/naming"
	"m3u8cmd/notify"
)

// StdinInput is the -input value that reads the page from standard input.
const StdinInput = "-"

// Config holds all m3u8cmd configuration options
type Config struct {
	// Page source
	Input            string `yaml:"input" env:"M3U8CMD_INPUT"`
	PageURL          string `yaml:"page_url" env:"M3U8CMD_PAGE_URL" validate:"omitempty,url"`
	FramesDir        string `yaml:"frames_dir" env:"M3U8CMD_FRAMES_DIR"`
	AllowCrossOrigin bool   `yaml:"allow_cross_origin" env:"M3U8CMD_ALLOW_CROSS_ORIGIN"`
	MaxDepth         int    `yaml:"max_depth" env:"M3U8CMD_MAX_DEPTH" validate:"gte=0,lte=10"`

	// Playlist search
	Locator LocatorConfig `yaml:"locator"`

	// Title and file naming
	Naming NamingConfig `yaml:"naming"`

	// Command composition and delivery
	Output OutputConfig `yaml:"output"`

	// Observability
	MetricsFile string `yaml:"metrics_file" env:"M3U8CMD_METRICS_FILE"`
	Verbose     bool   `yaml:"verbose" env:"M3U8CMD_VERBOSE"` // Show debug logs
	Trace       bool   `yaml:"trace" env:"M3U8CMD_TRACE"`     // Show per-selector and per-strategy tracing
	DryRun      bool   `yaml:"dry_run" env:"M3U8CMD_DRY_RUN"` // Print config and command, skip the clipboard

	// SaveConfig is only set from the command line.
	SaveConfig string `yaml:"-"`
}

// LocatorConfig holds the playlist search settings
type LocatorConfig struct {
	ScriptPatterns bool               `yaml:"script_patterns" env:"M3U8CMD_SCRIPT_PATTERNS"`
	Synthesize     bool               `yaml:"synthesize" env:"M3U8CMD_SYNTHESIZE"`
	Decoys         []string           `yaml:"decoys" env:"M3U8CMD_DECOYS" env-separator:","`
	Providers      []locator.Provider `yaml:"providers" validate:"dive"`
	MinTokenLength int                `yaml:"min_token_length" env:"M3U8CMD_MIN_TOKEN_LENGTH" validate:"gte=1"`
}

// NamingConfig holds title extraction and output naming settings
type NamingConfig struct {
	Variant      string `yaml:"variant" env:"M3U8CMD_VARIANT" validate:"oneof=strict lenient"`
	PageFallback string `yaml:"page_fallback" env:"M3U8CMD_PAGE_FALLBACK" validate:"oneof=random fixed"`
	Extension    string `yaml:"extension" env:"M3U8CMD_EXTENSION" validate:"required"`
	DefaultTitle string `yaml:"default_title" env:"M3U8CMD_DEFAULT_TITLE" validate:"required"`
}

// OutputConfig holds command and delivery settings
type OutputConfig struct {
	Tool             string        `yaml:"tool" env:"M3U8CMD_TOOL" validate:"required"`
	PathSeparator    string        `yaml:"path_separator" env:"M3U8CMD_PATH_SEPARATOR" validate:"required"`
	Clipboard        bool          `yaml:"clipboard" env:"M3U8CMD_CLIPBOARD"`
	ClipboardTimeout time.Duration `yaml:"clipboard_timeout" env:"M3U8CMD_CLIPBOARD_TIMEOUT" validate:"gt=0"`
	ExtraArgs        []string      `yaml:"extra_args" env:"M3U8CMD_EXTRA_ARGS" env-separator:","`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Input:            "",
		PageURL:          "",
		FramesDir:        "",
		AllowCrossOrigin: false,
		MaxDepth:         frames.DefaultMaxDepth,

		Locator: LocatorConfig{
			ScriptPatterns: true,
			Synthesize:     true,
			Decoys:         locator.DefaultDecoys(),
			Providers:      locator.DefaultProviders(),
			MinTokenLength: locator.DefaultMinTokenLength,
		},

		Naming: NamingConfig{
			Variant:      naming.VariantStrict,
			PageFallback: metadata.FallbackRandom,
			Extension:    naming.DefaultExtension,
			DefaultTitle: models.DefaultMainTitle,
		},

		Output: OutputConfig{
			Tool:             command.DefaultTool,
			PathSeparator:    command.DefaultSeparator,
			Clipboard:        true,
			ClipboardTimeout: notify.DefaultTimeout,
		},

		MetricsFile: "",
		Verbose:     false,
		Trace:       false,
		DryRun:      false,
	}
}

// Copy creates a deep copy of the config
func (c *Config) Copy() *Config {
	copy := *c
	copy.Locator.Decoys = slices.Clone(c.Locator.Decoys)
	copy.Locator.Providers = slices.Clone(c.Locator.Providers)
	copy.Output.ExtraArgs = slices.Clone(c.Output.ExtraArgs)
	return &copy
}

// VariantValues returns valid naming variants
func VariantValues() []string {
	return []string{naming.VariantStrict, naming.VariantLenient}
}

// PageFallbackValues returns valid page fallback modes
func PageFallbackValues() []string {
	return []string{metadata.FallbackRandom, metadata.FallbackFixed}
}

// LogLevel returns the lowest log status to print: VERBOSE with Trace,
// DEBUG with Verbose, INFO otherwise.
func (c *Config) LogLevel() logger.LogStatus {
	switch {
	case c.Trace:
		return logger.VERBOSE
	case c.Verbose:
		return logger.DEBUG
	default:
		return logger.DefaultMinStatus
	}
}

// ReadsStdin reports whether the page is read from standard input.
func (c *Config) ReadsStdin() bool {
	return c.Input == StdinInput
}

// LocatorOptions converts the locator settings.
func (c *Config) LocatorOptions() locator.Options {
	return locator.Options{
		ScriptPatterns: c.Locator.ScriptPatterns,
		Synthesize:     c.Locator.Synthesize,
		Decoys:         slices.Clone(c.Locator.Decoys),
		Providers:      slices.Clone(c.Locator.Providers),
		MinTokenLength: c.Locator.MinTokenLength,
	}
}

// MetadataOptions converts the naming settings used during extraction.
func (c *Config) MetadataOptions() metadata.Options {
	return metadata.Options{
		DefaultTitle: c.Naming.DefaultTitle,
		Reconcile:    c.Naming.Variant == naming.VariantLenient,
		PageFallback: c.Naming.PageFallback,
	}
}

// NamingPolicy returns the path policy for the configured variant.
func (c *Config) NamingPolicy() (naming.Policy, error) {
	p, err := naming.PolicyFor(c.Naming.Variant)
	if err != nil {
		return naming.Policy{}, err
	}
	p.Extension = c.Naming.Extension
	p.DefaultTitle = c.Naming.DefaultTitle
	return p, nil
}
