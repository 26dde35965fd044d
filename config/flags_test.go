package config

import (
	"testing"
	"time"

	"m3u8cmd/internal/logger"
)

func TestMergeFromArgs_Input(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"flag", []string{"-input", "page.html"}, "page.html"},
		{"positional", []string{"-verbose", "page.html"}, "page.html"},
		{"flag wins over positional", []string{"-input", "a.html", "b.html"}, "a.html"},
		{"stdin", []string{"-input", "-"}, "-"},
		{"none", []string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.MergeFromArgs(tt.args); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg.Input != tt.want {
				t.Errorf("Expected input '%s', got '%s'", tt.want, cfg.Input)
			}
		})
	}
}

func TestMergeFromArgs_AllFlags(t *testing.T) {
	args := []string{
		"-input", "page.html",
		"-page-url", "https://lms.example.com/course/7",
		"-frames-dir", "/tmp/frames",
		"-allow-cross-origin",
		"-max-depth", "5",
		"-no-scripts",
		"-no-synthesize",
		"-variant", "lenient",
		"-page-fallback", "fixed",
		"-extension", ".ts",
		"-default-title", "Lecture",
		"-tool", "dlm3u8.sh",
		"-path-separator", "/",
		"-no-clipboard",
		"-clipboard-timeout", "750ms",
		"-extra-args", "--threads=4, ,--no-merge",
		"-metrics-file", "/tmp/m3u8cmd.prom",
		"-save-config", "/tmp/m3u8cmd.yaml",
		"-verbose",
		"-trace",
		"-dry-run",
	}

	cfg := DefaultConfig()
	if err := cfg.MergeFromArgs(args); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.PageURL != "https://lms.example.com/course/7" {
		t.Errorf("Expected page url, got '%s'", cfg.PageURL)
	}
	if cfg.FramesDir != "/tmp/frames" {
		t.Errorf("Expected frames dir '/tmp/frames', got '%s'", cfg.FramesDir)
	}
	if !cfg.AllowCrossOrigin {
		t.Error("Expected cross-origin frames to be allowed")
	}
	if cfg.MaxDepth != 5 {
		t.Errorf("Expected max depth 5, got %d", cfg.MaxDepth)
	}
	if cfg.Locator.ScriptPatterns || cfg.Locator.Synthesize {
		t.Error("Expected script patterns and synthesis to be disabled")
	}
	if cfg.Naming.Variant != "lenient" {
		t.Errorf("Expected variant 'lenient', got '%s'", cfg.Naming.Variant)
	}
	if cfg.Naming.PageFallback != "fixed" {
		t.Errorf("Expected page fallback 'fixed', got '%s'", cfg.Naming.PageFallback)
	}
	if cfg.Naming.Extension != ".ts" {
		t.Errorf("Expected extension '.ts', got '%s'", cfg.Naming.Extension)
	}
	if cfg.Naming.DefaultTitle != "Lecture" {
		t.Errorf("Expected default title 'Lecture', got '%s'", cfg.Naming.DefaultTitle)
	}
	if cfg.Output.Tool != "dlm3u8.sh" {
		t.Errorf("Expected tool 'dlm3u8.sh', got '%s'", cfg.Output.Tool)
	}
	if cfg.Output.PathSeparator != "/" {
		t.Errorf("Expected separator '/', got '%s'", cfg.Output.PathSeparator)
	}
	if cfg.Output.Clipboard {
		t.Error("Expected clipboard to be disabled")
	}
	if cfg.Output.ClipboardTimeout != 750*time.Millisecond {
		t.Errorf("Expected clipboard timeout 750ms, got %s", cfg.Output.ClipboardTimeout)
	}
	if len(cfg.Output.ExtraArgs) != 2 || cfg.Output.ExtraArgs[0] != "--threads=4" || cfg.Output.ExtraArgs[1] != "--no-merge" {
		t.Errorf("Expected extra args [--threads=4 --no-merge], got %v", cfg.Output.ExtraArgs)
	}
	if cfg.MetricsFile != "/tmp/m3u8cmd.prom" {
		t.Errorf("Expected metrics file, got '%s'", cfg.MetricsFile)
	}
	if cfg.SaveConfig != "/tmp/m3u8cmd.yaml" {
		t.Errorf("Expected save config path, got '%s'", cfg.SaveConfig)
	}
	if !cfg.Verbose || !cfg.Trace || !cfg.DryRun {
		t.Error("Expected verbose, trace and dry-run to be enabled")
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected logger.LogStatus
	}{
		{"default", nil, logger.INFO},
		{"verbose", []string{"-verbose"}, logger.DEBUG},
		{"trace", []string{"-trace"}, logger.VERBOSE},
		{"trace wins over verbose", []string{"-verbose", "-trace"}, logger.VERBOSE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.MergeFromArgs(tt.args); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := cfg.LogLevel(); got != tt.expected {
				t.Errorf("Expected log level %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestMergeFromArgs_Toggles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Locator.ScriptPatterns = false
	cfg.Locator.Synthesize = false

	if err := cfg.MergeFromArgs([]string{"-scripts", "-synthesize"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !cfg.Locator.ScriptPatterns || !cfg.Locator.Synthesize {
		t.Error("Expected -scripts and -synthesize to re-enable the strategies")
	}
}

func TestMergeFromArgs_PartialOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Naming.Variant = "lenient"
	cfg.MaxDepth = 2

	if err := cfg.MergeFromArgs([]string{"-tool", "other.bat"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Output.Tool != "other.bat" {
		t.Errorf("Expected tool 'other.bat', got '%s'", cfg.Output.Tool)
	}
	// Unset flags must not touch existing values
	if cfg.Naming.Variant != "lenient" {
		t.Errorf("Expected variant 'lenient' to be preserved, got '%s'", cfg.Naming.Variant)
	}
	if cfg.MaxDepth != 2 {
		t.Errorf("Expected max depth 2 to be preserved, got %d", cfg.MaxDepth)
	}
	if cfg.Output.ClipboardTimeout != DefaultConfig().Output.ClipboardTimeout {
		t.Errorf("Expected clipboard timeout to be preserved, got %s", cfg.Output.ClipboardTimeout)
	}
}

func TestMergeFromArgs_ZeroDepth(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.MergeFromArgs([]string{"-max-depth", "0"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.MaxDepth != 0 {
		t.Errorf("Expected max depth 0, got %d", cfg.MaxDepth)
	}
}

func TestMergeFromArgs_UnknownFlag(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.MergeFromArgs([]string{"-no-such-flag"}); err == nil {
		t.Error("Expected error for unknown flag")
	}
}

func TestConfigFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"separate value", []string{"-config", "a.yaml"}, "a.yaml"},
		{"double dash", []string{"--config", "b.yaml"}, "b.yaml"},
		{"equals", []string{"-config=c.yaml"}, "c.yaml"},
		{"missing value", []string{"-config"}, ""},
		{"positional named config", []string{"config"}, ""},
		{"absent", []string{"-verbose", "page.html"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := configFlag(tt.args); got != tt.want {
				t.Errorf("configFlag(%v) = '%s'; want '%s'", tt.args, got, tt.want)
			}
		})
	}
}
