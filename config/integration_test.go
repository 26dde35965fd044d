package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "m3u8cmd.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config: %v", err)
	}
	return path
}

func TestLoadConfig_AllLayersPriority(t *testing.T) {
	isolateEnv(t)
	inputPath := createTempFile(t)

	// Config file sets variant, depth and tool
	configPath := writeConfig(t, `max_depth: 2
naming:
  variant: lenient
output:
  tool: from-file.bat
  clipboard_timeout: 5s
`)

	// Environment overrides the tool
	t.Setenv("M3U8CMD_TOOL", "from-env.bat")

	// CLI flag overrides the depth
	cfg, err := LoadConfigArgs([]string{
		"-config", configPath,
		"-max-depth", "1",
		inputPath,
	})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MaxDepth != 1 {
		t.Errorf("Expected max depth 1 (from CLI), got %d", cfg.MaxDepth)
	}
	if cfg.Output.Tool != "from-env.bat" {
		t.Errorf("Expected tool 'from-env.bat' (from env), got '%s'", cfg.Output.Tool)
	}
	if cfg.Naming.Variant != "lenient" {
		t.Errorf("Expected variant 'lenient' (from file), got '%s'", cfg.Naming.Variant)
	}
	if cfg.Output.ClipboardTimeout.String() != "5s" {
		t.Errorf("Expected clipboard timeout 5s (from file), got %s", cfg.Output.ClipboardTimeout)
	}
	if cfg.Naming.PageFallback != "random" {
		t.Errorf("Expected page fallback 'random' (default), got '%s'", cfg.Naming.PageFallback)
	}
	if cfg.Input != inputPath {
		t.Errorf("Expected input '%s', got '%s'", inputPath, cfg.Input)
	}
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfigArgs([]string{"-input", "-"})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.MaxDepth != defaults.MaxDepth {
		t.Errorf("Expected default max depth %d, got %d", defaults.MaxDepth, cfg.MaxDepth)
	}
	if cfg.Output.Tool != defaults.Output.Tool {
		t.Errorf("Expected default tool '%s', got '%s'", defaults.Output.Tool, cfg.Output.Tool)
	}
	if !cfg.ReadsStdin() {
		t.Error("Expected stdin input")
	}
}

func TestLoadConfig_EnvWithoutFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv("M3U8CMD_VARIANT", "lenient")
	t.Setenv("M3U8CMD_DECOYS", "https://a.com/x.m3u8,https://b.com/y.m3u8")
	t.Setenv("M3U8CMD_CLIPBOARD_TIMEOUT", "250ms")

	cfg, err := LoadConfigArgs([]string{"-"})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Naming.Variant != "lenient" {
		t.Errorf("Expected variant 'lenient' (from env), got '%s'", cfg.Naming.Variant)
	}
	if len(cfg.Locator.Decoys) != 2 || cfg.Locator.Decoys[1] != "https://b.com/y.m3u8" {
		t.Errorf("Expected two decoys from env, got %v", cfg.Locator.Decoys)
	}
	if cfg.Output.ClipboardTimeout.String() != "250ms" {
		t.Errorf("Expected clipboard timeout 250ms, got %s", cfg.Output.ClipboardTimeout)
	}
}

func TestLoadConfig_ProvidersFromFile(t *testing.T) {
	isolateEnv(t)
	configPath := writeConfig(t, `locator:
  providers:
    - name: brightcove
      fragment: brightcove
      template: https://manifest.prod.boltdns.net/manifest/v1/hls/{id}.m3u8
`)

	cfg, err := LoadConfigArgs([]string{"-config", configPath, "-"})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.Locator.Providers) != 1 || cfg.Locator.Providers[0].Name != "brightcove" {
		t.Errorf("Expected providers from file to replace defaults, got %+v", cfg.Locator.Providers)
	}
}

func TestLoadConfig_InvalidConfig(t *testing.T) {
	isolateEnv(t)

	_, err := LoadConfigArgs([]string{"-variant", "loose", "-"})
	if err == nil {
		t.Fatal("Expected validation error for invalid variant")
	}
	if !strings.Contains(err.Error(), "naming.variant") {
		t.Errorf("Expected error to mention naming.variant, got: %v", err)
	}
}

func TestLoadConfig_InvalidConfigFile(t *testing.T) {
	isolateEnv(t)
	configPath := writeConfig(t, "naming: [unclosed\n")

	_, err := LoadConfigArgs([]string{"-config", configPath, "-"})
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to load config file") {
		t.Errorf("Expected load error, got: %v", err)
	}
}

func TestLoadConfig_MissingConfigFile(t *testing.T) {
	isolateEnv(t)

	_, err := LoadConfigArgs([]string{"-config", "/nonexistent/m3u8cmd.yaml", "-"})
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestLoadConfig_HomeConfig(t *testing.T) {
	isolateEnv(t)
	home := os.Getenv("HOME")
	dir := filepath.Join(home, ".m3u8cmd")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output:\n  tool: home.bat\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfigArgs([]string{"-"})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Output.Tool != "home.bat" {
		t.Errorf("Expected tool 'home.bat' from home config, got '%s'", cfg.Output.Tool)
	}
}
