package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mtarasov/projmap/internal/config"
)

func boolPointer(value bool) *bool {
	return &value
}

func TestLoadApplicationConfigurationReadsLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	configurationBody := `scan:
  exclude_dirs:
    - dist
    - dist
  exclude_patterns:
    - "*.log"
  binary_sniff_bytes: 512
  tokens:
    enabled: true
    model: gpt-4o
tree:
  expand_depth: 2
  show_excluded: true
`
	configurationPath := filepath.Join(workingDirectory, config.ConfigFileName)
	if writeError := os.WriteFile(configurationPath, []byte(configurationBody), 0o644); writeError != nil {
		t.Fatalf("writing configuration: %v", writeError)
	}

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", loadError)
	}

	if len(loaded.Scan.ExcludeDirs) != 1 || loaded.Scan.ExcludeDirs[0] != "dist" {
		t.Fatalf("unexpected exclude dirs: %v", loaded.Scan.ExcludeDirs)
	}
	if len(loaded.Scan.ExcludePatterns) != 1 || loaded.Scan.ExcludePatterns[0] != "*.log" {
		t.Fatalf("unexpected exclude patterns: %v", loaded.Scan.ExcludePatterns)
	}
	if loaded.Scan.BinarySniffBytes != 512 {
		t.Fatalf("unexpected sniff bytes: %d", loaded.Scan.BinarySniffBytes)
	}
	if loaded.Scan.Tokens.Enabled == nil || !*loaded.Scan.Tokens.Enabled || loaded.Scan.Tokens.Model != "gpt-4o" {
		t.Fatalf("unexpected token configuration: %+v", loaded.Scan.Tokens)
	}
	if loaded.Tree.ExpandDepth == nil || *loaded.Tree.ExpandDepth != 2 {
		t.Fatalf("unexpected expand depth: %+v", loaded.Tree.ExpandDepth)
	}
	if loaded.Tree.ShowExcluded == nil || !*loaded.Tree.ShowExcluded {
		t.Fatalf("unexpected show excluded: %+v", loaded.Tree.ShowExcluded)
	}
}

func TestLoadApplicationConfigurationMissingFilesAreNotErrors(t *testing.T) {
	workingDirectory := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		t.Fatalf("missing configuration must not fail: %v", loadError)
	}
	if len(loaded.Scan.ExcludeDirs) != 0 {
		t.Fatalf("expected zero configuration, got %+v", loaded)
	}
}

func TestLoadApplicationConfigurationMergesGlobalAndLocal(t *testing.T) {
	homeDirectory := t.TempDir()
	workingDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)

	globalDirectory := filepath.Join(homeDirectory, config.GlobalConfigDirectoryName)
	if makeDirError := os.MkdirAll(globalDirectory, 0o755); makeDirError != nil {
		t.Fatalf("mkdir global: %v", makeDirError)
	}
	globalBody := `scan:
  exclude_dirs:
    - target
  binary_sniff_bytes: 1024
tree:
  show_counts: true
`
	if writeError := os.WriteFile(filepath.Join(globalDirectory, config.GlobalConfigFileName), []byte(globalBody), 0o644); writeError != nil {
		t.Fatalf("writing global configuration: %v", writeError)
	}
	localBody := `scan:
  binary_sniff_bytes: 256
`
	if writeError := os.WriteFile(filepath.Join(workingDirectory, config.ConfigFileName), []byte(localBody), 0o644); writeError != nil {
		t.Fatalf("writing local configuration: %v", writeError)
	}

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", loadError)
	}
	if loaded.Scan.BinarySniffBytes != 256 {
		t.Fatalf("local value must win: %d", loaded.Scan.BinarySniffBytes)
	}
	if len(loaded.Scan.ExcludeDirs) != 1 || loaded.Scan.ExcludeDirs[0] != "target" {
		t.Fatalf("global exclude dirs must survive: %v", loaded.Scan.ExcludeDirs)
	}
	if loaded.Tree.ShowCounts == nil || !*loaded.Tree.ShowCounts {
		t.Fatalf("global tree settings must survive: %+v", loaded.Tree)
	}
}

func TestMergeOverridesPointerBooleans(t *testing.T) {
	base := config.ApplicationConfiguration{}
	base.Scan.Clipboard = boolPointer(true)

	override := config.ApplicationConfiguration{}
	override.Scan.Clipboard = boolPointer(false)

	merged := base.Merge(override)
	if merged.Scan.Clipboard == nil || *merged.Scan.Clipboard {
		t.Fatalf("override pointer boolean must win: %+v", merged.Scan.Clipboard)
	}

	noOverride := base.Merge(config.ApplicationConfiguration{})
	if noOverride.Scan.Clipboard == nil || !*noOverride.Scan.Clipboard {
		t.Fatalf("absent override must preserve the base value: %+v", noOverride.Scan.Clipboard)
	}
}
