// Package config loads application configuration from global and local files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mtarasov/projmap/internal/utils"
)

const (
	// ConfigFileName is the per-project configuration file.
	ConfigFileName = ".projmap.yaml"
	// GlobalConfigDirectoryName holds the user-level configuration below the
	// home directory.
	GlobalConfigDirectoryName = ".config/projmap"
	// GlobalConfigFileName is the user-level configuration file.
	GlobalConfigFileName = "config.yaml"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Scan ScanConfiguration `mapstructure:"scan"`
	Tree TreeConfiguration `mapstructure:"tree"`
}

// ScanConfiguration defines defaults shared by the structure and concat
// commands: exclusion rules, the binary heuristic bound, token counting, and
// clipboard behavior.
type ScanConfiguration struct {
	Format           string             `mapstructure:"format"`
	ExcludeDirs      []string           `mapstructure:"exclude_dirs"`
	ExcludePatterns  []string           `mapstructure:"exclude_patterns"`
	BinarySniffBytes int                `mapstructure:"binary_sniff_bytes"`
	Tokens           TokenConfiguration `mapstructure:"tokens"`
	Clipboard        *bool              `mapstructure:"clipboard"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// TreeConfiguration defines defaults for the tree command's projection.
type TreeConfiguration struct {
	ExpandDepth  *int  `mapstructure:"expand_depth"`
	ShowExcluded *bool `mapstructure:"show_excluded"`
	ShowCounts   *bool `mapstructure:"show_counts"`
	Clipboard    *bool `mapstructure:"clipboard"`
}

// LoadApplicationConfiguration loads configuration from global and local
// files, later sources overriding earlier ones. Missing files are not an
// error; the zero configuration means built-in defaults apply.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, GlobalConfigDirectoryName, GlobalConfigFileName)
		globalConfig, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfig, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfig)
	}

	merged.Scan.ExcludeDirs = utils.DeduplicatePatterns(merged.Scan.ExcludeDirs)
	merged.Scan.ExcludePatterns = utils.DeduplicatePatterns(merged.Scan.ExcludePatterns)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	pathInfo, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if pathInfo.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Scan = result.Scan.merge(override.Scan)
	result.Tree = result.Tree.merge(override.Tree)
	return result
}

func (configuration ScanConfiguration) merge(override ScanConfiguration) ScanConfiguration {
	result := configuration
	if override.Format != "" {
		result.Format = override.Format
	}
	if len(override.ExcludeDirs) > 0 {
		result.ExcludeDirs = append([]string{}, utils.DeduplicatePatterns(override.ExcludeDirs)...)
	}
	if len(override.ExcludePatterns) > 0 {
		result.ExcludePatterns = append([]string{}, utils.DeduplicatePatterns(override.ExcludePatterns)...)
	}
	if override.BinarySniffBytes > 0 {
		result.BinarySniffBytes = override.BinarySniffBytes
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (configuration TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := configuration
	if override.ExpandDepth != nil {
		result.ExpandDepth = cloneInt(override.ExpandDepth)
	}
	if override.ShowExcluded != nil {
		result.ShowExcluded = cloneBool(override.ShowExcluded)
	}
	if override.ShowCounts != nil {
		result.ShowCounts = cloneBool(override.ShowCounts)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
