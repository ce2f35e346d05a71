// Package classify decides whether paths are excluded from a scan and whether
// file content is binary. Classification is pure: a Config plus an input
// always yields the same answer and no error escapes.
package classify

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/mtarasov/projmap/internal/utils"
)

// DefaultSniffLength is the number of leading bytes inspected when deciding
// whether a file is binary. Large enough to catch NUL bytes and invalid
// encoding sequences in practice; overridable through Config.SniffLength.
const DefaultSniffLength = 8000

// DefaultExcludedDirectories is the directory-name exclusion set applied when
// no configuration overrides it: version-control and virtual-environment
// folders plus dependency caches.
var DefaultExcludedDirectories = []string{
	"venv", "__pycache__", ".venv", "env", "node_modules", ".git",
}

// Config captures the exclusion rules and the binary heuristic parameters for
// one scan. A Config is immutable for the duration of a scan; callers build a
// fresh one when the user edits the rules.
type Config struct {
	// ExcludedDirectories are base names matched exactly and case-sensitively
	// against directory entries. A matching directory is materialized but
	// never traversed.
	ExcludedDirectories []string
	// ExcludePatterns are filepath.Match globs evaluated against file base
	// names, e.g. "*.log" or "Thumbs.db".
	ExcludePatterns []string
	// SniffLength bounds the leading chunk read for binary detection.
	// Zero or negative values fall back to DefaultSniffLength.
	SniffLength int
}

// DefaultConfig returns a Config carrying the default exclusion set.
func DefaultConfig() Config {
	return Config{
		ExcludedDirectories: append([]string(nil), DefaultExcludedDirectories...),
		SniffLength:         DefaultSniffLength,
	}
}

// IsExcludedDirectory reports whether a directory base name matches the
// configured exclusion set.
func (configuration Config) IsExcludedDirectory(directoryName string) bool {
	return utils.ContainsString(configuration.ExcludedDirectories, directoryName)
}

// IsExcludedFile reports whether a file base name matches any configured
// exclusion glob. Extension-style patterns such as "*.bin" short-circuit the
// content check entirely.
func (configuration Config) IsExcludedFile(fileName string) bool {
	for _, patternValue := range configuration.ExcludePatterns {
		isMatched, matchError := filepath.Match(patternValue, fileName)
		if matchError == nil && isMatched {
			return true
		}
		if strings.HasPrefix(patternValue, ".") && strings.EqualFold(filepath.Ext(fileName), patternValue) {
			return true
		}
	}
	return false
}

func (configuration Config) sniffLength() int {
	if configuration.SniffLength > 0 {
		return configuration.SniffLength
	}
	return DefaultSniffLength
}

// IsBinary reports whether the provided byte slice appears to contain binary
// data: any NUL byte or an invalid UTF-8 sequence classifies the content as
// binary. This is a heuristic, not a guarantee.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return false
}

// IsFileBinary reads up to the configured sniff length from the file at path
// and determines if the content appears to be binary. Unreadable files report
// false; the read failure surfaces later when the walker attempts the full
// read.
func (configuration Config) IsFileBinary(path string) bool {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false
	}
	defer fileHandle.Close()

	buffer := make([]byte, configuration.sniffLength())
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return false
	}
	return IsBinary(buffer[:bytesRead])
}
