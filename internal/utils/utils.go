// Package utils contains small helpers shared across the scanning tool.
package utils

import (
	"path/filepath"
)

// DeduplicatePatterns drops repeated entries from a pattern list, keeping the
// first occurrence of each and the original order.
func DeduplicatePatterns(patterns []string) []string {
	seenPatterns := make(map[string]struct{}, len(patterns))
	deduplicated := make([]string, 0, len(patterns))
	for _, patternValue := range patterns {
		if _, alreadySeen := seenPatterns[patternValue]; alreadySeen {
			continue
		}
		seenPatterns[patternValue] = struct{}{}
		deduplicated = append(deduplicated, patternValue)
	}
	return deduplicated
}

// ContainsString reports whether targetString occurs in stringSlice.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, candidate := range stringSlice {
		if candidate == targetString {
			return true
		}
	}
	return false
}

// RelativePathOrSelf rewrites fullPath relative to root, using forward
// slashes. It returns "." when both resolve to the same directory and the
// cleaned input when no relative form can be computed.
func RelativePathOrSelf(fullPath, root string) string {
	cleanedPath := filepath.Clean(fullPath)
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return cleanedPath
	}
	cleanedRoot := filepath.Clean(absoluteRoot)
	if cleanedPath == cleanedRoot {
		return "."
	}
	relativePath, relativeError := filepath.Rel(cleanedRoot, cleanedPath)
	if relativeError != nil {
		return cleanedPath
	}
	return filepath.ToSlash(relativePath)
}
