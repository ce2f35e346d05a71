package utils

import (
	"fmt"
	"strings"
)

var sizeUnitSuffixes = []string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count with a lower-case unit suffix, keeping
// one fractional digit below ten units and trimming a trailing ".0".
// Negative input renders as zero bytes.
func FormatFileSize(byteCount int64) string {
	if byteCount < 0 {
		return "0b"
	}
	remaining := float64(byteCount)
	suffixIndex := 0
	for remaining >= 1024 && suffixIndex < len(sizeUnitSuffixes)-1 {
		remaining /= 1024
		suffixIndex++
	}
	if suffixIndex == 0 {
		return fmt.Sprintf("%db", byteCount)
	}
	if remaining < 10 {
		fractional := strings.TrimSuffix(fmt.Sprintf("%.1f", remaining), ".0")
		return fractional + sizeUnitSuffixes[suffixIndex]
	}
	return fmt.Sprintf("%.0f%s", remaining, sizeUnitSuffixes[suffixIndex])
}
