//go:build !darwin && !windows

package utils

import (
	"os"
	"time"
)

// CreationTime reports that no reliable creation time exists on this platform.
// Linux exposes only change time through the portable stat interface, which is
// not the same thing, so the metadata stays absent rather than wrong.
func CreationTime(_ os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
