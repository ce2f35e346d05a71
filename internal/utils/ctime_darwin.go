//go:build darwin

package utils

import (
	"os"
	"syscall"
	"time"
)

// CreationTime returns the file birth time when the platform records one.
func CreationTime(info os.FileInfo) (time.Time, bool) {
	statValue, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(statValue.Birthtimespec.Sec, statValue.Birthtimespec.Nsec), true
}
