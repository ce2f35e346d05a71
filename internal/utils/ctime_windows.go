//go:build windows

package utils

import (
	"os"
	"syscall"
	"time"
)

// CreationTime returns the file creation time recorded by NTFS.
func CreationTime(info os.FileInfo) (time.Time, bool) {
	attributeData, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(0, attributeData.CreationTime.Nanoseconds()), true
}
