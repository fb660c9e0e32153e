package platform

import (
	"os"
	"syscall"
	"time"
)

// FileBirthTime returns the NTFS creation time.
func FileBirthTime(_ string, info os.FileInfo) time.Time {
	attr, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(0, attr.CreationTime.Nanoseconds())
}
