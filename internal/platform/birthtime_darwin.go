package platform

import (
	"os"
	"syscall"
	"time"
)

// FileBirthTime returns the creation time recorded by APFS/HFS+.
func FileBirthTime(_ string, info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
}
