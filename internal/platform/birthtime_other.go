//go:build !linux && !darwin && !windows

package platform

import (
	"os"
	"time"
)

// FileBirthTime falls back to the modification time where the OS does not
// expose a creation time.
func FileBirthTime(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}
