package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Platform represents the detected platform
type Platform string

const (
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
	PlatformWSL1    Platform = "wsl1"
	PlatformWSL2    Platform = "wsl2"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

var (
	detectOnce       sync.Once
	detectedPlatform Platform
)

// Detect returns the current platform. The result is computed once.
func Detect() Platform {
	detectOnce.Do(func() {
		detectedPlatform = detectPlatform()
	})
	return detectedPlatform
}

func detectPlatform() Platform {
	switch runtime.GOOS {
	case "darwin":
		return PlatformMacOS
	case "windows":
		return PlatformWindows
	case "linux":
		return detectLinuxOrWSL(os.Getenv("WSL_DISTRO_NAME"), readProcVersion())
	default:
		return PlatformUnknown
	}
}

func readProcVersion() string {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return ""
	}
	return string(data)
}

// detectLinuxOrWSL tells native Linux from WSL using the distro env var and
// the kernel version string.
func detectLinuxOrWSL(distro, procVersion string) Platform {
	if distro == "" && !strings.Contains(strings.ToLower(procVersion), "microsoft") {
		return PlatformLinux
	}
	// WSL2 kernels report "microsoft-standard"; WSL1 reports "Microsoft"
	if strings.Contains(procVersion, "microsoft-standard") {
		return PlatformWSL2
	}
	if strings.Contains(procVersion, "Microsoft") {
		return PlatformWSL1
	}
	if _, err := os.Stat("/run/WSL"); err == nil {
		return PlatformWSL2
	}
	return PlatformWSL1
}

// IsWSL returns true if running in any WSL environment
func IsWSL() bool {
	p := Detect()
	return p == PlatformWSL1 || p == PlatformWSL2
}

// CanReachWindowsTerminal reports whether wt.exe can be started from here:
// native Windows, or WSL through interop.
func CanReachWindowsTerminal() bool {
	p := Detect()
	return p == PlatformWindows || p == PlatformWSL1 || p == PlatformWSL2
}

// String returns a human-readable platform name
func (p Platform) String() string {
	switch p {
	case PlatformMacOS:
		return "macOS"
	case PlatformLinux:
		return "Linux"
	case PlatformWSL1:
		return "WSL1"
	case PlatformWSL2:
		return "WSL2"
	case PlatformWindows:
		return "Windows"
	default:
		return "Unknown"
	}
}

// CheckFsnotifySupport returns a warning when path lives on a filesystem
// where fsnotify events are unreliable (9p, nfs, cifs, sshfs), or "" when
// watching should work.
func CheckFsnotifySupport(path string) string {
	if runtime.GOOS != "linux" {
		return ""
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	mounts, err := os.ReadFile("/proc/mounts")
	if err != nil {
		return ""
	}
	return fsnotifyWarning(mountFsType(string(mounts), absPath))
}

// mountFsType finds the filesystem type of the longest mount point
// containing absPath. Format: device mountpoint fstype options ...
func mountFsType(mounts, absPath string) string {
	var matchedMount, matchedFsType string
	for _, line := range strings.Split(mounts, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		mountPoint := fields[1]
		if strings.HasPrefix(absPath, mountPoint) && len(mountPoint) > len(matchedMount) {
			matchedMount = mountPoint
			matchedFsType = fields[2]
		}
	}
	return matchedFsType
}

func fsnotifyWarning(fsType string) string {
	switch {
	case fsType == "9p":
		return "Sessions on 9p mount (WSL2 Windows filesystem): auto refresh off, press R to refresh"
	case fsType == "nfs" || fsType == "nfs4":
		return "Sessions on NFS mount: auto refresh may be unreliable, press R to refresh"
	case fsType == "cifs" || fsType == "smbfs":
		return "Sessions on CIFS/SMB mount: auto refresh may be unreliable, press R to refresh"
	case strings.HasPrefix(fsType, "fuse.sshfs"):
		return "Sessions on SSHFS mount: auto refresh off, press R to refresh"
	}
	return ""
}
