package utils

import (
	"path/filepath"
	"runtime"
	"strings"
)

// IsNetworkDrive detects if a file path is on a network-mounted drive
func IsNetworkDrive(filePath string) bool {
	// Check Windows UNC paths first, before converting to absolute path
	if strings.HasPrefix(filePath, "//") || strings.HasPrefix(filePath, "\\\\") {
		return true
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return false
	}

	networkPrefixes := []string{
		"/mnt/",     // Linux NFS/SMB mounts
		"/media/",   // Linux removable/network media
		"/Volumes/", // macOS network volumes
	}
	for _, prefix := range networkPrefixes {
		if strings.HasPrefix(absPath, prefix) {
			return true
		}
	}

	lowerPath := strings.ToLower(absPath)
	for _, indicator := range []string{"nfs", "cifs", "smb", "webdav", "ftp", "sftp"} {
		if strings.Contains(lowerPath, indicator) {
			return true
		}
	}

	return false
}

// Workers picks the worker count for a run. An explicit positive count wins;
// otherwise a single worker is used when any path is on a network drive, and
// one per CPU for local disks.
func Workers(requested int, paths ...string) int {
	if requested > 0 {
		return requested
	}
	for _, p := range paths {
		if IsNetworkDrive(p) {
			return 1
		}
	}
	return runtime.NumCPU()
}
