//go:build windows

package media

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

func birthTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to access file metadata: %w", err)
	}
	attrs, ok := fi.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, ErrBirthTimeMissing
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds()).UTC(), nil
}
