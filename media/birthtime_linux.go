//go:build linux

package media

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

func birthTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err != nil {
		return time.Time{}, fmt.Errorf("failed to access file metadata: %w", err)
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, ErrBirthTimeMissing
	}
	return time.Unix(stx.Btime.Sec, 0).UTC(), nil
}
