package media

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

func birthTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, fmt.Errorf("failed to access file metadata: %w", err)
	}
	return time.Unix(st.Birthtimespec.Sec, 0).UTC(), nil
}
