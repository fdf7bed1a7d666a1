//go:build !linux && !darwin && !windows

package media

import "time"

func birthTime(string) (time.Time, error) {
	return time.Time{}, ErrBirthTimeMissing
}
