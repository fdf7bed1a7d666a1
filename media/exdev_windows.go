//go:build windows

package media

import (
	"errors"

	"golang.org/x/sys/windows"
)

// isEXDEV matches the error MoveFileEx returns for a move between drives.
func isEXDEV(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_SAME_DEVICE)
}
