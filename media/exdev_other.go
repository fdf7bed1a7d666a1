//go:build !unix && !windows

package media

func isEXDEV(error) bool { return false }
