package types

import (
	"github.com/rs/zerolog"
	"github.com/victorhqc/photos-manager/config"
)

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string
	RunID   string
	Workers int
	Logger  zerolog.Logger
	Config  *config.Config
}

// VersionOrDefault returns the version, tolerating a nil context
func (a *AppContext) VersionOrDefault() string {
	if a == nil || a.Version == "" {
		return DefaultVersion
	}
	return a.Version
}

// Log returns the logger, or a disabled one for a nil context
func (a *AppContext) Log() zerolog.Logger {
	if a == nil {
		return zerolog.Nop()
	}
	return a.Logger
}
