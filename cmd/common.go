package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/victorhqc/photos-manager/types"
	"github.com/victorhqc/photos-manager/utils"
)

// signalContext is cancelled on Ctrl+C or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// resolveWorkers uses the --workers flag or config value when set, otherwise
// the network drive heuristic.
func resolveWorkers(appCtx *types.AppContext, paths ...string) int {
	requested := 0
	if appCtx != nil {
		requested = appCtx.Workers
	}
	return utils.Workers(requested, paths...)
}

func elapsed(started time.Time) time.Duration {
	d := time.Since(started)
	if d < time.Second {
		return d.Round(time.Millisecond)
	}
	return d.Round(100 * time.Millisecond)
}
