package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/victorhqc/photos-manager/media"
	"github.com/victorhqc/photos-manager/progress"
	"github.com/victorhqc/photos-manager/types"
	"github.com/victorhqc/photos-manager/ui"
)

// BorderCmd frames photos with a white border, editing them in place.
type BorderCmd struct {
	Source    string `arg:"" name:"source" help:"Photo or directory of photos" type:"path"`
	From      string `help:"Skip photos taken before this date (YYYY-MM-DD); only used for directories" placeholder:"YYYY-MM-DD"`
	Thickness string `help:"Border thickness: thin, medium or thick (defaults to the config value)" placeholder:"SIZE"`
}

// Run discovers the photos under Source and adds a border to each of them.
func (cmd *BorderCmd) Run(appCtx *types.AppContext) error {
	started := time.Now()
	logger := appCtx.Log().With().Str("command", "border").Logger()

	ctx, cancel := signalContext()
	defer cancel()

	thickness, err := media.ParseThickness(cmd.thickness(appCtx))
	if err != nil {
		return err
	}
	workers := resolveWorkers(appCtx, cmd.Source)
	logger.Debug().
		Str("source", cmd.Source).
		Stringer("thickness", thickness).
		Int("workers", workers).
		Msg("adding borders")

	fmt.Println(ui.Step(1, 2, "🔍 Gathering photos..."))
	reporter := progress.NewReporter(os.Stdout)
	reporter.StartSpinner("")

	ch := progress.NewChannels()
	errCh := make(chan error, 1)
	var result media.BorderResult

	go func() {
		defer ch.Close()
		var err error
		result, err = media.AddBorder(ctx, cmd.Source, media.BorderOptions{
			From:      cmd.From,
			Thickness: thickness,
			Workers:   workers,
			Resolver:  media.NewResolver(logger),
			Logger:    logger,
			OnFound:   func(a media.Asset) { reporter.Found(a.Name()) },
			OnTotal:   ch.SendTotal,
			OnInc:     ch.Inc,
			OnDone:    ch.Done,
		})
		errCh <- err
	}()

	var total int
	_, runErr := reporter.Run(ctx, ch, func(n int) {
		total = n
		if n == 1 {
			fmt.Println(ui.InfoStyle.Render("   📷 Adding border to your photo"))
			return
		}
		fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("   📷 Found %s photos!", humanize.Comma(int64(n)))))
		fmt.Println(ui.Step(2, 2, "🖼️  Adding borders..."))
	})
	if runErr != nil {
		go ch.Drain()
	}
	if err := <-errCh; err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	msg := fmt.Sprintf("      ✅ Finished adding border to photos in %s!", elapsed(started))
	if total == 1 {
		msg = fmt.Sprintf("      ✅ Finished adding border in %s!", elapsed(started))
	}
	fmt.Println(ui.SuccessStyle.Render(msg))
	fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("      %s bordered, %s videos, %s before cutoff, %s unsupported format",
		humanize.Comma(int64(result.Bordered)),
		humanize.Comma(int64(result.SkippedVideos)),
		humanize.Comma(int64(result.SkippedBefore)),
		humanize.Comma(int64(result.SkippedFormat)))))
	return nil
}

func (cmd *BorderCmd) thickness(appCtx *types.AppContext) string {
	if cmd.Thickness != "" {
		return cmd.Thickness
	}
	if appCtx != nil && appCtx.Config != nil {
		return appCtx.Config.Border.Thickness
	}
	return ""
}
