package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/victorhqc/photos-manager/media"
	"github.com/victorhqc/photos-manager/progress"
	"github.com/victorhqc/photos-manager/types"
	"github.com/victorhqc/photos-manager/ui"
)

// OrderCmd moves photos and videos into YYYY-MM folders named after the date
// each one was taken.
type OrderCmd struct {
	Source string `arg:"" name:"source" help:"File or directory with the photos to organize" type:"path"`
	Target string `arg:"" name:"target" help:"Directory that receives the YYYY-MM folders" type:"path"`
	From   string `help:"Skip anything taken before this date (YYYY-MM-DD); only used for directories" placeholder:"YYYY-MM-DD"`
	DryRun bool   `name:"dry-run" help:"Show where every file would go without moving anything"`
}

// Run gathers the source tree, then moves every asset while the progress
// reporter follows along.
func (cmd *OrderCmd) Run(appCtx *types.AppContext) error {
	started := time.Now()
	logger := appCtx.Log().With().Str("command", "order").Logger()

	ctx, cancel := signalContext()
	defer cancel()

	cutoff, err := cmd.cutoff()
	if err != nil {
		return err
	}

	if !cmd.DryRun && cmd.lockEnabled(appCtx) {
		unlock, err := lockTarget(cmd.Target)
		if err != nil {
			return err
		}
		defer func() {
			if err := unlock(); err != nil {
				logger.Warn().Err(err).Msg("failed to release target lock")
			}
		}()
	}

	workers := resolveWorkers(appCtx, cmd.Source, cmd.Target)
	logger.Debug().
		Str("source", cmd.Source).
		Str("target", cmd.Target).
		Int("workers", workers).
		Bool("dry_run", cmd.DryRun).
		Msg("ordering photos")

	fmt.Println(ui.Step(1, 2, "🔍 Gathering photos..."))
	reporter := progress.NewReporter(os.Stdout)
	reporter.StartSpinner("")

	ch := progress.NewChannels()
	errCh := make(chan error, 1)
	var result media.OrganizeResult

	go func() {
		defer ch.Close()
		assets, err := media.Discover(ctx, cmd.Source, media.DiscoverOptions{
			Workers:    workers,
			Logger:     logger,
			OnFound:    func(a media.Asset) { reporter.Found(a.Name()) },
			OnComplete: ch.SendTotal,
		})
		if err != nil {
			errCh <- err
			return
		}
		result, err = media.Organize(ctx, assets, cmd.Target, media.OrganizeOptions{
			Cutoff:     cutoff,
			Workers:    workers,
			DryRun:     cmd.DryRun,
			Resolver:   media.NewResolver(logger),
			Logger:     logger,
			OnMoved:    ch.Inc,
			OnComplete: ch.Done,
		})
		errCh <- err
	}()

	_, runErr := reporter.Run(ctx, ch, func(total int) {
		fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("   📷 Found %s photos!", humanize.Comma(int64(total)))))
		step := "🚚 Moving photos..."
		if cmd.DryRun {
			step = "🗺️  Planning photos..."
		}
		fmt.Println(ui.Step(2, 2, step))
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

	if cmd.DryRun {
		fmt.Println(renderPlan(cmd.Target, result.Placements))
	}
	fmt.Println(ui.SuccessStyle.Render(fmt.Sprintf("      ✅ Finished ordering photos in %s!", elapsed(started))))
	fmt.Println(ui.InfoStyle.Render(summarizeOrder(result, cmd.DryRun)))
	return nil
}

func (cmd *OrderCmd) cutoff() (*time.Time, error) {
	if cmd.From == "" {
		return nil, nil
	}
	fi, err := os.Stat(cmd.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	if !fi.IsDir() {
		return nil, nil
	}
	t, err := media.ParseCutoff(cmd.From)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (cmd *OrderCmd) lockEnabled(appCtx *types.AppContext) bool {
	if appCtx == nil || appCtx.Config == nil {
		return true
	}
	return appCtx.Config.Order.Lock
}

func summarizeOrder(r media.OrganizeResult, dryRun bool) string {
	done := fmt.Sprintf("%s moved", humanize.Comma(int64(r.Moved)))
	if dryRun {
		done = fmt.Sprintf("%s planned", humanize.Comma(int64(r.Planned)))
	}
	return fmt.Sprintf("      %s, %s before cutoff, %s already in place",
		done,
		humanize.Comma(int64(r.SkippedBeforeCutoff)),
		humanize.Comma(int64(r.SkippedExisting)))
}

// renderPlan lists every placement of a dry run, relative to target
func renderPlan(target string, placements []media.Placement) string {
	rows := make([][]string, 0, len(placements))
	for _, p := range placements {
		dest := p.Destination
		if rel, err := filepath.Rel(target, dest); err == nil {
			dest = rel
		}
		rows = append(rows, []string{
			p.Asset.Name(),
			p.Date.Time.Format(time.DateTime),
			p.Date.Tier.String(),
			dest,
			p.Outcome.String(),
		})
	}
	return renderTable(
		[]string{"File", "Taken", "Source", "Destination", "Outcome"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	)
}
