package media

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Outcome is what happened to one asset during an organize run.
type Outcome int

const (
	OutcomeMoved Outcome = iota
	OutcomePlanned
	OutcomeSkippedBeforeCutoff
	OutcomeSkippedExisting
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomePlanned:
		return "planned"
	case OutcomeSkippedBeforeCutoff:
		return "before cutoff"
	case OutcomeSkippedExisting:
		return "exists"
	}
	return "unknown"
}

// Placement records where an asset went, or would go in a dry run.
type Placement struct {
	Asset       Asset
	Date        ResolvedDate
	Destination string
	Outcome     Outcome
}

// OrganizeResult summarizes an organize run
type OrganizeResult struct {
	Moved               int
	Planned             int
	SkippedBeforeCutoff int
	SkippedExisting     int
	Placements          []Placement
}

// OrganizeOptions configures Organize. Callbacks are optional.
type OrganizeOptions struct {
	// Cutoff excludes assets resolved strictly before it.
	Cutoff   *time.Time
	Workers  int
	DryRun   bool
	Resolver *Resolver
	Logger   zerolog.Logger

	// OnMoved fires once per attempted asset with an increasing counter.
	OnMoved func(index int)
	// OnComplete fires once after every asset was attempted.
	OnComplete func(total int)
}

// Organize moves every asset into target/YYYY-MM according to its resolved
// date. The first hard failure stops the run; files already moved stay where
// they are.
func Organize(ctx context.Context, assets []Asset, target string, opts OrganizeOptions) (OrganizeResult, error) {
	o := &organizer{
		target:   target,
		opts:     opts,
		resolver: opts.Resolver,
		logger:   opts.Logger,
	}
	if o.resolver == nil {
		o.resolver = NewResolver(opts.Logger)
	}
	moved := opts.OnMoved
	if moved == nil {
		moved = func(int) {}
	}
	complete := opts.OnComplete
	if complete == nil {
		complete = func(int) {}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if !opts.DryRun {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return OrganizeResult{}, &RelocationError{Op: OpCreateTarget, Path: target, Err: err}
		}
	}

	var counter atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, asset := range assets {
		asset := asset
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := o.place(asset)
			if err != nil {
				return err
			}
			o.record(p)
			moved(int(counter.Add(1)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return o.result, err
	}
	if err := ctx.Err(); err != nil {
		return o.result, err
	}

	complete(int(counter.Load()))
	return o.result, nil
}

type organizer struct {
	target   string
	opts     OrganizeOptions
	resolver *Resolver
	logger   zerolog.Logger
	locks    pathLocks

	mu      sync.Mutex
	result  OrganizeResult
	planned map[string]bool
}

func (o *organizer) record(p Placement) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch p.Outcome {
	case OutcomeMoved:
		o.result.Moved++
	case OutcomePlanned:
		o.result.Planned++
	case OutcomeSkippedBeforeCutoff:
		o.result.SkippedBeforeCutoff++
	case OutcomeSkippedExisting:
		o.result.SkippedExisting++
	}
	o.result.Placements = append(o.result.Placements, p)
}

// plan claims a destination for a dry run. It reports false when another
// asset already claimed it.
func (o *organizer) plan(dest string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.planned[dest] {
		return false
	}
	if o.planned == nil {
		o.planned = make(map[string]bool)
	}
	o.planned[dest] = true
	return true
}

func (o *organizer) place(asset Asset) (Placement, error) {
	date, err := o.resolver.Resolve(asset)
	if err != nil {
		return Placement{}, err
	}
	p := Placement{Asset: asset, Date: date}

	if o.opts.Cutoff != nil && date.Before(*o.opts.Cutoff) {
		o.logger.Debug().Object("asset", asset).Time("date", date.Time).Msg("skipping asset before cutoff")
		p.Outcome = OutcomeSkippedBeforeCutoff
		return p, nil
	}

	bucket := filepath.Join(o.target, date.Bucket())
	p.Destination = filepath.Join(bucket, asset.Name())

	unlock := o.locks.lock(p.Destination)
	defer unlock()

	exists, err := pathExists(p.Destination)
	if err != nil {
		return Placement{}, &RelocationError{Op: OpMove, Path: asset.Path(), Err: err}
	}
	if exists {
		o.logger.Debug().Object("asset", asset).Str("destination", p.Destination).Msg("destination exists, skipping")
		p.Outcome = OutcomeSkippedExisting
		return p, nil
	}

	if o.opts.DryRun {
		if !o.plan(p.Destination) {
			o.logger.Debug().Object("asset", asset).Str("destination", p.Destination).Msg("destination already planned, skipping")
			p.Outcome = OutcomeSkippedExisting
			return p, nil
		}
		p.Outcome = OutcomePlanned
		return p, nil
	}

	if err := os.MkdirAll(bucket, 0o755); err != nil {
		return Placement{}, &RelocationError{Op: OpCreateBucket, Path: bucket, Err: err}
	}

	o.logger.Debug().Object("asset", asset).Str("bucket", date.Bucket()).Msg("moving")
	if err := moveFile(asset.Path(), p.Destination); err != nil {
		return Placement{}, &RelocationError{Op: OpMove, Path: asset.Path(), Err: err}
	}
	p.Outcome = OutcomeMoved
	return p, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
