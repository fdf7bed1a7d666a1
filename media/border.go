package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MinBorderWidth is the narrowest border ever applied, in pixels.
const MinBorderWidth = 20

const cutoffLayout = "2006-01-02"

// Thickness is the border size in hundredths of the relevant image side.
type Thickness int

const (
	ThicknessThin   Thickness = 1
	ThicknessMedium Thickness = 2
	ThicknessThick  Thickness = 4
)

// ParseThickness maps thin, medium and thick to their units
func ParseThickness(s string) (Thickness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "thin":
		return ThicknessThin, nil
	case "medium", "":
		return ThicknessMedium, nil
	case "thick":
		return ThicknessThick, nil
	}
	return 0, fmt.Errorf("invalid thickness %q (expected thin, medium or thick)", s)
}

func (t Thickness) String() string {
	switch t {
	case ThicknessThin:
		return "thin"
	case ThicknessMedium:
		return "medium"
	case ThicknessThick:
		return "thick"
	}
	return fmt.Sprintf("Thickness(%d)", int(t))
}

// BorderWidth computes the border for an image of the given size. Square and
// portrait images use their width, landscape images their height.
func BorderWidth(width, height int, t Thickness) int {
	side := width
	if width > height {
		side = height
	}
	border := int(math.Round(float64(t) / 100 * float64(side)))
	return max(border, MinBorderWidth)
}

// ParseCutoff parses a YYYY-MM-DD cutoff date
func ParseCutoff(s string) (time.Time, error) {
	t, err := time.Parse(cutoffLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &BorderError{Op: OpParseDate, Path: s, Err: err}
	}
	return t, nil
}

// ApplyBorder pads the image at path with a solid white border and writes it
// back in place, in its original format. JPEG metadata segments are carried
// over and the file keeps its identity, so the capture date still resolves.
func ApplyBorder(path string, t Thickness) (int, error) {
	codecs := imaging()

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, &BorderError{Op: OpRead, Path: path, Err: err}
	}
	src, format, err := codecs.decode(bytes.NewReader(data))
	if err != nil {
		return 0, &BorderError{Op: OpRead, Path: path, Err: err}
	}
	if format == "gif" {
		frames, err := frameCount(data)
		if err != nil {
			return 0, &BorderError{Op: OpRead, Path: path, Err: err}
		}
		if frames > 1 {
			return 0, &BorderError{Op: OpBorder, Path: path, Err: ErrAnimated}
		}
	}

	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return 0, &BorderError{Op: OpBorder, Path: path, Err: errors.New("image has no pixels")}
	}
	width := BorderWidth(b.Dx(), b.Dy(), t)

	dst := canvas(src, image.Rect(0, 0, b.Dx()+2*width, b.Dy()+2*width))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	inner := image.Rect(width, width, width+b.Dx(), width+b.Dy())
	draw.Draw(dst, inner, src, b.Min, draw.Over)

	var out bytes.Buffer
	if err := codecs.encode(&out, format, dst); err != nil {
		return 0, &BorderError{Op: OpWrite, Path: path, Err: err}
	}
	encoded := out.Bytes()
	if format == "jpeg" {
		encoded = withMetadata(encoded, jpegMetadata(data))
	}
	if err := overwriteFile(path, encoded); err != nil {
		return 0, &BorderError{Op: OpWrite, Path: path, Err: err}
	}
	return width, nil
}

// overwriteFile truncates path and writes data into the same file, keeping
// its creation time and permissions.
func overwriteFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// BorderOptions configures AddBorder. Callbacks are optional.
type BorderOptions struct {
	// From skips photos taken before this YYYY-MM-DD date. It only applies
	// when the root is a directory.
	From      string
	Thickness Thickness
	Workers   int
	Resolver  *Resolver
	Logger    zerolog.Logger

	OnFound func(Asset)
	// OnTotal fires once with the number of discovered assets.
	OnTotal func(total int)
	// OnInc fires once per attempted asset.
	OnInc func(index int)
	// OnDone fires once after every asset was attempted.
	OnDone func(total int)
}

// BorderResult summarizes a border run
type BorderResult struct {
	Bordered      int
	SkippedVideos int
	SkippedBefore int
	SkippedFormat int
}

// AddBorder applies a white border to every photo under root.
func AddBorder(ctx context.Context, root string, opts BorderOptions) (BorderResult, error) {
	logger := opts.Logger
	onInc := opts.OnInc
	if onInc == nil {
		onInc = func(int) {}
	}
	onDone := opts.OnDone
	if onDone == nil {
		onDone = func(int) {}
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = NewResolver(logger)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	thickness := opts.Thickness
	if thickness == 0 {
		thickness = ThicknessMedium
	}

	fi, err := os.Stat(root)
	if err != nil {
		return BorderResult{}, &BorderError{Op: OpRead, Path: root, Err: err}
	}

	var from *time.Time
	if opts.From != "" && fi.IsDir() {
		t, err := ParseCutoff(opts.From)
		if err != nil {
			return BorderResult{}, err
		}
		from = &t
	}

	assets, err := Discover(ctx, root, DiscoverOptions{
		Workers:    workers,
		Logger:     logger,
		OnFound:    opts.OnFound,
		OnComplete: opts.OnTotal,
	})
	if err != nil {
		return BorderResult{}, err
	}

	var (
		counter  atomic.Int64
		bordered atomic.Int64
		videos   atomic.Int64
		before   atomic.Int64
		format   atomic.Int64
	)
	codecs := imaging()

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
			defer func() { onInc(int(counter.Add(1))) }()

			switch asset.Kind() {
			case KindVideo:
				videos.Add(1)
				return nil
			case KindPhoto:
			}

			if from != nil {
				date, err := resolver.Resolve(asset)
				if err != nil {
					return err
				}
				if date.Before(*from) {
					logger.Warn().Str("name", asset.Name()).Msg("skipping photo before cutoff")
					before.Add(1)
					return nil
				}
			}

			if !codecs.canWrite(extension(asset.Name())) {
				logger.Warn().Object("asset", asset).Msg("no encoder for this format, skipping")
				format.Add(1)
				return nil
			}

			width, err := ApplyBorder(asset.Path(), thickness)
			if errors.Is(err, ErrAnimated) {
				logger.Warn().Object("asset", asset).Msg("animated image, skipping")
				format.Add(1)
				return nil
			}
			if err != nil {
				return err
			}
			logger.Debug().Object("asset", asset).Int("border", width).Msg("added border")
			bordered.Add(1)
			return nil
		})
	}

	err = g.Wait()
	result := BorderResult{
		Bordered:      int(bordered.Load()),
		SkippedVideos: int(videos.Load()),
		SkippedBefore: int(before.Load()),
		SkippedFormat: int(format.Load()),
	}
	if err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	onDone(int(counter.Load()))
	return result, nil
}
