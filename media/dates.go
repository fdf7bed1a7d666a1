package media

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	exifTimeLayout = "2006:01:02 15:04:05"
	nameDateLayout = "20060102"
	bucketLayout   = "2006-01"
)

// filenameDatePattern recognizes, in order:
//  1. YYYY-MM-DD
//  2. _YYYYMMDD_
//  3. -YYYYMMDD-
//  4. BURSTYYYYMMDD
//  5. YYYYMMDD_000.
var filenameDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|_\d{8}_|-\d{8}-|BURST\d{8}|(\d{8})_(\d{3,6})\.`)

var nameDateCleaner = strings.NewReplacer("-", "", "_", "", ".", "", "BURST", "")

var (
	ErrNoExifDate       = errors.New("exif data has no DateTimeOriginal")
	ErrNoDateInName     = errors.New("file name has no valid date")
	ErrBirthTimeMissing = errors.New("file system does not report a creation time")
)

// ResolvedDate is a best-effort capture time. Time carries no meaningful zone;
// it is always expressed in UTC.
type ResolvedDate struct {
	Time time.Time
	Tier Tier
}

// Bucket returns the YYYY-MM directory name for the date
func (d ResolvedDate) Bucket() string {
	return d.Time.Format(bucketLayout)
}

// Before reports whether the date is strictly earlier than cutoff
func (d ResolvedDate) Before(cutoff time.Time) bool {
	return d.Time.Before(cutoff)
}

// DateStrategy is one tier of the resolution chain. Resolve returns
// ErrNotApplicable when the asset's kind is not handled by the tier.
type DateStrategy interface {
	Tier() Tier
	Resolve(Asset) (time.Time, error)
}

// Resolver tries its strategies in order and returns the first success.
type Resolver struct {
	strategies []DateStrategy
	logger     zerolog.Logger
}

// DefaultStrategies returns EXIF, file name and file system tiers, in that order
func DefaultStrategies() []DateStrategy {
	return []DateStrategy{ExifStrategy{}, FilenameStrategy{}, FileTimeStrategy{}}
}

// NewResolver builds a resolver. Without strategies it uses DefaultStrategies.
func NewResolver(logger zerolog.Logger, strategies ...DateStrategy) *Resolver {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Resolver{strategies: strategies, logger: logger}
}

// Resolve computes the capture date of an asset. Failures of every tier but
// the last are logged and skipped; the last tier's failure is returned.
func (r *Resolver) Resolve(asset Asset) (ResolvedDate, error) {
	var last error
	for i, s := range r.strategies {
		t, err := s.Resolve(asset)
		if err == nil {
			r.logger.Trace().Object("asset", asset).Stringer("tier", s.Tier()).Time("date", t).Msg("resolved date")
			return ResolvedDate{Time: t, Tier: s.Tier()}, nil
		}
		if errors.Is(err, ErrNotApplicable) {
			continue
		}

		last = &DateResolutionError{Tier: s.Tier(), Path: asset.Path(), Err: err}
		if i == len(r.strategies)-1 {
			break
		}

		ev := r.logger.Debug()
		if s.Tier() == TierExif {
			ev = r.logger.Warn()
		}
		ev.Err(err).Str("path", asset.Path()).Stringer("tier", s.Tier()).Msg("falling back to next date source")
	}

	if last == nil {
		last = &DateResolutionError{Tier: TierFileTime, Path: asset.Path(), Err: ErrNotApplicable}
	}
	return ResolvedDate{}, last
}

// ExifStrategy reads DateTimeOriginal from a photo's embedded metadata.
type ExifStrategy struct{}

func (ExifStrategy) Tier() Tier { return TierExif }

func (ExifStrategy) Resolve(asset Asset) (time.Time, error) {
	switch asset.Kind() {
	case KindVideo:
		return time.Time{}, ErrNotApplicable
	case KindPhoto:
	}

	f, err := os.Open(asset.Path())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to access exif data: %w", err)
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, ErrNoExifDate
	}

	value, err := tag.StringVal()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read DateTimeOriginal: %w", err)
	}

	t, err := time.Parse(exifTimeLayout, strings.Trim(value, " \x00"))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
	}
	return t, nil
}

// FilenameStrategy recognizes dates embedded in file names by phones and cameras.
type FilenameStrategy struct{}

func (FilenameStrategy) Tier() Tier { return TierFilename }

func (FilenameStrategy) Resolve(asset Asset) (time.Time, error) {
	return DateFromName(asset.Name())
}

// DateFromName extracts a date from a bare file name. The time is midnight.
func DateFromName(name string) (time.Time, error) {
	m := filenameDatePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, ErrNoDateInName
	}

	match := m[0]
	if m[1] != "" {
		match = m[1]
	}

	t, err := time.Parse(nameDateLayout, nameDateCleaner.Replace(match))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
	}
	return t, nil
}

// FileTimeStrategy uses the creation time reported by the file system.
type FileTimeStrategy struct{}

func (FileTimeStrategy) Tier() Tier { return TierFileTime }

func (FileTimeStrategy) Resolve(asset Asset) (time.Time, error) {
	t, err := birthTime(asset.Path())
	if err != nil {
		return time.Time{}, err
	}
	return t.Truncate(time.Second).UTC(), nil
}
