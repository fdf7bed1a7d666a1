package media

import (
	"errors"
	"fmt"
)

// Classification failures. These are always recovered locally: the entry is
// skipped and discovery continues.
var (
	ErrNoExtension          = errors.New("entry has no extension")
	ErrNotARegularFile      = errors.New("entry is not a regular file")
	ErrUnsupportedExtension = errors.New("unsupported extension")
)

// ErrNotApplicable is returned by a date strategy that does not handle the
// asset's kind. The resolver moves on to the next strategy.
var ErrNotApplicable = errors.New("strategy not applicable")

// ClassificationError reports why a path was not accepted as an asset.
type ClassificationError struct {
	Path string
	Err  error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("cannot classify %s: %v", e.Path, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// Tier identifies a level in the date resolution chain.
type Tier int

const (
	TierExif Tier = iota + 1
	TierFilename
	TierFileTime
)

func (t Tier) String() string {
	switch t {
	case TierExif:
		return "exif"
	case TierFilename:
		return "filename"
	case TierFileTime:
		return "file-time"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// DateResolutionError is a failure of one resolution tier. Only a failure of
// the last tier escapes the resolver.
type DateResolutionError struct {
	Tier Tier
	Path string
	Err  error
}

func (e *DateResolutionError) Error() string {
	return fmt.Sprintf("%s tier failed for %s: %v", e.Tier, e.Path, e.Err)
}

func (e *DateResolutionError) Unwrap() error { return e.Err }

// Relocation operations.
const (
	OpCreateTarget = "create-target"
	OpCreateBucket = "create-bucket"
	OpMove         = "move"
)

// RelocationError is fatal to an organize run.
type RelocationError struct {
	Op   string
	Path string
	Err  error
}

func (e *RelocationError) Error() string {
	switch e.Op {
	case OpCreateTarget:
		return fmt.Sprintf("failed to create target path %s: %v", e.Path, e.Err)
	case OpCreateBucket:
		return fmt.Sprintf("failed to create bucket %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("failed to move %s: %v", e.Path, e.Err)
	}
}

func (e *RelocationError) Unwrap() error { return e.Err }

// Border operations.
const (
	OpParseDate = "parse-date"
	OpRead      = "read"
	OpBorder    = "border"
	OpWrite     = "write"
)

// BorderError is fatal to a border run.
type BorderError struct {
	Op   string
	Path string
	Err  error
}

func (e *BorderError) Error() string {
	switch e.Op {
	case OpParseDate:
		return fmt.Sprintf("failed to parse date %q: %v", e.Path, e.Err)
	case OpRead:
		return fmt.Sprintf("failed to open image %s: %v", e.Path, e.Err)
	case OpWrite:
		return fmt.Sprintf("failed to write image %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("failed to apply border to %s: %v", e.Path, e.Err)
	}
}

func (e *BorderError) Unwrap() error { return e.Err }
