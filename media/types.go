package media

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Kind tells photos and videos apart. There are exactly two kinds; every switch
// over Kind lists both.
type Kind int

const (
	KindPhoto Kind = iota
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindVideo:
		return "video"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Asset is a classified photo or video file eligible for organizing.
// It is immutable once created.
type Asset struct {
	kind Kind
	name string
	path string
}

// NewPhoto builds a photo asset. Prefer Classify, which validates the file.
func NewPhoto(name, path string) Asset { return Asset{kind: KindPhoto, name: name, path: path} }

// NewVideo builds a video asset. Prefer Classify, which validates the file.
func NewVideo(name, path string) Asset { return Asset{kind: KindVideo, name: name, path: path} }

func (a Asset) Kind() Kind     { return a.kind }
func (a Asset) Name() string   { return a.name }
func (a Asset) Path() string   { return a.path }
func (a Asset) IsPhoto() bool  { return a.kind == KindPhoto }
func (a Asset) String() string { return a.path }

// MarshalZerologObject implements zerolog.LogObjectMarshaler
func (a Asset) MarshalZerologObject(e *zerolog.Event) {
	e.Str("kind", a.kind.String()).Str("name", a.name).Str("path", a.path)
}
