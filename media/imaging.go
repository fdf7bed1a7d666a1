package media

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNoCodec is returned for photo formats that can be read but not written
// back, or not read at all.
var ErrNoCodec = errors.New("no codec for image format")

// ErrAnimated is returned for GIFs with more than one frame.
var ErrAnimated = errors.New("animated image")

type encodeFunc func(io.Writer, image.Image) error

// codecs is the process-wide imaging handle. It is built on first use and
// lives until the process exits.
type codecs struct {
	encoders map[string]encodeFunc
}

var imaging = sync.OnceValue(func() *codecs {
	return &codecs{
		encoders: map[string]encodeFunc{
			"jpeg": encodeJPEG,
			"png":  png.Encode,
			"gif":  encodeGIF,
			"bmp":  bmp.Encode,
			"tiff": encodeTIFF,
		},
	}
})

func encodeJPEG(w io.Writer, m image.Image) error {
	return jpeg.Encode(w, m, &jpeg.Options{Quality: 95})
}

func encodeGIF(w io.Writer, m image.Image) error {
	return gif.Encode(w, m, nil)
}

func encodeTIFF(w io.Writer, m image.Image) error {
	return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
}

// formatOf maps a file extension to the name image.Decode reports for it
func formatOf(ext string) string {
	switch ext {
	case "jpg", "jpeg":
		return "jpeg"
	default:
		return ext
	}
}

// canWrite reports whether photos with this extension can be re-encoded
func (c *codecs) canWrite(ext string) bool {
	_, ok := c.encoders[formatOf(ext)]
	return ok
}

func (c *codecs) decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

func (c *codecs) encode(w io.Writer, format string, m image.Image) error {
	enc, ok := c.encoders[format]
	if !ok {
		return ErrNoCodec
	}
	return enc(w, m)
}

// canvas returns a white image of the given size. Paletted sources keep their
// palette, with white added when it is missing and there is room.
func canvas(src image.Image, r image.Rectangle) draw.Image {
	if p, ok := src.(*image.Paletted); ok {
		pal := make(color.Palette, len(p.Palette), len(p.Palette)+1)
		copy(pal, p.Palette)
		if !hasColor(pal, color.White) && len(pal) < 256 {
			pal = append(pal, color.White)
		}
		return image.NewPaletted(r, pal)
	}
	return image.NewRGBA(r)
}

func hasColor(pal color.Palette, c color.Color) bool {
	want := color.RGBAModel.Convert(c)
	for _, p := range pal {
		if color.RGBAModel.Convert(p) == want {
			return true
		}
	}
	return false
}

// frameCount reports how many frames a GIF holds
func frameCount(data []byte) (int, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	return len(g.Image), nil
}

// JPEG markers
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP1 = 0xE1
	markerAPP2 = 0xE2
)

// jpegMetadata returns the APP1 (Exif, XMP) and APP2 (ICC) segments found
// before the first scan of a JPEG stream, byte for byte.
func jpegMetadata(data []byte) []byte {
	if len(data) < 4 || data[0] != 0xFF || data[1] != markerSOI {
		return nil
	}

	var out []byte
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			break
		}
		marker := data[i+1]
		if marker == 0xFF {
			i++
			continue
		}
		if marker == markerSOS || marker == markerEOI {
			break
		}
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			i += 2
			continue
		}
		end := i + 2 + int(binary.BigEndian.Uint16(data[i+2:]))
		if end > len(data) {
			break
		}
		if marker == markerAPP1 || marker == markerAPP2 {
			out = append(out, data[i:end]...)
		}
		i = end
	}
	return out
}

// withMetadata splices metadata segments in right after the SOI marker
func withMetadata(encoded, metadata []byte) []byte {
	if len(metadata) == 0 || len(encoded) < 2 {
		return encoded
	}
	out := make([]byte, 0, len(encoded)+len(metadata))
	out = append(out, encoded[:2]...)
	out = append(out, metadata...)
	return append(out, encoded[2:]...)
}
