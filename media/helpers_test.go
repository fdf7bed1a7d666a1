package media

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

var testLogger = zerolog.Nop()

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, width, height int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(width, height, color.RGBA{R: 200, G: 30, B: 30, A: 255})); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return writeFile(t, path, buf.Bytes())
}

// exifSegment builds a little-endian APP1 segment holding only
// DateTimeOriginal in the Exif sub-IFD.
func exifSegment(dateTime string) []byte {
	le := binary.LittleEndian
	value := append([]byte(dateTime), 0)

	var tiff bytes.Buffer
	tiff.WriteString("II")
	_ = binary.Write(&tiff, le, uint16(42))
	_ = binary.Write(&tiff, le, uint32(8))

	// IFD0: a single pointer to the Exif IFD at offset 26
	_ = binary.Write(&tiff, le, uint16(1))
	_ = binary.Write(&tiff, le, uint16(0x8769))
	_ = binary.Write(&tiff, le, uint16(4))
	_ = binary.Write(&tiff, le, uint32(1))
	_ = binary.Write(&tiff, le, uint32(26))
	_ = binary.Write(&tiff, le, uint32(0))

	// Exif IFD: DateTimeOriginal stored at offset 44
	_ = binary.Write(&tiff, le, uint16(1))
	_ = binary.Write(&tiff, le, uint16(0x9003))
	_ = binary.Write(&tiff, le, uint16(2))
	_ = binary.Write(&tiff, le, uint32(len(value)))
	_ = binary.Write(&tiff, le, uint32(44))
	_ = binary.Write(&tiff, le, uint32(0))
	tiff.Write(value)

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...)
}

// writeExifJPEG writes a small JPEG whose DateTimeOriginal is dateTime
// (layout 2006:01:02 15:04:05).
func writeExifJPEG(t *testing.T, path, dateTime string) string {
	t.Helper()
	var body bytes.Buffer
	if err := jpeg.Encode(&body, solidImage(8, 8, color.Gray{Y: 128}), nil); err != nil {
		t.Fatalf("Failed to encode jpeg: %v", err)
	}
	raw := body.Bytes()

	var out bytes.Buffer
	out.Write(raw[:2])
	out.Write(exifSegment(dateTime))
	out.Write(raw[2:])
	return writeFile(t, path, out.Bytes())
}

func mustClassify(t *testing.T, path string) Asset {
	t.Helper()
	asset, err := Classify(path)
	if err != nil {
		t.Fatalf("Classify(%s) error = %v", path, err)
	}
	return asset
}
