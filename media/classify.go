package media

import (
	"os"
	"path/filepath"
	"strings"
)

var photoExtensions = map[string]struct{}{
	"rgb": {}, "gif": {}, "pbm": {}, "pgm": {}, "ppm": {}, "tiff": {}, "rast": {}, "xbm": {},
	"jpeg": {}, "jpg": {}, "bmp": {}, "png": {}, "webp": {}, "exr": {}, "heif": {},
}

var videoExtensions = map[string]struct{}{
	"mp4": {},
}

// IsPhotoFile checks the extension of path against the known photo formats
func IsPhotoFile(path string) bool {
	_, ok := photoExtensions[extension(path)]
	return ok
}

// IsVideoFile checks the extension of path against the known video formats
func IsVideoFile(path string) bool {
	_, ok := videoExtensions[extension(path)]
	return ok
}

// extension returns the lower-cased extension without the leading dot
func extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Classify decides whether path is a supported asset and which kind it is.
// The returned asset carries an absolute path.
func Classify(path string) (Asset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Asset{}, &ClassificationError{Path: path, Err: err}
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return Asset{}, &ClassificationError{Path: abs, Err: err}
	}
	if !fi.Mode().IsRegular() {
		return Asset{}, &ClassificationError{Path: abs, Err: ErrNotARegularFile}
	}

	name := filepath.Base(abs)
	if extension(name) == "" {
		return Asset{}, &ClassificationError{Path: abs, Err: ErrNoExtension}
	}

	switch {
	case IsVideoFile(name):
		return NewVideo(name, abs), nil
	case IsPhotoFile(name):
		return NewPhoto(name, abs), nil
	default:
		return Asset{}, &ClassificationError{Path: abs, Err: ErrUnsupportedExtension}
	}
}
