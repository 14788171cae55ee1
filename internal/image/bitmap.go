// Package image provides image file recognition and decoding for board
// elements.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"pinboard/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotImage is returned when a source is not recognised as an image.
	ErrNotImage = errors.New("not an image file")
	// ErrEmpty is returned for zero-byte sources.
	ErrEmpty = errors.New("empty file")
)

// Source is something that can be dropped on the board.
type Source interface {
	Name() string
	MimeType() string
	Open() (io.ReadCloser, error)
}

// Bitmap is a decoded image ready for display.
type Bitmap struct {
	Name        string
	Format      string // Decoder name, e.g. "png"
	Image       image.Image
	Orientation Orientation
}

// Natural returns the displayed pixel dimensions, with width and height
// swapped for EXIF orientations that rotate by 90 degrees.
func (b *Bitmap) Natural() geometry.Size {
	if b == nil || b.Image == nil {
		return geometry.Size{}
	}
	bounds := b.Image.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	if b.Orientation.Transposed() {
		w, h = h, w
	}
	return geometry.NewSize(w, h)
}

// IsImageMIME reports whether a MIME type names an image.
func IsImageMIME(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

// IsImage reports whether the source looks like an image by its MIME type.
func IsImage(src Source) bool {
	return IsImageMIME(src.MimeType())
}

// ReadAll reads the full contents of a source.
func ReadAll(src Source) ([]byte, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", src.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", src.Name(), ErrEmpty)
	}
	return data, nil
}

// Decode decodes image data and reads its EXIF orientation, if any.
func Decode(name string, data []byte) (*Bitmap, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmpty)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}

	return &Bitmap{
		Name:        name,
		Format:      format,
		Image:       img,
		Orientation: readOrientation(data),
	}, nil
}

// Load reads and decodes a source.
func Load(src Source) (*Bitmap, error) {
	if !IsImage(src) {
		return nil, fmt.Errorf("%s: %w", src.Name(), ErrNotImage)
	}
	data, err := ReadAll(src)
	if err != nil {
		return nil, err
	}
	return Decode(src.Name(), data)
}

// readOrientation returns the EXIF orientation, or OrientationNormal when the
// data carries no usable EXIF block.
func readOrientation(data []byte) Orientation {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return OrientationNormal
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return OrientationNormal
	}
	v, err := tag.Int(0)
	if err != nil {
		return OrientationNormal
	}
	return ParseOrientation(v)
}

// uriSource adapts a fyne URI.
type uriSource struct {
	uri fyne.URI
}

// FromURI wraps a fyne URI, such as one delivered by a window drop, as a
// Source.
func FromURI(u fyne.URI) Source {
	return uriSource{uri: u}
}

func (s uriSource) Name() string { return s.uri.Name() }

func (s uriSource) MimeType() string {
	if m := mimeForExt(s.uri.Extension()); m != "" {
		return m
	}
	return s.uri.MimeType()
}

// Open reads local files directly and defers other schemes to the
// registered storage repository.
func (s uriSource) Open() (io.ReadCloser, error) {
	if s.uri.Scheme() == "file" {
		return os.Open(s.uri.Path())
	}
	return storage.Reader(s.uri)
}

// fileSource reads from the local filesystem.
type fileSource struct {
	path string
}

// FromPath wraps a local file path as a Source.
func FromPath(path string) Source {
	return fileSource{path: path}
}

func (s fileSource) Name() string { return filepath.Base(s.path) }

func (s fileSource) MimeType() string {
	if m := mimeForExt(filepath.Ext(s.path)); m != "" {
		return m
	}
	return sniffMIME(s.path)
}

func (s fileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.path)
}

// mimeForExt maps supported extensions first, so TIFF and BMP work on
// systems without a mime.types database.
func mimeForExt(ext string) string {
	ext = strings.ToLower(ext)
	switch ext {
	case ".tif", ".tiff":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".webp":
		return "image/webp"
	case "":
		return ""
	}
	if m := mime.TypeByExtension(ext); m != "" {
		return strings.SplitN(m, ";", 2)[0]
	}
	return ""
}

// sniffMIME inspects the first bytes of a file when its extension is unknown.
func sniffMIME(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	if n == 0 {
		return ""
	}
	return strings.SplitN(http.DetectContentType(head[:n]), ";", 2)[0]
}

// SupportedFormats returns the list of decodable file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a decodable extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
