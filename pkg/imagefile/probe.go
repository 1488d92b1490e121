package imagefile

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	errs "github.com/matzehuels/imagesheet/pkg/errors"
	"github.com/matzehuels/imagesheet/pkg/layout"
)

// Format is an image encoding as named by the image package.
type Format string

// Formats the registered decoders report.
const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWEBP Format = "webp"
)

// Image describes a decodable image file.
type Image struct {
	Path   string
	Width  int
	Height int
	Format Format
}

// Size returns the pixel dimensions as a layout size.
func (im Image) Size() layout.Size {
	return layout.Size{Width: float64(im.Width), Height: float64(im.Height)}
}

// Prober reads image dimensions. The whole file is decoded, not only the
// header, so a file that probes cleanly can also be drawn.
type Prober struct{}

// NewProber returns a Prober.
func NewProber() *Prober { return &Prober{} }

// Probe decodes the file at path. Any failure is an ErrCodeDecode error.
func (p *Prober) Probe(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, errs.Wrap(errs.ErrCodeDecode, err, "cannot open %s", path)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return Image{}, errs.Wrap(errs.ErrCodeDecode, err, "cannot decode %s", path)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Image{}, errs.New(errs.ErrCodeDecode, "%s has no pixels (%dx%d)", path, b.Dx(), b.Dy())
	}
	return Image{Path: path, Width: b.Dx(), Height: b.Dy(), Format: Format(format)}, nil
}

// Dimensions implements layout.DimensionsProvider.
func (p *Prober) Dimensions(path string) (layout.Size, error) {
	im, err := p.Probe(path)
	if err != nil {
		return layout.Size{}, err
	}
	return im.Size(), nil
}

var _ layout.DimensionsProvider = (*Prober)(nil)
