package imagefile

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/imagesheet/pkg/cache"
	errs "github.com/matzehuels/imagesheet/pkg/errors"
	"github.com/matzehuels/imagesheet/pkg/observability"
)

// Embed types understood by the PDF writer.
const (
	EmbedJPEG = "JPG"
	EmbedPNG  = "PNG"
)

// Payload is an encoded image ready to embed in a PDF.
type Payload struct {
	Data []byte
	Type string // EmbedJPEG or EmbedPNG
}

// Loader reads image files and normalizes them for embedding. JPEGs and
// plain 8-bit PNGs are passed through byte for byte. Everything else is
// decoded and re-encoded as a lossless 8-bit PNG, with the result cached
// by content hash.
type Loader struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewLoader returns a Loader backed by c. A nil c disables caching.
func NewLoader(c cache.Cache) *Loader {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Loader{cache: c, keyer: cache.NewDefaultKeyer()}
}

// Load returns the embeddable form of im.
func (l *Loader) Load(ctx context.Context, im Image) (Payload, error) {
	data, err := os.ReadFile(im.Path)
	if err != nil {
		return Payload{}, errs.Wrap(errs.ErrCodeDecode, err, "cannot read %s", im.Path)
	}

	switch {
	case im.Format == FormatJPEG:
		return Payload{Data: data, Type: EmbedJPEG}, nil
	case im.Format == FormatPNG && embeddablePNG(data):
		return Payload{Data: data, Type: EmbedPNG}, nil
	}

	key := l.keyer.TranscodeKey(cache.Hash(data), cache.TranscodeKeyOpts{
		SourceFormat: string(im.Format),
		TargetFormat: "png",
	})
	if cached, hit, err := l.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "transcode")
		return Payload{Data: cached, Type: EmbedPNG}, nil
	}
	observability.Cache().OnCacheMiss(ctx, "transcode")

	out, err := transcodePNG(data)
	if err != nil {
		return Payload{}, errs.Wrap(errs.ErrCodeDecode, err, "cannot transcode %s", im.Path)
	}
	if err := l.cache.Set(ctx, key, out, cache.TranscodeTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "transcode", len(out))
	}
	return Payload{Data: out, Type: EmbedPNG}, nil
}

// Decode fully decodes the image at path.
func Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeDecode, err, "cannot decode %s", path)
	}
	return img, nil
}

func transcodePNG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	// Clone flattens to 8-bit NRGBA, which the PDF writer can embed.
	if err := imaging.Encode(&buf, imaging.Clone(img), imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// embeddablePNG reports whether the PNG header declares a bit depth of at
// most 8 and no interlacing. The PDF writer rejects anything else.
func embeddablePNG(data []byte) bool {
	// signature(8) + length(4) + "IHDR"(4) + width(4) + height(4) + depth(1)
	// + color type(1) + compression(1) + filter(1) + interlace(1)
	const ihdrEnd = 29
	if len(data) < ihdrEnd || string(data[12:16]) != "IHDR" {
		return false
	}
	if binary.BigEndian.Uint32(data[16:20]) == 0 {
		return false
	}
	depth, interlace := data[24], data[28]
	return depth <= 8 && interlace == 0
}
