package imagefile

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: 90, A: 255})
		}
	}
	return img
}

func writeFile(t *testing.T, dir, name string, encode func(f *os.File) error) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	return writeFile(t, dir, name, func(f *os.File) error { return png.Encode(f, testImage(w, h)) })
}

func writePNG16(t *testing.T, dir, name string, w, h int) string {
	img := image.NewNRGBA64(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA64{R: uint16(x * 900), G: 300, B: uint16(y * 900), A: 0xffff})
		}
	}
	return writeFile(t, dir, name, func(f *os.File) error { return png.Encode(f, img) })
}

func writeJPEG(t *testing.T, dir, name string, w, h int) string {
	return writeFile(t, dir, name, func(f *os.File) error { return jpeg.Encode(f, testImage(w, h), nil) })
}

func writeBMP(t *testing.T, dir, name string, w, h int) string {
	return writeFile(t, dir, name, func(f *os.File) error { return bmp.Encode(f, testImage(w, h)) })
}

func writeTIFF(t *testing.T, dir, name string, w, h int) string {
	return writeFile(t, dir, name, func(f *os.File) error { return tiff.Encode(f, testImage(w, h), nil) })
}

func writeCorrupt(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("definitely not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
