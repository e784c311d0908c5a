// Package imaging validates uploaded photos and prepares them for embedding
// in reports and for browser previews.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is returned for bytes that do not decode as a supported
// raster image.
var ErrInvalidImage = errors.New("invalid image")

// MaxPixels bounds width × height of an accepted image. The header is
// checked before any pixel data is decoded.
const MaxPixels = 50_000_000

// decode reads the image header, rejects empty or oversized canvases and
// only then decodes the pixels.
func decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty", ErrInvalidImage)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: zero dimensions", ErrInvalidImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, MaxPixels)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, format, nil
}

// Picture is a decoded upload ready to be stored in a document package.
// Data is always in one of the formats Word renders natively; WebP input is
// transcoded to PNG.
type Picture struct {
	Data        []byte
	Ext         string
	ContentType string
	Width       int
	Height      int
}

// AspectRatio returns height / width.
func (p Picture) AspectRatio() float64 {
	if p.Width == 0 {
		return 0
	}
	return float64(p.Height) / float64(p.Width)
}

var formats = map[string]struct{ ext, contentType string }{
	"png":  {"png", "image/png"},
	"jpeg": {"jpeg", "image/jpeg"},
	"gif":  {"gif", "image/gif"},
	"bmp":  {"bmp", "image/bmp"},
	"tiff": {"tiff", "image/tiff"},
}

// Inspect decodes data fully and returns it as a Picture.
func Inspect(data []byte) (Picture, error) {
	img, format, err := decode(data)
	if err != nil {
		return Picture{}, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Picture{}, fmt.Errorf("%w: zero dimensions", ErrInvalidImage)
	}

	pic := Picture{Data: data, Width: b.Dx(), Height: b.Dy()}
	if f, ok := formats[format]; ok {
		pic.Ext, pic.ContentType = f.ext, f.contentType
		return pic, nil
	}

	// webp and anything else the registry knows are re-encoded.
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return Picture{}, fmt.Errorf("transcoding %s to png: %w", format, err)
	}
	pic.Data, pic.Ext, pic.ContentType = out.Bytes(), "png", "image/png"
	return pic, nil
}

// Thumbnail scales the image to fit within maxW × maxH, keeping its aspect
// ratio, and returns it as PNG. Images already inside the box are not
// enlarged.
func Thumbnail(data []byte, maxW, maxH int) ([]byte, error) {
	src, _, err := decode(data)
	if err != nil {
		return nil, err
	}
	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), maxW, maxH)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: zero dimensions", ErrInvalidImage)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return out.Bytes(), nil
}

func fit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	// Compare w/maxW with h/maxH without floating point.
	if w*maxH >= h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}
