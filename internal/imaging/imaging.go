// Package imaging holds the pure-Go image helpers the shell needs around
// the pixel algorithms: thumbnails, format sniffing and encoding.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"grayscope/internal/raster"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FitSize returns the largest width x height with the aspect ratio of
// bounds that fits in a size x size square.
func FitSize(bounds image.Rectangle, size int) (int, int) {
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || size <= 0 {
		return 0, 0
	}
	aspect := float64(w) / float64(h)
	var nw, nh int
	if aspect > 1 {
		nw = size
		nh = int(float64(size) / aspect)
	} else {
		nh = size
		nw = int(float64(size) * aspect)
	}
	return max(nw, 1), max(nh, 1)
}

// Thumbnail scales img to fit a size x size black canvas, centred.
func Thumbnail(img image.Image, size int) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", raster.ErrInvalidArgument)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: thumbnail size %d", raster.ErrInvalidArgument, size)
	}
	nw, nh := FitSize(img.Bounds(), size)
	if nw == 0 {
		return nil, fmt.Errorf("%w: empty image", raster.ErrInvalidArgument)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	x0 := (size - nw) / 2
	y0 := (size - nh) / 2
	dst := image.Rect(x0, y0, x0+nw, y0+nh)
	xdraw.CatmullRom.Scale(canvas, dst, img, img.Bounds(), xdraw.Src, nil)

	return canvas, nil
}

// SniffFormat reports the registered format name of encoded image data
// and its dimensions without decoding the pixels.
func SniffFormat(data []byte) (string, image.Config, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", image.Config{}, fmt.Errorf("failed to read image header: %w", err)
	}
	return format, cfg, nil
}
