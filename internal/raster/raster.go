// Package raster holds the single-channel intensity buffers shared by the
// pixel algorithms, plus padding, narrowing and row-parallel helpers.
package raster

import "fmt"

// Gray is an 8-bit single-channel raster stored row-major.
type Gray struct {
	Pix    []uint8
	Stride int
	Width  int
	Height int
}

// Float is a float64 single-channel raster used for intermediate results.
type Float struct {
	Pix    []float64
	Stride int
	Width  int
	Height int
}

func NewGray(width, height int) (*Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidArgument, width, height)
	}
	return &Gray{
		Pix:    make([]uint8, width*height),
		Stride: width,
		Width:  width,
		Height: height,
	}, nil
}

// GrayFromPix wraps pix as a tightly packed width x height raster.
// The slice is not copied.
func GrayFromPix(width, height int, pix []uint8) (*Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidArgument, width, height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d raster", ErrInvalidArgument, len(pix), width, height)
	}
	return &Gray{Pix: pix, Stride: width, Width: width, Height: height}, nil
}

func NewFloat(width, height int) (*Float, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidArgument, width, height)
	}
	return &Float{
		Pix:    make([]float64, width*height),
		Stride: width,
		Width:  width,
		Height: height,
	}, nil
}

// Validate checks that g is non-nil, non-empty and its buffer covers the
// declared geometry.
func (g *Gray) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil raster", ErrInvalidArgument)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: empty raster %dx%d", ErrInvalidArgument, g.Width, g.Height)
	}
	if g.Stride < g.Width {
		return fmt.Errorf("%w: stride %d shorter than width %d", ErrInvalidArgument, g.Stride, g.Width)
	}
	if len(g.Pix) < (g.Height-1)*g.Stride+g.Width {
		return fmt.Errorf("%w: buffer of %d samples too small for %dx%d stride %d",
			ErrInvalidArgument, len(g.Pix), g.Width, g.Height, g.Stride)
	}
	return nil
}

func (g *Gray) At(x, y int) uint8 {
	return g.Pix[y*g.Stride+x]
}

func (g *Gray) Set(x, y int, v uint8) {
	g.Pix[y*g.Stride+x] = v
}

// Row returns the samples of row y without copying.
func (g *Gray) Row(y int) []uint8 {
	off := y * g.Stride
	return g.Pix[off : off+g.Width]
}

// Clone returns a tightly packed deep copy.
func (g *Gray) Clone() *Gray {
	out := &Gray{
		Pix:    make([]uint8, g.Width*g.Height),
		Stride: g.Width,
		Width:  g.Width,
		Height: g.Height,
	}
	for y := 0; y < g.Height; y++ {
		copy(out.Pix[y*out.Stride:], g.Row(y))
	}
	return out
}

func (f *Float) At(x, y int) float64 {
	return f.Pix[y*f.Stride+x]
}

func (f *Float) Set(x, y int, v float64) {
	f.Pix[y*f.Stride+x] = v
}

func (f *Float) Row(y int) []float64 {
	off := y * f.Stride
	return f.Pix[off : off+f.Width]
}

// Sum adds every sample. Used to check energy conservation.
func (f *Float) Sum() float64 {
	var s float64
	for y := 0; y < f.Height; y++ {
		for _, v := range f.Row(y) {
			s += v
		}
	}
	return s
}
