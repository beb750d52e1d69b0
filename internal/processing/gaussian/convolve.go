package gaussian

import (
	"fmt"

	"grayscope/internal/raster"
)

// Convolve applies k to src without separating it into row and column
// passes. The result keeps full float precision; narrowing to uint8 is the
// caller's decision (see raster.Narrow).
func Convolve(src *raster.Gray, k *Kernel, opts ...raster.Option) (*raster.Float, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if k == nil {
		return nil, fmt.Errorf("%w: nil kernel", raster.ErrInvalidArgument)
	}
	if err := ValidateSize(k.Size); err != nil {
		return nil, err
	}
	if len(k.Weights) != k.Size*k.Size {
		return nil, fmt.Errorf("%w: kernel has %d weights for size %d",
			raster.ErrInvalidArgument, len(k.Weights), k.Size)
	}

	o := raster.ResolveOptions(opts...)

	padded, err := raster.Pad(src, k.Radius(), o.Border)
	if err != nil {
		return nil, fmt.Errorf("failed to pad input: %w", err)
	}

	out, err := raster.NewFloat(src.Width, src.Height)
	if err != nil {
		return nil, err
	}

	size := k.Size
	err = raster.ForEachRowRange(src.Height, o.Workers, func(y0, y1 int) error {
		for i := y0; i < y1; i++ {
			dst := out.Row(i)
			for j := range dst {
				var acc float64
				for s := 0; s < size; s++ {
					row := padded.Pix[(i+s)*padded.Stride+j:]
					weights := k.Weights[s*size : (s+1)*size]
					for t, w := range weights {
						acc += float64(row[t]) * w
					}
				}
				dst[j] = acc
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Blur builds a size x size kernel with the given amplitude and convolves
// src with it.
func Blur(src *raster.Gray, size int, amplitude float64, opts ...raster.Option) (*raster.Float, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	k, err := NewKernel(size, amplitude)
	if err != nil {
		return nil, err
	}
	return Convolve(src, k, opts...)
}
