package equalize

import (
	"fmt"

	"grayscope/internal/raster"
)

// MinWindow is the smallest window side with a well-defined center.
const MinWindow = 3

// ValidateWindow rejects window sizes that are even or below MinWindow.
func ValidateWindow(window int) error {
	if window < MinWindow {
		return fmt.Errorf("%w: window size %d below %d", raster.ErrInvalidArgument, window, MinWindow)
	}
	if window%2 == 0 {
		return fmt.Errorf("%w: window size %d must be odd", raster.ErrInvalidArgument, window)
	}
	return nil
}

// Local remaps every pixel through the CDF of the window x window
// neighbourhood centred on it. The neighbourhood is read from a
// reflect-padded copy of src; src itself is not modified.
//
// The histogram slides along each row: one column leaves and one enters per
// step. Counts are exact integers so the result matches rebuilding the
// histogram at every pixel.
func Local(src *raster.Gray, window int, opts ...raster.Option) (*raster.Gray, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateWindow(window); err != nil {
		return nil, err
	}

	o := raster.ResolveOptions(opts...)
	pad := window / 2

	padded, err := raster.Pad(src, pad, o.Border)
	if err != nil {
		return nil, fmt.Errorf("failed to pad input: %w", err)
	}

	out, err := raster.NewGray(src.Width, src.Height)
	if err != nil {
		return nil, err
	}

	area := window * window
	stride := padded.Stride

	err = raster.ForEachRowRange(src.Height, o.Workers, func(y0, y1 int) error {
		var h Histogram
		for i := y0; i < y1; i++ {
			h = Histogram{}
			for s := 0; s < window; s++ {
				row := padded.Pix[(i+s)*stride : (i+s)*stride+window]
				for _, v := range row {
					h.Add(v)
				}
			}

			srcRow := src.Row(i)
			dstRow := out.Row(i)
			for j := range dstRow {
				if j > 0 {
					leave, enter := j-1, j+window-1
					for s := 0; s < window; s++ {
						off := (i + s) * stride
						h.Remove(padded.Pix[off+leave])
						h.Add(padded.Pix[off+enter])
					}
				}

				mapped, err := h.mapThrough(srcRow[j], area)
				if err != nil {
					return fmt.Errorf("pixel (%d,%d): %w", j, i, err)
				}
				dstRow[j] = mapped
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// WindowHistogram builds the histogram of the window x window neighbourhood
// centred on (x, y) of src, padded with border. It is the non-incremental
// form of what Local computes for one pixel.
func WindowHistogram(src *raster.Gray, x, y, window int, border raster.Border) (Histogram, error) {
	var h Histogram
	if err := src.Validate(); err != nil {
		return h, err
	}
	if err := ValidateWindow(window); err != nil {
		return h, err
	}
	if x < 0 || x >= src.Width || y < 0 || y >= src.Height {
		return h, fmt.Errorf("%w: (%d,%d) outside %dx%d", raster.ErrInvalidArgument, x, y, src.Width, src.Height)
	}

	pad := window / 2
	for dy := -pad; dy <= pad; dy++ {
		row := src.Row(border.ReflectIndex(y+dy, src.Height))
		for dx := -pad; dx <= pad; dx++ {
			h.Add(row[border.ReflectIndex(x+dx, src.Width)])
		}
	}
	return h, nil
}
