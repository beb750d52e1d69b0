package raster

import (
	"fmt"
	"strings"
)

// Border selects how out-of-range coordinates are mirrored back into a row
// or column of length n.
type Border int

const (
	// BorderSymmetric repeats the edge sample: offset -1 reads offset 0.
	// fedcba|abcdef|fedcba
	BorderSymmetric Border = iota
	// BorderReflect101 mirrors around the edge sample without repeating it.
	// fedcb|abcdef|edcba
	BorderReflect101
)

func (b Border) String() string {
	switch b {
	case BorderSymmetric:
		return "symmetric"
	case BorderReflect101:
		return "reflect101"
	default:
		return fmt.Sprintf("border(%d)", int(b))
	}
}

func ParseBorder(s string) (Border, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "symmetric", "reflect":
		return BorderSymmetric, nil
	case "reflect101", "reflect_101", "mirror":
		return BorderReflect101, nil
	default:
		return 0, fmt.Errorf("%w: unknown border mode %q", ErrInvalidArgument, s)
	}
}

// ReflectIndex maps i, possibly outside [0, n), onto [0, n). Offsets
// further away than n keep bouncing between the two edges.
func (b Border) ReflectIndex(i, n int) int {
	if i >= 0 && i < n {
		return i
	}
	switch b {
	case BorderReflect101:
		if n == 1 {
			return 0
		}
		period := 2 * (n - 1)
		m := i % period
		if m < 0 {
			m += period
		}
		if m >= n {
			m = period - m
		}
		return m
	default:
		period := 2 * n
		m := i % period
		if m < 0 {
			m += period
		}
		if m >= n {
			m = period - 1 - m
		}
		return m
	}
}

// Pad returns a copy of src grown by pad samples on every side, the new
// border filled by reflection. src is left untouched.
func Pad(src *Gray, pad int, border Border) (*Gray, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if pad < 0 {
		return nil, fmt.Errorf("%w: negative padding %d", ErrInvalidArgument, pad)
	}

	w := src.Width + 2*pad
	h := src.Height + 2*pad
	out := &Gray{
		Pix:    make([]uint8, w*h),
		Stride: w,
		Width:  w,
		Height: h,
	}

	cols := make([]int, w)
	for x := range cols {
		cols[x] = border.ReflectIndex(x-pad, src.Width)
	}

	for y := 0; y < h; y++ {
		srcRow := src.Row(border.ReflectIndex(y-pad, src.Height))
		dstRow := out.Pix[y*w : (y+1)*w]
		copy(dstRow[pad:pad+src.Width], srcRow)
		for x := 0; x < pad; x++ {
			dstRow[x] = srcRow[cols[x]]
			dstRow[w-1-x] = srcRow[cols[w-1-x]]
		}
	}

	return out, nil
}
