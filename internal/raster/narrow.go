package raster

import (
	"fmt"
	"math"
	"strings"
)

// NarrowPolicy decides how float samples are stored back into uint8.
type NarrowPolicy int

const (
	// NarrowWrap truncates toward zero and keeps the low 8 bits, so 256
	// becomes 0 and -1 becomes 255. NaN becomes 0.
	NarrowWrap NarrowPolicy = iota
	// NarrowSaturate rounds to nearest and clamps to [0, 255]. NaN becomes 0.
	NarrowSaturate
)

func (p NarrowPolicy) String() string {
	switch p {
	case NarrowWrap:
		return "wrap"
	case NarrowSaturate:
		return "saturate"
	default:
		return fmt.Sprintf("narrow(%d)", int(p))
	}
}

func ParseNarrowPolicy(s string) (NarrowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wrap", "truncate":
		return NarrowWrap, nil
	case "saturate", "clamp":
		return NarrowSaturate, nil
	default:
		return 0, fmt.Errorf("%w: unknown narrowing policy %q", ErrInvalidArgument, s)
	}
}

// Sample converts one float sample under p.
func (p NarrowPolicy) Sample(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	switch p {
	case NarrowSaturate:
		if v <= 0 {
			return 0
		}
		if v >= 255 {
			return 255
		}
		return uint8(math.Round(v))
	default:
		if math.IsInf(v, 0) || math.Abs(v) >= 1<<62 {
			return 0
		}
		return uint8(int64(math.Trunc(v)))
	}
}

// Narrow converts f to a new Gray raster sample by sample.
func Narrow(f *Float, p NarrowPolicy) (*Gray, error) {
	if f == nil || f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("%w: empty float raster", ErrInvalidArgument)
	}
	if p != NarrowWrap && p != NarrowSaturate {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, p)
	}

	out, err := NewGray(f.Width, f.Height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < f.Height; y++ {
		dst := out.Row(y)
		for x, v := range f.Row(y) {
			dst[x] = p.Sample(v)
		}
	}
	return out, nil
}
