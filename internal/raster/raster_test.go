package raster

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrayValidate(t *testing.T) {
	var nilGray *Gray
	tests := []struct {
		name string
		g    *Gray
		ok   bool
	}{
		{"nil", nilGray, false},
		{"zero width", &Gray{Width: 0, Height: 2, Stride: 0}, false},
		{"short stride", &Gray{Pix: make([]uint8, 4), Width: 2, Height: 2, Stride: 1}, false},
		{"short buffer", &Gray{Pix: make([]uint8, 3), Width: 2, Height: 2, Stride: 2}, false},
		{"packed", &Gray{Pix: make([]uint8, 4), Width: 2, Height: 2, Stride: 2}, true},
		{"padded stride", &Gray{Pix: make([]uint8, 5), Width: 2, Height: 2, Stride: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			}
		})
	}
}

func TestGrayFromPixRejectsMismatch(t *testing.T) {
	_, err := GrayFromPix(3, 3, make([]uint8, 8))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewGray(0, 4)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCloneIsIndependent(t *testing.T) {
	g := &Gray{Pix: []uint8{1, 2, 99, 3, 4, 99}, Width: 2, Height: 2, Stride: 3}
	c := g.Clone()

	assert.Equal(t, 2, c.Stride)
	assert.Equal(t, []uint8{1, 2, 3, 4}, c.Pix)

	c.Set(0, 0, 200)
	assert.Equal(t, uint8(1), g.At(0, 0))
}

func TestReflectIndexSymmetric(t *testing.T) {
	b := BorderSymmetric
	// abcde mirrored with the edge repeated.
	want := map[int]int{-6: 4, -5: 4, -3: 2, -1: 0, 0: 0, 4: 4, 5: 4, 6: 3, 9: 0, 10: 0}
	for i, w := range want {
		assert.Equal(t, w, b.ReflectIndex(i, 5), "i=%d", i)
	}
}

func TestReflectIndexReflect101(t *testing.T) {
	b := BorderReflect101
	want := map[int]int{-4: 4, -2: 2, -1: 1, 0: 0, 4: 4, 5: 3, 7: 1, 8: 0}
	for i, w := range want {
		assert.Equal(t, w, b.ReflectIndex(i, 5), "i=%d", i)
	}
	assert.Equal(t, 0, b.ReflectIndex(-3, 1))
}

func TestPadSinglePixelStrip(t *testing.T) {
	// A one pixel wide column: every padded column must repeat the edge value.
	strip, err := GrayFromPix(1, 3, []uint8{10, 20, 30})
	require.NoError(t, err)

	p, err := Pad(strip, 2, BorderSymmetric)
	require.NoError(t, err)
	require.Equal(t, 5, p.Width)
	require.Equal(t, 7, p.Height)

	for y := 2; y < 5; y++ {
		v := strip.At(0, y-2)
		for x := 0; x < p.Width; x++ {
			assert.Equal(t, v, p.At(x, y), "x=%d y=%d", x, y)
		}
	}
	// Rows above mirror the top edge, not zero and not the bottom.
	assert.Equal(t, uint8(10), p.At(0, 1))
	assert.Equal(t, uint8(20), p.At(0, 0))
	assert.Equal(t, uint8(30), p.At(0, 5))
	assert.Equal(t, uint8(20), p.At(0, 6))
}

func TestPadReflect101(t *testing.T) {
	row, err := GrayFromPix(4, 1, []uint8{1, 2, 3, 4})
	require.NoError(t, err)

	p, err := Pad(row, 2, BorderReflect101)
	require.NoError(t, err)
	assert.Equal(t, []uint8{3, 2, 1, 2, 3, 4, 3, 2}, p.Row(2))
}

func TestPadLeavesSourceUntouched(t *testing.T) {
	src, err := GrayFromPix(2, 2, []uint8{1, 2, 3, 4})
	require.NoError(t, err)
	_, err = Pad(src, 3, BorderSymmetric)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3, 4}, src.Pix)

	_, err = Pad(src, -1, BorderSymmetric)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNarrowPolicies(t *testing.T) {
	tests := []struct {
		in       float64
		wrap     uint8
		saturate uint8
	}{
		{0, 0, 0},
		{99.9, 99, 100},
		{255, 255, 255},
		{256, 0, 255},
		{300.7, 44, 255},
		{-1, 255, 0},
		{-0.4, 0, 0},
		{math.NaN(), 0, 0},
		{math.Inf(1), 0, 255},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wrap, NarrowWrap.Sample(tt.in), "wrap %v", tt.in)
		assert.Equal(t, tt.saturate, NarrowSaturate.Sample(tt.in), "saturate %v", tt.in)
	}
}

func TestNarrowRaster(t *testing.T) {
	f, err := NewFloat(2, 1)
	require.NoError(t, err)
	f.Set(0, 0, 12.6)
	f.Set(1, 0, 258)

	g, err := Narrow(f, NarrowWrap)
	require.NoError(t, err)
	assert.Equal(t, []uint8{12, 2}, g.Pix)

	g, err = Narrow(f, NarrowSaturate)
	require.NoError(t, err)
	assert.Equal(t, []uint8{13, 255}, g.Pix)

	_, err = Narrow(nil, NarrowWrap)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = Narrow(f, NarrowPolicy(7))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParsePolicies(t *testing.T) {
	p, err := ParseNarrowPolicy("Saturate")
	require.NoError(t, err)
	assert.Equal(t, NarrowSaturate, p)

	_, err = ParseNarrowPolicy("round")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	b, err := ParseBorder("reflect101")
	require.NoError(t, err)
	assert.Equal(t, BorderReflect101, b)
	assert.Equal(t, "reflect101", b.String())

	_, err = ParseBorder("wrap")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestForEachRowRangeCoversEveryRowOnce(t *testing.T) {
	for _, workers := range []int{1, 3, 8, 64} {
		seen := make([]int32, 100)
		err := ForEachRowRange(len(seen), workers, func(y0, y1 int) error {
			for y := y0; y < y1; y++ {
				atomic.AddInt32(&seen[y], 1)
			}
			return nil
		})
		require.NoError(t, err)
		for y, n := range seen {
			assert.Equal(t, int32(1), n, "workers=%d row=%d", workers, y)
		}
	}
}

func TestForEachRowRangeReportsError(t *testing.T) {
	boom := errors.New("boom")
	err := ForEachRowRange(64, 4, func(y0, y1 int) error {
		if y0 == 0 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestResolveOptions(t *testing.T) {
	o := ResolveOptions(WithWorkers(0), WithBorder(BorderReflect101), nil)
	assert.GreaterOrEqual(t, o.Workers, 1)
	assert.Equal(t, BorderReflect101, o.Border)

	o = ResolveOptions(WithWorkers(3))
	assert.Equal(t, 3, o.Workers)
	assert.Equal(t, BorderSymmetric, o.Border)
}
