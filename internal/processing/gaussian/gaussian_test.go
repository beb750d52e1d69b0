package gaussian

import (
	"math"
	"testing"

	"grayscope/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantGray(t *testing.T, w, h int, v uint8) *raster.Gray {
	t.Helper()
	g, err := raster.NewGray(w, h)
	require.NoError(t, err)
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func TestKernelNormalization(t *testing.T) {
	for _, size := range []int{3, 5, 7, 15, 43} {
		for _, amp := range []float64{1e-6, 0.5, 1, 3, 1e6} {
			k, err := NewKernel(size, amp)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, k.Sum(), 1e-6, "size=%d amplitude=%v", size, amp)
		}
	}
}

func TestKernelAmplitudeCancels(t *testing.T) {
	a, err := NewKernel(7, 1)
	require.NoError(t, err)
	b, err := NewKernel(7, 250)
	require.NoError(t, err)
	for i := range a.Weights {
		assert.InDelta(t, a.Weights[i], b.Weights[i], 1e-12)
	}
}

func TestKernelShape(t *testing.T) {
	k, err := NewKernel(5, 1)
	require.NoError(t, err)
	require.Len(t, k.Weights, 25)
	assert.Equal(t, 2, k.Radius())

	c := k.At(2, 2)
	for s := 0; s < 5; s++ {
		for tt := 0; tt < 5; tt++ {
			assert.LessOrEqual(t, k.At(s, tt), c)
			// Radially symmetric.
			assert.InDelta(t, k.At(s, tt), k.At(tt, s), 1e-15)
			assert.InDelta(t, k.At(s, tt), k.At(4-s, 4-tt), 1e-15)
		}
	}

	// Weight ratio follows exp(-r2 / (2 var^2)) with var = size/6.
	v := 5.0 / 6
	want := math.Exp(-1 / (2 * v * v))
	assert.InDelta(t, want, k.At(2, 3)/c, 1e-12)
}

func TestInvalidArguments(t *testing.T) {
	img := constantGray(t, 4, 4, 9)
	tests := []struct {
		name string
		size int
		amp  float64
	}{
		{"even", 4, 1},
		{"one", 1, 1},
		{"zero", 0, 1},
		{"negative size", -3, 1},
		{"zero amplitude", 3, 0},
		{"negative amplitude", 5, -2},
		{"nan amplitude", 5, math.NaN()},
		{"inf amplitude", 5, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Blur(img, tt.size, tt.amp)
			assert.ErrorIs(t, err, raster.ErrInvalidArgument)
			assert.Nil(t, out)
		})
	}

	_, err := Blur(nil, 3, 1)
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)
	_, err = Convolve(img, nil)
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)
	_, err = Convolve(img, &Kernel{Size: 3, Weights: make([]float64, 4)})
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)
}

func TestValidateAmplitude(t *testing.T) {
	assert.NoError(t, ValidateAmplitude(1))
	assert.NoError(t, ValidateAmplitude(0.25))
	for _, amp := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.ErrorIs(t, ValidateAmplitude(amp), raster.ErrInvalidArgument, "amplitude %v", amp)
	}
}

func TestBlurConstantIsIdentity(t *testing.T) {
	for _, border := range []raster.Border{raster.BorderSymmetric, raster.BorderReflect101} {
		for _, size := range []int{3, 5, 9, 43} {
			img := constantGray(t, 11, 7, 173)
			out, err := Blur(img, size, 1, raster.WithBorder(border))
			require.NoError(t, err)
			for _, v := range out.Pix {
				assert.InDelta(t, 173.0, v, 1e-9, "size=%d border=%s", size, border)
			}
		}
	}
}

func TestBlurPreservesShape(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {1, 9}, {9, 1}, {6, 4}, {33, 17}} {
		img := constantGray(t, dims[0], dims[1], 5)
		out, err := Blur(img, 5, 1)
		require.NoError(t, err)
		assert.Equal(t, dims[0], out.Width)
		assert.Equal(t, dims[1], out.Height)
	}
}

func TestBlurImpulse(t *testing.T) {
	img := constantGray(t, 5, 5, 0)
	img.Set(2, 2, 255)

	out, err := Blur(img, 3, 1)
	require.NoError(t, err)

	peak := out.At(2, 2)
	assert.Less(t, peak, 255.0)
	assert.Greater(t, peak, 0.0)
	for _, p := range [][2]int{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		n := out.At(p[0], p[1])
		assert.Greater(t, n, 0.0)
		assert.Less(t, n, peak)
	}
	assert.InDelta(t, 255.0, out.Sum(), 1e-9)

	// Outside the kernel footprint nothing changes.
	assert.Equal(t, 0.0, out.At(0, 0))
}

func TestBlurDoesNotMutateInput(t *testing.T) {
	img := constantGray(t, 6, 6, 0)
	img.Set(1, 4, 200)
	before := append([]uint8(nil), img.Pix...)

	_, err := Blur(img, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, before, img.Pix)
}

func TestConvolveMatchesNaiveReference(t *testing.T) {
	img, err := raster.NewGray(13, 9)
	require.NoError(t, err)
	for i := range img.Pix {
		img.Pix[i] = uint8((i * 37) % 251)
	}
	k, err := NewKernel(5, 1)
	require.NoError(t, err)

	for _, border := range []raster.Border{raster.BorderSymmetric, raster.BorderReflect101} {
		got, err := Convolve(img, k, raster.WithBorder(border), raster.WithWorkers(4))
		require.NoError(t, err)

		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				var want float64
				for s := 0; s < 5; s++ {
					for tt := 0; tt < 5; tt++ {
						sy := border.ReflectIndex(y+s-2, img.Height)
						sx := border.ReflectIndex(x+tt-2, img.Width)
						want += float64(img.At(sx, sy)) * k.At(s, tt)
					}
				}
				assert.InDelta(t, want, got.At(x, y), 1e-9, "x=%d y=%d", x, y)
			}
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	img, err := raster.NewGray(40, 70)
	require.NoError(t, err)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}

	serial, err := Blur(img, 7, 1, raster.WithWorkers(1))
	require.NoError(t, err)
	parallel, err := Blur(img, 7, 1, raster.WithWorkers(8))
	require.NoError(t, err)

	require.Len(t, parallel.Pix, len(serial.Pix))
	for i := range serial.Pix {
		assert.InDelta(t, serial.Pix[i], parallel.Pix[i], 1e-9)
	}
}

func TestBlurThenNarrow(t *testing.T) {
	img := constantGray(t, 3, 3, 250)
	out, err := Blur(img, 3, 1)
	require.NoError(t, err)

	for _, p := range []raster.NarrowPolicy{raster.NarrowWrap, raster.NarrowSaturate} {
		g, err := raster.Narrow(out, p)
		require.NoError(t, err)
		for _, v := range g.Pix {
			// Sums may land a hair under 250; wrap truncates, saturate rounds.
			assert.InDelta(t, 250, int(v), 1, "policy=%s", p)
		}
	}
}
