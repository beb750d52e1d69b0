// Package gaussian builds normalized 2D Gaussian kernels and applies them by
// direct convolution over a reflect-padded raster.
package gaussian

import (
	"fmt"
	"math"

	"grayscope/internal/raster"
)

// MinSize is the smallest kernel side with a well-defined center.
const MinSize = 3

// Kernel is a square grid of weights summing to 1.
type Kernel struct {
	Size    int
	Weights []float64
}

// ValidateSize rejects sizes that are even or below MinSize.
func ValidateSize(size int) error {
	if size < MinSize {
		return fmt.Errorf("%w: kernel size %d below %d", raster.ErrInvalidArgument, size, MinSize)
	}
	if size%2 == 0 {
		return fmt.Errorf("%w: kernel size %d must be odd", raster.ErrInvalidArgument, size)
	}
	return nil
}

// ValidateAmplitude rejects NaN, infinities and values that are not
// positive.
func ValidateAmplitude(amplitude float64) error {
	if math.IsNaN(amplitude) || math.IsInf(amplitude, 0) || amplitude <= 0 {
		return fmt.Errorf("%w: amplitude %v must be positive and finite", raster.ErrInvalidArgument, amplitude)
	}
	return nil
}

// NewKernel builds the size x size Gaussian with variance size/6, scales
// every weight by amplitude and then normalizes. The amplitude cancels in
// the normalization; it is kept for parity with the unnormalized profile
// and must still be positive and finite.
func NewKernel(size int, amplitude float64) (*Kernel, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	if err := ValidateAmplitude(amplitude); err != nil {
		return nil, err
	}

	variance := float64(size) / 6
	denom := 2 * variance * variance
	center := size / 2

	k := &Kernel{
		Size:    size,
		Weights: make([]float64, size*size),
	}

	var sum float64
	for s := 0; s < size; s++ {
		for t := 0; t < size; t++ {
			ds, dt := s-center, t-center
			r2 := float64(ds*ds + dt*dt)
			w := amplitude * math.Exp(-r2/denom)
			k.Weights[s*size+t] = w
			sum += w
		}
	}
	if sum == 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
		return nil, fmt.Errorf("%w: kernel weights sum to %v", raster.ErrInternal, sum)
	}
	for i := range k.Weights {
		k.Weights[i] /= sum
	}

	return k, nil
}

// At returns the weight at row s, column t.
func (k *Kernel) At(s, t int) float64 {
	return k.Weights[s*k.Size+t]
}

func (k *Kernel) Sum() float64 {
	var s float64
	for _, w := range k.Weights {
		s += w
	}
	return s
}

// Radius is the padding the kernel needs on each side.
func (k *Kernel) Radius() int {
	return k.Size / 2
}
