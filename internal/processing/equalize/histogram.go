// Package equalize implements per-pixel local histogram equalization.
package equalize

import (
	"fmt"

	"grayscope/internal/raster"
)

// Levels is the number of intensity bins.
const Levels = 256

// Histogram counts intensity occurrences in a window.
type Histogram [Levels]int

// CDF is the running sum of a Histogram. CDF[Levels-1] is the window area.
type CDF [Levels]int

func (h *Histogram) Add(v uint8) {
	h[v]++
}

func (h *Histogram) Remove(v uint8) {
	h[v]--
}

// Total is the number of samples counted.
func (h *Histogram) Total() int {
	var n int
	for _, c := range h {
		n += c
	}
	return n
}

// CDF returns the cumulative counts of h.
func (h *Histogram) CDF() CDF {
	var c CDF
	run := 0
	for i, n := range h {
		run += n
		c[i] = run
	}
	return c
}

// Map remaps v through c onto [0, 255]: c[v] * 255 / c[255], truncated.
func (c *CDF) Map(v uint8) (uint8, error) {
	total := c[Levels-1]
	if total <= 0 {
		return 0, fmt.Errorf("%w: cumulative histogram total is %d", raster.ErrInternal, total)
	}
	return uint8(c[v] * (Levels - 1) / total), nil
}

// mapThrough computes the same value as h.CDF().Map(v) with total already
// known, summing only the bins up to v.
func (h *Histogram) mapThrough(v uint8, total int) (uint8, error) {
	if total <= 0 {
		return 0, fmt.Errorf("%w: cumulative histogram total is %d", raster.ErrInternal, total)
	}
	below := 0
	for i := 0; i <= int(v); i++ {
		below += h[i]
	}
	return uint8(below * (Levels - 1) / total), nil
}
