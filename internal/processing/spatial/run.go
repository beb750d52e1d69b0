package spatial

import (
	"context"
	"fmt"
	"time"

	"grayscope/internal/logger"
	"grayscope/internal/processing/equalize"
	"grayscope/internal/processing/gaussian"
	"grayscope/internal/raster"
)

// Runner applies the pixel algorithms and logs what it did.
type Runner struct {
	logger logger.Logger
}

func NewRunner(log logger.Logger) *Runner {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &Runner{logger: log}
}

// GaussianBlur convolves src with the configured kernel and narrows the
// float result to uint8 with s.Narrow.
func (r *Runner) GaussianBlur(ctx context.Context, src *raster.Gray, s Settings) (*raster.Gray, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.Amplitude != DefaultAmplitude {
		r.logger.Debug("Gaussian", "amplitude cancels in normalization", map[string]interface{}{
			"amplitude": s.Amplitude,
		})
	}

	start := time.Now()
	blurred, err := gaussian.Blur(src, s.KernelSize, s.Amplitude, s.Options()...)
	if err != nil {
		return nil, fmt.Errorf("gaussian blur: %w", err)
	}
	out, err := raster.Narrow(blurred, s.Narrow)
	if err != nil {
		return nil, fmt.Errorf("gaussian blur: %w", err)
	}

	r.logger.Debug("Gaussian", "blur complete", map[string]interface{}{
		"width":       src.Width,
		"height":      src.Height,
		"kernel_size": s.KernelSize,
		"border":      s.Border.String(),
		"narrow":      s.Narrow.String(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return out, nil
}

// LocalEqualize runs local histogram equalization with s.WindowSize.
func (r *Runner) LocalEqualize(ctx context.Context, src *raster.Gray, s Settings) (*raster.Gray, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	start := time.Now()
	out, err := equalize.Local(src, s.WindowSize, s.Options()...)
	if err != nil {
		return nil, fmt.Errorf("local histogram equalization: %w", err)
	}

	r.logger.Debug("LocalEqualize", "equalization complete", map[string]interface{}{
		"width":       src.Width,
		"height":      src.Height,
		"window_size": s.WindowSize,
		"border":      s.Border.String(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return out, nil
}
