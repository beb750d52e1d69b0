package filters

import (
	"context"
	"fmt"

	"grayscope/internal/opencv/conversion"
	"grayscope/internal/opencv/safe"
	"grayscope/internal/processing/spatial"
	"grayscope/internal/raster"
)

// rasterStep is one of the hand-written algorithms run on the gray plane.
type rasterStep func(ctx context.Context, src *raster.Gray, s spatial.Settings) (*raster.Gray, error)

// runOnGray converts input to gray, runs step on its raster and promotes
// the result back to BGR.
func runOnGray(ctx context.Context, input *safe.Mat, params map[string]interface{}, tag string, step rasterStep) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	settings, err := spatial.SettingsFromParams(params)
	if err != nil {
		return nil, err
	}

	gray, err := conversion.ConvertToGrayscale(input)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	src, err := conversion.MatToRaster(gray)
	if err != nil {
		return nil, err
	}

	out, err := step(ctx, src, settings)
	if err != nil {
		return nil, err
	}

	result, err := conversion.RasterToMat(out, input, tag+"_gray")
	if err != nil {
		return nil, fmt.Errorf("failed to create result Mat: %w", err)
	}
	defer result.Close()

	return conversion.ConvertToBGR(result)
}

// CustomGaussianFilter blurs with the directly convolved Gaussian kernel.
type CustomGaussianFilter struct {
	runner *spatial.Runner
}

func NewCustomGaussianFilter(runner *spatial.Runner) *CustomGaussianFilter {
	return &CustomGaussianFilter{runner: runner}
}

func (c *CustomGaussianFilter) Name() string  { return "custom-gaussian" }
func (c *CustomGaussianFilter) Label() string { return "Custom Gaussian Blur" }

func (c *CustomGaussianFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	return runOnGray(ctx, input, params, "custom_gaussian", c.runner.GaussianBlur)
}

// LocalHistogramFilter equalizes every pixel against its own neighbourhood.
type LocalHistogramFilter struct {
	runner *spatial.Runner
}

func NewLocalHistogramFilter(runner *spatial.Runner) *LocalHistogramFilter {
	return &LocalHistogramFilter{runner: runner}
}

func (l *LocalHistogramFilter) Name() string  { return "local-histeq" }
func (l *LocalHistogramFilter) Label() string { return "Local Histogram Equalization" }

func (l *LocalHistogramFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	return runOnGray(ctx, input, params, "local_histeq", l.runner.LocalEqualize)
}
