package filters

import (
	"context"
	"fmt"
	"image"

	"grayscope/internal/opencv/conversion"
	"grayscope/internal/opencv/safe"
	"grayscope/internal/processing/spatial"

	"gocv.io/x/gocv"
)

// EnhanceFilter sharpens, applies an unsharp mix and equalizes the HSV
// value channel. Output is BGR.
type EnhanceFilter struct{}

func NewEnhanceFilter() *EnhanceFilter {
	return &EnhanceFilter{}
}

func (e *EnhanceFilter) Name() string  { return "enhance" }
func (e *EnhanceFilter) Label() string { return "Enhance" }

func (e *EnhanceFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	bgr, err := conversion.ConvertToBGR(input)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()
	src := bgr.GetMat()

	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer kernel.Close()
	for r, row := range [3][3]float32{{0, -1, 0}, {-1, 5, -1}, {0, -1, 0}} {
		for c, v := range row {
			kernel.SetFloatAt(r, c, v)
		}
	}

	sharpened := gocv.NewMat()
	defer sharpened.Close()
	gocv.Filter2D(src, &sharpened, -1, kernel, image.Pt(-1, -1), 0, gocv.BorderDefault)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Pt(9, 9), 0, 0, gocv.BorderDefault)

	unsharp := gocv.NewMat()
	defer unsharp.Close()
	gocv.AddWeighted(src, 1.5, blurred, -0.5, 0, &unsharp)

	combined := gocv.NewMat()
	defer combined.Close()
	gocv.AddWeighted(sharpened, 0.4, unsharp, 0.6, 0, &combined)

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(combined, &hsv, gocv.ColorBGRToHSV)

	channels := gocv.Split(hsv)
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()
	if len(channels) != 3 {
		return nil, fmt.Errorf("expected 3 HSV channels, got %d", len(channels))
	}

	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(channels[2], &equalized)

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge([]gocv.Mat{channels[0], channels[1], equalized}, &merged)

	dst := gocv.NewMat()
	gocv.CvtColor(merged, &dst, gocv.ColorHSVToBGR)
	return input.Derive(dst, "enhanced")
}

// EdgeDetectFilter runs Canny on the grayscale image.
type EdgeDetectFilter struct{}

func NewEdgeDetectFilter() *EdgeDetectFilter {
	return &EdgeDetectFilter{}
}

func (e *EdgeDetectFilter) Name() string  { return "edge-detect" }
func (e *EdgeDetectFilter) Label() string { return "Edge Detect" }

func (e *EdgeDetectFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	low, err := spatial.FloatParam(params, spatial.ParamCannyLow, 100)
	if err != nil {
		return nil, err
	}
	high, err := spatial.FloatParam(params, spatial.ParamCannyHigh, 200)
	if err != nil {
		return nil, err
	}

	gray, err := conversion.ConvertToGrayscale(input)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	dst := gocv.NewMat()
	gocv.Canny(gray.GetMat(), &dst, float32(low), float32(high))
	return input.Derive(dst, "edges")
}

// ThresholdFilter applies a global binary threshold.
type ThresholdFilter struct{}

func NewThresholdFilter() *ThresholdFilter {
	return &ThresholdFilter{}
}

func (t *ThresholdFilter) Name() string  { return "threshold" }
func (t *ThresholdFilter) Label() string { return "Threshold" }

func (t *ThresholdFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	thresh, err := spatial.FloatParam(params, spatial.ParamBinaryThreshold, 127)
	if err != nil {
		return nil, err
	}

	gray, err := conversion.ConvertToGrayscale(input)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	dst := gocv.NewMat()
	gocv.Threshold(gray.GetMat(), &dst, float32(thresh), 255, gocv.ThresholdBinary)
	return input.Derive(dst, "threshold")
}

// GrayEnhanceFilter equalizes the global histogram of the grayscale image.
type GrayEnhanceFilter struct{}

func NewGrayEnhanceFilter() *GrayEnhanceFilter {
	return &GrayEnhanceFilter{}
}

func (g *GrayEnhanceFilter) Name() string  { return "gray-enhance" }
func (g *GrayEnhanceFilter) Label() string { return "Gray & Enhance" }

func (g *GrayEnhanceFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	gray, err := conversion.ConvertToGrayscale(input)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	dst := gocv.NewMat()
	gocv.EqualizeHist(gray.GetMat(), &dst)
	return input.Derive(dst, "gray_enhanced")
}

// LaplacianSharpenFilter adds the 64-bit Laplacian back onto the image and
// takes the saturated absolute value.
type LaplacianSharpenFilter struct{}

func NewLaplacianSharpenFilter() *LaplacianSharpenFilter {
	return &LaplacianSharpenFilter{}
}

func (l *LaplacianSharpenFilter) Name() string  { return "sharpen-laplacian" }
func (l *LaplacianSharpenFilter) Label() string { return "Sharpen (Laplacian)" }

func (l *LaplacianSharpenFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	gray, err := conversion.ConvertToGrayscale(input)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(gray.GetMat(), &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	wide := gocv.NewMat()
	defer wide.Close()
	gm := gray.GetMat()
	gm.ConvertTo(&wide, gocv.MatTypeCV64F)

	sum := gocv.NewMat()
	defer sum.Close()
	gocv.Add(wide, lap, &sum)

	dst := gocv.NewMat()
	gocv.ConvertScaleAbs(sum, &dst, 1, 0)
	return input.Derive(dst, "laplacian_sharpened")
}
