package conversion

import (
	"fmt"
	"image"
	"runtime"

	"grayscope/internal/opencv/safe"
	"grayscope/internal/raster"

	"gocv.io/x/gocv"
)

// ConvertToGrayscale converts multi-channel images to single-channel grayscale
func ConvertToGrayscale(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateChannels(src, "grayscale conversion", 1, 3, 4); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if src.Channels() == 1 {
		return src.Clone(src.Tag() + "_gray")
	}

	code := gocv.ColorBGRToGray
	if src.Channels() == 4 {
		code = gocv.ColorBGRAToGray
	}

	dst := gocv.NewMat()
	gocv.CvtColor(src.GetMat(), &dst, code)
	return src.Derive(dst, src.Tag()+"_gray")
}

// ConvertToBGR promotes gray or BGRA input to three-channel BGR.
func ConvertToBGR(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateChannels(src, "BGR conversion", 1, 3, 4); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var code gocv.ColorConversionCode
	switch src.Channels() {
	case 3:
		return src.Clone(src.Tag() + "_bgr")
	case 1:
		code = gocv.ColorGrayToBGR
	default:
		code = gocv.ColorBGRAToBGR
	}

	dst := gocv.NewMat()
	gocv.CvtColor(src.GetMat(), &dst, code)
	return src.Derive(dst, src.Tag()+"_bgr")
}

// MatToRaster copies an 8-bit single-channel Mat into a raster.Gray.
func MatToRaster(src *safe.Mat) (*raster.Gray, error) {
	if err := safe.ValidateChannels(src, "Mat to raster conversion", 1); err != nil {
		return nil, err
	}
	if src.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("Mat to raster conversion requires CV_8UC1, got %v", src.Type())
	}

	m := src.GetMat()
	if !m.IsContinuous() {
		c := m.Clone()
		defer c.Close()
		m = c
	}

	data, err := m.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("failed to access Mat data: %w", err)
	}

	pix := make([]uint8, len(data))
	copy(pix, data)
	return raster.GrayFromPix(m.Cols(), m.Rows(), pix)
}

// RasterToMat copies g into a new CV_8UC1 Mat tracked like like.
func RasterToMat(g *raster.Gray, like *safe.Mat, tag string) (*safe.Mat, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	packed := g
	if g.Stride != g.Width {
		packed = g.Clone()
	}

	view, err := gocv.NewMatFromBytes(packed.Height, packed.Width, gocv.MatTypeCV8UC1, packed.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to create Mat from raster: %w", err)
	}
	defer view.Close()

	owned := view.Clone()
	runtime.KeepAlive(packed.Pix)

	if like != nil {
		return like.Derive(owned, tag)
	}
	return safe.Adopt(owned, nil, tag)
}

// MatToImage converts 8-bit gray, BGR or BGRA Mats to a Go image.
func MatToImage(src *safe.Mat) (image.Image, error) {
	if err := safe.ValidateChannels(src, "Mat to image conversion", 1, 3, 4); err != nil {
		return nil, err
	}

	m := src.GetMat()
	img, err := m.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert Mat to image: %w", err)
	}
	return img, nil
}
