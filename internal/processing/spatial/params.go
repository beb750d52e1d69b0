// Package spatial runs the hand-written pixel algorithms on behalf of the
// filter menu: it turns loosely typed filter parameters into validated
// settings and applies the narrowing policy after convolution.
package spatial

import (
	"fmt"
	"math"

	"grayscope/internal/raster"
)

const (
	ParamKernelSize = "kernel_size"
	ParamAmplitude  = "amplitude"
	ParamWindowSize = "window_size"
	ParamNarrow     = "narrow"
	ParamBorder     = "border"
	ParamWorkers    = "workers"

	// Read by the library-backed filters.
	ParamCannyLow        = "canny_low"
	ParamCannyHigh       = "canny_high"
	ParamBinaryThreshold = "binary_threshold"
)

// Defaults of the Gaussian and equalization menu entries.
const (
	DefaultKernelSize = 43
	DefaultAmplitude  = 1.0
	DefaultWindowSize = 5
)

type Settings struct {
	KernelSize int
	Amplitude  float64
	WindowSize int
	Narrow     raster.NarrowPolicy
	Border     raster.Border
	Workers    int
}

func DefaultSettings() Settings {
	return Settings{
		KernelSize: DefaultKernelSize,
		Amplitude:  DefaultAmplitude,
		WindowSize: DefaultWindowSize,
		Narrow:     raster.NarrowWrap,
		Border:     raster.BorderSymmetric,
	}
}

// SettingsFromParams overlays params on DefaultSettings. Unknown keys are
// ignored; known keys with the wrong type are an error.
func SettingsFromParams(params map[string]interface{}) (Settings, error) {
	s := DefaultSettings()
	var err error

	if s.KernelSize, err = IntParam(params, ParamKernelSize, s.KernelSize); err != nil {
		return s, err
	}
	if s.Amplitude, err = FloatParam(params, ParamAmplitude, s.Amplitude); err != nil {
		return s, err
	}
	if s.WindowSize, err = IntParam(params, ParamWindowSize, s.WindowSize); err != nil {
		return s, err
	}
	if s.Workers, err = IntParam(params, ParamWorkers, s.Workers); err != nil {
		return s, err
	}

	switch v := params[ParamNarrow].(type) {
	case nil:
	case raster.NarrowPolicy:
		s.Narrow = v
	case string:
		if s.Narrow, err = raster.ParseNarrowPolicy(v); err != nil {
			return s, err
		}
	default:
		return s, fmt.Errorf("%w: parameter %s has type %T", raster.ErrInvalidArgument, ParamNarrow, v)
	}

	switch v := params[ParamBorder].(type) {
	case nil:
	case raster.Border:
		s.Border = v
	case string:
		if s.Border, err = raster.ParseBorder(v); err != nil {
			return s, err
		}
	default:
		return s, fmt.Errorf("%w: parameter %s has type %T", raster.ErrInvalidArgument, ParamBorder, v)
	}

	return s, nil
}

// Options converts s into the raster options both algorithms accept.
func (s Settings) Options() []raster.Option {
	return []raster.Option{raster.WithWorkers(s.Workers), raster.WithBorder(s.Border)}
}

// IntParam reads an integer parameter. Integral float64 values are
// accepted since numeric entry widgets produce them.
func IntParam(params map[string]interface{}, key string, def int) (int, error) {
	switch v := params[key].(type) {
	case nil:
		return def, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return def, fmt.Errorf("%w: parameter %s=%v is not an integer", raster.ErrInvalidArgument, key, v)
		}
		return int(v), nil
	default:
		return def, fmt.Errorf("%w: parameter %s has type %T", raster.ErrInvalidArgument, key, v)
	}
}

func FloatParam(params map[string]interface{}, key string, def float64) (float64, error) {
	switch v := params[key].(type) {
	case nil:
		return def, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return def, fmt.Errorf("%w: parameter %s has type %T", raster.ErrInvalidArgument, key, v)
	}
}
