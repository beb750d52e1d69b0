// Package config loads application settings from defaults, an optional
// TOML file and GRAYSCOPE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"grayscope/internal/processing/equalize"
	"grayscope/internal/processing/gaussian"
	"grayscope/internal/processing/spatial"
	"grayscope/internal/raster"

	"github.com/BurntSushi/toml"
)

const envPrefix = "GRAYSCOPE_"

type Config struct {
	Log        LogConfig        `toml:"log"`
	Processing ProcessingConfig `toml:"processing"`
	Gaussian   GaussianConfig   `toml:"gaussian"`
	Equalize   EqualizeConfig   `toml:"equalize"`
	Filters    FilterConfig     `toml:"filters"`
	Window     WindowConfig     `toml:"window"`
}

type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

type ProcessingConfig struct {
	Workers int    `toml:"workers"`
	Border  string `toml:"border"`
	Narrow  string `toml:"narrow"`
}

type GaussianConfig struct {
	KernelSize int     `toml:"kernel_size"`
	Amplitude  float64 `toml:"amplitude"`
}

type EqualizeConfig struct {
	WindowSize int `toml:"window_size"`
}

type FilterConfig struct {
	CannyLow        float64 `toml:"canny_low"`
	CannyHigh       float64 `toml:"canny_high"`
	BinaryThreshold float64 `toml:"binary_threshold"`
}

type WindowConfig struct {
	Width         float32 `toml:"width"`
	Height        float32 `toml:"height"`
	ThumbnailSize int     `toml:"thumbnail_size"`
}

func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Processing: ProcessingConfig{
			Workers: runtime.NumCPU(),
			Border:  raster.BorderSymmetric.String(),
			Narrow:  raster.NarrowWrap.String(),
		},
		Gaussian: GaussianConfig{KernelSize: 43, Amplitude: 1},
		Equalize: EqualizeConfig{WindowSize: 5},
		Filters: FilterConfig{
			CannyLow:        100,
			CannyHigh:       200,
			BinaryThreshold: 127,
		},
		Window: WindowConfig{Width: 1000, Height: 700, ThumbnailSize: 200},
	}
}

// Load starts from Default, decodes path when it is non-empty, then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "DEBUG"); ok && v == "true" {
		c.Log.Level = "debug"
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(envPrefix + "LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sLOG_JSON: %w", envPrefix, err)
		}
		c.Log.JSON = b
	}
	if v, ok := lookup(envPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", envPrefix, err)
		}
		c.Processing.Workers = n
	}
	if v, ok := lookup(envPrefix + "BORDER"); ok {
		c.Processing.Border = v
	}
	if v, ok := lookup(envPrefix + "NARROW"); ok {
		c.Processing.Narrow = v
	}
	return nil
}

// Validate checks every field against the rules the processing code
// enforces, so a bad value fails at startup instead of on first use.
func (c Config) Validate() error {
	var errs []error

	if _, err := c.Border(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.NarrowPolicy(); err != nil {
		errs = append(errs, err)
	}
	if c.Processing.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Processing.Workers))
	}
	if err := gaussian.ValidateSize(c.Gaussian.KernelSize); err != nil {
		errs = append(errs, fmt.Errorf("gaussian.kernel_size: %w", err))
	}
	if err := gaussian.ValidateAmplitude(c.Gaussian.Amplitude); err != nil {
		errs = append(errs, fmt.Errorf("gaussian.amplitude: %w", err))
	}
	if err := equalize.ValidateWindow(c.Equalize.WindowSize); err != nil {
		errs = append(errs, fmt.Errorf("equalize.window_size: %w", err))
	}
	if c.Filters.CannyLow < 0 || c.Filters.CannyHigh < c.Filters.CannyLow {
		errs = append(errs, fmt.Errorf("canny thresholds %v/%v out of order",
			c.Filters.CannyLow, c.Filters.CannyHigh))
	}
	if c.Filters.BinaryThreshold < 0 || c.Filters.BinaryThreshold > 255 {
		errs = append(errs, fmt.Errorf("binary_threshold %v outside [0, 255]", c.Filters.BinaryThreshold))
	}
	if c.Window.ThumbnailSize <= 0 {
		errs = append(errs, fmt.Errorf("thumbnail_size must be positive, got %d", c.Window.ThumbnailSize))
	}

	return errors.Join(errs...)
}

func (c Config) Border() (raster.Border, error) {
	return raster.ParseBorder(c.Processing.Border)
}

func (c Config) NarrowPolicy() (raster.NarrowPolicy, error) {
	return raster.ParseNarrowPolicy(c.Processing.Narrow)
}

// FilterParams is the parameter map handed to every menu filter.
func (c Config) FilterParams() map[string]interface{} {
	return map[string]interface{}{
		spatial.ParamKernelSize:      c.Gaussian.KernelSize,
		spatial.ParamAmplitude:       c.Gaussian.Amplitude,
		spatial.ParamWindowSize:      c.Equalize.WindowSize,
		spatial.ParamNarrow:          c.Processing.Narrow,
		spatial.ParamBorder:          c.Processing.Border,
		spatial.ParamWorkers:         c.Processing.Workers,
		spatial.ParamCannyLow:        c.Filters.CannyLow,
		spatial.ParamCannyHigh:       c.Filters.CannyHigh,
		spatial.ParamBinaryThreshold: c.Filters.BinaryThreshold,
	}
}
