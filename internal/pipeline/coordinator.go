package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"sync"
	"time"

	"grayscope/internal/imaging"
	"grayscope/internal/logger"
	"grayscope/internal/opencv/conversion"
	"grayscope/internal/opencv/memory"
	"grayscope/internal/opencv/safe"
	"grayscope/internal/processing/filters"
)

// ErrNoImage is returned when a filter or save is requested before any
// image has been loaded.
var ErrNoImage = errors.New("no image loaded")

// ImageData is a snapshot of one image held by the coordinator. Image is
// an independent Go copy safe to hand to the GUI.
type ImageData struct {
	Image    image.Image
	Width    int
	Height   int
	Channels int
	Format   string
	Source   string
	Filter   string
}

// Coordinator owns the loaded image and the running result. Filters are
// applied to the latest result when there is one, so menu actions chain.
type Coordinator struct {
	mu        sync.RWMutex
	original  *safe.Mat
	processed *safe.Mat

	originalData  *ImageData
	processedData *ImageData

	registry      *filters.Registry
	memoryManager *memory.Manager
	logger        logger.Logger
	params        map[string]interface{}
}

func NewCoordinator(registry *filters.Registry, memMgr *memory.Manager, log logger.Logger, params map[string]interface{}) *Coordinator {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &Coordinator{
		registry:      registry,
		memoryManager: memMgr,
		logger:        log,
		params:        params,
	}
}

func (c *Coordinator) Filters() []filters.Filter {
	return c.registry.List()
}

// LoadFile opens path and loads it.
func (c *Coordinator) LoadFile(path string) (*ImageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return c.LoadImage(path, f)
}

// LoadImage decodes r and makes it the new original, discarding any
// previous result.
func (c *Coordinator) LoadImage(source string, r io.Reader) (*ImageData, error) {
	start := time.Now()

	mat, format, err := decode(r, c.tracker())
	if err != nil {
		c.logger.Error("Pipeline", err, map[string]interface{}{"source": source})
		return nil, err
	}

	data, err := snapshot(mat, format, source, "")
	if err != nil {
		mat.Close()
		return nil, err
	}

	c.mu.Lock()
	c.closeLocked()
	c.original = mat
	c.originalData = data
	c.mu.Unlock()

	c.logger.Info("Pipeline", "image loaded", map[string]interface{}{
		"source":      source,
		"width":       data.Width,
		"height":      data.Height,
		"channels":    data.Channels,
		"format":      format,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return data, nil
}

// Apply runs the named filter on the current image and stores the result.
// The write lock is held for the whole run and the pixel algorithms only
// check ctx before they start, so Cleanup waits for a running filter.
func (c *Coordinator) Apply(ctx context.Context, name string) (*ImageData, error) {
	filter, err := c.registry.Get(name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	input := c.currentLocked()
	if input == nil {
		return nil, ErrNoImage
	}

	start := time.Now()
	c.logger.Debug("Pipeline", "applying filter", map[string]interface{}{
		"filter": name,
		"input":  input.Tag(),
	})

	result, err := filter.Apply(ctx, input, c.params)
	if err != nil {
		c.logger.Error("Pipeline", err, map[string]interface{}{"filter": name})
		return nil, fmt.Errorf("%s: %w", filter.Label(), err)
	}

	source := ""
	if c.originalData != nil {
		source = c.originalData.Source
	}
	data, err := snapshot(result, c.originalData.Format, source, name)
	if err != nil {
		result.Close()
		return nil, err
	}

	if c.processed != nil {
		c.processed.Close()
	}
	c.processed = result
	c.processedData = data

	c.logger.Info("Pipeline", "filter applied", map[string]interface{}{
		"filter":      name,
		"width":       data.Width,
		"height":      data.Height,
		"channels":    data.Channels,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return data, nil
}

// SaveImage encodes the current image. An empty format means png.
func (c *Coordinator) SaveImage(w io.Writer, format string) error {
	data := c.Current()
	if data == nil {
		return ErrNoImage
	}

	start := time.Now()
	if err := imaging.Encode(w, data.Image, format); err != nil {
		c.logger.Error("Pipeline", err, map[string]interface{}{"format": format})
		return fmt.Errorf("failed to encode image: %w", err)
	}

	c.logger.Info("Pipeline", "image saved", map[string]interface{}{
		"format":      format,
		"width":       data.Width,
		"height":      data.Height,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// SaveFile writes the current image to path, picking the format from its
// extension.
func (c *Coordinator) SaveFile(path string) error {
	if c.Current() == nil {
		return ErrNoImage
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := c.SaveImage(f, imaging.FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Current is the processed image if any filter ran, else the original.
func (c *Coordinator) Current() *ImageData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.processedData != nil {
		return c.processedData
	}
	return c.originalData
}

// Cleanup releases every native Mat held by the coordinator.
func (c *Coordinator) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Coordinator) currentLocked() *safe.Mat {
	if c.processed != nil {
		return c.processed
	}
	return c.original
}

func (c *Coordinator) closeLocked() {
	if c.processed != nil {
		c.processed.Close()
		c.processed = nil
	}
	if c.original != nil {
		c.original.Close()
		c.original = nil
	}
	c.processedData = nil
	c.originalData = nil
}

func (c *Coordinator) tracker() safe.MemoryTracker {
	if c.memoryManager == nil {
		return nil
	}
	return c.memoryManager
}

func snapshot(mat *safe.Mat, format, source, filter string) (*ImageData, error) {
	img, err := conversion.MatToImage(mat)
	if err != nil {
		return nil, fmt.Errorf("failed to convert result for display: %w", err)
	}
	return &ImageData{
		Image:    img,
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Format:   format,
		Source:   source,
		Filter:   filter,
	}, nil
}
