package gui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"sync"

	"grayscope/internal/gui/widgets"
	"grayscope/internal/imaging"
	"grayscope/internal/logger"
	"grayscope/internal/pipeline"
	"grayscope/internal/processing/filters"

	"fyne.io/fyne/v2"
)

// Processor is the part of the pipeline the GUI drives.
type Processor interface {
	LoadImage(source string, r io.Reader) (*pipeline.ImageData, error)
	Apply(ctx context.Context, name string) (*pipeline.ImageData, error)
	SaveImage(w io.Writer, format string) error
	Current() *pipeline.ImageData
	Filters() []filters.Filter
}

// Controller turns button presses into pipeline calls off the UI
// goroutine and pushes results back through fyne.Do.
type Controller struct {
	view          *View
	processor     Processor
	logger        logger.Logger
	thumbnailSize int

	mu     sync.Mutex
	busy   bool
	ctx    context.Context
	cancel context.CancelFunc
}

func NewController(processor Processor, log logger.Logger, thumbnailSize int) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		processor:     processor,
		logger:        log,
		thumbnailSize: thumbnailSize,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (c *Controller) SetView(view *View) {
	c.view = view
}

// Actions lists the buttons in grid order: load, every filter, save.
func (c *Controller) Actions() []widgets.Action {
	actions := []widgets.Action{{Name: "load", Label: "Load Image", Handler: c.LoadImage}}
	for _, f := range c.processor.Filters() {
		name := f.Name()
		actions = append(actions, widgets.Action{
			Name:    name,
			Label:   f.Label(),
			Handler: func() { c.ApplyFilter(name) },
		})
	}
	return append(actions, widgets.Action{Name: "save", Label: "Save Image", Handler: c.SaveImage})
}

func (c *Controller) LoadImage() {
	c.view.ShowOpenDialog(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			c.handleError("File selection error", err)
			return
		}
		if reader == nil {
			return
		}
		if !c.begin("Loading image...") {
			reader.Close()
			return
		}

		go func() {
			defer reader.Close()

			data, loadErr := c.processor.LoadImage(reader.URI().Path(), reader)
			var thumb image.Image
			if loadErr == nil {
				thumb, loadErr = imaging.Thumbnail(data.Image, c.thumbnailSize)
			}

			fyne.Do(func() {
				c.end()
				if loadErr != nil {
					c.handleError("Image load error", loadErr)
					return
				}
				c.view.SetOriginalImage(thumb)
				c.view.SetPreviewImage(thumb)
				c.view.SetStatus(fmt.Sprintf("Loaded %dx%d %s", data.Width, data.Height, data.Format))
			})
		}()
	})
}

func (c *Controller) ApplyFilter(name string) {
	if c.processor.Current() == nil {
		c.view.ShowMessage("Error", "Load an image first.")
		return
	}
	if !c.begin("Processing...") {
		return
	}

	go func() {
		data, err := c.processor.Apply(c.ctx, name)
		var thumb image.Image
		if err == nil {
			thumb, err = imaging.Thumbnail(data.Image, c.thumbnailSize)
		}

		fyne.Do(func() {
			c.end()
			if err != nil {
				if errors.Is(err, pipeline.ErrNoImage) {
					c.view.ShowMessage("Error", "Load an image first.")
					return
				}
				c.handleError("Processing error", err)
				return
			}
			c.view.SetPreviewImage(thumb)
			c.view.SetStatus(fmt.Sprintf("Applied %s", name))
		})
	}()
}

func (c *Controller) SaveImage() {
	if c.processor.Current() == nil {
		c.view.ShowMessage("Error", "Load an image first.")
		return
	}

	c.view.ShowSaveDialog(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			c.handleError("File save error", err)
			return
		}
		if writer == nil {
			return
		}

		format := imaging.FormatFromPath(writer.URI().Name())
		go func() {
			saveErr := c.processor.SaveImage(writer, format)
			closeErr := writer.Close()
			if saveErr == nil {
				saveErr = closeErr
			}

			fyne.Do(func() {
				if saveErr != nil {
					c.handleError("Image save error", saveErr)
					return
				}
				c.view.SetStatus("Saved " + strings.ToUpper(format))
			})
		}()
	})
}

// Shutdown cancels processing that has not started yet.
func (c *Controller) Shutdown() {
	c.cancel()
}

func (c *Controller) begin(status string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	c.view.SetBusy(true)
	c.view.SetStatus(status)
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
	c.view.SetBusy(false)
}

func (c *Controller) handleError(title string, err error) {
	c.logger.Error("Controller", err, map[string]interface{}{"context": title})
	c.view.SetStatus(title)
	c.view.ShowError(fmt.Errorf("%s: %w", title, err))
}
