package app

import (
	"os"
	"runtime"

	"grayscope/internal/config"
	"grayscope/internal/gui"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
)

const (
	AppName    = "Image Processing App"
	AppID      = "com.grayscope.app"
	AppVersion = "1.0.0"
)

type Application struct {
	fyneApp    fyne.App
	window     fyne.Window
	services   *Services
	controller *gui.Controller
	view       *gui.View
	lifecycle  *Lifecycle
}

func NewApplication(cfg config.Config) (*Application, error) {
	services, err := NewServices(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	log := services.Logger

	fyneApp := fyneapp.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":        AppVersion,
		"window_width":   cfg.Window.Width,
		"window_height":  cfg.Window.Height,
		"workers":        cfg.Processing.Workers,
		"border":         cfg.Processing.Border,
		"narrow":         cfg.Processing.Narrow,
		"num_cpu":        runtime.NumCPU(),
		"thumbnail_size": cfg.Window.ThumbnailSize,
	})

	controller := gui.NewController(services.Coordinator, log, cfg.Window.ThumbnailSize)
	view := gui.NewView(window, cfg.Window.ThumbnailSize, controller.Actions())
	controller.SetView(view)

	lifecycle := NewLifecycle(log)
	lifecycle.OnShutdown("controller", controller.Shutdown)
	lifecycle.OnShutdown("services", services.Close)

	log.Info("Application", "initialization complete", nil)
	return &Application{
		fyneApp:    fyneApp,
		window:     window,
		services:   services,
		controller: controller,
		view:       view,
		lifecycle:  lifecycle,
	}, nil
}

// Run shows the window and blocks until it is closed.
func (a *Application) Run() error {
	log := a.services.Logger

	a.window.SetCloseIntercept(func() {
		log.Info("Application", "shutdown requested", nil)
		a.view.SetBusy(true)
		a.view.SetStatus("Shutting down...")
		a.lifecycle.ShutdownAsync(func() {
			fyne.Do(a.window.Close)
		})
	})

	a.window.SetContent(a.view.Content())
	a.window.Show()

	log.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	a.lifecycle.Shutdown()
	return nil
}

// Shutdown is safe to call from any goroutine, including signal handlers.
func (a *Application) Shutdown() {
	a.lifecycle.Shutdown()
	fyne.Do(a.fyneApp.Quit)
}
