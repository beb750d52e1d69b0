package gui

import (
	"image"

	"grayscope/internal/gui/widgets"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}

// View owns the widgets of the main window. All methods must run on the
// fyne goroutine.
type View struct {
	window       fyne.Window
	imageDisplay *widgets.ImageDisplay
	toolbar      *widgets.Toolbar
}

func NewView(window fyne.Window, thumbnailSize int, actions []widgets.Action) *View {
	return &View{
		window:       window,
		imageDisplay: widgets.NewImageDisplay(thumbnailSize),
		toolbar:      widgets.NewToolbar(actions),
	}
}

func (v *View) Content() fyne.CanvasObject {
	return container.NewVBox(
		widget.NewLabel("Load an image and choose processing options."),
		v.imageDisplay.GetContainer(),
		v.toolbar.GetContainer(),
	)
}

func (v *View) SetOriginalImage(img image.Image) {
	v.imageDisplay.SetOriginalImage(img)
}

func (v *View) SetPreviewImage(img image.Image) {
	v.imageDisplay.SetPreviewImage(img)
}

func (v *View) SetStatus(status string) {
	v.toolbar.SetStatus(status)
}

func (v *View) SetBusy(busy bool) {
	v.toolbar.SetBusy(busy)
}

func (v *View) ShowError(err error) {
	dialog.ShowError(err, v.window)
}

func (v *View) ShowMessage(title, message string) {
	dialog.ShowInformation(title, message, v.window)
}

func (v *View) ShowOpenDialog(callback func(fyne.URIReadCloser, error)) {
	d := dialog.NewFileOpen(callback, v.window)
	d.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	d.Show()
}

func (v *View) ShowSaveDialog(callback func(fyne.URIWriteCloser, error)) {
	d := dialog.NewFileSave(callback, v.window)
	d.SetFileName("result.png")
	d.SetFilter(storage.NewExtensionFileFilter(imageExtensions[:6]))
	d.Show()
}
