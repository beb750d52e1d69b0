package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Action is one button of the grid.
type Action struct {
	Name    string
	Label   string
	Handler func()
}

// Toolbar lays the actions out in a two-column grid with a status line
// underneath.
type Toolbar struct {
	container   *fyne.Container
	buttons     map[string]*widget.Button
	statusLabel *widget.Label
}

func NewToolbar(actions []Action) *Toolbar {
	t := &Toolbar{
		buttons:     make(map[string]*widget.Button, len(actions)),
		statusLabel: widget.NewLabel("Ready"),
	}

	grid := container.NewGridWithColumns(2)
	for _, a := range actions {
		button := widget.NewButton(a.Label, a.Handler)
		t.buttons[a.Name] = button
		grid.Add(button)
	}

	t.container = container.NewVBox(
		container.NewCenter(grid),
		container.NewCenter(t.statusLabel),
	)
	return t
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

func (t *Toolbar) SetStatus(status string) {
	t.statusLabel.SetText(status)
}

// SetBusy disables every button while work is running.
func (t *Toolbar) SetBusy(busy bool) {
	for _, b := range t.buttons {
		if busy {
			b.Disable()
		} else {
			b.Enable()
		}
	}
}
