package pages

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/whhaicheng/news-scraper/internal/app/usecase"
	"github.com/whhaicheng/news-scraper/internal/domain/notice"
)

// ToastOverlay stacks toasts at the top of the window.
type ToastOverlay struct {
	box     *fyne.Container
	dismiss func(id int) bool
}

// NewToastOverlay creates the overlay. dismiss is called when the close
// button of a toast is tapped.
func NewToastOverlay(dismiss func(id int) bool) (*ToastOverlay, fyne.CanvasObject) {
	o := &ToastOverlay{
		box:     container.NewVBox(),
		dismiss: dismiss,
	}
	return o, container.NewVBox(container.NewPadded(o.box), layout.NewSpacer())
}

// SetDismiss sets the close button callback.
func (o *ToastOverlay) SetDismiss(dismiss func(id int) bool) {
	o.dismiss = dismiss
}

// Show replaces the visible toasts. Must be called on the fyne goroutine.
func (o *ToastOverlay) Show(toasts []usecase.Toast) {
	objects := make([]fyne.CanvasObject, 0, len(toasts))
	for _, t := range toasts {
		objects = append(objects, o.toastView(t))
	}
	o.box.Objects = objects
	o.box.Refresh()
}

// Count returns the number of visible toasts.
func (o *ToastOverlay) Count() int {
	return len(o.box.Objects)
}

// OnChange returns a callback for usecase.ToastQueue.
func (o *ToastOverlay) OnChange() func([]usecase.Toast) {
	return func(toasts []usecase.Toast) {
		fyne.Do(func() { o.Show(toasts) })
	}
}

func (o *ToastOverlay) toastView(t usecase.Toast) fyne.CanvasObject {
	id := t.ID
	bg := canvas.NewRectangle(kindColor(t.Notice.Kind))
	bg.CornerRadius = 10

	text := canvas.NewText(t.Notice.Emoji+"  "+t.Notice.Message, color.White)
	text.TextStyle = fyne.TextStyle{Bold: true}

	closeBtn := widget.NewButtonWithIcon("", theme.CancelIcon(), func() {
		if o.dismiss != nil {
			o.dismiss(id)
		}
	})
	closeBtn.Importance = widget.LowImportance

	row := container.NewHBox(text, layout.NewSpacer(), closeBtn)
	return container.NewStack(bg, container.NewPadded(row))
}

func kindColor(kind notice.Kind) color.Color {
	switch kind {
	case notice.KindSuccess:
		return theme.Color(theme.ColorNameSuccess)
	case notice.KindWarning:
		return theme.Color(theme.ColorNameWarning)
	case notice.KindError:
		return theme.Color(theme.ColorNameError)
	}
	return theme.Color(theme.ColorNamePrimary)
}
