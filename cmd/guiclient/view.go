package main

import (
	"context"
	"errors"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/harrylevesque/boardbot/internal/app"
	"github.com/harrylevesque/boardbot/internal/files"
	"github.com/harrylevesque/boardbot/internal/screen"
)

var (
	colorConnected    = color.NRGBA{R: 0x2e, G: 0xcc, B: 0x40, A: 0xff}
	colorDisconnected = color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
)

type resolveFunc func(ctx context.Context, locator string) (*files.Resource, error)

// view renders a screen.State. All methods except show run on the UI
// goroutine.
type view struct {
	ctx     context.Context
	resolve resolveFunc
	logger  zerolog.Logger

	dot      *canvas.Circle
	status   *widget.Button
	image    *canvas.Image
	empty    *widget.Label
	selectBt *widget.Button
	uploadBt *widget.Button

	shown string // locator currently drawn
	gen   int
}

func newView(ctx context.Context, resolve resolveFunc, logger zerolog.Logger) *view {
	v := &view{ctx: ctx, resolve: resolve, logger: logger}

	v.dot = canvas.NewCircle(colorDisconnected)
	v.status = widget.NewButton(screen.LabelUnconnected, nil)
	v.status.Importance = widget.LowImportance

	v.image = canvas.NewImageFromResource(nil)
	v.image.FillMode = canvas.ImageFillContain
	v.image.SetMinSize(fyne.NewSize(480, 360))
	v.empty = widget.NewLabel("No image selected")
	v.empty.Alignment = fyne.TextAlignCenter

	v.selectBt = widget.NewButton(screen.LabelSelect, nil)
	v.uploadBt = widget.NewButton(screen.LabelSend, nil)
	v.uploadBt.Importance = widget.HighImportance
	v.uploadBt.Disable()
	return v
}

func (v *view) content() fyne.CanvasObject {
	title := widget.NewLabelWithStyle(screen.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	dot := container.NewGridWrap(fyne.NewSize(12, 12), v.dot)
	header := container.NewHBox(title, layout.NewSpacer(), container.NewCenter(dot), v.status)
	buttons := container.NewGridWithColumns(2, v.selectBt, v.uploadBt)
	return container.NewBorder(header, buttons, nil, nil, container.NewStack(v.empty, v.image))
}

func (v *view) render(st screen.State) {
	if st.Connected {
		v.dot.FillColor = colorConnected
	} else {
		v.dot.FillColor = colorDisconnected
	}
	v.dot.Refresh()
	v.status.SetText(st.StatusLabel())

	v.uploadBt.SetText(st.UploadLabel())
	if st.CanUpload() {
		v.uploadBt.Enable()
	} else {
		v.uploadBt.Disable()
	}
	if st.Loading {
		v.selectBt.Disable()
	} else {
		v.selectBt.Enable()
	}

	if locator := st.Display(); locator != v.shown {
		v.shown = locator
		v.show(locator)
	}
}

// show loads locator off the UI goroutine. A newer call wins.
func (v *view) show(locator string) {
	v.gen++
	gen := v.gen
	if locator == "" {
		v.image.Resource = nil
		v.image.Refresh()
		v.empty.Show()
		return
	}

	go func() {
		res, err := v.resolve(v.ctx, locator)
		fyne.Do(func() {
			if gen != v.gen {
				return
			}
			if err != nil {
				v.logger.Error().Err(err).Msg("failed to load image")
				return
			}
			v.empty.Hide()
			v.image.Resource = fyne.NewStaticResource("image"+res.Extension(), res.Data)
			v.image.Refresh()
		})
	}()
}

// newWindow assembles the screen and wires it to the window.
func newWindow(ctx context.Context, fa fyne.App, a *app.App) fyne.Window {
	w := fa.NewWindow(screen.Title)
	w.Resize(fyne.NewSize(640, 720))

	v := newView(ctx, a.Resolve, a.Logger)
	s := a.Screen(&dialogPicker{window: w}, screen.AlertFunc(func(title, message string) {
		fyne.Do(func() {
			dialog.ShowError(errors.New(message), w)
		})
	}))
	s.OnChange(func(st screen.State) {
		fyne.Do(func() { v.render(st) })
	})

	// the picker and the upload block, so neither may run on the UI goroutine
	v.selectBt.OnTapped = func() {
		go func() { _ = s.PickImage(ctx) }()
	}
	v.uploadBt.OnTapped = func() {
		go func() {
			if err := s.UploadImage(ctx); err != nil && !errors.Is(err, screen.ErrBusy) {
				a.Logger.Debug().Err(err).Msg("upload ended with error")
			}
		}()
	}
	v.status.OnTapped = a.Monitor.Reconnect

	w.SetContent(v.content())
	v.render(s.Snapshot())
	return w
}
