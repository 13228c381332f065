package app

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

const (
	// window margin from the right and bottom screen edges
	marginRight  = 10
	marginBottom = 50
)

// UI is the part of the desktop runtime the app drives
type UI interface {
	ShowError(title, message string)
	Emit(event string, data interface{})
	Quit()
	PlaceWindow(width, height int) error
}

// PlacementFor returns the top-left corner that puts a width x height window
// in the bottom-right of a screen, clear of the taskbar
func PlacementFor(screenWidth, screenHeight, width, height int) (x, y int) {
	return screenWidth - width - marginRight, screenHeight - height - marginBottom
}

// wailsUI implements UI over the wails runtime bound to the startup context
type wailsUI struct {
	ctx context.Context
}

// NewWailsUI wraps the context wails passes to OnStartup
func NewWailsUI(ctx context.Context) UI {
	return &wailsUI{ctx: ctx}
}

func (w *wailsUI) ShowError(title, message string) {
	_, _ = runtime.MessageDialog(w.ctx, runtime.MessageDialogOptions{
		Type:    runtime.ErrorDialog,
		Title:   title,
		Message: message,
	})
}

func (w *wailsUI) Emit(event string, data interface{}) {
	runtime.EventsEmit(w.ctx, event, data)
}

func (w *wailsUI) Quit() {
	runtime.Quit(w.ctx)
}

func (w *wailsUI) PlaceWindow(width, height int) error {
	screens, err := runtime.ScreenGetAll(w.ctx)
	if err != nil {
		return fmt.Errorf("list screens: %w", err)
	}
	if len(screens) == 0 {
		return fmt.Errorf("no screens reported")
	}

	screen := screens[0]
	for _, s := range screens {
		if s.IsPrimary {
			screen = s
			break
		}
	}

	x, y := PlacementFor(screen.Size.Width, screen.Size.Height, width, height)
	runtime.WindowSetSize(w.ctx, width, height)
	runtime.WindowSetPosition(w.ctx, x, y)
	return nil
}
