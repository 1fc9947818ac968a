// Package widget holds the interactive controls of the overlay menu. Widgets are built once from
// the configuration and ticked every frame on the render thread: Interact for every widget in
// order, then one of the render calls.
package widget

import (
	"fmt"

	"practicetool/hotkey"
	"practicetool/imui"
	"practicetool/logging"
)

// Frame is what a widget sees of the current frame
type Frame struct {
	UI   *imui.Context
	Keys hotkey.State
}

type Widget interface {
	// Interact consumes hotkeys; it runs in every UI mode
	Interact(f *Frame)
	// RenderActive draws into the open menu
	RenderActive(f *Frame)
	// RenderPassive draws into the indicator bar while the menu is closed
	RenderPassive(f *Frame)
	// DrainLog returns and clears the messages queued since the last call
	DrainLog() []string
}

// Placeholder stands in for a value whose chain did not resolve
const Placeholder = "—"

var log = logging.New("widget")

// logBuffer is embedded by widgets that report to the frame log
type logBuffer struct {
	lines []string
}

func (b *logBuffer) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Infoln(msg)
	b.lines = append(b.lines, msg)
}

func (b *logBuffer) DrainLog() []string {
	lines := b.lines
	b.lines = nil
	return lines
}

// passive is embedded by widgets that draw nothing while the menu is closed
type passive struct{}

func (passive) RenderPassive(*Frame) {}

// popupPos places a modal to the right of the button that opens it
func popupPos(ui *imui.Context, at imui.Vec2) imui.Vec2 {
	return at.Add(imui.Vec2{X: 200 * ui.Scale})
}

// closeRequested is the modal close test shared by every popup: the button or the close hotkey
// while no item is being edited
func closeRequested(f *Frame, label string, close hotkey.Hotkey) bool {
	clicked := f.UI.Button(hotkey.Label(label, &close), imui.Vec2{X: f.UI.ButtonWidth()})
	return clicked || (close.KeyUp(f.Keys) && !f.UI.AnyItemActive())
}
