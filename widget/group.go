package widget

import (
	"practicetool/hotkey"
	"practicetool/imui"
)

// Group shows its children in a modal behind one button
type Group struct {
	label       string
	popup       string
	hotkeyClose hotkey.Hotkey
	children    []Widget
}

func NewGroup(label string, hkClose hotkey.Hotkey, children []Widget) *Group {
	return &Group{label: label, popup: "##group-" + label, hotkeyClose: hkClose, children: children}
}

func (g *Group) Children() []Widget { return g.children }

func (g *Group) Interact(f *Frame) {
	for _, c := range g.children {
		c.Interact(f)
	}
}

func (g *Group) RenderActive(f *Frame) {
	ui := f.UI
	at := ui.CursorScreenPos()
	if ui.Button(g.label, imui.Vec2{X: ui.ButtonWidth()}) {
		ui.OpenPopup(g.popup)
	}
	if !ui.BeginPopupModal(g.popup, popupPos(ui, at)) {
		return
	}
	defer ui.EndPopup()

	for _, c := range g.children {
		c.RenderActive(f)
	}
	if closeRequested(f, "Close", g.hotkeyClose) {
		ui.CloseCurrentPopup()
	}
}

func (g *Group) RenderPassive(f *Frame) {
	for _, c := range g.children {
		c.RenderPassive(f)
	}
}

func (g *Group) DrainLog() []string {
	var out []string
	for _, c := range g.children {
		out = append(out, c.DrainLog()...)
	}
	return out
}
