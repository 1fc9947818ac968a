package overlay

import (
	"fmt"
	"math"

	"practicetool/config"
	"practicetool/imui"
)

const (
	indicatorsPopup = "##indicators"
	helpPopup       = "##help"
)

var indicatorLabels = map[config.IndicatorKind]string{
	config.IndicatorGameVersion:    "Game version",
	config.IndicatorPosition:       "Player position",
	config.IndicatorPositionChange: "Player velocity",
	config.IndicatorIGT:            "IGT",
	config.IndicatorFPS:            "FPS",
	config.IndicatorAnimation:      "Animation",
	config.IndicatorFrameCount:     "Frame count",
	config.IndicatorImguiDebug:     "UI debug",
}

func hypot3(x, y, z float64) float64 { return math.Sqrt(x*x + y*y + z*z) }

func (o *Overlay) renderMenu() {
	ui := o.ui
	ui.Begin("##tool-window", imui.WindowOptions{Pos: imui.Vec2{X: 16, Y: 16}, BgAlpha: 0.8})
	defer ui.End()

	for _, w := range o.opt.Widgets {
		w.RenderActive(&o.frame)
	}
	ui.Separator()

	width := imui.Vec2{X: ui.ButtonWidth()}
	if ui.Button("Close", width) {
		o.SetMode(ModeClosed)
	}
	if o.opt.OnUnload != nil && ui.Button("Unload", width) {
		o.logger.Infof("unload requested")
		o.unloading = true
	}
}

func (o *Overlay) renderClosed() {
	ui := o.ui
	ds := ui.IO.DisplaySize
	ui.Begin("##closed", imui.WindowOptions{Pos: imui.Vec2{X: 16, Y: ds.Y * 0.14}, BgAlpha: 0.5})
	defer ui.End()

	ui.Text(Title)
	if ui.SmallButton("Open") {
		o.SetMode(ModeMenuOpen)
	}
	ui.SameLine()
	at := ui.CursorScreenPos()
	if ui.SmallButton("Indicators") {
		ui.OpenPopup(indicatorsPopup)
	}
	ui.SameLine()
	if ui.SmallButton("Hide") {
		o.SetMode(ModeHidden)
	}
	ui.SameLine()
	if ui.SmallButton("Help") {
		ui.OpenPopup(helpPopup)
	}
	o.renderIndicatorsPopup(at)
	o.renderHelpPopup(at)

	for _, ind := range o.indicators {
		if ind.Enabled {
			o.renderIndicator(ind.Kind)
		}
	}
	for _, w := range o.opt.Widgets {
		w.RenderPassive(&o.frame)
	}
}

func (o *Overlay) renderIndicatorsPopup(at imui.Vec2) {
	ui := o.ui
	if !ui.BeginPopupModal(indicatorsPopup, at) {
		return
	}
	defer ui.EndPopup()

	for i := range o.indicators {
		ind := &o.indicators[i]
		ui.Checkbox(indicatorLabels[ind.Kind], &ind.Enabled)
		if ind.Kind == config.IndicatorFrameCount {
			ui.SameLine()
			if ui.SmallButton("Reset##frames") {
				o.frames = 0
			}
		}
	}
	if ui.Button("Close##indicators", imui.Vec2{X: ui.ButtonWidth()}) {
		ui.CloseCurrentPopup()
	}
}

func (o *Overlay) renderHelpPopup(at imui.Vec2) {
	ui := o.ui
	if !ui.BeginPopupModal(helpPopup, at) {
		return
	}
	defer ui.EndPopup()

	display := o.opt.Settings.Display
	ui.Text(Title)
	ui.Separator()
	ui.Textf("%s opens and closes the menu.", display)
	ui.Textf("Right Shift+%s hides the overlay; %s again shows it.", display, display)
	ui.Text("Hold LB+RB on a gamepad for the radial menu, pick with")
	ui.Text("the left stick and release A to activate.")
	ui.TextDisabled("Configuration: " + config.FileName)
	if ui.Button("Close##help", imui.Vec2{X: ui.ButtonWidth()}) {
		ui.CloseCurrentPopup()
	}
}

func (o *Overlay) renderIndicator(kind config.IndicatorKind) {
	ui := o.ui
	ch := o.opt.Chains
	switch kind {
	case config.IndicatorGameVersion:
		ui.Text(o.opt.Version.Label())

	case config.IndicatorPosition:
		if ch == nil {
			return
		}
		pos, ok := ch.Position.Read()
		angle, aok := ch.Angle.Read()
		if !ok || !aok {
			ui.TextDisabled("[XYZA] -")
			return
		}
		ui.Text("[XYZA]")
		ui.SameLine()
		ui.TextColored(imui.ColorRed, fmt.Sprintf("%.3f", pos[0]))
		ui.SameLine()
		ui.TextColored(imui.ColorGreen, fmt.Sprintf("%.3f", pos[1]))
		ui.SameLine()
		ui.TextColored(imui.ColorBlue, fmt.Sprintf("%.3f", pos[2]))
		ui.SameLine()
		ui.Textf("%.3f", angle)

	case config.IndicatorPositionChange:
		ui.Textf("[XYZ] %.6f | [XZ] %.6f | [Y] %.6f", o.delta[0], o.delta[1], o.delta[2])

	case config.IndicatorIGT:
		if ch == nil {
			return
		}
		if igt, ok := ch.IGT.Read(); ok {
			ui.Text(FormatIGT(igt))
		} else {
			ui.TextDisabled("IGT -")
		}

	case config.IndicatorFPS:
		if ch == nil {
			return
		}
		if fps, ok := ch.FPS.Read(); ok {
			ui.Textf("FPS %.1f", fps)
		} else {
			ui.TextDisabled("FPS -")
		}

	case config.IndicatorAnimation:
		if ch == nil {
			return
		}
		id, ok := ch.CurAnim.Read()
		t, tok := ch.CurAnimTime.Read()
		length, lok := ch.CurAnimLength.Read()
		if !ok || !tok || !lok {
			ui.TextDisabled("Animation -")
			return
		}
		ui.Textf("Animation %d (%.2fs / %.2fs)", id, t, length)

	case config.IndicatorFrameCount:
		ui.Textf("Frames %d", o.frames)

	case config.IndicatorImguiDebug:
		ui.Textf("Hovered %q active %q", ui.HoveredWindow(), ui.ActiveID())
		ui.Textf("Capture mouse %t keyboard %t text %t", ui.WantCaptureMouse(), ui.WantCaptureKeyboard(), ui.WantTextInput())
	}
}

func (o *Overlay) renderLogs() {
	entries := o.log.Visible()
	if len(entries) == 0 {
		return
	}
	ui := o.ui
	ds := ui.IO.DisplaySize
	ui.Begin("##logs", imui.WindowOptions{
		Pos:     imui.Vec2{X: ds.X * 0.95, Y: ds.Y * 0.8},
		Pivot:   imui.Vec2{X: 1, Y: 1},
		BgAlpha: 0.3,
		Flags:   imui.WindowNoInputs,
	})
	for _, e := range entries {
		ui.Text(e.Text)
	}
	ui.End()
}

func (o *Overlay) renderRadial() {
	r := o.router.Radial
	if !r.IsOpen() {
		return
	}
	labels := make([]string, len(r.Items))
	for i, it := range r.Items {
		labels[i] = it.Label
	}
	ui := o.ui
	center := ui.IO.DisplaySize.Scale(0.5)
	ui.DrawRadialMenu(center, labels, r.Selected(), 60*ui.Scale, 220*ui.Scale)
}
