package overlay

import (
	"time"

	"practicetool/config"
	"practicetool/game_state"
	"practicetool/imui"
	"practicetool/input"
	"practicetool/logging"
	"practicetool/process"
	"practicetool/widget"

	"golang.org/x/image/font"
)

const Title = "Dark Souls III Practice Tool"

type Options struct {
	Settings config.Settings
	Widgets  []widget.Widget
	Router   *input.Router
	Mem      process.Memory
	Chains   *game_state.PointerChains
	Version  game_state.Version

	// Faces returns the UI font at a pixel size; nil keeps the built-in face
	Faces func(px float64) font.Face
	// OnUnload runs when the user asks to unload the tool
	OnUnload func()
}

// Overlay is owned by the render thread; nothing in it is safe for concurrent use
type Overlay struct {
	opt        Options
	ui         *imui.Context
	router     *input.Router
	indicators []config.Indicator
	mode       Mode
	log        FrameLog
	frame      widget.Frame
	fontWidth  float32
	unloading  bool

	frames   uint64
	prevPos  game_state.Position
	havePrev bool
	delta    [3]float64 // xyz, xz, y

	logger *logging.Logger
}

func New(opt Options) *Overlay {
	ind := opt.Settings.Indicators
	if len(ind) == 0 {
		ind = config.DefaultIndicators()
	}
	o := &Overlay{
		opt:        opt,
		ui:         imui.NewContext(nil),
		router:     opt.Router,
		indicators: append([]config.Indicator(nil), ind...),
		mode:       ModeClosed,
		logger:     logging.New("overlay"),
	}
	o.frame = widget.Frame{UI: o.ui, Keys: &o.router.Keys}
	return o
}

func (o *Overlay) Mode() Mode                     { return o.mode }
func (o *Overlay) UI() *imui.Context              { return o.ui }
func (o *Overlay) Log() *FrameLog                 { return &o.log }
func (o *Overlay) Indicators() []config.Indicator { return o.indicators }

// SetMode switches mode and updates the game cursor
func (o *Overlay) SetMode(m Mode) {
	if m == o.mode {
		return
	}
	o.logger.Debugf("mode %s -> %s", o.mode, m)
	o.mode = m
	if o.opt.Chains != nil && !applyCursor(o.opt.Chains.CursorShow, m) {
		o.logger.Debugf("cursor flag not resolved")
	}
}

// WantCaptureInput is read by the window procedure: while the menu is open the game gets no
// keyboard or mouse messages
func (o *Overlay) WantCaptureInput() bool { return o.mode == ModeMenuOpen }

// Tick runs one frame and returns what to draw. io carries the display size and the text typed
// since the last frame; the mouse comes from the router. A frame that panics draws nothing.
func (o *Overlay) Tick(now time.Time, io imui.IO) (dl *imui.DrawList) {
	defer func() {
		if dl == nil {
			dl = &imui.DrawList{DisplaySize: io.DisplaySize}
		}
	}()
	defer o.logger.Recover("overlay tick")

	o.router.Sample(o.ui.WantTextInput())
	m := o.router.Mouse
	io.MousePos = imui.Vec2{X: m.X, Y: m.Y}
	io.MouseValid = m.Valid
	io.MouseDown = m.Buttons

	o.updateFace(io.DisplaySize.X)
	o.ui.NewFrame(io)

	if o.opt.Settings.Display.KeyUp(o.frame.Keys) && !o.ui.WantCaptureKeyboard() {
		o.SetMode(NextMode(o.mode, o.router.RightShiftDown()))
	}

	for _, w := range o.opt.Widgets {
		w.Interact(&o.frame)
	}

	o.trackPosition()
	switch o.mode {
	case ModeMenuOpen:
		o.renderMenu()
	case ModeClosed:
		o.renderClosed()
	}

	for _, w := range o.opt.Widgets {
		o.log.Push(now, w.DrainLog()...)
	}
	o.log.Evict(now)
	o.renderLogs()
	o.renderRadial()

	o.frames++
	dl = o.ui.EndFrame()

	if o.unloading && o.opt.OnUnload != nil {
		o.unloading = false
		o.opt.OnUnload()
	}
	return dl
}

func (o *Overlay) updateFace(width float32) {
	if o.opt.Faces == nil || width <= 0 {
		return
	}
	if o.fontWidth != 0 && FontSize(o.fontWidth) == FontSize(width) {
		o.fontWidth = width
		return
	}
	o.fontWidth = width
	if face := o.opt.Faces(FontSize(width)); face != nil {
		o.ui.SetFace(face)
	}
}

func (o *Overlay) trackPosition() {
	if o.opt.Chains == nil {
		return
	}
	pos, ok := o.opt.Chains.Position.Read()
	if !ok {
		o.havePrev = false
		return
	}
	if o.havePrev {
		dx := float64(pos[0] - o.prevPos[0])
		dy := float64(pos[1] - o.prevPos[1])
		dz := float64(pos[2] - o.prevPos[2])
		o.delta = [3]float64{hypot3(dx, dy, dz), hypot3(dx, 0, dz), dy}
	}
	o.prevPos, o.havePrev = pos, true
}
