package imui

import (
	"image/color"
	"slices"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// IO is what the platform feeds the UI at the start of a frame
type IO struct {
	DisplaySize Vec2
	MousePos    Vec2
	MouseValid  bool
	MouseDown   [3]bool
	MouseWheel  float32

	// Chars is the text typed since the last frame
	Chars []rune
	// editing keys that went down this frame
	Backspace, Enter, Escape bool
}

type WindowFlags uint32

const (
	// WindowNoInputs makes the window transparent to the mouse
	WindowNoInputs WindowFlags = 1 << iota
	WindowNoBorder
)

type WindowOptions struct {
	Pos Vec2
	// Pivot is the fraction of the window size Pos refers to; {1,1} anchors the bottom-right corner
	Pivot   Vec2
	Size    Vec2
	BgAlpha float32
	Flags   WindowFlags
}

type window struct {
	id      string
	opt     WindowOptions
	popup   bool
	pos     Vec2
	size    Vec2
	cmds    []Cmd
	cursor  Vec2
	originX float32
	indent  float32
	last    Rect
	same    bool
	content Vec2
	clip    Rect
	touched uint64
}

func (w *window) rect() Rect { return RectAt(w.pos, w.size) }

type childState struct {
	id      string
	rect    Rect
	cursor  Vec2
	originX float32
	indent  float32
	clip    Rect
	content Vec2
}

// Context carries UI state across frames. It is not safe for concurrent use; all calls happen
// on the render thread.
type Context struct {
	IO    IO
	Face  font.Face
	Scale float32

	lineHeight float32
	ascent     float32

	frame     uint64
	prevDown  [3]bool
	windows   map[string]*window
	drawn     []*window
	order     []*window
	popups    []*window
	stack     []*window
	children  []childState
	cur       *window
	overlay   []Cmd
	overRect  Rect
	lastOver  Rect
	fore      []Cmd
	nextWidth float32

	hoveredWin *window
	active     string
	activeSeen bool
	focused    string
	focusSeen  bool
	editBuf    string
	openPopups []string
	combo      string
	comboSeen  bool
	treeOpen   map[string]bool
	scroll     map[string]float32

	wantCaptureMouse    bool
	wantCaptureKeyboard bool
}

// NewContext creates a context drawing with face; a nil face selects the built-in 7x13 font
func NewContext(face font.Face) *Context {
	c := &Context{
		windows:  make(map[string]*window),
		treeOpen: make(map[string]bool),
		scroll:   make(map[string]float32),
	}
	c.SetFace(face)
	return c
}

// SetFace switches fonts; sizes and spacing follow the new line height
func (c *Context) SetFace(face font.Face) {
	if face == nil {
		face = basicfont.Face7x13
	}
	c.Face = face
	m := face.Metrics()
	c.lineHeight = float32(m.Height) / 64
	c.ascent = float32(m.Ascent) / 64
	c.Scale = c.lineHeight / 13
}

func (c *Context) LineHeight() float32 { return c.lineHeight }
func (c *Context) Ascent() float32 { return c.ascent }

func (c *Context) spacing() Vec2 { return Vec2{8, 4}.Scale(c.Scale) }
func (c *Context) padding() Vec2 { return Vec2{4, 3}.Scale(c.Scale) }
func (c *Context) winPad() float32 { return 8 * c.Scale }

// ButtonWidth is the width of the full-size menu buttons
func (c *Context) ButtonWidth() float32 { return 240 * c.Scale }

// CalcTextSize measures s; each line break adds a line
func (c *Context) CalcTextSize(s string) Vec2 {
	lines := strings.Split(displayText(s), "\n")
	var w float32
	for _, l := range lines {
		w = max(w, float32(font.MeasureString(c.Face, l))/64)
	}
	return Vec2{w, c.lineHeight * float32(len(lines))}
}

// displayText drops an imgui-style "##id" suffix
func displayText(label string) string {
	if i := strings.Index(label, "##"); i >= 0 {
		return label[:i]
	}
	return label
}

// NewFrame starts a frame with fresh platform input
func (c *Context) NewFrame(io IO) {
	c.prevDown = c.IO.MouseDown
	c.IO = io
	c.frame++

	c.order = c.order[:0]
	c.popups = c.popups[:0]
	c.stack = c.stack[:0]
	c.children = c.children[:0]
	c.overlay = c.overlay[:0]
	c.fore = c.fore[:0]
	c.lastOver, c.overRect = c.overRect, Rect{}
	c.cur = nil
	c.activeSeen = false
	c.focusSeen = false
	c.comboSeen = false
	c.hoveredWin = c.findHoveredWindow()
}

func (c *Context) findHoveredWindow() *window {
	if !c.IO.MouseValid {
		return nil
	}
	// an open modal takes every click
	if len(c.openPopups) > 0 {
		top := c.windows[c.openPopups[len(c.openPopups)-1]]
		if top != nil && top.touched+1 >= c.frame {
			return top
		}
	}
	for i := len(c.drawn) - 1; i >= 0; i-- {
		w := c.drawn[i]
		if w.opt.Flags&WindowNoInputs != 0 {
			continue
		}
		if c.IO.MousePos.In(w.rect()) {
			return w
		}
	}
	return nil
}

// EndFrame closes the frame and returns its draw list
func (c *Context) EndFrame() *DrawList {
	for len(c.stack) > 0 {
		c.End()
	}
	if !c.activeSeen {
		c.active = ""
	}
	if !c.focusSeen {
		c.focused = ""
	}
	if !c.comboSeen {
		c.combo = ""
	}

	c.drawn = append(append(c.drawn[:0], c.order...), c.popups...)

	dl := &DrawList{DisplaySize: c.IO.DisplaySize}
	for _, w := range c.drawn {
		dl.Cmds = append(dl.Cmds, w.cmds...)
	}
	dl.Cmds = append(dl.Cmds, c.overlay...)
	dl.Cmds = append(dl.Cmds, c.fore...)

	c.wantCaptureKeyboard = c.focused != ""
	c.wantCaptureMouse = c.active != "" || c.combo != "" || (c.hoveredWin != nil)
	return dl
}

// WantCaptureMouse reports that the last frame's UI used the mouse
func (c *Context) WantCaptureMouse() bool { return c.wantCaptureMouse }

// WantCaptureKeyboard reports that a text field has the keyboard
func (c *Context) WantCaptureKeyboard() bool { return c.wantCaptureKeyboard }

// WantTextInput is the same as WantCaptureKeyboard; there is no keyboard navigation
func (c *Context) WantTextInput() bool { return c.focused != "" }

// AnyItemActive reports an item being held or edited
func (c *Context) AnyItemActive() bool { return c.active != "" || c.focused != "" }

// ActiveID and HoveredWindow feed the debug indicator
func (c *Context) ActiveID() string { return c.active }

func (c *Context) HoveredWindow() string {
	if c.hoveredWin == nil {
		return ""
	}
	return c.hoveredWin.id
}

func (c *Context) MouseClicked(b int) bool { return c.IO.MouseDown[b] && !c.prevDown[b] }
func (c *Context) window(id string) *window {
	w, ok := c.windows[id]
	if !ok {
		w = &window{id: id}
		c.windows[id] = w
	}
	return w
}

// Begin opens a top-level window; every Begin needs an End
func (c *Context) Begin(id string, opt WindowOptions) {
	w := c.window(id)
	c.begin(w, opt)
	c.order = append(c.order, w)
}

func (c *Context) begin(w *window, opt WindowOptions) {
	w.opt = opt
	if opt.Size != (Vec2{}) {
		w.size = opt.Size
	}
	w.pos = opt.Pos.Sub(Vec2{w.size.X * opt.Pivot.X, w.size.Y * opt.Pivot.Y})
	w.cmds = w.cmds[:0]
	pad := c.winPad()
	w.cursor = w.pos.Add(Vec2{pad, pad})
	w.originX = w.cursor.X
	w.indent = 0
	w.same = false
	w.last = Rect{w.cursor, w.cursor}
	w.content = w.cursor
	w.clip = Rect{}
	w.touched = c.frame
	c.stack = append(c.stack, w)
	c.cur = w
}

// End closes the innermost window, sizing it to its content unless a size was given
func (c *Context) End() {
	if len(c.stack) == 0 {
		return
	}
	w := c.cur
	pad := c.winPad()
	if w.opt.Size == (Vec2{}) {
		w.size = w.content.Sub(w.pos).Add(Vec2{pad, pad - c.spacing().Y})
	}

	var bg []Cmd
	if a := w.opt.BgAlpha; a > 0 {
		fill := ColorWindowBg
		if w.popup {
			fill = ColorPopupBg
		}
		bg = append(bg, Cmd{Kind: CmdFillRect, Rect: w.rect(), Color: WithAlpha(fill, a)})
		if w.opt.Flags&WindowNoBorder == 0 {
			bg = append(bg, Cmd{Kind: CmdStrokeRect, Rect: w.rect(), Color: ColorBorder, Width: 1})
		}
	}
	w.cmds = append(bg, w.cmds...)

	c.stack = c.stack[:len(c.stack)-1]
	c.cur = nil
	if len(c.stack) > 0 {
		c.cur = c.stack[len(c.stack)-1]
	}
}

func (c *Context) add(cmd Cmd) {
	w := c.cur
	if w == nil {
		c.fore = append(c.fore, cmd)
		return
	}
	if !w.clip.Empty() {
		bounds := cmd.Rect
		if cmd.Kind == CmdText {
			bounds = RectAt(cmd.Rect.Min, Vec2{cmd.Rect.Max.X - cmd.Rect.Min.X, c.lineHeight})
		}
		if bounds.Intersect(w.clip).Empty() {
			return
		}
		cmd.Clip = w.clip
	}
	w.cmds = append(w.cmds, cmd)
}

func (c *Context) text(pos Vec2, col color.RGBA, s string) {
	for i, line := range strings.Split(s, "\n") {
		at := pos.Add(Vec2{0, float32(i) * c.lineHeight})
		size := c.CalcTextSize(line)
		c.add(Cmd{Kind: CmdText, Rect: RectAt(at, Vec2{size.X, c.lineHeight}), Color: col, Text: line})
	}
}

// itemRect reserves the next layout slot
func (c *Context) itemRect(size Vec2) Rect {
	w := c.cur
	sp := c.spacing()
	var pos Vec2
	if w.same {
		pos = Vec2{w.last.Max.X + sp.X, w.last.Min.Y}
		w.same = false
	} else {
		pos = Vec2{w.originX + w.indent, w.cursor.Y}
	}
	r := RectAt(pos, size)
	w.last = r
	w.cursor.Y = max(w.cursor.Y, r.Max.Y+sp.Y)
	w.content = w.content.Max(r.Max)
	return r
}

// itemWidth consumes SetNextItemWidth or falls back to def
func (c *Context) itemWidth(def float32) float32 {
	if c.nextWidth != 0 {
		w := c.nextWidth
		c.nextWidth = 0
		if w < 0 {
			// negative widths stretch to the content region like imgui's -1
			return max(c.availWidth()+w+1, c.lineHeight)
		}
		return w
	}
	return def
}

func (c *Context) availWidth() float32 {
	w := c.cur
	right := w.pos.X + w.size.X - c.winPad()
	if !w.clip.Empty() {
		right = w.clip.Max.X - c.padding().X
	}
	return max(right-(w.originX+w.indent), c.ButtonWidth())
}

// hovered tests r against the mouse for the current window
func (c *Context) hovered(r Rect) bool {
	if c.cur == nil || c.hoveredWin != c.rootWindow() || !c.IO.MouseValid {
		return false
	}
	m := c.IO.MousePos
	if !m.In(r) || (!c.cur.clip.Empty() && !m.In(c.cur.clip)) {
		return false
	}
	return c.combo == "" || !m.In(c.lastOver)
}

func (c *Context) rootWindow() *window {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

func (c *Context) id(label string) string {
	if c.cur == nil {
		return label
	}
	return c.cur.id + "/" + label
}

// behavior is the press-then-release logic every clickable item shares
func (c *Context) behavior(id string, r Rect) (hovered, held, clicked bool) {
	hovered = c.hovered(r)
	if hovered && c.MouseClicked(0) {
		c.active = id
	}
	if c.active == id {
		c.activeSeen = true
		if c.IO.MouseDown[0] {
			held = true
		} else {
			clicked = hovered
			c.active = ""
		}
	}
	return hovered, held, clicked
}

// SameLine places the next item to the right of the last one
func (c *Context) SameLine() {
	if c.cur != nil {
		c.cur.same = true
	}
}

// NewLine ends a SameLine run with an empty line
func (c *Context) NewLine() {
	if c.cur == nil {
		return
	}
	c.cur.same = false
	c.itemRect(Vec2{0, c.lineHeight})
}

func (c *Context) Indent() {
	if c.cur != nil {
		c.cur.indent += c.lineHeight
	}
}

func (c *Context) Unindent() {
	if c.cur != nil {
		c.cur.indent = max(0, c.cur.indent-c.lineHeight)
	}
}

// SetNextItemWidth sizes the next frame-style item; negative values leave that much room on the right
func (c *Context) SetNextItemWidth(w float32) { c.nextWidth = w }

// CursorScreenPos is where the next item on a new line would start
func (c *Context) CursorScreenPos() Vec2 {
	if c.cur == nil {
		return Vec2{}
	}
	return Vec2{c.cur.originX + c.cur.indent, c.cur.cursor.Y}
}

// OpenPopup marks a modal popup open; it is drawn by the matching BeginPopupModal
func (c *Context) OpenPopup(id string) {
	if !slices.Contains(c.openPopups, id) {
		c.openPopups = append(c.openPopups, id)
	}
}

func (c *Context) IsPopupOpen(id string) bool { return slices.Contains(c.openPopups, id) }

// BeginPopupModal draws an open popup at pos and reports whether it is open. Only when it
// returns true must EndPopup be called.
func (c *Context) BeginPopupModal(id string, pos Vec2) bool {
	if !c.IsPopupOpen(id) {
		return false
	}
	w := c.window(id)
	w.popup = true
	c.begin(w, WindowOptions{Pos: pos, BgAlpha: 1})
	c.popups = append(c.popups, w)
	return true
}

func (c *Context) EndPopup() { c.End() }

// CloseCurrentPopup closes the popup being drawn
func (c *Context) CloseCurrentPopup() {
	if c.cur != nil && c.cur.popup {
		c.ClosePopup(c.cur.id)
	}
}

func (c *Context) ClosePopup(id string) {
	if i := slices.Index(c.openPopups, id); i >= 0 {
		c.openPopups = c.openPopups[:i]
	}
}

// Foreground draws above every window, for the radial menu
func (c *Context) Foreground(cmd Cmd) { c.fore = append(c.fore, cmd) }
