package imui

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"unicode"
)

func (c *Context) Text(s string) { c.TextColored(ColorText, s) }

func (c *Context) TextDisabled(s string) { c.TextColored(ColorTextDisabled, s) }

func (c *Context) Textf(format string, args ...any) { c.Text(fmt.Sprintf(format, args...)) }

func (c *Context) TextColored(col color.RGBA, s string) {
	if c.cur == nil {
		return
	}
	r := c.itemRect(c.CalcTextSize(s))
	c.text(r.Min, col, s)
}

func (c *Context) frameRect(r Rect, hovered, held bool, base color.RGBA) {
	col := base
	switch {
	case held:
		col = ColorButtonActive
	case hovered:
		col = ColorButtonHover
	}
	c.add(Cmd{Kind: CmdFillRect, Rect: r, Color: col})
}

// Button draws a button and reports a click. Zero size components fit the label.
func (c *Context) Button(label string, size Vec2) bool {
	if c.cur == nil {
		return false
	}
	text := displayText(label)
	ts := c.CalcTextSize(text)
	pad := c.padding()
	if size.X == 0 {
		size.X = ts.X + pad.X*2
	}
	if size.Y == 0 {
		size.Y = ts.Y + pad.Y*2
	}
	id := c.id(label)
	r := c.itemRect(size)
	hovered, held, clicked := c.behavior(id, r)
	c.frameRect(r, hovered, held, ColorButton)
	c.text(r.Center().Sub(ts.Scale(0.5)), ColorText, text)
	return clicked
}

// SmallButton is a button without vertical padding
func (c *Context) SmallButton(label string) bool {
	if c.cur == nil {
		return false
	}
	ts := c.CalcTextSize(displayText(label))
	return c.Button(label, Vec2{ts.X + c.padding().X*2, ts.Y})
}

func (c *Context) Checkbox(label string, v *bool) bool {
	if c.cur == nil {
		return false
	}
	text := displayText(label)
	ts := c.CalcTextSize(text)
	box := c.lineHeight
	r := c.itemRect(Vec2{box + c.spacing().X + ts.X, max(box, ts.Y)})
	id := c.id(label)
	hovered, held, clicked := c.behavior(id, r)
	if clicked {
		*v = !*v
	}
	boxRect := RectAt(r.Min, Vec2{box, box})
	bg := ColorFrameBg
	if hovered || held {
		bg = ColorFrameHovered
	}
	c.add(Cmd{Kind: CmdFillRect, Rect: boxRect, Color: bg})
	if *v {
		c.add(Cmd{Kind: CmdFillRect, Rect: boxRect.Expand(-box / 4), Color: ColorCheckMark})
	}
	c.text(Vec2{boxRect.Max.X + c.spacing().X, r.Min.Y}, ColorText, text)
	return clicked
}

// Separator draws a horizontal rule across the window
func (c *Context) Separator() {
	if c.cur == nil {
		return
	}
	w := c.availWidth()
	r := c.itemRect(Vec2{w, 1})
	c.add(Cmd{Kind: CmdLine, Rect: Rect{r.Min, Vec2{r.Max.X, r.Min.Y}}, Color: ColorSeparator, Width: 1})
}

// Selectable is a full-width row that highlights when selected and reports clicks
func (c *Context) Selectable(label string, selected bool) bool {
	if c.cur == nil {
		return false
	}
	text := displayText(label)
	r := c.itemRect(Vec2{c.availWidth(), c.lineHeight})
	hovered, held, clicked := c.behavior(c.id(label), r)
	switch {
	case held:
		c.add(Cmd{Kind: CmdFillRect, Rect: r, Color: ColorButtonActive})
	case hovered:
		c.add(Cmd{Kind: CmdFillRect, Rect: r, Color: ColorFrameHovered})
	case selected:
		c.add(Cmd{Kind: CmdFillRect, Rect: r, Color: ColorHeader})
	}
	c.text(r.Min, ColorText, text)
	return clicked
}

// TreeNode draws a collapsible header. When it returns true the children follow and TreePop
// must be called after them.
func (c *Context) TreeNode(label string, forceOpen bool) bool {
	if c.cur == nil {
		return false
	}
	id := c.id(label)
	text := displayText(label)
	open := forceOpen || c.treeOpen[id]

	marker := "+ "
	if open {
		marker = "- "
	}
	r := c.itemRect(Vec2{c.availWidth(), c.lineHeight})
	hovered, _, clicked := c.behavior(id, r)
	if clicked && !forceOpen {
		c.treeOpen[id] = !c.treeOpen[id]
		open = c.treeOpen[id]
	}
	if hovered {
		c.add(Cmd{Kind: CmdFillRect, Rect: r, Color: ColorFrameHovered})
	}
	c.text(r.Min, ColorText, marker+text)
	if open {
		c.Indent()
	}
	return open
}

func (c *Context) TreePop() { c.Unindent() }

// BeginChild opens a clipped, scrollable region of the given size inside the current window
func (c *Context) BeginChild(id string, size Vec2) {
	if c.cur == nil {
		return
	}
	w := c.cur
	if size.X <= 0 {
		size.X = c.availWidth()
	}
	r := c.itemRect(size)
	cid := c.id(id)

	c.add(Cmd{Kind: CmdFillRect, Rect: r, Color: WithAlpha(ColorFrameBg, 0.5)})
	c.add(Cmd{Kind: CmdStrokeRect, Rect: r, Color: ColorBorder, Width: 1})

	scroll := c.scroll[cid]
	if c.hovered(r) && c.IO.MouseWheel != 0 {
		scroll -= c.IO.MouseWheel * c.lineHeight * 3
	}
	c.children = append(c.children, childState{
		id: cid, rect: r, cursor: w.cursor, originX: w.originX, indent: w.indent, clip: w.clip, content: w.content,
	})

	clip := r.Expand(-1)
	if !w.clip.Empty() {
		clip = clip.Intersect(w.clip)
	}
	pad := c.padding()
	w.clip = clip
	w.originX = r.Min.X + pad.X
	w.indent = 0
	w.cursor = Vec2{w.originX, r.Min.Y + pad.Y - scroll}
	w.content = w.cursor
	w.same = false
	c.scroll[cid] = scroll
}

func (c *Context) EndChild() {
	if c.cur == nil || len(c.children) == 0 {
		return
	}
	w := c.cur
	s := c.children[len(c.children)-1]
	c.children = c.children[:len(c.children)-1]

	scroll := c.scroll[s.id]
	height := w.content.Y - (s.rect.Min.Y - scroll) + c.padding().Y
	limit := max(0, height-s.rect.Size().Y)
	c.scroll[s.id] = min(max(scroll, 0), limit)

	w.cursor, w.originX, w.indent, w.clip, w.content = s.cursor, s.originX, s.indent, s.clip, s.content
	w.last = s.rect
	w.same = false
}

// frameBox is the common layout of the input widgets: a framed box followed by a label
func (c *Context) frameBox(label string, width float32) (id string, box Rect) {
	id = c.id(label)
	pad := c.padding()
	box = c.itemRect(Vec2{width, c.lineHeight + pad.Y*2})
	return id, box
}

func (c *Context) label(label string) {
	if text := displayText(label); text != "" {
		c.SameLine()
		c.Text(text)
	}
}

// editText applies this frame's typed characters to s; accept filters runes
func (c *Context) editText(s string, accept func(rune) bool) string {
	for _, ch := range c.IO.Chars {
		if unicode.IsControl(ch) || (accept != nil && !accept(ch)) {
			continue
		}
		s += string(ch)
	}
	if c.IO.Backspace && len(s) > 0 {
		r := []rune(s)
		s = string(r[:len(r)-1])
	}
	return s
}

// focusBehavior handles click-to-focus and click-away for a text box. It reports whether the
// box has the keyboard this frame and whether it just took it.
func (c *Context) focusBehavior(id string, box Rect) (focused, gained bool) {
	hovered := c.hovered(box)
	if c.MouseClicked(0) {
		switch {
		case hovered && c.focused != id:
			c.focused = id
			gained = true
		case !hovered && c.focused == id:
			c.focused = ""
		}
	}
	if c.focused == id && (c.IO.Enter || c.IO.Escape) && !gained {
		c.focused = ""
	}
	if c.focused == id {
		c.focusSeen = true
		return true, gained
	}
	return false, false
}

func (c *Context) drawBox(box Rect, focused bool, text string, col color.RGBA) {
	bg := ColorFrameBg
	if focused || c.hovered(box) {
		bg = ColorFrameHovered
	}
	c.add(Cmd{Kind: CmdFillRect, Rect: box, Color: bg})
	if focused {
		text += "|"
	}
	c.text(box.Min.Add(c.padding()), col, text)
}

// InputText edits s in place and reports a change. hint shows in an empty, unfocused box.
func (c *Context) InputText(label string, s *string, hint string) bool {
	if c.cur == nil {
		return false
	}
	id, box := c.frameBox(label, c.itemWidth(c.ButtonWidth()))
	focused, _ := c.focusBehavior(id, box)
	changed := false
	if focused {
		if next := c.editText(*s, nil); next != *s {
			*s = next
			changed = true
		}
	}
	switch {
	case *s == "" && !focused && hint != "":
		c.drawBox(box, focused, hint, ColorTextDisabled)
	default:
		c.drawBox(box, focused, *s, ColorText)
	}
	c.label(label)
	return changed
}

// InputInt edits v with a text box and -/+ step buttons, and reports a change
func (c *Context) InputInt(label string, v *int32) bool {
	if c.cur == nil {
		return false
	}
	id, box := c.frameBox(label, c.itemWidth(c.ButtonWidth()*0.5))
	focused, gained := c.focusBehavior(id, box)
	changed := false
	if gained {
		c.editBuf = strconv.FormatInt(int64(*v), 10)
	}
	text := strconv.FormatInt(int64(*v), 10)
	if focused {
		c.editBuf = c.editText(c.editBuf, func(r rune) bool { return r == '-' || (r >= '0' && r <= '9') })
		if n, err := strconv.ParseInt(c.editBuf, 10, 32); err == nil && int32(n) != *v {
			*v = int32(n)
			changed = true
		}
		text = c.editBuf
	}
	c.drawBox(box, focused, text, ColorText)

	step := Vec2{c.lineHeight + c.padding().Y*2, c.lineHeight + c.padding().Y*2}
	c.SameLine()
	if c.Button("-##"+label, step) {
		*v--
		c.editBuf = strconv.FormatInt(int64(*v), 10)
		changed = true
	}
	c.SameLine()
	if c.Button("+##"+label, step) {
		*v++
		c.editBuf = strconv.FormatInt(int64(*v), 10)
		changed = true
	}
	c.label(label)
	return changed
}

// SliderInt drags v between lo and hi inclusive
func (c *Context) SliderInt(label string, v *int32, lo, hi int32) bool {
	if c.cur == nil || hi < lo {
		return false
	}
	id, box := c.frameBox(label, c.itemWidth(c.ButtonWidth()))
	hovered, held, _ := c.behavior(id, box)
	changed := false
	if held && hi > lo {
		t := (c.IO.MousePos.X - box.Min.X) / max(box.Size().X, 1)
		t = min(max(t, 0), 1)
		n := lo + int32(math.Round(float64(t)*float64(hi-lo)))
		if n != *v {
			*v = n
			changed = true
		}
	}
	*v = min(max(*v, lo), hi)

	bg := ColorFrameBg
	if hovered || held {
		bg = ColorFrameHovered
	}
	c.add(Cmd{Kind: CmdFillRect, Rect: box, Color: bg})
	if hi > lo {
		t := float32(*v-lo) / float32(hi-lo)
		grab := c.lineHeight * 0.5
		x := box.Min.X + t*(box.Size().X-grab)
		c.add(Cmd{Kind: CmdFillRect, Rect: Rect{Vec2{x, box.Min.Y + 1}, Vec2{x + grab, box.Max.Y - 1}}, Color: ColorCheckMark})
	}
	text := strconv.FormatInt(int64(*v), 10)
	c.text(box.Center().Sub(c.CalcTextSize(text).Scale(0.5)), ColorText, text)
	c.label(label)
	return changed
}

// Combo picks one of items. The open list draws above every window and closes on a choice or a
// click elsewhere.
func (c *Context) Combo(label string, current *int, items []string) bool {
	if c.cur == nil {
		return false
	}
	id, box := c.frameBox(label, c.itemWidth(c.ButtonWidth()*0.75))
	_, _, clicked := c.behavior(id, box)
	if clicked {
		if c.combo == id {
			c.combo = ""
		} else {
			c.combo = id
		}
	}

	text := ""
	if *current >= 0 && *current < len(items) {
		text = items[*current]
	}
	c.drawBox(box, c.combo == id, text, ColorText)
	c.text(Vec2{box.Max.X - c.lineHeight, box.Min.Y + c.padding().Y}, ColorText, "v")
	c.label(label)

	if c.combo != id {
		return false
	}
	c.comboSeen = true

	row := c.lineHeight + c.padding().Y
	list := RectAt(Vec2{box.Min.X, box.Max.Y}, Vec2{box.Size().X, row * float32(len(items))})
	c.overRect = list
	c.overlay = append(c.overlay, Cmd{Kind: CmdFillRect, Rect: list, Color: ColorPopupBg})
	c.overlay = append(c.overlay, Cmd{Kind: CmdStrokeRect, Rect: list, Color: ColorBorder, Width: 1})

	changed := false
	m := c.IO.MousePos
	if c.MouseClicked(0) && !m.In(list) && !m.In(box) {
		c.combo = ""
		return false
	}
	for i, item := range items {
		r := RectAt(Vec2{list.Min.X, list.Min.Y + float32(i)*row}, Vec2{list.Size().X, row})
		inside := c.IO.MouseValid && m.In(r)
		switch {
		case inside:
			c.overlay = append(c.overlay, Cmd{Kind: CmdFillRect, Rect: r, Color: ColorFrameHovered})
		case i == *current:
			c.overlay = append(c.overlay, Cmd{Kind: CmdFillRect, Rect: r, Color: ColorHeader})
		}
		c.overlay = append(c.overlay, Cmd{
			Kind:  CmdText,
			Rect:  RectAt(r.Min.Add(Vec2{c.padding().X, 0}), Vec2{list.Size().X, c.lineHeight}),
			Color: ColorText,
			Text:  item,
		})
		if inside && c.MouseClicked(0) {
			*current = i
			changed = true
			c.combo = ""
		}
	}
	return changed
}

// DrawRadialMenu draws labels around center in equal sectors, sector 0 at the top and the rest
// clockwise; selected is highlighted.
func (c *Context) DrawRadialMenu(center Vec2, labels []string, selected int, inner, outer float32) {
	n := len(labels)
	if n == 0 {
		return
	}
	step := 2 * math.Pi / float64(n)
	for i, l := range labels {
		mid := -math.Pi/2 + float64(i)*step
		col := WithAlpha(ColorWindowBg, 0.8)
		if i == selected {
			col = ColorButtonActive
		}
		c.Foreground(Cmd{
			Kind:   CmdWedge,
			Center: center,
			Rect:   Rect{Vec2{inner, 0}, Vec2{outer, 0}},
			A0:     float32(mid - step/2),
			A1:     float32(mid + step/2),
			Color:  col,
		})
		rad := float64(inner+outer) / 2
		at := center.Add(Vec2{float32(math.Cos(mid) * rad), float32(math.Sin(mid) * rad)})
		ts := c.CalcTextSize(l)
		at = at.Sub(ts.Scale(0.5))
		c.Foreground(Cmd{Kind: CmdText, Rect: RectAt(at, ts), Color: ColorText, Text: l})
	}
	c.Foreground(Cmd{Kind: CmdStrokeCircle, Center: center, Rect: Rect{Vec2{outer, 0}, Vec2{outer, 0}}, Color: ColorBorder, Width: 1})
}
