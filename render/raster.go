// Package render turns imui draw lists into pixels. The rasteriser is platform neutral and
// produces a premultiplied RGBA frame; the windows backend uploads that frame and blends it over
// the game's back buffer.
package render

import (
	"image"
	"image/color"
	"math"

	"practicetool/imui"
	"practicetool/logging"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Rasterizer draws with gg into a frame the size of the display
type Rasterizer struct {
	dc     *gg.Context
	face   font.Face
	ascent float64
	last   uint64
	clip   imui.Rect
}

var log = logging.New("render")

func NewRasterizer() *Rasterizer {
	r := &Rasterizer{}
	r.SetFace(basicfont.Face7x13)
	return r
}

// SetFace must be the face the UI measured text with
func (r *Rasterizer) SetFace(face font.Face) {
	if face == nil || face == r.face {
		return
	}
	r.face = face
	r.ascent = float64(face.Metrics().Ascent.Ceil())
	r.last = 0
}

// Render returns the frame for dl. The second result is false when dl is identical to the
// previous list and the old frame was returned untouched. A nil list draws nothing.
func (r *Rasterizer) Render(dl *imui.DrawList) (*image.RGBA, bool) {
	if dl == nil {
		return nil, false
	}
	w, h := int(dl.DisplaySize.X), int(dl.DisplaySize.Y)
	if w <= 0 || h <= 0 {
		return nil, false
	}
	if r.dc == nil || r.dc.Width() != w || r.dc.Height() != h {
		log.Debugf("frame %dx%d", w, h)
		r.dc = gg.NewContext(w, h)
		r.last = 0
	}

	hash := dl.Hash()
	img := r.dc.Image().(*image.RGBA)
	if hash == r.last {
		return img, false
	}
	r.last = hash

	dc := r.dc
	dc.ResetClip()
	r.clip = imui.Rect{}
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()
	dc.SetFontFace(r.face)

	for _, c := range dl.Cmds {
		r.setClip(c.Clip)
		r.draw(c)
	}
	return img, true
}

func (r *Rasterizer) setClip(clip imui.Rect) {
	if clip == r.clip {
		return
	}
	r.clip = clip
	r.dc.ResetClip()
	if clip.Empty() {
		return
	}
	r.dc.DrawRectangle(float64(clip.Min.X), float64(clip.Min.Y), float64(clip.Max.X-clip.Min.X), float64(clip.Max.Y-clip.Min.Y))
	r.dc.Clip()
}

func (r *Rasterizer) draw(c imui.Cmd) {
	dc := r.dc
	// imui colours carry straight alpha
	dc.SetColor(color.NRGBA(c.Color))
	x, y := float64(c.Rect.Min.X), float64(c.Rect.Min.Y)
	cw, ch := float64(c.Rect.Max.X-c.Rect.Min.X), float64(c.Rect.Max.Y-c.Rect.Min.Y)
	cx, cy := float64(c.Center.X), float64(c.Center.Y)
	width := float64(max(c.Width, 1))

	switch c.Kind {
	case imui.CmdFillRect:
		dc.DrawRectangle(x, y, cw, ch)
		dc.Fill()
	case imui.CmdStrokeRect:
		dc.SetLineWidth(width)
		dc.DrawRectangle(x+0.5, y+0.5, cw-1, ch-1)
		dc.Stroke()
	case imui.CmdLine:
		dc.SetLineWidth(width)
		dc.DrawLine(x, y, float64(c.Rect.Max.X), float64(c.Rect.Max.Y))
		dc.Stroke()
	case imui.CmdText:
		dc.DrawString(c.Text, math.Round(x), math.Round(y+r.ascent))
	case imui.CmdFillCircle:
		dc.DrawCircle(cx, cy, x)
		dc.Fill()
	case imui.CmdStrokeCircle:
		dc.SetLineWidth(width)
		dc.DrawCircle(cx, cy, x)
		dc.Stroke()
	case imui.CmdWedge:
		inner, outer := x, float64(c.Rect.Max.X)
		a0, a1 := float64(c.A0), float64(c.A1)
		dc.NewSubPath()
		dc.DrawArc(cx, cy, outer, a0, a1)
		dc.DrawArc(cx, cy, inner, a1, a0)
		dc.ClosePath()
		dc.Fill()
	}
}
