// Package imui is a small immediate-mode UI. Widgets are declared every frame; the frame ends
// with a flat draw list that the renderer rasterises.
package imui

import (
	"encoding/binary"
	"hash/fnv"
	"image/color"
	"math"
)

type Vec2 struct{ X, Y float32 }

type Rect struct{ Min, Max Vec2 }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float32) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{max(v.X, o.X), max(v.Y, o.Y)} }
func (v Vec2) In(r Rect) bool { return v.X >= r.Min.X && v.X < r.Max.X && v.Y >= r.Min.Y && v.Y < r.Max.Y }
func RectAt(pos, size Vec2) Rect { return Rect{pos, pos.Add(size)} }
func (r Rect) Size() Vec2 { return r.Max.Sub(r.Min) }
func (r Rect) Empty() bool { return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y }
func (r Rect) Expand(by float32) Rect { return Rect{r.Min.Sub(Vec2{by, by}), r.Max.Add(Vec2{by, by})} }
func (r Rect) Center() Vec2 { return r.Min.Add(r.Max).Scale(0.5) }
func (r Rect) Intersect(o Rect) Rect { return Rect{r.Min.Max(o.Min), Vec2{min(r.Max.X, o.Max.X), min(r.Max.Y, o.Max.Y)}} }

type CmdKind uint8

const (
	CmdFillRect CmdKind = iota
	CmdStrokeRect
	CmdText
	CmdLine
	// circles take their radius from Rect.Min.X
	CmdFillCircle
	CmdStrokeCircle
	// CmdWedge fills the ring sector between radii Rect.Min.X and Rect.Max.X around Center,
	// from angle A0 to A1 (radians, clockwise from the x axis)
	CmdWedge
)

// Cmd is one primitive. Clip, when not empty, limits it to a rectangle.
type Cmd struct {
	Kind   CmdKind
	Rect   Rect
	Center Vec2
	A0, A1 float32
	Width  float32
	Color  color.RGBA
	Text   string
	Clip   Rect
}

// DrawList is the output of one frame in painter's order
type DrawList struct {
	Cmds        []Cmd
	DisplaySize Vec2
}

func (d *DrawList) add(c Cmd) { d.Cmds = append(d.Cmds, c) }

// Hash fingerprints the list so an unchanged frame need not be rasterised again
func (d *DrawList) Hash() uint64 {
	h := fnv.New64a()
	var buf []byte
	f := func(v float32) { buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v)) }
	r := func(v Rect) {
		f(v.Min.X)
		f(v.Min.Y)
		f(v.Max.X)
		f(v.Max.Y)
	}

	f(d.DisplaySize.X)
	f(d.DisplaySize.Y)
	for _, c := range d.Cmds {
		buf = append(buf, byte(c.Kind), c.Color.R, c.Color.G, c.Color.B, c.Color.A)
		r(c.Rect)
		r(c.Clip)
		f(c.Center.X)
		f(c.Center.Y)
		f(c.A0)
		f(c.A1)
		f(c.Width)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(c.Text)))
		buf = append(buf, c.Text...)
		h.Write(buf)
		buf = buf[:0]
	}
	return h.Sum64()
}

// Style colours, roughly the dark theme the game's community tools use
var (
	ColorText         = color.RGBA{230, 230, 230, 255}
	ColorTextDisabled = color.RGBA{128, 128, 128, 255}
	ColorWindowBg     = color.RGBA{15, 15, 15, 240}
	ColorPopupBg      = color.RGBA{20, 20, 20, 245}
	ColorBorder       = color.RGBA{110, 110, 128, 128}
	ColorFrameBg      = color.RGBA{41, 74, 122, 138}
	ColorFrameHovered = color.RGBA{66, 150, 250, 102}
	ColorButton       = color.RGBA{66, 150, 250, 102}
	ColorButtonHover  = color.RGBA{66, 150, 250, 255}
	ColorButtonActive = color.RGBA{15, 135, 250, 255}
	ColorHeader       = color.RGBA{66, 150, 250, 79}
	ColorCheckMark    = color.RGBA{66, 150, 250, 255}
	ColorSeparator    = color.RGBA{110, 110, 128, 128}
	ColorRed          = color.RGBA{180, 31, 44, 255}
	ColorGreen        = color.RGBA{30, 136, 90, 255}
	ColorBlue         = color.RGBA{37, 73, 146, 255}
)

// WithAlpha scales the colour's alpha by a
func WithAlpha(c color.RGBA, a float32) color.RGBA {
	c.A = uint8(float32(c.A) * min(max(a, 0), 1))
	return c
}
