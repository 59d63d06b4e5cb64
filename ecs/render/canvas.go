// Package render holds the drawing contract shared by the engine systems and
// the ebiten host: opaque sprite handles, a Canvas to draw on, and a
// DrawList that records a frame and replays it onto an ebiten screen.
package render

import (
	"image"
	"image/color"
)

// Sprite is an opaque image handle. Only its size is ever inspected by the
// engine; *ebiten.Image and every image.Image satisfy it.
type Sprite interface {
	Bounds() image.Rectangle
}

// SpriteSize returns the width and height of s, or zeros for a nil sprite.
func SpriteSize(s Sprite) (float64, float64) {
	if s == nil {
		return 0, 0
	}
	b := s.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Canvas is a blit-capable draw surface.
type Canvas interface {
	Size() (int, int)
	DrawSprite(s Sprite, x, y float64)
	StrokeLine(x0, y0, x1, y1 float64, clr color.Color)
	StrokeRect(x, y, w, h float64, clr color.Color)
	StrokeCircle(cx, cy, r float64, clr color.Color)
	FillCircle(cx, cy, r float64, clr color.Color)
	DrawText(s string, x, y float64, clr color.Color)
}
