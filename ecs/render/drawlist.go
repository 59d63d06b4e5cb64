package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

type OpKind uint8

const (
	OpSprite OpKind = iota
	OpLine
	OpRect
	OpCircle
	OpFillCircle
	OpText
)

// Op is one recorded draw call. Lines use (X, Y)-(X2, Y2), rects use
// (X, Y, W, H) and circles use (X, Y, R).
type Op struct {
	Kind   OpKind
	Sprite Sprite
	X, Y   float64
	X2, Y2 float64
	W, H   float64
	R      float64
	Color  color.Color
	Text   string
}

// DrawList records one frame of draw calls. The engine fills it while the
// frame is simulated and the host replays it when the frame is presented.
type DrawList struct {
	width  int
	height int
	ops    []Op

	converted map[Sprite]*ebiten.Image
	face      text.Face
}

func NewDrawList(width, height int) *DrawList {
	return &DrawList{width: width, height: height}
}

func (d *DrawList) Size() (int, int) {
	return d.width, d.height
}

// Reset drops the recorded ops, keeping the backing storage.
func (d *DrawList) Reset() {
	d.ops = d.ops[:0]
}

func (d *DrawList) Ops() []Op {
	return d.ops
}

func (d *DrawList) DrawSprite(s Sprite, x, y float64) {
	if s == nil {
		return
	}
	d.ops = append(d.ops, Op{Kind: OpSprite, Sprite: s, X: x, Y: y})
}

func (d *DrawList) StrokeLine(x0, y0, x1, y1 float64, clr color.Color) {
	d.ops = append(d.ops, Op{Kind: OpLine, X: x0, Y: y0, X2: x1, Y2: y1, Color: clr})
}

func (d *DrawList) StrokeRect(x, y, w, h float64, clr color.Color) {
	d.ops = append(d.ops, Op{Kind: OpRect, X: x, Y: y, W: w, H: h, Color: clr})
}

func (d *DrawList) StrokeCircle(cx, cy, r float64, clr color.Color) {
	d.ops = append(d.ops, Op{Kind: OpCircle, X: cx, Y: cy, R: r, Color: clr})
}

func (d *DrawList) FillCircle(cx, cy, r float64, clr color.Color) {
	d.ops = append(d.ops, Op{Kind: OpFillCircle, X: cx, Y: cy, R: r, Color: clr})
}

func (d *DrawList) DrawText(s string, x, y float64, clr color.Color) {
	if s == "" {
		return
	}
	d.ops = append(d.ops, Op{Kind: OpText, Text: s, X: x, Y: y, Color: clr})
}

// Replay draws the recorded frame onto screen in recording order.
func (d *DrawList) Replay(screen *ebiten.Image) {
	if d == nil || screen == nil {
		return
	}
	for _, op := range d.ops {
		switch op.Kind {
		case OpSprite:
			img := d.ebitenImage(op.Sprite)
			if img == nil {
				continue
			}
			opts := &ebiten.DrawImageOptions{}
			opts.GeoM.Translate(op.X, op.Y)
			screen.DrawImage(img, opts)
		case OpLine:
			vector.StrokeLine(screen, float32(op.X), float32(op.Y), float32(op.X2), float32(op.Y2), 1, op.Color, false)
		case OpRect:
			vector.StrokeRect(screen, float32(op.X), float32(op.Y), float32(op.W), float32(op.H), 1, op.Color, false)
		case OpCircle:
			vector.StrokeCircle(screen, float32(op.X), float32(op.Y), float32(op.R), 1, op.Color, true)
		case OpFillCircle:
			vector.DrawFilledCircle(screen, float32(op.X), float32(op.Y), float32(op.R), op.Color, true)
		case OpText:
			if d.face == nil {
				d.face = text.NewGoXFace(basicfont.Face7x13)
			}
			opts := &text.DrawOptions{}
			opts.GeoM.Translate(op.X, op.Y)
			opts.ColorScale.ScaleWithColor(op.Color)
			text.Draw(screen, op.Text, d.face, opts)
		}
	}
}

func (d *DrawList) ebitenImage(s Sprite) *ebiten.Image {
	if img, ok := s.(*ebiten.Image); ok {
		return img
	}
	src, ok := s.(image.Image)
	if !ok {
		return nil
	}
	if d.converted == nil {
		d.converted = make(map[Sprite]*ebiten.Image)
	}
	if img, ok := d.converted[s]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	d.converted[s] = img
	return img
}
