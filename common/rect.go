package common

import "github.com/jakecoffman/cp"

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectAround returns the rectangle of the given size centred on c.
func RectAround(c Vec2, width, height float64) Rect {
	return Rect{X: c.X - width/2, Y: c.Y - height/2, Width: width, Height: height}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Intersects reports a strict overlap; rectangles that only share an edge
// do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// ClosestPoint returns the point of r nearest to p.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	v := p.CP()
	return FromCP(r.bb().ClampVect(&v))
}

// Chipmunk's BB is y-up, so B holds the smaller y.
func (r Rect) bb() cp.BB {
	return cp.BB{L: r.Left(), B: r.Top(), R: r.Right(), T: r.Bottom()}
}
