package component

import "github.com/milk9111/nybble/common"

// Material holds the surface properties shared by every collider shape.
type Material struct {
	// SurfaceFriction scales the velocity component tangent to a hit:
	// 1 is frictionless, 0 stops the body dead.
	SurfaceFriction float64
	// Restitution scales the velocity component along the hit axis:
	// 0 does not bounce, 1 is fully elastic.
	Restitution float64
	// TreatAsDynamic lets a collider without a rigid body take part in
	// collision passes as the moving side.
	TreatAsDynamic bool
	// IsTrigger colliders report collisions but are never resolved.
	IsTrigger bool
}

func DefaultMaterial() Material {
	return Material{SurfaceFriction: 1}
}

type Shape uint8

const (
	ShapeBox Shape = iota + 1
	ShapeCircle
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Collider is implemented by *BoxCollider and *CircleCollider.
type Collider interface {
	Component
	Shape() Shape
	Properties() *Material
}

// BoxCollider is an axis-aligned box centred on the owner's position plus
// Offset.
type BoxCollider struct {
	Material
	Width  float64
	Height float64
	Offset common.Vec2
}

func NewBoxCollider(width, height float64) *BoxCollider {
	return &BoxCollider{Material: DefaultMaterial(), Width: width, Height: height}
}

func (*BoxCollider) Kind() Kind              { return KindCollider }
func (*BoxCollider) Shape() Shape            { return ShapeBox }
func (b *BoxCollider) Properties() *Material { return &b.Material }

// SetBox resizes the box, keeping its offset.
func (b *BoxCollider) SetBox(width, height float64) {
	b.Width = width
	b.Height = height
}

// WorldRect places the box around pos.
func (b *BoxCollider) WorldRect(pos common.Vec2) common.Rect {
	return common.RectAround(pos.Add(b.Offset), b.Width, b.Height)
}

// CircleCollider is a circle centred on the owner's position.
type CircleCollider struct {
	Material
	Radius float64
}

func NewCircleCollider(radius float64) *CircleCollider {
	return &CircleCollider{Material: DefaultMaterial(), Radius: radius}
}

func (*CircleCollider) Kind() Kind              { return KindCollider }
func (*CircleCollider) Shape() Shape            { return ShapeCircle }
func (c *CircleCollider) Properties() *Material { return &c.Material }
