package system

import (
	"math"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/ecs/component"
)

// side is the face of the moving box that made contact.
type side uint8

const (
	sideTop side = iota
	sideBottom
	sideLeft
	sideRight
)

func (s side) vertical() bool {
	return s == sideTop || s == sideBottom
}

// hitSide classifies a box overlap with the Minkowski half extents of both
// boxes. dy grows when A is below B.
func hitSide(rectA, rectB common.Rect) side {
	width := 0.5 * (rectA.Width + rectB.Width)
	height := 0.5 * (rectA.Height + rectB.Height)
	ca, cb := rectA.Center(), rectB.Center()
	dx := cb.X - ca.X
	dy := ca.Y - cb.Y

	wy := width * dy
	hx := height * dx
	if wy > hx {
		if wy > -hx {
			return sideTop
		}
		return sideLeft
	}
	if wy > -hx {
		return sideRight
	}
	return sideBottom
}

// boxResponse pushes A out of B along the hit axis and bounces the
// velocities. Only A is ever repositioned.
func (p *PhysicsSystem) boxResponse(a *ecs.Entity, rectA common.Rect, matA *component.Material, b *ecs.Entity, rectB common.Rect, matB *component.Material) {
	bodyA := a.RigidBody()
	bodyB := b.RigidBody()
	t := a.Transform()
	s := hitSide(rectA, rectB)

	f := p.Policy.CorrectionFactor
	switch s {
	case sideTop:
		t.Position.Y += f * (rectB.Bottom() - rectA.Top())
	case sideBottom:
		t.Position.Y -= f * (rectA.Bottom() - rectB.Top())
	case sideLeft:
		t.Position.X += f * (rectB.Right() - rectA.Left())
	case sideRight:
		t.Position.X -= f * (rectA.Right() - rectB.Left())
	}

	if bodyB != nil {
		p.applyMaterial(&bodyB.Velocity, s, matA)
		flipAxis(&bodyB.Velocity, s)
	} else {
		flipAxis(&bodyA.Velocity, s)
	}
	p.applyMaterial(&bodyA.Velocity, s, matB)

	if bodyB == nil {
		eps := p.Policy.RestingEpsilon
		if s.vertical() && math.Abs(bodyA.Velocity.Y) < eps {
			bodyA.Velocity.Y = 0
		}
		if !s.vertical() && math.Abs(bodyA.Velocity.X) < eps {
			bodyA.Velocity.X = 0
		}
	}
}

// applyMaterial scales the hit-axis component by restitution and the other
// component by surface friction.
func (p *PhysicsSystem) applyMaterial(v *common.Vec2, s side, m *component.Material) {
	if s.vertical() {
		v.Y *= m.Restitution
		v.X *= m.SurfaceFriction
		return
	}
	v.X *= m.Restitution
	if p.Policy.SideFriction {
		v.Y *= m.SurfaceFriction
	}
}

func flipAxis(v *common.Vec2, s side) {
	if s.vertical() {
		v.Y = -v.Y
		return
	}
	v.X = -v.X
}

// circleResponse separates A from B along the line of centres and
// exchanges the normal velocity components elastically. A circle without a
// rigid body acts as an immovable wall.
func (p *PhysicsSystem) circleResponse(a *ecs.Entity, ca *component.CircleCollider, b *ecs.Entity, cb *component.CircleCollider) {
	bodyA := a.RigidBody()
	bodyB := b.RigidBody()
	ta, tb := a.Transform(), b.Transform()

	dist := tb.Position.Sub(ta.Position)
	normal := dist.Normalized()
	overlap := (ca.Radius + cb.Radius - dist.Len()) / 2
	ta.Position = ta.Position.Sub(normal.Scale(overlap))
	if bodyB != nil && p.Policy.SymmetricCircleCorrection {
		tb.Position = tb.Position.Add(normal.Scale(overlap))
	}

	normal = tb.Position.Sub(ta.Position).Normalized()
	if normal.IsZero() {
		return
	}
	tangent := normal.Perp()

	nA := bodyA.Velocity.Dot(normal)
	tA := bodyA.Velocity.Dot(tangent)

	if bodyB == nil {
		if nA > 0 {
			nA = -nA
		}
		bodyA.Velocity = normal.Scale(nA).Add(tangent.Scale(tA))
		if p.Policy.CircleRestitution {
			bodyA.Velocity = bodyA.Velocity.Scale(cb.Restitution)
		}
		return
	}

	nB := bodyB.Velocity.Dot(normal)
	tB := bodyB.Velocity.Dot(tangent)
	newA := elasticVelocity(nA, bodyA.Mass, nB, bodyB.Mass)
	newB := elasticVelocity(nB, bodyB.Mass, nA, bodyA.Mass)
	bodyA.Velocity = normal.Scale(newA).Add(tangent.Scale(tA))
	bodyB.Velocity = normal.Scale(newB).Add(tangent.Scale(tB))

	if p.Policy.CircleRestitution {
		bodyA.Velocity = bodyA.Velocity.Scale(cb.Restitution)
		bodyB.Velocity = bodyB.Velocity.Scale(ca.Restitution)
	}
}

// elasticVelocity is the 1-D elastic collision result for body 1.
func elasticVelocity(v1, m1, v2, m2 float64) float64 {
	sum := m1 + m2
	if sum == 0 {
		return v1
	}
	return (v1*(m1-m2) + 2*m2*v2) / sum
}
