package system

import (
	"github.com/charmbracelet/log"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/ecs/component"
)

const PhysicsTag = "physics system"

// PhysicsPolicy holds the tunable parts of collision response.
type PhysicsPolicy struct {
	// CorrectionFactor is the share of the penetration depth removed from
	// the moving box each frame.
	CorrectionFactor float64 `yaml:"correction_factor"`
	// RestingEpsilon zeroes hit-axis speeds below it when a body rests on a
	// static collider.
	RestingEpsilon float64 `yaml:"resting_epsilon"`
	// CircleRestitution scales circle-circle results by the other side's
	// restitution.
	CircleRestitution bool `yaml:"circle_restitution"`
	// SymmetricCircleCorrection pushes both circles apart instead of only
	// the moving one.
	SymmetricCircleCorrection bool `yaml:"symmetric_circle_correction"`
	// SideFriction applies surface friction on left and right box hits.
	SideFriction bool `yaml:"side_friction"`
}

func DefaultPhysicsPolicy() PhysicsPolicy {
	return PhysicsPolicy{CorrectionFactor: 0.5, RestingEpsilon: 10}
}

// CollisionPair records that A, the moving side, overlapped B this frame.
type CollisionPair struct {
	A *ecs.Entity
	B *ecs.Entity
}

// PhysicsSystem integrates rigid bodies and resolves collisions pairwise.
// Every moving collider is tested against every other collider.
type PhysicsSystem struct {
	Gravity common.Vec2
	Policy  PhysicsPolicy

	pairs  []CollisionPair
	logger *log.Logger
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		Gravity: common.V(0, 500),
		Policy:  DefaultPhysicsPolicy(),
		logger:  log.Default(),
	}
}

func (p *PhysicsSystem) Tag() string { return PhysicsTag }

func (p *PhysicsSystem) SetLogger(l *log.Logger) {
	if l != nil {
		p.logger = l
	}
}

// Pairs returns the collisions found by the last Process call.
func (p *PhysicsSystem) Pairs() []CollisionPair {
	return p.pairs
}

func (p *PhysicsSystem) Process(w *ecs.World, entities []*ecs.Entity) {
	p.pairs = p.pairs[:0]
	dt := w.DeltaTime()

	for _, a := range entities {
		if !a.Alive() {
			continue
		}
		colA := a.Collider()
		bodyA := a.RigidBody()
		if colA == nil || (bodyA == nil && !colA.Properties().TreatAsDynamic) {
			continue
		}
		if a.Transform() == nil {
			p.logger.Warn("collider without transform", "entity", a)
			continue
		}

		if bodyA != nil {
			p.integrate(a.Transform(), bodyA, dt)
		}

		for _, b := range entities {
			if b == a || !b.Alive() {
				continue
			}
			colB := b.Collider()
			if colB == nil {
				continue
			}
			if b.Transform() == nil {
				p.logger.Warn("collider without transform", "entity", b)
				continue
			}
			if !p.collide(a, colA, b, colB) {
				continue
			}

			p.pairs = append(p.pairs, CollisionPair{A: a, B: b})
			for _, s := range a.Scripts() {
				s.CollisionEvent(ecs.Context{World: w, Entity: a, DT: dt}, ecs.Collision{Entity: b, Collider: colB})
			}
			for _, s := range b.Scripts() {
				s.CollisionEvent(ecs.Context{World: w, Entity: b, DT: dt}, ecs.Collision{Entity: a, Collider: colA})
			}
			if !a.Alive() {
				break
			}
		}
	}
}

// integrate applies semi-implicit Euler: position uses the velocity from
// before gravity is added.
func (p *PhysicsSystem) integrate(t *component.Transform, body *component.RigidBody, dt float64) {
	t.Position = t.Position.Add(body.Velocity.Scale(dt))
	if body.GravityEnabled {
		body.Velocity = body.Velocity.Add(p.Gravity.Scale(dt * body.GravityScale))
	}
}

// collide tests a against b and runs the response when a is a rigid body
// and neither side is a trigger. It reports whether the shapes overlap.
func (p *PhysicsSystem) collide(a *ecs.Entity, colA component.Collider, b *ecs.Entity, colB component.Collider) bool {
	posA := a.Transform().Position
	posB := b.Transform().Position
	respond := a.RigidBody() != nil && !colA.Properties().IsTrigger && !colB.Properties().IsTrigger

	switch ca := colA.(type) {
	case *component.BoxCollider:
		cb, ok := colB.(*component.BoxCollider)
		if !ok {
			return false
		}
		rectA, rectB := ca.WorldRect(posA), cb.WorldRect(posB)
		if !rectA.Intersects(rectB) {
			return false
		}
		if respond {
			p.boxResponse(a, rectA, &ca.Material, b, rectB, &cb.Material)
		}
		return true

	case *component.CircleCollider:
		switch cb := colB.(type) {
		case *component.CircleCollider:
			if !circlesOverlap(posA, ca.Radius, posB, cb.Radius) {
				return false
			}
			if respond {
				p.circleResponse(a, ca, b, cb)
			}
			return true
		case *component.BoxCollider:
			rectB := cb.WorldRect(posB)
			if !circleBoxOverlap(posA, ca.Radius, rectB) {
				return false
			}
			if respond {
				square := common.RectAround(posA, 2*ca.Radius, 2*ca.Radius)
				p.boxResponse(a, square, &ca.Material, b, rectB, &cb.Material)
			}
			return true
		}
	}
	return false
}

func circlesOverlap(a common.Vec2, ra float64, b common.Vec2, rb float64) bool {
	sum := ra + rb
	return b.Sub(a).LenSq() < sum*sum
}

func circleBoxOverlap(center common.Vec2, radius float64, box common.Rect) bool {
	return box.ClosestPoint(center).Sub(center).LenSq() < radius*radius
}
