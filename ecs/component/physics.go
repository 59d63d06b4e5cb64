package component

import "github.com/milk9111/nybble/common"

// RigidBody marks an entity as moved by the physics integrator. Bodies are
// treated as particles: there is no angular state.
type RigidBody struct {
	Velocity common.Vec2
	Mass     float64
	// GravityScale multiplies the world gravity while GravityEnabled is set.
	GravityScale   float64
	GravityEnabled bool
}

func NewRigidBody(velocity common.Vec2, mass float64) *RigidBody {
	if mass <= 0 {
		mass = 1
	}
	return &RigidBody{Velocity: velocity, Mass: mass, GravityEnabled: true}
}

func (*RigidBody) Kind() Kind { return KindRigidBody }
