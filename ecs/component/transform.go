package component

import "github.com/milk9111/nybble/common"

type Transform struct {
	Position common.Vec2
	// Rotation is in degrees and is not used by physics.
	Rotation float64
	Scale    common.Vec2
}

func NewTransform(pos common.Vec2) *Transform {
	return &Transform{Position: pos, Scale: common.V(1, 1)}
}

func (*Transform) Kind() Kind { return KindTransform }
