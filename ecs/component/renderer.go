package component

import (
	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs/render"
)

// Renderer draws a sprite at the owner's position. Depth orders layers:
// higher depths are drawn first (background), lower depths last (on top).
// Change Depth through the render system so the scene graph follows.
type Renderer struct {
	Sprite   render.Sprite
	Original render.Sprite
	// Pivot is the point of the sprite aligned with the owner's position.
	Pivot common.Vec2
	Depth int
	// Static renderers ignore the camera (HUD, fixed backgrounds).
	Static bool
}

func NewRenderer(sprite render.Sprite, pivot common.Vec2) *Renderer {
	return &Renderer{Sprite: sprite, Original: sprite, Pivot: pivot}
}

// NewCenteredRenderer pivots the sprite around its centre.
func NewCenteredRenderer(sprite render.Sprite) *Renderer {
	w, h := render.SpriteSize(sprite)
	return NewRenderer(sprite, common.V(w/2, h/2))
}

func (*Renderer) Kind() Kind { return KindRenderer }
