package system

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/ecs/render"
)

const RenderTag = "render system"

// RenderSystem draws renderers layer by layer. Layers are kept in
// descending depth order so the deepest layer is drawn first.
type RenderSystem struct {
	scene  map[int][]*ecs.Entity
	layers []int
	camera *ecs.Entity
	logger *log.Logger
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{
		scene:  map[int][]*ecs.Entity{0: nil},
		layers: []int{0},
		logger: log.Default(),
	}
}

func (r *RenderSystem) Tag() string { return RenderTag }

func (r *RenderSystem) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

// SetCamera makes e's position the view origin for non-static renderers.
// A nil camera renders in world coordinates.
func (r *RenderSystem) SetCamera(e *ecs.Entity) { r.camera = e }
func (r *RenderSystem) Camera() *ecs.Entity     { return r.camera }

// Layers returns the depth keys in draw order.
func (r *RenderSystem) Layers() []int {
	return slices.Clone(r.layers)
}

// Layer returns the entities drawn at depth, in insertion order.
func (r *RenderSystem) Layer(depth int) []*ecs.Entity {
	return slices.Clone(r.scene[depth])
}

// ConstructScene rebuilds every layer from entities.
func (r *RenderSystem) ConstructScene(entities []*ecs.Entity) {
	r.scene = make(map[int][]*ecs.Entity)
	r.layers = r.layers[:0]
	for _, e := range entities {
		if !e.Alive() || e.Renderer() == nil {
			continue
		}
		depth := e.Renderer().Depth
		if _, ok := r.scene[depth]; !ok {
			r.layers = append(r.layers, depth)
		}
		r.scene[depth] = append(r.scene[depth], e)
	}
	slices.Sort(r.layers)
	slices.Reverse(r.layers)
}

// Insert adds e to the layer for its depth, creating the layer in place
// when it does not exist yet.
func (r *RenderSystem) Insert(e *ecs.Entity) {
	if e == nil || e.Renderer() == nil {
		return
	}
	depth := e.Renderer().Depth
	if list, ok := r.scene[depth]; ok {
		if !slices.Contains(list, e) {
			r.scene[depth] = append(list, e)
		}
		return
	}
	r.scene[depth] = []*ecs.Entity{e}
	for i, layer := range r.layers {
		if layer < depth {
			r.layers = slices.Insert(r.layers, i, depth)
			return
		}
	}
	r.layers = append(r.layers, depth)
}

// Remove takes e out of the scene. It reports whether e was found.
func (r *RenderSystem) Remove(e *ecs.Entity) bool {
	if e == nil {
		return false
	}
	if rend := e.Renderer(); rend != nil && r.removeFrom(rend.Depth, e) {
		return true
	}
	for _, depth := range r.layers {
		if r.removeFrom(depth, e) {
			return true
		}
	}
	return false
}

func (r *RenderSystem) removeFrom(depth int, e *ecs.Entity) bool {
	list := r.scene[depth]
	i := slices.Index(list, e)
	if i < 0 {
		return false
	}
	r.scene[depth] = slices.Delete(list, i, i+1)
	return true
}

// UpdateDepth moves e's renderer to another layer.
func (r *RenderSystem) UpdateDepth(e *ecs.Entity, depth int) {
	rend := e.Renderer()
	if rend == nil {
		return
	}
	found := r.Remove(e)
	rend.Depth = depth
	if !found {
		r.logger.Warn("renderer not in scene", "entity", e)
		return
	}
	r.Insert(e)
}

func (r *RenderSystem) cameraOffset() common.Vec2 {
	if r.camera == nil || r.camera.Transform() == nil {
		return common.Vec2{}
	}
	return r.camera.Transform().Position
}

// RenderScene draws every layer onto canvas.
func (r *RenderSystem) RenderScene(canvas render.Canvas) {
	cam := r.cameraOffset()
	for _, depth := range r.layers {
		for _, e := range r.scene[depth] {
			rend := e.Renderer()
			if rend == nil {
				continue
			}
			t := e.Transform()
			if t == nil {
				r.logger.Warn("renderer without transform", "entity", e)
				continue
			}
			pos := t.Position.Sub(rend.Pivot)
			if !rend.Static {
				pos = pos.Sub(cam)
			}
			canvas.DrawSprite(rend.Sprite, pos.X, pos.Y)
		}
	}
}

// Process draws the scene, the debug overlay when enabled, and then
// advances animations.
func (r *RenderSystem) Process(w *ecs.World, entities []*ecs.Entity) {
	if canvas := w.Canvas(); canvas != nil {
		r.RenderScene(canvas)
		if w.Debug() {
			drawDebug(canvas, w, entities, r.cameraOffset())
		}
	}
	advanceAnimators(entities, w.DeltaTime())
}
