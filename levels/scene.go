package levels

import (
	"fmt"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/ecs/entity"
	"github.com/milk9111/nybble/ecs/system"
	"github.com/milk9111/nybble/prefabs"
)

// Scene loads a Level into a world. It implements ecs.Level.
type Scene struct {
	Level   *Level
	Builder *entity.Builder
	// Scripts creates world scripts by name.
	Scripts func(name string) (ecs.Script, error)
}

func (s *Scene) LoadScene(w *ecs.World) error {
	lvl := s.Level
	b := lvl.Bounds
	if b.Width > 0 && b.Height > 0 {
		w.SetBounds(ecs.Bounds{Origin: common.V(b.X, b.Y), Width: b.Width, Height: b.Height})
	}
	if lvl.Gravity != nil {
		if p, ok := w.System(system.PhysicsTag).(*system.PhysicsSystem); ok {
			p.Gravity = common.V(lvl.Gravity.X, lvl.Gravity.Y)
		}
	}

	for _, spec := range lvl.Entities {
		for _, pos := range spec.Positions() {
			overrides := prefabs.MergeComponents(spec.Components, map[string]any{
				"transform": map[string]any{"x": pos.X, "y": pos.Y},
			})
			e, err := s.Builder.Build(w, spec.Prefab, overrides)
			if err != nil {
				return fmt.Errorf("level %s: %w", lvl.Name, err)
			}
			if spec.Name != "" {
				e.Name = spec.Name
			}
		}
	}

	for _, name := range lvl.Scripts {
		if s.Scripts == nil {
			return fmt.Errorf("level %s: no script factory for %q", lvl.Name, name)
		}
		script, err := s.Scripts(name)
		if err != nil {
			return fmt.Errorf("level %s: script %q: %w", lvl.Name, name, err)
		}
		if err := w.AddScript(script); err != nil {
			return fmt.Errorf("level %s: %w", lvl.Name, err)
		}
	}

	if lvl.Camera != "" {
		cam := w.FindByName(lvl.Camera)
		if cam == nil {
			return fmt.Errorf("level %s: camera entity %q not found", lvl.Name, lvl.Camera)
		}
		if r, ok := w.System(system.RenderTag).(*system.RenderSystem); ok {
			r.SetCamera(cam)
		}
	}
	return nil
}
