package system

import "github.com/milk9111/nybble/ecs"

func advanceAnimators(entities []*ecs.Entity, dt float64) {
	for _, e := range entities {
		if !e.Alive() {
			continue
		}
		if a := e.Animator(); a != nil {
			a.Advance(dt, e.Renderer())
		}
	}
}
