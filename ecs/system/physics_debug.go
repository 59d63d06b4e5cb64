package system

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/ecs/component"
	"github.com/milk9111/nybble/ecs/render"
)

const (
	debugCrosshair     = 50
	debugVelocityScale = 0.2
	debugMassScale     = 0.25
)

var (
	debugOriginLine = color.RGBA{R: 50, G: 50, B: 50, A: 255}
	debugMass       = color.NRGBA{R: 0, G: 100, B: 255, A: 100}
)

// drawDebug overlays transforms, velocities, masses and collider outlines.
// Positions go through the same camera offset as sprites.
func drawDebug(canvas render.Canvas, w *ecs.World, entities []*ecs.Entity, cam common.Vec2) {
	origin := w.Bounds().Origin
	for _, e := range entities {
		if !e.Alive() || e.Transform() == nil {
			continue
		}
		pos := e.Transform().Position.Sub(cam)
		x, y := pos.X, pos.Y

		canvas.StrokeLine(x-debugCrosshair, y, x+debugCrosshair, y, colornames.Red)
		canvas.StrokeLine(x, y-debugCrosshair, x, y+debugCrosshair, colornames.Red)
		canvas.StrokeLine(origin.X, origin.Y, x, y, debugOriginLine)

		if body := e.RigidBody(); body != nil {
			end := pos.Add(body.Velocity.Scale(debugVelocityScale))
			canvas.StrokeLine(x, y, end.X, end.Y, colornames.Lime)
			canvas.FillCircle(x, y, body.Mass*debugMassScale, debugMass)
		}

		switch c := e.Collider().(type) {
		case *component.BoxCollider:
			box := c.WorldRect(pos)
			canvas.StrokeRect(box.X, box.Y, box.Width, box.Height, colornames.White)
			center := box.Center()
			canvas.FillCircle(center.X, center.Y, 3, colornames.Lime)
			canvas.StrokeCircle(box.X, box.Y, 5, colornames.Cyan)
		case *component.CircleCollider:
			canvas.StrokeCircle(x, y, c.Radius, colornames.White)
		}
	}
}
