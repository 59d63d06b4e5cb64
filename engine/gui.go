package engine

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/ecs/render"
)

// Widget is a HUD element drawn in screen space above the scene. A widget
// shows Image when set, otherwise Text.
type Widget struct {
	ID    int
	Tag   string
	World string
	Pos   common.Vec2
	Image render.Sprite
	Text  string
	// Bind names a world property formatted into Text.
	Bind string
	// When names a world property that must be non-zero for the widget
	// to show.
	When  string
	Color color.Color
}

// Label is the text the widget shows for w.
func (wg *Widget) Label(w *ecs.World) string {
	if wg.Bind == "" || w == nil {
		return wg.Text
	}
	return fmt.Sprintf(wg.Text, w.Property(wg.Bind))
}

func (wg *Widget) visible(w *ecs.World) bool {
	if wg.World != "" && (w == nil || w.Name != wg.World) {
		return false
	}
	return wg.When == "" || (w != nil && w.Property(wg.When) != 0)
}

// GUI draws widgets on top of the current world.
type GUI struct {
	ids     ecs.IDManager
	widgets []*Widget
}

func NewGUI() *GUI {
	return &GUI{}
}

// Add registers wg and assigns its id.
func (g *GUI) Add(wg *Widget) int {
	wg.ID = g.ids.Get()
	if wg.Color == nil {
		wg.Color = color.White
	}
	g.widgets = append(g.widgets, wg)
	return wg.ID
}

func (g *GUI) Remove(id int) bool {
	i := slices.IndexFunc(g.widgets, func(wg *Widget) bool { return wg.ID == id })
	if i < 0 {
		return false
	}
	g.widgets = slices.Delete(g.widgets, i, i+1)
	g.ids.Recycle(id)
	return true
}

// Widget returns the first widget tagged tag.
func (g *GUI) Widget(tag string) *Widget {
	for _, wg := range g.widgets {
		if wg.Tag == tag {
			return wg
		}
	}
	return nil
}

// SetImage swaps the image of the first widget tagged tag.
func (g *GUI) SetImage(tag string, img render.Sprite) bool {
	wg := g.Widget(tag)
	if wg == nil {
		return false
	}
	wg.Image = img
	return true
}

func (g *GUI) Widgets() []*Widget {
	return g.widgets
}

func (g *GUI) Draw(canvas render.Canvas, w *ecs.World) {
	for _, wg := range g.widgets {
		if !wg.visible(w) {
			continue
		}
		if wg.Image != nil {
			canvas.DrawSprite(wg.Image, wg.Pos.X, wg.Pos.Y)
			continue
		}
		canvas.DrawText(wg.Label(w), wg.Pos.X, wg.Pos.Y, wg.Color)
	}
}
