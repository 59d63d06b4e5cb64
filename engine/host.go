package engine

import (
	"errors"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/nybble/ecs"
)

var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// Game adapts an Engine to ebiten.Game.
type Game struct {
	engine *Engine
	start  time.Time
	pause  *ebitenui.UI
	keys   []ebiten.Key
	cx, cy int
}

func NewGame(e *Engine) *Game {
	return &Game{engine: e, start: time.Now(), pause: NewPauseUI(e)}
}

// Run opens the window and blocks until the engine quits.
func Run(e *Engine) error {
	cfg := e.Config()
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.FPS)
	ebiten.SetWindowClosingHandled(true)

	err := ebiten.RunGame(NewGame(e))
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (g *Game) Update() error {
	g.pollInput()
	if !g.engine.Step(time.Since(g.start)) {
		return ebiten.Termination
	}
	if g.engine.Paused() {
		g.pause.Update()
	}
	if !g.engine.Running() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) pollInput() {
	e := g.engine
	if ebiten.IsWindowBeingClosed() {
		e.PushEvent(ecs.Event{Type: ecs.EventQuit})
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		e.PushEvent(ecs.Event{Type: ecs.EventKeyDown, Key: k.String()})
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		e.PushEvent(ecs.Event{Type: ecs.EventKeyUp, Key: k.String()})
	}

	x, y := ebiten.CursorPosition()
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			e.PushEvent(ecs.Event{Type: ecs.EventMouseDown, Button: int(b), X: float64(x), Y: float64(y)})
		}
		if inpututil.IsMouseButtonJustReleased(b) {
			e.PushEvent(ecs.Event{Type: ecs.EventMouseUp, Button: int(b), X: float64(x), Y: float64(y)})
		}
	}
	if x != g.cx || y != g.cy {
		g.cx, g.cy = x, y
		e.PushEvent(ecs.Event{Type: ecs.EventMouseMotion, X: float64(x), Y: float64(y)})
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.engine.DrawList().Replay(screen)
	if g.engine.Paused() {
		g.pause.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.engine.Config()
	return cfg.Window.Width, cfg.Window.Height
}
