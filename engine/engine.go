// Package engine runs worlds: it owns the frame clock, routes input, keeps
// the HUD and connects scripts to levels, prefabs and the score store.
package engine

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/ecs/entity"
	"github.com/milk9111/nybble/ecs/render"
	"github.com/milk9111/nybble/ecs/system"
	"github.com/milk9111/nybble/levels"
	"github.com/milk9111/nybble/prefabs"
	"github.com/milk9111/nybble/script"
	"github.com/milk9111/nybble/storage"
)

var (
	ErrNoWorld        = errors.New("engine: no such world")
	ErrNoRenderSystem = errors.New("engine: world has no render system")
	ErrNoStore        = errors.New("engine: score store unavailable")
)

// Toggle keys, matched against ecs.Event.Key.
const (
	KeyPause   = "P"
	KeyDebug   = "F12"
	KeyShowFPS = "F11"
)

type Engine struct {
	cfg     Config
	worlds  map[string]*ecs.World
	order   []string
	current *ecs.World
	pending string

	events  ecs.EventQueue
	clock   *Timestep
	dt      float64
	debug   bool
	paused  bool
	showFPS bool
	quit    bool
	frames  int
	fps     float64
	fpsAt   time.Duration

	canvas  *render.DrawList
	gui     *GUI
	scripts *script.Library
	builder *entity.Builder
	store   *storage.Store
	watcher *prefabs.Watcher
	logger  *log.Logger
}

// New creates an engine. images decides how sprites are created: the GPU
// source for a window, the headless source for tests and tools.
func New(cfg Config, images render.ImageSource) *Engine {
	cfg.normalize()
	e := &Engine{
		cfg:     cfg,
		worlds:  make(map[string]*ecs.World),
		clock:   NewTimestep(cfg.MaxDelta),
		debug:   cfg.Debug,
		showFPS: cfg.ShowFPS,
		canvas:  render.NewDrawList(cfg.Window.Width, cfg.Window.Height),
		gui:     NewGUI(),
		logger:  log.Default(),
	}
	e.scripts = script.NewLibrary(&script.Env{
		Spawn:       e.spawn,
		SwitchWorld: e.RequestWorld,
		SubmitScore: e.SubmitScore,
	})
	e.builder = entity.NewBuilder(images, e.scripts.EntityFactory())
	return e
}

func (e *Engine) SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	e.logger = l
	e.scripts.SetLogger(l)
}

// SetStore attaches the score store. The engine closes it in Close.
func (e *Engine) SetStore(s *storage.Store) { e.store = s }

func (e *Engine) Config() Config             { return e.cfg }
func (e *Engine) DeltaTime() float64         { return e.dt }
func (e *Engine) Debug() bool                { return e.debug }
func (e *Engine) Paused() bool               { return e.paused }
func (e *Engine) Canvas() render.Canvas      { return e.canvas }
func (e *Engine) DrawList() *render.DrawList { return e.canvas }
func (e *Engine) GUI() *GUI                  { return e.gui }
func (e *Engine) Scripts() *script.Library   { return e.scripts }
func (e *Engine) Builder() *entity.Builder   { return e.builder }
func (e *Engine) World() *ecs.World          { return e.current }
func (e *Engine) Store() *storage.Store      { return e.store }
func (e *Engine) Running() bool              { return !e.quit }
func (e *Engine) FPS() float64               { return e.fps }
func (e *Engine) PushEvent(ev ecs.Event)     { e.events.Push(ev) }
func (e *Engine) SetPaused(paused bool)      { e.paused = paused }
func (e *Engine) Quit()                      { e.quit = true }
func (e *Engine) Worlds() []string           { return e.order }

// NewWorld creates a world with the physics and render systems configured
// from the engine config.
func (e *Engine) NewWorld(name string, level ecs.Level) *ecs.World {
	w := ecs.NewWorld(name, level)
	p := system.NewPhysicsSystem()
	p.Policy = e.cfg.Physics
	p.SetLogger(e.logger)
	r := system.NewRenderSystem()
	r.SetLogger(e.logger)
	w.AddSystem(p)
	w.AddSystem(r)
	return w
}

// AddWorld registers w under its name, replacing a world of the same name.
func (e *Engine) AddWorld(w *ecs.World) {
	if _, ok := e.worlds[w.Name]; !ok {
		e.order = append(e.order, w.Name)
	}
	w.SetHost(e)
	e.worlds[w.Name] = w
}

// LoadLevel registers the embedded level name as a world along with its
// HUD widgets. The scene itself is built when the world is first set.
func (e *Engine) LoadLevel(name string) (*ecs.World, error) {
	lvl, err := levels.LoadLevelFromFS(name)
	if err != nil {
		return nil, fmt.Errorf("engine: level %s: %w", name, err)
	}
	return e.AddLevel(lvl)
}

func (e *Engine) AddLevel(lvl *levels.Level) (*ecs.World, error) {
	scene := &levels.Scene{
		Level:   lvl,
		Builder: e.builder,
		Scripts: func(name string) (ecs.Script, error) {
			s, err := e.scripts.New(name, ecs.ScopeWorld)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	}
	w := e.NewWorld(lvl.Name, scene)

	for _, spec := range lvl.Widgets {
		wg := &Widget{
			Tag:   spec.Tag,
			World: lvl.Name,
			Pos:   common.V(spec.X, spec.Y),
			Text:  spec.Text,
			Bind:  spec.Bind,
			When:  spec.When,
		}
		if spec.Color != "" {
			clr, err := prefabs.ParseHexColor(spec.Color)
			if err != nil {
				return nil, fmt.Errorf("engine: level %s: widget %q: %w", lvl.Name, spec.Tag, err)
			}
			wg.Color = clr
		}
		if spec.Image != "" {
			img, err := render.LoadImage(e.builder.Images, spec.Image)
			if err != nil {
				return nil, fmt.Errorf("engine: level %s: widget %q: %w", lvl.Name, spec.Tag, err)
			}
			wg.Image = img
		}
		e.gui.Add(wg)
	}

	e.AddWorld(w)
	return w, nil
}

// SetWorld makes the named world current, loading its scene the first
// time. On error the current world is unchanged.
func (e *Engine) SetWorld(name string) error {
	w, ok := e.worlds[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoWorld, name)
	}
	if w.System(system.RenderTag) == nil {
		return fmt.Errorf("%w: %q", ErrNoRenderSystem, name)
	}
	if err := w.Load(); err != nil {
		return err
	}
	e.current = w
	e.pending = ""
	e.clock.Reset()
	e.logger.Info("world set", "world", name, "entities", w.EntityCount())
	return nil
}

// RequestWorld switches worlds once the current frame finishes.
func (e *Engine) RequestWorld(name string) error {
	if _, ok := e.worlds[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoWorld, name)
	}
	e.pending = name
	return nil
}

// SubmitScore records a score for level in the store.
func (e *Engine) SubmitScore(level string, score int) error {
	if e.store == nil {
		return ErrNoStore
	}
	if _, err := e.store.SaveScore(level, score); err != nil {
		return err
	}
	e.logger.Info("score saved", "level", level, "score", score)
	return nil
}

func (e *Engine) spawn(w *ecs.World, prefab string, pos common.Vec2) (*ecs.Entity, error) {
	return e.builder.Spawn(w, prefab, pos)
}

// Watch reloads scripts edited under dirs while the engine runs.
func (e *Engine) Watch(dirs ...string) error {
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return fmt.Errorf("engine: watch: %w", err)
	}
	e.watcher = w
	return nil
}

func (e *Engine) applyReloads() {
	if e.watcher == nil {
		return
	}
	for _, path := range e.watcher.Drain() {
		switch filepath.Ext(path) {
		case ".tengo":
			name := prefabs.ScriptName(path)
			if err := e.scripts.Reload(name); err != nil {
				e.logger.Error("script reload failed", "script", name, "err", err)
			}
		default:
			e.logger.Info("prefab changed", "path", path)
		}
	}
	for {
		select {
		case err := <-e.watcher.Errors:
			e.logger.Warn("watcher", "err", err)
		default:
			return
		}
	}
}

// Step runs one frame at monotonic time now. It reports whether the
// engine should keep running.
func (e *Engine) Step(now time.Duration) bool {
	if e.quit {
		return false
	}
	if e.current == nil {
		e.logger.Error("no world set")
		e.quit = true
		return false
	}
	e.applyReloads()

	dt, ok := e.clock.Next(now)
	if !ok {
		e.events.Drain()
		return true
	}
	e.dt = dt
	e.countFrame(now)

	e.canvas.Reset()
	w := e.current
	for _, ev := range e.events.Drain() {
		e.handleEvent(ev)
		if !e.paused {
			w.TakeInput(ev)
		}
	}
	if e.quit {
		return false
	}

	if e.paused {
		if r, ok := w.System(system.RenderTag).(*system.RenderSystem); ok {
			r.RenderScene(e.canvas)
		}
	} else {
		w.Run()
	}

	e.gui.Draw(e.canvas, w)
	if e.showFPS {
		e.canvas.DrawText(fmt.Sprintf("dt %.4f  FPS %.1f", e.dt, e.fps), 4, 4, color.White)
	}

	if e.pending != "" {
		name := e.pending
		if err := e.SetWorld(name); err != nil {
			e.logger.Error("switch world", "world", name, "err", err)
		}
		e.pending = ""
	}
	return true
}

func (e *Engine) handleEvent(ev ecs.Event) {
	switch ev.Type {
	case ecs.EventQuit:
		e.quit = true
	case ecs.EventKeyDown:
		switch ev.Key {
		case KeyPause:
			e.paused = !e.paused
		case KeyDebug:
			e.debug = !e.debug
		case KeyShowFPS:
			e.showFPS = !e.showFPS
		}
	}
}

func (e *Engine) countFrame(now time.Duration) {
	e.frames++
	if elapsed := now - e.fpsAt; elapsed >= time.Second {
		e.fps = float64(e.frames) / elapsed.Seconds()
		e.frames = 0
		e.fpsAt = now
	}
}

// Close stops the watcher and closes the score store.
func (e *Engine) Close() error {
	var errs []error
	if e.watcher != nil {
		errs = append(errs, e.watcher.Close())
	}
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	return errors.Join(errs...)
}
