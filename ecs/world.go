package ecs

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs/component"
	"github.com/milk9111/nybble/ecs/render"
)

// Host is the engine side of a world: frame timing, the debug flag and the
// frame's drawing surface.
type Host interface {
	DeltaTime() float64
	Debug() bool
	Canvas() render.Canvas
}

// Level populates a world. LoadScene runs once, the first time the world
// is loaded.
type Level interface {
	LoadScene(w *World) error
}

// LevelFunc adapts a function to Level.
type LevelFunc func(w *World) error

func (f LevelFunc) LoadScene(w *World) error { return f(w) }

// SceneGraph is implemented by systems that keep renderers in a scene.
type SceneGraph interface {
	Insert(e *Entity)
	Remove(e *Entity) bool
}

// SceneBuilder is implemented by systems that rebuild their scene from the
// full entity list after the level is loaded.
type SceneBuilder interface {
	ConstructScene(entities []*Entity)
}

// Bounds is the playable area of a world. A world is unbounded unless both
// dimensions are positive.
type Bounds struct {
	Origin common.Vec2
	Width  float64
	Height float64
}

func Unbounded() Bounds {
	return Bounds{Width: -1, Height: -1}
}

func (b Bounds) IsBounded() bool {
	return b.Width > 0 && b.Height > 0
}

func (b Bounds) Rect() common.Rect {
	return common.Rect{X: b.Origin.X, Y: b.Origin.Y, Width: b.Width, Height: b.Height}
}

// World owns entities, systems and world-scoped scripts.
type World struct {
	Name string

	host      Host
	level     Level
	entities  *EntityManager
	scheduler *Scheduler
	scripts   []Script
	bounds    Bounds
	props     map[string]float64

	loaded  bool
	running bool
	doomed  []*Entity
}

// NewWorld creates an empty unbounded world. level may be nil.
func NewWorld(name string, level Level) *World {
	return &World{
		Name:      name,
		level:     level,
		entities:  NewEntityManager(),
		scheduler: NewScheduler(),
		bounds:    Unbounded(),
		props:     make(map[string]float64),
	}
}

func (w *World) SetHost(h Host) { w.host = h }
func (w *World) Host() Host     { return w.host }

// DeltaTime is the current frame's dt, or zero without a host.
func (w *World) DeltaTime() float64 {
	if w.host == nil {
		return 0
	}
	return w.host.DeltaTime()
}

func (w *World) Debug() bool {
	return w.host != nil && w.host.Debug()
}

// Canvas returns the host's canvas, or nil without a host.
func (w *World) Canvas() render.Canvas {
	if w.host == nil {
		return nil
	}
	return w.host.Canvas()
}

func (w *World) Bounds() Bounds        { return w.bounds }
func (w *World) SetBounds(b Bounds)    { w.bounds = b }
func (w *World) Loaded() bool          { return w.loaded }
func (w *World) Entities() []*Entity   { return w.entities.Entities() }
func (w *World) EntityCount() int      { return w.entities.Len() }
func (w *World) Scheduler() *Scheduler { return w.scheduler }

// Load runs the level's LoadScene the first time it is called and then
// hands the populated entity list to every SceneBuilder system.
func (w *World) Load() error {
	if w.loaded {
		return nil
	}
	if w.level != nil {
		if err := w.level.LoadScene(w); err != nil {
			return fmt.Errorf("load world %q: %w", w.Name, err)
		}
	}
	for _, s := range w.scheduler.Systems() {
		if b, ok := s.(SceneBuilder); ok {
			b.ConstructScene(w.entities.Entities())
		}
	}
	w.loaded = true
	log.Debug("world loaded", "world", w.Name, "entities", w.entities.Len())
	return nil
}

// AddSystem appends s to the processing order.
func (w *World) AddSystem(s System) {
	w.scheduler.Add(s)
}

func (w *World) RemoveSystem(tag string) bool {
	return w.scheduler.Remove(tag)
}

// System returns the first system registered under tag, or nil.
func (w *World) System(tag string) System {
	s, _ := w.scheduler.Lookup(tag)
	return s
}

// AddScript attaches a world-scoped script.
func (w *World) AddScript(s Script) error {
	if s == nil {
		return nil
	}
	if s.Scope() != ScopeWorld {
		return fmt.Errorf("add script %q to world %q: %w", s.Name(), w.Name, ErrScriptScope)
	}
	w.scripts = append(w.scripts, s)
	return nil
}

func (w *World) RemoveScript(name string) bool {
	for i, s := range w.scripts {
		if s.Name() == name {
			w.scripts = append(w.scripts[:i], w.scripts[i+1:]...)
			return true
		}
	}
	return false
}

func (w *World) Scripts() []Script {
	return w.scripts
}

// CreateEntity registers an entity with no components.
func (w *World) CreateEntity() *Entity {
	e := NewEntity()
	w.adopt(e)
	return e
}

// AddEntity registers an entity built outside the world. Its components
// are placed in the scene when the world is already loaded.
func (w *World) AddEntity(e *Entity) error {
	if e == nil {
		return ErrNilComponent
	}
	if e.world != nil && e.world != w {
		return fmt.Errorf("add %s to world %q: %w", e, w.Name, ErrEntityInOtherWorld)
	}
	w.adopt(e)
	if e.renderer != nil {
		w.sceneInsert(e)
	}
	return nil
}

func (w *World) adopt(e *Entity) {
	e.world = w
	w.entities.Add(e)
}

// CreateGameObject creates an entity with a transform, a renderer pivoted
// on the sprite's centre and a box collider sized to the sprite.
func (w *World) CreateGameObject(sprite render.Sprite) *Entity {
	e := w.CreateEntity()
	width, height := render.SpriteSize(sprite)
	mustAdd(e, component.NewTransform(common.Vec2{}))
	mustAdd(e, component.NewCenteredRenderer(sprite))
	mustAdd(e, component.NewBoxCollider(width, height))
	return e
}

// CreateBoxColliderObject creates an invisible box barrier.
func (w *World) CreateBoxColliderObject(width, height float64) *Entity {
	e := w.CreateEntity()
	mustAdd(e, component.NewTransform(common.Vec2{}))
	mustAdd(e, component.NewBoxCollider(width, height))
	return e
}

func (w *World) CreateCircleColliderObject(radius float64) *Entity {
	e := w.CreateEntity()
	mustAdd(e, component.NewTransform(common.Vec2{}))
	mustAdd(e, component.NewCircleCollider(radius))
	return e
}

func mustAdd(e *Entity, c component.Component) {
	if err := e.AddComponent(c); err != nil {
		panic(err)
	}
}

// DestroyEntity removes e from the scene and frees its id. During a frame
// the entity is hidden at once and unregistered when the frame ends.
func (w *World) DestroyEntity(e *Entity) error {
	if e == nil || !e.alive {
		return ErrEntityNotAlive
	}
	if e.world != w {
		return fmt.Errorf("destroy %s in world %q: %w", e, w.Name, ErrEntityInOtherWorld)
	}
	if e.renderer != nil {
		w.sceneRemove(e)
	}
	if w.running {
		e.alive = false
		w.doomed = append(w.doomed, e)
		return nil
	}
	w.entities.Remove(e)
	return nil
}

// Entity looks up a live entity by id.
func (w *World) Entity(id int) (*Entity, bool) {
	e, ok := w.entities.Get(id)
	if !ok || !e.alive {
		return nil, false
	}
	return e, true
}

// FindByTag returns the live entities carrying tag.
func (w *World) FindByTag(tag string) []*Entity {
	var out []*Entity
	for _, e := range w.entities.Entities() {
		if e.alive && e.Tag == tag {
			out = append(out, e)
		}
	}
	return out
}

// FindByName returns the first live entity named name.
func (w *World) FindByName(name string) *Entity {
	for _, e := range w.entities.Entities() {
		if e.alive && e.Name == name {
			return e
		}
	}
	return nil
}

// Property reads a named world value; missing names read as zero.
func (w *World) Property(name string) float64 {
	return w.props[name]
}

func (w *World) SetProperty(name string, v float64) {
	w.props[name] = v
}

// AddProperty adds delta to a named value and returns the result.
func (w *World) AddProperty(name string, delta float64) float64 {
	w.props[name] += delta
	return w.props[name]
}

func (w *World) HasProperty(name string) bool {
	_, ok := w.props[name]
	return ok
}

// TakeInput hands ev to the world scripts and then to every entity script.
func (w *World) TakeInput(ev Event) {
	defer w.end(w.begin())

	dt := w.DeltaTime()
	for _, s := range w.scripts {
		s.TakeInput(Context{World: w, DT: dt}, ev)
	}
	for _, e := range w.entities.Entities() {
		if !e.alive {
			continue
		}
		for _, s := range e.scripts {
			s.TakeInput(Context{World: w, Entity: e, DT: dt}, ev)
		}
	}
}

// Run processes one frame: systems in registration order, then entity
// scripts, then world scripts, then pending destructions.
func (w *World) Run() {
	defer w.end(w.begin())

	w.scheduler.Process(w, w.entities.Entities())

	dt := w.DeltaTime()
	for _, e := range w.entities.Entities() {
		if !e.alive {
			continue
		}
		for _, s := range e.scripts {
			s.Update(Context{World: w, Entity: e, DT: dt})
		}
	}
	for _, s := range w.scripts {
		s.Update(Context{World: w, DT: dt})
	}
}

// begin and end bracket script dispatch so destruction never mutates the
// entity list while it is being iterated. Calls may nest.
func (w *World) begin() bool {
	if w.running {
		return false
	}
	w.running = true
	return true
}

func (w *World) end(outer bool) {
	if !outer {
		return
	}
	w.running = false
	doomed := w.doomed
	w.doomed = nil
	for _, e := range doomed {
		w.entities.Remove(e)
	}
}

func (w *World) sceneInsert(e *Entity) {
	if !w.loaded {
		return
	}
	for _, s := range w.scheduler.Systems() {
		if g, ok := s.(SceneGraph); ok {
			g.Insert(e)
		}
	}
}

func (w *World) sceneRemove(e *Entity) {
	for _, s := range w.scheduler.Systems() {
		if g, ok := s.(SceneGraph); ok {
			g.Remove(e)
		}
	}
}
